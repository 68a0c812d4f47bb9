package script

import (
	"github.com/atomicstack/flowview/internal/flow"
)

type flowAPI struct {
	flow *flow.Flow
}

func newFlowAPI(f *flow.Flow) *flowAPI {
	return &flowAPI{flow: f}
}

func (api *flowAPI) object() map[string]interface{} {
	obj := map[string]interface{}{
		"id":          api.flow.ID,
		"intercepted": api.flow.Intercepted,
		"request":     requestAPI(api.flow.Request),
	}
	if api.flow.Response != nil {
		obj["response"] = responseAPI(api.flow.Response)
	}
	return obj
}

func requestAPI(m *flow.Message) map[string]interface{} {
	obj := messageAPI(m)
	obj["getMethod"] = func() string { return m.Method }
	obj["setMethod"] = func(method string) { m.Method = method }
	obj["getURL"] = m.URL
	obj["getHost"] = func() string { return m.Host }
	obj["setHost"] = func(host string) { m.Host = host }
	obj["getPath"] = func() string { return m.Path }
	obj["setPath"] = func(path string) { m.Path = path }
	return obj
}

func responseAPI(m *flow.Message) map[string]interface{} {
	obj := messageAPI(m)
	obj["getStatus"] = func() int { return m.StatusCode }
	obj["getReason"] = func() string { return m.Reason }
	obj["setStatus"] = func(code int, reason string) {
		m.StatusCode = code
		if reason != "" {
			m.Reason = reason
		}
	}
	return obj
}

func messageAPI(m *flow.Message) map[string]interface{} {
	return map[string]interface{}{
		"getHeader": func(name string) string {
			v, _ := m.Headers().Get(name)
			return v
		},
		"setHeader": func(name, value string) {
			m.Headers().Set(name, value)
		},
		"addHeader": func(name, value string) {
			m.Headers().Add(name, value)
		},
		"removeHeader": func(name string) {
			m.Headers().Del(name)
		},
		"getBody": func() string {
			body, _ := m.Content()
			return string(body)
		},
		"setBody": func(body string) error {
			return m.SetContent([]byte(body))
		},
		"clearBody": m.ClearContent,
		"hasBody": func() bool {
			_, ok := m.RawContent()
			return ok
		},
	}
}
