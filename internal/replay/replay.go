// Package replay re-issues captured requests over HTTP.
package replay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/atomicstack/flowview/internal/flow"
)

// DefaultTimeout bounds one replay when Options leave it unset.
const DefaultTimeout = 30 * time.Second

// Options tune the replay client.
type Options struct {
	Timeout time.Duration
}

// hop-by-hop and framing headers the transport manages itself
var skipHeaders = map[string]bool{
	"connection":        true,
	"content-length":    true,
	"host":              true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"te":                true,
	"trailer":           true,
	"transfer-encoding": true,
	"upgrade":           true,
}

// Client sends requests and builds response messages.
type Client struct {
	http *http.Client
	opts Options
}

// New builds a client. Responses are kept exactly as received: redirects
// are not followed and bodies are not decompressed.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		opts: opts,
	}
}

// WithHTTPClient swaps the underlying client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// Replay sends req and returns the response as a message.
func (c *Client) Replay(ctx context.Context, req *flow.Message) (*flow.Message, error) {
	if req == nil || !req.IsRequest() {
		return nil, fmt.Errorf("replay: not a request")
	}
	httpReq, err := buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replay %s %s: %w", req.Method, req.URL(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replay: read response: %w", err)
	}
	return toMessage(resp, data), nil
}

func buildRequest(ctx context.Context, req *flow.Message) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var body io.Reader
	if raw, ok := req.RawContent(); ok && len(raw) > 0 {
		body = bytes.NewReader(raw)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("replay: build request: %w", err)
	}
	for _, field := range req.Headers().Fields() {
		if skipHeaders[strings.ToLower(field.Name)] {
			continue
		}
		httpReq.Header.Add(field.Name, field.Value)
	}
	if host, ok := req.Headers().Get("host"); ok && host != "" {
		httpReq.Host = host
	}
	return httpReq, nil
}

func toMessage(resp *http.Response, body []byte) *flow.Message {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	var headers flow.Headers
	for _, name := range names {
		for _, v := range resp.Header[name] {
			headers.Add(name, v)
		}
	}
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
	msg := flow.NewResponse(resp.StatusCode, reason, headers, body)
	if resp.Proto != "" {
		msg.HTTPVersion = resp.Proto
	}
	msg.Timestamp = time.Now()
	return msg
}
