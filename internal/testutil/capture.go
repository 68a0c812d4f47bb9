package testutil

import (
	"path/filepath"
	"testing"

	"github.com/atomicstack/flowview/internal/flow"
)

// SampleFlow builds a completed GET flow for url with a small JSON response.
func SampleFlow(url string) *flow.Flow {
	req := flow.NewRequest("GET", url, flow.NewHeaders("Host", "example.com"), nil)
	resp := flow.NewResponse(200, "OK", flow.NewHeaders("Content-Type", "application/json"), []byte(`{"ok":true}`))
	return flow.New(req, resp)
}

// WriteCapture saves flows to a fresh capture file and returns its path.
func WriteCapture(t *testing.T, flows ...*flow.Flow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.flows")
	if err := flow.SaveFile(path, flows...); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return path
}
