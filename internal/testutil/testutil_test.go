package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/flowview/internal/flow"
)

func TestRepoRootFindsModule(t *testing.T) {
	root := RepoRoot(t)
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("expected go.mod under %s: %v", root, err)
	}
}

func TestWriteCaptureRoundTrip(t *testing.T) {
	f := SampleFlow("https://example.com/a")
	path := WriteCapture(t, f)
	flows, err := flow.LoadFile(path)
	if err != nil {
		t.Fatalf("load capture: %v", err)
	}
	if len(flows) != 1 || flows[0].ID != f.ID {
		t.Fatalf("expected the sample flow back, got %d flows", len(flows))
	}
	if flows[0].Response == nil || flows[0].Response.StatusCode != 200 {
		t.Fatalf("expected response to survive the round trip")
	}
}
