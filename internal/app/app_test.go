package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/testutil"
	"github.com/atomicstack/flowview/internal/ui"
)

func writeCapture(t *testing.T) string {
	t.Helper()
	return testutil.WriteCapture(t, testutil.SampleFlow("https://example.com/app"))
}

func TestNewModelLoadsCapture(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "flowview.log"))
	model, stop, err := newModel(context.Background(), Config{
		CapturePath: writeCapture(t),
		Width:       80,
		Height:      24,
	})
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, ui.ScreenList, model.Screen())
	view := ui.NewHarness(model).View()
	assert.Contains(t, view, "Flows (1)")
	assert.Contains(t, view, "https://example.com/app")
}

func TestNewModelAppliesBindings(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "flowview.log"))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.toml"), []byte("[bindings]\nhelp = [\"H\"]\n"), 0o644))

	model, stop, err := newModel(context.Background(), Config{
		CapturePath: writeCapture(t),
		ConfigDir:   dir,
		Width:       80,
		Height:      24,
	})
	require.NoError(t, err)
	defer stop()

	h := ui.NewHarness(model)
	h.Key("?")
	assert.Equal(t, ui.ScreenList, h.Model().Screen())
	h.Key("H")
	assert.Equal(t, ui.ScreenHelp, h.Model().Screen())
}

func TestNewModelRejectsUnknownView(t *testing.T) {
	_, _, err := newModel(context.Background(), Config{
		CapturePath: writeCapture(t),
		DefaultView: "bogus",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, contentview.ErrUnknownView)
}

func TestNewModelMissingCapture(t *testing.T) {
	_, _, err := newModel(context.Background(), Config{
		CapturePath: filepath.Join(t.TempDir(), "missing.flows"),
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load capture:"))
}

func TestNewModelStartsWatcher(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "flowview.log"))
	model, stop, err := newModel(context.Background(), Config{
		CapturePath:  writeCapture(t),
		PollInterval: 50_000_000,
	})
	require.NoError(t, err)
	stop()
	assert.NotNil(t, model.Init())
}
