package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/flowview/internal/inspect"
	"github.com/atomicstack/flowview/internal/state"
)

func TestChangeModeChooserFiltersAndSelects(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("m")
	m := h.Model()
	if m.prompt == nil || m.prompt.chooser == nil {
		t.Fatalf("expected chooser prompt")
	}
	if item, ok := m.prompt.chooser.Current(); !ok || item.ID != "auto" {
		t.Fatalf("expected current mode preselected, got %+v", item)
	}
	h.Type("hex")
	if got := len(m.prompt.chooser.Items); got != 1 {
		t.Fatalf("expected filter to leave one mode, got %d", got)
	}
	h.Key("enter")
	if m.prompt != nil {
		t.Fatalf("expected prompt to close")
	}
	f := m.inspector.Flow()
	if got := m.inspector.ResolveViewMode(f, state.TabRequest); got != "hex" {
		t.Fatalf("expected hex mode, got %q", got)
	}
}

func TestChooserArrowKeysMoveCursor(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("m")
	chooser := h.Model().prompt.chooser
	h.Key("down")
	if chooser.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", chooser.Cursor)
	}
	h.Key("up")
	h.Key("up")
	if chooser.Cursor != 0 {
		t.Fatalf("expected cursor clamped at 0, got %d", chooser.Cursor)
	}
}

func TestChooserEscapeCancels(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("m")
	h.Key("esc")
	m := h.Model()
	if m.prompt != nil {
		t.Fatalf("expected prompt to close on esc")
	}
	if m.Screen() != ScreenFlow {
		t.Fatalf("esc on a prompt must not leave the flow view, got %s", m.Screen())
	}
	if got := m.inspector.ResolveViewMode(m.inspector.Flow(), state.TabRequest); got != "auto" {
		t.Fatalf("expected mode unchanged, got %q", got)
	}
}

func TestSaveFlowPromptRunsTask(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHarness(t, inspect.Deps{FlowSaver: saver}, testFlow("/a"))
	h.Key("enter")
	h.Key("W")
	m := h.Model()
	if m.prompt == nil || m.prompt.form == nil {
		t.Fatalf("expected path prompt")
	}
	if !strings.Contains(h.View(), "Save this flow") {
		t.Fatalf("expected prompt title in view, got:\n%s", h.View())
	}
	path := filepath.Join(t.TempDir(), "out.flow")
	h.Type(path)
	h.Key("enter")
	if saver.path != path {
		t.Fatalf("expected save to %q, got %q", path, saver.path)
	}
	if !strings.Contains(m.notice, "Saved flow to") {
		t.Fatalf("expected saved notice, got %q", m.notice)
	}
}

func TestSaveFlowFailureIsError(t *testing.T) {
	saver := &stubSaver{err: errors.New("disk full")}
	h := newTestHarness(t, inspect.Deps{FlowSaver: saver}, testFlow("/a"))
	h.Key("W")
	h.Type("out.flow")
	h.Key("enter")
	m := h.Model()
	if m.noticeSeverity != inspect.SeverityError || !strings.Contains(m.notice, "disk full") {
		t.Fatalf("expected error notice, got %q", m.notice)
	}
}

func TestEmptyPathCancels(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHarness(t, inspect.Deps{FlowSaver: saver}, testFlow("/a"))
	h.Key("W")
	h.Key("enter")
	if h.Model().prompt != nil {
		t.Fatalf("expected prompt to close")
	}
	if saver.path != "" {
		t.Fatalf("expected no save, got %q", saver.path)
	}
}

func TestPathPromptEscapeCancels(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHarness(t, inspect.Deps{FlowSaver: saver}, testFlow("/a"))
	h.Key("W")
	h.Type("x")
	h.Key("esc")
	if h.Model().prompt != nil {
		t.Fatalf("expected prompt to close")
	}
	if saver.path != "" {
		t.Fatalf("expected no save, got %q", saver.path)
	}
}

func TestEncodeOneKeyPrompt(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("z")
	m := h.Model()
	if m.prompt == nil || m.prompt.prompt.Kind != inspect.PromptOneKey {
		t.Fatalf("expected one-key prompt")
	}
	if !strings.Contains(h.View(), "gzip") {
		t.Fatalf("expected choices in status line, got:\n%s", h.View())
	}
	h.Key("z")
	if m.prompt != nil {
		t.Fatalf("expected prompt to close")
	}
	if got := m.inspector.Flow().Request.ContentEncoding(); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}
}

func TestOneKeyPromptUnknownKeyCancels(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("z")
	h.Key("q")
	m := h.Model()
	if m.prompt != nil {
		t.Fatalf("expected prompt to close")
	}
	if m.Screen() != ScreenFlow {
		t.Fatalf("answer keys must not reach the flow view, got %s", m.Screen())
	}
	if got := m.inspector.Flow().Request.ContentEncoding(); got != "identity" {
		t.Fatalf("expected identity encoding, got %q", got)
	}
}

func TestBodyActionOnDetailTabNeedsMessage(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("tab")
	h.Key("tab")
	h.Key("m")
	m := h.Model()
	if m.prompt != nil {
		t.Fatalf("expected no prompt on the detail tab")
	}
	if m.notice != inspect.NoticeWrongTab {
		t.Fatalf("expected %q, got %q", inspect.NoticeWrongTab, m.notice)
	}
}

func TestChooserShortcutRanksFirst(t *testing.T) {
	h := newTestHarness(t, inspect.Deps{}, testFlow("/a"))
	h.Key("enter")
	h.Key("m")
	h.Type("e")
	chooser := h.Model().prompt.chooser
	if item, ok := chooser.Current(); !ok || item.ID != "hex" {
		t.Fatalf("expected hex for its shortcut, got %+v", item)
	}
	h.Key("backspace")
	if item, _ := chooser.Current(); item.ID != "auto" {
		t.Fatalf("expected the preselected mode back after clearing, got %q", item.ID)
	}
}
