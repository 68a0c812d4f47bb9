package inspect

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/flowview/internal/contentview"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/keymap"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/render"
	"github.com/atomicstack/flowview/internal/state"
	"github.com/atomicstack/flowview/internal/viewer"
)

type recordingLogger struct {
	levels   []logging.Level
	messages []string
}

func (l *recordingLogger) Log(level logging.Level, message string) {
	l.levels = append(l.levels, level)
	l.messages = append(l.messages, message)
}

type budgetRenderer struct {
	modes   []string
	budgets []int
}

func (r *budgetRenderer) Render(mode string, msg *flow.Message, budget int) (string, []contentview.Line) {
	r.modes = append(r.modes, mode)
	r.budgets = append(r.budgets, budget)
	return mode, nil
}

type fakeReplayer struct {
	resp *flow.Message
	err  error
	seen *flow.Message
}

func (r *fakeReplayer) Replay(_ context.Context, req *flow.Message) (*flow.Message, error) {
	r.seen = req
	return r.resp, r.err
}

type fakeSaver struct {
	path  string
	flow  *flow.Flow
	body  []byte
	err   error
	calls int
}

func (s *fakeSaver) SaveFlow(path string, f *flow.Flow) error {
	s.calls++
	s.path, s.flow = path, f
	return s.err
}

func (s *fakeSaver) SaveBody(path string, content []byte) error {
	s.calls++
	s.path, s.body = path, content
	return s.err
}

type fakeViewer struct {
	content     []byte
	contentType string
	calls       int
}

func (v *fakeViewer) Prepare(content []byte, contentType string) (*viewer.Launch, error) {
	v.calls++
	v.content, v.contentType = content, contentType
	return &viewer.Launch{Cmd: exec.Command("true")}, nil
}

type fakeExporter struct {
	path      string
	msg       *flow.Message
	clipboard int
	err       error
}

func (e *fakeExporter) ExportFile(path string, msg *flow.Message) error {
	e.path, e.msg = path, msg
	return e.err
}

func (e *fakeExporter) ExportClipboard(msg *flow.Message) error {
	e.clipboard++
	e.msg = msg
	return e.err
}

type fakeScripts struct {
	edit func(*flow.Flow)
}

func (s fakeScripts) RunScript(_ context.Context, _ string, f *flow.Flow) (*flow.Flow, error) {
	if s.edit != nil {
		s.edit(f)
	}
	return f, nil
}

func newFlow(body string) *flow.Flow {
	req := flow.NewRequest("GET", "https://example.com/items", flow.NewHeaders("Host", "example.com"), []byte(body))
	resp := flow.NewResponse(200, "OK", flow.NewHeaders("Content-Type", "application/json"), []byte(`{"ok":true}`))
	return flow.New(req, resp)
}

func newDispatcher(t *testing.T, flows *flow.Collection, cfg Config, deps Deps) *Dispatcher {
	t.Helper()
	deps.Flows = flows
	if deps.Renderer == nil {
		r, err := render.New(contentview.Default(), nil, 0)
		require.NoError(t, err)
		deps.Renderer = r
	}
	d, err := New(cfg, deps)
	require.NoError(t, err)
	return d
}

func runTask(t *testing.T, d *Dispatcher, out Outcome) Outcome {
	t.Helper()
	require.NotNil(t, out.Task, "expected a background task")
	err := out.Task.Run(context.Background())
	return d.Finish(out.Task, err)
}

func TestNewRequiresFlowsAndRenderer(t *testing.T) {
	_, err := New(Config{}, Deps{})
	require.Error(t, err)
	_, err = New(Config{}, Deps{Flows: flow.NewCollection()})
	require.Error(t, err)
}

func TestInterceptedRequestLabelUntilAccepted(t *testing.T) {
	f := flow.New(flow.NewRequest("GET", "https://example.com/", flow.Headers{}, nil), nil)
	f.Intercepted = true
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})

	labels := TabLabels(f)
	assert.Equal(t, "Request intercepted", labels[state.TabRequest])
	assert.Equal(t, "Response", labels[state.TabResponse])
	assert.Equal(t, "Detail", labels[state.TabDetail])

	out := d.Handle("a")
	assert.True(t, out.Handled)
	assert.True(t, out.Stale)
	assert.Equal(t, keymap.AcceptOne, out.Action)
	assert.False(t, f.Intercepted)
	assert.Equal(t, "Request", TabLabels(f)[state.TabRequest])
}

func TestInterceptedResponseLabel(t *testing.T) {
	f := newFlow("")
	f.Intercepted = true
	labels := TabLabels(f)
	assert.Equal(t, "Request", labels[state.TabRequest])
	assert.Equal(t, "Response intercepted", labels[state.TabResponse])
}

func TestAcceptOneOnLiveFlowIsNoop(t *testing.T) {
	d := newDispatcher(t, flow.NewCollection(newFlow("")), Config{}, Deps{})
	out := d.Handle("a")
	assert.True(t, out.Handled)
	assert.False(t, out.Stale)
}

func TestAcceptAllResumesEveryInterceptedFlow(t *testing.T) {
	a, b, c := newFlow(""), newFlow(""), newFlow("")
	a.Intercepted, c.Intercepted = true, true
	d := newDispatcher(t, flow.NewCollection(a, b, c), Config{}, Deps{})

	out := d.Handle("A")
	assert.True(t, out.Stale)
	assert.Empty(t, d.Flows().Intercepted())
}

func TestNavigationBoundary(t *testing.T) {
	a, b := newFlow("a"), newFlow("b")
	d := newDispatcher(t, flow.NewCollection(a, b), Config{}, Deps{})

	out := d.Handle("p")
	assert.Equal(t, NoticeNoMoreFlows, out.Notice)
	assert.Equal(t, NavNone, out.Nav)
	assert.Equal(t, a, d.Flow())

	out = d.Handle(" ")
	assert.Equal(t, NavFlow, out.Nav)
	assert.Empty(t, out.Notice)
	assert.False(t, out.Stale)
	assert.Equal(t, b, d.Flow())

	out = d.Handle(" ")
	assert.Equal(t, NoticeNoMoreFlows, out.Notice)
	assert.Equal(t, b, d.Flow())

	d.Handle("p")
	assert.Equal(t, a, d.Flow())
}

func TestTabCycling(t *testing.T) {
	d := newDispatcher(t, flow.NewCollection(newFlow("")), Config{}, Deps{})
	require.Equal(t, state.TabRequest, d.Tab())

	d.Handle("tab")
	assert.Equal(t, state.TabResponse, d.Tab())
	d.Handle("l")
	assert.Equal(t, state.TabDetail, d.Tab())
	d.Handle("tab")
	assert.Equal(t, state.TabRequest, d.Tab())
	d.Handle("h")
	assert.Equal(t, state.TabDetail, d.Tab())
}

func TestBodyKeysOnDetailTabAreRejected(t *testing.T) {
	f := newFlow("payload")
	viewer := &fakeViewer{}
	d := newDispatcher(t, flow.NewCollection(f), Config{EditorConfigured: true}, Deps{Viewer: viewer, Exporter: &fakeExporter{}})
	d.SetTab(state.TabDetail)
	before := f.Snapshot()

	for _, key := range []string{"b", "f", "m", "x", "v", "z", "E", "C"} {
		out := d.Handle(key)
		assert.True(t, out.Handled, key)
		assert.Equal(t, NoticeWrongTab, out.Notice, key)
		assert.False(t, out.Stale, key)
		assert.Nil(t, out.Prompt, key)
		assert.Nil(t, out.Task, key)
	}
	assert.True(t, before.Request.Equal(f.Request))
	assert.True(t, before.Response.Equal(f.Response))
	assert.False(t, f.HasBackup())
	assert.Zero(t, viewer.calls)
	assert.False(t, d.views.FullContents(f.ID, state.TabDetail))
}

func TestBodyKeysWithoutResponseAreRejected(t *testing.T) {
	f := flow.New(flow.NewRequest("GET", "https://example.com/", flow.Headers{}, []byte("x")), nil)
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})
	d.SetTab(state.TabResponse)

	out := d.Handle("x")
	assert.Equal(t, NoticeWrongTab, out.Notice)
	desc, lines := d.Render(f, state.TabResponse)
	assert.Empty(t, desc)
	require.Len(t, lines, 1)
	assert.Equal(t, NoResponse, lines[0].Text())
}

func TestUnboundAndScreenKeysAreUnhandled(t *testing.T) {
	d := newDispatcher(t, flow.NewCollection(newFlow("")), Config{}, Deps{})

	out := d.Handle("F12")
	assert.False(t, out.Handled)
	assert.Empty(t, out.Action)

	out = d.Handle("q")
	assert.False(t, out.Handled)
	assert.Equal(t, keymap.Back, out.Action)

	out = d.Handle("pgdown")
	assert.True(t, out.Handled)
	assert.Equal(t, keymap.PageDown, out.Scroll)
	assert.False(t, out.Stale)
}

func TestEmptyCollectionReturnsToList(t *testing.T) {
	d := newDispatcher(t, flow.NewCollection(), Config{}, Deps{})
	out := d.Handle("d")
	assert.True(t, out.Handled)
	assert.Equal(t, NavList, out.Nav)
}

func TestDeleteKillsEvictsAndRefocuses(t *testing.T) {
	a, b := newFlow("a"), newFlow("b")
	a.Intercepted, a.Killable = true, true
	views := state.NewViewStore()
	views.SetViewMode(a.ID, state.TabRequest, "hex")
	d := newDispatcher(t, flow.NewCollection(a, b), Config{}, Deps{Views: views})

	out := d.Handle("d")
	assert.True(t, out.Stale)
	assert.Equal(t, NavFlow, out.Nav)
	assert.Equal(t, "Connection killed", a.Error)
	assert.Equal(t, b, d.Flow())
	assert.Equal(t, 0, views.Flows())

	out = d.Handle("d")
	assert.Equal(t, NavList, out.Nav)
	assert.Zero(t, d.Flows().Len())
}

func TestDuplicateFocusesCopy(t *testing.T) {
	a, b := newFlow("a"), newFlow("b")
	d := newDispatcher(t, flow.NewCollection(a, b), Config{}, Deps{})

	out := d.Handle("D")
	assert.Equal(t, NoticeDuplicated, out.Notice)
	assert.Equal(t, NavFlow, out.Nav)
	require.Equal(t, 3, d.Flows().Len())

	cp := d.Flow()
	assert.NotEqual(t, a.ID, cp.ID)
	assert.Equal(t, 1, d.Flows().Index(cp))
	assert.True(t, a.Request.Equal(cp.Request))
}

func TestRevert(t *testing.T) {
	f := newFlow("payload")
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})

	out := d.Handle("V")
	assert.Equal(t, NoticeNotModified, out.Notice)
	assert.False(t, out.Stale)

	out = d.Handle("x")
	assert.True(t, out.Stale)
	_, ok := f.Request.RawContent()
	require.False(t, ok)
	require.True(t, f.Modified())

	out = d.Handle("V")
	assert.Equal(t, NoticeReverted, out.Notice)
	assert.True(t, out.Stale)
	raw, ok := f.Request.RawContent()
	require.True(t, ok)
	assert.Equal(t, "payload", string(raw))
	assert.False(t, f.Modified())
}

func TestLoadFullSwitchesToUnlimitedBudget(t *testing.T) {
	f := newFlow("payload")
	r := &budgetRenderer{}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Renderer: r})

	d.Render(f, state.TabRequest)
	out := d.Handle("f")
	assert.Equal(t, NoticeLoadingFull, out.Notice)
	assert.True(t, out.Stale)
	d.Render(f, state.TabRequest)
	d.Render(f, state.TabResponse)

	assert.Equal(t, []int{render.DefaultBudget, render.Unlimited, render.DefaultBudget}, r.budgets)
}

func TestChangeModeChooser(t *testing.T) {
	f := newFlow("payload")
	r := &budgetRenderer{}
	d := newDispatcher(t, flow.NewCollection(f), Config{DefaultViewMode: "raw"}, Deps{Renderer: r})

	out := d.Handle("m")
	require.NotNil(t, out.Prompt)
	p := out.Prompt
	assert.Equal(t, PromptChooser, p.Kind)
	assert.Equal(t, "raw", p.Selected)
	assert.Equal(t, f.ID, p.FlowID())
	assert.Len(t, p.Choices, len(contentview.Default().Names()))

	out = d.Answer(p, "json")
	assert.True(t, out.Stale)
	assert.Equal(t, "json", d.ResolveViewMode(f, state.TabRequest))
	assert.Equal(t, "raw", d.ResolveViewMode(f, state.TabResponse))

	out = d.Answer(p, "nonsense")
	assert.Equal(t, SeverityError, out.Severity)
	assert.Equal(t, "json", d.ResolveViewMode(f, state.TabRequest))

	d.Render(f, state.TabRequest)
	assert.Equal(t, []string{"json"}, r.modes)
}

func TestResolveViewModeIsReadOnly(t *testing.T) {
	f := newFlow("")
	views := state.NewViewStore()
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Views: views})

	assert.Equal(t, DefaultViewMode, d.ResolveViewMode(f, state.TabRequest))
	assert.Equal(t, DefaultViewMode, d.ResolveViewMode(f, state.TabRequest))
	assert.Zero(t, views.Flows())
}

func TestEncodeThenDecodeRoundTrip(t *testing.T) {
	body := strings.Repeat("encode me ", 20)
	f := newFlow(body)
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})

	out := d.Handle("z")
	require.NotNil(t, out.Prompt)
	assert.Equal(t, PromptOneKey, out.Prompt.Kind)
	assert.True(t, f.HasBackup())
	assert.Equal(t, []string{"z", "d", "b"}, []string{out.Prompt.Choices[0].Key, out.Prompt.Choices[1].Key, out.Prompt.Choices[2].Key})

	out = d.Answer(out.Prompt, "z")
	assert.True(t, out.Stale)
	assert.Equal(t, "gzip", f.Request.ContentEncoding())

	out = d.Handle("z")
	assert.Nil(t, out.Prompt)
	assert.Empty(t, out.Notice)
	assert.Equal(t, flow.IdentityEncoding, f.Request.ContentEncoding())
	raw, _ := f.Request.RawContent()
	assert.Equal(t, body, string(raw))
}

func TestEncodePromptIgnoresUnknownKey(t *testing.T) {
	f := newFlow("abc")
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})
	out := d.Handle("z")
	require.NotNil(t, out.Prompt)

	d.Answer(out.Prompt, "q")
	assert.Equal(t, flow.IdentityEncoding, f.Request.ContentEncoding())
}

func TestDecodeFailureLeavesContent(t *testing.T) {
	req := flow.NewRequest("POST", "https://example.com/", flow.NewHeaders("Content-Encoding", "gzip"), []byte("garbage"))
	f := flow.New(req, nil)
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})

	out := d.Handle("z")
	assert.Equal(t, NoticeDecodeFailed, out.Notice)
	raw, _ := f.Request.RawContent()
	assert.Equal(t, "garbage", string(raw))
	assert.Equal(t, "gzip", f.Request.ContentEncoding())
}

func TestViewExternal(t *testing.T) {
	f := newFlow("")
	viewer := &fakeViewer{}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Viewer: viewer})
	d.SetTab(state.TabResponse)

	out := d.Handle("v")
	assert.Equal(t, NoticeNoEditor, out.Notice)
	assert.Zero(t, viewer.calls)

	d = newDispatcher(t, flow.NewCollection(f), Config{EditorConfigured: true}, Deps{Viewer: viewer})
	d.SetTab(state.TabResponse)
	out = d.Handle("v")
	assert.Empty(t, out.Notice)
	assert.NotNil(t, out.Launch)
	require.Equal(t, 1, viewer.calls)
	assert.Equal(t, `{"ok":true}`, string(viewer.content))
	assert.Equal(t, "application/json", viewer.contentType)

	d.SetTab(state.TabRequest)
	d.Handle("v")
	assert.Equal(t, 1, viewer.calls, "empty bodies are not opened")
}

func TestReplayFailureLogsWarningAndMarksStale(t *testing.T) {
	f := newFlow("")
	logger := &recordingLogger{}
	replayer := &fakeReplayer{err: errors.New("connection refused")}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Replayer: replayer, Logger: logger})

	out := d.Handle("r")
	assert.True(t, out.Handled)
	out = runTask(t, d, out)

	assert.True(t, out.Stale)
	assert.Equal(t, keymap.Replay, out.Action)
	require.Len(t, logger.messages, 1)
	assert.Equal(t, logging.LevelWarn, logger.levels[0])
	assert.Equal(t, "Replay error: connection refused", logger.messages[0])
	assert.False(t, f.Modified())
}

func TestReplayReplacesResponse(t *testing.T) {
	f := newFlow("")
	fresh := flow.NewResponse(201, "Created", flow.Headers{}, []byte("new"))
	replayer := &fakeReplayer{resp: fresh}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Replayer: replayer})

	out := runTask(t, d, d.Handle("r"))
	assert.True(t, out.Stale)
	assert.Equal(t, fresh, f.Response)
	assert.True(t, f.Modified())
	assert.True(t, replayer.seen.Equal(f.Request))
	assert.NotSame(t, f.Request, replayer.seen)
}

func TestSaveFlowPrompt(t *testing.T) {
	f := newFlow("payload")
	saver := &fakeSaver{}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{FlowSaver: saver})

	out := d.Handle("W")
	require.NotNil(t, out.Prompt)
	assert.Equal(t, PromptPath, out.Prompt.Kind)
	assert.Equal(t, "Save this flow", out.Prompt.Title)

	cancelled := d.Answer(out.Prompt, "  ")
	assert.Nil(t, cancelled.Task)

	done := runTask(t, d, d.Answer(out.Prompt, "/tmp/flow.yaml"))
	assert.Equal(t, "Saved flow to /tmp/flow.yaml", done.Notice)
	assert.Equal(t, "/tmp/flow.yaml", saver.path)
	assert.Equal(t, f.ID, saver.flow.ID)
	assert.NotSame(t, f, saver.flow)
}

func TestSaveFlowErrorBecomesNotice(t *testing.T) {
	f := newFlow("")
	saver := &fakeSaver{err: errors.New("disk full")}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{FlowSaver: saver})

	p := d.Handle("W").Prompt
	done := runTask(t, d, d.Answer(p, "out.yaml"))
	assert.Equal(t, SeverityError, done.Severity)
	assert.Contains(t, done.Notice, "disk full")
}

func TestSaveBodyUsesActiveTab(t *testing.T) {
	f := newFlow("request body")
	saver := &fakeSaver{}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{BodySaver: saver})
	d.SetTab(state.TabResponse)

	out := d.Handle("b")
	require.NotNil(t, out.Prompt)
	assert.Equal(t, "Save response content to", out.Prompt.Title)

	d.SetTab(state.TabRequest)
	runTask(t, d, d.Answer(out.Prompt, "body.bin"))
	assert.Equal(t, `{"ok":true}`, string(saver.body), "the prompt keeps the tab it was raised on")
}

func TestRunScriptAppliesChanges(t *testing.T) {
	f := newFlow("payload")
	scripts := fakeScripts{edit: func(snap *flow.Flow) {
		snap.Request.Headers().Set("X-Script", "1")
	}}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Scripts: scripts})

	p := d.Handle("|").Prompt
	require.NotNil(t, p)
	out := runTask(t, d, d.Answer(p, "script.js"))
	assert.True(t, out.Stale)
	assert.Equal(t, "Ran script.js", out.Notice)
	v, ok := f.Request.Headers().Get("x-script")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.True(t, f.Modified())
}

func TestExport(t *testing.T) {
	f := newFlow("payload")
	exporter := &fakeExporter{}
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{Exporter: exporter})

	p := d.Handle("E").Prompt
	require.NotNil(t, p)
	out := runTask(t, d, d.Answer(p, "req.txt"))
	assert.Equal(t, "Exported request to req.txt", out.Notice)
	assert.Equal(t, "req.txt", exporter.path)
	assert.True(t, exporter.msg.IsRequest())

	out = runTask(t, d, d.Handle("C"))
	assert.Equal(t, "Copied request to clipboard.", out.Notice)
	assert.Equal(t, 1, exporter.clipboard)
}

func TestAnswerForRemovedFlow(t *testing.T) {
	a, b := newFlow("a"), newFlow("b")
	d := newDispatcher(t, flow.NewCollection(a, b), Config{}, Deps{FlowSaver: &fakeSaver{}})

	p := d.Handle("W").Prompt
	d.Handle("d")
	out := d.Answer(p, "x.yaml")
	assert.Equal(t, NoticeFlowGone, out.Notice)
	assert.Nil(t, out.Task)
}

func TestRenderUsesRendererBudget(t *testing.T) {
	f := newFlow(strings.Repeat("x", 80*render.DefaultBudget*2))
	d := newDispatcher(t, flow.NewCollection(f), Config{DefaultViewMode: "raw"}, Deps{})

	_, lines := d.Render(f, state.TabRequest)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1].Text(), "Press f to load all data.")

	d.Handle("f")
	_, lines = d.Render(f, state.TabRequest)
	assert.NotContains(t, lines[len(lines)-1].Text(), "Press f to load all data.")

	desc, lines := d.Render(f, state.TabDetail)
	assert.Empty(t, desc)
	assert.Nil(t, lines)
}

func TestDeleteBodyClearsActiveMessage(t *testing.T) {
	f := newFlow("payload")
	d := newDispatcher(t, flow.NewCollection(f), Config{}, Deps{})
	d.SetTab(state.TabResponse)

	out := d.Handle("x")
	assert.True(t, out.Handled)
	assert.True(t, out.Stale)
	_, ok := f.Response.RawContent()
	assert.False(t, ok)
	body, ok := f.Request.RawContent()
	require.True(t, ok)
	assert.Equal(t, "payload", string(body))
	assert.True(t, f.Modified())

	d.Handle("V")
	restored, ok := d.Flow().Response.RawContent()
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, string(restored))
}

func TestReplayLandsOnReloadedFlow(t *testing.T) {
	f := newFlow("")
	coll := flow.NewCollection(f)
	fresh := flow.NewResponse(201, "Created", flow.Headers{}, []byte("new"))
	d := newDispatcher(t, coll, Config{}, Deps{Replayer: &fakeReplayer{resp: fresh}})

	out := d.Handle("r")
	require.NotNil(t, out.Task)
	reloaded := f.Snapshot()
	require.True(t, coll.Update(reloaded))
	require.NoError(t, out.Task.Run(context.Background()))

	done := d.Finish(out.Task, nil)
	assert.True(t, done.Stale)
	assert.Equal(t, fresh, coll.Get(f.ID).Response)
	assert.Same(t, reloaded, coll.Get(f.ID))
}

func TestReplayForDeletedFlowReportsGone(t *testing.T) {
	f := newFlow("")
	coll := flow.NewCollection(f)
	d := newDispatcher(t, coll, Config{}, Deps{Replayer: &fakeReplayer{resp: flow.NewResponse(200, "OK", flow.Headers{}, nil)}})

	out := d.Handle("r")
	require.NotNil(t, out.Task)
	coll.Remove(f)
	require.NoError(t, out.Task.Run(context.Background()))
	assert.Equal(t, NoticeFlowGone, d.Finish(out.Task, nil).Notice)
}

func TestRunScriptLandsOnReloadedFlow(t *testing.T) {
	f := newFlow("payload")
	coll := flow.NewCollection(f)
	scripts := fakeScripts{edit: func(snap *flow.Flow) {
		snap.Request.Headers().Set("X-Script", "1")
	}}
	d := newDispatcher(t, coll, Config{}, Deps{Scripts: scripts})

	p := d.Handle("|").Prompt
	require.NotNil(t, p)
	out := d.Answer(p, "script.js")
	require.NotNil(t, out.Task)
	reloaded := f.Snapshot()
	coll.Update(reloaded)
	require.NoError(t, out.Task.Run(context.Background()))

	done := d.Finish(out.Task, nil)
	assert.Equal(t, "Ran script.js", done.Notice)
	v, ok := reloaded.Request.Headers().Get("x-script")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.True(t, reloaded.Modified())
}
