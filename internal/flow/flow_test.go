package flow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFlow() *Flow {
	req := NewRequest("POST", "https://example.com/api/items?id=1",
		NewHeaders("Host", "example.com", "Content-Type", "application/json"),
		[]byte(`{"name":"widget"}`))
	resp := NewResponse(200, "OK", NewHeaders("Content-Type", "text/plain"), []byte("created"))
	return New(req, resp)
}

func TestRequestURLParsing(t *testing.T) {
	req := NewRequest("GET", "http://localhost:8080/a/b?c=d", Headers{}, nil)
	assert.Equal(t, "http", req.Scheme)
	assert.Equal(t, "localhost", req.Host)
	assert.Equal(t, 8080, req.Port)
	assert.Equal(t, "/a/b?c=d", req.Path)
	assert.Equal(t, "http://localhost:8080/a/b?c=d", req.URL())
	assert.Equal(t, "/a/b?c=d", req.SecondaryID())

	_, ok := req.RawContent()
	assert.False(t, ok, "nil body means missing content")
}

func TestHeadersSetKeepsPositionAndDropsDuplicates(t *testing.T) {
	h := NewHeaders("A", "1", "Set-Cookie", "x", "B", "2", "set-cookie", "y")
	h.Set("set-cookie", "z")
	assert.Equal(t, []Field{{"A", "1"}, {"Set-Cookie", "z"}, {"B", "2"}}, h.Fields())

	h.Del("a")
	v, ok := h.Get("b")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 2, h.Len())
}

func TestBackupThenRevertWithoutEditsRestoresState(t *testing.T) {
	f := sampleFlow()
	before := f.Request.Clone()

	f.Backup()
	assert.False(t, f.Modified())
	f.Revert()

	assert.True(t, before.Equal(f.Request))
	assert.False(t, f.Modified())
	assert.False(t, f.HasBackup())
}

func TestBackupKeepsFirstSnapshotOfEditSession(t *testing.T) {
	f := sampleFlow()
	f.Backup()
	f.Request.SetRawContent([]byte("first edit"))
	f.Backup()
	f.Request.SetRawContent([]byte("second edit"))
	require.True(t, f.Modified())

	f.Revert()
	raw, ok := f.Request.RawContent()
	require.True(t, ok)
	assert.Equal(t, `{"name":"widget"}`, string(raw))
	assert.False(t, f.Modified())
}

func TestCopyIsIndependent(t *testing.T) {
	f := sampleFlow()
	f.Intercepted = true
	cp := f.Copy()

	assert.NotEqual(t, f.ID, cp.ID)
	assert.False(t, cp.Intercepted)
	cp.Request.Headers().Set("Host", "other.example")
	cp.Response.ClearContent()

	host, _ := f.Request.Headers().Get("host")
	assert.Equal(t, "example.com", host)
	_, ok := f.Response.RawContent()
	assert.True(t, ok)
}

func TestKillAndResume(t *testing.T) {
	f := sampleFlow()
	assert.False(t, f.Kill(), "flows are not killable by default")

	f.Intercepted = true
	f.Killable = true
	assert.True(t, f.Kill())
	assert.False(t, f.Intercepted)
	assert.Equal(t, "Connection killed", f.Error)

	f.Intercepted = true
	assert.True(t, f.Resume())
	assert.False(t, f.Resume())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat("flowview round trip ", 64))
	for _, enc := range Encodings {
		t.Run(enc, func(t *testing.T) {
			m := NewResponse(200, "OK", Headers{}, original)
			require.NoError(t, m.Encode(enc))
			assert.Equal(t, enc, m.ContentEncoding())
			raw, _ := m.RawContent()
			assert.False(t, bytes.Equal(raw, original))

			decoded, err := m.Content()
			require.NoError(t, err)
			assert.Equal(t, original, decoded)

			require.NoError(t, m.Decode())
			raw, _ = m.RawContent()
			assert.Equal(t, original, raw)
			assert.Equal(t, IdentityEncoding, m.ContentEncoding())
		})
	}
}

func TestDecodeMalformedLeavesContentUnchanged(t *testing.T) {
	m := NewResponse(200, "OK", NewHeaders("Content-Encoding", "gzip"), []byte("not gzip at all"))
	err := m.Decode()
	require.ErrorIs(t, err, ErrDecode)
	raw, _ := m.RawContent()
	assert.Equal(t, "not gzip at all", string(raw))
	assert.Equal(t, "gzip", m.ContentEncoding())
}

func TestEncodeUnknown(t *testing.T) {
	m := NewResponse(200, "OK", Headers{}, []byte("x"))
	require.ErrorIs(t, m.Encode("lzma"), ErrUnknownEncoding)
}

func TestCollectionRemoveMovesFocus(t *testing.T) {
	a, b, c := sampleFlow(), sampleFlow(), sampleFlow()
	coll := NewCollection(a, b, c)
	require.Equal(t, a, coll.Focus())

	coll.SetFocus(c)
	require.True(t, coll.Remove(c))
	assert.Equal(t, b, coll.Focus())

	coll.SetFocus(a)
	coll.Remove(a)
	assert.Equal(t, b, coll.Focus())

	coll.Remove(b)
	assert.Nil(t, coll.Focus())
	assert.Equal(t, -1, coll.FocusIndex())
	assert.False(t, coll.Inbounds(0))
}

func TestCollectionIntercepted(t *testing.T) {
	a, b := sampleFlow(), sampleFlow()
	b.Intercepted = true
	coll := NewCollection(a, b)
	assert.Equal(t, []*Flow{b}, coll.Intercepted())
	assert.Equal(t, 1, coll.Index(b))
	assert.Equal(t, b, coll.Get(b.ID))
}

func TestCaptureRoundTrip(t *testing.T) {
	f := sampleFlow()
	f.Intercepted = true
	f.Response.SetRawContent([]byte{0xff, 0x00, 0xfe})
	noBody := New(NewRequest("GET", "https://example.com/", Headers{}, nil), nil)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f, noBody))

	flows, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, flows, 2)

	got := flows[0]
	assert.Equal(t, f.ID, got.ID)
	assert.True(t, got.Intercepted)
	assert.True(t, f.Request.Equal(got.Request))
	raw, ok := got.Response.RawContent()
	require.True(t, ok)
	assert.Equal(t, []byte{0xff, 0x00, 0xfe}, raw)

	assert.Nil(t, flows[1].Response)
	_, ok = flows[1].Request.RawContent()
	assert.False(t, ok)
}

func TestCollectionInsertAfterFocus(t *testing.T) {
	a, b := sampleFlow(), sampleFlow()
	coll := NewCollection(a, b)
	cp := a.Copy()

	pos := coll.Insert(coll.FocusIndex(), cp)
	require.Equal(t, 1, pos)
	assert.Equal(t, []*Flow{a, cp, b}, coll.Flows())
	assert.Equal(t, a, coll.Focus())

	coll.SetFocus(b)
	coll.Insert(0, sampleFlow())
	assert.Equal(t, b, coll.Focus(), "focus follows the flow it pointed at")
}

func TestCollectionUpdateReplacesByID(t *testing.T) {
	a := sampleFlow()
	coll := NewCollection(a)
	replacement := sampleFlow()
	replacement.ID = a.ID

	assert.True(t, coll.Update(replacement))
	assert.Equal(t, replacement, coll.At(0))
	assert.False(t, coll.Update(sampleFlow()))
	assert.Equal(t, 2, coll.Len())

	var seen int
	coll.Each(func(int, *Flow) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen)
}

func TestSnapshotKeepsIdentity(t *testing.T) {
	f := sampleFlow()
	f.Intercepted = true
	snap := f.Snapshot()

	assert.Equal(t, f.ID, snap.ID)
	assert.True(t, snap.Intercepted)
	snap.Request.SetRawContent([]byte("changed"))
	raw, _ := f.Request.RawContent()
	assert.Equal(t, `{"name":"widget"}`, string(raw))
	assert.False(t, snap.HasBackup())
}

func TestSetContentKeepsEncoding(t *testing.T) {
	m := NewResponse(200, "OK", Headers{}, []byte("plain"))
	require.NoError(t, m.Encode("gzip"))

	require.NoError(t, m.SetContent([]byte("replaced")))
	assert.Equal(t, "gzip", m.ContentEncoding())
	decoded, err := m.Content()
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(decoded))
}

func TestFlowEqual(t *testing.T) {
	f := sampleFlow()
	snap := f.Snapshot()
	assert.True(t, f.Equal(snap))

	snap.Intercepted = !f.Intercepted
	assert.False(t, f.Equal(snap))
	assert.False(t, f.Equal(f.Copy()))
	assert.False(t, f.Equal(nil))
}
