package render

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/atomicstack/flowview/internal/flow"
)

// Fingerprint hashes the raw body, the header fields in order, and the
// secondary identifier of msg. Every variable-length part is length-prefixed.
func Fingerprint(msg *flow.Message) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeLen := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		d.Write(buf[:])
	}
	writeString := func(s string) {
		writeLen(len(s))
		d.WriteString(s)
	}

	raw, ok := msg.RawContent()
	if ok {
		d.Write([]byte{1})
		writeLen(len(raw))
		d.Write(raw)
	} else {
		d.Write([]byte{0})
	}

	fields := msg.Headers().Fields()
	writeLen(len(fields))
	for _, f := range fields {
		writeString(f.Name)
		writeString(f.Value)
	}

	if msg.IsRequest() {
		d.Write([]byte{1})
		writeString(msg.SecondaryID())
	} else {
		d.Write([]byte{0})
	}
	return d.Sum64()
}
