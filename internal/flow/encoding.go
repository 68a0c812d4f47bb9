package flow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// ErrDecode marks content that does not match its declared encoding.
var ErrDecode = errors.New("could not decode content")

// ErrUnknownEncoding is returned when an encoding name is not supported.
var ErrUnknownEncoding = errors.New("unknown content encoding")

// Encodings lists the names accepted by Encode, in prompt order.
var Encodings = []string{"gzip", "deflate", "br", "zstd"}

// Decode replaces the body with its decoded form and drops the
// content-encoding header. Malformed data leaves the message untouched.
func (m *Message) Decode() error {
	if !m.hasRaw {
		return nil
	}
	enc := m.ContentEncoding()
	if enc == IdentityEncoding {
		return nil
	}
	decoded, err := decodeBytes(enc, m.raw)
	if err != nil {
		return err
	}
	m.raw = decoded
	m.headers.Del("content-encoding")
	return nil
}

// Encode compresses the body with enc and records it in the content-encoding
// header. The body must currently be unencoded.
func (m *Message) Encode(enc string) error {
	enc = strings.ToLower(strings.TrimSpace(enc))
	if enc == "" || enc == IdentityEncoding {
		return m.Decode()
	}
	if !m.hasRaw {
		return nil
	}
	if m.ContentEncoding() != IdentityEncoding {
		if err := m.Decode(); err != nil {
			return err
		}
	}
	encoded, err := encodeBytes(enc, m.raw)
	if err != nil {
		return err
	}
	m.raw = encoded
	m.headers.Set("content-encoding", enc)
	return nil
}

// SetContent stores body encoded with the message's current
// content-encoding.
func (m *Message) SetContent(body []byte) error {
	enc := m.ContentEncoding()
	if enc == IdentityEncoding {
		m.SetRawContent(body)
		return nil
	}
	encoded, err := encodeBytes(enc, body)
	if err != nil {
		return err
	}
	m.raw = encoded
	m.hasRaw = true
	return nil
}

func encodeBytes(enc string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch enc {
	case "gzip", "x-gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		w = zw
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}
	return buf.Bytes(), nil
}

func decodeBytes(enc string, data []byte) ([]byte, error) {
	switch enc {
	case "", IdentityEncoding:
		return data, nil
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecode, err)
		}
		return readAllDecoded(enc, r)
	case "deflate":
		// Servers disagree on whether deflate carries a zlib wrapper.
		if r, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			if out, err := readAllDecoded(enc, r); err == nil {
				return out, nil
			}
		}
		return readAllDecoded(enc, flate.NewReader(bytes.NewReader(data)))
	case "br":
		return readAllDecoded(enc, io.NopCloser(brotli.NewReader(bytes.NewReader(data))))
	case "zstd":
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer d.Close()
		out, err := d.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrDecode, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}
}

func readAllDecoded(enc string, r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, enc, err)
	}
	return out, nil
}
