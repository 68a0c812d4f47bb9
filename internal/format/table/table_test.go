package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAlignsColumns(t *testing.T) {
	lines := Format([][]string{
		{"GET", "/a", "200"},
		{"DELETE", "/longer", "4"},
	}, []Alignment{AlignLeft, AlignLeft, AlignRight})

	assert.Equal(t, []string{
		"GET     /a       200",
		"DELETE  /longer    4",
	}, lines)
}

func TestFormatTrailingLeftCellIsNotPadded(t *testing.T) {
	lines := Format([][]string{
		{"Host:", "example.com"},
		{"Content-Type:", "text/plain"},
	}, nil)

	assert.Equal(t, "Host:          example.com", lines[0])
	assert.Equal(t, "Content-Type:  text/plain", lines[1])
}

func TestFormatCountsWideRunes(t *testing.T) {
	lines := Format([][]string{
		{"日本", "x"},
		{"ab", "y"},
	}, nil)

	assert.Equal(t, "日本  x", lines[0])
	assert.Equal(t, "ab    y", lines[1])
}

func TestFormatEmpty(t *testing.T) {
	assert.Nil(t, Format(nil, nil))
}
