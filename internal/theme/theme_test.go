package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/atomicstack/flowview/internal/contentview"
)

func TestBodyStyleFallsBackToText(t *testing.T) {
	s := Default()
	assert.Same(t, s.Body[contentview.StyleText], s.BodyStyle("no-such-style"))
	assert.Same(t, s.Body[contentview.StyleKey], s.BodyStyle(contentview.StyleKey))
}

func TestRenderLineKeepsText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	line := contentview.Line{
		{Style: contentview.StyleKey, Text: `"name"`},
		{Style: contentview.StyleText, Text: ": "},
		{Style: contentview.StyleString, Text: `"widget"`},
	}
	assert.Equal(t, `"name": "widget"`, Default().RenderLine(line))
}
