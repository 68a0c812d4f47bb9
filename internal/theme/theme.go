package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/flowview/internal/contentview"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Pending               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Intercepted           *lipgloss.Style
	Error                 *lipgloss.Style
	Warn                  *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	Tab                   *lipgloss.Style
	ActiveTab             *lipgloss.Style
	BodyTitle             *lipgloss.Style
	Prompt                *lipgloss.Style
	PromptKey             *lipgloss.Style

	// Body maps contentview style names to their rendering.
	Body map[string]*lipgloss.Style
}

var defaultStyles = Styles{
	Pending: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Intercepted: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warn: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
	),
	ActiveTab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true).Padding(0, 1),
	),
	BodyTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	PromptKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Body: map[string]*lipgloss.Style{
		contentview.StyleText:      ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("250"))),
		contentview.StyleKey:       ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("81"))),
		contentview.StyleValue:     ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("252"))),
		contentview.StyleString:    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("114"))),
		contentview.StyleNumber:    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("215"))),
		contentview.StyleKeyword:   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("176"))),
		contentview.StyleComment:   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)),
		contentview.StyleTag:       ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("75"))),
		contentview.StyleOffset:    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))),
		contentview.StyleError:     ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("196"))),
		contentview.StyleHighlight: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)),
	},
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// BodyStyle returns the style for a contentview style name, falling back to
// plain text.
func (s *Styles) BodyStyle(name string) *lipgloss.Style {
	if style, ok := s.Body[name]; ok {
		return style
	}
	return s.Body[contentview.StyleText]
}

// RenderLine draws one body line with its segment styles.
func (s *Styles) RenderLine(line contentview.Line) string {
	var b strings.Builder
	for _, seg := range line {
		if style := s.BodyStyle(seg.Style); style != nil {
			b.WriteString(style.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
