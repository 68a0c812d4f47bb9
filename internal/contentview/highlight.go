package contentview

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/beevik/etree"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

var jsonOptions = ojg.Options{Indent: 4, Sort: true, HTMLUnsafe: true}

// JSONView pretty-prints JSON with sorted keys.
type JSONView struct{}

func (JSONView) Name() string { return "json" }
func (JSONView) Key() string  { return "s" }

func (JSONView) Render(data []byte, _ string) (string, []Line, error) {
	value, err := oj.Parse(data)
	if err != nil {
		return "", nil, fmt.Errorf("parse json: %w", err)
	}
	lines, err := highlight("json", oj.JSON(value, &jsonOptions))
	if err != nil {
		return "", nil, err
	}
	return "JSON", lines, nil
}

func looksLikeJSON(data []byte) bool {
	_, err := oj.Parse(data)
	return err == nil
}

// XMLView re-indents XML documents.
type XMLView struct{}

func (XMLView) Name() string { return "xml" }
func (XMLView) Key() string  { return "x" }

func (XMLView) Render(data []byte, _ string) (string, []Line, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", nil, fmt.Errorf("parse xml: %w", err)
	}
	if doc.Root() == nil {
		return "", nil, fmt.Errorf("parse xml: no root element")
	}
	doc.Indent(2)
	text, err := doc.WriteToString()
	if err != nil {
		return "", nil, fmt.Errorf("write xml: %w", err)
	}
	lines, err := highlight("xml", text)
	if err != nil {
		return "", nil, err
	}
	return "XML", lines, nil
}

// HighlightView colours source text with a chroma lexer without reformatting it.
type HighlightView struct {
	name        string
	key         string
	description string
	lexer       string
}

// NewHighlightView binds a view name to a chroma lexer.
func NewHighlightView(name, key, description, lexer string) HighlightView {
	return HighlightView{name: name, key: key, description: description, lexer: lexer}
}

func (v HighlightView) Name() string { return v.name }
func (v HighlightView) Key() string  { return v.key }

func (v HighlightView) Render(data []byte, _ string) (string, []Line, error) {
	lines, err := highlight(v.lexer, string(data))
	if err != nil {
		return "", nil, err
	}
	return v.description, lines, nil
}

func highlight(lexerName, text string) ([]Line, error) {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return textLines(text, StyleText), nil
	}
	text = strings.ToValidUTF8(text, "�")
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", lexerName, err)
	}
	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	lines := make([]Line, 0, len(tokenLines))
	for _, tokens := range tokenLines {
		line := make(Line, 0, len(tokens))
		for _, tok := range tokens {
			value := expandTabs(strings.TrimRight(tok.Value, "\r\n"))
			if value == "" {
				continue
			}
			style := styleFor(tok.Type)
			if n := len(line); n > 0 && line[n-1].Style == style {
				line[n-1].Text += value
				continue
			}
			line = append(line, Segment{Style: style, Text: value})
		}
		lines = append(lines, line)
	}
	// chroma ends the stream with a newline token
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func styleFor(t chroma.TokenType) string {
	switch {
	case t == chroma.Error:
		return StyleError
	case t.InCategory(chroma.Comment):
		return StyleComment
	case t == chroma.NameTag:
		return StyleTag
	case t == chroma.NameAttribute:
		return StyleKey
	case t.InCategory(chroma.Keyword):
		return StyleKeyword
	case t.InSubCategory(chroma.LiteralString):
		return StyleString
	case t.InSubCategory(chroma.LiteralNumber):
		return StyleNumber
	default:
		return StyleText
	}
}
