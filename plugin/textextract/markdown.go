// Package textextract pulls the prose out of Markdown documents so that
// recognizers see sentences rather than markup. Code spans, code blocks and
// raw HTML are skipped.
package textextract

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Segment is a run of prose and its byte offset in the source document.
type Segment struct {
	Start int
	Text  string
}

// End returns the exclusive end offset of the segment in the source.
func (s Segment) End() int {
	return s.Start + len(s.Text)
}

// Markdown extracts prose segments from Markdown sources.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a Markdown extractor with the CommonMark parser.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

// Segments returns the prose of src in document order. Text nodes that are
// contiguous in the source are merged, so "5 *hours*" yields "5 " and
// "hours" while "5 hours" stays whole.
func (m *Markdown) Segments(src []byte) ([]Segment, error) {
	doc := m.md.Parser().Parse(text.NewReader(src))

	var segments []Segment
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			seg := node.Segment
			value := string(seg.Value(src))
			if value == "" {
				return ast.WalkContinue, nil
			}
			if last := len(segments) - 1; last >= 0 && segments[last].End() == seg.Start {
				segments[last].Text += value
			} else {
				segments = append(segments, Segment{Start: seg.Start, Text: value})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}
