// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prose reduces a Markdown prose block to plain text for claim
// matching. It walks the goldmark AST so inline markup (code spans,
// emphasis, links) does not split the words a claim is made of.
package prose

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Text is the plain-text rendering of a prose block.
type Text struct {
	// Plain is the block text with markup removed and whitespace collapsed.
	Plain string

	// Literals holds code spans, then double-quoted strings outside code
	// spans. These are the candidates for quoted error text.
	Literals []Literal
}

// LiteralKind records where a literal came from.
type LiteralKind string

const (
	LiteralCode   LiteralKind = "code"
	LiteralQuoted LiteralKind = "quoted"
)

// Literal is a code span or a double-quoted string in prose.
type Literal struct {
	Text string
	Kind LiteralKind
}

var engine = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// quoted matches straight and curly double-quoted strings.
var quoted = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)

// Parse converts Markdown source to plain text and collects its literals.
func Parse(markdown string) Text {
	src := []byte(markdown)
	root := engine.Parser().Parse(text.NewReader(src))

	// quotable is buf with code spans blanked out, so quotes inside a span
	// are not taken as quoted prose.
	var (
		buf      bytes.Buffer
		quotable bytes.Buffer
		literals []Literal
	)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
				quotable.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.CodeSpan:
			span := inlineText(node, src)
			if span != "" {
				literals = append(literals, Literal{Text: span, Kind: LiteralCode})
			}
			buf.WriteString(span)
			quotable.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			quotable.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
				quotable.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
			quotable.Write(node.Value)
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(buf.String()), " ")
	for _, m := range quoted.FindAllStringSubmatch(quotable.String(), -1) {
		lit := m[1]
		if lit == "" {
			lit = m[2]
		}
		if lit = strings.Join(strings.Fields(lit), " "); lit != "" {
			literals = append(literals, Literal{Text: lit, Kind: LiteralQuoted})
		}
	}

	return Text{Plain: plain, Literals: literals}
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return strings.TrimSpace(b.String())
}
