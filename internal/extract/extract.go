// Package extract splits Markdown into sections of prose and code blocks.
// Implements: block extraction (fences, headings, indented code, front matter);
//
//	DESIGN.md § Extractor.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// ExtractFile reads the Markdown file at path and extracts its Document.
func ExtractFile(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading markdown %s: %w", path, err)
	}
	return Extract(path, string(data))
}

// Extract parses Markdown text into a Document. Blocks carry no sub-kind;
// the classifier assigns those. It fails with *MalformedInputError when a
// code fence is still open at end of input.
func Extract(path, text string) (*types.Document, error) {
	body, title, offset := stripFrontMatter(text)

	p := newParser(path)
	for i, line := range splitLines(body) {
		p.feed(offset+i+1, line)
	}
	return p.finish(title)
}

// fence is an open fenced code block.
type fence struct {
	char   byte
	length int
	indent int
	marker string
	lang   string
	start  int
	lines  []string
}

// parser holds the line-by-line scanning state for one document.
type parser struct {
	path     string
	sections []types.Section

	fence *fence

	// indented code block in progress
	indented      []string
	indentedStart int
	indentedEnd   int
	pendingBlank  int

	prose      []string
	proseStart int
	proseEnd   int
}

func newParser(path string) *parser {
	return &parser{
		path:     path,
		sections: []types.Section{{Title: "", Level: 0}},
	}
}

func (p *parser) feed(lineNo int, line string) {
	if p.fence != nil {
		if isClosingFence(line, p.fence) {
			p.closeFence(lineNo)
			return
		}
		p.fence.lines = append(p.fence.lines, stripIndent(line, p.fence.indent))
		return
	}

	blank := strings.TrimSpace(line) == ""

	if p.indented != nil {
		if blank {
			p.pendingBlank++
			return
		}
		if code, ok := indentedContent(line); ok {
			for ; p.pendingBlank > 0; p.pendingBlank-- {
				p.indented = append(p.indented, "")
			}
			p.indented = append(p.indented, code)
			p.indentedEnd = lineNo
			return
		}
		p.closeIndented()
	}

	if f, ok := openingFence(line); ok {
		p.flushProse()
		f.start = lineNo
		p.fence = f
		return
	}

	if level, title, ok := parseHeading(line); ok {
		p.flushProse()
		p.sections = append(p.sections, types.Section{
			Title: title,
			Level: level,
			Line:  lineNo,
		})
		return
	}

	if blank {
		p.flushProse()
		return
	}

	// Indented code cannot interrupt a paragraph.
	if p.prose == nil {
		if code, ok := indentedContent(line); ok {
			p.indented = []string{code}
			p.indentedStart = lineNo
			p.indentedEnd = lineNo
			return
		}
		p.proseStart = lineNo
	}
	p.prose = append(p.prose, line)
	p.proseEnd = lineNo
}

func (p *parser) finish(title string) (*types.Document, error) {
	if p.fence != nil {
		return nil, &MalformedInputError{
			Path:   p.path,
			Line:   p.fence.start,
			Marker: p.fence.marker,
		}
	}
	if p.indented != nil {
		p.closeIndented()
	}
	p.flushProse()

	sections := p.sections
	// Drop an empty preamble so documents that open with a heading start
	// with that heading's section.
	if len(sections) > 0 && sections[0].Level == 0 && len(sections[0].Blocks) == 0 {
		sections = sections[1:]
	}

	return &types.Document{
		Path:     p.path,
		Title:    title,
		Sections: sections,
	}, nil
}

// appendBlock adds b to the current section and assigns its index.
func (p *parser) appendBlock(b types.Block) {
	cur := &p.sections[len(p.sections)-1]
	b.Index = len(cur.Blocks)
	cur.Blocks = append(cur.Blocks, b)
}

func (p *parser) closeFence(lineNo int) {
	f := p.fence
	p.fence = nil
	p.appendBlock(types.Block{
		Kind:      types.KindCode,
		Text:      strings.Join(f.lines, "\n"),
		Lang:      f.lang,
		Fence:     types.FenceFenced,
		StartLine: f.start,
		EndLine:   lineNo,
	})
}

func (p *parser) closeIndented() {
	p.appendBlock(types.Block{
		Kind:      types.KindCode,
		Text:      strings.Join(p.indented, "\n"),
		Fence:     types.FenceIndented,
		StartLine: p.indentedStart,
		EndLine:   p.indentedEnd,
	})
	p.indented = nil
	p.pendingBlank = 0
}

func (p *parser) flushProse() {
	if p.prose == nil {
		return
	}
	p.appendBlock(types.Block{
		Kind:      types.KindProse,
		Text:      strings.Join(p.prose, "\n"),
		StartLine: p.proseStart,
		EndLine:   p.proseEnd,
	})
	p.prose = nil
}

// splitLines splits text on newlines, dropping carriage returns and the
// empty element after a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
