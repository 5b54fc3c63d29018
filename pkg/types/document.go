// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BlockKind separates code blocks from prose blocks.
type BlockKind string

const (
	KindCode  BlockKind = "code"
	KindProse BlockKind = "prose"
)

// SubKind is the classifier tag for a code block's apparent role.
// Prose blocks always carry SubKindNone.
type SubKind string

const (
	SubKindNone            SubKind = ""
	SubKindDeclaration     SubKind = "declaration"
	SubKindConstructorCall SubKind = "constructor-call"
	SubKindErrorTranscript SubKind = "error-transcript"
	SubKindUnknown         SubKind = "unknown"
)

// FenceStyle records how a code block was delimited in the source.
// FenceFenced covers both backtick and tilde fences.
type FenceStyle string

const (
	FenceNone     FenceStyle = ""
	FenceFenced   FenceStyle = "fenced"
	FenceIndented FenceStyle = "indented"
)

// Block is one prose paragraph or one code block.
type Block struct {
	// Index is the position of the block within its section, starting at 0.
	Index int `json:"index" yaml:"index"`

	Kind    BlockKind `json:"kind" yaml:"kind"`
	SubKind SubKind   `json:"sub_kind,omitempty" yaml:"sub_kind,omitempty"`

	// Text is the raw block content. Fence delimiter lines are not included.
	Text string `json:"text" yaml:"text"`

	// Lang is the first word of the fence info string (e.g. "csharp").
	Lang  string     `json:"lang,omitempty" yaml:"lang,omitempty"`
	Fence FenceStyle `json:"fence,omitempty" yaml:"fence,omitempty"`

	// StartLine and EndLine are 1-based and relative to the original file,
	// front matter included. For fenced blocks they span the delimiters.
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`
}

// IsCode reports whether the block is a code block.
func (b Block) IsCode() bool {
	return b.Kind == KindCode
}

// Section is a heading plus the blocks that follow it up to the next heading.
// The preamble before the first heading has an empty Title and Level 0.
type Section struct {
	Title  string  `json:"title" yaml:"title"`
	Level  int     `json:"level" yaml:"level"`
	Line   int     `json:"line" yaml:"line"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// CodeBlocks returns the code blocks of the section in source order.
func (s Section) CodeBlocks() []Block {
	var out []Block
	for _, b := range s.Blocks {
		if b.IsCode() {
			out = append(out, b)
		}
	}
	return out
}

// Document is the parsed form of one Markdown input. It is not modified after
// construction; classification produces a new Document.
type Document struct {
	Path     string    `json:"path" yaml:"path"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// CodeBlockCount returns the number of code blocks across all sections.
func (d *Document) CodeBlockCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.CodeBlocks())
	}
	return n
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Path:     d.Path,
		Title:    d.Title,
		Sections: make([]Section, len(d.Sections)),
	}
	for i, s := range d.Sections {
		s.Blocks = append([]Block(nil), s.Blocks...)
		out.Sections[i] = s
	}
	return out
}
