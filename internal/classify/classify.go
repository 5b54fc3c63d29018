// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify tags code blocks by apparent intent: declaration,
// constructor call, error transcript, or unknown.
// Implements: snippet classification;
//
//	DESIGN.md § Classifier.
package classify

import (
	"regexp"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// Rule is one ordered classification rule. The first rule with a matching
// pattern decides the sub-kind.
type Rule struct {
	Name     string
	SubKind  types.SubKind
	Patterns []*regexp.Regexp
}

// RuleUnknown is reported when no rule matches.
const RuleUnknown = "no-match"

// rules is evaluated in order; error text wins over declarations, which win
// over object creation. "throw new Foo()" is therefore an error transcript.
var rules = []Rule{
	{
		Name:    "error-message",
		SubKind: types.SubKindErrorTranscript,
		Patterns: []*regexp.Regexp{
			// Compiler diagnostics: "error CS0122:", "error: ...", "Foo.java:3: error:".
			regexp.MustCompile(`(?m)\berror\s+[A-Z]{1,4}\d{1,5}\b`),
			regexp.MustCompile(`(?mi)(^|:\s*)(fatal\s+)?error(\[[A-Z]?\d+\])?:\s`),
			regexp.MustCompile(`(?mi)^\s*(compile|compilation|build)\s+(error|failed)`),
			// Runtime failures.
			regexp.MustCompile(`(?i)\bunhandled\s+exception\b`),
			regexp.MustCompile(`(?m)^\s*(Exception in thread|Traceback \(most recent call last\)|panic:)`),
			regexp.MustCompile(`(?m)^\s*([A-Za-z_][\w.]*)?(Exception|Error):\s`),
			regexp.MustCompile(`(?m)^\s*at\s+[\w.$<>]+\(.*\)\s*$`),
			// Thrown errors in source.
			regexp.MustCompile(`\b(throw|raise)\s+(new\s+)?[A-Z]\w*(Exception|Error)\b`),
		},
	},
	{
		Name:    "type-declaration",
		SubKind: types.SubKindDeclaration,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*((public|private|protected|internal|abstract|sealed|static|final|partial|open|data|export|readonly)\s+)*(class|struct|interface|record|enum)\s+[A-Za-z_]\w*`),
			// Access-modified constructor or member header: "public Vehicle() { }".
			regexp.MustCompile(`(?m)^\s*(public|private|protected|internal)\s+(static\s+|virtual\s+|override\s+)*([A-Za-z_][\w<>\[\],]*\s+)?[A-Za-z_]\w*\s*\([^;]*\)\s*(:\s*(base|this)\s*\(.*\)\s*)?(\{|$)`),
			regexp.MustCompile(`(?m)^\s*(def\s+__init__|constructor)\s*\(`),
		},
	},
	{
		Name:    "object-creation",
		SubKind: types.SubKindConstructorCall,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bnew\s+[A-Za-z_][\w.]*(<[^>]*>)?\s*[({\[]`),
			regexp.MustCompile(`\bnew\s*\(`),
			regexp.MustCompile(`\b[A-Za-z_]\w*::new\b`),
		},
	},
}

// Rules returns the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Classify returns the sub-kind of a code block. It is total: prose blocks
// get SubKindNone and unmatched code gets SubKindUnknown.
func Classify(b types.Block) types.SubKind {
	sub, _ := Match(b)
	return sub
}

// Match returns the sub-kind of a code block and the name of the rule that
// produced it.
func Match(b types.Block) (types.SubKind, string) {
	if !b.IsCode() {
		return types.SubKindNone, ""
	}
	for _, r := range rules {
		for _, p := range r.Patterns {
			if p.MatchString(b.Text) {
				return r.SubKind, r.Name
			}
		}
	}
	return types.SubKindUnknown, RuleUnknown
}

// Document returns a copy of doc with every code block classified. The
// input is left untouched.
func Document(doc *types.Document) *types.Document {
	out := doc.Clone()
	for si := range out.Sections {
		blocks := out.Sections[si].Blocks
		for bi := range blocks {
			blocks[bi].SubKind = Classify(blocks[bi])
		}
	}
	return out
}
