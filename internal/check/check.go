// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package check cross-references prose claims against the classified code
// blocks next to them and reports mismatches as findings.
// Implements: consistency checking, single-document runs and batch runs;
//
//	DESIGN.md § Checker.
package check

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/snipcheck/internal/classify"
	"github.com/pdiddy/snipcheck/internal/prose"
	"github.com/pdiddy/snipcheck/pkg/types"
)

// Rule names reported on findings.
const (
	RuleSuccessOnError      = "success-claim-on-error"
	RuleQuotedErrorMissing  = "quoted-error-missing"
	RuleFailureNoTranscript = "failure-claim-without-transcript"
	RuleUnverifiable        = "unverifiable-claim"
)

// Checker runs the consistency rules. The zero value is not usable; call New.
type Checker struct {
	reportUnverifiable bool
	logger             *zap.Logger

	// stdin is read when a batch path is "-".
	stdin io.Reader
}

// Option configures a Checker.
type Option func(*Checker)

// WithUnverifiable enables info findings for claims paired with snippets
// the classifier tagged unknown.
func WithUnverifiable(on bool) Option {
	return func(c *Checker) { c.reportUnverifiable = on }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStdin sets the reader used for the "-" batch path.
func WithStdin(r io.Reader) Option {
	return func(c *Checker) { c.stdin = r }
}

// New returns a Checker with the given options applied.
func New(opts ...Option) *Checker {
	c := &Checker{logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CheckDocument checks every section of doc and returns all findings in
// source order. It never stops at the first mismatch.
func (c *Checker) CheckDocument(doc *types.Document) []types.Finding {
	var out []types.Finding
	for _, s := range doc.Sections {
		for _, f := range c.CheckSection(s) {
			f.Path = doc.Path
			out = append(out, f)
		}
	}
	return out
}

// CheckSection checks each (prose, code) pair in the section. Code blocks
// without a sub-kind are classified on the fly. Findings carry no Path;
// CheckDocument fills it in.
func (c *Checker) CheckSection(s types.Section) []types.Finding {
	var out []types.Finding
	for i, b := range s.Blocks {
		if b.IsCode() {
			continue
		}

		txt := prose.Parse(b.Text)
		claim := detectClaim(txt.Plain)
		if claim == ClaimNone {
			continue
		}

		target, ok := pairedCode(s.Blocks, i, txt.Plain)
		if !ok {
			continue
		}
		code := s.Blocks[target]
		sub := code.SubKind
		if sub == types.SubKindNone {
			sub = classify.Classify(code)
		}

		c.logger.Debug("paired claim",
			zap.String("section", s.Title),
			zap.Int("prose_block", b.Index),
			zap.Int("code_block", code.Index),
			zap.String("claim", string(claim)),
			zap.String("sub_kind", string(sub)),
		)

		out = append(out, c.compare(s, b, code, sub, claim, txt.Literals)...)
	}
	return out
}

// compare applies the rules to one claim and its paired code block.
func (c *Checker) compare(s types.Section, p, code types.Block, sub types.SubKind, claim Claim, literals []prose.Literal) []types.Finding {
	finding := func(sev types.Severity, rule, msg string) types.Finding {
		return types.Finding{
			SectionTitle: s.Title,
			BlockIndex:   code.Index,
			Line:         code.StartLine,
			Severity:     sev,
			Rule:         rule,
			Message:      msg,
		}
	}

	switch {
	case sub == types.SubKindUnknown:
		if c.reportUnverifiable {
			return []types.Finding{finding(types.SeverityInfo, RuleUnverifiable,
				fmt.Sprintf("prose on line %d claims %s, but the snippet could not be classified", p.StartLine, claim.describe()))}
		}
		return nil

	case claim == ClaimSuccess && sub == types.SubKindErrorTranscript:
		return []types.Finding{finding(types.SeverityWarning, RuleSuccessOnError,
			fmt.Sprintf("prose on line %d claims success, but the snippet looks like an error transcript", p.StartLine))}

	case claim.IsFailure() && sub == types.SubKindErrorTranscript:
		var out []types.Finding
		haystack := strings.ToLower(code.Text)
		for _, lit := range literals {
			if !looksLikeErrorText(lit) {
				continue
			}
			if !strings.Contains(haystack, strings.ToLower(lit.Text)) {
				out = append(out, finding(types.SeverityWarning, RuleQuotedErrorMissing,
					fmt.Sprintf("prose on line %d quotes %q, which does not appear in the error transcript", p.StartLine, lit.Text)))
			}
		}
		return out

	case claim.IsFailure():
		return []types.Finding{finding(types.SeverityInfo, RuleFailureNoTranscript,
			fmt.Sprintf("prose on line %d claims %s, but the snippet is a %s, not an error transcript", p.StartLine, claim.describe(), sub))}
	}
	return nil
}

// pairedCode returns the index of the code block a prose block talks about.
// Prose ending in ':' introduces the next block. Other prose comments on the
// previous block when that is code, or else on the next block.
func pairedCode(blocks []types.Block, i int, plain string) (int, bool) {
	hasNext := i+1 < len(blocks) && blocks[i+1].IsCode()
	if strings.HasSuffix(plain, ":") {
		return i + 1, hasNext
	}
	if i > 0 && blocks[i-1].IsCode() {
		return i - 1, true
	}
	return i + 1, hasNext
}
