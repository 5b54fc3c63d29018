// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/snipcheck/internal/extract"
	"github.com/pdiddy/snipcheck/internal/prose"
	"github.com/pdiddy/snipcheck/pkg/types"
)

const fence = "```"

func md(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		opts      []Option
		wantRules []string
		wantSev   []types.Severity
	}{
		{
			name:      "declaration followed by works",
			text:      md(fence, "public Vehicle() { }", fence, "", "this works fine"),
			wantRules: nil,
		},
		{
			name: "error transcript followed by compiles",
			text: md(fence,
				"error CS0122: 'Vehicle.Vehicle()' is inaccessible due to its protection level",
				fence, "", "this compiles without errors"),
			wantRules: []string{RuleSuccessOnError},
			wantSev:   []types.Severity{types.SeverityWarning},
		},
		{
			name: "failure claim introduces its transcript",
			text: md("This fails to compile:", "",
				fence, "error CS0122: 'Vehicle.Vehicle()' is inaccessible", fence),
			wantRules: nil,
		},
		{
			name: "quoted error code missing from transcript",
			text: md("This fails to compile with `CS0122`:", "",
				fence, "error CS7036: There is no argument given", fence),
			wantRules: []string{RuleQuotedErrorMissing},
			wantSev:   []types.Severity{types.SeverityWarning},
		},
		{
			name: "quoted error code present in transcript",
			text: md("This fails to compile with `CS7036`:", "",
				fence, "error CS7036: There is no argument given", fence),
			wantRules: nil,
		},
		{
			name: "quoted exception message missing",
			text: md(`Calling it twice throws "Instance already exists":`, "",
				fence, "Unhandled exception. System.InvalidOperationException: Instance already created", fence),
			wantRules: []string{RuleQuotedErrorMissing},
			wantSev:   []types.Severity{types.SeverityWarning},
		},
		{
			name: "identifier code span is not error text",
			text: md("Creating a second `Singleton` throws:", "",
				fence, "Unhandled exception. System.InvalidOperationException: Instance already created", fence),
			wantRules: nil,
		},
		{
			name: "source code span in failure prose is not quoted error text",
			text: md("With the constructor private, `new Vehicle()` fails to compile:", "",
				fence, "error CS0122: 'Vehicle.Vehicle()' is inaccessible due to its protection level", fence),
			wantRules: nil,
		},
		{
			name: "statement code span with spaces in failure prose",
			text: md("The line `var v = new Vehicle(1, 2);` fails to compile:", "",
				fence, "error CS1729: 'Vehicle' does not contain a constructor that takes 2 arguments", fence),
			wantRules: nil,
		},
		{
			name: "quoted string inside a code span is not quoted error text",
			text: md("Calling `Log(\"not ready\")` throws:", "",
				fence, "Unhandled exception. System.InvalidOperationException: Instance already created", fence),
			wantRules: nil,
		},
		{
			name: "failure claim on a constructor call",
			text: md("The next line fails to compile because the constructor is private:", "",
				fence, "var v = new Vehicle();", fence),
			wantRules: []string{RuleFailureNoTranscript},
			wantSev:   []types.Severity{types.SeverityInfo},
		},
		{
			name:      "unknown snippet is silent by default",
			text:      md(fence, "dotnet run", fence, "", "This fails."),
			wantRules: nil,
		},
		{
			name:      "unknown snippet reported when enabled",
			text:      md(fence, "dotnet run", fence, "", "This fails."),
			opts:      []Option{WithUnverifiable(true)},
			wantRules: []string{RuleUnverifiable},
			wantSev:   []types.Severity{types.SeverityInfo},
		},
		{
			name:      "prose without a claim",
			text:      md(fence, "error CS0122: inaccessible", fence, "", "Note the access modifier."),
			wantRules: nil,
		},
		{
			name: "prose between blocks comments on the previous one",
			text: md(fence, "error CS0122: inaccessible", fence, "",
				"This works.", "",
				fence, "public class Vehicle { }", fence),
			wantRules: []string{RuleSuccessOnError},
			wantSev:   []types.Severity{types.SeverityWarning},
		},
		{
			name:      "prose with no adjacent code",
			text:      md("# A", "", "This compiles.", "", "# B", "", fence, "error CS1: x", fence),
			wantRules: nil,
		},
		{
			name: "markup does not hide the claim",
			text: md(fence, "error CS0122: inaccessible", fence, "",
				"This **compiles** without *any* problems."),
			wantRules: []string{RuleSuccessOnError},
			wantSev:   []types.Severity{types.SeverityWarning},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.opts...).Run("doc.md", tt.text)
			require.NoError(t, err)
			assert.Empty(t, res.Error)

			var rules []string
			var sevs []types.Severity
			for _, f := range res.Findings {
				rules = append(rules, f.Rule)
				sevs = append(sevs, f.Severity)
				assert.Equal(t, "doc.md", f.Path)
			}
			assert.Equal(t, tt.wantRules, rules)
			assert.Equal(t, tt.wantSev, sevs)
		})
	}
}

func TestRunFindingPosition(t *testing.T) {
	text := md("# Singleton", "",
		"Intro.", "",
		fence, "error CS0122: inaccessible", fence, "",
		"It compiles.")

	res, err := New().Run("s.md", text)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, "Singleton", f.SectionTitle)
	assert.Equal(t, 1, f.BlockIndex)
	assert.Equal(t, 5, f.Line)
	assert.Contains(t, f.Message, "line 9")
}

func TestRunAccumulatesAcrossSections(t *testing.T) {
	text := md("# One", "",
		fence, "error CS1: a", fence, "", "This works.", "",
		"# Two", "",
		fence, "error CS2: b", fence, "", "This compiles.")

	res, err := New().Run("multi.md", text)
	require.NoError(t, err)
	require.Len(t, res.Findings, 2)
	assert.Equal(t, "One", res.Findings[0].SectionTitle)
	assert.Equal(t, "Two", res.Findings[1].SectionTitle)
	assert.Equal(t, 2, res.Count(types.SeverityWarning))
}

func TestRunMalformed(t *testing.T) {
	res, err := New().Run("bad.md", md("This compiles.", "", fence, "error CS1: x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrMalformedInput))
	assert.Empty(t, res.Findings)
	assert.Contains(t, res.Error, "unterminated code fence")
}

func TestCheckSectionClassifiesOnTheFly(t *testing.T) {
	s := types.Section{
		Title: "Raw",
		Blocks: []types.Block{
			{Index: 0, Kind: types.KindCode, Text: "error CS0122: inaccessible", StartLine: 3},
			{Index: 1, Kind: types.KindProse, Text: "This works.", StartLine: 6},
		},
	}
	findings := New().CheckSection(s)
	require.Len(t, findings, 1)
	assert.Equal(t, RuleSuccessOnError, findings[0].Rule)
	assert.Empty(t, findings[0].Path)
}

func TestRunLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New(WithLogger(zap.New(core)))

	_, err := c.Run("doc.md", md(fence, "var v = new Vehicle();", fence, "", "This works."))
	require.NoError(t, err)

	classified := logs.FilterMessage("classified block").All()
	require.Len(t, classified, 1)
	assert.Equal(t, "object-creation", classified[0].ContextMap()["rule"])
	assert.Len(t, logs.FilterMessage("paired claim").All(), 1)
}

func TestDetectClaim(t *testing.T) {
	tests := []struct {
		text string
		want Claim
	}{
		{"This compiles.", ClaimSuccess},
		{"This compiles without errors.", ClaimSuccess},
		{"Runs without any exceptions.", ClaimSuccess},
		{"It does not throw.", ClaimSuccess},
		{"This works fine.", ClaimSuccess},
		{"The compiler reports CS0122.", ClaimCompileFailure},
		{"This does not compile.", ClaimCompileFailure},
		{"This won't compile.", ClaimCompileFailure},
		{"You get a compile error.", ClaimCompileFailure},
		{"This fails.", ClaimCompileFailure},
		{"Calling it twice throws an exception.", ClaimThrows},
		{"It crashes at runtime.", ClaimThrows},
		{"Here is a class.", ClaimNone},
		{"", ClaimNone},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, detectClaim(tt.text))
		})
	}
}

func TestLooksLikeErrorText(t *testing.T) {
	code := func(s string) prose.Literal { return prose.Literal{Text: s, Kind: prose.LiteralCode} }
	quoted := func(s string) prose.Literal { return prose.Literal{Text: s, Kind: prose.LiteralQuoted} }

	tests := []struct {
		lit  prose.Literal
		want bool
	}{
		{code("CS0122"), true},
		{code("E0382"), true},
		{code("InvalidOperationException"), true},
		{code("System.ArgumentError"), true},
		{code("error CS0122: inaccessible"), true},
		{quoted("Instance already created"), true},
		{code("Vehicle"), false},
		{code("new()"), false},
		{code("new Vehicle()"), false},
		{code("var v = new Vehicle(1, 2);"), false},
		{code("throw new InvalidOperationException()"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikeErrorText(tt.lit), "%s %q", tt.lit.Kind, tt.lit.Text)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	clean := write("clean.md", md(fence, "public Vehicle() { }", fence, "", "This works."))
	flagged := write("flagged.md", md(fence, "error CS1: x", fence, "", "This compiles."))
	broken := write("broken.md", md(fence, "never closed"))
	missing := filepath.Join(dir, "missing.md")

	var log bytes.Buffer
	s := New().RunBatch([]string{clean, flagged, broken, missing}, &log)

	assert.Equal(t, 1, s.Clean)
	assert.Equal(t, 1, s.Flagged)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 4, s.Total())
	assert.True(t, s.HasFailures())
	require.Len(t, s.Results, 4)
	assert.Len(t, s.Findings(), 1)
	assert.Equal(t, 1, s.CountAtLeast(types.SeverityWarning))
	assert.Equal(t, 0, s.CountAtLeast(types.FailOnNone))

	out := log.String()
	assert.Contains(t, out, "clean:   "+clean)
	assert.Contains(t, out, "flagged: "+flagged)
	assert.Contains(t, out, "failed:  "+broken)
	assert.Contains(t, out, "Batch summary: 1 clean, 1 flagged, 2 failed (total: 4)")
}

func TestRunReader(t *testing.T) {
	res, err := New().RunReader(StdinName, strings.NewReader(md(fence, "error CS1: x", fence, "", "It works.")))
	require.NoError(t, err)
	assert.Equal(t, StdinName, res.Path)
	assert.Len(t, res.Findings, 1)
}

func TestRunBatchStdin(t *testing.T) {
	in := strings.NewReader(md("# Usage", "", fence, "public Vehicle() { }", fence, "", "This works fine."))

	var log bytes.Buffer
	s := New(WithStdin(in)).RunBatch([]string{"-"}, &log)

	assert.Equal(t, 1, s.Clean)
	require.Len(t, s.Results, 1)
	assert.Equal(t, StdinName, s.Results[0].Path)
	assert.Contains(t, log.String(), "clean:   "+StdinName)

	s = New().RunBatch([]string{"-"}, &log)
	assert.Equal(t, 1, s.Failed)
}
