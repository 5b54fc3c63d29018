// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders check results as plain text, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// Write renders results to w in the given format.
func Write(w io.Writer, results []types.CheckResult, format types.OutputFormat) error {
	switch format {
	case types.FormatText, "":
		return writeText(w, results)
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(results))
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(results)); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}
}

// FormatFinding returns the one-line text form of a finding:
//
//	path:line: severity: message [rule] (section "title", block N)
func FormatFinding(f types.Finding) string {
	section := f.SectionTitle
	if section == "" {
		section = "(preamble)"
	}
	return fmt.Sprintf("%s:%d: %s: %s [%s] (section %q, block %d)",
		f.Path, f.Line, f.Severity, f.Message, f.Rule, section, f.BlockIndex)
}

func writeText(w io.Writer, results []types.CheckResult) error {
	for _, r := range results {
		if r.Error != "" {
			if _, err := fmt.Fprintln(w, formatError(r)); err != nil {
				return err
			}
			continue
		}
		for _, f := range r.Findings {
			if _, err := fmt.Fprintln(w, FormatFinding(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatError prefixes the error with its path unless the message already
// starts with it, as extraction errors do.
func formatError(r types.CheckResult) string {
	if r.Path != "" && strings.HasPrefix(r.Error, r.Path+":") {
		return "error: " + r.Error
	}
	return fmt.Sprintf("%s: error: %s", r.Path, r.Error)
}

// nonNil keeps empty runs rendering as [] rather than null.
func nonNil(results []types.CheckResult) []types.CheckResult {
	out := make([]types.CheckResult, len(results))
	for i, r := range results {
		if r.Findings == nil {
			r.Findings = []types.Finding{}
		}
		out[i] = r
	}
	return out
}

// WriteDocument dumps an extracted document, with each block's kind and
// sub-kind, as YAML or JSON. Text format falls back to YAML.
func WriteDocument(w io.Writer, doc *types.Document, format types.OutputFormat) error {
	switch format {
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case types.FormatYAML, types.FormatText, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
