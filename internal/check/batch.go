// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"fmt"
	"io"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// Summary holds the outcome of a batch check run.
type Summary struct {
	Clean   int
	Flagged int
	Failed  int

	// Results holds one entry per input, in input order.
	Results []types.CheckResult
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Clean + s.Flagged + s.Failed
}

// HasFailures reports whether any document could not be checked.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Findings returns every finding across all results.
func (s Summary) Findings() []types.Finding {
	var out []types.Finding
	for _, r := range s.Results {
		out = append(out, r.Findings...)
	}
	return out
}

// CountAtLeast returns how many findings are at or above threshold.
func (s Summary) CountAtLeast(threshold types.Severity) int {
	n := 0
	for _, r := range s.Results {
		n += r.Count(threshold)
	}
	return n
}

// StdinName is the path reported for documents read from standard input.
const StdinName = "<stdin>"

// RunBatch checks each path in turn, printing a status line per document
// to w and a summary at the end. A failing document does not stop the batch.
// The path "-" reads the reader set with WithStdin.
func (c *Checker) RunBatch(paths []string, w io.Writer) Summary {
	var s Summary
	for _, p := range paths {
		res, err := c.runPath(p)
		if p == "-" {
			p = StdinName
		}
		s.Results = append(s.Results, res)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", p, err)
			s.Failed++
		case len(res.Findings) > 0:
			fmt.Fprintf(w, "flagged: %s (%d findings)\n", p, len(res.Findings))
			s.Flagged++
		default:
			fmt.Fprintf(w, "clean:   %s\n", p)
			s.Clean++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d clean, %d flagged, %d failed (total: %d)\n",
		s.Clean, s.Flagged, s.Failed, s.Total())
	return s
}

func (c *Checker) runPath(p string) (types.CheckResult, error) {
	if p != "-" {
		return c.RunFile(p)
	}
	if c.stdin == nil {
		err := fmt.Errorf("no standard input configured")
		return types.CheckResult{Path: StdinName, Error: err.Error()}, err
	}
	return c.RunReader(StdinName, c.stdin)
}
