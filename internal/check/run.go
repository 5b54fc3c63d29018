// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pdiddy/snipcheck/internal/classify"
	"github.com/pdiddy/snipcheck/internal/extract"
	"github.com/pdiddy/snipcheck/pkg/types"
)

// Run extracts, classifies and checks one document. A malformed document
// returns the extraction error and a result with Error set and no findings.
func (c *Checker) Run(path, text string) (types.CheckResult, error) {
	doc, err := extract.Extract(path, text)
	if err != nil {
		return types.CheckResult{Path: path, Error: err.Error()}, err
	}

	doc = classify.Document(doc)
	c.traceBlocks(doc)

	return types.CheckResult{
		Path:     path,
		Findings: c.CheckDocument(doc),
	}, nil
}

// RunFile reads path and runs the check on its contents.
func (c *Checker) RunFile(path string) (types.CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading markdown %s: %w", path, err)
		return types.CheckResult{Path: path, Error: err.Error()}, err
	}
	return c.Run(path, string(data))
}

// RunReader reads all of r and runs the check, reporting it under name.
func (c *Checker) RunReader(name string, r io.Reader) (types.CheckResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", name, err)
		return types.CheckResult{Path: name, Error: err.Error()}, err
	}
	return c.Run(name, string(data))
}

func (c *Checker) traceBlocks(doc *types.Document) {
	if !c.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, s := range doc.Sections {
		for _, b := range s.Blocks {
			if !b.IsCode() {
				continue
			}
			_, rule := classify.Match(b)
			c.logger.Debug("classified block",
				zap.String("path", doc.Path),
				zap.String("section", s.Title),
				zap.Int("block", b.Index),
				zap.Int("line", b.StartLine),
				zap.String("sub_kind", string(b.SubKind)),
				zap.String("rule", rule),
			)
		}
	}
}
