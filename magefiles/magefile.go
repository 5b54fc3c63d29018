//go:build mage

// Package main contains Mage build targets for snipcheck developer tooling.
// Implements: DESIGN.md § Developer Tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/snipcheck/pkg/types"
)

const (
	binDir     = "bin"
	binName    = "snipcheck"
	cmdPkg     = "./cmd/snipcheck"
	configFile = "snipcheck.yaml"
)

// skipDirs are ignored when counting lines and words.
var skipDirs = map[string]bool{
	".git":       true,
	"_examples":  true,
	"bin":        true,
	".snipcheck": true,
}

// Init creates the archive directory and writes a default snipcheck.yaml
// if none exists.
func Init() error {
	cfg := types.DefaultConfig()
	if err := os.MkdirAll(cfg.Archive.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Archive.Dir, err)
	}
	fmt.Println("  ", cfg.Archive.Dir)

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("   %s already exists, leaving it unchanged\n", configFile)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Println("  ", configFile)
	fmt.Println("Project initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check builds the CLI and runs it over the project's own Markdown.
func Check() error {
	mg.Deps(Build)

	docs, err := markdownFiles(".")
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No Markdown files to check.")
		return nil
	}
	args := append([]string{"check"}, docs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	docs, err := markdownFiles(".")
	if err != nil {
		return err
	}
	docWords := 0
	for _, d := range docs {
		data, err := os.ReadFile(d)
		if err != nil {
			return fmt.Errorf("reading %s: %w", d, err)
		}
		docWords += len(strings.Fields(string(data)))
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// countGoLines counts non-blank lines in Go files. If testOnly is true, only
// _test.go files are counted; otherwise only non-test files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := walk(root, func(path string) error {
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}

func markdownFiles(root string) ([]string, error) {
	var files []string
	err := walk(root, func(path string) error {
		if filepath.Ext(path) == ".md" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path)
	})
}
