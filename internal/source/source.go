// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source expands command-line inputs (files, directories, and
// doublestar globs) into an ordered list of Markdown file paths.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// DefaultExtensions are the file extensions picked up from directories.
var DefaultExtensions = []string{".md", ".markdown"}

// skipDirs are never descended into when expanding a directory.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Expand resolves each argument to Markdown files. Plain files are kept as
// given, whatever their extension. Directories are walked for files with
// one of the extensions. Arguments containing glob characters are matched
// with doublestar, so "docs/**/*.md" works. The result is de-duplicated and
// keeps first-seen order. Stdin passes through unchanged.
func Expand(args []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if arg == Stdin {
			add(arg)
			continue
		}

		if containsGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob error: %w", err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", arg)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		files, err := walkDir(arg, extensions)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	return out, nil
}

// HasExtension reports whether path ends with one of the extensions,
// ignoring case.
func HasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory with this base name is never
// descended into.
func SkipDir(name string) bool {
	return skipDirs[name]
}

func walkDir(root string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if HasExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
