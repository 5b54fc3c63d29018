package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/snipcheck/internal/archive"
	"github.com/pdiddy/snipcheck/internal/check"
	"github.com/pdiddy/snipcheck/pkg/types"
)

func TestVerdict(t *testing.T) {
	info := types.CheckResult{Path: "a.md", Findings: []types.Finding{{Severity: types.SeverityInfo}}}
	warn := types.CheckResult{Path: "b.md", Findings: []types.Finding{{Severity: types.SeverityWarning}}}

	tests := []struct {
		name    string
		summary check.Summary
		failOn  types.Severity
		wantErr string
	}{
		{"clean", check.Summary{Clean: 1}, types.SeverityWarning, ""},
		{"info below warning threshold", check.Summary{Flagged: 1, Results: []types.CheckResult{info}}, types.SeverityWarning, ""},
		{"info at info threshold", check.Summary{Flagged: 1, Results: []types.CheckResult{info}}, types.SeverityInfo, "1 finding(s) at or above info"},
		{"warning", check.Summary{Flagged: 1, Results: []types.CheckResult{warn}}, types.SeverityWarning, "1 finding(s) at or above warning"},
		{"none never fails on findings", check.Summary{Flagged: 1, Results: []types.CheckResult{warn}}, types.FailOnNone, ""},
		{"malformed document always fails", check.Summary{Failed: 1}, types.FailOnNone, "1 document(s) could not be checked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verdict(tt.summary, tt.failOn)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCheckOnceRecords(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "ctor.md")
	content := strings.Join([]string{
		"# Constructors",
		"",
		"```",
		"error CS0122: 'Vehicle.Vehicle()' is inaccessible due to its protection level",
		"```",
		"",
		"This compiles without errors.",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(doc, []byte(content), 0o644))

	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = types.DefaultConfig()
	cfg.Archive.Dir = filepath.Join(dir, ".snipcheck")

	var out, status bytes.Buffer
	err := checkOnce(context.Background(), &out, &status, check.New(), []string{doc}, true)
	require.Error(t, err)
	assert.Contains(t, out.String(), "[success-claim-on-error]")
	assert.Contains(t, status.String(), "Recorded run")

	store, err := archive.NewStore(cfg.Archive)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Query(context.Background(), archive.QueryOptions{RunID: archive.LatestRun})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, doc, got[0].Path)
}
