// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// QueryOptions holds filters for history queries. Empty fields do not
// filter.
type QueryOptions struct {
	// RunID restricts results to one run. "latest" selects the newest run.
	RunID string

	Severity types.Severity
	Rule     string

	// Path matches findings whose document path contains this substring.
	Path string

	// Text matches findings whose message contains this substring.
	Text string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// LatestRun is the RunID value that selects the most recent run.
const LatestRun = "latest"

// StoredFinding is a finding together with the run that produced it.
type StoredFinding struct {
	types.Finding `yaml:",inline"`
	RunID         string    `json:"run_id" yaml:"run_id"`
	RecordedAt    time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// Query returns recorded findings matching opts, newest run first, then by
// path and line.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]StoredFinding, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT f.run_id, r.started_at, f.path, f.section, f.block_index, f.line,
			f.severity, f.rule, f.message
		FROM findings f
		JOIN runs r ON r.id = f.run_id
		WHERE 1=1`)

	switch opts.RunID {
	case "":
	case LatestRun:
		qb.WriteString(` AND f.run_id = (SELECT id FROM runs ORDER BY started_at DESC LIMIT 1)`)
	default:
		qb.WriteString(` AND f.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if opts.Severity != "" {
		qb.WriteString(` AND f.severity = ?`)
		args = append(args, string(opts.Severity))
	}
	if opts.Rule != "" {
		qb.WriteString(` AND f.rule = ?`)
		args = append(args, opts.Rule)
	}
	if opts.Path != "" {
		qb.WriteString(` AND instr(f.path, ?) > 0`)
		args = append(args, opts.Path)
	}
	if opts.Text != "" {
		qb.WriteString(` AND instr(lower(f.message), lower(?)) > 0`)
		args = append(args, opts.Text)
	}

	qb.WriteString(` ORDER BY r.started_at DESC, f.path, f.line, f.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []StoredFinding
	for rows.Next() {
		var (
			sf       StoredFinding
			started  string
			severity string
		)
		if err := rows.Scan(
			&sf.RunID, &started, &sf.Path, &sf.SectionTitle, &sf.BlockIndex, &sf.Line,
			&severity, &sf.Rule, &sf.Message,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sf.Severity = types.Severity(severity)
		sf.RecordedAt, _ = time.Parse(timeFormat, started)
		results = append(results, sf)
	}
	return results, rows.Err()
}
