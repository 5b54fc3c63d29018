package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown fail_on", func(c *Config) { c.Check.FailOn = "error" }},
		{"empty fail_on", func(c *Config) { c.Check.FailOn = "" }},
		{"empty extension", func(c *Config) { c.Check.Extensions = []string{".md", ""} }},
		{"unknown format", func(c *Config) { c.Report.Format = "xml" }},
		{"negative max results", func(c *Config) { c.Archive.MaxResults = -1 }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityInfo))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))
	assert.False(t, SeverityWarning.AtLeast(FailOnNone))
}

func TestCheckResultCount(t *testing.T) {
	r := CheckResult{Findings: []Finding{
		{Severity: SeverityInfo},
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
	}}
	assert.Equal(t, 2, r.Count(SeverityWarning))
	assert.Equal(t, 3, r.Count(SeverityInfo))
	assert.Equal(t, 0, r.Count(FailOnNone))
}

func TestDocumentClone(t *testing.T) {
	doc := &Document{
		Path: "a.md",
		Sections: []Section{{
			Title: "Usage",
			Blocks: []Block{
				{Index: 0, Kind: KindProse, Text: "Works:"},
				{Index: 1, Kind: KindCode, Text: "new Car();"},
			},
		}},
	}

	c := doc.Clone()
	c.Sections[0].Blocks[1].SubKind = SubKindConstructorCall

	assert.Equal(t, SubKindNone, doc.Sections[0].Blocks[1].SubKind)
	assert.Equal(t, 1, doc.CodeBlockCount())
	assert.Len(t, doc.Sections[0].CodeBlocks(), 1)
}
