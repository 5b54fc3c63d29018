// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		markdown     string
		wantPlain    string
		wantLiterals []Literal
	}{
		{
			name:      "plain sentence",
			markdown:  "This works fine.",
			wantPlain: "This works fine.",
		},
		{
			name:      "emphasis removed",
			markdown:  "This **fails to compile** because the constructor is *private*.",
			wantPlain: "This fails to compile because the constructor is private.",
		},
		{
			name:         "code span kept as literal",
			markdown:     "The compiler reports `CS0122` here.",
			wantPlain:    "The compiler reports CS0122 here.",
			wantLiterals: []Literal{{Text: "CS0122", Kind: LiteralCode}},
		},
		{
			name:      "soft line breaks joined",
			markdown:  "The snippet\ncompiles without\nerrors.",
			wantPlain: "The snippet compiles without errors.",
		},
		{
			name:      "link text kept, destination dropped",
			markdown:  "See [the docs](https://example.com/ctor) for why this throws.",
			wantPlain: "See the docs for why this throws.",
		},
		{
			name:         "quoted error text",
			markdown:     `It fails with "Instance already created".`,
			wantPlain:    `It fails with "Instance already created".`,
			wantLiterals: []Literal{{Text: "Instance already created", Kind: LiteralQuoted}},
		},
		{
			name:         "curly quotes",
			markdown:     "It throws “Value cannot be null”.",
			wantPlain:    "It throws “Value cannot be null”.",
			wantLiterals: []Literal{{Text: "Value cannot be null", Kind: LiteralQuoted}},
		},
		{
			name:         "quotes inside a code span are not quoted prose",
			markdown:     "Calling `Log(\"ready now\")` fails to compile.",
			wantPlain:    `Calling Log("ready now") fails to compile.`,
			wantLiterals: []Literal{{Text: `Log("ready now")`, Kind: LiteralCode}},
		},
		{
			name:      "code span and quoted message kept apart",
			markdown:  "`new Vehicle()` throws \"Instance already created\".",
			wantPlain: `new Vehicle() throws "Instance already created".`,
			wantLiterals: []Literal{
				{Text: "new Vehicle()", Kind: LiteralCode},
				{Text: "Instance already created", Kind: LiteralQuoted},
			},
		},
		{
			name:      "list items separated",
			markdown:  "- first\n- second",
			wantPlain: "first second",
		},
		{
			name:      "empty",
			markdown:  "",
			wantPlain: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.markdown)
			assert.Equal(t, tt.wantPlain, got.Plain)
			assert.Equal(t, tt.wantLiterals, got.Literals)
		})
	}
}
