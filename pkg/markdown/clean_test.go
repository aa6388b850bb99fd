package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "plain text untouched",
			input: "Drink water and rest.",
			want:  "Drink water and rest.",
		},
		{
			name:  "mixed inline markers",
			input: "**bold** and _em_ and # Heading",
			want:  "bold and em and Heading",
		},
		{
			name:  "bold greeting",
			input: "**Hi** there",
			want:  "Hi there",
		},
		{
			name:  "heading lines",
			input: "## Summary\nHemoglobin is normal.",
			want:  "Summary\nHemoglobin is normal.",
		},
		{
			name:  "inline code",
			input: "Take `paracetamol` twice",
			want:  "Take paracetamol twice",
		},
		{
			name:  "horizontal rule and blank lines",
			input: "Part one\n\n---\n\n\n\nPart two",
			want:  "Part one\n\nPart two",
		},
		{
			name:  "bold label",
			input: "**Iron**: 12 g/dL",
			want:  "Iron: 12 g/dL",
		},
		{
			name:  "trailing and repeated spaces",
			input: "  a    b   \nc\t\t d  ",
			want:  "a b\nc d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	corpus := []string{
		"**bold** and _em_ and # Heading",
		"***triple*** emphasis",
		"**unclosed bold and *nested* parts",
		"__a__b__c__",
		"# Title\n\n\n\n## Sub\n* one\n* two\n\n---\n`code` and ``double``",
		"____",
		"_*_*_",
		"line with trailing   \n\n\n   indented",
		"snake_case_name and __init__",
	}

	for _, input := range corpus {
		once := Clean(input)
		assert.Equal(t, once, Clean(once), "input %q", input)
	}
}
