// File: internal/spi/wikitext_test.go
package spi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadingLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   heading
		wantOK bool
	}{
		{"level two", "==Evidence==", heading{level: 2, title: "Evidence"}, true},
		{"level three", "===21 March 2020===", heading{level: 3, title: "21 March 2020"}, true},
		{"unbalanced takes the minimum", "==Evidence===", heading{level: 2, title: "Evidence="}, true},
		{"trailing whitespace tolerated", "===Date===  ", heading{level: 3, title: "Date"}, true},
		{"inner whitespace trimmed", "=== Date ===", heading{level: 3, title: "Date"}, true},
		{"plain text", "no heading here", heading{}, false},
		{"bare equals", "=====", heading{}, false},
		{"empty title", "== ==", heading{}, false},
		{"level seven is not a heading", "=======Seven=======", heading{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseHeadingLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseHeadings_DocumentOrder(t *testing.T) {
	text := "==A==\nbody\n===B===\nmore\n==C==\n"
	got := parseHeadings(text)
	want := []heading{
		{level: 2, title: "A"},
		{level: 3, title: "B"},
		{level: 2, title: "C"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(heading{})); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTemplates_Nested(t *testing.T) {
	text := "before {{outer|{{inner|x}}|second}} after"
	got := parseTemplates(text)
	require.Len(t, got, 2)
	assert.Equal(t, "outer", got[0].name)
	assert.Equal(t, "{{inner|x}}", got[0].arg(1))
	assert.Equal(t, "second", got[0].arg(2))
	assert.Equal(t, "inner", got[1].name)
	assert.Equal(t, "x", got[1].arg(1))
}

func TestParseTemplates_UnclosedIsIgnored(t *testing.T) {
	assert.Empty(t, parseTemplates("{{never closed|arg"))
}

func TestTemplate_NumberedArgs(t *testing.T) {
	tests := []struct {
		body string
		arg1 string
	}{
		{"checkuser|Fred", "Fred"},
		{"checkuser|1=Fred", "Fred"},
		{"checkuser| 1 = Fred ", "Fred"},
		{"checkuser|2=Second|1=First", "First"},
		{"checkuser", ""},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got := parseTemplateBody(tt.body)
			assert.Equal(t, tt.arg1, got.arg(1))
		})
	}
}

func TestTemplate_NameMatches(t *testing.T) {
	tmpl := parseTemplateBody("SPIarchive_notice|Fred")
	assert.True(t, tmpl.nameMatches("SPIarchive notice"))
	assert.True(t, tmpl.nameMatches("spiarchive NOTICE"))
	assert.False(t, tmpl.nameMatches("archive notice"))
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		body string
		want []string
	}{
		{"a|b|c", []string{"a", "b", "c"}},
		{"a|{{t|x}}|c", []string{"a", "{{t|x}}", "c"}},
		{"a|[[page|label]]|c", []string{"a", "[[page|label]]", "c"}},
		{"just one", []string{"just one"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTopLevel(tt.body))
		})
	}
}
