// File: internal/spi/correlate_test.go
package spi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socklens/socklens/internal/spi"
)

// fakeSource serves page text from a map; absent titles read as empty,
// matching how missing pages surface from the wiki layer.
type fakeSource struct {
	pages  map[string]string
	titles []string
}

func (f *fakeSource) PageText(_ context.Context, title string) (string, error) {
	f.titles = append(f.titles, title)
	return f.pages[title], nil
}

const caseText = `{{SPIarchive notice|Maltorius}}
===21 March 2020===
{{checkuser|JohnDoe}}
{{checkip|1.2.3.4}}
===22 May 2020===
{{checkip|1.2.3.4}}
{{checkip|5.6.7.8}}
{{user|johnDoe}}
`

const archiveText = `{{SPIarchive notice|Maltorius}}
===01 January 2019===
{{checkuser|OldSock}}
{{checkip|1.2.3.4}}
`

func TestNewCaseFromWiki_WithArchive(t *testing.T) {
	source := &fakeSource{pages: map[string]string{
		"Wikipedia:Sockpuppet investigations/Maltorius":         caseText,
		"Wikipedia:Sockpuppet investigations/Maltorius/Archive": archiveText,
	}}

	c, err := spi.NewCaseFromWiki(context.Background(), source, "Maltorius", true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Wikipedia:Sockpuppet investigations/Maltorius",
		"Wikipedia:Sockpuppet investigations/Maltorius/Archive",
	}, source.titles)

	mentions := c.AllIPMentions()
	assert.Contains(t, mentions["1.2.3.4"], "01 January 2019")
}

func TestNewCaseFromWiki_MissingArchiveIsOmitted(t *testing.T) {
	source := &fakeSource{pages: map[string]string{
		"Wikipedia:Sockpuppet investigations/Maltorius": caseText,
	}}

	c, err := spi.NewCaseFromWiki(context.Background(), source, "Maltorius", true)
	require.NoError(t, err)

	// Only the live page contributes; the empty archive adds nothing.
	users := c.AllUserMentions()
	for _, u := range users {
		assert.NotEqual(t, "OldSock", u.Username)
	}
}

func TestNewCaseFromWiki_NoArchiveRequested(t *testing.T) {
	source := &fakeSource{pages: map[string]string{
		"Wikipedia:Sockpuppet investigations/Maltorius": caseText,
	}}

	_, err := spi.NewCaseFromWiki(context.Background(), source, "Maltorius", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wikipedia:Sockpuppet investigations/Maltorius"}, source.titles)
}

type failingSource struct{ err error }

func (f failingSource) PageText(context.Context, string) (string, error) {
	return "", f.err
}

func TestNewCaseFromWiki_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("fetch failed")
	_, err := spi.NewCaseFromWiki(context.Background(), failingSource{err: boom}, "Maltorius", false)
	require.ErrorIs(t, err, boom)
}

func TestAllIPMentions_DedupedAndSorted(t *testing.T) {
	c := spi.NewCase(nil,
		spi.NewSourceDocument(caseText, "case"),
		spi.NewSourceDocument(archiveText, "archive"))

	got := c.AllIPMentions()
	want := map[string][]string{
		"1.2.3.4": {"01 January 2019", "21 March 2020", "22 May 2020"},
		"5.6.7.8": {"22 May 2020"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ip mentions mismatch (-want +got):\n%s", diff)
	}
}

func TestIPSummaries_SortedByIP(t *testing.T) {
	c := spi.NewCase(nil, spi.NewSourceDocument(caseText, "case"))
	summaries := c.IPSummaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "1.2.3.4", summaries[0].IP)
	assert.Equal(t, "5.6.7.8", summaries[1].IP)
	assert.Equal(t, []string{"22 May 2020"}, summaries[1].Dates)
}

func TestAllUserMentions_DedupedByNormalizedName(t *testing.T) {
	c := spi.NewCase(nil, spi.NewSourceDocument(caseText, "case"))
	got := c.AllUserMentions()

	// "johnDoe" normalizes to the same account as "JohnDoe", so only the
	// first-seen spelling and date survive.
	want := []spi.UserMention{
		{Username: "JohnDoe", Date: "21 March 2020"},
	}
	assert.Equal(t, want, got)
}

func TestAllUserMentions_AcrossDocuments(t *testing.T) {
	c := spi.NewCase(nil,
		spi.NewSourceDocument(caseText, "case"),
		spi.NewSourceDocument(archiveText, "archive"))

	got := c.AllUserMentions()
	want := []spi.UserMention{
		{Username: "JohnDoe", Date: "21 March 2020"},
		{Username: "OldSock", Date: "01 January 2019"},
	}
	assert.Equal(t, want, got)
}

type upcaseRecognizer struct{}

func (upcaseRecognizer) Names(body string) []string {
	if body == "" {
		return nil
	}
	return []string{"FIXED"}
}

func TestNewCase_CustomRecognizer(t *testing.T) {
	c := spi.NewCase(upcaseRecognizer{},
		spi.NewSourceDocument("===A===\nbody\n", "doc"))
	got := c.AllUserMentions()
	require.Len(t, got, 1)
	assert.Equal(t, "FIXED", got[0].Username)
}
