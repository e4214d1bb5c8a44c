// File: internal/spi/case.go

// Package spi parses sockpuppet-investigation case pages.
//
// A case lives at "Wikipedia:Sockpuppet investigations/<master>", with an
// optional "/Archive" subpage. Each level-3 heading opens one report,
// and by convention its text is the report's date; the accounts and IP
// addresses mentioned in a report carry that date as their context.
package spi

import (
	"fmt"
	"strings"
)

// ArchiveFormatError reports a document whose provenance marker count is
// not exactly one. Zero and many are equally fatal: the caller must not
// guess which sockmaster a case belongs to.
type ArchiveFormatError struct {
	Document string
	Count    int
}

func (e *ArchiveFormatError) Error() string {
	return fmt.Sprintf("%s: expected exactly 1 {{SPIarchive notice}}, found %d", e.Document, e.Count)
}

// archiveNoticeTemplate is the provenance marker recording which sockmaster
// a case belongs to.
const archiveNoticeTemplate = "SPIarchive notice"

// section is one dated report within a document.
type section struct {
	date string
	body string
}

// SourceDocument is one case page's markup, parsed into dated sections.
// The title is carried for error messages only.
type SourceDocument struct {
	Title string
	Text  string

	sections []section
}

// NewSourceDocument parses the markup into a document.
func NewSourceDocument(text, title string) *SourceDocument {
	return &SourceDocument{
		Title:    title,
		Text:     text,
		sections: splitSections(text),
	}
}

// splitSections cuts the text at its level-3 headings. Text before the
// first such heading has no date and carries no mentions.
func splitSections(text string) []section {
	var sections []section
	current := -1
	for _, line := range strings.Split(text, "\n") {
		if h, ok := parseHeadingLine(line); ok && h.level == 3 {
			sections = append(sections, section{date: h.title})
			current = len(sections) - 1
			continue
		}
		if current >= 0 {
			sections[current].body += line + "\n"
		}
	}
	return sections
}

// SockmasterName returns the name of the sockmaster, taken from the single
// {{SPIarchive notice}} in the document. Returns *ArchiveFormatError when
// the document has zero or more than one such marker.
func (d *SourceDocument) SockmasterName() (string, error) {
	var matches []template
	for _, t := range parseTemplates(d.Text) {
		if t.nameMatches(archiveNoticeTemplate) {
			matches = append(matches, t)
		}
	}
	if len(matches) != 1 {
		return "", &ArchiveFormatError{Document: d.Title, Count: len(matches)}
	}
	return matches[0].arg(1), nil
}

// SectionDates returns every level-3 heading in document order, verbatim.
// No date-format validation happens at this layer.
func (d *SourceDocument) SectionDates() []string {
	dates := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		dates = append(dates, s.date)
	}
	return dates
}

// Mentions runs the recognizer over each dated section's body and tags
// every hit with that section's date label.
func (d *SourceDocument) Mentions(rec Recognizer) []Mention {
	var mentions []Mention
	for _, s := range d.sections {
		for _, name := range rec.Names(s.body) {
			mentions = append(mentions, Mention{
				Name: name,
				Date: s.date,
				IsIP: isIPLiteral(name),
			})
		}
	}
	return mentions
}
