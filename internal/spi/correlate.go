// File: internal/spi/correlate.go
package spi

import (
	"context"
	"fmt"
	"sort"

	"github.com/socklens/socklens/internal/wiki"
)

// CasePrefix is where investigations live on the wiki.
const CasePrefix = "Wikipedia:Sockpuppet investigations/"

// PageTextSource is the one facade operation case loading needs.
type PageTextSource interface {
	PageText(ctx context.Context, title string) (string, error)
}

// Case is one investigation: the current case page plus, optionally, its
// archive. All views over it are recomputed per call; nothing is cached.
type Case struct {
	docs []*SourceDocument
	rec  Recognizer
}

// NewCase builds a case over already-fetched documents. A nil recognizer
// means the default one.
func NewCase(rec Recognizer, docs ...*SourceDocument) *Case {
	if rec == nil {
		rec = DefaultRecognizer{}
	}
	return &Case{docs: docs, rec: rec}
}

// NewCaseFromWiki fetches the case page for the given master and, when
// useArchive is set, its archive. An archive page with no text is silently
// omitted rather than treated as an error.
func NewCaseFromWiki(ctx context.Context, source PageTextSource, master string, useArchive bool) (*Case, error) {
	caseTitle := CasePrefix + master
	text, err := source.PageText(ctx, caseTitle)
	if err != nil {
		return nil, fmt.Errorf("loading case %q: %w", master, err)
	}
	docs := []*SourceDocument{NewSourceDocument(text, caseTitle)}

	if useArchive {
		archiveTitle := caseTitle + "/Archive"
		archiveText, err := source.PageText(ctx, archiveTitle)
		if err != nil {
			return nil, fmt.Errorf("loading archive of case %q: %w", master, err)
		}
		if archiveText != "" {
			docs = append(docs, NewSourceDocument(archiveText, archiveTitle))
		}
	}
	return NewCase(nil, docs...), nil
}

// UserMention is one distinct account with the date label of the section it
// was first seen in.
type UserMention struct {
	Username string
	Date     string
}

// IPSummary is one distinct IP address and the sorted date labels it was
// observed under.
type IPSummary struct {
	IP    string
	Dates []string
}

// AllIPMentions returns every distinct IP across all documents, mapped to
// its sorted, deduplicated date labels. Labels sort as strings; nothing at
// this layer needs them machine-parsed.
func (c *Case) AllIPMentions() map[string][]string {
	dates := make(map[string]map[string]struct{})
	for _, doc := range c.docs {
		for _, m := range doc.Mentions(c.rec) {
			if !m.IsIP {
				continue
			}
			if dates[m.Name] == nil {
				dates[m.Name] = make(map[string]struct{})
			}
			dates[m.Name][m.Date] = struct{}{}
		}
	}
	out := make(map[string][]string, len(dates))
	for ip, set := range dates {
		labels := make([]string, 0, len(set))
		for d := range set {
			labels = append(labels, d)
		}
		sort.Strings(labels)
		out[ip] = labels
	}
	return out
}

// IPSummaries is AllIPMentions flattened to a slice sorted by IP, the shape
// the presentation layer wants.
func (c *Case) IPSummaries() []IPSummary {
	mentions := c.AllIPMentions()
	out := make([]IPSummary, 0, len(mentions))
	for ip, dates := range mentions {
		out = append(out, IPSummary{IP: ip, Dates: dates})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })
	return out
}

// AllUserMentions returns every distinct non-IP account across all
// documents, deduplicated by normalized username, in first-seen document
// order with the first-seen date label retained.
func (c *Case) AllUserMentions() []UserMention {
	var out []UserMention
	seen := make(map[string]struct{})
	for _, doc := range c.docs {
		for _, m := range doc.Mentions(c.rec) {
			if m.IsIP {
				continue
			}
			key := wiki.NormalizeUsername(m.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, UserMention{Username: m.Name, Date: m.Date})
		}
	}
	return out
}
