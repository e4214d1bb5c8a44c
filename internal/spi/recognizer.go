// File: internal/spi/recognizer.go
package spi

import (
	"net/netip"
	"regexp"
	"strings"
)

// Mention is one account or IP address found in a dated section.
type Mention struct {
	Name string
	Date string
	IsIP bool
}

// Recognizer extracts the account/IP names mentioned in a section body.
//
// Which link and template forms count as a "mention" is wiki convention,
// not specification, so the grammar is pluggable; the behavior of the
// default is pinned down by the fixture in testdata/case_page.wiki rather
// than by prose.
type Recognizer interface {
	Names(body string) []string
}

// DefaultRecognizer understands the template and link conventions SPI
// clerks actually use on case pages.
type DefaultRecognizer struct{}

// Templates whose first positional argument names an account or IP.
var mentionTemplates = []string{
	"checkuser",
	"checkip",
	"user",
	"user5",
	"vandal",
	"IPuser",
	"SPIarchive notice",
}

// Link prefixes whose remainder names an account or IP.
var mentionLinkRe = regexp.MustCompile(
	`\[\[\s*(?i:user(?: talk)?)\s*:\s*([^|\]#/]+)|\[\[\s*(?i:special\s*:\s*contributions)/([^|\]#]+)`)

// Names returns the mentioned account/IP names in document order, deduped
// within the body.
func (DefaultRecognizer) Names(body string) []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		name := strings.TrimSpace(raw)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, t := range parseTemplates(body) {
		for _, want := range mentionTemplates {
			if t.nameMatches(want) {
				add(t.arg(1))
				break
			}
		}
	}
	for _, m := range mentionLinkRe.FindAllStringSubmatch(body, -1) {
		if m[1] != "" {
			add(m[1])
		} else {
			add(m[2])
		}
	}
	return names
}

// isIPLiteral reports whether the name is a bare IPv4/IPv6 address.
func isIPLiteral(name string) bool {
	_, err := netip.ParseAddr(strings.TrimSpace(name))
	return err == nil
}
