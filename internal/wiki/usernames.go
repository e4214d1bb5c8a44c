// File: internal/wiki/usernames.go
package wiki

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	whitespaceRun = regexp.MustCompile(`\s`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeUsername maps a name to the registry's canonical form: whitespace
// and underscore runs collapse to single spaces, the result is trimmed, and
// only the first character is upper-cased. This matches how list=users
// reports names back.
func NormalizeUsername(name string) string {
	underscores := whitespaceRun.ReplaceAllString(name, "_")
	singleSpace := underscoreRun.ReplaceAllString(underscores, " ")
	trimmed := strings.TrimSpace(singleSpace)
	first, size := utf8.DecodeRuneInString(trimmed)
	if first == utf8.RuneError && size == 0 {
		return trimmed
	}
	return string(unicode.ToUpper(first)) + trimmed[size:]
}

// isIPAddress reports whether the string is a literal IPv4 or IPv6 address.
// Ranges ("1.2.3.0/24") do not count.
func isIPAddress(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// ValidateUsernames classifies the given names and returns the set of
// invalid ones. "Invalid" means either syntactically malformed (":::foo")
// or not registered on this wiki.
//
// IP-address literals are considered automatically valid and are never sent
// to the registry: you can put "User:" in front of one and find
// contributions, which is the standard this check cares about.
//
// Names containing the API's "|" delimiter are rejected with
// ErrInvalidArgument. The rest are batched fifty per list=users call.
func (w *Wiki) ValidateUsernames(ctx context.Context, names []string) (map[string]struct{}, error) {
	var candidates []string
	for _, name := range names {
		w.logger.Debug("validating username", zap.String("name", name))
		if strings.Contains(name, "|") {
			return nil, fmt.Errorf("%w: %q in user name %q", ErrInvalidArgument, "|", name)
		}
		if !isIPAddress(strings.TrimSpace(name)) {
			candidates = append(candidates, name)
		}
	}

	invalidNames := make(map[string]struct{})
	normalizedMissing := make(map[string]struct{})
	for start := 0; start < len(candidates); start += maxLookupUsers {
		chunk := candidates[start:min(start+maxLookupUsers, len(candidates))]
		params := url.Values{}
		params.Set("list", "users")
		params.Set("ususers", strings.Join(chunk, "|"))
		resp, err := w.client.Query(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("validating usernames: %w", err)
		}
		for _, row := range resp.Query.Users {
			switch {
			case row.Invalid:
				invalidNames[row.Name] = struct{}{}
			case row.Missing:
				normalizedMissing[row.Name] = struct{}{}
			}
		}
	}

	result := make(map[string]struct{})
	for _, name := range candidates {
		if _, missing := normalizedMissing[NormalizeUsername(name)]; missing {
			result[name] = struct{}{}
			continue
		}
		if _, invalid := invalidNames[name]; invalid {
			result[name] = struct{}{}
		}
	}
	return result, nil
}
