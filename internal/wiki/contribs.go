// File: internal/wiki/contribs.go
package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/socklens/socklens/internal/mwapi"
)

// ContribIterator walks one or more users' live edits lazily, issuing
// further upstream calls only as the caller pulls. Abandoning the iterator
// early needs no cleanup.
//
// Usage follows the bufio.Scanner convention:
//
//	it, err := w.UserContributions(ctx, names, "", nil)
//	for it.Next() {
//		c := it.Contribution()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type ContribIterator struct {
	wiki   *Wiki
	ctx    context.Context
	chunks [][]string
	filter string
	end    *time.Time

	chunk int
	cont  map[string]string
	buf   []Contribution
	pos   int
	cur   Contribution
	err   error
	done  bool
}

// UserContributions returns an iterator over the live edits of the given
// users, all interleaved in the API's order. Names are batched fifty per
// upstream call, joined by the API's "|" delimiter, which is why a "|" in
// any name is rejected up front with ErrInvalidArgument.
//
// filter is passed through as the API's "show" parameter (e.g. "new",
// "!minor"); end, when non-nil, bounds the listing.
func (w *Wiki) UserContributions(ctx context.Context, names []string, filter string, end *time.Time) (*ContribIterator, error) {
	all := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(name, "|") {
			return nil, fmt.Errorf("%w: %q in user name %q", ErrInvalidArgument, "|", name)
		}
		all = append(all, name)
	}
	var chunks [][]string
	for len(all) > maxContribUsers {
		chunks = append(chunks, all[:maxContribUsers])
		all = all[maxContribUsers:]
	}
	if len(all) > 0 {
		chunks = append(chunks, all)
	}
	return &ContribIterator{
		wiki:   w,
		ctx:    ctx,
		chunks: chunks,
		filter: filter,
		end:    end,
	}, nil
}

// Next advances the iterator. It returns false when the listing is
// exhausted or an error occurred; check Err afterwards.
func (it *ContribIterator) Next() bool {
	for {
		if it.done {
			return false
		}
		if it.pos < len(it.buf) {
			it.cur = it.buf[it.pos]
			it.pos++
			return true
		}
		if !it.fetch() {
			return false
		}
	}
}

// Contribution returns the element produced by the last successful Next.
func (it *ContribIterator) Contribution() Contribution {
	return it.cur
}

// Err returns the first error the iterator hit, if any.
func (it *ContribIterator) Err() error {
	return it.err
}

// fetch issues the next upstream call: the current chunk's continuation if
// one is pending, otherwise the first call for the next chunk. Returns
// false when there is nothing left to fetch or an error stopped the walk.
func (it *ContribIterator) fetch() bool {
	if it.cont == nil && it.chunk >= len(it.chunks) {
		it.done = true
		return false
	}

	params := url.Values{}
	params.Set("list", "usercontribs")
	params.Set("ucprop", "ids|title|timestamp|comment|flags|tags")
	params.Set("uclimit", "max")
	if it.cont != nil {
		params.Set("ucuser", strings.Join(it.chunks[it.chunk-1], "|"))
		for k, v := range it.cont {
			params.Set(k, v)
		}
	} else {
		params.Set("ucuser", strings.Join(it.chunks[it.chunk], "|"))
		it.chunk++
	}
	if it.filter != "" {
		params.Set("ucshow", it.filter)
	}
	if it.end != nil {
		params.Set("ucend", it.end.UTC().Format(time.RFC3339))
	}

	resp, err := it.wiki.client.Query(it.ctx, params)
	if err != nil {
		it.err = fmt.Errorf("listing contributions: %w", err)
		it.done = true
		return false
	}

	it.buf = it.buf[:0]
	it.pos = 0
	for _, raw := range resp.Query.UserContribs {
		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			it.err = fmt.Errorf("contribution %d: %w", raw.RevID, err)
			it.done = true
			return false
		}
		var comment *string
		if !raw.CommentHidden {
			comment = strPtr(raw.Comment)
		}
		it.wiki.logger.Debug("contribution", zap.Int64("revid", raw.RevID), zap.String("user", raw.User))
		it.buf = append(it.buf, Contribution{
			RevID:     raw.RevID,
			Timestamp: ts,
			User:      raw.User,
			Namespace: raw.Namespace,
			Title:     raw.Title,
			Comment:   comment,
			IsLive:    true,
			Tags:      raw.Tags,
		})
	}

	if len(resp.Continue) > 0 {
		it.cont = resp.Continue
	} else {
		it.cont = nil
	}
	return true
}

// DeletedUserContributions returns the user's deleted edits, sorted
// reverse-chronologically.
//
// If the connection is not authorized to see deleted content, this returns
// an empty slice rather than an error: lacking admin rights is an expected
// caller condition, not a failure. Any other upstream error propagates.
//
// Everything is collected and sorted in memory; a merge over the paginated
// listing could avoid that, but the expected number of deleted edits is
// small.
func (w *Wiki) DeletedUserContributions(ctx context.Context, user string) ([]Contribution, error) {
	var contribs []Contribution
	cont := map[string]string{}
	for {
		params := url.Values{}
		params.Set("list", "alldeletedrevisions")
		params.Set("adruser", user)
		params.Set("adrprop", "ids|title|timestamp|comment|flags|tags")
		params.Set("adrlimit", "max")
		for k, v := range cont {
			params.Set(k, v)
		}
		resp, err := w.client.Query(ctx, params)
		if err != nil {
			var apiErr *mwapi.APIError
			if errors.As(err, &apiErr) && apiErr.Code == mwapi.CodePermissionDenied {
				// Assumes the API refuses before returning partial data. If
				// rights vanish between continuation chunks we would return
				// an incomplete listing instead, which is tolerable.
				w.logger.Warn("permission denied listing deleted contributions", zap.String("user", user))
				return []Contribution{}, nil
			}
			return nil, fmt.Errorf("listing deleted contributions of %q: %w", user, err)
		}
		for _, page := range resp.Query.AllDeletedRevisions {
			for _, rev := range page.Revisions {
				ts, err := parseTimestamp(rev.Timestamp)
				if err != nil {
					return nil, fmt.Errorf("deleted revision %d: %w", rev.RevID, err)
				}
				var comment *string
				if !rev.CommentHidden {
					comment = strPtr(rev.Comment)
				}
				contribs = append(contribs, Contribution{
					RevID:     rev.RevID,
					Timestamp: ts,
					User:      user,
					Namespace: page.Namespace,
					Title:     page.Title,
					Comment:   comment,
					IsLive:    false,
					Tags:      rev.Tags,
				})
			}
		}
		if len(resp.Continue) == 0 {
			break
		}
		cont = resp.Continue
	}

	sort.Slice(contribs, func(i, j int) bool {
		if !contribs[i].Timestamp.Equal(contribs[j].Timestamp) {
			return contribs[i].Timestamp.After(contribs[j].Timestamp)
		}
		return contribs[i].RevID > contribs[j].RevID
	})
	return contribs, nil
}

// IsValidUsername tests a username for well-formedness. Valid here means the
// contributions API accepts it; a name can be valid yet unregistered on this
// particular wiki. Only the specific "baduser" rejection maps to false; any
// other upstream error propagates.
func (w *Wiki) IsValidUsername(ctx context.Context, user string) (bool, error) {
	params := url.Values{}
	params.Set("list", "usercontribs")
	params.Set("ucuser", user)
	params.Set("uclimit", "1")
	if _, err := w.client.Query(ctx, params); err != nil {
		var apiErr *mwapi.APIError
		if errors.As(err, &apiErr) && apiErr.Code == mwapi.CodeBadUser {
			return false, nil
		}
		return false, fmt.Errorf("probing username %q: %w", user, err)
	}
	return true, nil
}
