// File: internal/wiki/wiki.go

// Package wiki is the high-level interface to the wiki.
//
// It sits on top of the mwapi wire client and trades raw API records for
// typed values: sets instead of piped strings, time.Time instead of ISO
// strings. All wiki access in this tool goes through this layer; nothing
// else should touch mwapi directly.
//
// A Wiki carries the caller's credential context, so construct a fresh one
// per request and do not share it across requests.
package wiki

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socklens/socklens/internal/mwapi"
)

// Per-call user limits for the relevant API modules.
// See https://www.mediawiki.org/wiki/API:Usercontribs and API:Users.
const (
	maxContribUsers = 50
	maxLookupUsers  = 50
)

// Wiki is the facade. Safe for sequential use within one request; create a
// new instance for each request rather than sharing one.
type Wiki struct {
	client    mwapi.Client
	logger    *zap.Logger
	requestID string
}

// New builds a Wiki over the given wire client. The generated request id is
// attached to every log line this instance emits, which keeps interleaved
// per-request work distinguishable off the main goroutine.
func New(client mwapi.Client, logger *zap.Logger) *Wiki {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Wiki{
		client:    client,
		logger:    logger.Named("wiki").With(zap.String("request_id", id)),
		requestID: id,
	}
}

// RequestID returns the id attached to this instance's log lines.
func (w *Wiki) RequestID() string {
	return w.requestID
}

// PageExists reports whether the page exists.
func (w *Wiki) PageExists(ctx context.Context, title string) (bool, error) {
	params := url.Values{}
	params.Set("titles", title)
	resp, err := w.client.Query(ctx, params)
	if err != nil {
		return false, fmt.Errorf("checking existence of %q: %w", title, err)
	}
	if len(resp.Query.Pages) == 0 {
		return false, nil
	}
	return !resp.Query.Pages[0].Missing, nil
}

// PageText returns the current wikitext of the page, or the empty string if
// the page is missing or has no content. Callers treat "" as "no page".
func (w *Wiki) PageText(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("titles", title)
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")
	params.Set("rvlimit", "1")
	resp, err := w.client.Query(ctx, params)
	if err != nil {
		return "", fmt.Errorf("fetching text of %q: %w", title, err)
	}
	if len(resp.Query.Pages) == 0 {
		return "", nil
	}
	page := resp.Query.Pages[0]
	if page.Missing || len(page.Revisions) == 0 {
		return "", nil
	}
	return page.Revisions[0].Slots.Main.Content, nil
}

// PageRevisions returns up to limit of the page's most recent revisions as
// Contributions, newest first. limit <= 0 means the API default.
func (w *Wiki) PageRevisions(ctx context.Context, title string, limit int) ([]Contribution, error) {
	params := url.Values{}
	params.Set("titles", title)
	params.Set("prop", "revisions")
	params.Set("rvprop", "ids|timestamp|user|comment|tags")
	if limit > 0 {
		params.Set("rvlimit", fmt.Sprint(limit))
	}
	resp, err := w.client.Query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching revisions of %q: %w", title, err)
	}
	if len(resp.Query.Pages) == 0 {
		return nil, nil
	}
	page := resp.Query.Pages[0]
	contribs := make([]Contribution, 0, len(page.Revisions))
	for _, rev := range page.Revisions {
		ts, err := parseTimestamp(rev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("revision %d of %q: %w", rev.RevID, title, err)
		}
		var comment *string
		if !rev.CommentHidden {
			comment = strPtr(rev.Comment)
		}
		contribs = append(contribs, Contribution{
			RevID:     rev.RevID,
			Timestamp: ts,
			User:      rev.User,
			Namespace: page.Namespace,
			Title:     page.Title,
			Comment:   comment,
			IsLive:    true,
			Tags:      rev.Tags,
		})
	}
	return contribs, nil
}

// CategoriesOf returns the set of category titles the page belongs to,
// following one redirect if the page is a redirect. Titles keep their
// "Category:" prefix so they can be fed straight back in as page titles.
func (w *Wiki) CategoriesOf(ctx context.Context, title string) (map[string]struct{}, error) {
	categories := make(map[string]struct{})
	cont := map[string]string{}
	for {
		params := url.Values{}
		params.Set("titles", title)
		params.Set("prop", "categories")
		params.Set("cllimit", "max")
		params.Set("redirects", "1")
		for k, v := range cont {
			params.Set(k, v)
		}
		resp, err := w.client.Query(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetching categories of %q: %w", title, err)
		}
		for _, page := range resp.Query.Pages {
			for _, cat := range page.Categories {
				categories[cat.Title] = struct{}{}
			}
		}
		if len(resp.Continue) == 0 {
			return categories, nil
		}
		cont = resp.Continue
	}
}

// RegistrationTime returns when the account was registered, or nil if the
// registry has no registration field for it (old auto-created accounts).
func (w *Wiki) RegistrationTime(ctx context.Context, user string) (*time.Time, error) {
	params := url.Values{}
	params.Set("list", "users")
	params.Set("ususers", user)
	params.Set("usprop", "registration")
	resp, err := w.client.Query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("looking up registration of %q: %w", user, err)
	}
	if len(resp.Query.Users) == 0 || resp.Query.Users[0].Registration == "" {
		return nil, nil
	}
	ts, err := parseTimestamp(resp.Query.Users[0].Registration)
	if err != nil {
		return nil, fmt.Errorf("registration of %q: %w", user, err)
	}
	return &ts, nil
}
