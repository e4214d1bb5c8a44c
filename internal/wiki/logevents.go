// File: internal/wiki/logevents.go
package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Expiry spellings the block log uses for indefinite blocks.
var indefiniteExpiries = map[string]struct{}{
	"":           {},
	"infinity":   {},
	"infinite":   {},
	"indefinite": {},
	"never":      {},
}

// UserBlockHistory returns the block log targeting the user, newest first,
// as BlockEvents and UnblockEvents. Log actions of any other kind are
// logged and dropped rather than failing the call: new action kinds appear
// over time and losing them is the deliberate policy.
func (w *Wiki) UserBlockHistory(ctx context.Context, user string) ([]BlockLogEntry, error) {
	var events []BlockLogEntry
	cont := map[string]string{}
	for {
		params := url.Values{}
		params.Set("list", "logevents")
		params.Set("letype", "block")
		params.Set("letitle", "User:"+user)
		params.Set("lelimit", "max")
		for k, v := range cont {
			params.Set(k, v)
		}
		resp, err := w.client.Query(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetching block history of %q: %w", user, err)
		}
		for _, raw := range resp.Query.LogEvents {
			ts, err := parseTimestamp(raw.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("block log entry %d: %w", raw.LogID, err)
			}
			var expiry *time.Time
			if _, indef := indefiniteExpiries[strings.ToLower(raw.Params.Expiry)]; !indef {
				parsed, err := parseTimestamp(raw.Params.Expiry)
				if err != nil {
					return nil, fmt.Errorf("block log entry %d expiry: %w", raw.LogID, err)
				}
				expiry = &parsed
			}
			switch raw.Action {
			case "block", "reblock":
				event, err := NewBlockEvent(user, ts, raw.LogID, expiry, raw.Action == "reblock")
				if err != nil {
					return nil, fmt.Errorf("block log entry %d: %w", raw.LogID, err)
				}
				events = append(events, event)
			case "unblock":
				events = append(events, UnblockEvent{Target: user, Timestamp: ts, ID: raw.LogID})
			default:
				w.logger.Error("ignoring block log entry with unknown action",
					zap.String("action", raw.Action),
					zap.Int64("logid", raw.LogID),
					zap.String("user", user))
			}
		}
		if len(resp.Continue) == 0 {
			return events, nil
		}
		cont = resp.Continue
	}
}

// MultiUserBlockHistories fetches the block histories of several users in
// parallel, one fetch per user, and merges them into a single
// reverse-chronological timeline. The first failing fetch cancels the rest
// and fails the whole call; there is no partial result.
func (w *Wiki) MultiUserBlockHistories(ctx context.Context, users []string) ([]BlockLogEntry, error) {
	histories := make([][]BlockLogEntry, len(users))
	g, gctx := errgroup.WithContext(ctx)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			events, err := w.UserBlockHistory(gctx, user)
			if err != nil {
				return err
			}
			histories[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeBlockHistories(histories...), nil
}

// LogEventIterator walks the log events performed BY a user, lazily.
// Things that happened *to* the user are reached through other calls, such
// as UserBlockHistory.
type LogEventIterator struct {
	wiki *Wiki
	ctx  context.Context
	user string

	started bool
	cont    map[string]string
	buf     []LogEvent
	pos     int
	cur     LogEvent
	err     error
	done    bool
}

// UserLogEvents returns an iterator over the user's own log actions.
func (w *Wiki) UserLogEvents(ctx context.Context, user string) *LogEventIterator {
	return &LogEventIterator{wiki: w, ctx: ctx, user: user}
}

// Next advances the iterator; false means exhausted or failed (check Err).
func (it *LogEventIterator) Next() bool {
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

// LogEvent returns the element produced by the last successful Next.
func (it *LogEventIterator) LogEvent() LogEvent {
	return it.cur
}

// Err returns the first error the iterator hit, if any.
func (it *LogEventIterator) Err() error {
	return it.err
}

func (it *LogEventIterator) fetch() bool {
	if it.started && it.cont == nil {
		it.done = true
		return false
	}

	params := url.Values{}
	params.Set("list", "logevents")
	params.Set("leuser", it.user)
	params.Set("lelimit", "max")
	for k, v := range it.cont {
		params.Set(k, v)
	}
	it.started = true

	resp, err := it.wiki.client.Query(it.ctx, params)
	if err != nil {
		it.err = fmt.Errorf("listing log events of %q: %w", it.user, err)
		it.done = true
		return false
	}

	it.buf = it.buf[:0]
	it.pos = 0
	for _, raw := range resp.Query.LogEvents {
		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			it.err = fmt.Errorf("log entry %d: %w", raw.LogID, err)
			it.done = true
			return false
		}
		event := LogEvent{
			LogID:     raw.LogID,
			Timestamp: ts,
			User:      raw.User,
			Type:      raw.Type,
		}
		if raw.Title != "" {
			event.Title = strPtr(raw.Title)
		}
		if raw.Action != "" {
			event.Action = strPtr(raw.Action)
		}
		if !raw.CommentHidden {
			event.Comment = strPtr(raw.Comment)
		}
		it.buf = append(it.buf, event)
	}

	if len(resp.Continue) > 0 {
		it.cont = resp.Continue
	} else {
		it.cont = nil
	}
	return true
}
