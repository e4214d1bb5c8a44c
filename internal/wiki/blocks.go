// File: internal/wiki/blocks.go
package wiki

import (
	"container/heap"
	"fmt"
	"sort"
	"time"
)

// BlockLogEntry is the closed union of the two block-log event kinds.
// Only BlockEvent and UnblockEvent implement it; consumers type-switch
// exhaustively over those two.
type BlockLogEntry interface {
	// Time is the moment the log action happened.
	Time() time.Time
	isBlockLogEntry()
}

// BlockEvent is a log event of type block/block or block/reblock.
//
// Target is the blocked user, without the leading "User:". A nil Expiry
// means an indefinite block.
type BlockEvent struct {
	Target    string
	Timestamp time.Time
	ID        int64
	Expiry    *time.Time
	IsReblock bool
}

// NewBlockEvent validates and constructs a BlockEvent. An expiry earlier
// than the event's own timestamp is rejected; an expiry equal to it is fine.
func NewBlockEvent(target string, timestamp time.Time, id int64, expiry *time.Time, isReblock bool) (BlockEvent, error) {
	if expiry != nil && expiry.Before(timestamp) {
		return BlockEvent{}, fmt.Errorf("block of %s: expiry (%s) before timestamp (%s)",
			target, expiry.Format(time.RFC3339), timestamp.Format(time.RFC3339))
	}
	return BlockEvent{
		Target:    target,
		Timestamp: timestamp,
		ID:        id,
		Expiry:    expiry,
		IsReblock: isReblock,
	}, nil
}

func (e BlockEvent) Time() time.Time { return e.Timestamp }
func (BlockEvent) isBlockLogEntry()  {}

// UnblockEvent is a log event of type block/unblock.
type UnblockEvent struct {
	Target    string
	Timestamp time.Time
	ID        int64
}

func (e UnblockEvent) Time() time.Time { return e.Timestamp }
func (UnblockEvent) isBlockLogEntry()  {}

// UserBlockHistory is one user's block log, held in ascending timestamp
// order. Two entries may not share a timestamp.
type UserBlockHistory struct {
	events []BlockLogEntry
}

// NewUserBlockHistory sorts the given entries by timestamp and validates
// them. Every entry must be a BlockEvent or an UnblockEvent; pointer forms
// are normalized to values so the point-in-time query's value assertions
// hold. It returns an *OrderingError if any entry is of another kind or
// if, after sorting, two entries share a timestamp.
func NewUserBlockHistory(entries []BlockLogEntry) (*UserBlockHistory, error) {
	events := make([]BlockLogEntry, len(entries))
	for i, e := range entries {
		kind, err := normalizeEntry(e)
		if err != nil {
			return nil, &OrderingError{Detail: fmt.Sprintf("entry %d is not a block or unblock event", i)}
		}
		events[i] = kind
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time().Before(events[j].Time())
	})
	for i := 1; i < len(events); i++ {
		if !events[i-1].Time().Before(events[i].Time()) {
			return nil, &OrderingError{Detail: fmt.Sprintf(
				"duplicate timestamp %s", events[i].Time().Format(time.RFC3339))}
		}
	}
	return &UserBlockHistory{events: events}, nil
}

// normalizeEntry maps an entry to its value form. The sum type is sealed,
// but pointers to the two event types also satisfy it; accepting them here
// keeps the value-type assertions downstream exhaustive.
func normalizeEntry(e BlockLogEntry) (BlockLogEntry, error) {
	switch v := e.(type) {
	case BlockEvent:
		return v, nil
	case UnblockEvent:
		return v, nil
	case *BlockEvent:
		if v != nil {
			return *v, nil
		}
	case *UnblockEvent:
		if v != nil {
			return *v, nil
		}
	}
	return nil, fmt.Errorf("unrecognized block log entry %T", e)
}

// Events returns the entries in ascending timestamp order.
func (h *UserBlockHistory) Events() []BlockLogEntry {
	return h.events
}

// IsBlockedAt reports whether the user was blocked at the given moment.
// The state after the last entry at or before the timestamp wins; a history
// with no applicable entry means not blocked.
func (h *UserBlockHistory) IsBlockedAt(t time.Time) bool {
	blocked := false
	for _, event := range h.events {
		if event.Time().After(t) {
			break
		}
		_, blocked = event.(BlockEvent)
	}
	return blocked
}

// mergeSource is one input stream of the k-way merge, consumed front to back.
type mergeSource struct {
	entries []BlockLogEntry
	pos     int
	order   int
}

func (s *mergeSource) head() BlockLogEntry { return s.entries[s.pos] }

// mergeHeap is a max-heap on head timestamps, so the newest entry across all
// sources surfaces first. Ties break on source order for determinism.
type mergeHeap []*mergeSource

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	ti, tj := h[i].head().Time(), h[j].head().Time()
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return h[i].order < h[j].order
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(*mergeSource)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeBlockHistories merges per-user block logs, each already sorted
// reverse-chronologically, into one reverse-chronological timeline. It is a
// streaming O(n log k) merge rather than a collect-and-resort.
func MergeBlockHistories(histories ...[]BlockLogEntry) []BlockLogEntry {
	sources := make(mergeHeap, 0, len(histories))
	total := 0
	for i, events := range histories {
		if len(events) == 0 {
			continue
		}
		total += len(events)
		sources = append(sources, &mergeSource{entries: events, order: i})
	}
	heap.Init(&sources)

	merged := make([]BlockLogEntry, 0, total)
	for sources.Len() > 0 {
		src := sources[0]
		merged = append(merged, src.head())
		src.pos++
		if src.pos == len(src.entries) {
			heap.Pop(&sources)
		} else {
			heap.Fix(&sources, 0)
		}
	}
	return merged
}
