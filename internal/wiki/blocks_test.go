// File: internal/wiki/blocks_test.go
package wiki_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socklens/socklens/internal/wiki"
)

var t0 = time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return t0.Add(time.Duration(hours) * time.Hour)
}

func block(target string, ts time.Time, id int64) wiki.BlockEvent {
	e, err := wiki.NewBlockEvent(target, ts, id, nil, false)
	if err != nil {
		panic(err)
	}
	return e
}

func TestNewBlockEvent_ExpiryValidation(t *testing.T) {
	earlier := at(-1)
	same := at(0)
	later := at(1)

	tests := []struct {
		name    string
		expiry  *time.Time
		wantErr bool
	}{
		{"no expiry is indefinite", nil, false},
		{"expiry after timestamp", &later, false},
		{"expiry equal to timestamp", &same, false},
		{"expiry before timestamp", &earlier, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wiki.NewBlockEvent("Example", at(0), 1, tt.expiry, false)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUserBlockHistory_SortsAscending(t *testing.T) {
	h, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{
		block("Example", at(5), 3),
		wiki.UnblockEvent{Target: "Example", Timestamp: at(1), ID: 2},
		block("Example", at(0), 1),
	})
	require.NoError(t, err)

	events := h.Events()
	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].Time().Before(events[i].Time()))
	}
}

func TestNewUserBlockHistory_RejectsDuplicateTimestamps(t *testing.T) {
	_, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{
		block("Example", at(1), 1),
		wiki.UnblockEvent{Target: "Example", Timestamp: at(1), ID: 2},
	})
	var ordErr *wiki.OrderingError
	require.ErrorAs(t, err, &ordErr)
}

func TestNewUserBlockHistory_RejectsNilEntry(t *testing.T) {
	_, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{block("Example", at(1), 1), nil})
	var ordErr *wiki.OrderingError
	require.ErrorAs(t, err, &ordErr)
}

func TestNewUserBlockHistory_NormalizesPointerEntries(t *testing.T) {
	b := block("Example", at(1), 1)
	u := wiki.UnblockEvent{Target: "Example", Timestamp: at(3), ID: 2}

	h, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{&b, &u})
	require.NoError(t, err)

	events := h.Events()
	require.Len(t, events, 2)
	_, ok := events[0].(wiki.BlockEvent)
	assert.True(t, ok, "pointer entries come back as values")
	_, ok = events[1].(wiki.UnblockEvent)
	assert.True(t, ok)

	assert.True(t, h.IsBlockedAt(at(1)), "a block held through a pointer still counts as a block")
	assert.False(t, h.IsBlockedAt(at(3)))
}

func TestNewUserBlockHistory_RejectsNilPointerEntry(t *testing.T) {
	_, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{(*wiki.BlockEvent)(nil)})
	var ordErr *wiki.OrderingError
	require.ErrorAs(t, err, &ordErr)
}

func TestIsBlockedAt(t *testing.T) {
	// Block at t1, unblock at t3.
	h, err := wiki.NewUserBlockHistory([]wiki.BlockLogEntry{
		block("Example", at(1), 1),
		wiki.UnblockEvent{Target: "Example", Timestamp: at(3), ID: 2},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		when time.Time
		want bool
	}{
		{"before the block", at(0), false},
		{"at the block", at(1), true},
		{"between block and unblock", at(2), true},
		{"at the unblock", at(3), false},
		{"after the unblock", at(4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.IsBlockedAt(tt.when))
		})
	}
}

func TestIsBlockedAt_EmptyHistory(t *testing.T) {
	h, err := wiki.NewUserBlockHistory(nil)
	require.NoError(t, err)
	assert.False(t, h.IsBlockedAt(at(0)))
}

func TestMergeBlockHistories(t *testing.T) {
	// Each input is reverse-chronological, as UserBlockHistory returns them.
	alice := []wiki.BlockLogEntry{
		wiki.UnblockEvent{Target: "Alice", Timestamp: at(6), ID: 13},
		block("Alice", at(2), 11),
	}
	bob := []wiki.BlockLogEntry{
		block("Bob", at(5), 22),
		block("Bob", at(1), 21),
	}
	carol := []wiki.BlockLogEntry{
		block("Carol", at(4), 31),
	}

	merged := wiki.MergeBlockHistories(alice, bob, carol)
	require.Len(t, merged, 5)

	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i-1].Time().Before(merged[i].Time()),
			"timestamps must be non-increasing at %d", i)
	}

	var all []wiki.BlockLogEntry
	all = append(all, alice...)
	all = append(all, bob...)
	all = append(all, carol...)
	assert.ElementsMatch(t, all, merged)
}

func TestMergeBlockHistories_EmptyInputs(t *testing.T) {
	assert.Empty(t, wiki.MergeBlockHistories())
	assert.Empty(t, wiki.MergeBlockHistories(nil, nil))
}

func TestOrderingError_Message(t *testing.T) {
	err := &wiki.OrderingError{Detail: "duplicate timestamp"}
	assert.Contains(t, err.Error(), "duplicate timestamp")
	assert.False(t, errors.Is(err, wiki.ErrInvalidArgument))
}
