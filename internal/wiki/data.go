// File: internal/wiki/data.go
package wiki

import (
	"time"
)

// Contribution is one edit, live or deleted, as seen by this tool.
// Immutable value; Comment is nil when the comment was hidden or suppressed.
type Contribution struct {
	RevID     int64
	Timestamp time.Time
	User      string
	Namespace int
	Title     string
	Comment   *string
	IsLive    bool
	Tags      []string
}

// LogEvent is one log action performed by a user. Title, Action and Comment
// are nil when the API omits or hides them.
type LogEvent struct {
	LogID     int64
	Timestamp time.Time
	User      string
	Title     *string
	Type      string
	Action    *string
	Comment   *string
}

// parseTimestamp parses the API's ISO-8601 timestamps.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// strPtr returns a pointer to s. Used for the nullable comment/title fields.
func strPtr(s string) *string {
	return &s
}
