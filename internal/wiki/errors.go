// File: internal/wiki/errors.go
package wiki

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks caller mistakes: a reserved "|" in a username, or
// similar malformed input. Never retried, always surfaced.
var ErrInvalidArgument = errors.New("invalid argument")

// OrderingError reports a block history that is still inconsistent after
// sorting: duplicate timestamps, or an entry of no recognized kind. It
// indicates an upstream data anomaly and is not recoverable locally.
type OrderingError struct {
	Detail string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("block history ordering violation: %s", e.Detail)
}
