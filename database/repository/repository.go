package repository

import (
	"context"
	"errors"
	"time"
)

// Errors returned by every repository implementation. Callers match them with errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")

	// ErrWriteConflict means a conditional write lost a race and may be retried.
	ErrWriteConflict = errors.New("write conflict")
)

// Timeouts applied to single-document and collection-wide operations.
const (
	ShortTimeout = 5 * time.Second
	LongTimeout  = 10 * time.Second
)

// NewContext derives a bounded context for one repository call.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
