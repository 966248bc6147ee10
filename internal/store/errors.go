package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Failure kinds surfaced by store-backed operations. Handlers map these to
// caller-visible results; nothing below this package inspects gorm errors.
var (
	// ErrNotFound: the requested entity id does not exist.
	ErrNotFound = errors.New("not_found")
	// ErrInvalidReference: a required foreign reference does not resolve.
	ErrInvalidReference = errors.New("invalid_reference")
	// ErrConstraintViolation: a uniqueness constraint was broken.
	ErrConstraintViolation = errors.New("constraint_violation")
	// ErrUnavailable: the store is unreachable or the transaction failed
	// transiently; eligible for retry.
	ErrUnavailable = errors.New("unavailable")
)

// Classify folds driver and gorm errors into the taxonomy above. Unknown
// errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConstraintViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrUnavailable
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") {
		return ErrConstraintViolation
	}
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is locked") || strings.Contains(msg, "connection reset") {
		return ErrUnavailable
	}
	return err
}

// Retry runs fn up to attempts times, backing off linearly between tries, and
// gives up early for anything that is not ErrUnavailable. The context bounds
// the waiting.
func Retry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
		select {
		case <-ctx.Done():
			return ErrUnavailable
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return err
}
