package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{gorm.ErrRecordNotFound, ErrNotFound},
		{gorm.ErrDuplicatedKey, ErrConstraintViolation},
		{gorm.ErrForeignKeyViolated, ErrInvalidReference},
		{context.DeadlineExceeded, ErrUnavailable},
		{errors.New("UNIQUE constraint failed: customer_accounts.username"), ErrConstraintViolation},
		{errors.New("dial tcp: connection refused"), ErrUnavailable},
		{fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound), ErrNotFound},
	}
	for _, c := range cases {
		if got := Classify(c.in); !errors.Is(got, c.want) && got != c.want {
			t.Fatalf("Classify(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	// unknown errors pass through
	odd := errors.New("something else")
	if got := Classify(odd); got != odd {
		t.Fatalf("unknown error rewritten: %v", got)
	}
}

func TestRetryStopsOnNonTransient(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || calls != 1 {
		t.Fatalf("expected single call returning not_found, got calls=%d err=%v", calls, err)
	}
}

func TestRetryExhaustsOnUnavailable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return ErrUnavailable
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Fatalf("expected 3 calls returning unavailable, got calls=%d err=%v", calls, err)
	}
}

func TestRetryRecovers(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return ErrUnavailable
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected recovery on second call, got calls=%d err=%v", calls, err)
	}
}
