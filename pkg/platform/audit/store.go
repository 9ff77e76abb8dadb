package audit

import (
	"context"
	"errors"
)

// Store is where a publisher delivers events: a broker topic or memory.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Tee delivers each event to every store, in order. A failing store does
// not stop delivery to the rest. Append is not idempotent: retrying it
// re-delivers to stores that already succeeded, so the publisher retries
// the members one by one instead.
type Tee []Store

func (t Tee) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range t {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
