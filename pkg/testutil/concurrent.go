// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"sync"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/sentinel"
)

// RaceResult tallies the outcome of n callers contending for one resource.
type RaceResult struct {
	Won    int
	Lost   int
	Failed []error
}

// Race starts n goroutines on fn together and waits for all of them. A nil
// error is a win; a conflict (store sentinel or domain code) is a loss;
// anything else is kept in Failed.
func Race(n int, fn func(i int) error) *RaceResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result RaceResult
		start  = make(chan struct{})
	)
	for i := range n {
		wg.Go(func() {
			<-start
			err := fn(i)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Won++
			case IsLostRace(err):
				result.Lost++
			default:
				result.Failed = append(result.Failed, err)
			}
		})
	}
	close(start)
	wg.Wait()
	return &result
}

// IsLostRace reports whether err means another caller got there first.
func IsLostRace(err error) bool {
	return errors.Is(err, sentinel.ErrConflict) ||
		errors.Is(err, sentinel.ErrAlreadyUsed) ||
		dErrors.HasCode(err, dErrors.CodeConflict) ||
		dErrors.HasCode(err, dErrors.CodeInvariantViolation)
}
