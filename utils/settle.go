package utils

import "sync"

// Settled captures one fan-out branch's outcome: either a value or the error
// that produced it. Callers inspect Err (or use OrFallback) instead of
// receiving a propagated failure.
type Settled[T any] struct {
	Value T
	Err   error
}

// OrFallback returns the captured value, or fallback when the branch failed.
func (s Settled[T]) OrFallback(fallback T) T {
	if s.Err != nil {
		return fallback
	}
	return s.Value
}

// Settle wraps a fetch so it can run as a SettleAll branch, writing its
// outcome into dst.
func Settle[T any](dst *Settled[T], fetch func() (T, error)) func() {
	return func() {
		dst.Value, dst.Err = fetch()
	}
}

// SettleAll runs every branch concurrently and waits for all of them to
// finish. A branch's failure is captured by its Settled holder, never
// propagated, so sibling branches always run to completion. Callers must not
// assume any ordering between branches.
func SettleAll(branches ...func()) {
	var wg sync.WaitGroup
	for _, branch := range branches {
		wg.Add(1)
		go func(run func()) {
			defer wg.Done()
			run()
		}(branch)
	}
	wg.Wait()
}
