// This file implements the incremental enumeration protocol shared by
// listing and search providers: lazy, cancellable, strictly ordered
// page-by-page production.

package pager

import (
	"context"
	"iter"
)

// FetchPage loads one page (1-based). It returns the page's items and
// whether more pages may follow. Implementations discover the upper
// bound from the first response and must report more=false past it.
type FetchPage[T any] func(ctx context.Context, page int) (items []T, more bool, err error)

// Enumerator produces items page by page in strictly increasing page
// order. It is single-consumer: one enumeration owns one Enumerator.
type Enumerator[T any] struct {
	fetch FetchPage[T]
	page  int
	done  bool
}

// New creates an enumerator over the fetch function.
func New[T any](fetch FetchPage[T]) *Enumerator[T] {
	return &Enumerator[T]{fetch: fetch}
}

// Next fetches the next page. It returns nil items once the sequence is
// exhausted. A fetch error on the first page is returned to the caller;
// an error on a later page silently truncates the sequence, matching
// the degrade-gracefully policy for flaky sites. Cancellation is always
// propagated.
func (e *Enumerator[T]) Next(ctx context.Context) ([]T, error) {
	if e.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.page++
	items, more, err := e.fetch(ctx, e.page)
	if err != nil {
		e.done = true
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if e.page == 1 {
			return nil, err
		}
		return nil, nil
	}
	if !more {
		e.done = true
	}
	if len(items) == 0 {
		e.done = true
	}
	return items, nil
}

// All flattens the remaining pages into a lazy item sequence. Fetch
// errors end the sequence (first-page errors included); callers needing
// the error use Next directly.
func (e *Enumerator[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			items, err := e.Next(ctx)
			if err != nil || len(items) == 0 {
				return
			}
			for _, item := range items {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Collect drains up to max items from the sequence (max <= 0 drains
// everything).
func (e *Enumerator[T]) Collect(ctx context.Context, max int) []T {
	var out []T
	for item := range e.All(ctx) {
		out = append(out, item)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
