// Package lazy provides a replayable, on-demand sequence of computed results.
package lazy

import (
	"errors"
	"iter"
	"sync"
)

// ErrIndexOutOfRange is returned by At for an index the source cannot reach.
var ErrIndexOutOfRange = errors.New("index out of range")

// Sequence computes one result per source element, in order, only when a
// consumer asks for it. Each source element is read and computed at most
// once; later passes replay the stored results. A failed computation is not
// stored, so the next pass retries the same element.
//
// Sequence is safe for concurrent use. The lock is held neither while
// computing nor while yielding, so Computed and Close never wait on a slow
// compute.
type Sequence[S, R any] struct {
	compute func(S) (R, error)

	mu      sync.Mutex
	cond    *sync.Cond
	busy    bool
	next    func() (S, bool)
	stop    func()
	pending *S
	done    bool
	results []R
}

// New returns a Sequence over source. Nothing is read until a result is
// requested.
func New[S, R any](source iter.Seq[S], compute func(S) (R, error)) *Sequence[S, R] {
	next, stop := iter.Pull(source)
	s := &Sequence[S, R]{compute: compute, next: next, stop: stop}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Collect wraps a slice.
func Collect[S, R any](items []S, compute func(S) (R, error)) *Sequence[S, R] {
	return New(func(yield func(S) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}, compute)
}

// advance computes the element at index i when i is the next one. It
// reports ok=false once the source is exhausted. Only one element is
// computed at a time and the lock is released while it runs; other
// consumers wait for it instead of starting a second compute.
func (s *Sequence[S, R]) advance(i int) (R, bool, error) {
	var zero R

	s.mu.Lock()
	for i >= len(s.results) && !s.done && s.busy {
		s.cond.Wait()
	}
	if i < len(s.results) {
		r := s.results[i]
		s.mu.Unlock()
		return r, true, nil
	}
	if s.done {
		s.mu.Unlock()
		return zero, false, nil
	}

	var item S
	if s.pending != nil {
		item = *s.pending
		s.pending = nil
	} else {
		v, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			s.mu.Unlock()
			return zero, false, nil
		}
		item = v
	}
	s.busy = true
	s.mu.Unlock()

	r, err := s.compute(item)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.cond.Broadcast()
	if err != nil {
		s.pending = &item
		return zero, true, err
	}
	s.results = append(s.results, r)
	return r, true, nil
}

// All yields every result in source order, computing the missing ones. On a
// compute error it yields the error and stops.
func (s *Sequence[S, R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for i := 0; ; i++ {
			r, ok, err := s.advance(i)
			if !ok {
				return
			}
			if err != nil {
				yield(r, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// At returns the result at index i, computing every missing result up to it.
func (s *Sequence[S, R]) At(i int) (R, error) {
	var zero R
	if i < 0 {
		return zero, ErrIndexOutOfRange
	}
	for j := s.Computed(); j <= i; j++ {
		_, ok, err := s.advance(j)
		if !ok {
			return zero, ErrIndexOutOfRange
		}
		if err != nil {
			return zero, err
		}
	}
	r, _, err := s.advance(i)
	return r, err
}

// Slice computes everything and returns the results. It stops at the first
// error and returns the results computed so far.
func (s *Sequence[S, R]) Slice() ([]R, error) {
	var out []R
	for r, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Computed is the number of stored results.
func (s *Sequence[S, R]) Computed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Close releases the source. Stored results stay readable; no new element
// is read.
func (s *Sequence[S, R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.done = true
		s.stop()
	}
	s.cond.Broadcast()
}
