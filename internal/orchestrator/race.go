package orchestrator

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/translator"
)

// Outcome is what one backend produced in a race.
type Outcome[R any] struct {
	Success bool          `json:"success"`
	Service string        `json:"service"`
	Result  R             `json:"data,omitempty"`
	Kind    string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
	Err     error         `json:"-"`
	Latency time.Duration `json:"latency"`
}

// Stream delivers outcomes in completion order.
type Stream[R any] struct {
	ch    <-chan Outcome[R]
	total int
}

// Race runs run once per translator, each in its own goroutine, and streams
// the outcomes as they complete. A failing or panicking worker becomes a
// failure outcome; it never stops its siblings. Workers never block on the
// consumer.
func Race[R any](ctx context.Context, translators []*dispatch.Translator, run func(context.Context, *dispatch.Translator) (R, error)) *Stream[R] {
	ch := make(chan Outcome[R], len(translators))

	var wg sync.WaitGroup
	for _, t := range translators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch <- work(ctx, t, run)
		}()
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	return &Stream[R]{ch: ch, total: len(translators)}
}

func work[R any](ctx context.Context, t *dispatch.Translator, run func(context.Context, *dispatch.Translator) (R, error)) (out Outcome[R]) {
	start := time.Now()
	out.Service = t.Name()

	defer func() {
		if p := recover(); p != nil {
			out = failure[R](t.Name(), fmt.Errorf("panic: %v", p))
		}
		out.Latency = time.Since(start)
	}()

	result, err := run(ctx, t)
	if err != nil {
		return failure[R](t.Name(), err)
	}
	out.Success = true
	out.Result = result
	return out
}

func failure[R any](service string, err error) Outcome[R] {
	return Outcome[R]{
		Service: service,
		Kind:    translator.Kind(err),
		Message: err.Error(),
		Err:     err,
	}
}

// Len is the number of workers in the race.
func (s *Stream[R]) Len() int { return s.total }

// Next returns the next outcome in completion order. It reports false once
// every worker has finished and all outcomes were taken, or when ctx is done.
func (s *Stream[R]) Next(ctx context.Context) (Outcome[R], bool) {
	select {
	case out, ok := <-s.ch:
		return out, ok
	case <-ctx.Done():
		var zero Outcome[R]
		return zero, false
	}
}

// All ranges over the remaining outcomes.
func (s *Stream[R]) All() iter.Seq[Outcome[R]] {
	return func(yield func(Outcome[R]) bool) {
		for out := range s.ch {
			if !yield(out) {
				return
			}
		}
	}
}
