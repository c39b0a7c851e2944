// Package orchestrator races one request against several backends and
// reports every outcome as soon as it is known.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/translator"
)

type OrchestratorConfig struct {
	// Timeout bounds each worker. Zero means no limit besides the caller's
	// context.
	Timeout time.Duration
	Logger  zerolog.Logger
}

type OrchestratorResult struct {
	Results   []*translator.TranslationResult
	Errors    []error
	Succeeded int
	Failed    int
}

type Orchestrator struct {
	translators []*dispatch.Translator
	config      OrchestratorConfig
}

func New(translators []*dispatch.Translator, config OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		translators: translators,
		config:      config,
	}
}

// Run races any operation across the orchestrator's translators, applying
// the configured timeout and logging each outcome under one race id.
func Run[R any](ctx context.Context, o *Orchestrator, run func(context.Context, *dispatch.Translator) (R, error)) *Stream[R] {
	logger := o.config.Logger.With().Str("race", uuid.NewString()).Logger()
	timeout := o.config.Timeout

	return Race(ctx, o.translators, func(ctx context.Context, t *dispatch.Translator) (R, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		r, err := run(ctx, t)

		ev := logger.Debug().Str("service", t.Name()).Dur("latency", time.Since(start))
		if err != nil {
			ev = ev.Err(err).Str("kind", translator.Kind(err))
		}
		ev.Msg("race outcome")
		return r, err
	})
}

// Translate races a translation request.
func (o *Orchestrator) Translate(ctx context.Context, text, dest, source string) *Stream[*translator.TranslationResult] {
	return Run(ctx, o, func(ctx context.Context, t *dispatch.Translator) (*translator.TranslationResult, error) {
		return t.Translate(ctx, text, dest, source)
	})
}

// Execute races a translation request and waits for every backend.
// Results are in completion order.
func (o *Orchestrator) Execute(ctx context.Context, text, dest, source string) *OrchestratorResult {
	result := &OrchestratorResult{
		Results: make([]*translator.TranslationResult, 0),
		Errors:  make([]error, 0),
	}

	for out := range o.Translate(ctx, text, dest, source).All() {
		if out.Success {
			result.Results = append(result.Results, out.Result)
			result.Succeeded++
		} else {
			result.Errors = append(result.Errors, out.Err)
			result.Failed++
		}
	}

	return result
}

// First returns the first successful translation in completion order. The
// remaining workers finish in the background. When every backend fails the
// joined errors are returned.
func (o *Orchestrator) First(ctx context.Context, text, dest, source string) (*translator.TranslationResult, error) {
	stream := o.Translate(ctx, text, dest, source)

	var errs []error
	for {
		out, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if out.Success {
			return out.Result, nil
		}
		errs = append(errs, out.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(errs) == 0 {
		return nil, errors.New("no translators configured")
	}
	return nil, errors.Join(errs...)
}
