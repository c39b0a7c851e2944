package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/polytran/internal/cache"
	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/translator"
)

type mockService struct {
	translator.Unsupported

	nameVal       string
	translateFunc func(ctx context.Context, text string) (*translator.TranslationResult, error)
	callCount     atomic.Int32
}

func (m *mockService) Name() string { return m.nameVal }

func (m *mockService) Translate(ctx context.Context, text, dest, source string) (*translator.TranslationResult, error) {
	m.callCount.Add(1)
	if m.translateFunc != nil {
		return m.translateFunc(ctx, text)
	}
	return &translator.TranslationResult{Translation: m.nameVal + ":" + text}, nil
}

// gated returns a service that answers once gate is closed.
func gated(name string, gate <-chan struct{}, err error) *mockService {
	return &mockService{
		nameVal: name,
		translateFunc: func(ctx context.Context, text string) (*translator.TranslationResult, error) {
			<-gate
			if err != nil {
				return nil, err
			}
			return &translator.TranslationResult{Translation: name}, nil
		},
	}
}

func translators(services ...translator.Backend) []*dispatch.Translator {
	c := cache.New(0)
	out := make([]*dispatch.Translator, len(services))
	for i, s := range services {
		out[i] = dispatch.New(s, dispatch.WithCache(c))
	}
	return out
}

func TestRace_CompletionOrder(t *testing.T) {
	gateA, gateC := make(chan struct{}), make(chan struct{})
	o := New(translators(
		gated("a", gateA, nil),
		gated("b", closedGate(), nil),
		gated("c", gateC, errors.New("quota exceeded")),
	), OrchestratorConfig{})

	ctx := context.Background()
	stream := o.Translate(ctx, "hello", "fr", "en")
	require.Equal(t, 3, stream.Len())

	first, ok := stream.Next(ctx)
	require.True(t, ok)
	assert.True(t, first.Success)
	assert.Equal(t, "b", first.Service)
	assert.Equal(t, "b", first.Result.Translation)

	close(gateA)
	second, ok := stream.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", second.Service)
	assert.True(t, second.Success)

	close(gateC)
	third, ok := stream.Next(ctx)
	require.True(t, ok)
	assert.False(t, third.Success)
	assert.Equal(t, "c", third.Service)
	assert.Equal(t, translator.KindOperationError, third.Kind)
	assert.Contains(t, third.Message, "quota exceeded")
	assert.Nil(t, third.Result)

	_, ok = stream.Next(ctx)
	assert.False(t, ok)
	_, ok = stream.Next(ctx)
	assert.False(t, ok)
}

func closedGate() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestRace_WorkersDoNotWaitForConsumer(t *testing.T) {
	services := []translator.Backend{
		&mockService{nameVal: "one"},
		&mockService{nameVal: "two"},
		&mockService{nameVal: "three"},
	}
	stream := New(translators(services...), OrchestratorConfig{}).Translate(context.Background(), "x", "fr", "en")

	// Every worker can finish with nobody reading.
	require.Eventually(t, func() bool { return len(stream.ch) == 3 }, time.Second, time.Millisecond)

	var names []string
	for out := range stream.All() {
		names = append(names, out.Service)
	}
	assert.ElementsMatch(t, []string{"one", "two", "three"}, names)
}

func TestRace_PanicBecomesFailure(t *testing.T) {
	panicky := &mockService{
		nameVal: "panicky",
		translateFunc: func(ctx context.Context, text string) (*translator.TranslationResult, error) {
			panic("nil map write")
		},
	}
	o := New(translators(panicky, &mockService{nameVal: "fine"}), OrchestratorConfig{})

	result := o.Execute(context.Background(), "hello", "fr", "en")

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "panic: nil map write")
	assert.Equal(t, "fine:hello", result.Results[0].Translation)
}

func TestRace_UnsupportedOperationKind(t *testing.T) {
	o := New(translators(&mockService{nameVal: "m"}), OrchestratorConfig{})

	stream := Run(context.Background(), o, func(ctx context.Context, t *dispatch.Translator) (*translator.SpellcheckResult, error) {
		return t.Spellcheck(ctx, "helo", "en")
	})

	out, ok := stream.Next(context.Background())
	require.True(t, ok)
	assert.False(t, out.Success)
	assert.Equal(t, translator.KindUnsupportedOperation, out.Kind)
	assert.ErrorIs(t, out.Err, translator.ErrUnsupported)
}

func TestRace_Empty(t *testing.T) {
	stream := New(nil, OrchestratorConfig{}).Translate(context.Background(), "x", "fr", "en")

	_, ok := stream.Next(context.Background())
	assert.False(t, ok)
}

func TestStream_NextHonoursConsumerContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	stream := New(translators(gated("slow", gate, nil)), OrchestratorConfig{}).Translate(context.Background(), "x", "fr", "en")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := stream.Next(ctx)
	assert.False(t, ok)
}

func TestOrchestrator_Timeout(t *testing.T) {
	slow := &mockService{
		nameVal: "slow",
		translateFunc: func(ctx context.Context, text string) (*translator.TranslationResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	o := New(translators(slow), OrchestratorConfig{Timeout: 20 * time.Millisecond})

	result := o.Execute(context.Background(), "hello", "fr", "en")

	assert.Equal(t, 1, result.Failed)
	assert.ErrorIs(t, result.Errors[0], context.DeadlineExceeded)
}

func TestOrchestrator_First(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	o := New(translators(
		gated("never", gate, nil),
		&mockService{nameVal: "broken", translateFunc: func(context.Context, string) (*translator.TranslationResult, error) {
			return nil, errors.New("down")
		}},
		&mockService{nameVal: "ok"},
	), OrchestratorConfig{})

	r, err := o.First(context.Background(), "hello", "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Service)
}

func TestOrchestrator_FirstAllFail(t *testing.T) {
	fail := func(context.Context, string) (*translator.TranslationResult, error) { return nil, errors.New("down") }
	o := New(translators(
		&mockService{nameVal: "a", translateFunc: fail},
		&mockService{nameVal: "b", translateFunc: fail},
	), OrchestratorConfig{})

	_, err := o.First(context.Background(), "hello", "fr", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a translate: down")
	assert.Contains(t, err.Error(), "b translate: down")
}

func TestOrchestrator_EachBackendCalledOnce(t *testing.T) {
	services := []*mockService{{nameVal: "x"}, {nameVal: "y"}}
	o := New(translators(services[0], services[1]), OrchestratorConfig{})

	result := o.Execute(context.Background(), "hello", "fr", "en")

	assert.Equal(t, 2, result.Succeeded)
	for _, s := range services {
		assert.Equal(t, int32(1), s.callCount.Load())
	}
}

func TestOrchestrator_ConcurrentRacesShareCache(t *testing.T) {
	c := cache.New(0)
	names := []string{"alpha", "beta", "gamma"}
	services := make([]*mockService, len(names))
	ts := make([]*dispatch.Translator, len(names))
	for i, name := range names {
		services[i] = &mockService{nameVal: name}
		ts[i] = dispatch.New(services[i], dispatch.WithCache(c))
	}
	o := New(ts, OrchestratorConfig{})

	var wg sync.WaitGroup
	var failures atomic.Int32
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for out := range o.Translate(context.Background(), "hello", "fr", "en").All() {
				if !out.Success || out.Result.Translation != out.Service+":hello" {
					failures.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	for i, name := range names {
		assert.Equal(t, 1, c.Len(name+".translate"), "one entry for %s", name)
		assert.GreaterOrEqual(t, services[i].callCount.Load(), int32(1))
	}
}
