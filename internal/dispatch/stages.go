package dispatch

import (
	"context"

	"github.com/valpere/polytran/internal/cachekey"
	"github.com/valpere/polytran/internal/translator"
)

// result is satisfied by the pointer of every result model.
type result[T any] interface {
	*T
	Stamp(service, source string)
}

// call describes one pipeline run after normalisation and language
// resolution. parts follow the text in the cache key.
type call[T any] struct {
	op    translator.Operation
	text  string
	parts []any
	// fill completes a backend result, e.g. with the resolved languages.
	fill   func(*T)
	invoke func(context.Context) (*T, error)
}

func (c call[T]) key() cachekey.Key {
	return cachekey.Build(append([]any{c.text}, c.parts...)...)
}

// runSingle checks the caches, calls the backend on a miss, then stamps and
// stores the result.
func runSingle[T any, P result[T]](ctx context.Context, t *Translator, c call[T]) (*T, error) {
	key := c.key()
	ns := t.namespace(c.op)

	if v, ok := t.cache.Get(ns, key); ok {
		if r, ok := v.(*T); ok {
			t.logger.Debug().Str("op", string(c.op)).Str("key", key.Encoded()).Msg("cache hit")
			return clone(r), nil
		}
	}
	if r := loadStored[T](ctx, t, c.op, key); r != nil {
		t.cache.Put(ns, key, clone(r))
		return r, nil
	}

	r, err := c.invoke(ctx)
	if err != nil {
		return nil, t.opError(c.op, err)
	}
	if r == nil {
		return nil, t.opError(c.op, translator.ErrNoResult)
	}
	if c.fill != nil {
		c.fill(r)
	}
	P(r).Stamp(t.name, c.text)

	t.cache.Put(ns, key, clone(r))
	t.save(ctx, c.op, key, r)
	return r, nil
}

// multiCall is call for operations producing a list.
type multiCall[T any] struct {
	op     translator.Operation
	text   string
	parts  []any
	fill   func(*T)
	invoke func(context.Context) ([]*T, error)
}

// runMulti is runSingle for multi-result operations. A backend failure
// degrades to an empty list, which is not cached.
func runMulti[T any, P result[T]](ctx context.Context, t *Translator, c multiCall[T]) []*T {
	key := cachekey.Build(append([]any{c.text}, c.parts...)...)
	ns := t.namespace(c.op)

	if v, ok := t.cache.Get(ns, key); ok {
		if rs, ok := v.([]*T); ok {
			t.logger.Debug().Str("op", string(c.op)).Str("key", key.Encoded()).Msg("cache hit")
			return cloneAll(rs)
		}
	}
	if rs := loadStored[[]*T](ctx, t, c.op, key); rs != nil && len(*rs) > 0 {
		t.cache.Put(ns, key, cloneAll(*rs))
		return *rs
	}

	rs, err := c.invoke(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Str("op", string(c.op)).Msg("no results, backend failed")
		return []*T{}
	}

	out := make([]*T, 0, len(rs))
	for _, r := range rs {
		if r == nil {
			continue
		}
		if c.fill != nil {
			c.fill(r)
		}
		P(r).Stamp(t.name, c.text)
		out = append(out, r)
	}
	if len(out) == 0 {
		return out
	}

	t.cache.Put(ns, key, cloneAll(out))
	t.save(ctx, c.op, key, out)
	return out
}

// clone copies a result so that callers never hold the cached value.
func clone[T any](r *T) *T {
	c := *r
	return &c
}

func cloneAll[T any](rs []*T) []*T {
	out := make([]*T, len(rs))
	for i, r := range rs {
		out[i] = clone(r)
	}
	return out
}

// loadStored returns the persisted value for key, or nil.
func loadStored[V any](ctx context.Context, t *Translator, op translator.Operation, key cachekey.Key) *V {
	if t.store == nil {
		return nil
	}
	dst := new(V)
	found, err := t.store.Load(ctx, t.name, op, key, dst)
	if err != nil {
		t.logger.Warn().Err(err).Str("op", string(op)).Msg("persistent store read failed")
		return nil
	}
	if !found {
		return nil
	}
	t.logger.Debug().Str("op", string(op)).Str("key", key.Encoded()).Msg("persistent store hit")
	return dst
}

func (t *Translator) save(ctx context.Context, op translator.Operation, key cachekey.Key, value any) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(ctx, t.name, op, key, value); err != nil {
		t.logger.Warn().Err(err).Str("op", string(op)).Msg("persistent store write failed")
		return
	}
	t.logger.Debug().Str("op", string(op)).Str("key", key.Encoded()).Msg("stored")
}
