// Package dispatch runs every backend operation through one staged pipeline:
// normalise the text, resolve languages, short-circuit trivial requests,
// consult the caches, call the backend and stamp provenance on the result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/polytran/internal/cache"
	"github.com/valpere/polytran/internal/cachekey"
	"github.com/valpere/polytran/internal/language"
	"github.com/valpere/polytran/internal/translator"
)

// Resolver turns a user supplied language identifier into a Language.
type Resolver interface {
	Resolve(raw string) (language.Language, error)
}

// Store is a persistent second level behind the in-memory cache.
type Store interface {
	// Load decodes the entry into dst and reports whether it was found.
	Load(ctx context.Context, service string, op translator.Operation, key cachekey.Key, dst any) (bool, error)
	Save(ctx context.Context, service string, op translator.Operation, key cachekey.Key, value any) error
	// Purge removes every entry stored for service.
	Purge(ctx context.Context, service string) error
}

// Translator is one backend wired to a resolver, a result cache and an
// optional persistent store. It is safe for concurrent use.
type Translator struct {
	backend  translator.Backend
	name     string
	cache    *cache.Cache
	resolver Resolver
	store    Store
	logger   zerolog.Logger

	langsMu     sync.Mutex
	langsLoaded bool
	supported   map[string]bool
}

type Option func(*Translator)

// WithCache shares c between translators. Namespaces keep their entries
// apart.
func WithCache(c *cache.Cache) Option {
	return func(t *Translator) {
		if c != nil {
			t.cache = c
		}
	}
}

func WithResolver(r Resolver) Option {
	return func(t *Translator) {
		if r != nil {
			t.resolver = r
		}
	}
}

func WithStore(s Store) Option {
	return func(t *Translator) { t.store = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Translator) { t.logger = l }
}

func New(backend translator.Backend, opts ...Option) *Translator {
	t := &Translator{
		backend:  backend,
		name:     strings.ToLower(strings.TrimSpace(backend.Name())),
		cache:    cache.New(cache.DefaultSize),
		resolver: language.Default,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("service", t.name).Logger()
	return t
}

// Name is the backend's service name, as stamped on results.
func (t *Translator) Name() string { return t.name }

// ClearCache drops every cached result, for all namespaces of the cache,
// and this service's entries in the persistent store.
func (t *Translator) ClearCache(ctx context.Context) error {
	t.cache.Clear()
	if t.store == nil {
		return nil
	}
	if err := t.store.Purge(ctx, t.name); err != nil {
		return fmt.Errorf("purge %s store entries: %w", t.name, err)
	}
	return nil
}

func (t *Translator) namespace(op translator.Operation) string {
	return t.name + "." + string(op)
}

// normalize returns text in NFC without surrounding whitespace.
func normalize(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// resolve maps raw to a Language. "" means auto. Languages the backend
// declares it cannot handle are rejected.
func (t *Translator) resolve(ctx context.Context, op translator.Operation, raw string) (language.Language, error) {
	if strings.TrimSpace(raw) == "" {
		return language.Auto, nil
	}
	lang, err := t.resolver.Resolve(raw)
	if err != nil {
		return language.Language{}, err
	}
	if lang.IsAuto() {
		return lang, nil
	}
	if supported := t.supportedLanguages(ctx); supported != nil && !supported[lang.Code] {
		return language.Language{}, t.opError(op, fmt.Errorf("%s: %w", lang.Code, translator.ErrUnsupportedLanguage))
	}
	return lang, nil
}

// supportedLanguages asks the backend until it answers. A failing call is
// retried on the next request; an empty answer puts no restriction on
// languages.
func (t *Translator) supportedLanguages(ctx context.Context) map[string]bool {
	t.langsMu.Lock()
	defer t.langsMu.Unlock()
	if t.langsLoaded {
		return t.supported
	}

	codes, err := t.backend.SupportedLanguages(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		t.logger.Warn().Err(err).Msg("cannot list supported languages")
		return nil
	}

	t.langsLoaded = true
	if len(codes) == 0 {
		return nil
	}
	t.supported = make(map[string]bool, len(codes))
	for _, code := range codes {
		t.supported[strings.ToLower(code)] = true
	}
	return t.supported
}

func (t *Translator) opError(op translator.Operation, err error) error {
	var opErr *translator.OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &translator.OperationError{Service: t.name, Op: op, Err: err}
}
