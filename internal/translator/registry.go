package translator

import (
	"fmt"
	"strings"

	"github.com/valpere/polytran/internal/fuzzy"
)

// Registry stores backends by normalised name, in registration order.
type Registry struct {
	backends map[string]Backend
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds one backend. Registering a name twice replaces the backend
// but keeps its original position.
func (r *Registry) Register(backend Backend) error {
	if backend == nil {
		return fmt.Errorf("backend is nil")
	}
	name := normalizeName(backend.Name())
	if name == "" {
		return fmt.Errorf("backend name is required")
	}
	if _, exists := r.backends[name]; !exists {
		r.order = append(r.order, name)
	}
	r.backends[name] = backend
	return nil
}

// Get resolves a backend by name. Unknown names return *UnknownBackendError
// carrying the closest registered name.
func (r *Registry) Get(name string) (Backend, error) {
	key := normalizeName(name)
	if backend, ok := r.backends[key]; ok {
		return backend, nil
	}
	guess, score := fuzzy.Best(key, r.order)
	return nil, &UnknownBackendError{Name: name, Guess: guess, Similarity: score}
}

// Select resolves names in order. An empty list selects every backend.
func (r *Registry) Select(names []string) ([]Backend, error) {
	if len(names) == 0 {
		names = r.order
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no backends are registered")
	}

	out := make([]Backend, 0, len(names))
	for _, name := range names {
		backend, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, backend)
	}
	return out, nil
}

// Names lists registered backend names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func normalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
