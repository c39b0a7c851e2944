/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/cache"
	"github.com/valpere/polytran/internal/config"
	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/markdown"
	"github.com/valpere/polytran/internal/store"
	"github.com/valpere/polytran/internal/translator"
)

// app holds what every operation command needs: the registered backends,
// the shared result cache and the persistent store.
type app struct {
	registry *translator.Registry
	cache    *cache.Cache
	store    *store.Store
	closers  []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	a := &app{
		registry: translator.NewRegistry(),
		cache:    cache.New(cfg.CacheSize),
	}

	for _, name := range config.BackendNames {
		backend, err := buildBackend(ctx, name, cfg.Backend(name))
		if err != nil {
			logger.Warn().Err(err).Str("backend", name).Msg("backend not registered")
			continue
		}
		if c, ok := backend.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		if err := a.registry.Register(backend); err != nil {
			return nil, err
		}
	}

	if !cfg.NoCache {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.store = db
		a.closers = append(a.closers, db)
	}

	return a, nil
}

func buildBackend(ctx context.Context, name string, sc translator.ServiceConfig) (translator.Backend, error) {
	switch name {
	case "google":
		return translator.NewGoogleService(sc), nil
	case "mymemory":
		return translator.NewMyMemoryService(sc), nil
	case "systran":
		return translator.NewSystranService(sc), nil
	case "ollama":
		return translator.NewOllamaService(sc), nil
	case "openrouter":
		return translator.NewOpenRouterService(sc), nil
	case "amazon":
		return translator.NewAmazonService(ctx, sc)
	case "marian":
		return translator.NewMarianService(ctx, sc)
	case "lingua":
		return translator.NewLinguaService(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// translators wraps the named backends in dispatch pipelines sharing one
// cache and store. An empty list selects the configured services.
func (a *app) translators(names []string) ([]*dispatch.Translator, error) {
	if len(names) == 0 {
		names = cfg.Services
	}
	backends, err := a.registry.Select(names)
	if err != nil {
		return nil, err
	}

	out := make([]*dispatch.Translator, 0, len(backends))
	for _, b := range backends {
		opts := []dispatch.Option{dispatch.WithCache(a.cache), dispatch.WithLogger(logger)}
		if a.store != nil {
			opts = append(opts, dispatch.WithStore(a.store))
		}
		out = append(out, dispatch.New(b, opts...))
	}
	return out, nil
}

// translator returns the pipeline for name, or for the first configured
// service when name is empty.
func (a *app) translator(name string) (*dispatch.Translator, error) {
	var names []string
	if name != "" {
		names = []string{name}
	} else if len(cfg.Services) > 0 {
		names = cfg.Services[:1]
	}
	ts, err := a.translators(names)
	if err != nil {
		return nil, err
	}
	return ts[0], nil
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// textFlags are shared by the commands that take a text argument.
type textFlags struct {
	service  string
	input    string
	markdown bool
	split    int
	json     bool
}

func (f *textFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.service, "service", "", "Backend to use (default: first configured service)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Read the text from a file instead of the arguments")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "Treat the input as markdown and process its plain text")
	cmd.Flags().IntVar(&f.split, "split", 0, "Split the input into pieces of at most N characters and process them lazily")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print results as JSON lines")
}

// text returns the input from --input, the arguments or stdin, in that
// order.
func (f *textFlags) text(cmd *cobra.Command, args []string) (string, error) {
	var raw []byte
	switch {
	case f.input != "":
		b, err := os.ReadFile(f.input)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		raw = b
	case len(args) > 0:
		raw = []byte(strings.Join(args, " "))
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	}

	if f.markdown {
		return markdown.PlainText(raw), nil
	}
	return string(raw), nil
}

func (f *textFlags) print(w io.Writer, v any) error {
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}

	switch v := v.(type) {
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, v.String())
		return err
	case []*translator.TranslationResult:
		return printEach(w, v)
	case []*translator.ExampleResult:
		return printEach(w, v)
	case []*translator.DictionaryResult:
		return printEach(w, v)
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

func printEach[T fmt.Stringer](w io.Writer, items []T) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "- %s\n", item.String()); err != nil {
			return err
		}
	}
	return nil
}
