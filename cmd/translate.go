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
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/chunker"
	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/lazy"
	"github.com/valpere/polytran/internal/orchestrator"
	"github.com/valpere/polytran/internal/translator"
)

var (
	translateFlags textFlags
	targetLang     string
	sourceLang     string
	useFirst       bool
	useAll         bool

	altFlags  textFlags
	altTarget string
	altSource string
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text",
	Long: `Translate text with one backend.

Available backends:
  - google      Google Cloud Translation (requires credentials)
  - mymemory    MyMemory (free, 5000 chars/day)
  - systran     Systran Translate (requires API key)
  - ollama      Ollama LLM (self-hosted)
  - openrouter  OpenRouter LLM (requires API key)
  - marian      Marian models deployed as AWS Lambda functions

--first races every configured service and keeps the first success.
--all waits for every configured service and prints each success.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if useFirst || useAll {
			return translateRaced(cmd, args)
		}
		return runText(cmd, args, &translateFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) (*translator.TranslationResult, error) {
				return t.Translate(ctx, text, targetLang, sourceLang)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, *translator.TranslationResult] {
				return t.TranslateAll(ctx, texts, targetLang, sourceLang)
			})
	},
}

func translateRaced(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text, err := translateFlags.text(cmd, args)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var names []string
	if translateFlags.service != "" {
		names = []string{translateFlags.service}
	}
	ts, err := a.translators(names)
	if err != nil {
		return err
	}

	orch := orchestrator.New(ts, orchestrator.OrchestratorConfig{Timeout: cfg.RaceTimeout, Logger: logger})
	if useAll {
		res := orch.Execute(ctx, text, targetLang, sourceLang)
		for _, err := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
		if res.Succeeded == 0 {
			return fmt.Errorf("all %d translation services failed", res.Failed)
		}
		logger.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("translation race finished")
		if translateFlags.json {
			return translateFlags.print(cmd.OutOrStdout(), res.Results)
		}
		for _, r := range res.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Service, r.Translation)
		}
		return nil
	}

	result, err := orch.First(ctx, text, targetLang, sourceLang)
	if err != nil {
		return fmt.Errorf("all translation services failed: %w", err)
	}
	return translateFlags.print(cmd.OutOrStdout(), result)
}

var alternativesCmd = &cobra.Command{
	Use:   "alternatives [text]",
	Short: "Translate text and list alternative translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text, err := altFlags.text(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.translator(altFlags.service)
		if err != nil {
			return err
		}

		translations := t.TranslateAll(ctx, chunker.Split(text, altFlags.split), altTarget, altSource)
		defer translations.Close()

		var failed error
		prevs := func(yield func(*translator.TranslationResult) bool) {
			for r, err := range translations.All() {
				if err != nil {
					failed = err
					return
				}
				if !yield(r) {
					return
				}
			}
		}

		alternatives := t.AlternativesAll(ctx, prevs)
		defer alternatives.Close()

		out := cmd.OutOrStdout()
		for alts, err := range alternatives.All() {
			if err != nil {
				return err
			}
			if err := altFlags.print(out, alts); err != nil {
				return err
			}
		}
		return failed
	},
}

func init() {
	rootCmd.AddCommand(translateCmd, alternativesCmd)

	translateFlags.register(translateCmd)
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code or name (required)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code or name")
	translateCmd.Flags().BoolVar(&useFirst, "first", false, "Race the configured services and print the first success")
	translateCmd.Flags().BoolVar(&useAll, "all", false, "Query every configured service and print all successes")
	_ = translateCmd.MarkFlagRequired("target")
	translateCmd.MarkFlagsMutuallyExclusive("first", "all")

	altFlags.register(alternativesCmd)
	alternativesCmd.Flags().StringVarP(&altTarget, "target", "t", "", "Target language code or name (required)")
	alternativesCmd.Flags().StringVarP(&altSource, "source", "s", "auto", "Source language code or name")
	_ = alternativesCmd.MarkFlagRequired("target")
}
