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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/orchestrator"
	"github.com/valpere/polytran/internal/translator"
)

var (
	raceFlags    textFlags
	raceOp       string
	raceTarget   string
	raceSource   string
	raceServices []string
)

var raceCmd = &cobra.Command{
	Use:   "race [text]",
	Short: "Run one request against several backends and stream the outcomes",
	Long: `Run one request against every configured backend (or --services) at once.
Each outcome is printed as one JSON line as soon as its backend finishes:

  {"success":true,"service":"google","data":{...},"latency":123456}
  {"success":false,"service":"systran","error":"UnsupportedLanguage","message":"..."}

Operations: translate, transliterate, spellcheck, detect, examples, dictionary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text, err := raceFlags.text(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ts, err := a.translators(raceServices)
		if err != nil {
			return err
		}
		orch := orchestrator.New(ts, orchestrator.OrchestratorConfig{Timeout: cfg.RaceTimeout, Logger: logger})
		out := cmd.OutOrStdout()

		switch raceOp {
		case "translate":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) (*translator.TranslationResult, error) {
				return t.Translate(ctx, text, raceTarget, raceSource)
			})
		case "transliterate":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) (*translator.TransliterationResult, error) {
				return t.Transliterate(ctx, text, raceTarget, raceSource)
			})
		case "spellcheck":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) (*translator.SpellcheckResult, error) {
				return t.Spellcheck(ctx, text, raceSource)
			})
		case "detect":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) (*translator.LanguageResult, error) {
				return t.Language(ctx, text)
			})
		case "examples":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) ([]*translator.ExampleResult, error) {
				return t.Example(ctx, text, raceSource)
			})
		case "dictionary":
			return streamOutcomes(ctx, out, orch, func(ctx context.Context, t *dispatch.Translator) ([]*translator.DictionaryResult, error) {
				return t.Dictionary(ctx, text, raceSource)
			})
		default:
			return fmt.Errorf("unknown operation %q", raceOp)
		}
	},
}

// streamOutcomes writes one JSON line per outcome in completion order. It
// fails only when no backend succeeded.
func streamOutcomes[R any](ctx context.Context, w io.Writer, orch *orchestrator.Orchestrator, run func(context.Context, *dispatch.Translator) (R, error)) error {
	stream := orchestrator.Run(ctx, orch, run)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	succeeded := 0
	for {
		outcome, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if outcome.Success {
			succeeded++
		}
		if err := enc.Encode(outcome); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if succeeded == 0 {
		return fmt.Errorf("no backend succeeded (%d tried)", stream.Len())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(raceCmd)

	raceCmd.Flags().StringVarP(&raceFlags.input, "input", "i", "", "Read the text from a file instead of the arguments")
	raceCmd.Flags().BoolVar(&raceFlags.markdown, "markdown", false, "Treat the input as markdown and race its plain text")
	raceCmd.Flags().StringVar(&raceOp, "op", "translate", "Operation to race")
	raceCmd.Flags().StringVarP(&raceTarget, "target", "t", "", "Target language (translate, transliterate)")
	raceCmd.Flags().StringVarP(&raceSource, "source", "s", "auto", "Source language")
	raceCmd.Flags().StringSliceVar(&raceServices, "services", nil, "Backends to race (comma-separated; default: configured services)")
}
