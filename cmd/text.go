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
	"iter"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/chunker"
	"github.com/valpere/polytran/internal/dispatch"
	"github.com/valpere/polytran/internal/lazy"
	"github.com/valpere/polytran/internal/translator"
)

// runText runs one operation on the selected backend. With --split the
// input is chunked and fed through the lazy bulk variant, printing each
// piece as soon as it is done.
func runText[R any](cmd *cobra.Command, args []string, f *textFlags,
	single func(context.Context, *dispatch.Translator, string) (R, error),
	bulk func(context.Context, *dispatch.Translator, iter.Seq[string]) *lazy.Sequence[string, R],
) error {
	ctx := cmd.Context()
	text, err := f.text(cmd, args)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.translator(f.service)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.split <= 0 {
		r, err := single(ctx, t, text)
		if err != nil {
			return err
		}
		return f.print(out, r)
	}

	seq := bulk(ctx, t, chunker.Split(text, f.split))
	defer seq.Close()
	for r, err := range seq.All() {
		if err != nil {
			return err
		}
		if err := f.print(out, r); err != nil {
			return err
		}
	}
	return nil
}

var (
	translitFlags textFlags
	translitDest  string
	translitSrc   string
)

var transliterateCmd = &cobra.Command{
	Use:   "transliterate [text]",
	Short: "Transliterate text into another script",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runText(cmd, args, &translitFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) (*translator.TransliterationResult, error) {
				return t.Transliterate(ctx, text, translitDest, translitSrc)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, *translator.TransliterationResult] {
				return t.TransliterateAll(ctx, texts, translitDest, translitSrc)
			})
	},
}

var (
	spellFlags textFlags
	spellSrc   string
)

var spellcheckCmd = &cobra.Command{
	Use:   "spellcheck [text]",
	Short: "Correct spelling mistakes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runText(cmd, args, &spellFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) (*translator.SpellcheckResult, error) {
				return t.Spellcheck(ctx, text, spellSrc)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, *translator.SpellcheckResult] {
				return t.SpellcheckAll(ctx, texts, spellSrc)
			})
	},
}

var detectFlags textFlags

var detectCmd = &cobra.Command{
	Use:   "detect [text]",
	Short: "Detect the language of a text",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runText(cmd, args, &detectFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) (*translator.LanguageResult, error) {
				return t.Language(ctx, text)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, *translator.LanguageResult] {
				return t.LanguageAll(ctx, texts)
			})
	},
}

var (
	exampleFlags textFlags
	exampleSrc   string
)

var examplesCmd = &cobra.Command{
	Use:   "examples [text]",
	Short: "Show example sentences using a word or phrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runText(cmd, args, &exampleFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) ([]*translator.ExampleResult, error) {
				return t.Example(ctx, text, exampleSrc)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, []*translator.ExampleResult] {
				return t.ExampleAll(ctx, texts, exampleSrc)
			})
	},
}

var (
	dictFlags textFlags
	dictSrc   string
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary [word]",
	Short: "Look up the meanings of a word",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runText(cmd, args, &dictFlags,
			func(ctx context.Context, t *dispatch.Translator, text string) ([]*translator.DictionaryResult, error) {
				return t.Dictionary(ctx, text, dictSrc)
			},
			func(ctx context.Context, t *dispatch.Translator, texts iter.Seq[string]) *lazy.Sequence[string, []*translator.DictionaryResult] {
				return t.DictionaryAll(ctx, texts, dictSrc)
			})
	},
}

func init() {
	rootCmd.AddCommand(transliterateCmd, spellcheckCmd, detectCmd, examplesCmd, dictionaryCmd)

	translitFlags.register(transliterateCmd)
	transliterateCmd.Flags().StringVarP(&translitDest, "target", "t", "", "Target language or script (required)")
	transliterateCmd.Flags().StringVarP(&translitSrc, "source", "s", "auto", "Source language")
	_ = transliterateCmd.MarkFlagRequired("target")

	spellFlags.register(spellcheckCmd)
	spellcheckCmd.Flags().StringVarP(&spellSrc, "source", "s", "auto", "Language of the text")

	detectFlags.register(detectCmd)

	exampleFlags.register(examplesCmd)
	examplesCmd.Flags().StringVarP(&exampleSrc, "source", "s", "auto", "Language of the text")

	dictFlags.register(dictionaryCmd)
	dictionaryCmd.Flags().StringVarP(&dictSrc, "source", "s", "auto", "Language of the word")
}
