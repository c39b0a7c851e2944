package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM answers every prompt with a fixed text and records the prompts.
type scriptedLLM struct {
	answer string
	err    error
	system []string
	user   []string
}

func (s *scriptedLLM) complete(_ context.Context, system, user string) (completion, error) {
	s.system = append(s.system, system)
	s.user = append(s.user, user)
	if s.err != nil {
		return completion{}, s.err
	}
	return completion{Text: s.answer, Model: "scripted"}, nil
}

func newPromptOps(answer string) (promptOps, *scriptedLLM) {
	llm := &scriptedLLM{answer: answer}
	return promptOps{llm: llm}, llm
}

func TestPromptTranslateNamesLanguages(t *testing.T) {
	ops, llm := newPromptOps("Hallo")

	res, err := ops.Translate(context.Background(), "Hello", "de", "auto")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", res.Translation)
	assert.Equal(t, "de", res.DestinationLanguage.Code)
	assert.True(t, res.SourceLanguage.IsZero())
	assert.Equal(t, "scripted", res.Metadata["model"])

	require.Len(t, llm.system, 1)
	assert.Contains(t, llm.system[0], "German")
	assert.Contains(t, llm.system[0], "the detected language")
	assert.NotContains(t, llm.system[0], "[PHn]")
}

func TestPromptTranslateEmptyAnswer(t *testing.T) {
	ops, _ := newPromptOps("<think>only thoughts</think>")

	_, err := ops.Translate(context.Background(), "Hello", "de", "en")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestPromptTranslatePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	ops := promptOps{llm: &scriptedLLM{err: boom}}

	_, err := ops.Translate(context.Background(), "Hello", "de", "en")
	assert.ErrorIs(t, err, boom)
}

func TestPromptAlternatives(t *testing.T) {
	ops, llm := newPromptOps("```json\n[\"Salut\", \"Bonjour\", \" \", \"Coucou\", \"Salut\"]\n```")
	prev := &TranslationResult{Provenance: Provenance{Source: "Hello"}, Translation: "Bonjour"}

	alts, err := ops.Alternatives(context.Background(), prev, "fr", "en")
	require.NoError(t, err)
	require.Len(t, alts, 2)
	assert.Equal(t, "Salut", alts[0].Translation)
	assert.Equal(t, "Coucou", alts[1].Translation)
	assert.Equal(t, []string{"Hello"}, llm.user)
}

func TestPromptAlternativesBadJSON(t *testing.T) {
	ops, _ := newPromptOps("Salut, Coucou")
	prev := &TranslationResult{Provenance: Provenance{Source: "Hello"}, Translation: "Bonjour"}

	_, err := ops.Alternatives(context.Background(), prev, "fr", "en")
	assert.Error(t, err)
}

func TestPromptTransliterate(t *testing.T) {
	ops, _ := newPromptOps("Transliteration: Privit")

	res, err := ops.Transliterate(context.Background(), "Привіт", "en", "uk")
	require.NoError(t, err)
	assert.Equal(t, "Privit", res.Transliteration)
	assert.Equal(t, "uk", res.SourceLanguage.Code)
}

func TestPromptSpellcheck(t *testing.T) {
	ops, _ := newPromptOps(`Sure! {"corrected": "Hello world", "mistakes": [{"word": "wrold", "suggestion": "world"}]}`)

	res, err := ops.Spellcheck(context.Background(), "Hello wrold", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.Corrected)
	require.Len(t, res.Mistakes, 1)
	assert.Equal(t, Mistake{Word: "wrold", Suggestion: "world", Offset: 6}, res.Mistakes[0])
}

func TestPromptLanguage(t *testing.T) {
	ops, _ := newPromptOps("FR.")

	res, err := ops.Language(context.Background(), "Bonjour tout le monde")
	require.NoError(t, err)
	assert.Equal(t, "fr", res.Language.Code)
	assert.Equal(t, "French", res.Language.Name)
}

func TestPromptLanguageGibberish(t *testing.T) {
	ops, _ := newPromptOps("qqqqqq")

	_, err := ops.Language(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestPromptExample(t *testing.T) {
	ops, _ := newPromptOps(`["The cat sleeps.", "", "A cat purrs."]`)

	res, err := ops.Example(context.Background(), "cat", "en")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "The cat sleeps.", res[0].Example)
	assert.Equal(t, "en", res[1].SourceLanguage.Code)
}

func TestPromptDictionary(t *testing.T) {
	ops, _ := newPromptOps(`[{"meaning": "a small domesticated feline", "part_of_speech": "noun", "synonyms": ["kitty"]}, {"meaning": ""}]`)

	res, err := ops.Dictionary(context.Background(), "cat", "en")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "noun", res[0].PartOfSpeech)
	assert.Equal(t, []string{"kitty"}, res[0].Synonyms)
	assert.Equal(t, "en", res[0].SourceLanguage.Code)
}
