package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Auto(t *testing.T) {
	for _, raw := range []string{"", "  ", "auto", "AUTO"} {
		lang, err := Resolve(raw)
		require.NoError(t, err, raw)
		assert.True(t, lang.IsAuto(), raw)
	}
}

func TestResolve_Codes(t *testing.T) {
	tests := []struct {
		raw  string
		code string
	}{
		{"fr", "fr"},
		{"FR", "fr"},
		{"fra", "fr"},
		{"pt-BR", "pt"},
		{"zh_Hant", "zh"},
		{"en-US", "en"},
		{"uk", "uk"},
	}
	for _, tt := range tests {
		lang, err := Resolve(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.code, lang.Code, tt.raw)
	}
}

func TestResolve_Names(t *testing.T) {
	lang, err := Resolve("French")
	require.NoError(t, err)
	assert.Equal(t, "fr", lang.Code)
	assert.Equal(t, "French", lang.Name)
	assert.Equal(t, "fra", lang.Alpha3)

	lang, err = Resolve("japanese")
	require.NoError(t, err)
	assert.Equal(t, "ja", lang.Code)

	lang, err = Resolve("Deutsch")
	require.NoError(t, err)
	assert.Equal(t, "de", lang.Code)
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("zzz-not-a-language")
	require.Error(t, err)

	var unknown *UnknownLanguageError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "zzz-not-a-language", unknown.Input)
	assert.False(t, unknown.Guess.IsZero())
	assert.GreaterOrEqual(t, unknown.Similarity, 0.0)
	assert.LessOrEqual(t, unknown.Similarity, 1.0)
}

func TestResolve_UnknownGuessesClosest(t *testing.T) {
	_, err := Resolve("Frennch")

	var unknown *UnknownLanguageError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "fr", unknown.Guess.Code)
	assert.Greater(t, unknown.Similarity, 0.8)
}

func TestLanguage_Equality(t *testing.T) {
	a, err := Resolve("fr")
	require.NoError(t, err)
	b, err := Resolve("French")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromCode(t *testing.T) {
	assert.Equal(t, "de", FromCode("de").Code)
	unknown := FromCode("QQ")
	assert.Equal(t, "qq", unknown.Code)
	assert.False(t, unknown.IsZero())
}

func TestCatalog_Languages(t *testing.T) {
	langs := Default.Languages()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].Code, langs[i].Code)
	}
}
