package translator

import (
	"context"
	"testing"

	translate "cloud.google.com/go/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xlanguage "golang.org/x/text/language"
)

type fakeGoogle struct {
	target xlanguage.Tag
	opts   *translate.Options
	closed bool
}

func (f *fakeGoogle) Translate(_ context.Context, inputs []string, target xlanguage.Tag, opts *translate.Options) ([]translate.Translation, error) {
	f.target, f.opts = target, opts
	return []translate.Translation{{Text: "Hola " + inputs[0], Source: xlanguage.English, Model: "nmt"}}, nil
}

func (f *fakeGoogle) DetectLanguage(_ context.Context, inputs []string) ([][]translate.Detection, error) {
	return [][]translate.Detection{{
		{Language: xlanguage.Spanish, Confidence: 0.4},
		{Language: xlanguage.Portuguese, Confidence: 0.9},
	}}, nil
}

func (f *fakeGoogle) Close() error {
	f.closed = true
	return nil
}

func TestGoogleTranslateDetectsSource(t *testing.T) {
	fake := &fakeGoogle{}
	svc := &GoogleService{client: fake}

	res, err := svc.Translate(context.Background(), "amigo", "es", "auto")
	require.NoError(t, err)
	assert.Equal(t, "Hola amigo", res.Translation)
	assert.Equal(t, "en", res.SourceLanguage.Code)
	assert.Equal(t, "nmt", res.Metadata["model"])
	assert.Nil(t, fake.opts)
	assert.Equal(t, xlanguage.Spanish, fake.target)
}

func TestGoogleTranslateExplicitSource(t *testing.T) {
	fake := &fakeGoogle{}
	svc := &GoogleService{client: fake}

	_, err := svc.Translate(context.Background(), "amigo", "es", "pt")
	require.NoError(t, err)
	require.NotNil(t, fake.opts)
	assert.Equal(t, xlanguage.Portuguese, fake.opts.Source)
}

func TestGoogleLanguagePicksMostConfident(t *testing.T) {
	svc := &GoogleService{client: &fakeGoogle{}}

	res, err := svc.Language(context.Background(), "obrigado")
	require.NoError(t, err)
	assert.Equal(t, "pt", res.Language.Code)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestGoogleClose(t *testing.T) {
	fake := &fakeGoogle{}
	svc := &GoogleService{client: fake}

	require.NoError(t, svc.Close())
	assert.True(t, fake.closed)
	assert.NoError(t, svc.Close())
}

func TestGoogleInvalidTarget(t *testing.T) {
	svc := &GoogleService{client: &fakeGoogle{}}

	_, err := svc.Translate(context.Background(), "x", "not a tag!", "en")
	assert.Error(t, err)
}
