package translator

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/valpere/polytran/internal/language"
)

// speechSynthesizer is the part of the Polly client the service uses.
type speechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, in *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

type pollyVoice struct {
	code   types.LanguageCode
	female types.VoiceId
	male   types.VoiceId
}

// pollyVoices maps a language to its standard-engine voices.
var pollyVoices = map[string]pollyVoice{
	"en": {"en-US", "Joanna", "Matthew"},
	"fr": {"fr-FR", "Celine", "Mathieu"},
	"de": {"de-DE", "Marlene", "Hans"},
	"es": {"es-ES", "Lucia", "Enrique"},
	"it": {"it-IT", "Carla", "Giorgio"},
	"pt": {"pt-PT", "Ines", "Cristiano"},
	"nl": {"nl-NL", "Lotte", "Ruben"},
	"pl": {"pl-PL", "Ewa", "Jacek"},
	"ru": {"ru-RU", "Tatyana", "Maxim"},
	"ja": {"ja-JP", "Mizuki", "Takumi"},
	"da": {"da-DK", "Naja", "Mads"},
	"is": {"is-IS", "Dora", "Karl"},
	"ro": {"ro-RO", "Carmen", "Carmen"},
	"tr": {"tr-TR", "Filiz", "Filiz"},
	"sv": {"sv-SE", "Astrid", "Astrid"},
	"cy": {"cy-GB", "Gwyneth", "Gwyneth"},
}

const (
	minSpeechRate = 20
	maxSpeechRate = 200
)

// AmazonService speaks text with Amazon Polly.
type AmazonService struct {
	Unsupported

	client speechSynthesizer
}

func NewAmazonService(ctx context.Context, cfg ServiceConfig) (*AmazonService, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &AmazonService{client: polly.NewFromConfig(awsCfg)}, nil
}

func (s *AmazonService) Name() string {
	return "amazon"
}

// TextToSpeech renders text as MP3. speed is a percentage of the normal
// rate, clamped to what Polly accepts.
func (s *AmazonService) TextToSpeech(ctx context.Context, text string, speed int, gender Gender, source string) (*SpeechResult, error) {
	voice, ok := pollyVoices[source]
	if !ok {
		return nil, fmt.Errorf("no voice for %q: %w", source, ErrUnsupportedLanguage)
	}
	voiceID := voice.female
	if gender == GenderMale {
		voiceID = voice.male
	}

	out, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       types.EngineStandard,
		LanguageCode: voice.code,
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(ssml(text, speed)),
		TextType:     types.TextTypeSsml,
		VoiceId:      voiceID,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrNoResult
	}

	return &SpeechResult{
		SourceLanguage: language.FromCode(source),
		Audio:          audio,
		MIMEType:       aws.ToString(out.ContentType),
		Speed:          speed,
		Gender:         gender,
	}, nil
}

// ssml wraps text in a prosody element carrying the speaking rate.
func ssml(text string, speed int) string {
	rate := min(max(speed, minSpeechRate), maxSpeechRate)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<speak><prosody rate="%d%%">`, rate)
	_ = xml.EscapeText(&sb, []byte(text))
	sb.WriteString(`</prosody></speak>`)
	return sb.String()
}

func (s *AmazonService) SupportedLanguages(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(pollyVoices))
	for code := range pollyVoices {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
