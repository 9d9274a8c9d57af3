package adapters

import (
	"context"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"google.golang.org/genai"
)

// Gemini TTS が返す PCM の形式です。MIME タイプに rate が無い場合は speechSampleRate を使います。
const (
	speechSampleRate    = 24000
	speechChannels      = 1
	speechBitsPerSample = 16
)

// GeminiSpeech は Gemini TTS を使った SpeechSynthesizer の実装です。
type GeminiSpeech struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSpeech は GeminiSpeech を初期化します。
func NewGeminiSpeech(client *genai.Client, model, voice string) (*GeminiSpeech, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client は必須です")
	}
	if model == "" {
		return nil, fmt.Errorf("speech model は必須です")
	}
	return &GeminiSpeech{client: client, model: model, voice: voice}, nil
}

// Synthesize はテキスト全体を1本の音声に合成し、WAV として返します。
func (g *GeminiSpeech) Synthesize(ctx context.Context, text string) (*SpeechResult, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if g.voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), cfg)
	if err != nil {
		return nil, upstream(domain.StageNarration, err)
	}
	blob, err := firstInlineData(resp, func(mime string) bool {
		return strings.HasPrefix(mime, "audio/")
	})
	if err != nil {
		return nil, upstream(domain.StageNarration, err)
	}

	if strings.Contains(blob.MIMEType, "wav") {
		return &SpeechResult{Data: blob.Data, MimeType: "audio/wav"}, nil
	}
	return &SpeechResult{
		Data:     EncodeWAV(blob.Data, sampleRateOf(blob.MIMEType), speechChannels, speechBitsPerSample),
		MimeType: "audio/wav",
	}, nil
}

// sampleRateOf は audio/L16;codec=pcm;rate=24000 のような MIME タイプからサンプルレートを取り出します。
func sampleRateOf(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return speechSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return speechSampleRate
	}
	return rate
}
