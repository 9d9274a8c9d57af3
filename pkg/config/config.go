package config

import (
	"fmt"
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel      = "gemini-3-flash-preview"
	DefaultImageModel       = "gemini-3-pro-image-preview"
	DefaultSpeechModel      = "gemini-2.5-flash-preview-tts"
	DefaultSpeechVoice      = "Kore"
	DefaultRateInterval     = 2 * time.Second
	DefaultRequestTimeout   = 90 * time.Second
	DefaultWorkers          = 3
	DefaultMaxTokens        = 700
	DefaultRetryTokenStep   = 200
	DefaultArtifactTTL      = 24 * time.Hour
	DefaultOutputDir        = "output"
	DefaultProfileName      = ProfileShort
	DefaultPlaceholderLabel = "えを よういできませんでした"
	DefaultStylePrefix      = "children's picture book illustration, soft watercolor, gentle pastel colors, warm lighting, simple rounded shapes, friendly expressions, storybook style, no text, no letters"
)

// 物語の長さのプリセット名です。
const (
	ProfileShort    = "short"
	ProfileStandard = "standard"
)

// Profile は物語の長さに関する設定です。シーン数と文字数の目安を持ちます。
type Profile struct {
	Name       string
	SceneCount int
	MinChars   int
	MaxChars   int
	MaxTokens  int
}

// WithinBudget は文字数が目安の範囲内かどうかを返します。
func (p Profile) WithinBudget(chars int) bool {
	return chars >= p.MinChars && chars <= p.MaxChars
}

var profiles = map[string]Profile{
	ProfileShort: {
		Name:       ProfileShort,
		SceneCount: 3,
		MinChars:   300,
		MaxChars:   450,
		MaxTokens:  DefaultMaxTokens,
	},
	ProfileStandard: {
		Name:       ProfileStandard,
		SceneCount: 5,
		MinChars:   400,
		MaxChars:   550,
		MaxTokens:  DefaultMaxTokens,
	},
}

// LookupProfile は名前からプリセットの Profile を返します。
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("未知のプロファイルです: %q (short または standard を指定してください)", name)
	}
	return p, nil
}

// Config は Go Ehon Kit の各工程を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string
	ImageModel  string
	SpeechModel string

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	Profile             Profile
	StylePrefix         string
	RetryTokenIncrement int
	ConsistentSeed      bool
	RateInterval        time.Duration
	Workers             int

	// --- Narration ---
	NarrationEnabled bool
	SpeechVoice      string

	// --- Layout & Output ---
	PlaceholderLabel string
	OutputDir        string
	FontRegularPath  string
	FontBoldPath     string
	ArtifactTTL      time.Duration

	// --- Timeout ---
	RequestTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:         DefaultGeminiModel,
		ImageModel:          DefaultImageModel,
		SpeechModel:         DefaultSpeechModel,
		Profile:             profiles[DefaultProfileName],
		StylePrefix:         DefaultStylePrefix,
		RetryTokenIncrement: DefaultRetryTokenStep,
		ConsistentSeed:      true,
		RateInterval:        DefaultRateInterval,
		Workers:             DefaultWorkers,
		NarrationEnabled:    true,
		SpeechVoice:         DefaultSpeechVoice,
		PlaceholderLabel:    DefaultPlaceholderLabel,
		OutputDir:           DefaultOutputDir,
		ArtifactTTL:         DefaultArtifactTTL,
		RequestTimeout:      DefaultRequestTimeout,
	}
}

// Validate は実行に必要な値が揃っているかを確認します。
func (c Config) Validate() error {
	if c.Profile.SceneCount <= 0 {
		return fmt.Errorf("profile のシーン数は 1 以上である必要があります")
	}
	if c.Profile.MaxTokens <= 0 {
		return fmt.Errorf("profile の MaxTokens は 1 以上である必要があります")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers は 1 以上である必要があります (got %d)", c.Workers)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout は正の値である必要があります")
	}
	return nil
}
