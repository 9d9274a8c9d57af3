package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shouni/go-utils/envutil"

	ehon "github.com/shouni/go-ehon-kit/pkg/config"
)

// DefaultConfigFile は --config 未指定時に探す設定ファイルなのだ。無くてもエラーにしないのだ
const DefaultConfigFile = "ehon.yaml"

// LoadConfig はデフォルト値、YAML ファイル、環境変数の順に設定を重ねて返すのだ！
// path が空なら DefaultConfigFile を探すのだ
func LoadConfig(path string) (ehon.Config, error) {
	cfg := ehon.DefaultConfig()

	k, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := applyFile(k, &cfg); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return k, nil
		}
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return k, nil
}

// applyFile は YAML に書かれたキーだけを上書きするのだ
func applyFile(k *koanf.Koanf, cfg *ehon.Config) error {
	setString := func(key string, dst *string) {
		if k.Exists(key) {
			*dst = k.String(key)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if k.Exists(key) {
			*dst = k.Duration(key)
		}
	}

	setString("gemini.model", &cfg.GeminiModel)
	setString("gemini.image_model", &cfg.ImageModel)
	setString("gemini.speech_model", &cfg.SpeechModel)
	setString("gemini.voice", &cfg.SpeechVoice)

	if k.Exists("book.profile") {
		p, err := ehon.LookupProfile(k.String("book.profile"))
		if err != nil {
			return err
		}
		cfg.Profile = p
	}
	setString("book.style_prefix", &cfg.StylePrefix)
	setString("book.placeholder_label", &cfg.PlaceholderLabel)
	if k.Exists("book.consistent_seed") {
		cfg.ConsistentSeed = k.Bool("book.consistent_seed")
	}
	if k.Exists("book.narration") {
		cfg.NarrationEnabled = k.Bool("book.narration")
	}
	if k.Exists("book.retry_token_increment") {
		cfg.RetryTokenIncrement = k.Int("book.retry_token_increment")
	}

	setString("output.dir", &cfg.OutputDir)
	setString("output.font_regular", &cfg.FontRegularPath)
	setString("output.font_bold", &cfg.FontBoldPath)
	setDuration("output.artifact_ttl", &cfg.ArtifactTTL)

	setDuration("limits.rate_interval", &cfg.RateInterval)
	setDuration("limits.request_timeout", &cfg.RequestTimeout)
	if k.Exists("limits.workers") {
		cfg.Workers = k.Int("limits.workers")
	}
	return nil
}

// applyEnv は環境変数で上書きするのだ。API キーは環境変数からしか読まないのだ
func applyEnv(cfg *ehon.Config) error {
	cfg.GeminiAPIKey = envutil.GetEnv("GEMINI_API_KEY", "")
	cfg.GeminiModel = envutil.GetEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.ImageModel = envutil.GetEnv("IMAGE_GEMINI_MODEL", cfg.ImageModel)
	cfg.SpeechModel = envutil.GetEnv("TTS_GEMINI_MODEL", cfg.SpeechModel)
	cfg.OutputDir = envutil.GetEnv("EHON_OUTPUT_DIR", cfg.OutputDir)
	cfg.FontRegularPath = envutil.GetEnv("EHON_FONT_REGULAR", cfg.FontRegularPath)
	cfg.FontBoldPath = envutil.GetEnv("EHON_FONT_BOLD", cfg.FontBoldPath)

	if name := envutil.GetEnv("EHON_PROFILE", ""); name != "" {
		p, err := ehon.LookupProfile(name)
		if err != nil {
			return err
		}
		cfg.Profile = p
	}
	if v := envutil.GetEnv("EHON_NARRATION", ""); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EHON_NARRATION は true/false で指定するのだ (got %q): %w", v, err)
		}
		cfg.NarrationEnabled = enabled
	}
	return nil
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 絵本の入力
	Age    int    // --age
	Gender string // --gender
	Hero   string // --hero
	Theme  string // --theme

	// 生成設定
	Profile     string // --profile
	NoNarration bool   // --no-narration

	// 出力
	OutputDir string // --output-dir
	JSON      bool   // --json
}
