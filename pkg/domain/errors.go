package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound は識別子に対応する成果物が存在しない（または期限切れの）場合に返されます。
var ErrNotFound = errors.New("artifact not found")

// Stage はバックエンド呼び出しを発行した工程です。
type Stage string

const (
	StageNarrative    Stage = "narrative"
	StageIllustration Stage = "illustration"
	StageNarration    Stage = "narration"
	StageRender       Stage = "render"
)

// FieldViolation は単一フィールドの検証エラーです。
type FieldViolation struct {
	Field  string
	Reason string
}

// ValidationError はリクエストの必須項目の欠落や範囲外を表します。リトライはしません。
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "リクエストが不正です: " + strings.Join(parts, "; ")
}

// NarrativeGenerationError はリトライ後も構造化された物語を得られなかったことを表します。
// リクエスト全体にとって致命的です。
type NarrativeGenerationError struct {
	Attempts int
	Err      error
}

func (e *NarrativeGenerationError) Error() string {
	return fmt.Sprintf("物語の生成に失敗しました (attempts=%d): %v", e.Attempts, e.Err)
}

func (e *NarrativeGenerationError) Unwrap() error { return e.Err }

// IllustrationError はシーン単位の画像生成失敗です。プレースホルダーに置き換えられ、
// リクエストは継続します。
type IllustrationError struct {
	SceneIndex int
	Err        error
}

func (e *IllustrationError) Error() string {
	return fmt.Sprintf("シーン %d の挿絵生成に失敗しました: %v", e.SceneIndex, e.Err)
}

func (e *IllustrationError) Unwrap() error { return e.Err }

// NarrationSynthesisError は読み上げ音声の合成失敗です。音声フィールドが省略されるだけです。
type NarrationSynthesisError struct {
	Err error
}

func (e *NarrationSynthesisError) Error() string {
	return fmt.Sprintf("読み上げ音声の合成に失敗しました: %v", e.Err)
}

func (e *NarrationSynthesisError) Unwrap() error { return e.Err }

// UpstreamServiceError はバックエンドの利用不可やエラー応答です。
// 呼び出し元の工程によって上記のいずれかに分類されます。
type UpstreamServiceError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("upstream %s service error: %v", e.Stage, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }
