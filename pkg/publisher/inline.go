package publisher

import (
	"context"
	"encoding/base64"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// InlinePublisher は {画像, 本文} の組をそのまま応答に載せる OutputStrategy です。何も保存しません。
type InlinePublisher struct{}

func NewInlinePublisher() *InlinePublisher { return &InlinePublisher{} }

// Shape は応答の形を返します。
func (p *InlinePublisher) Shape() domain.ResponseShape { return domain.ShapeInline }

// Render はシーン順のインライン応答を作ります。失敗した挿絵はプレースホルダーの目印になります。
func (p *InlinePublisher) Render(_ context.Context, result domain.BookResult) (*domain.BookOutput, error) {
	payload := &domain.InlinePayload{
		Title:  result.Narrative.Title,
		Scenes: make([]domain.InlineScene, 0, len(result.Narrative.Scenes)),
	}
	for _, scene := range result.Narrative.Scenes {
		is := domain.InlineScene{SceneIndex: scene.Index, Text: scene.Text}
		ill, ok := domain.IllustrationFor(result.Illustrations, scene.Index)
		switch {
		case ok && ill.OK() && len(ill.Data) > 0:
			is.Image = DataURI(ill.MimeType, ill.Data)
		case ok && ill.OK():
			is.Image = ill.URL
		default:
			is.Image = domain.PlaceholderMarker
			is.Failed = true
		}
		payload.Scenes = append(payload.Scenes, is)
	}

	out := &domain.BookOutput{
		RequestID: result.RequestID,
		Title:     result.Narrative.Title,
		Shape:     domain.ShapeInline,
		Inline:    payload,
		Warnings:  result.Warnings,
	}
	if result.Narration != nil {
		payload.Audio = DataURI(result.Narration.MimeType, result.Narration.Data)
		out.Narration = result.Narration
	}
	return out, nil
}

// DataURI はバイト列を base64 の data URI にします。
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
