package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shouni/go-ehon-kit/pkg/asset"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// recordingCanvas は描画命令を文字列として記録する Canvas です。
type recordingCanvas struct {
	ops        []string
	title      string
	failImages bool
}

func (c *recordingCanvas) SetTitle(title string) { c.title = title }

func (c *recordingCanvas) AddPage() error {
	c.ops = append(c.ops, "page")
	return nil
}

func (c *recordingCanvas) DrawImage(_ domain.Rect, data []byte, mimeType string) error {
	if c.failImages {
		return errors.New("unsupported image")
	}
	c.ops = append(c.ops, fmt.Sprintf("image:%s:%d", mimeType, len(data)))
	return nil
}

func (c *recordingCanvas) DrawPlaceholder(_ domain.Rect, message string) error {
	c.ops = append(c.ops, "placeholder:"+message)
	return nil
}

func (c *recordingCanvas) DrawText(_, _ float64, lines []string, font domain.FontSpec) error {
	c.ops = append(c.ops, fmt.Sprintf("text:%s:%d", font.Weight, len(lines)))
	return nil
}

func (c *recordingCanvas) Finalize(w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

func (c *recordingCanvas) MimeType() string { return "application/pdf" }

type memoryStore struct {
	docs      map[string]asset.Document
	narration map[string]*domain.NarrationAudio
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string]asset.Document{}, narration: map[string]*domain.NarrationAudio{}}
}

func (s *memoryStore) SaveDocument(_ context.Context, doc asset.Document) (domain.ArtifactRef, error) {
	s.docs[doc.ID] = doc
	return domain.ArtifactRef{ID: doc.ID, Location: "mem://" + doc.ID, MimeType: doc.MimeType, Pages: doc.Pages}, nil
}

func (s *memoryStore) SaveNarration(_ context.Context, id string, audio *domain.NarrationAudio) (string, error) {
	s.narration[id] = audio
	return "mem://" + id + "/narration.wav", nil
}
