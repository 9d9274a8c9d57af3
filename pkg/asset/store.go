package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const cacheCleanupInterval = 15 * time.Minute

// metadata は成果物ディレクトリに保存する付随情報です。
type metadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MimeType  string    `json:"mime_type"`
	Pages     int       `json:"pages"`
	Narration string    `json:"narration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Document は保存対象の組版済み文書です。
type Document struct {
	ID        string
	Title     string
	Data      []byte
	MimeType  string
	Pages     int
	CreatedAt time.Time
}

// Store は成果物の保存と識別子による取得を担います。
// baseDir はローカルのディレクトリでも gs:// の URI でも構いません。読み書きは remoteio に任せます。
// 直近に保存した成果物のメタデータは go-cache に TTL 付きで保持し、期限切れ後はディスク上のメタデータを参照します。
type Store struct {
	writer  remoteio.OutputWriter
	reader  remoteio.InputReader
	baseDir string
	index   *cache.Cache
}

// NewStore は Store を初期化します。ttl が 0 以下の場合はキャッシュが期限切れになりません。
func NewStore(writer remoteio.OutputWriter, reader remoteio.InputReader, baseDir string, ttl time.Duration) (*Store, error) {
	if writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	if reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir は必須です")
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Store{
		writer:  writer,
		reader:  reader,
		baseDir: baseDir,
		index:   cache.New(ttl, cacheCleanupInterval),
	}, nil
}

// SaveDocument は文書とメタデータを保存し、参照を返します。
func (s *Store) SaveDocument(ctx context.Context, doc Document) (domain.ArtifactRef, error) {
	if !ValidArtifactID(doc.ID) {
		return domain.ArtifactRef{}, fmt.Errorf("不正な成果物IDです: %q", doc.ID)
	}
	docPath, err := ArtifactPath(s.baseDir, doc.ID, DefaultDocumentName)
	if err != nil {
		return domain.ArtifactRef{}, err
	}
	if err := s.writer.Write(ctx, docPath, bytes.NewReader(doc.Data), doc.MimeType); err != nil {
		return domain.ArtifactRef{}, fmt.Errorf("文書の書き込みに失敗しました: %w", err)
	}

	meta := metadata{
		ID:        doc.ID,
		Title:     doc.Title,
		MimeType:  doc.MimeType,
		Pages:     doc.Pages,
		CreatedAt: doc.CreatedAt,
	}
	if err := s.writeMetadata(ctx, meta); err != nil {
		return domain.ArtifactRef{}, err
	}

	slog.InfoContext(ctx, "成果物を保存しました", "id", doc.ID, "path", docPath, "bytes", len(doc.Data))
	return domain.ArtifactRef{ID: doc.ID, Location: docPath, MimeType: doc.MimeType, Pages: doc.Pages}, nil
}

// SaveNarration は読み上げ音声を文書と同じディレクトリに保存し、保存先を返します。
// 文書のメタデータが既にあれば音声の場所を追記します。
func (s *Store) SaveNarration(ctx context.Context, id string, audio *domain.NarrationAudio) (string, error) {
	if !ValidArtifactID(id) {
		return "", fmt.Errorf("不正な成果物IDです: %q", id)
	}
	if audio == nil || len(audio.Data) == 0 {
		return "", fmt.Errorf("音声データが空です")
	}
	audioPath, err := ArtifactPath(s.baseDir, id, DefaultNarrationName)
	if err != nil {
		return "", err
	}
	if err := s.writer.Write(ctx, audioPath, bytes.NewReader(audio.Data), audio.MimeType); err != nil {
		return "", fmt.Errorf("音声の書き込みに失敗しました: %w", err)
	}

	if meta, ok := s.lookup(ctx, id); ok {
		meta.Narration = audioPath
		if err := s.writeMetadata(ctx, meta); err != nil {
			return "", err
		}
	}
	return audioPath, nil
}

// Fetch は識別子に対応する文書を返します。存在しない場合は domain.ErrNotFound を返します。
func (s *Store) Fetch(ctx context.Context, id string) (*domain.Artifact, error) {
	if !ValidArtifactID(id) {
		return nil, domain.ErrNotFound
	}
	meta, ok := s.lookup(ctx, id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	docPath, err := ArtifactPath(s.baseDir, id, DefaultDocumentName)
	if err != nil {
		return nil, err
	}
	data, err := s.readAll(ctx, docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("文書の読み込みに失敗しました (%s): %w", docPath, err)
	}

	return &domain.Artifact{
		ArtifactRef: domain.ArtifactRef{ID: id, Location: docPath, MimeType: meta.MimeType, Pages: meta.Pages},
		Data:        data,
	}, nil
}

// lookup はキャッシュ、ディスク上のメタデータの順にメタデータを探します。
func (s *Store) lookup(ctx context.Context, id string) (metadata, bool) {
	if v, ok := s.index.Get(id); ok {
		if meta, ok := v.(metadata); ok {
			return meta, true
		}
	}

	metaPath, err := ArtifactPath(s.baseDir, id, DefaultMetadataName)
	if err != nil {
		return metadata{}, false
	}
	raw, err := s.readAll(ctx, metaPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "メタデータの読み込みに失敗しました", "id", id, "error", err)
		}
		return metadata{}, false
	}
	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		slog.WarnContext(ctx, "メタデータの解析に失敗しました", "id", id, "error", err)
		return metadata{}, false
	}
	s.index.SetDefault(id, meta)
	return meta, true
}

func (s *Store) writeMetadata(ctx context.Context, meta metadata) error {
	metaPath, err := ArtifactPath(s.baseDir, meta.ID, DefaultMetadataName)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("メタデータのエンコードに失敗しました: %w", err)
	}
	if err := s.writer.Write(ctx, metaPath, bytes.NewReader(raw), "application/json"); err != nil {
		return fmt.Errorf("メタデータの書き込みに失敗しました: %w", err)
	}
	s.index.SetDefault(meta.ID, meta)
	return nil
}

func (s *Store) readAll(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.reader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
