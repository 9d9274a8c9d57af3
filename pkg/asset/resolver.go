package asset

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultDocumentName は組版済み文書のファイル名です。
	DefaultDocumentName = "book.pdf"
	// DefaultNarrationName は読み上げ音声のファイル名です。
	DefaultNarrationName = "narration.wav"
	// DefaultMetadataName は成果物のメタデータ JSON のファイル名です。
	DefaultMetadataName = "meta.json"

	artifactPrefix     = "book"
	artifactTimeLayout = "20060102_150405"
	shortIDLength      = 8
)

// ArtifactIDRegex は NewArtifactID が生成する識別子 (book_20260102_030405_1a2b3c4d) に一致します。
var ArtifactIDRegex = regexp.MustCompile(`^book_\d{8}_\d{6}_[0-9a-f]{8}$`)

// NewArtifactID は生成時刻とリクエスト ID から成果物の識別子を作ります。
func NewArtifactID(now time.Time, requestID string) string {
	short := strings.Map(func(r rune) rune {
		if strings.ContainsRune("0123456789abcdef", r) {
			return r
		}
		return -1
	}, strings.ToLower(requestID))
	if len(short) > shortIDLength {
		short = short[:shortIDLength]
	}
	for len(short) < shortIDLength {
		short += "0"
	}
	return fmt.Sprintf("%s_%s_%s", artifactPrefix, now.UTC().Format(artifactTimeLayout), short)
}

// ValidArtifactID は識別子が NewArtifactID の形式かどうかを返します。パスの組み立て前に必ず確認します。
func ValidArtifactID(id string) bool {
	return ArtifactIDRegex.MatchString(id)
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// ArtifactPath は成果物ディレクトリ配下のファイルパスを返します。
func ArtifactPath(baseDir, id, fileName string) (string, error) {
	dir, err := ResolveOutputPath(baseDir, id)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}
	return ResolveOutputPath(dir, fileName)
}
