package generator

import (
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// StoryPromptBuilder は物語生成プロンプトを構築する契約です。
type StoryPromptBuilder interface {
	Build(req domain.BookRequest, profile config.Profile) (string, error)
}

// IllustrationPromptBuilder は挿絵プロンプトを構築する契約です。
type IllustrationPromptBuilder interface {
	Build(sceneText string, identity domain.VisualIdentity) string
}
