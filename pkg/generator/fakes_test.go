package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/adapters"
)

// scriptedText は呼び出しごとに決められた応答を返す TextGenerator です。
type scriptedText struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []adapters.TextRequest
}

func (s *scriptedText) Generate(_ context.Context, req adapters.TextRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.requests)
	s.requests = append(s.requests, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

// fakeImages は指定シーンのみ失敗させる ImageGenerator です。
type fakeImages struct {
	mu       sync.Mutex
	failOn   map[string]bool
	requests []imagedom.ImageGenerationRequest
}

func (f *fakeImages) GenerateIllustration(_ context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	for marker := range f.failOn {
		if strings.Contains(req.Prompt, marker) {
			return nil, fmt.Errorf("backend unavailable")
		}
	}
	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	}
	return &imagedom.ImageResponse{Data: []byte("png:" + req.Prompt), MimeType: "image/png", UsedSeed: seed}, nil
}

type fakeSpeech struct {
	text string
	err  error
}

func (f *fakeSpeech) Synthesize(_ context.Context, text string) (*adapters.SpeechResult, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return &adapters.SpeechResult{Data: []byte("wav"), MimeType: "audio/wav"}, nil
}
