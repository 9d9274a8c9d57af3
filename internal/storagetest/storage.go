// Package storagetest はテスト用のメモリ上の remoteio 実装を提供します。
package storagetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

var (
	_ remoteio.InputReader  = (*Storage)(nil)
	_ remoteio.OutputWriter = (*Storage)(nil)
)

// Object は書き込まれた1件分のデータです。
type Object struct {
	Data        []byte
	ContentType string
}

// Storage はパスをそのままキーにして内容を保持します。gs:// などのスキームも区別せずに扱います。
type Storage struct {
	mu      sync.Mutex
	objects map[string]Object
}

func New() *Storage {
	return &Storage{objects: make(map[string]Object)}
}

// Put はテストの前提となるデータを配置します。
func (s *Storage) Put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{Data: append([]byte(nil), data...)}
}

// Write は remoteio.OutputWriter の実装です。
func (s *Storage) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{Data: data, ContentType: contentType}
	return nil
}

// Open は remoteio.InputReader の実装です。存在しない場合のエラーは fs.ErrNotExist を満たします。
func (s *Storage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(obj.Data)), nil
}

// Get は書き込まれた内容を返します。
func (s *Storage) Get(path string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Paths は保持しているパスを昇順で返します。
func (s *Storage) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
