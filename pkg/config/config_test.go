package config

import (
	"testing"
)

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		name     string
		scenes   int
		min, max int
		wantErr  bool
	}{
		{name: ProfileShort, scenes: 3, min: 300, max: 450},
		{name: ProfileStandard, scenes: 5, min: 400, max: 550},
		{name: "long", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LookupProfile(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("エラーが発生しませんでした")
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if p.SceneCount != tt.scenes || p.MinChars != tt.min || p.MaxChars != tt.max {
				t.Errorf("プロファイルが一致しません: %+v", p)
			}
			if !p.WithinBudget(tt.min) || p.WithinBudget(tt.max+1) {
				t.Errorf("文字数の範囲判定が不正です: %+v", p)
			}
		})
	}
}

func TestDefaultConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("デフォルト設定が不正です: %v", err)
	}
	if cfg.Profile.MaxTokens+cfg.RetryTokenIncrement != 900 {
		t.Errorf("リトライ時のトークン上限 期待値 900, 実際の値 %d", cfg.Profile.MaxTokens+cfg.RetryTokenIncrement)
	}

	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("workers=0 でエラーが発生しませんでした")
	}
}
