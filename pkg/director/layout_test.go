package director

import (
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

func TestLayoutManager_ImageRect(t *testing.T) {
	t.Run("A4では512ptの画像が中央に置かれること", func(t *testing.T) {
		r := NewLayoutManager(A4Portrait()).ImageRect()
		want := domain.Rect{X: (A4Width - 512) / 2, Y: 40, W: 512, H: 512}
		if r != want {
			t.Errorf("期待値 %+v, 実際の値 %+v", want, r)
		}
	})

	t.Run("ページ幅より大きい画像は切り詰められること", func(t *testing.T) {
		format := domain.PageFormat{Width: 400, Height: 600, Margin: 40, ImageSize: 512}
		r := NewLayoutManager(format).ImageRect()
		if r.W != 320 || r.X != 40 {
			t.Errorf("切り詰めが不正です: %+v", r)
		}
	})
}

func TestLayoutManager_MaxLines(t *testing.T) {
	l := NewLayoutManager(domain.PageFormat{Width: 400, Height: 200, Margin: 20, ImageSize: 100})
	font := domain.FontSpec{Size: 10, Leading: 12}

	tests := []struct {
		y    float64
		want int
	}{
		{y: 100, want: 6}, // 110, 122, 134, 146, 158, 170 が 180 以内
		{y: 170, want: 1},
		{y: 175, want: 0},
	}
	for _, tt := range tests {
		if got := l.MaxLines(tt.y, font); got != tt.want {
			t.Errorf("MaxLines(%v) = %d, 期待値 %d", tt.y, got, tt.want)
		}
	}
}

func TestLayoutManager_BodyOrigin(t *testing.T) {
	l := NewLayoutManager(A4Portrait())
	_, ty := l.TitleOrigin()

	if _, y := l.BodyOrigin(0); y != 40+512+bodyGap {
		t.Errorf("タイトル無しの本文位置が不正です: %v", y)
	}
	if _, y := l.BodyOrigin(33.6); y != ty+33.6+titleBodyGap {
		t.Errorf("タイトル付きの本文位置が不正です: %v", y)
	}
}
