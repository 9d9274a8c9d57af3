package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStateMachine(t *testing.T) {
	t.Run("正常系の遷移を順にたどれること", func(t *testing.T) {
		m := NewStateMachine()
		steps := []RequestState{
			StateNarrativePending,
			StateNarrativeReady,
			StateIllustrationsPending,
			StateAssembling,
			StateComplete,
		}
		for _, s := range steps {
			if err := m.Advance(s); err != nil {
				t.Fatalf("遷移に失敗しました: %v", err)
			}
		}
		want := append([]RequestState{StateReceived}, steps...)
		if diff := cmp.Diff(want, m.History()); diff != "" {
			t.Errorf("履歴が一致しません (-want +got):\n%s", diff)
		}
	})

	t.Run("段階を飛ばす遷移は拒否されること", func(t *testing.T) {
		m := NewStateMachine()
		if err := m.Advance(StateAssembling); err == nil {
			t.Error("不正な遷移が許可されました")
		}
		if m.Current() != StateReceived {
			t.Errorf("状態が変化しています: %s", m.Current())
		}
	})

	t.Run("終端状態からは失敗に遷移しないこと", func(t *testing.T) {
		m := NewStateMachine()
		m.Fail()
		m.Fail()
		if got := len(m.History()); got != 2 {
			t.Errorf("履歴の長さ 期待値 2, 実際の値 %d", got)
		}
		if err := m.Advance(StateNarrativePending); err == nil {
			t.Error("failed から遷移できてしまいました")
		}
	})
}
