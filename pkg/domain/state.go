package domain

import "fmt"

// RequestState は1リクエストのライフサイクル上の状態です。
type RequestState string

const (
	StateReceived             RequestState = "received"
	StateNarrativePending     RequestState = "narrative_pending"
	StateNarrativeReady       RequestState = "narrative_ready"
	StateIllustrationsPending RequestState = "illustrations_pending"
	StateAssembling           RequestState = "assembling"
	StateComplete             RequestState = "complete"
	StateFailed               RequestState = "failed"
)

var transitions = map[RequestState][]RequestState{
	StateReceived:             {StateNarrativePending, StateFailed},
	StateNarrativePending:     {StateNarrativeReady, StateFailed},
	StateNarrativeReady:       {StateIllustrationsPending, StateFailed},
	StateIllustrationsPending: {StateAssembling, StateFailed},
	StateAssembling:           {StateComplete, StateFailed},
}

// Terminal は終端状態かどうかを返します。
func (s RequestState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// CanTransition は from から to への遷移が許可されているかを返します。
func CanTransition(from, to RequestState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateMachine はリクエスト状態を遷移表に従って進めます。並行利用は想定しません。
type StateMachine struct {
	current RequestState
	history []RequestState
}

// NewStateMachine は received 状態から開始する StateMachine を返します。
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateReceived,
		history: []RequestState{StateReceived},
	}
}

// Current は現在の状態を返します。
func (m *StateMachine) Current() RequestState { return m.current }

// History はこれまで通過した状態を順に返します。
func (m *StateMachine) History() []RequestState {
	out := make([]RequestState, len(m.history))
	copy(out, m.history)
	return out
}

// Advance は to へ遷移します。遷移表にない遷移はエラーです。
func (m *StateMachine) Advance(to RequestState) error {
	if !CanTransition(m.current, to) {
		return fmt.Errorf("不正な状態遷移です: %s -> %s", m.current, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}

// Fail は終端でなければ failed へ遷移します。
func (m *StateMachine) Fail() {
	if m.current.Terminal() {
		return
	}
	m.current = StateFailed
	m.history = append(m.history, StateFailed)
}
