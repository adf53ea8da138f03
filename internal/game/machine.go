package game

import (
	"time"

	"github.com/verte-zerg/piflow/internal/model"
)

// PrefixLen is the display width of the fixed "3." prefix.
const PrefixLen = 2

// DigitSource looks up reference digits by position.
type DigitSource interface {
	DigitAt(pos int) (byte, bool)
	Len() int
}

// Recorder receives statistics events from a session.
type Recorder interface {
	RecordValidation(result model.ValidationResult)
	RecordFinish(summary model.SessionSummary)
}

type nopRecorder struct{}

func (nopRecorder) RecordValidation(model.ValidationResult) {}
func (nopRecorder) RecordFinish(model.SessionSummary)       {}

// Machine tracks a single practice session.
type Machine struct {
	source   DigitSource
	recorder Recorder
	now      func() time.Time

	state     State
	history   []byte
	startedAt time.Time
	endedAt   time.Time
	mistakes  []model.MistakeEvent
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMachine returns an idle machine. A nil recorder discards events.
func NewMachine(source DigitSource, recorder Recorder, opts ...Option) *Machine {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	m := &Machine{
		source:   source,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Position returns the count of digits correctly entered.
func (m *Machine) Position() int {
	return len(m.history)
}

// History returns a copy of the accepted digits.
func (m *Machine) History() []byte {
	out := make([]byte, len(m.history))
	copy(out, m.history)
	return out
}

// Mistakes returns the number of wrong digits entered this session.
func (m *Machine) Mistakes() int {
	return len(m.mistakes)
}

// StartedAt returns the session start, or the zero time when idle.
func (m *Machine) StartedAt() time.Time {
	return m.startedAt
}

// Elapsed returns the time since start, frozen once finished.
func (m *Machine) Elapsed() time.Duration {
	if m.startedAt.IsZero() {
		return 0
	}
	end := m.endedAt
	if end.IsZero() {
		end = m.now()
	}
	if end.Before(m.startedAt) {
		return 0
	}
	return end.Sub(m.startedAt)
}

// Start begins a session. It only has an effect while idle.
func (m *Machine) Start() bool {
	if m.state != Idle {
		return false
	}
	m.clear()
	m.state = Playing
	m.startedAt = m.now()
	return true
}

// Validate checks d against the digit at the current position.
func (m *Machine) Validate(d byte) model.ValidationResult {
	if !m.state.Active() {
		return model.ValidationResult{}
	}
	pos := len(m.history)
	expected, ok := m.source.DigitAt(pos)
	if !ok {
		m.Finish()
		return model.ValidationResult{}
	}
	result := model.ValidationResult{
		Accepted: true,
		Correct:  d == expected,
		Position: pos,
		Input:    d,
		Expected: expected,
	}
	if result.Correct {
		m.history = append(m.history, d)
	} else {
		m.mistakes = append(m.mistakes, model.MistakeEvent{Position: pos, Input: d, Expected: expected})
	}
	m.state = m.state.next(result.Correct)
	m.recorder.RecordValidation(result)

	if len(m.history) >= m.source.Len() {
		m.Finish()
	}
	return result
}

// Rewind truncates the session to a display index. The display index
// counts the "3." prefix, so indices below PrefixLen are ignored.
func (m *Machine) Rewind(displayIndex int) bool {
	if displayIndex < PrefixLen {
		return false
	}
	return m.RewindTo(displayIndex - PrefixLen)
}

// RewindTo truncates history back to pos. Targets outside [0, Position) are ignored.
func (m *Machine) RewindTo(pos int) bool {
	if !m.state.Active() {
		return false
	}
	if pos < 0 || pos >= len(m.history) {
		return false
	}
	m.history = m.history[:pos]
	return true
}

// Finish concludes an active session and reports it to the recorder.
func (m *Machine) Finish() (model.SessionSummary, bool) {
	if !m.state.Active() {
		return model.SessionSummary{}, false
	}
	m.state = Finished
	m.endedAt = m.now()
	summary := m.Summary()
	m.recorder.RecordFinish(summary)
	return summary, true
}

// Summary describes the session so far.
func (m *Machine) Summary() model.SessionSummary {
	mistakes := make([]model.MistakeEvent, len(m.mistakes))
	copy(mistakes, m.mistakes)
	ended := m.endedAt
	if ended.IsZero() && !m.startedAt.IsZero() {
		ended = m.now()
	}
	return model.SessionSummary{
		StartedAt:     m.startedAt,
		EndedAt:       ended,
		DigitsReached: len(m.history),
		Mistakes:      mistakes,
		SourceLen:     m.source.Len(),
	}
}

// Reset returns to Idle from any state.
func (m *Machine) Reset() {
	m.clear()
	m.state = Idle
}

func (m *Machine) clear() {
	m.history = nil
	m.mistakes = nil
	m.startedAt = time.Time{}
	m.endedAt = time.Time{}
}
