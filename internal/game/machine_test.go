package game

import (
	"testing"
	"time"

	"github.com/verte-zerg/piflow/internal/digits"
	"github.com/verte-zerg/piflow/internal/model"
)

type recorderSpy struct {
	validations []model.ValidationResult
	finishes    []model.SessionSummary
}

func (r *recorderSpy) RecordValidation(result model.ValidationResult) {
	r.validations = append(r.validations, result)
}

func (r *recorderSpy) RecordFinish(summary model.SessionSummary) {
	r.finishes = append(r.finishes, summary)
}

func newTestMachine(t *testing.T, seq string) (*Machine, *recorderSpy, *time.Time) {
	t.Helper()
	src, err := digits.FromDigits(seq)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	now := time.Unix(1700000000, 0)
	spy := &recorderSpy{}
	m := NewMachine(src, spy, WithClock(func() time.Time { return now }))
	return m, spy, &now
}

func TestStartResetsSession(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	if m.State() != Idle {
		t.Fatalf("expected idle, got %s", m.State())
	}
	if !m.Start() {
		t.Fatalf("expected start to succeed")
	}
	if m.State() != Playing || m.Position() != 0 || len(m.History()) != 0 {
		t.Fatalf("unexpected state after start: %s pos=%d", m.State(), m.Position())
	}
	if m.StartedAt().IsZero() {
		t.Fatalf("expected start time recorded")
	}
	if m.Start() {
		t.Fatalf("expected second start to be ignored")
	}
}

func TestValidateScenario(t *testing.T) {
	m, spy, _ := newTestMachine(t, "14159265")
	m.Start()

	res := m.Validate('1')
	if !res.Correct || m.Position() != 1 {
		t.Fatalf("expected correct first digit, got %+v pos=%d", res, m.Position())
	}
	res = m.Validate('4')
	if !res.Correct || m.Position() != 2 {
		t.Fatalf("expected correct second digit, got %+v pos=%d", res, m.Position())
	}
	res = m.Validate('2')
	if res.Correct || res.Position != 2 || res.Expected != '1' || res.Input != '2' {
		t.Fatalf("unexpected mistake result: %+v", res)
	}
	if m.Position() != 2 {
		t.Fatalf("expected position unchanged on mistake, got %d", m.Position())
	}
	if m.State() != Practice {
		t.Fatalf("expected practice after mistake, got %s", m.State())
	}
	res = m.Validate('1')
	if !res.Correct || m.Position() != 3 {
		t.Fatalf("expected recovery, got %+v pos=%d", res, m.Position())
	}
	if m.State() != Playing {
		t.Fatalf("expected playing after correct digit, got %s", m.State())
	}
	if string(m.History()) != "141" {
		t.Fatalf("unexpected history %q", m.History())
	}
	if len(spy.validations) != 4 {
		t.Fatalf("expected 4 recorded validations, got %d", len(spy.validations))
	}
	if m.Mistakes() != 1 {
		t.Fatalf("expected 1 mistake, got %d", m.Mistakes())
	}
}

func TestPracticeMistakeStaysInPractice(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	m.Start()
	m.Validate('9')
	m.Validate('8')
	if m.State() != Practice {
		t.Fatalf("expected practice, got %s", m.State())
	}
	if m.Position() != 0 {
		t.Fatalf("expected position 0, got %d", m.Position())
	}
}

func TestValidateIgnoredWhenInactive(t *testing.T) {
	m, spy, _ := newTestMachine(t, "14159265")
	if res := m.Validate('1'); res.Accepted {
		t.Fatalf("expected idle validate to be ignored")
	}
	m.Start()
	m.Validate('1')
	m.Finish()
	if res := m.Validate('4'); res.Accepted {
		t.Fatalf("expected finished validate to be ignored")
	}
	if m.Position() != 1 {
		t.Fatalf("expected position frozen at 1, got %d", m.Position())
	}
	if len(spy.validations) != 1 {
		t.Fatalf("expected only active validations recorded, got %d", len(spy.validations))
	}
}

func TestHistoryMatchesPosition(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	m.Start()
	for _, d := range []byte("1951415") {
		m.Validate(d)
		if len(m.History()) != m.Position() {
			t.Fatalf("history length %d != position %d", len(m.History()), m.Position())
		}
	}
}

func TestRewindRoundTrip(t *testing.T) {
	src := digits.New(50)
	m := NewMachine(src, nil)
	m.Start()
	for pos := 0; pos < 10; pos++ {
		d, _ := src.DigitAt(pos)
		m.Validate(d)
	}
	if !m.RewindTo(4) {
		t.Fatalf("expected rewind to succeed")
	}
	if m.Position() != 4 || string(m.History()) != src.Range(0, 4) {
		t.Fatalf("unexpected state after rewind: pos=%d history=%q", m.Position(), m.History())
	}
	d, _ := src.DigitAt(4)
	res := m.Validate(d)
	if !res.Correct || m.Position() != 5 || string(m.History()) != src.Range(0, 5) {
		t.Fatalf("round trip mismatch: %+v history=%q", res, m.History())
	}
}

func TestRewindDisplayIndex(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	m.Start()
	for _, d := range []byte("14159") {
		m.Validate(d)
	}
	if m.Rewind(1) || m.Rewind(0) {
		t.Fatalf("expected prefix indices to be ignored")
	}
	if m.Rewind(PrefixLen + 5) {
		t.Fatalf("expected rewind at current position to be ignored")
	}
	if !m.Rewind(PrefixLen + 2) {
		t.Fatalf("expected rewind to succeed")
	}
	if m.Position() != 2 || string(m.History()) != "14" {
		t.Fatalf("unexpected rewind result pos=%d history=%q", m.Position(), m.History())
	}
}

func TestRewindIgnoredOutsideSession(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	if m.RewindTo(0) {
		t.Fatalf("expected idle rewind to be ignored")
	}
	m.Start()
	m.Validate('1')
	m.Validate('4')
	m.Finish()
	if m.RewindTo(0) {
		t.Fatalf("expected finished rewind to be ignored")
	}
	if m.Position() != 2 {
		t.Fatalf("expected finished session to be read-only")
	}
}

func TestFinishReportsSummary(t *testing.T) {
	m, spy, now := newTestMachine(t, "14159265")
	m.Start()
	*now = now.Add(12 * time.Second)
	m.Validate('1')
	m.Validate('5')
	summary, ok := m.Finish()
	if !ok {
		t.Fatalf("expected finish to succeed")
	}
	if m.State() != Finished {
		t.Fatalf("expected finished, got %s", m.State())
	}
	if summary.DigitsReached != 1 || len(summary.Mistakes) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Duration() != 12*time.Second {
		t.Fatalf("expected 12s duration, got %s", summary.Duration())
	}
	if len(spy.finishes) != 1 {
		t.Fatalf("expected 1 finish event, got %d", len(spy.finishes))
	}
	*now = now.Add(time.Minute)
	if m.Elapsed() != 12*time.Second {
		t.Fatalf("expected elapsed frozen at finish, got %s", m.Elapsed())
	}
	if _, ok := m.Finish(); ok {
		t.Fatalf("expected second finish to be ignored")
	}
}

func TestFinishesAtEndOfSource(t *testing.T) {
	m, spy, _ := newTestMachine(t, "141")
	m.Start()
	for _, d := range []byte("141") {
		m.Validate(d)
	}
	if m.State() != Finished {
		t.Fatalf("expected automatic finish, got %s", m.State())
	}
	if len(spy.finishes) != 1 || spy.finishes[0].DigitsReached != 3 {
		t.Fatalf("unexpected finish events %+v", spy.finishes)
	}
}

func TestResetClearsSession(t *testing.T) {
	m, _, _ := newTestMachine(t, "14159265")
	m.Start()
	m.Validate('1')
	m.Validate('0')
	m.Reset()
	if m.State() != Idle || m.Position() != 0 || m.Mistakes() != 0 || m.Elapsed() != 0 {
		t.Fatalf("expected cleared session, got %s pos=%d", m.State(), m.Position())
	}
	if !m.Start() {
		t.Fatalf("expected start after reset")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{Idle: "idle", Playing: "playing", Practice: "practice", Finished: "finished"}
	for st, want := range names {
		if st.String() != want {
			t.Fatalf("expected %q, got %q", want, st.String())
		}
	}
}
