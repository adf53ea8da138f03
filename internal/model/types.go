// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	HintDigits int
	Window     int
	Digits     int
	Mnemonics  bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
}

// ValidationResult describes a single checked digit.
type ValidationResult struct {
	// Accepted is false when the session was not accepting input.
	Accepted bool
	Correct  bool
	Position int
	Input    byte
	Expected byte
}

// MistakeEvent records a wrong digit typed at a position.
type MistakeEvent struct {
	Position int
	Input    byte
	Expected byte
}

// SessionSummary captures a concluded practice session.
type SessionSummary struct {
	StartedAt     time.Time
	EndedAt       time.Time
	DigitsReached int
	Mistakes      []MistakeEvent
	SourceLen     int
}

// Duration returns the wall-clock length of the session.
func (s SessionSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID     string
	EndedAt       time.Time
	DigitsReached int
	Mistakes      int
	DurationMs    int64
}

// PositionAggregate counts stored mistakes at a digit position.
type PositionAggregate struct {
	Position int
	Mistakes int
}
