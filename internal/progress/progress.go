// Package progress owns the loaded personal-best record and writes it
// through to the store after every mutation.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/record"
)

// Backend persists the record and session history.
type Backend interface {
	GetRecord(ctx context.Context, key string) ([]byte, bool, error)
	PutRecord(ctx context.Context, key string, value []byte, updatedAt time.Time) error
	DeleteRecord(ctx context.Context, key string) error
	InsertSession(ctx context.Context, id string, summary model.SessionSummary) error
}

// Tracker holds the personal-best record for one storage key.
type Tracker struct {
	backend Backend
	key     string
	log     zerolog.Logger
	now     func() time.Time

	pb          record.PersonalBest
	lastSession string
	prevBest    int
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for write-through failures.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker returns a tracker holding the default record until Load is called.
func NewTracker(backend Backend, key string, opts ...Option) *Tracker {
	t := &Tracker{
		backend: backend,
		key:     key,
		log:     zerolog.Nop(),
		now:     time.Now,
		pb:      record.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads the stored record. A missing or malformed record resets to
// defaults. Only backend failures are returned.
func (t *Tracker) Load(ctx context.Context) error {
	raw, found, err := t.backend.GetRecord(ctx, t.key)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	pb, ok := record.Decode(raw)
	if found && !ok {
		t.log.Warn().Str("key", t.key).Msg("stored record is malformed; using defaults")
	}
	t.pb = pb
	t.prevBest = pb.MaxDigits
	return nil
}

// Save overwrites the stored record with the in-memory one.
func (t *Tracker) Save(ctx context.Context) error {
	raw, err := record.Encode(t.pb)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := t.backend.PutRecord(ctx, t.key, raw, t.now()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Record returns a copy of the current record.
func (t *Tracker) Record() record.PersonalBest {
	return record.Clone(t.pb)
}

// PreviousBest is the best as it stood before the last finished session.
func (t *Tracker) PreviousBest() int {
	return t.prevBest
}

// LastSessionID returns the id of the last stored session.
func (t *Tracker) LastSessionID() string {
	return t.lastSession
}

// RecordValidation implements game.Recorder.
func (t *Tracker) RecordValidation(result model.ValidationResult) {
	if !result.Accepted {
		return
	}
	t.pb = record.ApplyValidation(t.pb, result, t.now())
	t.persist()
}

// RecordFinish implements game.Recorder.
func (t *Tracker) RecordFinish(summary model.SessionSummary) {
	now := t.now()
	t.prevBest = t.pb.MaxDigits
	t.pb = record.ApplySession(t.pb, summary, now)
	t.persist()

	id := uuid.NewString()
	if err := t.backend.InsertSession(context.Background(), id, summary); err != nil {
		t.log.Error().Err(err).Str("session", id).Msg("failed to save session")
		return
	}
	t.lastSession = id
	t.log.Debug().Str("session", id).Int("digits", summary.DigitsReached).Int("mistakes", len(summary.Mistakes)).Msg("session saved")
}

// ResetRecord deletes the stored record and returns to defaults.
func (t *Tracker) ResetRecord(ctx context.Context) error {
	if err := t.backend.DeleteRecord(ctx, t.key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	t.pb = record.Default()
	t.prevBest = 0
	return nil
}

func (t *Tracker) persist() {
	if err := t.Save(context.Background()); err != nil {
		t.log.Error().Err(err).Str("key", t.key).Msg("failed to persist record")
	}
}
