package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/piflow/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "piflow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestRecordRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, found, err := st.GetRecord(ctx, "k"); err != nil || found {
		t.Fatalf("expected missing record, found=%v err=%v", found, err)
	}
	if err := st.PutRecord(ctx, "k", []byte(`{"maxDigits":3}`), time.Unix(0, 0)); err != nil {
		t.Fatalf("put record: %v", err)
	}
	if err := st.PutRecord(ctx, "k", []byte(`{"maxDigits":9}`), time.Unix(10, 0)); err != nil {
		t.Fatalf("overwrite record: %v", err)
	}
	value, found, err := st.GetRecord(ctx, "k")
	if err != nil || !found {
		t.Fatalf("get record: found=%v err=%v", found, err)
	}
	if string(value) != `{"maxDigits":9}` {
		t.Fatalf("expected last write to win, got %s", value)
	}
	if err := st.DeleteRecord(ctx, "k"); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	if _, found, _ := st.GetRecord(ctx, "k"); found {
		t.Fatalf("expected record to be deleted")
	}
	if err := st.DeleteRecord(ctx, "k"); err != nil {
		t.Fatalf("expected deleting a missing key to succeed: %v", err)
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"s1", "s2", "s3"} {
		start := base.Add(time.Duration(i) * time.Hour)
		summary := model.SessionSummary{
			StartedAt:     start,
			EndedAt:       start.Add(40 * time.Second),
			DigitsReached: 10 + i,
			SourceLen:     100,
			Mistakes: []model.MistakeEvent{
				{Position: 5, Input: '3', Expected: '9'},
				{Position: 10 + i, Input: '0', Expected: '1'},
			},
		}
		if err := st.InsertSession(ctx, id, summary); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	if err := st.InsertSession(ctx, "", model.SessionSummary{}); err == nil {
		t.Fatalf("expected error for empty session id")
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "s1" || sessions[2].DigitsReached != 12 || sessions[1].Mistakes != 2 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	if sessions[0].DurationMs != 40000 {
		t.Fatalf("expected 40s duration, got %d", sessions[0].DurationMs)
	}

	since := base.Add(90 * time.Minute)
	filtered, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].SessionID != "s3" {
		t.Fatalf("unexpected filtered sessions %+v", filtered)
	}

	aggs, err := st.MistakesByPosition(ctx, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("mistakes by position: %v", err)
	}
	if len(aggs) != 3 || aggs[0].Position != 5 || aggs[0].Mistakes != 2 {
		t.Fatalf("unexpected position aggregates %+v", aggs)
	}
	if none, err := st.MistakesByPosition(ctx, nil); err != nil || none != nil {
		t.Fatalf("expected empty result for no sessions")
	}
}
