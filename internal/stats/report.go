package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/record"
	"github.com/verte-zerg/piflow/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Record           record.PersonalBest
	Sessions         []model.SessionAggregate
	WindowSessionIDs []string
	WindowMistakes   []model.PositionAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, key string, cfg model.StatsConfig) (Report, error) {
	raw, _, err := st.GetRecord(ctx, key)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read record: %w", err)
	}
	pb, _ := record.Decode(raw)

	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	windowMistakes, err := st.MistakesByPosition(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate mistakes: %w", err)
	}

	return Report{
		Record:           pb,
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		WindowMistakes:   windowMistakes,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []string {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
