package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/piflow/internal/record"
)

// WeakPosition is a digit position ranked by how often it is missed.
type WeakPosition struct {
	Position  int
	Count     int
	Attempts  int
	ErrorRate float64
	LastError time.Time
}

// WeakPositions selects the positions with the highest error rate.
// Positions that were never missed are skipped.
func WeakPositions(pb record.PersonalBest, top int) []WeakPosition {
	out := make([]WeakPosition, 0, len(pb.PositionErrors))
	for pos, entry := range pb.PositionErrors {
		if entry.Count == 0 {
			continue
		}
		wp := WeakPosition{
			Position:  pos,
			Count:     entry.Count,
			Attempts:  entry.Attempts,
			ErrorRate: entry.ErrorRate,
		}
		if entry.LastError > 0 {
			wp.LastError = time.UnixMilli(entry.LastError)
		}
		out = append(out, wp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ErrorRate != out[j].ErrorRate {
			return out[i].ErrorRate > out[j].ErrorRate
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Position < out[j].Position
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
