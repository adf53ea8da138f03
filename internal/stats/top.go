package stats

import (
	"sort"

	"github.com/verte-zerg/piflow/internal/record"
)

// Confusion is a (expected, typed) digit pair and how often it occurred.
type Confusion struct {
	Expected byte
	Input    byte
	Count    int
}

// TopConfusions returns the n most frequent digit confusions.
func TopConfusions(pb record.PersonalBest, n int) []Confusion {
	if n <= 0 {
		return nil
	}
	var items []Confusion
	for exp, row := range pb.DigitConfusion {
		for in, count := range row {
			if count <= 0 || len(exp) != 1 || len(in) != 1 {
				continue
			}
			items = append(items, Confusion{Expected: exp[0], Input: in[0], Count: count})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if items[i].Expected != items[j].Expected {
			return items[i].Expected < items[j].Expected
		}
		return items[i].Input < items[j].Input
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
