// Package record defines the persisted personal-best record.
package record

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/verte-zerg/piflow/internal/model"
)

// PositionError counts attempts and mistakes at one digit position.
type PositionError struct {
	Count     int     `json:"count"`
	Attempts  int     `json:"attempts"`
	LastError int64   `json:"lastError"`
	ErrorRate float64 `json:"errorRate"`
}

// PersonalBest is the all-time record of progress and usage.
type PersonalBest struct {
	MaxDigits        int                       `json:"maxDigits"`
	MaxDigitsDate    int64                     `json:"maxDigitsDate"`
	TotalSessions    int                       `json:"totalSessions"`
	TotalDigitsTyped int                       `json:"totalDigitsTyped"`
	PositionErrors   map[int]PositionError     `json:"positionErrors"`
	DigitConfusion   map[string]map[string]int `json:"digitConfusion"`
}

// Default returns an empty record.
func Default() PersonalBest {
	return PersonalBest{
		PositionErrors: map[int]PositionError{},
		DigitConfusion: map[string]map[string]int{},
	}
}

// Decode parses a stored record. Missing or malformed data yields the
// default record and ok=false.
func Decode(raw []byte) (pb PersonalBest, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Default(), false
	}
	var decoded PersonalBest
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Default(), false
	}
	if decoded.MaxDigits < 0 || decoded.TotalSessions < 0 || decoded.TotalDigitsTyped < 0 {
		return Default(), false
	}
	decoded = normalize(decoded)
	for k := range decoded.DigitConfusion {
		if !isDigitKey(k) {
			delete(decoded.DigitConfusion, k)
		}
	}
	return decoded, true
}

// Encode serializes the record.
func Encode(pb PersonalBest) ([]byte, error) {
	return json.Marshal(normalize(pb))
}

// EncodeIndent serializes the record for display.
func EncodeIndent(pb PersonalBest) ([]byte, error) {
	return json.MarshalIndent(normalize(pb), "", "  ")
}

// Clone returns a deep copy.
func Clone(pb PersonalBest) PersonalBest {
	out := pb
	out.PositionErrors = make(map[int]PositionError, len(pb.PositionErrors))
	for k, v := range pb.PositionErrors {
		out.PositionErrors[k] = v
	}
	out.DigitConfusion = make(map[string]map[string]int, len(pb.DigitConfusion))
	for k, row := range pb.DigitConfusion {
		cp := make(map[string]int, len(row))
		for d, n := range row {
			cp[d] = n
		}
		out.DigitConfusion[k] = cp
	}
	return out
}

// ApplyValidation counts an attempt at result.Position and, on a mistake,
// updates the position error and confusion counters.
func ApplyValidation(pb PersonalBest, result model.ValidationResult, now time.Time) PersonalBest {
	if !result.Accepted {
		return pb
	}
	out := Clone(pb)
	entry := out.PositionErrors[result.Position]
	entry.Attempts++
	if !result.Correct {
		entry.Count++
		entry.LastError = now.UnixMilli()

		expected := string(result.Expected)
		row, ok := out.DigitConfusion[expected]
		if !ok {
			row = map[string]int{}
			out.DigitConfusion[expected] = row
		}
		row[string(result.Input)]++
	}
	entry.ErrorRate = float64(entry.Count) / float64(entry.Attempts)
	out.PositionErrors[result.Position] = entry
	return out
}

// ApplySession folds a concluded session into the record.
func ApplySession(pb PersonalBest, summary model.SessionSummary, now time.Time) PersonalBest {
	out := Clone(pb)
	out.TotalSessions++
	out.TotalDigitsTyped += summary.DigitsReached
	if IsNewBest(pb, summary.DigitsReached) {
		out.MaxDigits = summary.DigitsReached
		out.MaxDigitsDate = now.UnixMilli()
	}
	return out
}

// IsNewBest reports whether position beats the stored best.
func IsNewBest(pb PersonalBest, position int) bool {
	return position > pb.MaxDigits
}

// BestDate returns when the best was set, or the zero time.
func BestDate(pb PersonalBest) time.Time {
	if pb.MaxDigitsDate <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(pb.MaxDigitsDate)
}

// Confusions returns the count for typing input when expected was correct.
func Confusions(pb PersonalBest, expected, input byte) int {
	row, ok := pb.DigitConfusion[string(expected)]
	if !ok {
		return 0
	}
	return row[string(input)]
}

func normalize(pb PersonalBest) PersonalBest {
	if pb.PositionErrors == nil {
		pb.PositionErrors = map[int]PositionError{}
	}
	if pb.DigitConfusion == nil {
		pb.DigitConfusion = map[string]map[string]int{}
	}
	return pb
}

func isDigitKey(k string) bool {
	if len(k) != 1 {
		return false
	}
	_, err := strconv.Atoi(k)
	return err == nil
}
