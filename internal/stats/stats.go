// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/record"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes digits per minute and accuracy for a session.
func SessionMetrics(digits, mistakes int, durationMs int64) (dpm, accuracy float64) {
	den := float64(digits + mistakes)
	if den > 0 {
		accuracy = float64(digits) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	dpm = float64(digits) / minutes
	return dpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the personal best and session aggregates.
func RenderSummary(w io.Writer, pb record.PersonalBest, sessions []model.SessionAggregate, now time.Time) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Best: %s digits", humanize.Comma(int64(pb.MaxDigits))),
	}
	if best := record.BestDate(pb); !best.IsZero() {
		lines = append(lines, fmt.Sprintf("Best set: %s", humanize.RelTime(best, now, "ago", "from now")))
	}
	lines = append(lines,
		fmt.Sprintf("Sessions: %s", humanize.Comma(int64(pb.TotalSessions))),
		fmt.Sprintf("Digits typed: %s", humanize.Comma(int64(pb.TotalDigitsTyped))),
	)
	if len(sessions) > 0 {
		var totalDigits, totalDPM, totalAcc float64
		for _, s := range sessions {
			dpm, acc := SessionMetrics(s.DigitsReached, s.Mistakes, s.DurationMs)
			totalDigits += float64(s.DigitsReached)
			totalDPM += dpm
			totalAcc += acc
		}
		count := float64(len(sessions))
		lines = append(lines,
			fmt.Sprintf("Avg digits: %.1f", totalDigits/count),
			fmt.Sprintf("Avg pace: %.1f digits/min", totalDPM/count),
			fmt.Sprintf("Avg accuracy: %.1f%%", (totalAcc/count)*100),
		)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CurveSeries returns smoothed digits-reached and accuracy series.
func CurveSeries(sessions []model.SessionAggregate, window int) (reached, accuracy []float64) {
	reached = make([]float64, len(sessions))
	accuracy = make([]float64, len(sessions))
	for i, s := range sessions {
		_, acc := SessionMetrics(s.DigitsReached, s.Mistakes, s.DurationMs)
		reached[i] = float64(s.DigitsReached)
		accuracy[i] = acc * 100
	}
	return MovingAverage(reached, window), MovingAverage(accuracy, window)
}

// RenderCurves prints sparkline learning curves limited to width columns.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	reached, accuracy := CurveSeries(sessions, window)
	const labelWidth = 10
	span := width - labelWidth
	if width <= 0 || span > len(reached) {
		span = len(reached)
	}
	span = max(span, 1)
	reached = reached[len(reached)-span:]
	accuracy = accuracy[len(accuracy)-span:]

	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", labelWidth, "Digits", Sparkline(reached)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", labelWidth, "Accuracy", Sparkline(accuracy)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
