package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/piflow/internal/record"
)

// DigitSource looks up the reference digit at a position.
type DigitSource interface {
	DigitAt(pos int) (byte, bool)
}

// PositionRows formats weak positions as table cells.
func PositionRows(weak []WeakPosition, src DigitSource, now time.Time) (headers []string, rows [][]string) {
	headers = []string{"Pos", "Digit", "Mistakes", "Attempts", "Error Rate", "Last Miss"}
	rows = make([][]string, 0, len(weak))
	for _, wp := range weak {
		digit := "?"
		if src != nil {
			if d, ok := src.DigitAt(wp.Position); ok {
				digit = string(d)
			}
		}
		last := "-"
		if !wp.LastError.IsZero() {
			last = humanize.RelTime(wp.LastError, now, "ago", "from now")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", wp.Position+1),
			digit,
			fmt.Sprintf("%d", wp.Count),
			fmt.Sprintf("%d", wp.Attempts),
			fmt.Sprintf("%.1f%%", wp.ErrorRate*100),
			last,
		})
	}
	return headers, rows
}

// RenderPositionTable prints the weakest positions. Positions are shown 1-based.
func RenderPositionTable(w io.Writer, weak []WeakPosition, src DigitSource, now time.Time) error {
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weak Positions"); err != nil {
		return err
	}
	headers, rows := PositionRows(weak, src, now)
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ConfusionLines renders the 10x10 matrix of expected (rows) against typed
// (columns) digits.
func ConfusionLines(pb record.PersonalBest) []string {
	headers := make([]string, 0, 11)
	headers = append(headers, "exp\\typed")
	for d := byte('0'); d <= '9'; d++ {
		headers = append(headers, string(d))
	}
	rows := make([][]string, 0, 10)
	for exp := byte('0'); exp <= '9'; exp++ {
		row := []string{string(exp)}
		for in := byte('0'); in <= '9'; in++ {
			cell := "."
			if exp == in {
				cell = "-"
			} else if n := record.Confusions(pb, exp, in); n > 0 {
				cell = fmt.Sprintf("%d", n)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	rightAlign := map[int]bool{}
	for i := 1; i <= 10; i++ {
		rightAlign[i] = true
	}
	return formatTable(headers, rows, rightAlign)
}

// RenderConfusion prints the digit confusion matrix and the top pairs.
func RenderConfusion(w io.Writer, pb record.PersonalBest, top int) error {
	if _, err := fmt.Fprintln(w, "Digit Confusion"); err != nil {
		return err
	}
	for _, line := range ConfusionLines(pb) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, c := range TopConfusions(pb, top) {
		if _, err := fmt.Fprintf(w, "%c typed as %c: %d\n", c.Expected, c.Input, c.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints the full plain-text report.
func RenderReport(w io.Writer, report Report, src DigitSource, cfg ReportOptions) error {
	if err := RenderSummary(w, report.Record, report.Sessions, cfg.Now); err != nil {
		return err
	}
	if err := RenderCurves(w, report.Sessions, cfg.CurveWindow, cfg.Width); err != nil {
		return err
	}
	if err := RenderPositionTable(w, WeakPositions(report.Record, cfg.WeakTop), src, cfg.Now); err != nil {
		return err
	}
	return RenderConfusion(w, report.Record, cfg.WeakTop)
}

// ReportOptions controls plain-text report layout.
type ReportOptions struct {
	CurveWindow int
	WeakTop     int
	Width       int
	Now         time.Time
}
