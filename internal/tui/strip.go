package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/piflow/internal/mnemonic"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStrip lays out the visible digits. typed holds accepted digits
// starting at absolute position offset, and hint holds revealed upcoming
// digits. A space separates each block of ten.
func buildStrip(offset int, typed, hint string) []styledRune {
	out := make([]styledRune, 0, len(typed)+len(hint)+8)
	if offset == 0 {
		out = append(out, plainRune(prefixStyle, '3'), plainRune(prefixStyle, '.'))
	} else {
		out = append(out, plainRune(prefixStyle, '…'))
	}

	pos := offset
	emit := func(r rune, style lipgloss.Style) {
		if pos > 0 && pos%mnemonic.BlockSize == 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		out = append(out, plainRune(style, r))
		pos++
	}
	for _, r := range typed {
		emit(r, correctStyle)
	}
	cursorDone := false
	for _, r := range hint {
		if !cursorDone {
			emit(r, cursorStyle)
			cursorDone = true
			continue
		}
		emit(r, pendingStyle)
	}
	if !cursorDone {
		emit('_', cursorStyle)
	}
	return out
}

func plainRune(style lipgloss.Style, r rune) styledRune {
	return styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at block separators.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
