package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/piflow/internal/game"
)

type keyMap struct {
	Start  key.Binding
	Again  key.Binding
	Digits key.Binding
	Rewind key.Binding
	Finish key.Binding
	Menu   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Again:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "again")),
		Digits: key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "type")),
		Rewind: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "rewind")),
		Finish: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "finish")),
		Menu:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindingsFor lists the help entries relevant to a state.
func (k keyMap) bindingsFor(st game.State) []key.Binding {
	switch st {
	case game.Idle:
		return []key.Binding{k.Start, k.Quit}
	case game.Playing, game.Practice:
		return []key.Binding{k.Digits, k.Rewind, k.Finish}
	case game.Finished:
		return []key.Binding{k.Again, k.Menu, k.Quit}
	default:
		return nil
	}
}
