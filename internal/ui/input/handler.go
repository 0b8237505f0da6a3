// Package input maps terminal key events to browser commands.
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Command is something the user asked the browser to do.
type Command uint8

const (
	None Command = iota
	Quit
	Suspend
	Up
	Down
	PageUp
	PageDown
	Top
	Bottom
	Enter
	Parent
	SeekDown
	SeekUp
	ToggleHidden
	Edit
)

var commandNames = [...]string{
	None:         "none",
	Quit:         "quit",
	Suspend:      "suspend",
	Up:           "up",
	Down:         "down",
	PageUp:       "page-up",
	PageDown:     "page-down",
	Top:          "top",
	Bottom:       "bottom",
	Enter:        "enter",
	Parent:       "parent",
	SeekDown:     "seek-down",
	SeekUp:       "seek-up",
	ToggleHidden: "toggle-hidden",
	Edit:         "edit",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

var keys = map[tcell.Key]Command{
	tcell.KeyCtrlC:      Quit,
	tcell.KeyCtrlZ:      Suspend,
	tcell.KeyUp:         Up,
	tcell.KeyDown:       Down,
	tcell.KeyPgUp:       PageUp,
	tcell.KeyPgDn:       PageDown,
	tcell.KeyHome:       Top,
	tcell.KeyEnd:        Bottom,
	tcell.KeyRight:      Enter,
	tcell.KeyEnter:      Enter,
	tcell.KeyLeft:       Parent,
	tcell.KeyBackspace:  Parent,
	tcell.KeyBackspace2: Parent,
}

var runes = map[rune]Command{
	'q': Quit,
	'j': Down,
	'k': Up,
	'l': Enter,
	'h': Parent,
	'g': Top,
	'G': Bottom,
	'J': SeekDown,
	'K': SeekUp,
	'.': ToggleHidden,
	'e': Edit,
}

// Translate returns the command bound to ev, or None. Runes typed with
// Ctrl or Alt held are not bound.
func Translate(ev *tcell.EventKey) Command {
	if ev.Key() != tcell.KeyRune {
		return keys[ev.Key()]
	}
	if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
		return None
	}
	return runes[ev.Rune()]
}
