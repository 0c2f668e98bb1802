package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the clip screen reacts to. The clip
// bindings other than Toggle only do anything while the mode is
// engaged; while it is not, the same keys fall through to the
// playback bindings.
type KeyMap struct {
	Toggle   key.Binding
	Start    key.Binding
	End      key.Binding
	Previous key.Binding
	Next     key.Binding
	Export   key.Binding

	Pause       key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Quit        key.Binding
}

// Binding builds a binding for keys, using the first key in the help
// text. An empty list gives a disabled binding.
func Binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	name := keys[0]
	if name == " " {
		name = "space"
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(name, desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle:   Binding([]string{"c"}, "clip mode"),
		Start:    Binding([]string{"["}, "set start"),
		End:      Binding([]string{"]"}, "set end"),
		Previous: Binding([]string{"left"}, "prev profile"),
		Next:     Binding([]string{"right"}, "next profile"),
		Export:   Binding([]string{"e"}, "export"),

		Pause:       Binding([]string{" "}, "pause"),
		SeekBack:    Binding([]string{"left"}, "-5s"),
		SeekForward: Binding([]string{"right"}, "+5s"),
		ScrollUp:    Binding([]string{"up", "k"}, "scroll log"),
		ScrollDown:  Binding([]string{"down", "j"}, "scroll log"),
		Quit:        Binding([]string{"ctrl+c", "q"}, "quit"),
	}
}

// helpKeys adapts a KeyMap to bubbles/help, showing only what
// currently does something.
type helpKeys struct {
	keys     KeyMap
	active   bool
	seekable bool
}

func (h helpKeys) ShortHelp() []key.Binding {
	if h.active {
		return []key.Binding{h.keys.Start, h.keys.End, h.keys.Previous, h.keys.Next, h.keys.Export, h.keys.Toggle, h.keys.Quit}
	}
	b := []key.Binding{h.keys.Toggle}
	if h.seekable {
		b = append(b, h.keys.Pause, h.keys.SeekBack, h.keys.SeekForward)
	}
	return append(b, h.keys.ScrollUp, h.keys.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
