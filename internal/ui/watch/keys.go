package watch

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the stopwatch key bindings.
type KeyMap struct {
	Toggle key.Binding
	Start  key.Binding
	Stop   key.Binding
	Clear  key.Binding
	Mute   key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "go/stop"),
		),
		Start: key.NewBinding(
			key.WithKeys("g", "enter"),
			key.WithHelp("g", "go"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "backspace", "delete"),
			key.WithHelp("c", "clear"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy reading"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Start, k.Stop},
		{k.Clear, k.Mute, k.Copy},
		{k.Help, k.Quit},
	}
}

// Markdown renders the bindings as a Markdown table.
func (k KeyMap) Markdown() string {
	md := "# tickwatch keys\n\n| Key | Action |\n|---|---|\n"
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			md += "| `" + h.Key + "` | " + h.Desc + " |\n"
		}
	}
	md += "\nThe **Go**, **Clear** and **Stop** buttons and the **X** close button also respond to mouse clicks.\n"
	return md
}
