package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/balkashynov/todo/internal/config"
)

// keyMap is the list screen bindings, built from the user's config
type keyMap struct {
	Quit          key.Binding
	Up            key.Binding
	Down          key.Binding
	PrevPage      key.Binding
	NextPage      key.Binding
	New           key.Binding
	Edit          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	HideLow       key.Binding
	HideNormal    key.Binding
	HideHigh      key.Binding
	SortPriority  key.Binding
	SortDue       key.Binding
	SortAlpha     key.Binding
	SortDirection key.Binding
	About         key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	bind := func(help string, keys ...string) key.Binding {
		label := keys[0]
		if label == " " {
			label = "space"
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help))
	}
	return keyMap{
		Quit:          bind("quit", k.Quit, "ctrl+c"),
		Up:            bind("up", k.Up, "up"),
		Down:          bind("down", k.Down, "down"),
		PrevPage:      bind("prev page", "left"),
		NextPage:      bind("next page", "right"),
		New:           bind("new", k.New),
		Edit:          bind("edit", k.Edit),
		Toggle:        bind("done", k.Toggle),
		Delete:        bind("delete", k.Delete),
		HideLow:       bind("hide low", k.HideLow),
		HideNormal:    bind("hide normal", k.HideNormal),
		HideHigh:      bind("hide high", k.HideHigh),
		SortPriority:  bind("sort priority", k.SortPriority),
		SortDue:       bind("sort due", k.SortDue),
		SortAlpha:     bind("sort a-z", k.SortAlpha),
		SortDirection: bind("asc/desc", k.SortDirection),
		About:         bind("about", k.About),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Toggle, k.Delete, k.SortPriority, k.SortDue, k.SortAlpha, k.About, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.New, k.Edit, k.Toggle, k.Delete},
		{k.HideLow, k.HideNormal, k.HideHigh},
		{k.SortPriority, k.SortDue, k.SortAlpha, k.SortDirection},
		{k.About, k.Quit},
	}
}
