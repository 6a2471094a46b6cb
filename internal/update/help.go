package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/goaltrack/internal/commands"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	names := ""
	for i, n := range commands.Names() {
		if i > 0 {
			names += " "
		}
		names += string(n)
	}
	plain = append(plain, "commands: "+names)
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Segments, Action: "switch to Segments"},
		{Key: m.Keys.Today, Action: "switch to Today"},
		{Key: m.Keys.Carryover, Action: "switch to Carryover"},
		{Key: m.Keys.Evaluation, Action: "switch to Evaluation"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Refresh, Action: "reload from the database"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewSegments:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "open today's todos"},
			{Key: "e", Action: "evaluate selected segment"},
		}
	case ViewToday:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle achieved"},
			{Key: "x", Action: "delete todo"},
			{Key: "g", Action: "generate habit todos"},
		}
	case ViewCarryover:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "toggle select"},
			{Key: "a", Action: "select all / clear selection"},
			{Key: "enter", Action: "carry selected to today"},
		}
	case ViewEvaluation:
		return []KeyBinding{
			{Key: "e", Action: "recompute"},
			{Key: "j/k", Action: "scroll report"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
