package update

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

// executePaletteCommand runs one command line. A plain carry opens the
// carryover screen instead of only listing candidates.
func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.fail(err)
		return m
	}
	if cmd.Type == commands.TypeCarry && !cmd.Carry.All {
		m.openCarryover()
		return m
	}
	if m.backend == nil {
		m.fail(&commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "no backend configured"})
		return m
	}

	res, err := commands.Execute(context.Background(), cmd, m.backend.Handlers(m.Today))
	if err != nil {
		m.fail(err)
		return m
	}
	m.reload()
	if cmd.Type == commands.TypeEval && !m.Status.IsError {
		m.selectSegment(cmd.Eval.SegmentID)
	}
	m.ok(res.Message)
	return m
}
