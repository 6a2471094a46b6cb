package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

// openEvaluation computes today's evaluation of the selected segment and
// shows it as a rendered report.
func (m *Model) openEvaluation() {
	m.CurrentView = ViewEvaluation
	seg, ok := m.currentSegment()
	if !ok {
		m.Evaluation = EvaluationState{}
		m.reportViewport.SetContent("")
		m.Status = StatusBar{Text: "no segment selected", IsError: true}
		return
	}
	md, err := m.backend.Report(context.Background(), seg.ID, m.Today)
	if err != nil {
		m.fail(err)
		return
	}
	m.Evaluation = EvaluationState{SegmentID: seg.ID, Markdown: md}
	m.reportViewport.SetContent(views.RenderMarkdown(md, m.opts.MarkdownStyle))
	m.reportViewport.GotoTop()
	m.ok("evaluation computed for " + seg.Name)
}

func (m Model) handleEvaluationKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "e" {
		m.openEvaluation()
		return m, nil
	}
	var cmd tea.Cmd
	m.reportViewport, cmd = m.reportViewport.Update(msg)
	return m, cmd
}

func (m Model) renderEvaluationView() string {
	if m.Evaluation.Markdown == "" {
		return "evaluation:\n(select a segment and press [e])"
	}
	return "evaluation: [e]recompute [j/k]scroll\n" + m.reportViewport.View()
}
