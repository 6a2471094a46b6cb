package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/carryover"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

// openCarryover loads today's candidates and switches to the carryover
// screen with nothing selected.
func (m *Model) openCarryover() {
	m.CurrentView = ViewCarryover
	m.Carryover = CarryoverState{Selected: make(map[int64]bool)}
	if m.backend == nil {
		return
	}
	candidates, err := m.backend.FindCarryover(context.Background(), m.Today)
	if err != nil {
		m.fail(err)
		return
	}
	m.Carryover.Items = groupBySegment(candidates)
	if len(candidates) == 0 {
		m.ok("nothing to carry over")
		return
	}
	m.ok(fmt.Sprintf("%d todo(s) can be carried over", len(candidates)))
}

// groupBySegment keeps candidates of one segment together, segments in
// order of first appearance and candidates in their original order.
func groupBySegment(in []carryover.Candidate) []carryover.Candidate {
	order := make([]int64, 0)
	groups := make(map[int64][]carryover.Candidate)
	for _, c := range in {
		if _, ok := groups[c.SegmentID]; !ok {
			order = append(order, c.SegmentID)
		}
		groups[c.SegmentID] = append(groups[c.SegmentID], c)
	}
	out := make([]carryover.Candidate, 0, len(in))
	for _, id := range order {
		out = append(out, groups[id]...)
	}
	return out
}

func (m Model) handleCarryoverKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Carryover.Cursor > 0 {
			m.Carryover.Cursor--
		}
	case "down", "j":
		if m.Carryover.Cursor < len(m.Carryover.Items)-1 {
			m.Carryover.Cursor++
		}
	case " ", "space":
		if c, ok := m.currentCandidate(); ok {
			m.Carryover.Selected[c.ID] = !m.Carryover.Selected[c.ID]
		}
	case "a":
		all := m.selectedCount() < len(m.Carryover.Items)
		for _, c := range m.Carryover.Items {
			m.Carryover.Selected[c.ID] = all
		}
	case "enter":
		if m.selectedCount() == 0 {
			m.Status = StatusBar{Text: "select at least one todo to carry over", IsError: true}
			return m
		}
		m.Carryover.Confirming = true
	}
	return m
}

func (m Model) handleCarryoverConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "enter":
		m.Carryover.Confirming = false
		m = m.applyCarryover()
	case "n", "esc":
		m.Carryover.Confirming = false
		m.Status = StatusBar{Text: "carryover cancelled"}
	}
	return m
}

// applyCarryover records the selected candidates. On failure nothing is
// carried and the selection stays as it was.
func (m Model) applyCarryover() Model {
	refs := make([]carryover.CandidateRef, 0, m.selectedCount())
	for _, c := range m.Carryover.Items {
		if m.Carryover.Selected[c.ID] {
			refs = append(refs, c.Ref())
		}
	}
	res, err := m.backend.RecordCarryover(context.Background(), refs, m.Today)
	if err != nil {
		m.fail(err)
		return m
	}
	m.reload()
	m.CurrentView = ViewToday
	m.Carryover = CarryoverState{Selected: make(map[int64]bool)}
	m.ok(res.Summary(m.Today))
	return m
}

func (m Model) currentCandidate() (carryover.Candidate, bool) {
	if m.Carryover.Cursor < 0 || m.Carryover.Cursor >= len(m.Carryover.Items) {
		return carryover.Candidate{}, false
	}
	return m.Carryover.Items[m.Carryover.Cursor], true
}

func (m Model) selectedCount() int {
	n := 0
	for _, c := range m.Carryover.Items {
		if m.Carryover.Selected[c.ID] {
			n++
		}
	}
	return n
}

func (m Model) renderCarryoverView() string {
	items := make([]views.CarryoverItemData, 0, len(m.Carryover.Items))
	for _, c := range m.Carryover.Items {
		items = append(items, views.CarryoverItemData{
			ID:           c.ID,
			Title:        c.Title,
			Date:         c.Date.String(),
			Kind:         string(c.Kind),
			SegmentID:    c.SegmentID,
			SegmentName:  c.SegmentName,
			SegmentColor: c.SegmentColor,
			Selected:     m.Carryover.Selected[c.ID],
		})
	}
	data := views.CarryoverPanelData{Date: m.Today.String(), Items: items, Confirming: m.Carryover.Confirming}
	if c, ok := m.currentCandidate(); ok {
		data.CursorID = c.ID
	}
	return views.RenderCarryoverPanel(data)
}
