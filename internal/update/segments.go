package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

func (m Model) handleSegmentsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Segments.Cursor > 0 {
			m.Segments.Cursor--
			m.reloadTodos()
		}
	case "down", "j":
		if m.Segments.Cursor < len(m.Segments.Items)-1 {
			m.Segments.Cursor++
			m.reloadTodos()
		}
	case "enter":
		if _, ok := m.currentSegment(); ok {
			m.CurrentView = ViewToday
			m.reloadTodos()
		}
	case "e":
		m.openEvaluation()
	}
	return m
}

func (m Model) currentSegment() (SegmentItem, bool) {
	if len(m.Segments.Items) == 0 {
		return SegmentItem{}, false
	}
	if m.Segments.Cursor < 0 || m.Segments.Cursor >= len(m.Segments.Items) {
		return SegmentItem{}, false
	}
	return m.Segments.Items[m.Segments.Cursor], true
}

// selectSegment moves the cursor to id when it is listed.
func (m *Model) selectSegment(id int64) {
	for i, seg := range m.Segments.Items {
		if seg.ID == id {
			m.Segments.Cursor = i
			m.reloadTodos()
			return
		}
	}
}

func (m Model) renderSegmentsView() string {
	items := make([]views.SegmentItemData, 0, len(m.Segments.Items))
	for _, seg := range m.Segments.Items {
		items = append(items, segmentData(seg))
	}
	var selected int64
	if seg, ok := m.currentSegment(); ok {
		selected = seg.ID
	}
	return views.RenderSegmentsPanel(views.SegmentsPanelData{Items: items, SelectedID: selected})
}

func (m Model) renderSegmentDetail() string {
	seg, ok := m.currentSegment()
	return views.RenderSegmentDetail(segmentData(seg), ok)
}

func segmentData(seg SegmentItem) views.SegmentItemData {
	return views.SegmentItemData{
		ID:          seg.ID,
		Name:        seg.Name,
		Color:       seg.Color,
		OverallGoal: seg.OverallGoal,
		Points:      seg.Points,
	}
}
