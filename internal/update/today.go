package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Todos.Cursor > 0 {
			m.Todos.Cursor--
		}
	case "down", "j":
		if m.Todos.Cursor < len(m.Todos.Items)-1 {
			m.Todos.Cursor++
		}
	case " ", "space":
		item, ok := m.currentTodo()
		if !ok {
			return m
		}
		todo, err := m.backend.ToggleTodo(context.Background(), item.ID)
		if err != nil {
			m.fail(err)
			return m
		}
		m.reload()
		m.ok(fmt.Sprintf("todo #%d is %s", todo.ID, todo.Level))
	case "x":
		item, ok := m.currentTodo()
		if !ok {
			return m
		}
		if err := m.backend.DeleteTodo(context.Background(), item.ID); err != nil {
			m.fail(err)
			return m
		}
		m.reload()
		m.ok(fmt.Sprintf("deleted todo #%d", item.ID))
	case "g":
		n, err := m.backend.GenerateHabitTodos(context.Background(), m.Today)
		if err != nil {
			m.fail(err)
			return m
		}
		m.reloadTodos()
		m.ok(fmt.Sprintf("generated %d habit todo(s)", n))
	}
	return m
}

func (m Model) currentTodo() (TodoItem, bool) {
	if len(m.Todos.Items) == 0 {
		return TodoItem{}, false
	}
	if m.Todos.Cursor < 0 || m.Todos.Cursor >= len(m.Todos.Items) {
		return TodoItem{}, false
	}
	return m.Todos.Items[m.Todos.Cursor], true
}

func (m Model) renderTodayView() string {
	items := make([]views.TodoItemData, 0, len(m.Todos.Items))
	for _, t := range m.Todos.Items {
		items = append(items, views.TodoItemData{
			ID:        t.ID,
			Title:     t.Title,
			Kind:      string(t.Kind),
			Level:     string(t.Level),
			FromHabit: t.FromHabit,
		})
	}
	data := views.TodayPanelData{Date: m.Today.String(), Items: items, SegmentName: "(no segment)"}
	if seg, ok := m.currentSegment(); ok {
		data.SegmentName = seg.Name
	}
	if t, ok := m.currentTodo(); ok {
		data.SelectedID = t.ID
	}
	return views.RenderTodayPanel(data)
}
