package views

import (
	"fmt"
	"strings"
)

type SegmentItemData struct {
	ID          int64
	Name        string
	Color       string
	OverallGoal string
	Points      int
}

type SegmentsPanelData struct {
	Items      []SegmentItemData
	SelectedID int64
}

type TodoItemData struct {
	ID        int64
	Title     string
	Kind      string
	Level     string
	FromHabit bool
}

type TodayPanelData struct {
	SegmentName string
	Date        string
	Items       []TodoItemData
	SelectedID  int64
}

type CarryoverItemData struct {
	ID           int64
	Title        string
	Date         string
	Kind         string
	SegmentID    int64
	SegmentName  string
	SegmentColor string
	Selected     bool
}

type CarryoverPanelData struct {
	Date       string
	Items      []CarryoverItemData
	CursorID   int64
	Confirming bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderSegmentsPanel(data SegmentsPanelData) string {
	var b strings.Builder
	b.WriteString("segments:\n")
	b.WriteString("actions: [j/k]move [enter]today [e]evaluate\n")
	if len(data.Items) == 0 {
		b.WriteString("(no segments, try /segment <name>)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s #%d %s (%d pts)\n", cursor, Swatch(item.Color), item.ID, item.Name, item.Points))
	}
	return strings.TrimSpace(b.String())
}

func RenderSegmentDetail(item SegmentItemData, ok bool) string {
	if !ok {
		return "segment:\n(no selection)"
	}
	goal := item.OverallGoal
	if strings.TrimSpace(goal) == "" {
		goal = "(no overall goal)"
	}
	return fmt.Sprintf("segment:\nid: %d\nname: %s\ncolor: %s\npoints: %d\n\ngoal:\n%s",
		item.ID, item.Name, item.Color, item.Points, goal)
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today: %s | %s\n", data.Date, data.SegmentName))
	b.WriteString("actions: [j/k]move [space]toggle [x]delete [g]habits\n")

	var daily, weekly []TodoItemData
	for _, item := range data.Items {
		if item.Kind == "weekly" {
			weekly = append(weekly, item)
		} else {
			daily = append(daily, item)
		}
	}
	renderTodoSection(&b, "Daily", daily, data.SelectedID)
	renderTodoSection(&b, "Weekly", weekly, data.SelectedID)
	return strings.TrimSpace(b.String())
}

func renderTodoSection(b *strings.Builder, title string, items []TodoItemData, selectedID int64) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		cursor := " "
		if selectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s #%d %s", cursor, levelBadge(item.Level), item.ID, item.Title))
		if item.FromHabit {
			b.WriteString(" (habit)")
		}
		b.WriteString("\n")
	}
}

func levelBadge(level string) string {
	switch level {
	case "achieved":
		return "[x]"
	case "partial":
		return "[~]"
	case "not_achieved":
		return "[-]"
	default:
		return "[ ]"
	}
}

// RenderCarryoverPanel lists candidates under a header per segment. Items
// are expected to arrive grouped by segment.
func RenderCarryoverPanel(data CarryoverPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("carryover: %s\n", data.Date))
	b.WriteString("actions: [j/k]move [space]select [a]all [enter]carry\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing to carry over)")
		return b.String()
	}
	var current int64
	for i, item := range data.Items {
		if i == 0 || item.SegmentID != current {
			current = item.SegmentID
			b.WriteString(fmt.Sprintf("\n%s %s:\n", Swatch(item.SegmentColor), item.SegmentName))
		}
		cursor := " "
		if item.ID == data.CursorID {
			cursor = ">"
		}
		mark := "[ ]"
		if item.Selected {
			mark = "[*]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%s, %s)\n", cursor, mark, item.Title, item.Kind, item.Date))
	}
	if data.Confirming {
		selected := 0
		for _, item := range data.Items {
			if item.Selected {
				selected++
			}
		}
		b.WriteString(fmt.Sprintf("\ncarry %d todo(s) to today? [y]es [n]o", selected))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
