package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler == nil {
		return nil
	}
	if err := m.scheduleStartup(); err != nil {
		return func() tea.Msg { return AppErrorMsg{Err: err} }
	}
	return waitForEventCmd(m.Scheduler.C())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.CurrentView == ViewCarryover && m.Carryover.Confirming {
			return m.handleCarryoverConfirmKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Segments:
			m.CurrentView = ViewSegments
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			m.reloadTodos()
			return m, nil
		case m.Keys.Carryover:
			m.openCarryover()
			return m, nil
		case m.Keys.Evaluation:
			m.openEvaluation()
			return m, nil
		case m.Keys.Refresh:
			m.reload()
			if !m.Status.IsError {
				m.Status = StatusBar{Text: "refreshed"}
			}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewSegments:
			return m.handleSegmentsKey(typed), nil
		case ViewToday:
			return m.handleTodayKey(typed), nil
		case ViewCarryover:
			return m.handleCarryoverKey(typed), nil
		case ViewEvaluation:
			return m.handleEvaluationKey(typed)
		}
	case SwitchViewMsg:
		switch typed.View {
		case ViewSegments:
			m.CurrentView = ViewSegments
		case ViewToday:
			m.CurrentView = ViewToday
			m.reloadTodos()
		case ViewCarryover:
			m.openCarryover()
		case ViewEvaluation:
			m.openEvaluation()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case RefreshMsg:
		m.reload()
		return m, nil
	case SchedulerEventMsg:
		m.handleSchedulerEvent(typed.Event)
		if m.Scheduler != nil {
			return m, waitForEventCmd(m.Scheduler.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewSegments:
		leftPane = m.renderSegmentsView()
		rightPane = m.renderSegmentDetail()
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderSegmentDetail()
	case ViewCarryover:
		leftPane = m.renderCarryoverView()
	case ViewEvaluation:
		leftPane = m.renderEvaluationView()
	}
	rightPane = strings.TrimSpace(strings.Join([]string{rightPane, m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n\n"))

	segment := "-"
	if seg, ok := m.currentSegment(); ok {
		segment = seg.Name
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("goaltrack | view: %s | today: %s | segment: %s", m.CurrentView, m.Today, segment),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s segments | %s today | %s carryover | %s evaluation | / cmd | %s refresh | %s help | %s quit",
			m.Keys.Segments, m.Keys.Today, m.Keys.Carryover, m.Keys.Evaluation, m.Keys.Refresh, m.Keys.Help, m.Keys.Quit),
	})
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
