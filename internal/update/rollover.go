package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/scheduler"
)

const carryoverCheckID = "carryover-check"

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

// scheduleStartup queues an immediate carryover check and, unless
// disabled, the first midnight rollover.
func (m Model) scheduleStartup() error {
	now := m.opts.Now()
	if err := m.Scheduler.Schedule(scheduler.Event{
		ID:        carryoverCheckID,
		Kind:      scheduler.KindCarryoverCheck,
		Date:      m.Today,
		TriggerAt: now,
	}); err != nil {
		return err
	}
	if !m.opts.DayRollover {
		return nil
	}
	return m.Scheduler.ScheduleRollover(now)
}

func (m *Model) handleSchedulerEvent(ev scheduler.Event) {
	switch ev.Kind {
	case scheduler.KindDayRollover:
		m.rollover(ev)
	case scheduler.KindCarryoverCheck:
		m.checkCarryover()
	}
}

// rollover moves the UI to the new day: habit todos are generated, the
// lists reload, carryover candidates are offered and the next rollover is
// queued from this one's trigger time.
func (m *Model) rollover(ev scheduler.Event) {
	if ev.Date.IsValid() {
		m.Today = ev.Date
	}
	if m.backend != nil {
		n, err := m.backend.GenerateHabitTodos(context.Background(), m.Today)
		if err != nil {
			m.fail(err)
		} else {
			m.reload()
			m.ok(fmt.Sprintf("new day %s: %d habit todo(s) generated", m.Today, n))
		}
	}
	m.checkCarryover()
	if m.Scheduler != nil && m.opts.DayRollover {
		if err := m.Scheduler.ScheduleRollover(ev.TriggerAt); err != nil {
			m.fail(err)
		}
	}
}

// checkCarryover opens the carryover screen when there is something to
// carry; otherwise the current screen is left alone.
func (m *Model) checkCarryover() {
	if m.backend == nil {
		return
	}
	candidates, err := m.backend.FindCarryover(context.Background(), m.Today)
	if err != nil {
		m.fail(err)
		return
	}
	if len(candidates) == 0 {
		return
	}
	m.openCarryover()
}
