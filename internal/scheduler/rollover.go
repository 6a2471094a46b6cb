package scheduler

import (
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

const RolloverID = "day-rollover"

// NextMidnight is the first local midnight strictly after now.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// RolloverEvent is the day rollover for the day after now.
func RolloverEvent(now time.Time) Event {
	at := NextMidnight(now)
	return Event{ID: RolloverID, Kind: KindDayRollover, Date: model.DateOf(at), TriggerAt: at}
}

// ScheduleRollover queues the next day rollover, replacing a pending one.
func (e *Engine) ScheduleRollover(now time.Time) error {
	return e.Schedule(RolloverEvent(now))
}
