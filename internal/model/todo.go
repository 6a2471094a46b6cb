package model

import (
	"strings"
	"time"
)

// Todo is a task instance for one segment on one calendar date.
type Todo struct {
	ID           int64
	SegmentID    int64            `validate:"gt=0"`
	Title        string           `validate:"notblank,max=500"`
	Date         Date             `validate:"isodate"`
	Kind         TodoKind         `validate:"todo_kind"`
	Completed    bool
	Level        AchievementLevel `validate:"achievement"`
	HabitID      *int64
	FromHabit    bool
	DisplayOrder int
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

func (t *Todo) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	if t.Kind == "" {
		t.Kind = TodoKindDaily
	}
	if t.Level == "" {
		t.Level = AchievementPending
	}
}

func (t Todo) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.FromHabit && t.HabitID == nil {
		return Invalid("habit_id", "is required for habit generated todos")
	}
	return checkCompletion(t.Level, t.Completed)
}

// Source returns the ledger identity credited when t is achieved.
func (t Todo) Source() (SourceKind, int64) {
	if t.FromHabit && t.HabitID != nil {
		return SourceHabit, *t.HabitID
	}
	return SourceForTodo(t.Kind), t.ID
}

// Milestone is a target-dated goal within a segment.
type Milestone struct {
	ID          int64
	SegmentID   int64            `validate:"gt=0"`
	Title       string           `validate:"notblank,max=500"`
	TargetDate  Date             `validate:"isodate"`
	Status      MilestoneStatus  `validate:"milestone_status"`
	Level       AchievementLevel `validate:"achievement"`
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func (m *Milestone) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	if m.Level == "" {
		m.Level = AchievementPending
	}
	if m.Status == "" {
		m.Status = StatusForLevel(m.Level)
	}
}

func (m Milestone) Validate() error {
	if err := validateStruct(m); err != nil {
		return err
	}
	return checkCompletion(m.Level, m.Status == MilestoneCompleted)
}

// checkCompletion keeps the completion flag and the level consistent for
// the two writable levels. Legacy levels are accepted either way.
func checkCompletion(level AchievementLevel, completed bool) error {
	switch {
	case level == AchievementAchieved && !completed:
		return Invalid("completed", "must be set when the level is achieved")
	case level == AchievementPending && completed:
		return Invalid("completed", "must be clear when the level is pending")
	}
	return nil
}
