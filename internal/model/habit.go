package model

import (
	"strings"
	"time"
)

// HabitTodo is a recurring habit definition. Active habits produce one
// todo per day when habit todos are generated for a segment.
type HabitTodo struct {
	ID        int64
	SegmentID int64  `validate:"gt=0"`
	Title     string `validate:"notblank,max=500"`
	Active    bool
	CreatedAt time.Time
}

func (h *HabitTodo) Normalize() {
	h.Title = strings.TrimSpace(h.Title)
}

func (h HabitTodo) Validate() error {
	return validateStruct(h)
}

// Instance builds the todo generated for h on date.
func (h HabitTodo) Instance(date Date, createdAt time.Time) Todo {
	id := h.ID
	return Todo{
		SegmentID: h.SegmentID,
		Title:     h.Title,
		Date:      date,
		Kind:      TodoKindDaily,
		Level:     AchievementPending,
		HabitID:   &id,
		FromHabit: true,
		CreatedAt: createdAt,
	}
}

type HabitCompletion struct {
	ID          int64
	HabitID     int64
	Date        Date
	CompletedAt time.Time
}
