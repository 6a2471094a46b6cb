package storage

import "github.com/sandeepkv93/goaltrack/internal/model"

// TodoFilter narrows ListTodos. Zero fields do not filter.
type TodoFilter struct {
	SegmentID int64
	From      model.Date
	To        model.Date
	Kinds     []model.TodoKind
	Completed *bool
	FromHabit *bool
	HabitID   int64
	Limit     int
	Offset    int
}

type MilestoneFilter struct {
	SegmentID int64
	DueFrom   model.Date
	DueTo     model.Date
	Limit     int
	Offset    int
}

type HabitFilter struct {
	SegmentID  int64
	ActiveOnly bool
}

// ActivityFilter selects ledger rows. Segment 0 means every segment.
type ActivityFilter struct {
	SegmentID int64
	From      model.Date
	To        model.Date
	Source    model.SourceKind
	SourceID  int64
}

type EvaluationFilter struct {
	SegmentID int64
	From      model.Date
	To        model.Date
	Limit     int
}

// CandidateRow is an incomplete todo joined with its segment for display.
type CandidateRow struct {
	TodoID       int64
	Title        string
	Date         model.Date
	Kind         model.TodoKind
	SegmentID    int64
	SegmentName  string
	SegmentColor string
}
