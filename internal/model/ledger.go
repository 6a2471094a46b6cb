package model

import (
	"strings"
	"time"
)

// ActivityPoint is one unit of credit for one completion event. At most one
// row exists per (Source, SourceID, Date).
type ActivityPoint struct {
	ID          int64
	SegmentID   int64      `validate:"gt=0"`
	Date        Date       `validate:"isodate"`
	Points      int        `validate:"gt=0"`
	Source      SourceKind `validate:"source_kind"`
	SourceID    int64      `validate:"gt=0"`
	Description string
	CreatedAt   time.Time
}

func (p ActivityPoint) Validate() error {
	return validateStruct(p)
}

// CarryoverRecord proves an original todo was carried to CarriedOverDate.
type CarryoverRecord struct {
	ID              int64
	SegmentID       int64  `validate:"gt=0"`
	OriginalTodoID  int64  `validate:"gt=0"`
	OriginalTitle   string `validate:"notblank"`
	OriginalDate    Date   `validate:"isodate"`
	CarriedOverDate Date   `validate:"isodate"`
	CreatedAt       time.Time
}

func (r CarryoverRecord) Validate() error {
	return validateStruct(r)
}

// CarryoverKey identifies a task across days: same segment, same title
// ignoring case and surrounding space.
type CarryoverKey struct {
	SegmentID int64
	Title     string
}

func KeyFor(segmentID int64, title string) CarryoverKey {
	return CarryoverKey{SegmentID: segmentID, Title: NormalizeTitle(title)}
}

func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Evaluation is the stored snapshot for one segment on one date.
// TotalTodos and CompletedTodos hold activity volume and task validity
// scaled by 100.
type Evaluation struct {
	ID                  int64
	SegmentID           int64
	Date                Date
	AchievementScore    float64
	GoalDesignScore     float64
	ConsistencyScore    float64
	TotalTodos          int
	CompletedTodos      int
	TotalMilestones     int
	EvaluatedMilestones int
	OverdueTasks        int
	EvaluatedTasks      int
	OnTimeTasks         int
	CreatedAt           time.Time
}

func (e Evaluation) ActivityVolume() int {
	return e.TotalTodos / 100
}

func (e Evaluation) TaskValidity() float64 {
	return float64(e.CompletedTodos) / 100
}
