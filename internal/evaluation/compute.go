// Package evaluation turns a segment's milestones, todos and activity points
// into a dated score snapshot.
package evaluation

import (
	"math"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

// Inputs are the rows one evaluation aggregates. Milestones are every
// milestone due on or before AsOf; todos are limited to the window.
type Inputs struct {
	SegmentID      int64
	AsOf           model.Date
	Milestones     []model.Milestone
	DailyTodos     []model.Todo
	WeeklyTodos    []model.Todo
	ActivityVolume int
}

// Rate counts one collection: Achieved out of Evaluated.
type Rate struct {
	Total     int
	Evaluated int
	Achieved  int
}

// Value is Achieved/Evaluated, or 0 when nothing has been evaluated.
func (r Rate) Value() float64 {
	if r.Evaluated == 0 {
		return 0
	}
	return float64(r.Achieved) / float64(r.Evaluated)
}

// Snapshot is one segment's evaluation as of Date.
type Snapshot struct {
	SegmentID      int64
	Date           model.Date
	Milestones     Rate
	Daily          Rate
	Weekly         Rate
	ActivityVolume int
	EvaluatedTasks int
	OnTimeTasks    int
	OverdueTasks   int
}

// MilestoneRate is the achieved share of evaluated milestones.
func (s Snapshot) MilestoneRate() float64 { return s.Milestones.Value() }

// DailyRate is the achieved share of evaluated daily todos.
func (s Snapshot) DailyRate() float64 { return s.Daily.Value() }

// WeeklyRate is the achieved share of evaluated weekly todos.
func (s Snapshot) WeeklyRate() float64 { return s.Weekly.Value() }

// TaskValidity is the share of evaluated items achieved on time.
func (s Snapshot) TaskValidity() float64 {
	if s.EvaluatedTasks == 0 {
		return 0
	}
	return float64(s.OnTimeTasks) / float64(s.EvaluatedTasks)
}

// Record encodes s as a stored evaluation row. Activity volume and task
// validity are scaled by 100 and rounded.
func (s Snapshot) Record(createdAt time.Time) model.Evaluation {
	return model.Evaluation{
		SegmentID:           s.SegmentID,
		Date:                s.Date,
		AchievementScore:    s.MilestoneRate(),
		GoalDesignScore:     s.DailyRate(),
		ConsistencyScore:    s.WeeklyRate(),
		TotalTodos:          int(math.Round(float64(s.ActivityVolume) * 100)),
		CompletedTodos:      int(math.Round(s.TaskValidity() * 100)),
		TotalMilestones:     s.Milestones.Total,
		EvaluatedMilestones: s.Milestones.Evaluated,
		OverdueTasks:        s.OverdueTasks,
		EvaluatedTasks:      s.EvaluatedTasks,
		OnTimeTasks:         s.OnTimeTasks,
		CreatedAt:           createdAt,
	}
}

// item is the part of a milestone or todo task validity looks at.
type item struct {
	deadline    model.Date
	level       model.AchievementLevel
	completedAt *time.Time
}

// Compute aggregates in. It reads no clock: items without a completion
// stamp are treated as completed on AsOf.
func Compute(in Inputs) Snapshot {
	out := Snapshot{
		SegmentID:      in.SegmentID,
		Date:           in.AsOf,
		ActivityVolume: in.ActivityVolume,
	}

	items := make([]item, 0, len(in.Milestones)+len(in.DailyTodos)+len(in.WeeklyTodos))
	for _, m := range in.Milestones {
		out.Milestones.add(m.Level)
		items = append(items, item{deadline: m.TargetDate, level: m.Level, completedAt: m.CompletedAt})
	}
	for _, t := range in.DailyTodos {
		out.Daily.add(t.Level)
		items = append(items, item{deadline: t.Date, level: t.Level, completedAt: t.CompletedAt})
	}
	for _, t := range in.WeeklyTodos {
		out.Weekly.add(t.Level)
		items = append(items, item{deadline: t.Date, level: t.Level, completedAt: t.CompletedAt})
	}

	for _, it := range items {
		if !it.level.Evaluated() {
			continue
		}
		out.EvaluatedTasks++
		if it.level.Credited() && !in.AsOf.After(it.deadline) {
			out.OnTimeTasks++
		}
		finished := in.AsOf
		if it.completedAt != nil {
			finished = model.DateOf(*it.completedAt)
		}
		if finished.After(it.deadline) && it.level != model.AchievementNotAchieved {
			out.OverdueTasks++
		}
	}
	return out
}

func (r *Rate) add(level model.AchievementLevel) {
	r.Total++
	if !level.Evaluated() {
		return
	}
	r.Evaluated++
	if level.Credited() {
		r.Achieved++
	}
}
