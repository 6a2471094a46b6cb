// Package export writes the tracker's rows as a single CSV document.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
)

var Header = []string{
	"record", "segment_id", "segment", "id", "title", "date", "kind",
	"achievement_level", "completed_at", "points", "detail", "description",
}

type Store interface {
	ListSegments(ctx context.Context) ([]model.Segment, error)
	ListTodos(ctx context.Context, filter storage.TodoFilter) ([]model.Todo, error)
	ListMilestones(ctx context.Context, filter storage.MilestoneFilter) ([]model.Milestone, error)
	ListEvaluations(ctx context.Context, filter storage.EvaluationFilter) ([]model.Evaluation, error)
	SumActivityPoints(ctx context.Context, filter storage.ActivityFilter) (int, error)
	ListDiscussions(ctx context.Context, segmentID int64) ([]model.DiscussionItem, error)
	ListMemos(ctx context.Context, discussionID int64) ([]model.DiscussionMemo, error)
	GetPurpose(ctx context.Context) (model.OverallPurpose, error)
}

// Summary counts what Write emitted.
type Summary struct {
	Purpose     bool
	Segments    int
	Todos       int
	Milestones  int
	Evaluations int
	Discussions int
	Memos       int
}

// Write emits the overall purpose when one is saved, then one row per
// segment followed by its todos, milestones, stored evaluations and
// discussion items with their memos, in segment order.
func Write(ctx context.Context, store Store, w io.Writer) (Summary, error) {
	var sum Summary
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return sum, fmt.Errorf("write header: %w", err)
	}

	purpose, err := store.GetPurpose(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return sum, fmt.Errorf("get purpose: %w", err)
	default:
		if err := cw.Write([]string{
			"purpose", "", "", "", purpose.Title, model.DateOf(purpose.UpdatedAt).String(), "", "", "", "",
			purpose.Goal, purpose.Description,
		}); err != nil {
			return sum, err
		}
		sum.Purpose = true
	}

	segments, err := store.ListSegments(ctx)
	if err != nil {
		return sum, fmt.Errorf("list segments: %w", err)
	}
	for _, seg := range segments {
		if err := writeSegment(ctx, store, cw, seg, &sum); err != nil {
			return sum, fmt.Errorf("segment %d: %w", seg.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return sum, fmt.Errorf("flush csv: %w", err)
	}
	return sum, nil
}

func writeSegment(ctx context.Context, store Store, cw *csv.Writer, seg model.Segment, sum *Summary) error {
	points, err := store.SumActivityPoints(ctx, storage.ActivityFilter{SegmentID: seg.ID})
	if err != nil {
		return fmt.Errorf("sum activity points: %w", err)
	}
	segID := strconv.FormatInt(seg.ID, 10)
	if err := cw.Write([]string{
		"segment", segID, seg.Name, segID, seg.Name, model.DateOf(seg.CreatedAt).String(), "", "", "",
		strconv.Itoa(points), seg.OverallGoal, "",
	}); err != nil {
		return err
	}
	sum.Segments++

	todos, err := store.ListTodos(ctx, storage.TodoFilter{SegmentID: seg.ID})
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}
	for _, t := range todos {
		detail := ""
		if t.FromHabit {
			detail = "habit"
		}
		if err := cw.Write([]string{
			"todo", segID, seg.Name, strconv.FormatInt(t.ID, 10), t.Title, t.Date.String(), string(t.Kind),
			string(t.Level), stamp(t.CompletedAt), "", detail, "",
		}); err != nil {
			return err
		}
		sum.Todos++
	}

	milestones, err := store.ListMilestones(ctx, storage.MilestoneFilter{SegmentID: seg.ID})
	if err != nil {
		return fmt.Errorf("list milestones: %w", err)
	}
	for _, m := range milestones {
		if err := cw.Write([]string{
			"milestone", segID, seg.Name, strconv.FormatInt(m.ID, 10), m.Title, m.TargetDate.String(), "",
			string(m.Level), stamp(m.CompletedAt), "", string(m.Status), "",
		}); err != nil {
			return err
		}
		sum.Milestones++
	}

	evals, err := store.ListEvaluations(ctx, storage.EvaluationFilter{SegmentID: seg.ID})
	if err != nil {
		return fmt.Errorf("list evaluations: %w", err)
	}
	for _, e := range evals {
		detail := fmt.Sprintf("milestones=%.2f daily=%.2f weekly=%.2f validity=%.2f overdue=%d",
			e.AchievementScore, e.GoalDesignScore, e.ConsistencyScore, e.TaskValidity(), e.OverdueTasks)
		if err := cw.Write([]string{
			"evaluation", segID, seg.Name, strconv.FormatInt(e.ID, 10), "", e.Date.String(), "",
			"", "", strconv.Itoa(e.ActivityVolume()), detail, "",
		}); err != nil {
			return err
		}
		sum.Evaluations++
	}

	items, err := store.ListDiscussions(ctx, seg.ID)
	if err != nil {
		return fmt.Errorf("list discussions: %w", err)
	}
	for _, item := range items {
		state := "open"
		if item.Resolved {
			state = "resolved"
		}
		itemID := strconv.FormatInt(item.ID, 10)
		if err := cw.Write([]string{
			"discussion", segID, seg.Name, itemID, item.Body, model.DateOf(item.CreatedAt).String(), "",
			"", stamp(item.ResolvedAt), "", state, "",
		}); err != nil {
			return err
		}
		sum.Discussions++

		memos, err := store.ListMemos(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list memos of discussion %d: %w", item.ID, err)
		}
		for _, memo := range memos {
			if err := cw.Write([]string{
				"memo", segID, seg.Name, strconv.FormatInt(memo.ID, 10), memo.Memo, model.DateOf(memo.CreatedAt).String(), "",
				"", "", "", "discussion=" + itemID, "",
			}); err != nil {
				return err
			}
			sum.Memos++
		}
	}
	return nil
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
