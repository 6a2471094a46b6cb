package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/goaltrack/internal/carryover"
	"github.com/sandeepkv93/goaltrack/internal/commands"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

// Handlers binds the command language to the services. Todos are created
// on today and carryover works relative to today.
func (a *App) Handlers(today model.Date) commands.Handlers {
	return commands.Handlers{
		Segment: func(ctx context.Context, args commands.SegmentArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			seg, err := a.Tracker.CreateSegment(ctx, model.Segment{Name: args.Name})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("created segment #%d %s", seg.ID, seg.Name)}, nil
		},
		Todo: func(ctx context.Context, args commands.TodoArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			todo, err := a.Tracker.CreateTodo(ctx, model.Todo{
				SegmentID: args.SegmentID,
				Title:     args.Title,
				Date:      today,
				Kind:      args.Kind,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s todo #%d: %s", todo.Kind, todo.ID, todo.Title)}, nil
		},
		Milestone: func(ctx context.Context, args commands.MilestoneArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			m, err := a.Tracker.CreateMilestone(ctx, model.Milestone{
				SegmentID:  args.SegmentID,
				Title:      args.Title,
				TargetDate: args.TargetDate,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added milestone #%d due %s: %s", m.ID, m.TargetDate, m.Title)}, nil
		},
		Habit: func(ctx context.Context, args commands.HabitArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			h, err := a.Tracker.CreateHabit(ctx, model.HabitTodo{SegmentID: args.SegmentID, Title: args.Title})
			if err != nil {
				return commands.Result{}, err
			}
			n, err := a.Tracker.GenerateHabitTodos(ctx, h.SegmentID, today)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added habit #%d: %s (%d todo(s) for today)", h.ID, h.Title, n)}, nil
		},
		Mark: func(ctx context.Context, args commands.MarkArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			level := model.AchievementPending
			if args.Achieved {
				level = model.AchievementAchieved
			}
			todo, err := a.Tracker.SetTodoAchievement(ctx, args.TodoID, level)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("todo #%d is %s", todo.ID, todo.Level)}, nil
		},
		Remove: func(ctx context.Context, args commands.RemoveArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			if err := a.Tracker.DeleteTodo(ctx, args.TodoID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted todo #%d", args.TodoID)}, nil
		},
		Eval: func(ctx context.Context, args commands.EvalArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			date := args.Date
			if date == "" {
				date = today
			}
			snap, err := a.Evaluation.ComputeEvaluation(ctx, args.SegmentID, date)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf(
				"segment #%d on %s: milestones %.2f daily %.2f weekly %.2f volume %d validity %.2f",
				args.SegmentID, date, snap.MilestoneRate(), snap.DailyRate(), snap.WeeklyRate(),
				snap.ActivityVolume, snap.TaskValidity(),
			)}, nil
		},
		Carry: func(ctx context.Context, args commands.CarryArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			candidates, err := a.Carryover.FindCandidates(ctx, today)
			if err != nil {
				return commands.Result{}, err
			}
			if !args.All {
				return commands.Result{Message: describeCandidates(candidates)}, nil
			}
			refs := make([]carryover.CandidateRef, 0, len(candidates))
			for _, c := range candidates {
				refs = append(refs, c.Ref())
			}
			res, err := a.Carryover.Record(ctx, refs, today)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: res.Summary(today)}, nil
		},
		Note: func(ctx context.Context, args commands.NoteArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			item, err := a.Tracker.AddDiscussion(ctx, args.SegmentID, args.Text)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("noted #%d on segment #%d", item.ID, item.SegmentID)}, nil
		},
		Memo: func(ctx context.Context, args commands.MemoArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			memo, err := a.Tracker.AddMemo(ctx, args.DiscussionID, args.Text)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("memo #%d on note #%d", memo.ID, memo.DiscussionID)}, nil
		},
		Purpose: func(ctx context.Context, args commands.PurposeArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			current, err := a.Tracker.GetPurpose(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			if args.Title == "" {
				return commands.Result{Message: describePurpose(current)}, nil
			}
			current.Title = args.Title
			saved, err := a.Tracker.SavePurpose(ctx, current)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "purpose set: " + saved.Title}, nil
		},
		Bucket: func(ctx context.Context, args commands.BucketArgs) (commands.Result, error) {
			ctx, cancel := a.Bound(ctx)
			defer cancel()
			item, err := a.Tracker.AddBucketItem(ctx, model.BucketListItem{Title: args.Title})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("bucket item #%d: %s", item.ID, item.Title)}, nil
		},
	}
}

func describePurpose(p model.OverallPurpose) string {
	if p.IsZero() {
		return "no purpose set"
	}
	var b strings.Builder
	b.WriteString("purpose: " + p.Title)
	if p.Description != "" {
		b.WriteString("\n" + p.Description)
	}
	if p.Goal != "" {
		b.WriteString("\ngoal: " + p.Goal)
	}
	return b.String()
}

func describeCandidates(candidates []carryover.Candidate) string {
	if len(candidates) == 0 {
		return "no carryover candidates"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d carryover candidate(s):", len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(&b, "\n#%d [%s] %s (%s, %s)", c.ID, c.SegmentName, c.Title, c.Kind, c.Date)
	}
	return b.String()
}
