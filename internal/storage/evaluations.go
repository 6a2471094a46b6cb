package storage

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const evaluationColumns = "id, segment_id, date, achievement_score, goal_design_score, consistency_score, total_todos, completed_todos, total_milestones, evaluated_milestones, overdue_tasks, evaluated_tasks, on_time_tasks, created_at"

// UpsertEvaluation writes the snapshot for (segment, date). An existing row
// keeps its id and created_at so identical inputs leave it unchanged.
func (r *SQLiteRepository) UpsertEvaluation(ctx context.Context, in model.Evaluation) error {
	_, err := r.q(ctx).ExecContext(ctx, `
		INSERT INTO evaluations (segment_id, date, achievement_score, goal_design_score, consistency_score,
			total_todos, completed_todos, total_milestones, evaluated_milestones, overdue_tasks,
			evaluated_tasks, on_time_tasks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (segment_id, date) DO UPDATE SET
			achievement_score = excluded.achievement_score,
			goal_design_score = excluded.goal_design_score,
			consistency_score = excluded.consistency_score,
			total_todos = excluded.total_todos,
			completed_todos = excluded.completed_todos,
			total_milestones = excluded.total_milestones,
			evaluated_milestones = excluded.evaluated_milestones,
			overdue_tasks = excluded.overdue_tasks,
			evaluated_tasks = excluded.evaluated_tasks,
			on_time_tasks = excluded.on_time_tasks`,
		in.SegmentID, string(in.Date), in.AchievementScore, in.GoalDesignScore, in.ConsistencyScore,
		in.TotalTodos, in.CompletedTodos, in.TotalMilestones, in.EvaluatedMilestones, in.OverdueTasks,
		in.EvaluatedTasks, in.OnTimeTasks, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetEvaluation(ctx context.Context, segmentID int64, date model.Date) (model.Evaluation, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+evaluationColumns+` FROM evaluations WHERE segment_id = ? AND date = ?`,
		[]any{segmentID, string(date)}, scanEvaluation)
}

// ListEvaluations returns snapshots newest first.
func (r *SQLiteRepository) ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error) {
	b := squirrel.Select(evaluationColumns).From("evaluations")
	if filter.SegmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": filter.SegmentID})
	}
	if filter.From != "" {
		b = b.Where(squirrel.GtOrEq{"date": string(filter.From)})
	}
	if filter.To != "" {
		b = b.Where(squirrel.LtOrEq{"date": string(filter.To)})
	}
	b = b.OrderBy("date DESC", "segment_id ASC")
	b = applyPagination(b, filter.Limit, 0)
	return queryAll(ctx, r.q(ctx), b, scanEvaluation)
}

// DeleteEvaluations drops stored snapshots for segmentID, or for every
// segment when segmentID is zero.
func (r *SQLiteRepository) DeleteEvaluations(ctx context.Context, segmentID int64) (int64, error) {
	b := squirrel.Delete("evaluations")
	if segmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": segmentID})
	}
	return r.execCount(ctx, b)
}

func scanEvaluation(s scanner) (model.Evaluation, error) {
	var out model.Evaluation
	var date, created string
	if err := s.Scan(&out.ID, &out.SegmentID, &date, &out.AchievementScore, &out.GoalDesignScore, &out.ConsistencyScore,
		&out.TotalTodos, &out.CompletedTodos, &out.TotalMilestones, &out.EvaluatedMilestones, &out.OverdueTasks,
		&out.EvaluatedTasks, &out.OnTimeTasks, &created); err != nil {
		return model.Evaluation{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Evaluation{}, err
	}
	out.Date = model.Date(date)
	out.CreatedAt = createdAt
	return out, nil
}
