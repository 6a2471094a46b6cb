package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateSegment(ctx context.Context, in model.Segment) (int64, error)
	GetSegment(ctx context.Context, id int64) (model.Segment, error)
	UpdateSegment(ctx context.Context, in model.Segment) error
	DeleteSegment(ctx context.Context, id int64) error
	ListSegments(ctx context.Context) ([]model.Segment, error)
	PurgeSegmentData(ctx context.Context, segmentID int64) error

	CreateTodo(ctx context.Context, in model.Todo) (int64, error)
	GetTodo(ctx context.Context, id int64) (model.Todo, error)
	UpdateTodo(ctx context.Context, in model.Todo) error
	DeleteTodo(ctx context.Context, id int64) error
	ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	FindHabitTodo(ctx context.Context, habitID int64, date model.Date) (model.Todo, error)

	CreateMilestone(ctx context.Context, in model.Milestone) (int64, error)
	GetMilestone(ctx context.Context, id int64) (model.Milestone, error)
	UpdateMilestone(ctx context.Context, in model.Milestone) error
	DeleteMilestone(ctx context.Context, id int64) error
	ListMilestones(ctx context.Context, filter MilestoneFilter) ([]model.Milestone, error)

	CreateHabit(ctx context.Context, in model.HabitTodo) (int64, error)
	GetHabit(ctx context.Context, id int64) (model.HabitTodo, error)
	UpdateHabit(ctx context.Context, in model.HabitTodo) error
	DeleteHabit(ctx context.Context, id int64) error
	ListHabits(ctx context.Context, filter HabitFilter) ([]model.HabitTodo, error)
	GetHabitCompletion(ctx context.Context, habitID int64, date model.Date) (model.HabitCompletion, error)
	CreateHabitCompletion(ctx context.Context, in model.HabitCompletion) (int64, error)
	DeleteHabitCompletion(ctx context.Context, habitID int64, date model.Date) error

	CreateDiscussion(ctx context.Context, in model.DiscussionItem) (int64, error)
	GetDiscussion(ctx context.Context, id int64) (model.DiscussionItem, error)
	UpdateDiscussion(ctx context.Context, in model.DiscussionItem) error
	DeleteDiscussion(ctx context.Context, id int64) error
	ListDiscussions(ctx context.Context, segmentID int64) ([]model.DiscussionItem, error)
	CreateMemo(ctx context.Context, in model.DiscussionMemo) (int64, error)
	GetMemo(ctx context.Context, id int64) (model.DiscussionMemo, error)
	UpdateMemo(ctx context.Context, in model.DiscussionMemo) error
	DeleteMemo(ctx context.Context, id int64) error
	ListMemos(ctx context.Context, discussionID int64) ([]model.DiscussionMemo, error)

	GetPurpose(ctx context.Context) (model.OverallPurpose, error)
	SavePurpose(ctx context.Context, in model.OverallPurpose) error

	CreateBucketItem(ctx context.Context, in model.BucketListItem) (int64, error)
	GetBucketItem(ctx context.Context, id int64) (model.BucketListItem, error)
	UpdateBucketItem(ctx context.Context, in model.BucketListItem) error
	DeleteBucketItem(ctx context.Context, id int64) error
	ListBucketItems(ctx context.Context) ([]model.BucketListItem, error)
	ReorderBucketItems(ctx context.Context, ids []int64) error

	FindActivityPoint(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (model.ActivityPoint, error)
	CreateActivityPoint(ctx context.Context, in model.ActivityPoint) (int64, error)
	DeleteActivityPoints(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (int64, error)
	DeleteActivityPointsBySource(ctx context.Context, source model.SourceKind, sourceID int64) (int64, error)
	ListActivityPoints(ctx context.Context, filter ActivityFilter) ([]model.ActivityPoint, error)
	SumActivityPoints(ctx context.Context, filter ActivityFilter) (int, error)

	ListCarryoverCandidates(ctx context.Context, from, before model.Date) ([]CandidateRow, error)
	ListCarryoverRecords(ctx context.Context, carriedOverDate model.Date) ([]model.CarryoverRecord, error)
	CreateCarryoverRecord(ctx context.Context, in model.CarryoverRecord) (int64, error)

	UpsertEvaluation(ctx context.Context, in model.Evaluation) error
	GetEvaluation(ctx context.Context, segmentID int64, date model.Date) (model.Evaluation, error)
	ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error)
	DeleteEvaluations(ctx context.Context, segmentID int64) (int64, error)
}

var _ Repository = (*SQLiteRepository)(nil)
