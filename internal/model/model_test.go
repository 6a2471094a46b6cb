package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-09")
	require.NoError(t, err)
	assert.Equal(t, Date("2026-02-09"), d)

	_, err = ParseDate("2026-2-9")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateArithmeticCrossesMonthBoundaries(t *testing.T) {
	d := MustDate("2026-03-01")
	assert.Equal(t, Date("2026-02-28"), d.AddDays(-1))
	assert.Equal(t, Date("2026-01-31"), d.AddDays(-29))
	assert.Equal(t, Date("2026-03-08"), d.AddDays(7))
	assert.True(t, d.Between(d.AddDays(-29), d))
	assert.False(t, d.AddDays(1).Between(d.AddDays(-29), d))
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2026, 2, 9, 23, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, Date("2026-02-10"), DateOf(ts))
}

func TestAchievementLevels(t *testing.T) {
	cases := []struct {
		level     AchievementLevel
		evaluated bool
		credited  bool
		writable  bool
	}{
		{AchievementPending, false, false, true},
		{AchievementAchieved, true, true, true},
		{AchievementPartial, true, false, false},
		{AchievementNotAchieved, true, false, false},
		{AchievementLevel("bogus"), false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.level), func(t *testing.T) {
			assert.Equal(t, tc.evaluated, tc.level.Evaluated())
			assert.Equal(t, tc.credited, tc.level.Credited())
			assert.Equal(t, tc.writable, tc.level.IsWritable())
		})
	}
}

func TestTodoValidate(t *testing.T) {
	todo := Todo{SegmentID: 1, Title: "  Read 10 pages ", Date: "2026-02-09"}
	todo.Normalize()
	require.NoError(t, todo.Validate())
	assert.Equal(t, "Read 10 pages", todo.Title)
	assert.Equal(t, TodoKindDaily, todo.Kind)
	assert.Equal(t, AchievementPending, todo.Level)

	blank := Todo{SegmentID: 1, Title: "   ", Date: "2026-02-09", Kind: TodoKindDaily, Level: AchievementPending}
	err := blank.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	badDate := Todo{SegmentID: 1, Title: "x", Date: "tomorrow", Kind: TodoKindDaily, Level: AchievementPending}
	require.ErrorAs(t, badDate.Validate(), &ve)
	assert.Equal(t, "date", ve.Field)

	noSegment := Todo{Title: "x", Date: "2026-02-09", Kind: TodoKindDaily, Level: AchievementPending}
	require.ErrorAs(t, noSegment.Validate(), &ve)
	assert.Equal(t, "segment_id", ve.Field)
}

func TestTodoCompletionConsistency(t *testing.T) {
	base := Todo{SegmentID: 1, Title: "x", Date: "2026-02-09", Kind: TodoKindDaily}

	achieved := base
	achieved.Level = AchievementAchieved
	assert.ErrorIs(t, achieved.Validate(), ErrValidation)
	achieved.Completed = true
	assert.NoError(t, achieved.Validate())

	pending := base
	pending.Level = AchievementPending
	pending.Completed = true
	assert.ErrorIs(t, pending.Validate(), ErrValidation)
}

func TestTodoSource(t *testing.T) {
	weekly := Todo{ID: 7, Kind: TodoKindWeekly}
	kind, id := weekly.Source()
	assert.Equal(t, SourceWeekly, kind)
	assert.Equal(t, int64(7), id)

	habitID := int64(3)
	generated := Todo{ID: 8, Kind: TodoKindDaily, FromHabit: true, HabitID: &habitID}
	kind, id = generated.Source()
	assert.Equal(t, SourceHabit, kind)
	assert.Equal(t, int64(3), id)
}

func TestMilestoneValidate(t *testing.T) {
	m := Milestone{SegmentID: 2, Title: "Ship v1", TargetDate: "2026-03-01"}
	m.Normalize()
	require.NoError(t, m.Validate())
	assert.Equal(t, MilestonePending, m.Status)

	m.Level = AchievementAchieved
	assert.ErrorIs(t, m.Validate(), ErrValidation)
	m.Status = MilestoneCompleted
	assert.NoError(t, m.Validate())
}

func TestSegmentNormalizeDefaultsColor(t *testing.T) {
	s := Segment{Name: " Health "}
	s.Normalize()
	require.NoError(t, s.Validate())
	assert.Equal(t, "Health", s.Name)
	assert.Equal(t, DefaultSegmentColor, s.Color)

	s.Color = "green"
	var ve *ValidationError
	require.ErrorAs(t, s.Validate(), &ve)
	assert.Equal(t, "color", ve.Field)
}

func TestHabitInstance(t *testing.T) {
	h := HabitTodo{ID: 4, SegmentID: 1, Title: "Stretch", Active: true}
	todo := h.Instance("2026-02-09", time.Time{})
	require.NotNil(t, todo.HabitID)
	assert.Equal(t, int64(4), *todo.HabitID)
	assert.True(t, todo.FromHabit)
	assert.NoError(t, todo.Validate())
}

func TestCarryoverKeyNormalizesTitle(t *testing.T) {
	assert.Equal(t, KeyFor(1, "read 10 pages"), KeyFor(1, "  Read 10 Pages "))
	assert.NotEqual(t, KeyFor(1, "read"), KeyFor(2, "read"))
}

func TestEvaluationScaledFields(t *testing.T) {
	e := Evaluation{TotalTodos: 1200, CompletedTodos: 75}
	assert.Equal(t, 12, e.ActivityVolume())
	assert.InDelta(t, 0.75, e.TaskValidity(), 1e-9)
}

func TestPurposeAndBucketValidate(t *testing.T) {
	p := OverallPurpose{Title: "  Live deliberately ", Goal: " ship one thing a month "}
	p.Normalize()
	require.NoError(t, p.Validate())
	assert.Equal(t, "Live deliberately", p.Title)
	assert.Equal(t, "ship one thing a month", p.Goal)
	assert.True(t, OverallPurpose{}.IsZero())

	var ve *ValidationError
	require.ErrorAs(t, OverallPurpose{Title: " "}.Validate(), &ve)
	assert.Equal(t, "title", ve.Field)

	b := BucketListItem{Title: " See the northern lights "}
	b.Normalize()
	require.NoError(t, b.Validate())
	assert.Equal(t, "See the northern lights", b.Title)

	require.ErrorAs(t, DiscussionMemo{Memo: "x"}.Validate(), &ve)
	assert.Equal(t, "discussion_id", ve.Field)
}
