package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTxCommits(t *testing.T) {
	repo := setupRepo(t)
	tm := NewTxManager(repo.DB())
	ctx := context.Background()

	var id int64
	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		assert.True(t, InTx(txCtx))
		var createErr error
		id, createErr = repo.CreateSegment(txCtx, model.Segment{Name: "Committed", Color: model.DefaultSegmentColor})
		return createErr
	})
	require.NoError(t, err)

	got, err := repo.GetSegment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Committed", got.Name)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	repo := setupRepo(t)
	tm := NewTxManager(repo.DB())
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.CreateSegment(txCtx, model.Segment{Name: "Lost", Color: model.DefaultSegmentColor}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := repo.ListSegments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	repo := setupRepo(t)
	tm := NewTxManager(repo.DB())
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = tm.RunInTx(ctx, func(txCtx context.Context) error {
			_, _ = repo.CreateSegment(txCtx, model.Segment{Name: "Lost", Color: model.DefaultSegmentColor})
			panic("boom")
		})
	})

	list, err := repo.ListSegments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	repo := setupRepo(t)
	tm := NewTxManager(repo.DB())
	ctx := context.Background()
	boom := errors.New("outer failed")

	err := tm.RunInTx(ctx, func(outer context.Context) error {
		innerErr := tm.RunInTx(outer, func(inner context.Context) error {
			_, err := repo.CreateSegment(inner, model.Segment{Name: "Inner", Color: model.DefaultSegmentColor})
			return err
		})
		require.NoError(t, innerErr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := repo.ListSegments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "inner work must roll back with the outer transaction")
}
