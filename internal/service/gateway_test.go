package service

import (
	"Planzo/internal/planner"
	"Planzo/internal/repo"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLitePlanner(t *testing.T) (*PlannerService, *recorder) {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	rec := &recorder{}
	return NewPlannerService(repo.NewColumnRepository(db), repo.NewItemRepository(db), rec, nil), rec
}

func TestLoadBoard_SeedsDefaults(t *testing.T) {
	svc, _ := newSQLitePlanner(t)
	ctx := context.Background()

	b, err := svc.LoadBoard(ctx, 7)
	require.NoError(t, err)
	cols := b.Columns()
	require.Len(t, cols, len(planner.DefaultColumnTitles))
	for i, c := range cols {
		assert.Equal(t, planner.DefaultColumnTitles[i], c.Title)
		assert.Equal(t, i, c.Order)
	}

	// повторная загрузка не засеивает ещё раз
	again, err := svc.LoadBoard(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, again.Columns(), len(planner.DefaultColumnTitles))
}

func TestOwnerGateway_BoardRoundTrip(t *testing.T) {
	svc, _ := newSQLitePlanner(t)
	ctx := context.Background()

	b, err := svc.LoadBoard(ctx, 7)
	require.NoError(t, err)
	cols := b.Columns()

	it, err := svc.CreateItem(ctx, 7, NewItem{Title: "Studio tour", Status: cols[3].ID})
	require.NoError(t, err)
	require.NoError(t, b.Reload(ctx))

	// перенос карточки сохраняется
	require.NoError(t, b.MoveItem(ctx, it.ID, cols[3].ID, cols[1].ID, 0))
	stored, err := svc.ListItems(ctx, 7, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, cols[1].ID, stored[0].Status)

	// удаление колонки идёт одной транзакцией и переносит карточку в первую
	require.NoError(t, b.DeleteColumn(ctx, cols[1].ID))
	stored, err = svc.ListItems(ctx, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, cols[0].ID, stored[0].Status)

	left, err := svc.ListColumns(ctx, 7)
	require.NoError(t, err)
	require.Len(t, left, 4)
	for i, c := range left {
		assert.Equal(t, i, c.Order)
	}

	// порядок колонок
	require.NoError(t, b.ReorderColumns(ctx, 3, 1))
	left, err = svc.ListColumns(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, cols[4].ID, left[1].ID)

	// мягкое удаление
	require.NoError(t, b.DeleteItem(ctx, it.ID))
	saved := true
	visible, err := svc.ListItems(ctx, 7, &saved)
	require.NoError(t, err)
	assert.Empty(t, visible)

	added, err := b.AddColumn(ctx, "Sponsored")
	require.NoError(t, err)
	assert.Equal(t, 4, added.Order)
}

func TestOwnerGateway_RejectsForeignOwner(t *testing.T) {
	svc, _ := newSQLitePlanner(t)
	g := NewOwnerGateway(svc, 1)

	_, err := g.ListColumns(context.Background(), 2)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = g.InsertColumn(context.Background(), planner.Column{ID: uuid.NewString(), Title: "x", Owner: 2})
	assert.ErrorIs(t, err, ErrValidation)
}
