package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SeedsDefaultColumns(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)

	cols := b.Columns()
	for i, c := range cols {
		assert.Equal(t, DefaultColumnTitles[i], c.Title)
		assert.Equal(t, i, c.Order)
		assert.Equal(t, testOwner, c.Owner)
	}
	assert.Equal(t, cols[0], b.FirstColumn())
	assert.Equal(t, 5, g.count("InsertColumn"))
	assert.Equal(t, 2, g.count("ListColumns"))

	// повторная загрузка не сеет заново
	_, err := Load(context.Background(), g, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 5, g.count("InsertColumn"))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("list columns", func(t *testing.T) {
		g := newMemGateway()
		g.fail("ListColumns", 0)
		_, err := Load(context.Background(), g, testOwner)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.ErrorIs(t, err, errBoom)
	})
	t.Run("seeding", func(t *testing.T) {
		g := newMemGateway()
		g.fail("InsertColumn", 3)
		_, err := Load(context.Background(), g, testOwner)
		var le *LoadError
		assert.ErrorAs(t, err, &le)
	})
	t.Run("list items", func(t *testing.T) {
		g := newMemGateway()
		g.fail("ListItems", 0)
		_, err := Load(context.Background(), g, testOwner)
		var le *LoadError
		assert.ErrorAs(t, err, &le)
	})
}

func TestLoad_OrphanedStatusFallsBackToFirstColumn(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()

	addItem(t, g, b, "a", "gone-column", nil)
	addItem(t, g, b, "b", cols[2].ID, nil)

	assert.Equal(t, []string{"a"}, ids(b.Items(cols[0].ID)))
	assert.Equal(t, []string{"b"}, ids(b.Items(cols[2].ID)))
	// хранимый статус не исправляется при чтении
	it, col, _, ok := b.Item("a")
	require.True(t, ok)
	assert.Equal(t, cols[0].ID, col)
	assert.Equal(t, "gone-column", it.Status)
	assert.Equal(t, "gone-column", g.items["a"].Status)
}

func TestLoad_SkipsUnsavedItems(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	g.items["hidden"] = Item{ID: "hidden", Status: b.FirstColumn().ID, Owner: testOwner}
	require.NoError(t, b.Reload(context.Background()))
	_, _, _, ok := b.Item("hidden")
	assert.False(t, ok)
}

func TestReorderColumns(t *testing.T) {
	cases := []struct{ src, dst int }{{1, 4}, {4, 1}, {2, 3}, {3, 2}, {1, 2}}
	for _, tc := range cases {
		g := newMemGateway()
		b := loadSeeded(t, g)
		before := b.Columns()

		require.NoError(t, b.ReorderColumns(context.Background(), tc.src, tc.dst))

		after := b.Columns()
		assert.Equal(t, []int{0, 1, 2, 3, 4}, orders(after), "src=%d dst=%d", tc.src, tc.dst)
		assert.Equal(t, before[0].ID, after[0].ID)
		assert.Equal(t, before[tc.src].ID, after[tc.dst].ID)

		// хранилище совпадает с памятью
		stored, _ := g.ListColumns(context.Background(), testOwner)
		for i := range stored {
			assert.Equal(t, after[i].ID, stored[i].ID)
		}
	}
}

func TestReorderColumns_WritesOnlyChangedOrders(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	require.NoError(t, b.ReorderColumns(context.Background(), 2, 3))
	assert.Equal(t, 2, g.count("UpdateColumnOrder"))
}

func TestReorderColumns_FirstColumnPinned(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	before := b.Columns()

	for k := 1; k < 5; k++ {
		err := b.ReorderColumns(context.Background(), 0, k)
		assert.ErrorIs(t, err, ErrPinnedColumn)
		err = b.ReorderColumns(context.Background(), k, 0)
		assert.ErrorIs(t, err, ErrPinnedColumn)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
	assert.Equal(t, before, b.Columns())
	assert.Zero(t, g.count("UpdateColumnOrder"))
}

func TestReorderColumns_NoOpAndRange(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	assert.NoError(t, b.ReorderColumns(context.Background(), 3, 3))
	assert.NoError(t, b.ReorderColumns(context.Background(), 0, 0))
	assert.ErrorIs(t, b.ReorderColumns(context.Background(), 1, 9), ErrIndexRange)
	assert.ErrorIs(t, b.ReorderColumns(context.Background(), -1, 2), ErrIndexRange)
	assert.Zero(t, g.count("UpdateColumnOrder"))
}

func TestReorderColumns_FailureRevertsAndCompensates(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	before := b.Columns()

	// 1 -> 4 меняет порядок у колонок 1..4; падаем на третьей записи
	g.fail("UpdateColumnOrder", 3)
	err := b.ReorderColumns(context.Background(), 1, 4)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Reverted)
	assert.Equal(t, before, b.Columns())

	// две удачные записи откатили компенсирующими вызовами
	assert.Equal(t, 5, g.count("UpdateColumnOrder"))
	stored, _ := g.ListColumns(context.Background(), testOwner)
	assert.Equal(t, before, stored)
}

func TestMoveItem_BetweenColumnsScenario(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	it := addItem(t, g, b, "item-1", cols[2].ID, nil)

	require.NoError(t, b.MoveItem(context.Background(), it.ID, cols[2].ID, cols[4].ID, 0))

	got, col, _, ok := b.Item(it.ID)
	require.True(t, ok)
	assert.Equal(t, cols[4].ID, col)
	assert.Equal(t, cols[4].ID, got.Status)
	assert.Empty(t, b.Items(cols[2].ID))
	assert.Equal(t, []string{it.ID}, ids(b.Items(cols[4].ID)))
	assert.Equal(t, cols[4].ID, g.items[it.ID].Status)
	assert.Equal(t, 1, g.count("UpdateItemStatus"))
}

func TestMoveItem_PreservesCalendarDate(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	date := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	addItem(t, g, b, "dated", cols[1].ID, &date)
	addItem(t, g, b, "undated", cols[1].ID, nil)

	ctx := context.Background()
	require.NoError(t, b.MoveItem(ctx, "dated", cols[1].ID, cols[3].ID, 0))
	require.NoError(t, b.MoveItem(ctx, "undated", cols[1].ID, cols[3].ID, 1))

	dated, _, _, _ := b.Item("dated")
	require.NotNil(t, dated.CalendarDate)
	assert.True(t, date.Equal(*dated.CalendarDate))
	undated, _, _, _ := b.Item("undated")
	assert.Nil(t, undated.CalendarDate)
	assert.Equal(t, []string{"dated", "undated"}, ids(b.Items(cols[3].ID)))
}

func TestMoveItem_WithinColumnIsLocalOnly(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	first := b.FirstColumn().ID
	addItem(t, g, b, "a", first, nil)
	addItem(t, g, b, "b", first, nil)
	addItem(t, g, b, "c", first, nil)

	require.NoError(t, b.MoveItem(context.Background(), "a", first, first, 2))
	assert.Equal(t, []string{"b", "c", "a"}, ids(b.Items(first)))
	assert.Zero(t, g.count("UpdateItemStatus"))

	require.NoError(t, b.MoveItem(context.Background(), "a", first, first, 2))
	assert.ErrorIs(t, b.MoveItem(context.Background(), "a", first, first, 3), ErrIndexRange)
}

func TestMoveItem_Validation(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, g, b, "a", cols[1].ID, nil)
	ctx := context.Background()

	assert.ErrorIs(t, b.MoveItem(ctx, "a", "nope", cols[2].ID, 0), ErrUnknownColumn)
	assert.ErrorIs(t, b.MoveItem(ctx, "a", cols[1].ID, "nope", 0), ErrUnknownColumn)
	assert.ErrorIs(t, b.MoveItem(ctx, "zzz", cols[1].ID, cols[2].ID, 0), ErrUnknownItem)
	assert.ErrorIs(t, b.MoveItem(ctx, "a", cols[1].ID, cols[2].ID, 5), ErrIndexRange)
	assert.Zero(t, g.count("UpdateItemStatus"))
}

func TestMoveItem_FailureReverts(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, g, b, "a", cols[1].ID, nil)
	before := b.ItemsByColumn()

	g.fail("UpdateItemStatus", 0)
	err := b.MoveItem(context.Background(), "a", cols[1].ID, cols[2].ID, 0)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Reverted)
	assert.Equal(t, before, b.ItemsByColumn())
	assert.Equal(t, cols[1].ID, g.items["a"].Status)
}

func TestDeleteColumn_FirstColumnRejected(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	addItem(t, g, b, "a", b.FirstColumn().ID, nil)
	cols, items := b.Columns(), b.ItemsByColumn()

	err := b.DeleteColumn(context.Background(), cols[0].ID)
	assert.ErrorIs(t, err, ErrPinnedColumn)
	assert.Equal(t, cols, b.Columns())
	assert.Equal(t, items, b.ItemsByColumn())
	assert.Zero(t, g.count("DeleteColumn"))

	assert.ErrorIs(t, b.DeleteColumn(context.Background(), "missing"), ErrUnknownColumn)
}

func TestDeleteColumn_ReassignsItemsScenario(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, g, b, "x", cols[3].ID, nil)
	addItem(t, g, b, "y", cols[3].ID, nil)

	require.NoError(t, b.DeleteColumn(context.Background(), cols[3].ID))

	after := b.Columns()
	assert.Len(t, after, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, orders(after))
	for _, id := range []string{"x", "y"} {
		it, col, _, ok := b.Item(id)
		require.True(t, ok)
		assert.Equal(t, cols[0].ID, it.Status)
		assert.Equal(t, cols[0].ID, col)
		assert.Equal(t, cols[0].ID, g.items[id].Status)
	}
	assert.ElementsMatch(t, []string{"x", "y"}, ids(b.Items(cols[0].ID)))
	_, ok := b.ItemsByColumn()[cols[3].ID]
	assert.False(t, ok)

	stored, _ := g.ListColumns(context.Background(), testOwner)
	assert.Len(t, stored, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, orders(stored))
}

func TestDeleteColumn_Transactional(t *testing.T) {
	mg := newMemGateway()
	g := txGateway{mg}
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, mg, b, "x", cols[2].ID, nil)

	require.NoError(t, b.DeleteColumn(context.Background(), cols[2].ID))
	assert.Equal(t, 1, mg.count("ReassignAndDeleteColumn"))
	assert.Zero(t, mg.count("UpdateItemStatus"))
	assert.Equal(t, []string{"x"}, ids(b.Items(cols[0].ID)))

	// ошибка транзакции: полный откат
	before, items := b.Columns(), b.ItemsByColumn()
	mg.fail("ReassignAndDeleteColumn", 2)
	err := b.DeleteColumn(context.Background(), cols[1].ID)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Reverted)
	assert.Equal(t, before, b.Columns())
	assert.Equal(t, items, b.ItemsByColumn())
}

func TestDeleteColumn_PartialFailureKeepsColumn(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, g, b, "a", cols[2].ID, nil)
	addItem(t, g, b, "b", cols[2].ID, nil)
	addItem(t, g, b, "c", cols[2].ID, nil)

	g.fail("UpdateItemStatus", 2)
	err := b.DeleteColumn(context.Background(), cols[2].ID)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.False(t, pe.Reverted)
	assert.Equal(t, cols, b.Columns())
	assert.Equal(t, []string{"a"}, ids(b.Items(cols[0].ID)))
	assert.Equal(t, []string{"b", "c"}, ids(b.Items(cols[2].ID)))
	assert.Zero(t, g.count("DeleteColumn"))

	// перезагрузка показывает то же самое
	require.NoError(t, b.Reload(context.Background()))
	assert.Equal(t, []string{"a"}, ids(b.Items(cols[0].ID)))
	assert.Equal(t, []string{"b", "c"}, ids(b.Items(cols[2].ID)))
}

func TestDeleteColumn_RowDeleteFails(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	cols := b.Columns()
	addItem(t, g, b, "a", cols[4].ID, nil)

	g.fail("DeleteColumn", 0)
	err := b.DeleteColumn(context.Background(), cols[4].ID)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, cols, b.Columns())
	assert.Empty(t, b.Items(cols[4].ID))
	assert.Equal(t, []string{"a"}, ids(b.Items(cols[0].ID)))
}

func TestDeleteItem(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	first := b.FirstColumn().ID
	addItem(t, g, b, "a", first, nil)
	addItem(t, g, b, "b", first, nil)

	require.NoError(t, b.DeleteItem(context.Background(), "a"))
	assert.Equal(t, []string{"b"}, ids(b.Items(first)))
	assert.False(t, g.items["a"].Saved)
	_, stillThere := g.items["a"]
	assert.True(t, stillThere, "soft delete keeps the row")

	assert.ErrorIs(t, b.DeleteItem(context.Background(), "a"), ErrUnknownItem)

	g.fail("UpdateItemSaved", 0)
	err := b.DeleteItem(context.Background(), "b")
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, []string{"b"}, ids(b.Items(first)))
}

func TestAddColumn(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)

	c, err := b.AddColumn(context.Background(), "My Column")
	require.NoError(t, err)
	assert.Equal(t, "My Column", c.Title)
	assert.Equal(t, 5, c.Order)
	cols := b.Columns()
	require.Len(t, cols, 6)
	assert.Equal(t, c, cols[5])
	assert.Empty(t, b.Items(c.ID))
	assert.Contains(t, g.columns, c.ID)
}

func TestAddColumn_TitleBounds(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	ctx := context.Background()

	for _, title := range []string{"", "   ", strings.Repeat("x", 51)} {
		_, err := b.AddColumn(ctx, title)
		assert.ErrorIs(t, err, ErrTitleLength, "title %q", title)
	}
	_, err := b.AddColumn(ctx, strings.Repeat("x", 50))
	assert.NoError(t, err)
	// длина считается в символах, а не в байтах
	_, err = b.AddColumn(ctx, strings.Repeat("я", 50))
	assert.NoError(t, err)
	assert.Len(t, b.Columns(), 7)
}

func TestAddColumn_FailureReverts(t *testing.T) {
	g := newMemGateway()
	b := loadSeeded(t, g)
	before := b.Columns()

	g.fail("InsertColumn", 6)
	_, err := b.AddColumn(context.Background(), "Later")
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, before, b.Columns())
	assert.Len(t, b.ItemsByColumn(), 5)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(&LoadError{Err: errBoom}), "retry")
	assert.Contains(t, UserMessage(invalid("x", ErrPinnedColumn)), "first column")
	assert.Contains(t, UserMessage(invalid("x", ErrTitleLength)), "50")
	assert.Contains(t, UserMessage(&PersistenceError{Err: errBoom, Reverted: true}), "undone")
	assert.Contains(t, UserMessage(&PersistenceError{Err: errBoom}), "not saved")
	assert.Contains(t, UserMessage(errors.New("raw")), "raw")
}
