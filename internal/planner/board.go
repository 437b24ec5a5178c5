package planner

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Board is the in-memory snapshot of one owner's columns and classified items.
//
// Mutations are optimistic: the local state changes first, then the gateway
// write is issued without holding the state lock, so readers see the new state
// while the write is in flight. On a failed write the local change is
// compensated and a *PersistenceError is returned. Mutations on one Board are
// serialized.
type Board struct {
	owner  int64
	gw     Gateway
	logger *zap.SugaredLogger

	opMu sync.Mutex

	mu      sync.RWMutex
	columns []Column
	items   map[string][]Item
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used to report failed writes.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// Load fetches the owner's columns and saved items. An owner without columns
// gets DefaultColumnTitles first. Any gateway failure is a *LoadError.
func Load(ctx context.Context, gw Gateway, owner int64, opts ...Option) (*Board, error) {
	b := &Board{owner: owner, gw: gw, logger: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(b)
	}
	if err := b.Reload(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Reload replaces the snapshot with a fresh read from the gateway. On error the
// previous snapshot is kept.
func (b *Board) Reload(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	cols, err := b.gw.ListColumns(ctx, b.owner)
	if err != nil {
		return &LoadError{Err: err}
	}
	if len(cols) == 0 {
		if err := b.seed(ctx); err != nil {
			return &LoadError{Err: err}
		}
		if cols, err = b.gw.ListColumns(ctx, b.owner); err != nil {
			return &LoadError{Err: err}
		}
		if len(cols) == 0 {
			return &LoadError{Err: errors.New("no columns after seeding defaults")}
		}
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Order < cols[j].Order })

	items, err := b.gw.ListItems(ctx, b.owner, ItemFilter{Saved: true})
	if err != nil {
		return &LoadError{Err: err}
	}

	b.mu.Lock()
	b.columns = cols
	b.items = Classify(items, cols)
	b.mu.Unlock()
	return nil
}

func (b *Board) seed(ctx context.Context) error {
	for i, title := range DefaultColumnTitles {
		c := Column{ID: uuid.NewString(), Title: title, Order: i, Owner: b.owner}
		if _, err := b.gw.InsertColumn(ctx, c); err != nil {
			return err
		}
	}
	b.logger.Infow("seeded default columns", "owner", b.owner)
	return nil
}

// Owner returns the account the board belongs to.
func (b *Board) Owner() int64 { return b.owner }

// Columns returns a copy of the columns in display order.
func (b *Board) Columns() []Column {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.columns)
}

// FirstColumn returns the pinned column.
func (b *Board) FirstColumn() Column {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.columns) == 0 {
		return Column{}
	}
	return b.columns[0]
}

// Column looks a column up by id.
func (b *Board) Column(id string) (Column, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.columnIndex(id)
	if i < 0 {
		return Column{}, false
	}
	return b.columns[i], true
}

// Items returns a copy of the items classified into a column.
func (b *Board) Items(columnID string) []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.items[columnID])
}

// ItemsByColumn returns a copy of the whole classification.
func (b *Board) ItemsByColumn() map[string][]Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string][]Item, len(b.items))
	for k, v := range b.items {
		out[k] = slices.Clone(v)
	}
	return out
}

// Item finds an item and the column and index currently holding it.
func (b *Board) Item(id string) (Item, string, int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	col, idx := b.locate(id)
	if idx < 0 {
		return Item{}, "", -1, false
	}
	return b.items[col][idx], col, idx, true
}

// ReorderColumns moves the column at src to dst and renumbers every column to
// its index. Position 0 is pinned in both directions.
func (b *Board) ReorderColumns(ctx context.Context, src, dst int) error {
	const op = "reorder columns"
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	n := len(b.columns)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		b.mu.Unlock()
		return invalid(op, ErrIndexRange)
	}
	if src == dst {
		b.mu.Unlock()
		return nil
	}
	if src == 0 || dst == 0 {
		b.mu.Unlock()
		return invalid(op, ErrPinnedColumn)
	}
	before := b.columns
	next := move(slices.Clone(before), src, dst)
	changed := renumber(next)
	b.columns = next
	b.mu.Unlock()

	written := make([]Column, 0, len(changed))
	for _, c := range changed {
		if err := b.gw.UpdateColumnOrder(ctx, c.ID, c.Order); err != nil {
			b.logger.Warnw("column order not saved, reverting", "owner", b.owner, "column_id", c.ID, "error", err)
			b.restoreOrders(ctx, written, before)
			b.mu.Lock()
			b.columns = before
			b.mu.Unlock()
			return &PersistenceError{Op: op, Err: err, Reverted: true}
		}
		written = append(written, c)
	}
	return nil
}

// restoreOrders writes back the original order of columns whose new order had
// already been saved.
func (b *Board) restoreOrders(ctx context.Context, written, before []Column) {
	ctx = context.WithoutCancel(ctx)
	for _, c := range written {
		for _, orig := range before {
			if orig.ID != c.ID {
				continue
			}
			if err := b.gw.UpdateColumnOrder(ctx, orig.ID, orig.Order); err != nil {
				b.logger.Errorw("column order compensation failed", "owner", b.owner, "column_id", orig.ID, "error", err)
			}
			break
		}
	}
}

// MoveItem moves an item to dstIndex of dstCol. Within one column only the
// position changes and nothing is written. Across columns Status becomes dstCol
// and only that field is persisted; CalendarDate is never touched.
func (b *Board) MoveItem(ctx context.Context, itemID, srcCol, dstCol string, dstIndex int) error {
	const op = "move item"
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	srcList, ok := b.items[srcCol]
	if !ok {
		b.mu.Unlock()
		return invalid(op, ErrUnknownColumn)
	}
	dstList, ok := b.items[dstCol]
	if !ok {
		b.mu.Unlock()
		return invalid(op, ErrUnknownColumn)
	}
	srcIdx := slices.IndexFunc(srcList, func(it Item) bool { return it.ID == itemID })
	if srcIdx < 0 {
		b.mu.Unlock()
		return invalid(op, ErrUnknownItem)
	}

	if srcCol == dstCol {
		defer b.mu.Unlock()
		if dstIndex < 0 || dstIndex >= len(srcList) {
			return invalid(op, ErrIndexRange)
		}
		if srcIdx != dstIndex {
			b.items[srcCol] = move(slices.Clone(srcList), srcIdx, dstIndex)
		}
		return nil
	}

	if dstIndex < 0 || dstIndex > len(dstList) {
		b.mu.Unlock()
		return invalid(op, ErrIndexRange)
	}
	it := srcList[srcIdx]
	it.Status = dstCol
	b.items[srcCol] = slices.Delete(slices.Clone(srcList), srcIdx, srcIdx+1)
	b.items[dstCol] = slices.Insert(slices.Clone(dstList), dstIndex, it)
	b.mu.Unlock()

	if err := b.gw.UpdateItemStatus(ctx, itemID, dstCol); err != nil {
		b.logger.Warnw("item status not saved, reverting", "owner", b.owner, "item_id", itemID, "status", dstCol, "error", err)
		b.mu.Lock()
		b.items[srcCol] = srcList
		b.items[dstCol] = dstList
		b.mu.Unlock()
		return &PersistenceError{Op: op, Err: err, Reverted: true}
	}
	return nil
}

// DeleteColumn moves every item of the column to the first column and deletes
// it. The first column cannot be deleted.
//
// With a ColumnReassigner gateway the whole thing is one transaction. Otherwise
// items are reassigned one by one; the first failed write stops the operation,
// the board then shows what was actually saved and keeps the column.
func (b *Board) DeleteColumn(ctx context.Context, columnID string) error {
	const op = "delete column"
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	idx := b.columnIndex(columnID)
	if idx < 0 {
		b.mu.Unlock()
		return invalid(op, ErrUnknownColumn)
	}
	if idx == 0 {
		b.mu.Unlock()
		return invalid(op, ErrPinnedColumn)
	}
	beforeCols := b.columns
	first := beforeCols[0].ID
	firstItems := b.items[first]
	moving := b.items[columnID]

	moved := make([]Item, len(moving))
	for i, it := range moving {
		it.Status = first
		moved[i] = it
	}
	nextCols := slices.Delete(slices.Clone(beforeCols), idx, idx+1)
	shifted := renumber(nextCols)
	b.columns = nextCols
	b.items[first] = append(slices.Clone(firstItems), moved...)
	delete(b.items, columnID)
	b.mu.Unlock()

	if r, ok := b.gw.(ColumnReassigner); ok {
		if err := r.ReassignAndDeleteColumn(ctx, columnID, first); err != nil {
			b.logger.Warnw("column delete not saved, reverting", "owner", b.owner, "column_id", columnID, "error", err)
			b.mu.Lock()
			b.columns = beforeCols
			b.items[first] = firstItems
			b.items[columnID] = moving
			b.mu.Unlock()
			return &PersistenceError{Op: op, Err: err, Reverted: true}
		}
		return nil
	}

	for i, it := range moving {
		if err := b.gw.UpdateItemStatus(ctx, it.ID, first); err != nil {
			b.logger.Warnw("item reassignment failed, column kept",
				"owner", b.owner, "column_id", columnID, "item_id", it.ID, "reassigned", i, "error", err)
			b.mu.Lock()
			b.columns = beforeCols
			b.items[first] = append(slices.Clone(firstItems), moved[:i]...)
			b.items[columnID] = slices.Clone(moving[i:])
			b.mu.Unlock()
			return &PersistenceError{Op: op, Err: err, Reverted: i == 0}
		}
	}
	if err := b.gw.DeleteColumn(ctx, columnID); err != nil {
		b.logger.Warnw("column row not deleted", "owner", b.owner, "column_id", columnID, "error", err)
		b.mu.Lock()
		b.columns = beforeCols
		b.items[columnID] = []Item{}
		b.mu.Unlock()
		return &PersistenceError{Op: op, Err: err, Reverted: len(moving) == 0}
	}
	for _, c := range shifted {
		if err := b.gw.UpdateColumnOrder(ctx, c.ID, c.Order); err != nil {
			// rows keep their relative order, the gap closes on the next reorder
			b.logger.Warnw("column order not compacted", "owner", b.owner, "column_id", c.ID, "error", err)
		}
	}
	return nil
}

// DeleteItem soft-deletes an item: it is marked unsaved and leaves the board.
func (b *Board) DeleteItem(ctx context.Context, itemID string) error {
	const op = "delete item"
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	col, idx := b.locate(itemID)
	if idx < 0 {
		b.mu.Unlock()
		return invalid(op, ErrUnknownItem)
	}
	before := b.items[col]
	b.items[col] = slices.Delete(slices.Clone(before), idx, idx+1)
	b.mu.Unlock()

	if err := b.gw.UpdateItemSaved(ctx, itemID, false); err != nil {
		b.logger.Warnw("item delete not saved, reverting", "owner", b.owner, "item_id", itemID, "error", err)
		b.mu.Lock()
		b.items[col] = before
		b.mu.Unlock()
		return &PersistenceError{Op: op, Err: err, Reverted: true}
	}
	return nil
}

// AddColumn appends a column with Order equal to the current column count.
func (b *Board) AddColumn(ctx context.Context, title string) (Column, error) {
	const op = "add column"
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 1 || n > MaxColumnTitle {
		return Column{}, invalid(op, ErrTitleLength)
	}
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	c := Column{ID: uuid.NewString(), Title: title, Order: len(b.columns), Owner: b.owner}
	before := b.columns
	b.columns = append(slices.Clone(before), c)
	b.items[c.ID] = []Item{}
	b.mu.Unlock()

	saved, err := b.gw.InsertColumn(ctx, c)
	if err != nil {
		b.logger.Warnw("column not saved, reverting", "owner", b.owner, "title", title, "error", err)
		b.mu.Lock()
		b.columns = before
		delete(b.items, c.ID)
		b.mu.Unlock()
		return Column{}, &PersistenceError{Op: op, Err: err, Reverted: true}
	}
	if saved.ID == "" {
		return c, nil
	}

	b.mu.Lock()
	if i := b.columnIndex(c.ID); i >= 0 {
		b.columns[i] = saved
	}
	if saved.ID != c.ID {
		b.items[saved.ID] = b.items[c.ID]
		delete(b.items, c.ID)
	}
	b.mu.Unlock()
	return saved, nil
}

func (b *Board) columnIndex(id string) int {
	return slices.IndexFunc(b.columns, func(c Column) bool { return c.ID == id })
}

func (b *Board) locate(itemID string) (string, int) {
	for col, list := range b.items {
		if i := slices.IndexFunc(list, func(it Item) bool { return it.ID == itemID }); i >= 0 {
			return col, i
		}
	}
	return "", -1
}

// move splices s[src] out and reinserts it at dst of the shortened slice.
func move[T any](s []T, src, dst int) []T {
	v := s[src]
	s = slices.Delete(s, src, src+1)
	return slices.Insert(s, dst, v)
}

// renumber sets Order to the index and returns the columns whose Order changed.
func renumber(cols []Column) []Column {
	var changed []Column
	for i := range cols {
		if cols[i].Order != i {
			cols[i].Order = i
			changed = append(changed, cols[i])
		}
	}
	return changed
}
