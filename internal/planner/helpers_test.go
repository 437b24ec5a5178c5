package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// memGateway: in-memory gateway с возможностью подмешать ошибку в конкретный вызов.
type memGateway struct {
	mu      sync.Mutex
	columns map[string]Column
	items   map[string]Item

	calls []string
	// failOn: имя метода -> номер вызова (с 1), на котором вернуть ошибку; 0: всегда
	failOn map[string]int
	seen   map[string]int
}

func newMemGateway() *memGateway {
	return &memGateway{
		columns: map[string]Column{},
		items:   map[string]Item{},
		failOn:  map[string]int{},
		seen:    map[string]int{},
	}
}

func (g *memGateway) fail(method string, nth int) { g.failOn[method] = nth }

func (g *memGateway) hit(method string) error {
	g.calls = append(g.calls, method)
	g.seen[method]++
	if n, ok := g.failOn[method]; ok && (n == 0 || n == g.seen[method]) {
		return errBoom
	}
	return nil
}

func (g *memGateway) count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen[method]
}

func (g *memGateway) ListColumns(_ context.Context, owner int64) ([]Column, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListColumns"); err != nil {
		return nil, err
	}
	var out []Column
	for _, c := range g.columns {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (g *memGateway) InsertColumn(_ context.Context, c Column) (Column, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("InsertColumn"); err != nil {
		return Column{}, err
	}
	g.columns[c.ID] = c
	return c, nil
}

func (g *memGateway) UpdateColumnOrder(_ context.Context, id string, order int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateColumnOrder"); err != nil {
		return err
	}
	c, ok := g.columns[id]
	if !ok {
		return fmt.Errorf("column %s not found", id)
	}
	c.Order = order
	g.columns[id] = c
	return nil
}

func (g *memGateway) DeleteColumn(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("DeleteColumn"); err != nil {
		return err
	}
	delete(g.columns, id)
	return nil
}

func (g *memGateway) ListItems(_ context.Context, owner int64, f ItemFilter) ([]Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListItems"); err != nil {
		return nil, err
	}
	var out []Item
	for _, it := range g.items {
		if it.Owner == owner && it.Saved == f.Saved {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *memGateway) UpdateItemStatus(_ context.Context, id, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateItemStatus"); err != nil {
		return err
	}
	it, ok := g.items[id]
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}
	it.Status = status
	g.items[id] = it
	return nil
}

func (g *memGateway) UpdateItemSaved(_ context.Context, id string, saved bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateItemSaved"); err != nil {
		return err
	}
	it, ok := g.items[id]
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}
	it.Saved = saved
	g.items[id] = it
	return nil
}

// txGateway добавляет атомарное удаление колонки.
type txGateway struct {
	*memGateway
}

func (g txGateway) ReassignAndDeleteColumn(_ context.Context, id, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ReassignAndDeleteColumn"); err != nil {
		return err
	}
	for k, it := range g.items {
		if it.Status == id {
			it.Status = target
			g.items[k] = it
		}
	}
	delete(g.columns, id)
	return nil
}

const testOwner int64 = 42

// loadSeeded поднимает доску с пятью колонками по умолчанию.
func loadSeeded(t *testing.T, g Gateway) *Board {
	t.Helper()
	b, err := Load(context.Background(), g, testOwner)
	require.NoError(t, err)
	require.Len(t, b.Columns(), len(DefaultColumnTitles))
	return b
}

// addItem кладёт сохранённый item в хранилище и перечитывает доску.
func addItem(t *testing.T, g *memGateway, b *Board, id, status string, date *time.Time) Item {
	t.Helper()
	it := Item{ID: id, Title: "idea " + id, Status: status, CalendarDate: date, Saved: true, Owner: testOwner}
	g.mu.Lock()
	g.items[id] = it
	g.mu.Unlock()
	require.NoError(t, b.Reload(context.Background()))
	return it
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func orders(cols []Column) []int {
	out := make([]int, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Order)
	}
	return out
}
