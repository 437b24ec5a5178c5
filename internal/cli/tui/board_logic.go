package tui

import (
	"Planzo/internal/planner"

	"github.com/muesli/reflow/ansi"
	rtruncate "github.com/muesli/reflow/truncate"
)

// columnWidth ширина колонки без рамки.
const columnWidth = 24

// cursor указывает на колонку и карточку в ней. Row -1 означает заголовок колонки.
type cursor struct {
	Col int
	Row int
}

// carry: то, что сейчас "в руке" между нажатием space и enter/x/esc.
type carry struct {
	Kind   planner.DragKind
	ID     string
	Name   string
	Source planner.Position
	// SourceCol индекс колонки-источника (для карточки) или самой колонки.
	SourceCol int
	Target    cursor
}

func clamp(val, minVal, maxVal int) int {
	if maxVal < minVal {
		return minVal
	}
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// moveCursor сдвигает курсор. counts: число карточек в каждой колонке.
// При смене колонки строка подрезается под длину новой колонки.
func moveCursor(c cursor, dCol, dRow int, counts []int) cursor {
	if len(counts) == 0 {
		return cursor{Col: 0, Row: -1}
	}
	c.Col = clamp(c.Col+dCol, 0, len(counts)-1)
	c.Row = clamp(c.Row+dRow, -1, counts[c.Col]-1)
	return c
}

// moveTarget сдвигает место, куда упадёт переносимое.
// Колонка ездит только по доске, карточка может встать в конец чужой колонки,
// а в своей только на существующую позицию.
func moveTarget(k carry, dCol, dRow int, counts []int) cursor {
	t := k.Target
	if len(counts) == 0 {
		return t
	}
	if k.Kind == planner.DragColumn {
		t.Col = clamp(t.Col+dCol, 0, len(counts)-1)
		t.Row = -1
		return t
	}
	t.Col = clamp(t.Col+dCol, 0, len(counts)-1)
	limit := counts[t.Col]
	if t.Col == k.SourceCol {
		limit--
	}
	t.Row = clamp(t.Row+dRow, 0, limit)
	return t
}

// pickUp собирает carry для элемента под курсором.
func pickUp(cols []planner.Column, items map[string][]planner.Item, c cursor) (carry, bool) {
	if c.Col < 0 || c.Col >= len(cols) {
		return carry{}, false
	}
	col := cols[c.Col]
	if c.Row < 0 {
		return carry{
			Kind:      planner.DragColumn,
			ID:        col.ID,
			Name:      col.Title,
			Source:    planner.Position{DroppableID: planner.BoardDroppable, Index: c.Col},
			SourceCol: c.Col,
			Target:    cursor{Col: c.Col, Row: -1},
		}, true
	}
	list := items[col.ID]
	if c.Row >= len(list) {
		return carry{}, false
	}
	it := list[c.Row]
	return carry{
		Kind:      planner.DragItem,
		ID:        it.ID,
		Name:      it.Title,
		Source:    planner.Position{DroppableID: col.ID, Index: c.Row},
		SourceCol: c.Col,
		Target:    c,
	}, true
}

// dropAt результат броска в текущую цель.
func dropAt(k carry, cols []planner.Column) planner.DropResult {
	res := planner.DropResult{DraggableID: k.ID, Type: k.Kind, Source: k.Source}
	if k.Target.Col < 0 || k.Target.Col >= len(cols) {
		return res
	}
	if k.Kind == planner.DragColumn {
		res.Destination = &planner.Position{DroppableID: planner.BoardDroppable, Index: k.Target.Col}
		return res
	}
	res.Destination = &planner.Position{DroppableID: cols[k.Target.Col].ID, Index: k.Target.Row}
	return res
}

// dropOnTrash результат броска в корзину.
func dropOnTrash(k carry) planner.DropResult {
	return planner.DropResult{
		DraggableID: k.ID,
		Type:        k.Kind,
		Source:      k.Source,
		Destination: &planner.Position{DroppableID: planner.TrashID},
	}
}

// visibleRange окно колонок, которое помещается в ширину и содержит focus.
func visibleRange(n, focus, perPage int) (int, int) {
	if perPage < 1 {
		perPage = 1
	}
	if n <= perPage {
		return 0, n
	}
	start := clamp(focus-perPage/2, 0, n-perPage)
	return start, start + perPage
}

// truncate режет строку до width ячеек терминала с многоточием.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	return rtruncate.StringWithTail(s, uint(width), "…")
}

func counts(cols []planner.Column, items map[string][]planner.Item) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = len(items[c.ID])
	}
	return out
}
