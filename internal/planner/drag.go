package planner

import (
	"context"
	"errors"
	"sync"
)

// DragKind says what is being dragged.
type DragKind string

const (
	DragColumn DragKind = "column"
	DragItem   DragKind = "task"
)

// TrashID is the droppable id of the delete bin.
const TrashID = "delete-bin"

// BoardDroppable is the droppable id that holds the columns themselves.
const BoardDroppable = "board"

// DragState of a DragController.
type DragState int

const (
	Idle DragState = iota
	Dragging
	AwaitingConfirm
)

func (s DragState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case AwaitingConfirm:
		return "awaiting confirmation"
	default:
		return "idle"
	}
}

// Position is a slot inside a droppable: a column id for items, BoardDroppable
// for columns, or TrashID.
type Position struct {
	DroppableID string
	Index       int
}

// DropResult is what the gesture reports when it ends. Destination is nil when
// the drop landed outside any droppable.
type DropResult struct {
	DraggableID string
	Type        DragKind
	Source      Position
	Destination *Position
}

// PendingDelete is a drop on the trash waiting for the user's confirmation.
type PendingDelete struct {
	Kind DragKind
	ID   string
	Name string
}

// Outcome of a finished gesture.
type Outcome int

const (
	NoOp Outcome = iota
	ColumnsReordered
	ItemMoved
	DeletePending
)

var (
	errConfirmPending = errors.New("a delete is waiting for confirmation")
	errNothingPending = errors.New("nothing to confirm")
	errUnknownKind    = errors.New("unknown drag type")
	errNotDragging    = errors.New("no drag in progress")
)

// DragController turns drag gestures into Board calls. A drop on the trash
// never deletes anything by itself; it parks a PendingDelete until Confirm.
type DragController struct {
	board *Board

	mu      sync.Mutex
	state   DragState
	active  DragKind
	pending *PendingDelete
}

// NewDragController binds a controller to a board.
func NewDragController(b *Board) *DragController {
	return &DragController{board: b}
}

// Start begins a gesture.
func (c *DragController) Start(kind DragKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == AwaitingConfirm {
		return invalid("start drag", errConfirmPending)
	}
	if kind != DragColumn && kind != DragItem {
		return invalid("start drag", errUnknownKind)
	}
	c.state = Dragging
	c.active = kind
	return nil
}

// Dragging reports whether a gesture is in progress. Only used for cursor
// styling.
func (c *DragController) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Dragging
}

// State returns the current state.
func (c *DragController) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the kind being dragged, empty when idle.
func (c *DragController) Active() DragKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Dragging {
		return ""
	}
	return c.active
}

// Pending returns the delete waiting for confirmation, if any.
func (c *DragController) Pending() (PendingDelete, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingDelete{}, false
	}
	return *c.pending, true
}

// End finishes the gesture and applies it to the board.
func (c *DragController) End(ctx context.Context, res DropResult) (Outcome, error) {
	c.mu.Lock()
	if c.state == AwaitingConfirm {
		c.mu.Unlock()
		return NoOp, invalid("drop", errConfirmPending)
	}
	if c.state != Dragging {
		c.mu.Unlock()
		return NoOp, invalid("drop", errNotDragging)
	}
	c.state = Idle
	c.active = ""

	if res.Destination == nil {
		c.mu.Unlock()
		return NoOp, nil
	}

	if res.Destination.DroppableID == TrashID {
		defer c.mu.Unlock()
		pd, err := c.lookup(res.Type, res.DraggableID)
		if err != nil {
			return NoOp, err
		}
		c.pending = &pd
		c.state = AwaitingConfirm
		return DeletePending, nil
	}
	c.mu.Unlock()

	switch res.Type {
	case DragColumn:
		if err := c.board.ReorderColumns(ctx, res.Source.Index, res.Destination.Index); err != nil {
			return NoOp, err
		}
		if res.Source.Index == res.Destination.Index {
			return NoOp, nil
		}
		return ColumnsReordered, nil
	case DragItem:
		err := c.board.MoveItem(ctx, res.DraggableID, res.Source.DroppableID, res.Destination.DroppableID, res.Destination.Index)
		if err != nil {
			return NoOp, err
		}
		return ItemMoved, nil
	default:
		return NoOp, invalid("drop", errUnknownKind)
	}
}

func (c *DragController) lookup(kind DragKind, id string) (PendingDelete, error) {
	switch kind {
	case DragColumn:
		col, ok := c.board.Column(id)
		if !ok {
			return PendingDelete{}, invalid("drop on trash", ErrUnknownColumn)
		}
		if col.ID == c.board.FirstColumn().ID {
			return PendingDelete{}, invalid("drop on trash", ErrPinnedColumn)
		}
		return PendingDelete{Kind: kind, ID: id, Name: col.Title}, nil
	case DragItem:
		it, _, _, ok := c.board.Item(id)
		if !ok {
			return PendingDelete{}, invalid("drop on trash", ErrUnknownItem)
		}
		return PendingDelete{Kind: kind, ID: id, Name: it.Title}, nil
	default:
		return PendingDelete{}, invalid("drop on trash", errUnknownKind)
	}
}

// Confirm runs the pending delete.
func (c *DragController) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return invalid("confirm delete", errNothingPending)
	}
	pd := *c.pending
	c.pending = nil
	c.state = Idle
	c.mu.Unlock()

	if pd.Kind == DragColumn {
		return c.board.DeleteColumn(ctx, pd.ID)
	}
	return c.board.DeleteItem(ctx, pd.ID)
}

// Cancel drops the pending delete, or abandons a gesture in progress.
func (c *DragController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	c.state = Idle
	c.active = ""
}
