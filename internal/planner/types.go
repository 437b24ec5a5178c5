// Package planner holds the content planner board: columns, the ideas
// classified into them and the drag-and-drop operations that reorder and
// reclassify them against a persistence gateway.
package planner

import (
	"context"
	"time"
)

// MaxColumnTitle is the longest column title accepted, in characters.
const MaxColumnTitle = 50

// DefaultColumnTitles seeds an owner that has no columns yet.
var DefaultColumnTitles = []string{"Ideas", "Planning", "Ready to Film", "To Edit", "Ready to Post"}

// Column is a kanban stage. The column with Order 0 is the pinned first column.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Owner int64  `json:"owner"`
}

// Item is a content idea. Status holds the ID of the column it belongs to.
type Item struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	CalendarDate *time.Time `json:"calendar_date,omitempty"`
	Saved        bool       `json:"saved"`
	Owner        int64      `json:"owner"`
}

// ItemFilter narrows ListItems.
type ItemFilter struct {
	Saved bool
}

// Gateway is the durable store behind a Board. Point updates are scoped to the
// owner by the gateway implementation.
type Gateway interface {
	ListColumns(ctx context.Context, owner int64) ([]Column, error)
	InsertColumn(ctx context.Context, c Column) (Column, error)
	UpdateColumnOrder(ctx context.Context, id string, order int) error
	DeleteColumn(ctx context.Context, id string) error
	ListItems(ctx context.Context, owner int64, filter ItemFilter) ([]Item, error)
	UpdateItemStatus(ctx context.Context, id, status string) error
	UpdateItemSaved(ctx context.Context, id string, saved bool) error
}

// ColumnReassigner is implemented by gateways that can move every item of a
// column to another column and delete it in one transaction.
type ColumnReassigner interface {
	ReassignAndDeleteColumn(ctx context.Context, id, targetID string) error
}
