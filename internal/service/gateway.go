package service

import (
	"Planzo/internal/planner"
	"context"
	"fmt"
)

// OwnerGateway привязывает PlannerService к одному пользователю и отдаёт его
// как planner.Gateway, чтобы сервер мог собрать доску тем же кодом, что и клиент.
type OwnerGateway struct {
	svc   *PlannerService
	owner int64
}

var (
	_ planner.Gateway          = (*OwnerGateway)(nil)
	_ planner.ColumnReassigner = (*OwnerGateway)(nil)
)

func NewOwnerGateway(svc *PlannerService, owner int64) *OwnerGateway {
	return &OwnerGateway{svc: svc, owner: owner}
}

func (g *OwnerGateway) check(owner int64) error {
	if owner != g.owner {
		return fmt.Errorf("%w: owner %d is not bound to this gateway", ErrValidation, owner)
	}
	return nil
}

func (g *OwnerGateway) ListColumns(ctx context.Context, owner int64) ([]planner.Column, error) {
	if err := g.check(owner); err != nil {
		return nil, err
	}
	return g.svc.ListColumns(ctx, owner)
}

func (g *OwnerGateway) InsertColumn(ctx context.Context, c planner.Column) (planner.Column, error) {
	if err := g.check(c.Owner); err != nil {
		return planner.Column{}, err
	}
	order := c.Order
	return g.svc.CreateColumn(ctx, g.owner, NewColumn{ID: c.ID, Title: c.Title, Position: &order})
}

func (g *OwnerGateway) UpdateColumnOrder(ctx context.Context, id string, order int) error {
	return g.svc.UpdateColumnOrder(ctx, g.owner, id, order)
}

// DeleteColumn удаляет строку колонки. Закреплённая колонка отбивается сервисом.
func (g *OwnerGateway) DeleteColumn(ctx context.Context, id string) error {
	return g.svc.DeleteColumn(ctx, g.owner, id)
}

func (g *OwnerGateway) ListItems(ctx context.Context, owner int64, f planner.ItemFilter) ([]planner.Item, error) {
	if err := g.check(owner); err != nil {
		return nil, err
	}
	saved := f.Saved
	return g.svc.ListItems(ctx, owner, &saved)
}

func (g *OwnerGateway) UpdateItemStatus(ctx context.Context, id, status string) error {
	return g.svc.UpdateItemStatus(ctx, g.owner, id, status)
}

func (g *OwnerGateway) UpdateItemSaved(ctx context.Context, id string, saved bool) error {
	return g.svc.UpdateItemSaved(ctx, g.owner, id, saved)
}

func (g *OwnerGateway) ReassignAndDeleteColumn(ctx context.Context, id, targetID string) error {
	return g.svc.DeleteColumnReassign(ctx, g.owner, id, targetID)
}

// LoadBoard загружает доску владельца. При пустой базе засеивает колонки по умолчанию.
func (s *PlannerService) LoadBoard(ctx context.Context, userID int64) (*planner.Board, error) {
	return planner.Load(ctx, NewOwnerGateway(s, userID), userID, planner.WithLogger(s.logger))
}
