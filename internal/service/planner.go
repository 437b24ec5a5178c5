package service

import (
	"Planzo/internal/model"
	"Planzo/internal/planner"
	"Planzo/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Типы событий, которые уходят подписчикам владельца после успешной записи.
const (
	EventColumns = "columns"
	EventItems   = "items"
)

// Notifier получает уведомление после каждого изменения данных владельца.
type Notifier interface {
	Publish(owner int64, event string)
}

type nopNotifier struct{}

func (nopNotifier) Publish(int64, string) {}

// PlannerService серверная сторона Persistence Gateway: колонки и идеи владельца.
type PlannerService struct {
	columns  repo.ColumnRepository
	items    repo.ItemRepository
	notifier Notifier
	logger   *zap.SugaredLogger
}

// NewPlannerService notifier и logger могут быть nil.
func NewPlannerService(columns repo.ColumnRepository, items repo.ItemRepository, notifier Notifier, logger *zap.SugaredLogger) *PlannerService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PlannerService{columns: columns, items: items, notifier: notifier, logger: logger}
}

// NewColumn параметры создания колонки. ID и Position опциональны.
type NewColumn struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position *int   `json:"order,omitempty"`
}

// NewItem параметры создания идеи. Пустой Status означает первую колонку.
type NewItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	CalendarDate *time.Time `json:"calendar_date,omitempty"`
}

func (s *PlannerService) ListColumns(ctx context.Context, userID int64) ([]planner.Column, error) {
	rows, err := s.columns.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	out := make([]planner.Column, 0, len(rows))
	for _, c := range rows {
		out = append(out, toColumn(c))
	}
	return out, nil
}

func (s *PlannerService) CreateColumn(ctx context.Context, userID int64, in NewColumn) (planner.Column, error) {
	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n == 0 || n > planner.MaxColumnTitle {
		return planner.Column{}, fmt.Errorf("%w: %v", ErrValidation, planner.ErrTitleLength)
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return planner.Column{}, fmt.Errorf("%w: column id must be a uuid", ErrValidation)
	}

	var pos int
	if in.Position != nil {
		if *in.Position < 0 {
			return planner.Column{}, fmt.Errorf("%w: negative order", ErrValidation)
		}
		pos = *in.Position
		if pos == 0 {
			n, err := s.columns.Count(ctx, userID)
			if err != nil {
				return planner.Column{}, fmt.Errorf("count columns: %w", err)
			}
			if n > 0 {
				return planner.Column{}, ErrPinnedColumn
			}
		}
	} else {
		n, err := s.columns.Count(ctx, userID)
		if err != nil {
			return planner.Column{}, fmt.Errorf("count columns: %w", err)
		}
		pos = int(n)
	}

	row := model.Column{ID: id, UserID: userID, Title: title, Position: pos}
	if err := s.columns.Create(ctx, &row); err != nil {
		return planner.Column{}, fmt.Errorf("create column: %w", err)
	}
	s.logger.Infow("column created", "user", userID, "column", id, "order", pos)
	s.notifier.Publish(userID, EventColumns)
	return toColumn(row), nil
}

func (s *PlannerService) UpdateColumnOrder(ctx context.Context, userID int64, id string, order int) error {
	if order < 0 {
		return fmt.Errorf("%w: negative order", ErrValidation)
	}
	col, err := s.columns.GetByID(ctx, userID, id)
	if err != nil {
		return notFound(err)
	}
	// position 0 закреплена: первую колонку нельзя сдвинуть, другую нельзя поставить на её место
	if (col.Position == 0) != (order == 0) {
		return ErrPinnedColumn
	}
	if err := s.columns.UpdatePosition(ctx, userID, id, order); err != nil {
		return notFound(err)
	}
	s.notifier.Publish(userID, EventColumns)
	return nil
}

// DeleteColumn удаляет колонку без переноса идей. Колонку с position 0 удалить нельзя.
func (s *PlannerService) DeleteColumn(ctx context.Context, userID int64, id string) error {
	col, err := s.columns.GetByID(ctx, userID, id)
	if err != nil {
		return notFound(err)
	}
	if col.Position == 0 {
		return ErrPinnedColumn
	}
	if err := s.columns.Delete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	s.logger.Infow("column deleted", "user", userID, "column", id)
	s.notifier.Publish(userID, EventColumns)
	return nil
}

// DeleteColumnReassign переносит идеи колонки в targetID и удаляет её одной транзакцией.
func (s *PlannerService) DeleteColumnReassign(ctx context.Context, userID int64, id, targetID string) error {
	if id == targetID {
		return fmt.Errorf("%w: cannot reassign a column to itself", ErrValidation)
	}
	col, err := s.columns.GetByID(ctx, userID, id)
	if err != nil {
		return notFound(err)
	}
	if col.Position == 0 {
		return ErrPinnedColumn
	}
	if _, err := s.columns.GetByID(ctx, userID, targetID); err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return fmt.Errorf("%w: unknown target column", ErrValidation)
		}
		return err
	}
	moved, err := s.columns.ReassignAndDelete(ctx, userID, id, targetID)
	if err != nil {
		return notFound(err)
	}
	s.logger.Infow("column deleted", "user", userID, "column", id, "target", targetID, "moved", moved)
	s.notifier.Publish(userID, EventColumns)
	if moved > 0 {
		s.notifier.Publish(userID, EventItems)
	}
	return nil
}

// ListItems saved=nil возвращает все идеи владельца.
func (s *PlannerService) ListItems(ctx context.Context, userID int64, saved *bool) ([]planner.Item, error) {
	rows, err := s.items.ListByUser(ctx, userID, saved)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]planner.Item, 0, len(rows))
	for _, it := range rows {
		out = append(out, toItem(it))
	}
	return out, nil
}

func (s *PlannerService) CreateItem(ctx context.Context, userID int64, in NewItem) (planner.Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return planner.Item{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return planner.Item{}, fmt.Errorf("%w: item id must be a uuid", ErrValidation)
	}
	status := in.Status
	if status == "" {
		cols, err := s.columns.ListByUser(ctx, userID)
		if err != nil {
			return planner.Item{}, fmt.Errorf("list columns: %w", err)
		}
		if len(cols) == 0 {
			return planner.Item{}, fmt.Errorf("%w: board has no columns", ErrValidation)
		}
		status = cols[0].ID
	} else if err := s.checkColumn(ctx, userID, status); err != nil {
		return planner.Item{}, err
	}

	row := model.Item{
		ID:           id,
		UserID:       userID,
		Title:        title,
		Description:  in.Description,
		Status:       status,
		Saved:        true,
		CalendarDate: utc(in.CalendarDate),
	}
	if err := s.items.Create(ctx, &row); err != nil {
		return planner.Item{}, fmt.Errorf("create item: %w", err)
	}
	s.logger.Infow("item created", "user", userID, "item", id, "status", status)
	s.notifier.Publish(userID, EventItems)
	return toItem(row), nil
}

// UpdateItemStatus статус должен ссылаться на существующую колонку владельца.
func (s *PlannerService) UpdateItemStatus(ctx context.Context, userID int64, id, status string) error {
	if err := s.checkColumn(ctx, userID, status); err != nil {
		return err
	}
	if err := s.items.UpdateStatus(ctx, userID, id, status); err != nil {
		return notFound(err)
	}
	s.notifier.Publish(userID, EventItems)
	return nil
}

func (s *PlannerService) UpdateItemSaved(ctx context.Context, userID int64, id string, saved bool) error {
	if err := s.items.UpdateSaved(ctx, userID, id, saved); err != nil {
		return notFound(err)
	}
	s.notifier.Publish(userID, EventItems)
	return nil
}

// ScheduleItem ставит или снимает (date=nil) дату публикации.
func (s *PlannerService) ScheduleItem(ctx context.Context, userID int64, id string, date *time.Time) error {
	if err := s.items.UpdateCalendarDate(ctx, userID, id, date); err != nil {
		return notFound(err)
	}
	s.notifier.Publish(userID, EventItems)
	return nil
}

func (s *PlannerService) checkColumn(ctx context.Context, userID int64, id string) error {
	if id == "" {
		return fmt.Errorf("%w: status is required", ErrValidation)
	}
	if _, err := s.columns.GetByID(ctx, userID, id); err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return fmt.Errorf("%w: unknown column %s", ErrValidation, id)
		}
		return err
	}
	return nil
}

func toColumn(c model.Column) planner.Column {
	return planner.Column{ID: c.ID, Title: c.Title, Order: c.Position, Owner: c.UserID}
}

func toItem(it model.Item) planner.Item {
	return planner.Item{
		ID:           it.ID,
		Title:        it.Title,
		Description:  it.Description,
		Status:       it.Status,
		CalendarDate: it.CalendarDate,
		Saved:        it.Saved,
		Owner:        it.UserID,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
