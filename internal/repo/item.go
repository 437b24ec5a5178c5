package repo

import (
	"Planzo/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ItemRepository определяет контракт доступа к Item для слоя сервиса.
type ItemRepository interface {
	// ListByUser возвращает items пользователя в порядке создания.
	// saved=nil: без фильтра по флагу.
	ListByUser(ctx context.Context, userID int64, saved *bool) ([]model.Item, error)
	GetByID(ctx context.Context, userID int64, id string) (*model.Item, error)
	Create(ctx context.Context, it *model.Item) error
	// Update* возвращают gorm.ErrRecordNotFound, если строка не найдена.
	UpdateStatus(ctx context.Context, userID int64, id, status string) error
	UpdateSaved(ctx context.Context, userID int64, id string, saved bool) error
	UpdateCalendarDate(ctx context.Context, userID int64, id string, date *time.Time) error
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) ListByUser(ctx context.Context, userID int64, saved *bool) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if saved != nil {
		q = q.Where("saved = ?", *saved)
	}
	var items []model.Item
	if err := q.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) UpdateStatus(ctx context.Context, userID int64, id, status string) error {
	return r.updateColumn(ctx, userID, id, "status", status)
}

func (r *itemRepo) UpdateSaved(ctx context.Context, userID int64, id string, saved bool) error {
	return r.updateColumn(ctx, userID, id, "saved", saved)
}

func (r *itemRepo) UpdateCalendarDate(ctx context.Context, userID int64, id string, date *time.Time) error {
	if date == nil {
		return r.updateColumn(ctx, userID, id, "calendar_date", gorm.Expr("NULL"))
	}
	return r.updateColumn(ctx, userID, id, "calendar_date", date.UTC())
}

// updateColumn точечно обновляет одно поле записи владельца.
func (r *itemRepo) updateColumn(ctx context.Context, userID int64, id, column string, value any) error {
	tx := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
