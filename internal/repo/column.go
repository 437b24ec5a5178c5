package repo

import (
	"Planzo/internal/model"
	"context"

	"gorm.io/gorm"
)

// ColumnRepository доступ к колонкам планера. Все методы ограничены владельцем.
type ColumnRepository interface {
	// ListByUser возвращает колонки пользователя по возрастанию position.
	ListByUser(ctx context.Context, userID int64) ([]model.Column, error)
	GetByID(ctx context.Context, userID int64, id string) (*model.Column, error)
	Count(ctx context.Context, userID int64) (int64, error)
	Create(ctx context.Context, c *model.Column) error
	// UpdatePosition возвращает gorm.ErrRecordNotFound, если строка не найдена.
	UpdatePosition(ctx context.Context, userID int64, id string, position int) error
	Delete(ctx context.Context, userID int64, id string) error
	// ReassignAndDelete в одной транзакции переносит все items колонки в targetID,
	// удаляет колонку и сдвигает position последующих колонок. Возвращает число перенесённых items.
	ReassignAndDelete(ctx context.Context, userID int64, id, targetID string) (int64, error)
}

type columnRepo struct {
	db *gorm.DB
}

// NewColumnRepository создаёт реализацию репозитория для Column.
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepo{db: db}
}

func (r *columnRepo) ListByUser(ctx context.Context, userID int64) ([]model.Column, error) {
	var cols []model.Column
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").Order("created_at ASC").
		Find(&cols).Error
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *columnRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Column, error) {
	var c model.Column
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *columnRepo) Count(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Column{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *columnRepo) Create(ctx context.Context, c *model.Column) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *columnRepo) UpdatePosition(ctx context.Context, userID int64, id string, position int) error {
	tx := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("position", position)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *columnRepo) Delete(ctx context.Context, userID int64, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Column{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *columnRepo) ReassignAndDelete(ctx context.Context, userID int64, id, targetID string) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var col model.Column
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&col).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Item{}).
			Where("user_id = ? AND status = ?", userID, id).
			Update("status", targetID)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		if err := tx.Delete(&col).Error; err != nil {
			return err
		}
		return tx.Model(&model.Column{}).
			Where("user_id = ? AND position > ?", userID, col.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}
