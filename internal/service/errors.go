package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrPinnedColumn = errors.New("the first column is pinned")
)

// notFound приводит gorm.ErrRecordNotFound к ErrNotFound, остальное оставляет как есть.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
