package model

import "time"

// Item: идея для видео, карточка на доске.
type Item struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Title       string `gorm:"not null"`
	Description string

	// Status: id колонки, без внешнего ключа: может ссылаться на удалённую колонку.
	Status string `gorm:"index"`

	// Saved=false: мягкое удаление
	Saved bool `gorm:"not null;index"`

	CalendarDate *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName сохраняет имя таблицы из исходной схемы.
func (Item) TableName() string { return "video_ideas" }
