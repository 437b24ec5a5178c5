package model

import "time"

// Column: колонка контент-планера (стадия канбана).
// Position 0: закреплённая первая колонка.
type Column struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // ссылка на users.id

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Title    string `gorm:"size:50;not null"`
	Position int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName сохраняет имя таблицы из исходной схемы.
func (Column) TableName() string { return "planner_columns" }
