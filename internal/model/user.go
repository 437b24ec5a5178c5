package model

import "time"

// User: учётная запись владельца доски.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt-хеш

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
