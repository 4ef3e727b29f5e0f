package reviews

import (
	"time"

	"cafeplanner/internal/domain/users"
)

type Review struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`
	User   *users.User

	CafeID   int64   `gorm:"column:cafe_id;not null;index"`
	Rating   int     `gorm:"not null"`
	Text     string  `gorm:"not null"`
	PhotoURL *string `gorm:"column:photo_url"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
