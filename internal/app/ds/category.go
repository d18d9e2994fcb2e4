package ds

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 1. Таблица категорий услуг (сантехника, полы, электрика и т.д.)
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Image     *string   `gorm:"type:varchar(255)"` // Nullable, путь в хранилище
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
