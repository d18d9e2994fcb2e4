package ds

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 2. Таблица подкатегорий - базовые услуги с ценой за базовую площадь
type SubCategory struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Image     *string   `gorm:"type:varchar(255)"`
	BasePrice float64   `gorm:"type:decimal(10,2);not null"` // Цена за базовую площадь
	BaseArea  float64   `gorm:"type:decimal(10,2);not null"` // Базовая площадь, м2
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (s *SubCategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
