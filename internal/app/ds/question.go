package ds

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 3. Таблица вопросов доп. услуг, привязанных к категории
type Question struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	CategoryID   string `gorm:"type:uuid;not null;index"`
	QuestionText string `gorm:"type:text;not null"`
	// SINGLE_CHOICE (legacy), MULTIPLE_CHOICE, IMAGE_NAME, NUMBER_INPUT
	QuestionType string `gorm:"type:varchar(20);not null"`
	// Ценовая конфигурация в формате JSON, только для NUMBER_INPUT
	PricingConfig *string   `gorm:"type:jsonb"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time

	Category Category         `gorm:"foreignKey:CategoryID"`
	Options  []QuestionOption `gorm:"foreignKey:QuestionID"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// 4. Таблица вариантов ответа (только для вопросов с выбором)
type QuestionOption struct {
	ID                 string  `gorm:"type:uuid;primaryKey"`
	QuestionID         string  `gorm:"type:uuid;not null;index"`
	OptionText         string  `gorm:"type:varchar(255);not null"`
	OptionImage        *string `gorm:"type:varchar(255)"` // Nullable, обязателен для IMAGE_NAME
	PriceModifierValue float64 `gorm:"type:decimal(10,2);not null;default:0"`
	// FIXED, PERCENTAGE, MULTIPLIER
	PriceModifierType string `gorm:"type:varchar(20);not null;default:'FIXED'"`
	Position          int    `gorm:"not null;default:0"` // Порядок показа
}

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
