package repository

import (
	"errors"
	"fmt"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/ds"

	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question not found")

// Методы для работы с вопросами доп. услуг

// GetQuestionsByCategory возвращает вопросы категории с вариантами
// в порядке показа
func (r *Repository) GetQuestionsByCategory(categoryID string) ([]ds.Question, error) {
	var questions []ds.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("category_id = ?", categoryID).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestionByID возвращает вопрос с вариантами
func (r *Repository) GetQuestionByID(id string) (*ds.Question, error) {
	var question ds.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// CreateQuestion сохраняет вопрос вместе с вариантами
func (r *Repository) CreateQuestion(question *ds.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options", "Category").Create(question).Error; err != nil {
			return err
		}
		for i := range question.Options {
			question.Options[i].QuestionID = question.ID
			question.Options[i].Position = i
			if err := tx.Create(&question.Options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateQuestionOptions приводит варианты вопроса к переданному списку:
// варианты с заполненным ID обновляются, без ID - создаются, отсутствующие
// в списке - удаляются. Возвращает пути изображений удаленных вариантов
// для очистки хранилища.
func (r *Repository) UpdateQuestionOptions(questionID string, options []ds.QuestionOption) ([]string, error) {
	var removedImages []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing []ds.QuestionOption
		if err := tx.Where("question_id = ?", questionID).Find(&existing).Error; err != nil {
			return err
		}

		keep := make(map[string]bool, len(options))
		for _, opt := range options {
			if opt.ID != "" {
				keep[opt.ID] = true
			}
		}

		// удаляем варианты, которых больше нет в форме
		for _, old := range existing {
			if keep[old.ID] {
				continue
			}
			if err := tx.Delete(&ds.QuestionOption{}, "id = ?", old.ID).Error; err != nil {
				return err
			}
			if old.OptionImage != nil && *old.OptionImage != "" {
				removedImages = append(removedImages, *old.OptionImage)
			}
		}

		existingByID := make(map[string]ds.QuestionOption, len(existing))
		for _, old := range existing {
			existingByID[old.ID] = old
		}

		for i := range options {
			options[i].QuestionID = questionID
			options[i].Position = i

			if options[i].ID == "" {
				if err := tx.Create(&options[i]).Error; err != nil {
					return err
				}
				continue
			}

			old, found := existingByID[options[i].ID]
			if !found {
				return fmt.Errorf("option %s does not belong to question %s", options[i].ID, questionID)
			}
			// при замене изображения старый файл идет под очистку
			if old.OptionImage != nil && *old.OptionImage != "" &&
				(options[i].OptionImage == nil || *options[i].OptionImage != *old.OptionImage) {
				removedImages = append(removedImages, *old.OptionImage)
			}
			err := tx.Model(&ds.QuestionOption{}).
				Where("id = ?", options[i].ID).
				Updates(map[string]interface{}{
					"option_text":          options[i].OptionText,
					"option_image":         options[i].OptionImage,
					"price_modifier_value": options[i].PriceModifierValue,
					"price_modifier_type":  options[i].PriceModifierType,
					"position":             i,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removedImages, nil
}

// UpdateQuestionPricing обновляет ценовую конфигурацию NUMBER_INPUT вопроса
func (r *Repository) UpdateQuestionPricing(questionID string, pricingConfig string) error {
	result := r.db.Model(&ds.Question{}).
		Where("id = ? AND question_type = ?", questionID, "NUMBER_INPUT").
		Update("pricing_config", pricingConfig)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// DeleteQuestion удаляет вопрос с вариантами. Возвращает пути изображений
// для очистки хранилища.
func (r *Repository) DeleteQuestion(id string) ([]string, error) {
	var removedImages []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var question ds.Question
		if err := tx.Preload("Options").Where("id = ?", id).First(&question).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		for _, opt := range question.Options {
			if opt.OptionImage != nil && *opt.OptionImage != "" {
				removedImages = append(removedImages, *opt.OptionImage)
			}
		}

		if err := tx.Where("question_id = ?", id).Delete(&ds.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ds.Question{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return removedImages, nil
}
