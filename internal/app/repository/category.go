package repository

import (
	"errors"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/ds"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
)

// Методы для категорий

func (r *Repository) GetAllCategories() ([]ds.Category, error) {
	var categories []ds.Category
	err := r.db.Order("created_at ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) GetCategoryByID(id string) (*ds.Category, error) {
	var category ds.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CategoryExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Category{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateCategory(name string, image *string) (*ds.Category, error) {
	category := ds.Category{
		Name:  name,
		Image: image,
	}
	if err := r.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory обновляет только переданные поля
func (r *Repository) UpdateCategory(id string, name *string, image *string) error {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if image != nil {
		updates["image"] = *image
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Category{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) DeleteCategory(id string) error {
	result := r.db.Delete(&ds.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Методы для подкатегорий

func (r *Repository) GetAllSubCategories() ([]ds.SubCategory, error) {
	var subcategories []ds.SubCategory
	err := r.db.Order("created_at ASC").Find(&subcategories).Error
	if err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (r *Repository) CreateSubCategory(sub *ds.SubCategory) error {
	return r.db.Create(sub).Error
}

func (r *Repository) UpdateSubCategory(id string, name *string, basePrice, baseArea *float64, image *string) error {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if basePrice != nil {
		updates["base_price"] = *basePrice
	}
	if baseArea != nil {
		updates["base_area"] = *baseArea
	}
	if image != nil {
		updates["image"] = *image
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.SubCategory{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubCategoryNotFound
	}
	return nil
}

func (r *Repository) DeleteSubCategory(id string) error {
	result := r.db.Delete(&ds.SubCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubCategoryNotFound
	}
	return nil
}
