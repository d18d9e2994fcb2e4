package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/ds"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/dto"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН КАТЕГОРИИ ============

// GetCategories возвращает все категории услуг
// @Summary Список категорий
// @Description Возвращает все категории услуг
// @Tags Categories
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/categories [get]
func (h *APIHandler) GetCategories(c *gin.Context) {
	categories, err := h.Repository.GetAllCategories()
	if err != nil {
		logrus.Error("Error getting categories: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load categories")
		return
	}

	dtoCategories := make([]dto.CategoryResponse, len(categories))
	for i, cat := range categories {
		dtoCategories[i] = toCategoryResponse(&cat)
	}

	h.successResponse(c, http.StatusOK, "", dtoCategories)
}

// CreateCategory создает категорию (multipart: name + image)
// @Summary Создание категории
// @Description Создает категорию услуг с изображением
// @Tags Categories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Название категории"
// @Param image formData file false "Изображение категории"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/categories [post]
func (h *APIHandler) CreateCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		h.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	var imagePath *string
	if fileHeader, err := c.FormFile("image"); err == nil {
		path, err := h.uploadFormImage(fileHeader, "category")
		if err != nil {
			logrus.Error("Error uploading category image: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to upload image")
			return
		}
		imagePath = &path
	}

	category, err := h.Repository.CreateCategory(name, imagePath)
	if err != nil {
		logrus.Error("Error creating category: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.successResponse(c, http.StatusCreated, "category created", toCategoryResponse(category))
}

// UpdateCategory обновляет категорию (multipart: name, опционально image)
// @Summary Обновление категории
// @Description Обновляет название и/или изображение категории
// @Tags Categories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID категории"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/categories/{id} [patch]
func (h *APIHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.Repository.GetCategoryByID(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	var name *string
	if v := strings.TrimSpace(c.PostForm("name")); v != "" {
		name = &v
	}

	var imagePath *string
	if fileHeader, err := c.FormFile("image"); err == nil {
		path, err := h.uploadFormImage(fileHeader, "category")
		if err != nil {
			logrus.Error("Error uploading category image: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to upload image")
			return
		}
		imagePath = &path

		if existing.Image != nil && *existing.Image != "" {
			h.removeHostedImages([]string{*existing.Image})
		}
	}

	if err := h.Repository.UpdateCategory(id, name, imagePath); err != nil {
		logrus.Error("Error updating category: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to update category")
		return
	}

	h.successResponse(c, http.StatusOK, "category updated", nil)
}

// DeleteCategory удаляет категорию
// @Summary Удаление категории
// @Description Удаляет категорию услуг и ее изображение
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID категории"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/categories/{id} [delete]
func (h *APIHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	category, err := h.Repository.GetCategoryByID(id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	if err := h.Repository.DeleteCategory(id); err != nil {
		logrus.Error("Error deleting category: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to delete category")
		return
	}

	if category.Image != nil && *category.Image != "" {
		h.removeHostedImages([]string{*category.Image})
	}

	h.successResponse(c, http.StatusOK, "category deleted", nil)
}

// ============ ДОМЕН ПОДКАТЕГОРИИ ============

// GetSubCategories возвращает все подкатегории
// @Summary Список подкатегорий
// @Tags SubCategories
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/subcategories [get]
func (h *APIHandler) GetSubCategories(c *gin.Context) {
	subcategories, err := h.Repository.GetAllSubCategories()
	if err != nil {
		logrus.Error("Error getting subcategories: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load subcategories")
		return
	}

	dtoSubs := make([]dto.SubCategoryResponse, len(subcategories))
	for i, sub := range subcategories {
		dtoSubs[i] = toSubCategoryResponse(&sub)
	}

	h.successResponse(c, http.StatusOK, "", dtoSubs)
}

// CreateSubCategory создает подкатегорию
// @Summary Создание подкатегории
// @Tags SubCategories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubCategoryRequest true "Данные подкатегории"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/subcategories [post]
func (h *APIHandler) CreateSubCategory(c *gin.Context) {
	var req dto.CreateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	sub := ds.SubCategory{
		Name:      req.Name,
		BasePrice: req.BasePrice,
		BaseArea:  req.BaseArea,
	}
	if err := h.Repository.CreateSubCategory(&sub); err != nil {
		logrus.Error("Error creating subcategory: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to create subcategory")
		return
	}

	h.successResponse(c, http.StatusCreated, "subcategory created", toSubCategoryResponse(&sub))
}

// UpdateSubCategory обновляет подкатегорию
// @Summary Обновление подкатегории
// @Tags SubCategories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID подкатегории"
// @Param request body dto.UpdateSubCategoryRequest true "Данные для обновления"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/subcategories/{id} [patch]
func (h *APIHandler) UpdateSubCategory(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	var name *string
	if req.Name != "" {
		name = &req.Name
	}

	err := h.Repository.UpdateSubCategory(id, name, req.BasePrice, req.BaseArea, nil)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			h.errorResponse(c, http.StatusNotFound, "subcategory not found")
			return
		}
		logrus.Error("Error updating subcategory: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to update subcategory")
		return
	}

	h.successResponse(c, http.StatusOK, "subcategory updated", nil)
}

// DeleteSubCategory удаляет подкатегорию
// @Summary Удаление подкатегории
// @Tags SubCategories
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID подкатегории"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/subcategories/{id} [delete]
func (h *APIHandler) DeleteSubCategory(c *gin.Context) {
	id := c.Param("id")

	err := h.Repository.DeleteSubCategory(id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			h.errorResponse(c, http.StatusNotFound, "subcategory not found")
			return
		}
		logrus.Error("Error deleting subcategory: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to delete subcategory")
		return
	}

	h.successResponse(c, http.StatusOK, "subcategory deleted", nil)
}

// ============ РАЗДАЧА ИЗОБРАЖЕНИЙ ============

// ServeImage отдает изображение из MinIO по публичному пути
// @Summary Изображение
// @Description Отдает изображение категории или варианта ответа
// @Tags Images
// @Produce image/*
// @Param name path string true "Имя объекта"
// @Success 200
// @Failure 404 {object} dto.APIResponse
// @Router /images/{name} [get]
func (h *APIHandler) ServeImage(c *gin.Context) {
	name := c.Param("name")

	if h.MinIOClient == nil {
		h.errorResponse(c, http.StatusNotFound, "image storage is not configured")
		return
	}

	exists, err := h.MinIOClient.FileExists(name)
	if err != nil || !exists {
		h.errorResponse(c, http.StatusNotFound, "image not found")
		return
	}

	data, err := h.MinIOClient.DownloadFile(name)
	if err != nil {
		logrus.Error("Error downloading image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load image")
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func toCategoryResponse(cat *ds.Category) dto.CategoryResponse {
	image := ""
	if cat.Image != nil {
		image = *cat.Image
	}
	return dto.CategoryResponse{
		ID:    cat.ID,
		Name:  cat.Name,
		Image: image,
	}
}

func toSubCategoryResponse(sub *ds.SubCategory) dto.SubCategoryResponse {
	image := ""
	if sub.Image != nil {
		image = *sub.Image
	}
	return dto.SubCategoryResponse{
		ID:        sub.ID,
		Name:      sub.Name,
		Image:     image,
		BasePrice: sub.BasePrice,
		BaseArea:  sub.BaseArea,
	}
}
