package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/configurator"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/ds"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Публичный путь, по которому админ-панель запрашивает изображения
const imagePathPrefix = "/images/"

// ============ ДОМЕН ВОПРОСЫ ДОП. УСЛУГ ============

// CreateQuestion создает вопрос доп. услуги
// @Summary Создание вопроса доп. услуги
// @Description Принимает multipart-форму конфигуратора и создает вопрос с вариантами или ценовой конфигурацией
// @Tags Questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param questionText formData string true "Текст вопроса"
// @Param questionType formData string true "Тип вопроса"
// @Param categoryId formData string true "ID категории"
// @Param data formData string true "JSON с вариантами ответа"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/questions [post]
func (h *APIHandler) CreateQuestion(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	payload, err := configurator.DecodeMultipart(form)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if payload.QuestionType == configurator.SingleChoice {
		h.errorResponse(c, http.StatusBadRequest, configurator.ErrLegacyType.Error())
		return
	}

	if payload.CategoryID == "" {
		h.errorResponse(c, http.StatusBadRequest, "categoryId is required")
		return
	}
	exists, err := h.Repository.CategoryExists(payload.CategoryID)
	if err != nil || !exists {
		h.errorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	question := ds.Question{
		CategoryID:   payload.CategoryID,
		QuestionText: payload.QuestionText,
		QuestionType: string(payload.QuestionType),
	}

	if payload.QuestionType == configurator.NumberInput {
		pricingJSON, err := json.Marshal(payload.Pricing)
		if err != nil {
			h.errorResponse(c, http.StatusInternalServerError, "failed to encode pricing config")
			return
		}
		pricingStr := string(pricingJSON)
		question.PricingConfig = &pricingStr
	} else {
		options, err := h.buildOptions(payload)
		if err != nil {
			logrus.Error("Error uploading option images: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to upload option images")
			return
		}
		question.Options = options
	}

	if err := h.Repository.CreateQuestion(&question); err != nil {
		logrus.Error("Error creating question: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to create question")
		return
	}

	h.successResponse(c, http.StatusCreated, "extra service created", toPersistedQuestion(&question))
}

// UpdateQuestion обновляет вопрос доп. услуги. Текст, тип вопроса и тип
// ценообразования после создания не меняются - изменяются только варианты
// либо числовые значения ценовой конфигурации.
// @Summary Обновление вопроса доп. услуги
// @Description Принимает multipart-форму конфигуратора, upsert вариантов по наличию _id
// @Tags Questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вопроса"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/questions/{id} [patch]
func (h *APIHandler) UpdateQuestion(c *gin.Context) {
	id := c.Param("id")

	question, err := h.Repository.GetQuestionByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			h.errorResponse(c, http.StatusNotFound, "question not found")
			return
		}
		logrus.Error("Error loading question: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load question")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	payload, err := configurator.DecodeMultipart(form)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if string(payload.QuestionType) != question.QuestionType {
		h.errorResponse(c, http.StatusBadRequest, "question type cannot be changed after creation")
		return
	}

	if payload.QuestionType == configurator.NumberInput {
		if err := h.updateQuestionPricing(question, payload); err != nil {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		options, err := h.buildOptions(payload)
		if err != nil {
			logrus.Error("Error uploading option images: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to upload option images")
			return
		}

		removedImages, err := h.Repository.UpdateQuestionOptions(question.ID, options)
		if err != nil {
			logrus.Error("Error updating question options: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to update question")
			return
		}
		h.removeHostedImages(removedImages)
	}

	updated, err := h.Repository.GetQuestionByID(id)
	if err != nil {
		logrus.Error("Error reloading question: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load question")
		return
	}

	h.successResponse(c, http.StatusOK, "extra service updated", toPersistedQuestion(updated))
}

// updateQuestionPricing проверяет неизменность типа ценообразования и
// сохраняет новые числовые значения
func (h *APIHandler) updateQuestionPricing(question *ds.Question, payload *configurator.SubmitPayload) error {
	var stored configurator.PricingWire
	if question.PricingConfig != nil {
		if err := json.Unmarshal([]byte(*question.PricingConfig), &stored); err != nil {
			return errors.New("stored pricing config is corrupted")
		}
		if stored.Type != payload.Pricing.Type {
			return errors.New("pricing type cannot be changed after creation")
		}
	}

	pricingJSON, err := json.Marshal(payload.Pricing)
	if err != nil {
		return errors.New("failed to encode pricing config")
	}
	return h.Repository.UpdateQuestionPricing(question.ID, string(pricingJSON))
}

// GetQuestionsByCategory возвращает вопросы категории
// @Summary Список вопросов категории
// @Description Возвращает вопросы доп. услуг категории для листинга и режима редактирования
// @Tags Questions
// @Produce json
// @Param categoryId path string true "ID категории"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/questions/categories/{categoryId} [get]
func (h *APIHandler) GetQuestionsByCategory(c *gin.Context) {
	categoryID := c.Param("categoryId")

	exists, err := h.Repository.CategoryExists(categoryID)
	if err != nil || !exists {
		h.errorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	questions, err := h.Repository.GetQuestionsByCategory(categoryID)
	if err != nil {
		logrus.Error("Error getting questions: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load questions")
		return
	}

	persisted := make([]configurator.PersistedQuestion, len(questions))
	for i := range questions {
		persisted[i] = *toPersistedQuestion(&questions[i])
	}

	h.successResponse(c, http.StatusOK, "", persisted)
}

// DeleteQuestion удаляет вопрос доп. услуги
// @Summary Удаление вопроса доп. услуги
// @Description Удаляет вопрос с вариантами и их изображениями
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вопроса"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/questions/{id} [delete]
func (h *APIHandler) DeleteQuestion(c *gin.Context) {
	id := c.Param("id")

	removedImages, err := h.Repository.DeleteQuestion(id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			h.errorResponse(c, http.StatusNotFound, "question not found")
			return
		}
		logrus.Error("Error deleting question: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to delete question")
		return
	}
	h.removeHostedImages(removedImages)

	h.successResponse(c, http.StatusOK, "extra service deleted", nil)
}

// buildOptions собирает варианты из формы, загружая новые изображения
// в MinIO. Путь уже размещенного изображения передается строкой и
// сохраняется как есть.
func (h *APIHandler) buildOptions(payload *configurator.SubmitPayload) ([]ds.QuestionOption, error) {
	options := make([]ds.QuestionOption, len(payload.Options))
	for i, wireOpt := range payload.Options {
		opt := ds.QuestionOption{
			ID:                 wireOpt.ID,
			OptionText:         wireOpt.OptionText,
			PriceModifierValue: wireOpt.PriceModifierValue,
			PriceModifierType:  string(wireOpt.PriceModifierType),
			Position:           i,
		}

		// изображения имеют смысл только для IMAGE_NAME
		if payload.QuestionType == configurator.ImageName {
			if fileHeader, ok := payload.Images[i]; ok {
				path, err := h.uploadFormImage(fileHeader, "option")
				if err != nil {
					return nil, err
				}
				opt.OptionImage = &path
			} else if wireOpt.OptionImage != "" {
				image := wireOpt.OptionImage
				opt.OptionImage = &image
			}
		}

		options[i] = opt
	}
	return options, nil
}

// uploadFormImage загружает файл из multipart-формы в MinIO и
// возвращает публичный путь изображения.
func (h *APIHandler) uploadFormImage(fileHeader *multipart.FileHeader, prefix string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	if h.MinIOClient == nil {
		// Fallback если MinIO не настроен
		return imagePathPrefix + "uploaded_" + fileHeader.Filename, nil
	}

	objectName, err := h.MinIOClient.UploadFile(fileData, fileHeader.Filename, prefix)
	if err != nil {
		return "", err
	}
	return imagePathPrefix + objectName, nil
}

// removeHostedImages удаляет объекты из MinIO по публичным путям
func (h *APIHandler) removeHostedImages(paths []string) {
	if h.MinIOClient == nil {
		return
	}
	for _, path := range paths {
		objectName := strings.TrimPrefix(path, imagePathPrefix)
		if objectName == "" {
			continue
		}
		if err := h.MinIOClient.DeleteFile(objectName); err != nil {
			logrus.Warnf("Failed to delete image %s from MinIO: %v", objectName, err)
		}
	}
}

// toPersistedQuestion преобразует запись БД в формат ответа API
func toPersistedQuestion(q *ds.Question) *configurator.PersistedQuestion {
	persisted := &configurator.PersistedQuestion{
		ID:           q.ID,
		CategoryID:   q.CategoryID,
		QuestionText: q.QuestionText,
		QuestionType: configurator.QuestionType(q.QuestionType),
		Options:      make([]configurator.PersistedOption, len(q.Options)),
	}

	for i, opt := range q.Options {
		image := ""
		if opt.OptionImage != nil {
			image = *opt.OptionImage
		}
		persisted.Options[i] = configurator.PersistedOption{
			ID:                 opt.ID,
			OptionText:         opt.OptionText,
			OptionImage:        image,
			PriceModifierValue: opt.PriceModifierValue,
			PriceModifierType:  configurator.PriceModifierType(opt.PriceModifierType),
		}
	}

	if q.PricingConfig != nil {
		var pricing configurator.PricingWire
		if err := json.Unmarshal([]byte(*q.PricingConfig), &pricing); err == nil {
			persisted.PricingConfig = &pricing
		} else {
			logrus.Warnf("Question %s has corrupted pricing config", q.ID)
		}
	}

	return persisted
}
