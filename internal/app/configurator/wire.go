package configurator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
)

// Форматы полей multipart-запроса POST/PATCH /questions:
//   questionText, questionType, categoryId (только при создании),
//   data          - JSON {"options":[...]}
//   pricingConfig - JSON, только для NUMBER_INPUT
//   optionImages[<i>] - файлы для вариантов с новым изображением

// OptionWire - вариант ответа в поле data. _id присутствует только у
// сохраненных опций; backend делает upsert по его наличию. optionImage
// передается строкой пути, когда изображение не менялось.
type OptionWire struct {
	ID                 string            `json:"_id,omitempty"`
	OptionText         string            `json:"optionText"`
	PriceModifierValue float64           `json:"priceModifierValue"`
	PriceModifierType  PriceModifierType `json:"priceModifierType"`
	OptionImage        string            `json:"optionImage,omitempty"`
}

type OptionsData struct {
	Options []OptionWire `json:"options"`
}

type TierWire struct {
	Max          *float64 `json:"max"`
	PricePerUnit float64  `json:"pricePerUnit"`
}

// PricingWire - поле pricingConfig. Для FLAT заполнен pricePerUnit,
// для TIERED - tiers.
type PricingWire struct {
	Type         PricingType `json:"type"`
	PricePerUnit *float64    `json:"pricePerUnit,omitempty"`
	Tiers        []TierWire  `json:"tiers,omitempty"`
}

func (w *PricingWire) toConfig() *PricingConfig {
	cfg := &PricingConfig{Type: w.Type}
	if w.PricePerUnit != nil {
		cfg.PricePerUnit = *w.PricePerUnit
	}
	for _, t := range w.Tiers {
		cfg.Tiers = append(cfg.Tiers, Tier{Max: t.Max, PricePerUnit: t.PricePerUnit})
	}
	return cfg
}

func pricingToWire(cfg *PricingConfig) *PricingWire {
	if cfg == nil {
		return nil
	}
	w := &PricingWire{Type: cfg.Type}
	if cfg.Type == PricingFlat {
		price := cfg.PricePerUnit
		w.PricePerUnit = &price
		return w
	}
	w.Tiers = make([]TierWire, len(cfg.Tiers))
	for i, t := range cfg.Tiers {
		w.Tiers[i] = TierWire{Max: t.Max, PricePerUnit: t.PricePerUnit}
	}
	return w
}

// PersistedQuestion - сохраненный вопрос в том виде, в каком его отдает API
type PersistedQuestion struct {
	ID            string            `json:"_id"`
	CategoryID    string            `json:"categoryId"`
	QuestionText  string            `json:"questionText"`
	QuestionType  QuestionType      `json:"questionType"`
	Options       []PersistedOption `json:"options"`
	PricingConfig *PricingWire      `json:"pricingConfig,omitempty"`
}

type PersistedOption struct {
	ID                 string            `json:"_id"`
	OptionText         string            `json:"optionText"`
	OptionImage        string            `json:"optionImage,omitempty"`
	PriceModifierValue float64           `json:"priceModifierValue"`
	PriceModifierType  PriceModifierType `json:"priceModifierType"`
}

// EncodeMultipart сериализует черновик в формат запроса. Возвращает
// content type с границей, пригодный для заголовка Content-Type.
func (d *Draft) EncodeMultipart(out io.Writer) (string, error) {
	mw := multipart.NewWriter(out)

	if err := mw.WriteField("questionText", d.questionText); err != nil {
		return "", err
	}
	if err := mw.WriteField("questionType", string(d.questionType)); err != nil {
		return "", err
	}
	if !d.EditMode() {
		if err := mw.WriteField("categoryId", d.categoryID); err != nil {
			return "", err
		}
	}

	if d.questionType == NumberInput {
		pricingJSON, err := json.Marshal(pricingToWire(d.pricing))
		if err != nil {
			return "", err
		}
		if err := mw.WriteField("pricingConfig", string(pricingJSON)); err != nil {
			return "", err
		}
		if err := writeOptionsData(mw, OptionsData{Options: []OptionWire{}}); err != nil {
			return "", err
		}
		return mw.FormDataContentType(), mw.Close()
	}

	data := OptionsData{Options: make([]OptionWire, len(d.options))}
	for i, opt := range d.options {
		wireOpt := OptionWire{
			ID:                 opt.ID,
			OptionText:         opt.OptionText,
			PriceModifierValue: opt.PriceModifierValue,
			PriceModifierType:  opt.PriceModifierType,
		}
		// путь передается только если изображение не заменяется файлом
		if opt.Image.Hosted != "" && opt.Image.Pending == nil {
			wireOpt.OptionImage = opt.Image.Hosted
		}
		data.Options[i] = wireOpt
	}
	if err := writeOptionsData(mw, data); err != nil {
		return "", err
	}

	if d.questionType == ImageName {
		for i, opt := range d.options {
			if opt.Image.Pending == nil {
				continue
			}
			part, err := mw.CreateFormFile(imageFieldName(i), opt.Image.Pending.Filename)
			if err != nil {
				return "", err
			}
			if _, err := part.Write(opt.Image.Pending.Data); err != nil {
				return "", err
			}
		}
	}

	return mw.FormDataContentType(), mw.Close()
}

func writeOptionsData(mw *multipart.Writer, data OptionsData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return mw.WriteField("data", string(raw))
}

func imageFieldName(index int) string {
	return fmt.Sprintf("optionImages[%d]", index)
}

// SubmitPayload - разобранная серверная форма запроса создания/обновления
type SubmitPayload struct {
	QuestionText string
	QuestionType QuestionType
	CategoryID   string
	Options      []OptionWire
	Pricing      *PricingWire
	// Images - файлы изображений по индексу варианта
	Images map[int]*multipart.FileHeader
}

// DecodeMultipart разбирает multipart-форму запроса в SubmitPayload
func DecodeMultipart(form *multipart.Form) (*SubmitPayload, error) {
	p := &SubmitPayload{
		QuestionText: formValue(form, "questionText"),
		QuestionType: QuestionType(formValue(form, "questionType")),
		CategoryID:   formValue(form, "categoryId"),
		Images:       map[int]*multipart.FileHeader{},
	}

	if !p.QuestionType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.QuestionType)
	}

	dataRaw := formValue(form, "data")
	if dataRaw != "" {
		var data OptionsData
		if err := json.Unmarshal([]byte(dataRaw), &data); err != nil {
			return nil, fmt.Errorf("invalid data field: %w", err)
		}
		p.Options = data.Options
	}

	if pricingRaw := formValue(form, "pricingConfig"); pricingRaw != "" {
		var pricing PricingWire
		if err := json.Unmarshal([]byte(pricingRaw), &pricing); err != nil {
			return nil, fmt.Errorf("invalid pricingConfig field: %w", err)
		}
		p.Pricing = &pricing
	}

	for field, headers := range form.File {
		index, ok := parseImageField(field)
		if !ok || len(headers) == 0 {
			continue
		}
		p.Images[index] = headers[0]
	}

	return p, nil
}

func formValue(form *multipart.Form, field string) string {
	if values, ok := form.Value[field]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

func parseImageField(field string) (int, bool) {
	if !strings.HasPrefix(field, "optionImages[") || !strings.HasSuffix(field, "]") {
		return 0, false
	}
	index, err := strconv.Atoi(field[len("optionImages[") : len(field)-1])
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// Validate повторяет на сервере правила формы конфигуратора
func (p *SubmitPayload) Validate() error {
	if strings.TrimSpace(p.QuestionText) == "" {
		return ErrQuestionTextRequired
	}

	if p.QuestionType == NumberInput {
		if p.Pricing == nil {
			return ErrPricingRequired
		}
		if p.Pricing.Type == PricingTiered && len(p.Pricing.Tiers) == 0 {
			return ErrPricingRequired
		}
		return nil
	}

	if len(p.Options) == 0 {
		return ErrOptionsRequired
	}
	for i, opt := range p.Options {
		if strings.TrimSpace(opt.OptionText) == "" {
			return ErrOptionTextRequired
		}
		if !opt.PriceModifierType.Valid() {
			return fmt.Errorf("unknown price modifier type: %q", opt.PriceModifierType)
		}
		if p.QuestionType == ImageName {
			if opt.OptionImage == "" {
				if _, ok := p.Images[i]; !ok {
					return ErrOptionImageRequired
				}
			}
		}
	}
	return nil
}
