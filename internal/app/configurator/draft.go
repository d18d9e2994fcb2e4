package configurator

import (
	"errors"
	"fmt"
	"strings"
)

// Тип вопроса определяет активную форму данных: варианты ответа или
// ценовая конфигурация для числового ввода
type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE" // legacy, только для существующих вопросов
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	ImageName      QuestionType = "IMAGE_NAME"
	NumberInput    QuestionType = "NUMBER_INPUT"
)

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, ImageName, NumberInput:
		return true
	}
	return false
}

// HasOptions сообщает, является ли список вариантов активной формой данных
func (t QuestionType) HasOptions() bool {
	return t != NumberInput
}

type PriceModifierType string

const (
	ModifierFixed      PriceModifierType = "FIXED"
	ModifierPercentage PriceModifierType = "PERCENTAGE"
	ModifierMultiplier PriceModifierType = "MULTIPLIER"
)

func (t PriceModifierType) Valid() bool {
	switch t {
	case ModifierFixed, ModifierPercentage, ModifierMultiplier:
		return true
	}
	return false
}

type PricingType string

const (
	PricingFlat   PricingType = "FLAT"
	PricingTiered PricingType = "TIERED"
)

// Tier - ценовая ступень для количественного ввода. Max = nil означает
// "без ограничения" (имеет смысл только у последней ступени)
type Tier struct {
	Max          *float64
	PricePerUnit float64
}

type PricingConfig struct {
	Type         PricingType
	PricePerUnit float64 // только для FLAT
	Tiers        []Tier  // только для TIERED
}

func defaultFlatPricing() *PricingConfig {
	return &PricingConfig{Type: PricingFlat, PricePerUnit: 0}
}

func defaultTieredPricing() *PricingConfig {
	return &PricingConfig{
		Type:  PricingTiered,
		Tiers: []Tier{{Max: nil, PricePerUnit: 0}},
	}
}

// ImageUpload - файл изображения, ожидающий отправки
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ImageRef описывает изображение варианта: уже загруженный путь,
// ожидающий файл или ничего. Повторное назначение файла вытесняет
// предыдущий (последняя запись побеждает)
type ImageRef struct {
	Hosted  string
	Pending *ImageUpload
}

func (r ImageRef) Resolved() bool {
	return r.Hosted != "" || r.Pending != nil
}

// Option - один вариант ответа. ID заполнен только у сохраненных опций
type Option struct {
	ID                 string
	OptionText         string
	Image              ImageRef
	PriceModifierValue float64
	PriceModifierType  PriceModifierType
}

func blankOption() Option {
	return Option{PriceModifierType: ModifierFixed}
}

var (
	ErrCategoryRequired = errors.New("category is required")
	ErrEditImmutable    = errors.New("question text and type cannot be changed after creation")
	ErrLastOption       = errors.New("at least one option is required")
	ErrLegacyType       = errors.New("single choice questions can no longer be created")
	ErrUnknownType      = errors.New("unknown question type")
	ErrPayloadInactive  = errors.New("operation does not apply to the active payload")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNegativePrice    = errors.New("price values must not be negative")
)

// Ошибки Validate, по одной на правило из формы
var (
	ErrQuestionTextRequired = errors.New("please enter question text")
	ErrOptionsRequired      = errors.New("at least one option is required")
	ErrOptionTextRequired   = errors.New("all options must have text")
	ErrOptionImageRequired  = errors.New("all options must have images for IMAGE_NAME type")
	ErrPricingRequired      = errors.New("please configure pricing")
)

// Draft - редактируемое состояние вопроса доп. услуги. Ровно одна из двух
// форм данных активна: options (варианты с выбором) либо pricing
// (NUMBER_INPUT). Какая именно - определяется questionType.
type Draft struct {
	questionID   string // пустой в режиме создания
	categoryID   string
	questionText string
	questionType QuestionType

	options []Option
	pricing *PricingConfig
}

// NewDraft открывает конфигуратор в режиме создания: тип MULTIPLE_CHOICE,
// один пустой вариант
func NewDraft(categoryID string) (*Draft, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, ErrCategoryRequired
	}
	return &Draft{
		categoryID:   categoryID,
		questionType: MultipleChoice,
		options:      []Option{blankOption()},
	}, nil
}

// EditDraft открывает конфигуратор в режиме редактирования существующего
// вопроса. Текст, тип вопроса и тип ценообразования после этого неизменяемы.
func EditDraft(q *PersistedQuestion) (*Draft, error) {
	if q == nil || q.ID == "" {
		return nil, errors.New("persisted question is required for edit mode")
	}
	if !q.QuestionType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, q.QuestionType)
	}

	d := &Draft{
		questionID:   q.ID,
		categoryID:   q.CategoryID,
		questionText: q.QuestionText,
		questionType: q.QuestionType,
	}

	if q.QuestionType == NumberInput {
		if q.PricingConfig != nil {
			d.pricing = q.PricingConfig.toConfig()
		} else {
			d.pricing = defaultFlatPricing()
		}
		return d, nil
	}

	d.options = make([]Option, len(q.Options))
	for i, opt := range q.Options {
		d.options[i] = Option{
			ID:                 opt.ID,
			OptionText:         opt.OptionText,
			Image:              ImageRef{Hosted: opt.OptionImage},
			PriceModifierValue: opt.PriceModifierValue,
			PriceModifierType:  opt.PriceModifierType,
		}
	}
	return d, nil
}

// EditMode сообщает, соответствует ли черновик сохраненному вопросу
func (d *Draft) EditMode() bool { return d.questionID != "" }

func (d *Draft) QuestionID() string         { return d.questionID }
func (d *Draft) CategoryID() string         { return d.categoryID }
func (d *Draft) QuestionText() string       { return d.questionText }
func (d *Draft) QuestionType() QuestionType { return d.questionType }

// Options возвращает варианты ответа, nil если активна ценовая форма
func (d *Draft) Options() []Option {
	if !d.questionType.HasOptions() {
		return nil
	}
	return d.options
}

// Pricing возвращает ценовую конфигурацию, nil если активны варианты
func (d *Draft) Pricing() *PricingConfig {
	if d.questionType.HasOptions() {
		return nil
	}
	return d.pricing
}

func (d *Draft) SetQuestionText(text string) error {
	if d.EditMode() {
		return ErrEditImmutable
	}
	d.questionText = text
	return nil
}

// SwitchQuestionType меняет тип вопроса и сбрасывает входящую форму данных
// в ее пустое состояние. Недоступно в режиме редактирования.
func (d *Draft) SwitchQuestionType(newType QuestionType) error {
	if d.EditMode() {
		return ErrEditImmutable
	}
	if !newType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, newType)
	}
	if newType == SingleChoice {
		return ErrLegacyType
	}
	if newType == d.questionType {
		return nil
	}

	wasOptions := d.questionType.HasOptions()
	d.questionType = newType

	if newType.HasOptions() {
		if !wasOptions {
			// выход из NUMBER_INPUT: один пустой вариант, цены отбрасываются
			d.pricing = nil
			d.options = []Option{blankOption()}
		}
		return nil
	}

	// вход в NUMBER_INPUT: варианты отбрасываются
	d.options = nil
	d.pricing = defaultFlatPricing()
	return nil
}

// SwitchPricingType переключает FLAT/TIERED, отбрасывая данные прежнего
// типа. Как и тип вопроса, тип ценообразования фиксируется при создании.
func (d *Draft) SwitchPricingType(newType PricingType) error {
	if d.questionType != NumberInput {
		return ErrPayloadInactive
	}
	if d.EditMode() {
		return ErrEditImmutable
	}
	switch newType {
	case PricingFlat:
		d.pricing = defaultFlatPricing()
	case PricingTiered:
		d.pricing = defaultTieredPricing()
	default:
		return fmt.Errorf("unknown pricing type: %q", newType)
	}
	return nil
}

func (d *Draft) SetFlatPrice(price float64) error {
	if d.questionType != NumberInput || d.pricing.Type != PricingFlat {
		return ErrPayloadInactive
	}
	if price < 0 {
		return ErrNegativePrice
	}
	d.pricing.PricePerUnit = price
	return nil
}

// AddTier добавляет ступень без ограничения с нулевой ценой
func (d *Draft) AddTier() error {
	if d.questionType != NumberInput || d.pricing.Type != PricingTiered {
		return ErrPayloadInactive
	}
	d.pricing.Tiers = append(d.pricing.Tiers, Tier{Max: nil, PricePerUnit: 0})
	return nil
}

// SetTierMax задает верхнюю границу ступени, nil - без ограничения.
// Порядок и пересечение границ не проверяются.
func (d *Draft) SetTierMax(index int, max *float64) error {
	if err := d.checkTierIndex(index); err != nil {
		return err
	}
	if max != nil && *max < 0 {
		return ErrNegativePrice
	}
	d.pricing.Tiers[index].Max = max
	return nil
}

func (d *Draft) SetTierPrice(index int, price float64) error {
	if err := d.checkTierIndex(index); err != nil {
		return err
	}
	if price < 0 {
		return ErrNegativePrice
	}
	d.pricing.Tiers[index].PricePerUnit = price
	return nil
}

func (d *Draft) checkTierIndex(index int) error {
	if d.questionType != NumberInput || d.pricing.Type != PricingTiered {
		return ErrPayloadInactive
	}
	if index < 0 || index >= len(d.pricing.Tiers) {
		return ErrIndexOutOfRange
	}
	return nil
}

// AddOption добавляет пустой вариант в конец списка
func (d *Draft) AddOption() error {
	if !d.questionType.HasOptions() {
		return ErrPayloadInactive
	}
	d.options = append(d.options, blankOption())
	return nil
}

// RemoveOption отказывает, если после удаления не останется ни одного варианта
func (d *Draft) RemoveOption(index int) error {
	if err := d.checkOptionIndex(index); err != nil {
		return err
	}
	if len(d.options) <= 1 {
		return ErrLastOption
	}
	d.options = append(d.options[:index], d.options[index+1:]...)
	return nil
}

func (d *Draft) SetOptionText(index int, text string) error {
	if err := d.checkOptionIndex(index); err != nil {
		return err
	}
	d.options[index].OptionText = text
	return nil
}

func (d *Draft) SetOptionModifier(index int, value float64, modType PriceModifierType) error {
	if err := d.checkOptionIndex(index); err != nil {
		return err
	}
	if value < 0 {
		return ErrNegativePrice
	}
	if !modType.Valid() {
		return fmt.Errorf("unknown price modifier type: %q", modType)
	}
	d.options[index].PriceModifierValue = value
	d.options[index].PriceModifierType = modType
	return nil
}

// SetOptionImage назначает файл на отправку, вытесняя предыдущий.
// Уже размещенное изображение будет заменено при отправке.
func (d *Draft) SetOptionImage(index int, upload ImageUpload) error {
	if err := d.checkOptionIndex(index); err != nil {
		return err
	}
	d.options[index].Image.Pending = &upload
	return nil
}

// ClearOptionImage снимает изображение полностью (и ожидающий файл,
// и размещенный путь)
func (d *Draft) ClearOptionImage(index int) error {
	if err := d.checkOptionIndex(index); err != nil {
		return err
	}
	d.options[index].Image = ImageRef{}
	return nil
}

func (d *Draft) checkOptionIndex(index int) error {
	if !d.questionType.HasOptions() {
		return ErrPayloadInactive
	}
	if index < 0 || index >= len(d.options) {
		return ErrIndexOutOfRange
	}
	return nil
}

// Validate выполняет проверки формы перед отправкой
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.questionText) == "" {
		return ErrQuestionTextRequired
	}

	if d.questionType == NumberInput {
		if d.pricing == nil {
			return ErrPricingRequired
		}
		if d.pricing.Type == PricingTiered && len(d.pricing.Tiers) == 0 {
			return ErrPricingRequired
		}
		return nil
	}

	if len(d.options) == 0 {
		return ErrOptionsRequired
	}
	for _, opt := range d.options {
		if strings.TrimSpace(opt.OptionText) == "" {
			return ErrOptionTextRequired
		}
	}
	if d.questionType == ImageName {
		for _, opt := range d.options {
			if !opt.Image.Resolved() {
				return ErrOptionImageRequired
			}
		}
	}
	return nil
}
