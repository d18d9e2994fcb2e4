package configurator

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func parseForm(t *testing.T, contentType string, body *bytes.Buffer) *multipart.Form {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form
}

func TestEncodeDecodeMultipleChoice(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SetQuestionText("Floor type?")
	_ = d.AddOption()
	_ = d.SetOptionText(0, "Laminate")
	_ = d.SetOptionModifier(0, 10, ModifierFixed)
	_ = d.SetOptionText(1, "Oak")
	_ = d.SetOptionModifier(1, 5, ModifierPercentage)

	var body bytes.Buffer
	contentType, err := d.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	form := parseForm(t, contentType, &body)

	if got := form.Value["categoryId"][0]; got != "cat-1" {
		t.Fatalf("categoryId = %q, want cat-1", got)
	}
	if got := form.Value["questionType"][0]; got != "MULTIPLE_CHOICE" {
		t.Fatalf("questionType = %q", got)
	}
	if _, ok := form.Value["pricingConfig"]; ok {
		t.Fatal("pricingConfig must be absent for option-based types")
	}

	payload, err := DecodeMultipart(form)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(payload.Options))
	}
	if payload.Options[0].ID != "" {
		t.Fatal("unsaved option must not carry _id")
	}
	if payload.Options[1].OptionText != "Oak" || payload.Options[1].PriceModifierType != ModifierPercentage {
		t.Fatalf("option[1] = %+v", payload.Options[1])
	}
	if err := payload.Validate(); err != nil {
		t.Fatalf("payload validate: %v", err)
	}
}

func TestEncodeFlatZeroPriceSerialized(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(NumberInput)
	_ = d.SetQuestionText("How many square meters?")

	var body bytes.Buffer
	contentType, err := d.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	form := parseForm(t, contentType, &body)

	raw := form.Value["pricingConfig"][0]
	if !strings.Contains(raw, `"pricePerUnit":0`) {
		t.Fatalf("pricingConfig = %s, must carry explicit zero pricePerUnit", raw)
	}
	if got := form.Value["data"][0]; got != `{"options":[]}` {
		t.Fatalf("data = %s, want empty options list", got)
	}
}

func TestEncodeDecodeTieredPricing(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(NumberInput)
	_ = d.SwitchPricingType(PricingTiered)
	_ = d.SetQuestionText("How many square meters?")
	_ = d.SetTierMax(0, floatPtr(50))
	_ = d.SetTierPrice(0, 3)
	_ = d.AddTier()
	_ = d.SetTierPrice(1, 2)

	var body bytes.Buffer
	contentType, err := d.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	form := parseForm(t, contentType, &body)

	var wire PricingWire
	if err := json.Unmarshal([]byte(form.Value["pricingConfig"][0]), &wire); err != nil {
		t.Fatalf("unmarshal pricingConfig: %v", err)
	}
	if wire.Type != PricingTiered || len(wire.Tiers) != 2 {
		t.Fatalf("pricing wire = %+v", wire)
	}
	if wire.Tiers[0].Max == nil || *wire.Tiers[0].Max != 50 {
		t.Fatalf("tier[0].max = %v, want 50", wire.Tiers[0].Max)
	}
	// последняя ступень без ограничения сериализуется как null
	if wire.Tiers[1].Max != nil {
		t.Fatalf("tier[1].max = %v, want null", wire.Tiers[1].Max)
	}

	payload, err := DecodeMultipart(form)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Pricing == nil || payload.Pricing.Type != PricingTiered {
		t.Fatalf("decoded pricing = %+v", payload.Pricing)
	}
	if err := payload.Validate(); err != nil {
		t.Fatalf("payload validate: %v", err)
	}
}

func TestEncodeImageNameFileParts(t *testing.T) {
	d, _ := EditDraft(&PersistedQuestion{
		ID:           "q-1",
		CategoryID:   "cat-1",
		QuestionText: "Floor type?",
		QuestionType: ImageName,
		Options: []PersistedOption{
			{ID: "opt-1", OptionText: "Laminate", OptionImage: "/images/laminate.png", PriceModifierType: ModifierFixed},
			{ID: "opt-2", OptionText: "Oak", OptionImage: "/images/oak.png", PriceModifierType: ModifierFixed},
		},
	})
	// вторая опция получает новый файл, первая остается как есть
	_ = d.SetOptionImage(1, ImageUpload{Filename: "oak-new.png", Data: []byte("png-bytes")})

	var body bytes.Buffer
	contentType, err := d.EncodeMultipart(&body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	form := parseForm(t, contentType, &body)

	// режим редактирования: categoryId не отправляется
	if _, ok := form.Value["categoryId"]; ok {
		t.Fatal("categoryId must be absent in edit mode")
	}

	var data OptionsData
	if err := json.Unmarshal([]byte(form.Value["data"][0]), &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Options[0].ID != "opt-1" || data.Options[0].OptionImage != "/images/laminate.png" {
		t.Fatalf("option[0] = %+v, unchanged hosted path must be sent", data.Options[0])
	}
	// заменяемое изображение не передается строкой, только файлом
	if data.Options[1].OptionImage != "" {
		t.Fatalf("option[1].optionImage = %q, want empty", data.Options[1].OptionImage)
	}

	payload, err := DecodeMultipart(form)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	header, ok := payload.Images[1]
	if !ok {
		t.Fatal("file part for option 1 missing")
	}
	if header.Filename != "oak-new.png" {
		t.Fatalf("filename = %q", header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		t.Fatalf("open file part: %v", err)
	}
	defer file.Close()
	content, _ := io.ReadAll(file)
	if string(content) != "png-bytes" {
		t.Fatalf("file content = %q", content)
	}

	if err := payload.Validate(); err != nil {
		t.Fatalf("payload validate: %v", err)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	form := &multipart.Form{
		Value: map[string][]string{
			"questionText": {"Floor type?"},
			"questionType": {"CHECKBOX"},
		},
	}
	if _, err := DecodeMultipart(form); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestSubmitPayloadValidateImageMissing(t *testing.T) {
	p := &SubmitPayload{
		QuestionText: "Floor type?",
		QuestionType: ImageName,
		CategoryID:   "cat-1",
		Options:      []OptionWire{{OptionText: "Laminate", PriceModifierType: ModifierFixed}},
		Images:       map[int]*multipart.FileHeader{},
	}
	if err := p.Validate(); !errors.Is(err, ErrOptionImageRequired) {
		t.Fatalf("err = %v, want ErrOptionImageRequired", err)
	}
}
