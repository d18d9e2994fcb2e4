package configurator

import (
	"errors"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestNewDraftDefaults(t *testing.T) {
	d, err := NewDraft("cat-1")
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}
	if d.EditMode() {
		t.Fatal("new draft must be in create mode")
	}
	if d.QuestionType() != MultipleChoice {
		t.Fatalf("default type = %s, want MULTIPLE_CHOICE", d.QuestionType())
	}
	if len(d.Options()) != 1 {
		t.Fatalf("new draft must start with one blank option, got %d", len(d.Options()))
	}
	if d.Options()[0].PriceModifierType != ModifierFixed {
		t.Fatalf("blank option modifier = %s, want FIXED", d.Options()[0].PriceModifierType)
	}
	if d.Pricing() != nil {
		t.Fatal("pricing must be inactive for option-based types")
	}
}

func TestNewDraftRequiresCategory(t *testing.T) {
	if _, err := NewDraft("  "); !errors.Is(err, ErrCategoryRequired) {
		t.Fatalf("err = %v, want ErrCategoryRequired", err)
	}
}

func TestSwitchTypeResetsIncomingPayload(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.AddOption()
	_ = d.SetOptionText(0, "Laminate")
	_ = d.SetOptionText(1, "Oak")

	if err := d.SwitchQuestionType(NumberInput); err != nil {
		t.Fatalf("switch to NUMBER_INPUT: %v", err)
	}
	if d.Options() != nil {
		t.Fatal("options must be inactive after switching to NUMBER_INPUT")
	}
	p := d.Pricing()
	if p == nil || p.Type != PricingFlat || p.PricePerUnit != 0 {
		t.Fatalf("pricing after switch = %+v, want default FLAT", p)
	}

	_ = d.SetFlatPrice(42)
	if err := d.SwitchQuestionType(ImageName); err != nil {
		t.Fatalf("switch to IMAGE_NAME: %v", err)
	}
	if d.Pricing() != nil {
		t.Fatal("pricing must be inactive after leaving NUMBER_INPUT")
	}
	opts := d.Options()
	if len(opts) != 1 || opts[0].OptionText != "" {
		t.Fatalf("options after switch = %+v, want one blank option", opts)
	}
}

func TestSwitchTypeSameTypeKeepsState(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SetOptionText(0, "Laminate")

	if err := d.SwitchQuestionType(MultipleChoice); err != nil {
		t.Fatalf("same-type switch: %v", err)
	}
	if d.Options()[0].OptionText != "Laminate" {
		t.Fatal("same-type switch must not reset options")
	}
}

func TestSwitchBetweenOptionTypesKeepsOptions(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SetOptionText(0, "Laminate")

	if err := d.SwitchQuestionType(ImageName); err != nil {
		t.Fatalf("switch to IMAGE_NAME: %v", err)
	}
	if d.Options()[0].OptionText != "Laminate" {
		t.Fatal("switching between option-based types must keep options")
	}
}

func TestSwitchTypeRejectsLegacyAndUnknown(t *testing.T) {
	d, _ := NewDraft("cat-1")
	if err := d.SwitchQuestionType(SingleChoice); !errors.Is(err, ErrLegacyType) {
		t.Fatalf("err = %v, want ErrLegacyType", err)
	}
	if err := d.SwitchQuestionType("CHECKBOX"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestRemoveOptionFloor(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.AddOption()

	if err := d.RemoveOption(1); err != nil {
		t.Fatalf("remove second option: %v", err)
	}
	if err := d.RemoveOption(0); !errors.Is(err, ErrLastOption) {
		t.Fatalf("err = %v, want ErrLastOption", err)
	}
	if len(d.Options()) != 1 {
		t.Fatalf("option count = %d, want 1", len(d.Options()))
	}
}

func TestOptionOperationsInactiveForNumberInput(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(NumberInput)

	if err := d.AddOption(); !errors.Is(err, ErrPayloadInactive) {
		t.Fatalf("AddOption err = %v, want ErrPayloadInactive", err)
	}
	if err := d.SetOptionText(0, "x"); !errors.Is(err, ErrPayloadInactive) {
		t.Fatalf("SetOptionText err = %v, want ErrPayloadInactive", err)
	}
}

func TestPricingOperationsInactiveForOptionTypes(t *testing.T) {
	d, _ := NewDraft("cat-1")

	if err := d.SwitchPricingType(PricingTiered); !errors.Is(err, ErrPayloadInactive) {
		t.Fatalf("SwitchPricingType err = %v, want ErrPayloadInactive", err)
	}
	if err := d.SetFlatPrice(10); !errors.Is(err, ErrPayloadInactive) {
		t.Fatalf("SetFlatPrice err = %v, want ErrPayloadInactive", err)
	}
}

func TestTieredPricingEditing(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(NumberInput)
	if err := d.SwitchPricingType(PricingTiered); err != nil {
		t.Fatalf("switch pricing type: %v", err)
	}

	p := d.Pricing()
	if len(p.Tiers) != 1 || p.Tiers[0].Max != nil {
		t.Fatalf("default tiered config = %+v, want one unbounded tier", p)
	}

	_ = d.AddTier()
	if err := d.SetTierMax(0, floatPtr(50)); err != nil {
		t.Fatalf("SetTierMax: %v", err)
	}
	if err := d.SetTierPrice(0, 2.5); err != nil {
		t.Fatalf("SetTierPrice: %v", err)
	}
	if err := d.SetTierPrice(5, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := d.SetTierPrice(1, -1); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("err = %v, want ErrNegativePrice", err)
	}

	// границы ступеней намеренно не проверяются на порядок
	if err := d.SetTierMax(1, floatPtr(10)); err != nil {
		t.Fatalf("out-of-order tier max must be allowed: %v", err)
	}
}

func TestSwitchPricingTypeDiscardsData(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(NumberInput)
	_ = d.SetFlatPrice(99)

	_ = d.SwitchPricingType(PricingTiered)
	_ = d.SetTierPrice(0, 7)

	if err := d.SwitchPricingType(PricingFlat); err != nil {
		t.Fatalf("switch back to FLAT: %v", err)
	}
	if p := d.Pricing(); p.PricePerUnit != 0 || len(p.Tiers) != 0 {
		t.Fatalf("pricing = %+v, want reset FLAT config", p)
	}
}

func TestSetOptionImageLastWriteWins(t *testing.T) {
	d, _ := NewDraft("cat-1")
	_ = d.SwitchQuestionType(ImageName)

	_ = d.SetOptionImage(0, ImageUpload{Filename: "a.png", Data: []byte{1}})
	_ = d.SetOptionImage(0, ImageUpload{Filename: "b.png", Data: []byte{2}})

	img := d.Options()[0].Image
	if img.Pending == nil || img.Pending.Filename != "b.png" {
		t.Fatalf("pending image = %+v, want b.png", img.Pending)
	}

	_ = d.ClearOptionImage(0)
	if d.Options()[0].Image.Resolved() {
		t.Fatal("image must be unresolved after clear")
	}
}

func TestEditModeImmutability(t *testing.T) {
	d, err := EditDraft(&PersistedQuestion{
		ID:           "q-1",
		CategoryID:   "cat-1",
		QuestionText: "Floor type?",
		QuestionType: MultipleChoice,
		Options: []PersistedOption{
			{ID: "opt-1", OptionText: "Laminate", PriceModifierValue: 10, PriceModifierType: ModifierFixed},
		},
	})
	if err != nil {
		t.Fatalf("EditDraft: %v", err)
	}
	if !d.EditMode() {
		t.Fatal("draft must be in edit mode")
	}

	if err := d.SetQuestionText("new text"); !errors.Is(err, ErrEditImmutable) {
		t.Fatalf("SetQuestionText err = %v, want ErrEditImmutable", err)
	}
	if err := d.SwitchQuestionType(ImageName); !errors.Is(err, ErrEditImmutable) {
		t.Fatalf("SwitchQuestionType err = %v, want ErrEditImmutable", err)
	}

	// варианты при этом редактируются свободно
	if err := d.SetOptionText(0, "Laminate 12mm"); err != nil {
		t.Fatalf("SetOptionText in edit mode: %v", err)
	}
	if err := d.AddOption(); err != nil {
		t.Fatalf("AddOption in edit mode: %v", err)
	}
}

func TestEditModePricingTypeImmutable(t *testing.T) {
	d, err := EditDraft(&PersistedQuestion{
		ID:           "q-2",
		CategoryID:   "cat-1",
		QuestionText: "How many square meters?",
		QuestionType: NumberInput,
		PricingConfig: &PricingWire{
			Type:  PricingTiered,
			Tiers: []TierWire{{Max: floatPtr(50), PricePerUnit: 3}, {Max: nil, PricePerUnit: 2}},
		},
	})
	if err != nil {
		t.Fatalf("EditDraft: %v", err)
	}

	if err := d.SwitchPricingType(PricingFlat); !errors.Is(err, ErrEditImmutable) {
		t.Fatalf("SwitchPricingType err = %v, want ErrEditImmutable", err)
	}
	// числовые значения остаются редактируемыми
	if err := d.SetTierPrice(0, 4); err != nil {
		t.Fatalf("SetTierPrice in edit mode: %v", err)
	}
}

func TestEditDraftHydratesLegacySingleChoice(t *testing.T) {
	d, err := EditDraft(&PersistedQuestion{
		ID:           "q-3",
		CategoryID:   "cat-1",
		QuestionText: "Urgency?",
		QuestionType: SingleChoice,
		Options:      []PersistedOption{{ID: "opt-1", OptionText: "Today", PriceModifierType: ModifierPercentage}},
	})
	if err != nil {
		t.Fatalf("EditDraft for legacy type: %v", err)
	}
	if d.QuestionType() != SingleChoice {
		t.Fatalf("type = %s, want SINGLE_CHOICE preserved", d.QuestionType())
	}
	if len(d.Options()) != 1 {
		t.Fatal("legacy options must hydrate")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		prepare func() *Draft
		wantErr error
	}{
		{
			name: "whitespace question text",
			prepare: func() *Draft {
				d, _ := NewDraft("cat-1")
				_ = d.SetQuestionText("   ")
				_ = d.SetOptionText(0, "Laminate")
				return d
			},
			wantErr: ErrQuestionTextRequired,
		},
		{
			name: "blank option text",
			prepare: func() *Draft {
				d, _ := NewDraft("cat-1")
				_ = d.SetQuestionText("Floor type?")
				return d
			},
			wantErr: ErrOptionTextRequired,
		},
		{
			name: "image name without images",
			prepare: func() *Draft {
				d, _ := NewDraft("cat-1")
				_ = d.SwitchQuestionType(ImageName)
				_ = d.SetQuestionText("Floor type?")
				_ = d.SetOptionText(0, "Laminate")
				return d
			},
			wantErr: ErrOptionImageRequired,
		},
		{
			name: "image name with hosted image",
			prepare: func() *Draft {
				d, _ := EditDraft(&PersistedQuestion{
					ID:           "q-1",
					CategoryID:   "cat-1",
					QuestionText: "Floor type?",
					QuestionType: ImageName,
					Options: []PersistedOption{
						{ID: "opt-1", OptionText: "Laminate", OptionImage: "/images/opt.png", PriceModifierType: ModifierFixed},
					},
				})
				return d
			},
			wantErr: nil,
		},
		{
			name: "valid multiple choice",
			prepare: func() *Draft {
				d, _ := NewDraft("cat-1")
				_ = d.SetQuestionText("Floor type?")
				_ = d.SetOptionText(0, "Laminate")
				return d
			},
			wantErr: nil,
		},
		{
			name: "tiered pricing with no tiers",
			prepare: func() *Draft {
				d, _ := EditDraft(&PersistedQuestion{
					ID:            "q-1",
					CategoryID:    "cat-1",
					QuestionText:  "How many square meters?",
					QuestionType:  NumberInput,
					PricingConfig: &PricingWire{Type: PricingTiered},
				})
				return d
			},
			wantErr: ErrPricingRequired,
		},
		{
			name: "number input flat zero price",
			prepare: func() *Draft {
				d, _ := NewDraft("cat-1")
				_ = d.SwitchQuestionType(NumberInput)
				_ = d.SetQuestionText("How many square meters?")
				return d
			},
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.prepare().Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
