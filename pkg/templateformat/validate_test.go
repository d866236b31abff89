package templateformat

import (
	"testing"
)

func validTemplate() *ReceiptTemplate {
	return NewTemplate(Partial{ID: "t-1", Name: String("Test Template")})
}

func TestValidate_ValidTemplate(t *testing.T) {
	if err := Validate(validTemplate()); err != nil {
		t.Errorf("Expected valid template, got error: %v", err)
	}
}

func TestValidate_MissingID(t *testing.T) {
	tmpl := validTemplate()
	tmpl.ID = ""

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for missing id")
	}
}

func TestValidate_MissingName(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Name = ""

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for missing name")
	}
}

func TestValidate_InvalidType(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Type = "parking_stub"

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for invalid template type")
	}
}

func TestValidate_ValidTypes(t *testing.T) {
	types := []TemplateType{
		TypeCustomer, TypeKitchen, TypeReport, TypeInvoice,
		TypeRoomCharge, TypeDelivery, TypeGift,
	}

	for _, tt := range types {
		tmpl := validTemplate()
		tmpl.Type = tt
		if err := Validate(tmpl); err != nil {
			t.Errorf("Expected type '%s' to be valid, got error: %v", tt, err)
		}
	}
}

func TestValidate_InvalidPaperWidth(t *testing.T) {
	tmpl := validTemplate()
	tmpl.PaperWidth = "112mm"

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for invalid paper width")
	}
}

func TestValidate_InvalidFontSize(t *testing.T) {
	tmpl := validTemplate()
	tmpl.FontSize = "huge"

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for invalid font size")
	}
}

func TestValidate_TooManyHeaderLines(t *testing.T) {
	tmpl := validTemplate()
	tmpl.HeaderLines = []string{"a", "b", "c", "d"}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for more than 3 header lines")
	}
}

func TestValidate_TooManyFooterLines(t *testing.T) {
	tmpl := validTemplate()
	tmpl.FooterLines = []string{"a", "b", "c", "d"}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for more than 3 footer lines")
	}
}

func TestValidate_DuplicateBlockID(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks = []TemplateBlock{
		{ID: "dup", Type: BlockHeader, Order: 0},
		{ID: "dup", Type: BlockFooter, Order: 1},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for duplicate block id")
	}
}

func TestValidate_UnknownBlockType(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks = []TemplateBlock{
		{ID: "b-1", Type: "watermark", Order: 0},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for unknown block type")
	}
}

func TestValidate_SparseBlockOrder(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks = []TemplateBlock{
		{ID: "b-1", Type: BlockHeader, Order: 0},
		{ID: "b-2", Type: BlockFooter, Order: 5},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for out-of-range block order")
	}
}

func TestValidate_DuplicateBlockOrder(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks = []TemplateBlock{
		{ID: "b-1", Type: BlockHeader, Order: 0},
		{ID: "b-2", Type: BlockFooter, Order: 0},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for duplicate block order")
	}
}

func TestValidate_RuleMissingID(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{Field: FieldOrderType, Operator: OpEquals, Value: "dine_in", Action: ActionHide},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for rule without id")
	}
}

func TestValidate_RuleUnknownField(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: "moon_phase", Operator: OpEquals, Value: "full", Action: ActionHide},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for unknown rule field")
	}
}

func TestValidate_RuleUnknownOperator(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldOrderType, Operator: "matches", Value: "x", Action: ActionHide},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for unknown rule operator")
	}
}

func TestValidate_ReplaceTextRequiresReplacement(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldOrderType, Operator: OpEquals, Value: "dine_in", Action: ActionReplaceText},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for replace_text rule without replacementText")
	}
}

func TestValidate_MalformedRuleValueIsAccepted(t *testing.T) {
	// Value encodings are evaluator territory; validation never rejects
	// them, the evaluator degrades them to a non-match.
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldTotalAmount, Operator: OpBetween, Value: "not,numbers", Action: ActionHide},
	}

	if err := Validate(tmpl); err != nil {
		t.Errorf("Expected malformed value to pass validation, got error: %v", err)
	}
}

func TestValidate_DuplicateRuleIDsOnSameBlock(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldOrderType, Operator: OpEquals, Value: "a", Action: ActionHide},
		{ID: "r-1", Field: FieldOrderType, Operator: OpEquals, Value: "b", Action: ActionShow},
	}

	if err := Validate(tmpl); err == nil {
		t.Error("Expected error for duplicate rule ids on one block")
	}
}

func TestValidate_SameRuleIDOnDifferentBlocksIsFine(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Blocks[0].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldOrderType, Operator: OpEquals, Value: "a", Action: ActionHide},
	}
	tmpl.Blocks[1].Conditions = []ConditionalRule{
		{ID: "r-1", Field: FieldOrderType, Operator: OpEquals, Value: "b", Action: ActionShow},
	}

	if err := Validate(tmpl); err != nil {
		t.Errorf("Expected rule id reuse across blocks to be valid, got error: %v", err)
	}
}
