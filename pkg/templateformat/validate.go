package templateformat

import (
	"fmt"
)

// Validate validates a ReceiptTemplate structure
func Validate(t *ReceiptTemplate) error {
	// Identity fields are never defaulted; their absence is a caller error
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := validateTemplateType(t.Type); err != nil {
		return err
	}

	if t.PaperWidth != "" {
		validWidths := []string{"58mm", "80mm"}
		valid := false
		for _, w := range validWidths {
			if t.PaperWidth == w {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid paperWidth: %s (must be 58mm or 80mm)", t.PaperWidth)
		}
	}

	if t.FontSize != "" {
		validSizes := []string{"small", "medium", "large"}
		valid := false
		for _, s := range validSizes {
			if t.FontSize == s {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid fontSize: %s (must be small, medium, or large)", t.FontSize)
		}
	}

	if len(t.HeaderLines) > 3 {
		return fmt.Errorf("headerLines: at most 3 lines allowed, got %d", len(t.HeaderLines))
	}
	if len(t.FooterLines) > 3 {
		return fmt.Errorf("footerLines: at most 3 lines allowed, got %d", len(t.FooterLines))
	}

	if err := validateBlocks(t.Blocks); err != nil {
		return err
	}

	// Template-level conditions are legacy but must still be well-formed
	ruleIDs := make(map[string]bool)
	for i, rule := range t.Conditions {
		if err := validateRule(&rule, ruleIDs); err != nil {
			return fmt.Errorf("condition[%d]: %w", i, err)
		}
	}

	return nil
}

func validateTemplateType(tt TemplateType) error {
	validTypes := []TemplateType{
		TypeCustomer, TypeKitchen, TypeReport, TypeInvoice,
		TypeRoomCharge, TypeDelivery, TypeGift,
	}
	for _, v := range validTypes {
		if tt == v {
			return nil
		}
	}
	return fmt.Errorf("invalid template type: %s", tt)
}

func validateBlocks(blocks []TemplateBlock) error {
	blockIDs := make(map[string]bool)
	orders := make(map[int]bool)

	for i, b := range blocks {
		if b.ID == "" {
			return fmt.Errorf("block[%d]: 'id' is required", i)
		}
		if blockIDs[b.ID] {
			return fmt.Errorf("block[%d]: duplicate block id '%s'", i, b.ID)
		}
		blockIDs[b.ID] = true

		if err := validateBlockType(b.Type); err != nil {
			return fmt.Errorf("block[%d] '%s': %w", i, b.ID, err)
		}

		if b.Order < 0 || b.Order >= len(blocks) {
			return fmt.Errorf("block[%d] '%s': order %d out of range 0..%d", i, b.ID, b.Order, len(blocks)-1)
		}
		if orders[b.Order] {
			return fmt.Errorf("block[%d] '%s': duplicate order %d", i, b.ID, b.Order)
		}
		orders[b.Order] = true

		ruleIDs := make(map[string]bool)
		for j, rule := range b.Conditions {
			if err := validateRule(&rule, ruleIDs); err != nil {
				return fmt.Errorf("block[%d] '%s' condition[%d]: %w", i, b.ID, j, err)
			}
		}
	}

	return nil
}

func validateBlockType(bt BlockType) error {
	validTypes := []BlockType{
		BlockHeader, BlockOrderInfo, BlockItems, BlockTotals,
		BlockPayment, BlockTip, BlockFooter, BlockQR, BlockBarcode,
		BlockSeparator, BlockPromo, BlockAllergen,
	}
	for _, v := range validTypes {
		if bt == v {
			return nil
		}
	}
	return fmt.Errorf("unknown block type: %s", bt)
}

func validateRule(rule *ConditionalRule, seen map[string]bool) error {
	if rule.ID == "" {
		return fmt.Errorf("'id' is required")
	}
	if seen[rule.ID] {
		return fmt.Errorf("duplicate rule id '%s'", rule.ID)
	}
	seen[rule.ID] = true

	validFields := []RuleField{
		FieldOrderType, FieldPaymentMethod, FieldTimeOfDay, FieldDayOfWeek,
		FieldTotalAmount, FieldPlatform, FieldGuestLanguage, FieldSeason,
	}
	fieldOK := false
	for _, f := range validFields {
		if rule.Field == f {
			fieldOK = true
			break
		}
	}
	if !fieldOK {
		return fmt.Errorf("unknown field: %s", rule.Field)
	}

	validOps := []RuleOperator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween, OpIn}
	opOK := false
	for _, op := range validOps {
		if rule.Operator == op {
			opOK = true
			break
		}
	}
	if !opOK {
		return fmt.Errorf("unknown operator: %s", rule.Operator)
	}

	switch rule.Action {
	case ActionShow, ActionHide:
	case ActionReplaceText:
		if rule.ReplacementText == "" {
			return fmt.Errorf("replace_text rule requires replacementText")
		}
	default:
		return fmt.Errorf("unknown action: %s", rule.Action)
	}

	// Value encodings are interpreted by the evaluator, which degrades
	// malformed values to a non-match. They are not rejected here.
	return nil
}
