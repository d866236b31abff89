package rules

import (
	"testing"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

func enabledBlock(rules ...templateformat.ConditionalRule) *templateformat.TemplateBlock {
	return &templateformat.TemplateBlock{
		ID:         "b-1",
		Type:       templateformat.BlockPromo,
		Enabled:    true,
		Conditions: rules,
	}
}

func TestEvaluateBlock_NoRules(t *testing.T) {
	visible, text := EvaluateBlock(enabledBlock(), &PrintContext{})
	if !visible {
		t.Error("Expected enabled block without rules to be visible")
	}
	if text != "" {
		t.Errorf("Expected no resolved text, got %q", text)
	}
}

func TestEvaluateBlock_DisabledBlockNeverVisible(t *testing.T) {
	b := enabledBlock(templateformat.ConditionalRule{
		ID: "r-1", Field: templateformat.FieldOrderType,
		Operator: templateformat.OpEquals, Value: "dine_in",
		Action: templateformat.ActionShow,
	})
	b.Enabled = false

	visible, _ := EvaluateBlock(b, &PrintContext{OrderType: "dine_in"})
	if visible {
		t.Error("Expected show rule to never re-enable a disabled block")
	}
}

func TestEvaluateBlock_HideOnMatch(t *testing.T) {
	b := enabledBlock(templateformat.ConditionalRule{
		ID: "r-1", Field: templateformat.FieldOrderType,
		Operator: templateformat.OpEquals, Value: "takeout",
		Action: templateformat.ActionHide,
	})

	if visible, _ := EvaluateBlock(b, &PrintContext{OrderType: "takeout"}); visible {
		t.Error("Expected matching hide rule to hide the block")
	}
	if visible, _ := EvaluateBlock(b, &PrintContext{OrderType: "dine_in"}); !visible {
		t.Error("Expected non-matching hide rule to leave the block visible")
	}
}

func TestEvaluateBlock_LaterRuleWins(t *testing.T) {
	// Hide by default, show in a special case
	b := enabledBlock(
		templateformat.ConditionalRule{
			ID: "r-1", Field: templateformat.FieldOrderType,
			Operator: templateformat.OpNotEquals, Value: "",
			Action: templateformat.ActionHide,
		},
		templateformat.ConditionalRule{
			ID: "r-2", Field: templateformat.FieldOrderType,
			Operator: templateformat.OpEquals, Value: "dine_in",
			Action: templateformat.ActionShow,
		},
	)

	if visible, _ := EvaluateBlock(b, &PrintContext{OrderType: "dine_in"}); !visible {
		t.Error("Expected later show rule to override earlier hide")
	}
	if visible, _ := EvaluateBlock(b, &PrintContext{OrderType: "takeout"}); visible {
		t.Error("Expected hide to stand when the show rule does not match")
	}
}

func TestEvaluateBlock_ReplaceTextLastMatchWins(t *testing.T) {
	b := enabledBlock(
		templateformat.ConditionalRule{
			ID: "r-1", Field: templateformat.FieldGuestLanguage,
			Operator: templateformat.OpEquals, Value: "fr",
			Action: templateformat.ActionReplaceText, ReplacementText: "Merci!",
		},
		templateformat.ConditionalRule{
			ID: "r-2", Field: templateformat.FieldSeason,
			Operator: templateformat.OpEquals, Value: "winter",
			Action: templateformat.ActionReplaceText, ReplacementText: "Joyeuses fetes!",
		},
	)

	_, text := EvaluateBlock(b, &PrintContext{GuestLanguage: "fr", Season: "winter"})
	if text != "Joyeuses fetes!" {
		t.Errorf("Expected last matching replacement, got %q", text)
	}

	_, text = EvaluateBlock(b, &PrintContext{GuestLanguage: "fr", Season: "summer"})
	if text != "Merci!" {
		t.Errorf("Expected first replacement when second does not match, got %q", text)
	}
}

func TestEvaluateBlock_ReplaceTextKeepsVisibility(t *testing.T) {
	b := enabledBlock(
		templateformat.ConditionalRule{
			ID: "r-1", Field: templateformat.FieldOrderType,
			Operator: templateformat.OpEquals, Value: "takeout",
			Action: templateformat.ActionHide,
		},
		templateformat.ConditionalRule{
			ID: "r-2", Field: templateformat.FieldOrderType,
			Operator: templateformat.OpEquals, Value: "takeout",
			Action: templateformat.ActionReplaceText, ReplacementText: "To go!",
		},
	)

	visible, text := EvaluateBlock(b, &PrintContext{OrderType: "takeout"})
	if visible {
		t.Error("Expected replace_text not to undo an earlier hide")
	}
	if text != "To go!" {
		t.Errorf("Expected replacement text tracked independently, got %q", text)
	}
}

func TestMatches_Equals_CaseInsensitive(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldPaymentMethod, Operator: templateformat.OpEquals, Value: "Cash",
	}

	if !Matches(rule, &PrintContext{PaymentMethod: "cash"}) {
		t.Error("Expected equals to match case-insensitively")
	}
	if Matches(rule, &PrintContext{PaymentMethod: "card"}) {
		t.Error("Expected equals not to match a different value")
	}
}

func TestMatches_NotEquals(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldPlatform, Operator: templateformat.OpNotEquals, Value: "doordash",
	}

	if !Matches(rule, &PrintContext{Platform: "ubereats"}) {
		t.Error("Expected not_equals to match a different value")
	}
	if Matches(rule, &PrintContext{Platform: "DoorDash"}) {
		t.Error("Expected not_equals not to match the same value (any case)")
	}
}

func TestMatches_GreaterThan_Amount(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldTotalAmount, Operator: templateformat.OpGreaterThan, Value: "5000",
	}

	if !Matches(rule, &PrintContext{TotalAmount: 7500}) {
		t.Error("Expected 7500 > 5000 to match")
	}
	if Matches(rule, &PrintContext{TotalAmount: 5000}) {
		t.Error("Expected strict comparison, 5000 is not > 5000")
	}
}

func TestMatches_LessThan_TimeOfDay(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldTimeOfDay, Operator: templateformat.OpLessThan, Value: "11:30",
	}

	if !Matches(rule, &PrintContext{TimeOfDay: "09:15"}) {
		t.Error("Expected 09:15 < 11:30 to match")
	}
	if Matches(rule, &PrintContext{TimeOfDay: "12:00"}) {
		t.Error("Expected 12:00 < 11:30 not to match")
	}
}

func TestMatches_Between_TimeOfDay(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldTimeOfDay, Operator: templateformat.OpBetween, Value: "16:00,18:00",
	}

	if !Matches(rule, &PrintContext{TimeOfDay: "17:30"}) {
		t.Error("Expected 17:30 inside 16:00-18:00 to match")
	}
	if !Matches(rule, &PrintContext{TimeOfDay: "16:00"}) {
		t.Error("Expected inclusive lower bound to match")
	}
	if !Matches(rule, &PrintContext{TimeOfDay: "18:00"}) {
		t.Error("Expected inclusive upper bound to match")
	}
	if Matches(rule, &PrintContext{TimeOfDay: "19:00"}) {
		t.Error("Expected 19:00 outside the range not to match")
	}
}

func TestMatches_Between_ReversedBounds(t *testing.T) {
	// Bound order in the encoding is not assumed
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldTotalAmount, Operator: templateformat.OpBetween, Value: "10000,2000",
	}

	if !Matches(rule, &PrintContext{TotalAmount: 5000}) {
		t.Error("Expected reversed bounds to be normalized")
	}
}

func TestMatches_In(t *testing.T) {
	rule := &templateformat.ConditionalRule{
		Field: templateformat.FieldDayOfWeek, Operator: templateformat.OpIn, Value: "saturday, sunday",
	}

	if !Matches(rule, &PrintContext{DayOfWeek: "Sunday"}) {
		t.Error("Expected in-list match, case-insensitive with whitespace")
	}
	if Matches(rule, &PrintContext{DayOfWeek: "monday"}) {
		t.Error("Expected value outside the list not to match")
	}
}

func TestMatches_MalformedValuesFailOpen(t *testing.T) {
	cases := []templateformat.ConditionalRule{
		{Field: templateformat.FieldTotalAmount, Operator: templateformat.OpBetween, Value: "not,numbers"},
		{Field: templateformat.FieldTotalAmount, Operator: templateformat.OpBetween, Value: "1000"},
		{Field: templateformat.FieldTotalAmount, Operator: templateformat.OpGreaterThan, Value: "abc"},
		{Field: templateformat.FieldTimeOfDay, Operator: templateformat.OpLessThan, Value: "25:99"},
		{Field: templateformat.FieldTotalAmount, Operator: templateformat.OpIn, Value: ""},
	}

	for _, rule := range cases {
		r := rule
		if Matches(&r, &PrintContext{TotalAmount: 5000, TimeOfDay: "12:00"}) {
			t.Errorf("Expected malformed value %q to degrade to non-match", rule.Value)
		}
	}
}

func TestEvaluateBlock_MalformedRuleDoesNotAbort(t *testing.T) {
	b := enabledBlock(
		templateformat.ConditionalRule{
			ID: "r-1", Field: templateformat.FieldTotalAmount,
			Operator: templateformat.OpBetween, Value: "garbage",
			Action: templateformat.ActionHide,
		},
		templateformat.ConditionalRule{
			ID: "r-2", Field: templateformat.FieldOrderType,
			Operator: templateformat.OpEquals, Value: "dine_in",
			Action: templateformat.ActionReplaceText, ReplacementText: "Enjoy!",
		},
	)

	visible, text := EvaluateBlock(b, &PrintContext{OrderType: "dine_in", TotalAmount: 100})
	if !visible {
		t.Error("Expected malformed rule to be skipped, not to hide the block")
	}
	if text != "Enjoy!" {
		t.Errorf("Expected later rules to still run, got text %q", text)
	}
}

func TestEvaluateTemplate_OrderAndFiltering(t *testing.T) {
	tmpl := templateformat.NewTemplate(templateformat.Partial{ID: "t-1"})

	// Hide items during the happy hour window
	templateformat.AddCondition(tmpl.Blocks, "items", templateformat.ConditionalRule{
		ID: "r-1", Field: templateformat.FieldTimeOfDay,
		Operator: templateformat.OpBetween, Value: "16:00,18:00",
		Action: templateformat.ActionHide,
	})

	resolved := EvaluateTemplate(tmpl, &PrintContext{TimeOfDay: "17:00"})

	for i, rb := range resolved {
		if rb.Block.ID == "items" {
			t.Error("Expected items block to be hidden")
		}
		if i > 0 && resolved[i-1].Block.Order > rb.Block.Order {
			t.Error("Expected output sorted by block order")
		}
		if !rb.Block.Enabled {
			t.Errorf("Expected disabled block '%s' to be excluded", rb.Block.ID)
		}
	}

	// Outside the window everything enabled prints
	resolved = EvaluateTemplate(tmpl, &PrintContext{TimeOfDay: "12:00"})
	found := false
	for _, rb := range resolved {
		if rb.Block.ID == "items" {
			found = true
		}
	}
	if !found {
		t.Error("Expected items block to print outside the happy hour window")
	}
}

func TestEvaluateTemplate_DoesNotMutateInput(t *testing.T) {
	tmpl := templateformat.NewTemplate(templateformat.Partial{ID: "t-1"})
	before := make([]int, len(tmpl.Blocks))
	for i, b := range tmpl.Blocks {
		before[i] = b.Order
	}

	EvaluateTemplate(tmpl, &PrintContext{})

	for i, b := range tmpl.Blocks {
		if b.Order != before[i] {
			t.Fatal("Evaluation mutated the template's block list")
		}
	}
}

func TestPrintContext_Value(t *testing.T) {
	ctx := &PrintContext{
		OrderType:     "dine_in",
		PaymentMethod: "cash",
		TimeOfDay:     "18:30",
		DayOfWeek:     "friday",
		TotalAmount:   12345,
		Platform:      "direct",
		GuestLanguage: "en",
		Season:        "summer",
	}

	cases := map[templateformat.RuleField]string{
		templateformat.FieldOrderType:     "dine_in",
		templateformat.FieldPaymentMethod: "cash",
		templateformat.FieldTimeOfDay:     "18:30",
		templateformat.FieldDayOfWeek:     "friday",
		templateformat.FieldTotalAmount:   "12345",
		templateformat.FieldPlatform:      "direct",
		templateformat.FieldGuestLanguage: "en",
		templateformat.FieldSeason:        "summer",
	}

	for field, want := range cases {
		if got := ctx.Value(field); got != want {
			t.Errorf("Field %s: expected %q, got %q", field, want, got)
		}
	}

	if ctx.Value("unknown") != "" {
		t.Error("Expected empty string for unknown field")
	}
}
