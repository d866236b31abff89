// Package rules evaluates block-scoped conditional rules against a
// print-time context to decide which blocks print and with what text.
package rules

import (
	"strconv"
	"strings"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// PrintContext holds the concrete runtime values a rule can test.
// TotalAmount is in minor currency units; TimeOfDay is "HH:MM".
type PrintContext struct {
	OrderType     string `json:"orderType"`
	PaymentMethod string `json:"paymentMethod"`
	TimeOfDay     string `json:"timeOfDay"`
	DayOfWeek     string `json:"dayOfWeek"`
	TotalAmount   int64  `json:"totalAmount"`
	Platform      string `json:"platform"`
	GuestLanguage string `json:"guestLanguage"`
	Season        string `json:"season"`
}

// ResolvedBlock is a block that survived evaluation, carrying its
// resolved text: empty unless a replace_text rule matched.
type ResolvedBlock struct {
	Block templateformat.TemplateBlock `json:"block"`
	Text  string                       `json:"text,omitempty"`
}

// Value returns the context value for a rule field as a string
func (ctx *PrintContext) Value(field templateformat.RuleField) string {
	switch field {
	case templateformat.FieldOrderType:
		return ctx.OrderType
	case templateformat.FieldPaymentMethod:
		return ctx.PaymentMethod
	case templateformat.FieldTimeOfDay:
		return ctx.TimeOfDay
	case templateformat.FieldDayOfWeek:
		return ctx.DayOfWeek
	case templateformat.FieldTotalAmount:
		return strconv.FormatInt(ctx.TotalAmount, 10)
	case templateformat.FieldPlatform:
		return ctx.Platform
	case templateformat.FieldGuestLanguage:
		return ctx.GuestLanguage
	case templateformat.FieldSeason:
		return ctx.Season
	}
	return ""
}

// EvaluateTemplate computes the final artifact for a template: the
// order-sorted sequence of visible blocks with resolved text. This is
// what gets handed to the renderer.
func EvaluateTemplate(t *templateformat.ReceiptTemplate, ctx *PrintContext) []ResolvedBlock {
	blocks := templateformat.CloneBlocks(t.Blocks)
	templateformat.SortBlocks(blocks)

	var out []ResolvedBlock
	for _, b := range blocks {
		visible, text := EvaluateBlock(&b, ctx)
		if visible {
			out = append(out, ResolvedBlock{Block: b, Text: text})
		}
	}
	return out
}

// EvaluateBlock runs a block's rules in array order. A disabled block is
// never visible; rules cannot re-enable it. Later rules override earlier
// ones on conflict, so "hide by default, show in a special case" works
// by ordering. A malformed rule value makes that single rule a non-match
// and evaluation continues; printing never aborts for a bad rule.
func EvaluateBlock(b *templateformat.TemplateBlock, ctx *PrintContext) (visible bool, text string) {
	if !b.Enabled {
		return false, ""
	}

	visible = true
	for _, rule := range b.Conditions {
		if !Matches(&rule, ctx) {
			continue
		}
		switch rule.Action {
		case templateformat.ActionShow:
			visible = true
		case templateformat.ActionHide:
			visible = false
		case templateformat.ActionReplaceText:
			// Last matching replacement wins; visibility unchanged
			text = rule.ReplacementText
		}
	}
	return visible, text
}

// Matches evaluates a single rule predicate against the context
func Matches(rule *templateformat.ConditionalRule, ctx *PrintContext) bool {
	got := ctx.Value(rule.Field)
	cmp := parseComparand(rule.Operator, rule.Value)

	switch rule.Operator {
	case templateformat.OpEquals:
		return strings.EqualFold(got, cmp.single)
	case templateformat.OpNotEquals:
		return !strings.EqualFold(got, cmp.single)
	case templateformat.OpGreaterThan:
		gn, gok := parseNumeric(got)
		wn, wok := parseNumeric(cmp.single)
		return gok && wok && gn > wn
	case templateformat.OpLessThan:
		gn, gok := parseNumeric(got)
		wn, wok := parseNumeric(cmp.single)
		return gok && wok && gn < wn
	case templateformat.OpBetween:
		if !cmp.rangeOK {
			return false
		}
		gn, gok := parseNumeric(got)
		return gok && gn >= cmp.lo && gn <= cmp.hi
	case templateformat.OpIn:
		for _, candidate := range cmp.list {
			if strings.EqualFold(got, candidate) {
				return true
			}
		}
		return false
	}
	return false
}

// comparand is the rule value decoded once per evaluation. The wire
// format stays a single string; the operator decides which shape is
// meaningful.
type comparand struct {
	single  string
	list    []string
	lo, hi  float64
	rangeOK bool
}

func parseComparand(op templateformat.RuleOperator, value string) comparand {
	c := comparand{single: strings.TrimSpace(value)}

	switch op {
	case templateformat.OpIn:
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				c.list = append(c.list, part)
			}
		}
	case templateformat.OpBetween:
		parts := strings.Split(value, ",")
		if len(parts) != 2 {
			return c
		}
		lo, lok := parseNumeric(strings.TrimSpace(parts[0]))
		hi, hok := parseNumeric(strings.TrimSpace(parts[1]))
		if !lok || !hok {
			return c
		}
		// Bound order in the encoding is not assumed
		if lo > hi {
			lo, hi = hi, lo
		}
		c.lo, c.hi = lo, hi
		c.rangeOK = true
	}
	return c
}

// parseNumeric parses an operand for numeric comparison. "HH:MM" values
// compare as minutes since midnight so time_of_day rules can use the
// same operators as amounts.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hv, err1 := strconv.Atoi(h)
		mv, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hv < 0 || hv > 23 || mv < 0 || mv > 59 {
			return 0, false
		}
		return float64(hv*60 + mv), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
