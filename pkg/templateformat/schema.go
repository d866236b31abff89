// Package templateformat defines the types for the .template file format
package templateformat

// TemplateType classifies what a template is printed for
type TemplateType string

const (
	TypeCustomer   TemplateType = "customer"
	TypeKitchen    TemplateType = "kitchen"
	TypeReport     TemplateType = "report"
	TypeInvoice    TemplateType = "invoice"
	TypeRoomCharge TemplateType = "room_charge"
	TypeDelivery   TemplateType = "delivery"
	TypeGift       TemplateType = "gift"
)

// BlockType identifies one visual/logical section of the receipt
type BlockType string

const (
	BlockHeader    BlockType = "header"
	BlockOrderInfo BlockType = "order_info"
	BlockItems     BlockType = "items"
	BlockTotals    BlockType = "totals"
	BlockPayment   BlockType = "payment"
	BlockTip       BlockType = "tip"
	BlockFooter    BlockType = "footer"
	BlockQR        BlockType = "qr"
	BlockBarcode   BlockType = "barcode"
	BlockSeparator BlockType = "separator"
	BlockPromo     BlockType = "promo"
	BlockAllergen  BlockType = "allergen"
)

// RuleField names the print-context value a rule tests against
type RuleField string

const (
	FieldOrderType     RuleField = "order_type"
	FieldPaymentMethod RuleField = "payment_method"
	FieldTimeOfDay     RuleField = "time_of_day"
	FieldDayOfWeek     RuleField = "day_of_week"
	FieldTotalAmount   RuleField = "total_amount"
	FieldPlatform      RuleField = "platform"
	FieldGuestLanguage RuleField = "guest_language"
	FieldSeason        RuleField = "season"
)

// RuleOperator is the comparison applied between context value and rule value
type RuleOperator string

const (
	OpEquals      RuleOperator = "equals"
	OpNotEquals   RuleOperator = "not_equals"
	OpGreaterThan RuleOperator = "greater_than"
	OpLessThan    RuleOperator = "less_than"
	OpBetween     RuleOperator = "between"
	OpIn          RuleOperator = "in"
)

// RuleAction is what a matching rule does to its block
type RuleAction string

const (
	ActionShow        RuleAction = "show"
	ActionHide        RuleAction = "hide"
	ActionReplaceText RuleAction = "replace_text"
)

// ConditionalRule is a single "if / then" clause scoped to a block.
// Value is a string comparand: a single value for equals/not_equals/
// greater_than/less_than, two comma-delimited bounds for between, and a
// comma-delimited candidate list for in.
type ConditionalRule struct {
	ID              string       `json:"id"`
	Field           RuleField    `json:"field"`
	Operator        RuleOperator `json:"operator"`
	Value           string       `json:"value"`
	Action          RuleAction   `json:"action"`
	ReplacementText string       `json:"replacementText,omitempty"`
}

// TemplateBlock is one reorderable, toggleable section of a template.
// Order values within one template are unique and dense (0..N-1).
type TemplateBlock struct {
	ID         string            `json:"id"`
	Type       BlockType         `json:"type"`
	Enabled    bool              `json:"enabled"`
	Order      int               `json:"order"`
	Label      string            `json:"label,omitempty"`
	Icon       string            `json:"icon,omitempty"`
	Settings   map[string]any    `json:"settings,omitempty"`
	Conditions []ConditionalRule `json:"conditions,omitempty"`
}

// ReceiptTemplate is the root structure of a .template file
type ReceiptTemplate struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	IsDefault bool         `json:"isDefault"`
	IsActive  bool         `json:"isActive"`

	HeaderLines []string `json:"headerLines,omitempty"`
	FooterLines []string `json:"footerLines,omitempty"`

	ShowLogo          bool `json:"showLogo"`
	ShowVenueInfo     bool `json:"showVenueInfo"`
	ShowDateTime      bool `json:"showDateTime"`
	ShowOrderNumber   bool `json:"showOrderNumber"`
	ShowServerName    bool `json:"showServerName"`
	ShowItemPrices    bool `json:"showItemPrices"`
	ShowItemModifiers bool `json:"showItemModifiers"`
	ShowTax           bool `json:"showTax"`
	ShowDiscounts     bool `json:"showDiscounts"`
	ShowTipLine       bool `json:"showTipLine"`
	ShowCourseHeaders bool `json:"showCourseHeaders"`
	ShowBarcode       bool `json:"showBarcode"`
	ShowQRCode        bool `json:"showQRCode"`

	QRCodeURL     string `json:"qrCodeUrl,omitempty"`
	InvoicePrefix string `json:"invoicePrefix,omitempty"`
	PaperWidth    string `json:"paperWidth"` // "58mm", "80mm"
	FontSize      string `json:"fontSize"`   // "small", "medium", "large"

	Blocks []TemplateBlock `json:"blocks,omitempty"`

	// Conditions is a legacy template-level rule list. It is parsed and
	// preserved but nothing evaluates it; only block-scoped conditions
	// affect print output.
	Conditions []ConditionalRule `json:"conditions,omitempty"`
}

// AIScanResult is the outcome of one document analysis call. It is
// consumed exactly once to build a template and then discarded.
type AIScanResult struct {
	Confidence   float64      `json:"confidence"`
	DetectedType TemplateType `json:"detectedType"`
	Template     *Partial     `json:"template,omitempty"`
	RawAnalysis  string       `json:"rawAnalysis,omitempty"`
}

// GalleryCategory groups curated templates in the built-in catalog
type GalleryCategory struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Icon      string            `json:"icon,omitempty"`
	Templates []ReceiptTemplate `json:"templates"`
}

// Clone returns a deep copy of the template. Blocks, conditions and
// settings are copied so the two values share no mutable state.
func (t *ReceiptTemplate) Clone() *ReceiptTemplate {
	out := *t
	out.HeaderLines = append([]string(nil), t.HeaderLines...)
	out.FooterLines = append([]string(nil), t.FooterLines...)
	out.Blocks = CloneBlocks(t.Blocks)
	out.Conditions = cloneRules(t.Conditions)
	return &out
}

// CloneBlocks deep-copies a block list
func CloneBlocks(blocks []TemplateBlock) []TemplateBlock {
	if blocks == nil {
		return nil
	}
	out := make([]TemplateBlock, len(blocks))
	for i, b := range blocks {
		out[i] = b
		out[i].Conditions = cloneRules(b.Conditions)
		if b.Settings != nil {
			settings := make(map[string]any, len(b.Settings))
			for k, v := range b.Settings {
				settings[k] = v
			}
			out[i].Settings = settings
		}
	}
	return out
}

func cloneRules(rules []ConditionalRule) []ConditionalRule {
	if rules == nil {
		return nil
	}
	return append([]ConditionalRule(nil), rules...)
}
