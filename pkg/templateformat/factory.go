package templateformat

// Partial is a sparse template: nil fields mean "not supplied" and fall
// back to the defaults in NewTemplate. This is the shape produced by the
// origination adapters (manual forms, document analysis, gallery clones
// go through Clone instead).
type Partial struct {
	ID   string        `json:"id,omitempty"`
	Name *string       `json:"name,omitempty"`
	Type *TemplateType `json:"type,omitempty"`

	IsDefault *bool `json:"isDefault,omitempty"`
	IsActive  *bool `json:"isActive,omitempty"`

	HeaderLines []string `json:"headerLines,omitempty"`
	FooterLines []string `json:"footerLines,omitempty"`

	ShowLogo          *bool `json:"showLogo,omitempty"`
	ShowVenueInfo     *bool `json:"showVenueInfo,omitempty"`
	ShowDateTime      *bool `json:"showDateTime,omitempty"`
	ShowOrderNumber   *bool `json:"showOrderNumber,omitempty"`
	ShowServerName    *bool `json:"showServerName,omitempty"`
	ShowItemPrices    *bool `json:"showItemPrices,omitempty"`
	ShowItemModifiers *bool `json:"showItemModifiers,omitempty"`
	ShowTax           *bool `json:"showTax,omitempty"`
	ShowDiscounts     *bool `json:"showDiscounts,omitempty"`
	ShowTipLine       *bool `json:"showTipLine,omitempty"`
	ShowCourseHeaders *bool `json:"showCourseHeaders,omitempty"`
	ShowBarcode       *bool `json:"showBarcode,omitempty"`
	ShowQRCode        *bool `json:"showQRCode,omitempty"`

	QRCodeURL     *string `json:"qrCodeUrl,omitempty"`
	InvoicePrefix *string `json:"invoicePrefix,omitempty"`
	PaperWidth    *string `json:"paperWidth,omitempty"`
	FontSize      *string `json:"fontSize,omitempty"`

	Blocks     []TemplateBlock   `json:"blocks,omitempty"`
	Conditions []ConditionalRule `json:"conditions,omitempty"`
}

// NewTemplate builds a complete template by layering a partial over the
// default table. The caller supplies the id; nothing is generated here,
// so the function is a pure transformation of its input. An omitted
// block list clones the default layout; a supplied one is deep-copied
// and its order values normalized.
func NewTemplate(p Partial) *ReceiptTemplate {
	t := &ReceiptTemplate{
		ID:       p.ID,
		Name:     stringOr(p.Name, ""),
		Type:     typeOr(p.Type, TypeCustomer),
		IsActive: boolOr(p.IsActive, true),

		IsDefault: boolOr(p.IsDefault, false),

		ShowLogo:          boolOr(p.ShowLogo, true),
		ShowVenueInfo:     boolOr(p.ShowVenueInfo, true),
		ShowDateTime:      boolOr(p.ShowDateTime, true),
		ShowOrderNumber:   boolOr(p.ShowOrderNumber, true),
		ShowServerName:    boolOr(p.ShowServerName, true),
		ShowItemPrices:    boolOr(p.ShowItemPrices, true),
		ShowItemModifiers: boolOr(p.ShowItemModifiers, true),
		ShowTax:           boolOr(p.ShowTax, true),
		ShowDiscounts:     boolOr(p.ShowDiscounts, true),
		ShowTipLine:       boolOr(p.ShowTipLine, true),
		ShowCourseHeaders: boolOr(p.ShowCourseHeaders, false),
		ShowBarcode:       boolOr(p.ShowBarcode, false),
		ShowQRCode:        boolOr(p.ShowQRCode, false),

		QRCodeURL:     stringOr(p.QRCodeURL, ""),
		InvoicePrefix: stringOr(p.InvoicePrefix, ""),
		PaperWidth:    stringOr(p.PaperWidth, "80mm"),
		FontSize:      stringOr(p.FontSize, "medium"),
	}

	if t.Name == "" {
		t.Name = MetaForType(t.Type).Label
	}

	if len(p.HeaderLines) > 0 {
		t.HeaderLines = append([]string(nil), p.HeaderLines...)
	} else {
		t.HeaderLines = []string{"Thank you for visiting"}
	}
	if len(p.FooterLines) > 0 {
		t.FooterLines = append([]string(nil), p.FooterLines...)
	} else {
		t.FooterLines = []string{"See you again soon"}
	}

	if len(p.Blocks) > 0 {
		t.Blocks = CloneBlocks(p.Blocks)
		NormalizeOrder(t.Blocks)
	} else {
		t.Blocks = DefaultBlocks()
	}

	if len(p.Conditions) > 0 {
		t.Conditions = append([]ConditionalRule(nil), p.Conditions...)
	}

	return t
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func stringOr(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}

func typeOr(v *TemplateType, def TemplateType) TemplateType {
	if v != nil && *v != "" {
		return *v
	}
	return def
}

// Bool returns a pointer to b, for building partials inline
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building partials inline
func String(s string) *string { return &s }

// Type returns a pointer to t, for building partials inline
func Type(t TemplateType) *TemplateType { return &t }
