package templateformat

// TypeMeta carries presentation defaults for a template type
type TypeMeta struct {
	Label string
	Color string
}

var typeMeta = map[TemplateType]TypeMeta{
	TypeCustomer:   {Label: "Customer Receipt", Color: "#2563eb"},
	TypeKitchen:    {Label: "Kitchen Ticket", Color: "#ea580c"},
	TypeReport:     {Label: "Shift Report", Color: "#475569"},
	TypeInvoice:    {Label: "Invoice", Color: "#7c3aed"},
	TypeRoomCharge: {Label: "Room Charge", Color: "#0d9488"},
	TypeDelivery:   {Label: "Delivery Slip", Color: "#16a34a"},
	TypeGift:       {Label: "Gift Receipt", Color: "#db2777"},
}

// MetaForType returns the display metadata for a template type.
// Unknown types fall back to the customer metadata.
func MetaForType(t TemplateType) TypeMeta {
	if m, ok := typeMeta[t]; ok {
		return m
	}
	return typeMeta[TypeCustomer]
}

// DefaultBlocks returns a fresh copy of the canonical 13-block layout
// used when a template carries no explicit block list.
func DefaultBlocks() []TemplateBlock {
	return []TemplateBlock{
		{ID: "header", Type: BlockHeader, Enabled: true, Order: 0, Label: "Header", Icon: "building"},
		{ID: "order-info", Type: BlockOrderInfo, Enabled: true, Order: 1, Label: "Order Info", Icon: "hash"},
		{ID: "separator-1", Type: BlockSeparator, Enabled: true, Order: 2, Label: "Separator", Icon: "minus", Settings: map[string]any{"style": "dashed"}},
		{ID: "items", Type: BlockItems, Enabled: true, Order: 3, Label: "Items", Icon: "list"},
		{ID: "separator-2", Type: BlockSeparator, Enabled: true, Order: 4, Label: "Separator", Icon: "minus", Settings: map[string]any{"style": "solid"}},
		{ID: "totals", Type: BlockTotals, Enabled: true, Order: 5, Label: "Totals", Icon: "calculator"},
		{ID: "payment", Type: BlockPayment, Enabled: true, Order: 6, Label: "Payment", Icon: "credit-card"},
		{ID: "tip", Type: BlockTip, Enabled: false, Order: 7, Label: "Tip Line", Icon: "coins"},
		{ID: "footer", Type: BlockFooter, Enabled: true, Order: 8, Label: "Footer", Icon: "message"},
		{ID: "qr", Type: BlockQR, Enabled: false, Order: 9, Label: "QR Code", Icon: "qr-code"},
		{ID: "barcode", Type: BlockBarcode, Enabled: false, Order: 10, Label: "Barcode", Icon: "barcode"},
		{ID: "promo", Type: BlockPromo, Enabled: false, Order: 11, Label: "Promotion", Icon: "megaphone"},
		{ID: "allergen", Type: BlockAllergen, Enabled: false, Order: 12, Label: "Allergen Notice", Icon: "alert"},
	}
}
