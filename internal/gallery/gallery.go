// Package gallery holds the built-in template catalog. The catalog is
// process-wide read-only state: installing an entry always deep-copies
// it, and nothing mutates the catalog after startup.
package gallery

import (
	"github.com/google/uuid"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// Categories returns the catalog grouped by category. Each call returns
// fresh copies so callers cannot reach the backing entries.
func Categories() []templateformat.GalleryCategory {
	out := make([]templateformat.GalleryCategory, len(catalog))
	for i, cat := range catalog {
		out[i] = templateformat.GalleryCategory{
			ID:   cat.ID,
			Name: cat.Name,
			Icon: cat.Icon,
		}
		for _, t := range cat.Templates {
			out[i].Templates = append(out[i].Templates, *t.Clone())
		}
	}
	return out
}

// Find returns a copy of the catalog template with the given id, or nil
func Find(templateID string) *templateformat.ReceiptTemplate {
	for _, cat := range catalog {
		for i := range cat.Templates {
			if cat.Templates[i].ID == templateID {
				return cat.Templates[i].Clone()
			}
		}
	}
	return nil
}

// Install clones a catalog template under a freshly generated id. Every
// other field, including blocks and their conditions, is preserved
// verbatim. Returns nil if the id is not in the catalog.
func Install(templateID string) *templateformat.ReceiptTemplate {
	src := Find(templateID)
	if src == nil {
		return nil
	}
	installed := src.Clone()
	installed.ID = uuid.New().String()
	return installed
}

var catalog = buildCatalog()

func buildCatalog() []templateformat.GalleryCategory {
	return []templateformat.GalleryCategory{
		{
			ID:   "front-of-house",
			Name: "Front of House",
			Icon: "storefront",
			Templates: []templateformat.ReceiptTemplate{
				*templateformat.NewTemplate(templateformat.Partial{
					ID:          "gallery-classic-customer",
					Name:        templateformat.String("Classic Customer Receipt"),
					Type:        templateformat.Type(templateformat.TypeCustomer),
					HeaderLines: []string{"{{venue_name}}", "{{venue_address}}"},
					FooterLines: []string{"Thank you for dining with us"},
				}),
				*templateformat.NewTemplate(templateformat.Partial{
					ID:          "gallery-happy-hour",
					Name:        templateformat.String("Happy Hour Receipt"),
					Type:        templateformat.Type(templateformat.TypeCustomer),
					HeaderLines: []string{"{{venue_name}}"},
					FooterLines: []string{"Come back soon"},
					Blocks:      happyHourBlocks(),
				}),
				*templateformat.NewTemplate(templateformat.Partial{
					ID:             "gallery-gift-receipt",
					Name:           templateformat.String("Gift Receipt"),
					Type:           templateformat.Type(templateformat.TypeGift),
					ShowItemPrices: templateformat.Bool(false),
					ShowTax:        templateformat.Bool(false),
					ShowTipLine:    templateformat.Bool(false),
					FooterLines:    []string{"Exchanges within 30 days"},
				}),
			},
		},
		{
			ID:   "back-of-house",
			Name: "Back of House",
			Icon: "chef-hat",
			Templates: []templateformat.ReceiptTemplate{
				*templateformat.NewTemplate(templateformat.Partial{
					ID:                "gallery-kitchen-ticket",
					Name:              templateformat.String("Kitchen Ticket"),
					Type:              templateformat.Type(templateformat.TypeKitchen),
					ShowLogo:          templateformat.Bool(false),
					ShowItemPrices:    templateformat.Bool(false),
					ShowTax:           templateformat.Bool(false),
					ShowTipLine:       templateformat.Bool(false),
					ShowCourseHeaders: templateformat.Bool(true),
					FontSize:          templateformat.String("large"),
					Blocks:            kitchenBlocks(),
				}),
				*templateformat.NewTemplate(templateformat.Partial{
					ID:             "gallery-delivery-slip",
					Name:           templateformat.String("Delivery Slip"),
					Type:           templateformat.Type(templateformat.TypeDelivery),
					ShowTipLine:    templateformat.Bool(false),
					ShowQRCode:     templateformat.Bool(true),
					QRCodeURL:      templateformat.String("{{tracking_url}}"),
					Blocks:         deliveryBlocks(),
				}),
			},
		},
		{
			ID:   "billing",
			Name: "Billing & Invoices",
			Icon: "file-text",
			Templates: []templateformat.ReceiptTemplate{
				*templateformat.NewTemplate(templateformat.Partial{
					ID:            "gallery-full-invoice",
					Name:          templateformat.String("Full Invoice"),
					Type:          templateformat.Type(templateformat.TypeInvoice),
					InvoicePrefix: templateformat.String("INV-"),
					ShowBarcode:   templateformat.Bool(true),
					FooterLines:   []string{"Payment due within 14 days"},
				}),
			},
		},
	}
}

// happyHourBlocks is the default layout plus a promo block that only
// prints on weekday afternoons.
func happyHourBlocks() []templateformat.TemplateBlock {
	blocks := templateformat.DefaultBlocks()
	promo := templateformat.FindBlock(blocks, "promo")
	promo.Enabled = true
	promo.Conditions = []templateformat.ConditionalRule{
		{
			ID:       "hh-hide-default",
			Field:    templateformat.FieldTimeOfDay,
			Operator: templateformat.OpBetween,
			Value:    "00:00,23:59",
			Action:   templateformat.ActionHide,
		},
		{
			ID:       "hh-show-window",
			Field:    templateformat.FieldTimeOfDay,
			Operator: templateformat.OpBetween,
			Value:    "16:00,18:00",
			Action:   templateformat.ActionShow,
		},
		{
			ID:              "hh-text",
			Field:           templateformat.FieldTimeOfDay,
			Operator:        templateformat.OpBetween,
			Value:           "16:00,18:00",
			Action:          templateformat.ActionReplaceText,
			ReplacementText: "Happy Hour: 2-for-1 drinks until 6pm!",
		},
	}
	return blocks
}

func kitchenBlocks() []templateformat.TemplateBlock {
	blocks := templateformat.DefaultBlocks()
	templateformat.Toggle(blocks, "totals")
	templateformat.Toggle(blocks, "payment")
	templateformat.Toggle(blocks, "footer")
	templateformat.Toggle(blocks, "allergen")
	return blocks
}

func deliveryBlocks() []templateformat.TemplateBlock {
	blocks := templateformat.DefaultBlocks()
	templateformat.Toggle(blocks, "qr")
	qr := templateformat.FindBlock(blocks, "qr")
	qr.Conditions = []templateformat.ConditionalRule{
		{
			ID:       "qr-delivery-only",
			Field:    templateformat.FieldOrderType,
			Operator: templateformat.OpNotEquals,
			Value:    "delivery",
			Action:   templateformat.ActionHide,
		},
	}
	return blocks
}
