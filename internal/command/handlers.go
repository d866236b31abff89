package command

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/thereceipt/template-engine/internal/codes"
	"github.com/thereceipt/template-engine/internal/gallery"
	"github.com/thereceipt/template-engine/internal/rules"
	"github.com/thereceipt/template-engine/internal/scanner"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// handleTemplate handles template subcommands
func (e *Executor) handleTemplate(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: template <list|show|rename|delete|preview|check|qr> [args]",
		}
	}

	switch args[0] {
	case "list":
		return e.handleTemplateList()
	case "show":
		return e.handleTemplateShow(args[1:])
	case "rename":
		return e.handleTemplateRename(args[1:])
	case "delete":
		return e.handleTemplateDelete(args[1:])
	case "preview":
		return e.handleTemplatePreview(args[1:])
	case "check":
		return e.handleTemplateCheck(args[1:])
	case "qr":
		return e.handleTemplateQR(args[1:])
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown template subcommand: %s", args[0]),
		}
	}
}

func (e *Executor) handleTemplateList() *Result {
	templates := e.store.List()

	items := make([]map[string]interface{}, len(templates))
	for i, t := range templates {
		items[i] = map[string]interface{}{
			"id":     t.ID,
			"name":   t.Name,
			"type":   string(t.Type),
			"active": t.IsActive,
			"blocks": len(t.Blocks),
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d template(s)", len(templates)),
		Data: map[string]interface{}{
			"templates": items,
		},
	}
}

func (e *Executor) handleTemplateShow(args []string) *Result {
	if len(args) < 1 {
		return &Result{Success: false, Error: "usage: template show <id>"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	data, err := t.ToJSON()
	if err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to encode template: %v", err)}
	}

	return &Result{
		Success: true,
		Message: string(data),
		Data: map[string]interface{}{
			"template_id": t.ID,
		},
	}
}

func (e *Executor) handleTemplateRename(args []string) *Result {
	if len(args) < 2 {
		return &Result{Success: false, Error: "usage: template rename <id> <name>"}
	}

	if !e.store.Rename(args[0], args[1]) {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Template renamed to %q", args[1]),
	}
}

func (e *Executor) handleTemplateDelete(args []string) *Result {
	if len(args) < 1 {
		return &Result{Success: false, Error: "usage: template delete <id>"}
	}

	if !e.store.Remove(args[0]) {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	return &Result{
		Success: true,
		Message: "Template deleted",
	}
}

// handleTemplatePreview evaluates a template against a print context
// supplied as key=value args (e.g. order_type=takeaway total_amount=2500)
func (e *Executor) handleTemplatePreview(args []string) *Result {
	if len(args) < 1 {
		return &Result{
			Success: false,
			Error:   "usage: template preview <id> [field=value ...]",
		}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	ctx, err := ParseContext(args[1:])
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}

	resolved := rules.EvaluateTemplate(t, ctx)

	items := make([]map[string]interface{}, len(resolved))
	for i, rb := range resolved {
		items[i] = map[string]interface{}{
			"id":      rb.Block.ID,
			"type":    string(rb.Block.Type),
			"order":   rb.Block.Order,
			"label":   rb.Block.Label,
		}
		if rb.Text != "" {
			items[i]["text"] = rb.Text
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d of %d block(s) print", len(resolved), len(t.Blocks)),
		Data: map[string]interface{}{
			"blocks": items,
		},
	}
}

// handleTemplateCheck preflights qr and barcode block payloads
func (e *Executor) handleTemplateCheck(args []string) *Result {
	if len(args) < 1 {
		return &Result{Success: false, Error: "usage: template check <id>"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	var problems []string
	for _, b := range t.Blocks {
		switch b.Type {
		case templateformat.BlockBarcode:
			format, _ := b.Settings["format"].(string)
			value, _ := b.Settings["value"].(string)
			if value == "" {
				value = t.InvoicePrefix + "00000001"
			}
			if err := codes.CheckBarcode(format, value); err != nil {
				problems = append(problems, fmt.Sprintf("block %s: %v", b.ID, err))
			}
		case templateformat.BlockQR:
			if b.Enabled && t.QRCodeURL == "" {
				problems = append(problems, fmt.Sprintf("block %s: qr block enabled but qrCodeUrl is empty", b.ID))
			}
		}
	}

	if len(problems) > 0 {
		return &Result{
			Success: false,
			Error:   strings.Join(problems, "; "),
		}
	}

	return &Result{
		Success: true,
		Message: "All code blocks check out",
	}
}

func (e *Executor) handleTemplateQR(args []string) *Result {
	if len(args) < 2 {
		return &Result{Success: false, Error: "usage: template qr <id> <output.png>"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}
	if t.QRCodeURL == "" {
		return &Result{Success: false, Error: "template has no qrCodeUrl set"}
	}

	png, err := codes.QRPNG(t.QRCodeURL, 256)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}

	if err := os.WriteFile(args[1], png, 0644); err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to write %s: %v", args[1], err)}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("QR code written to %s", args[1]),
	}
}

// handleBlock handles block subcommands
func (e *Executor) handleBlock(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: block <move|toggle|conditions> <template-id> [args]",
		}
	}

	switch args[0] {
	case "move":
		return e.handleBlockMove(args[1:])
	case "toggle":
		return e.handleBlockToggle(args[1:])
	case "conditions":
		return e.handleBlockConditions(args[1:])
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown block subcommand: %s", args[0]),
		}
	}
}

func (e *Executor) handleBlockMove(args []string) *Result {
	if len(args) < 3 {
		return &Result{Success: false, Error: "usage: block move <template-id> <from-index> <to-index>"}
	}

	from, err1 := strconv.Atoi(args[1])
	to, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return &Result{Success: false, Error: "indices must be integers"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	if !templateformat.Reorder(t.Blocks, from, to) {
		// Same position or out of range: nothing to do, not an error
		return &Result{
			Success: true,
			Message: "No change",
		}
	}

	if err := e.store.Put(t); err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to save template: %v", err)}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Block moved from %d to %d", from, to),
	}
}

func (e *Executor) handleBlockToggle(args []string) *Result {
	if len(args) < 2 {
		return &Result{Success: false, Error: "usage: block toggle <template-id> <block-id>"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	if !templateformat.Toggle(t.Blocks, args[1]) {
		return &Result{Success: false, Error: fmt.Sprintf("block not found: %s", args[1])}
	}

	if err := e.store.Put(t); err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to save template: %v", err)}
	}

	b := templateformat.FindBlock(t.Blocks, args[1])
	state := "disabled"
	if b.Enabled {
		state = "enabled"
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Block %s %s", args[1], state),
	}
}

// handleBlockConditions lists the rules attached to one block
func (e *Executor) handleBlockConditions(args []string) *Result {
	if len(args) < 2 {
		return &Result{Success: false, Error: "usage: block conditions <template-id> <block-id>"}
	}

	t := e.store.Get(args[0])
	if t == nil {
		return &Result{Success: false, Error: fmt.Sprintf("template not found: %s", args[0])}
	}

	b := templateformat.FindBlock(t.Blocks, args[1])
	if b == nil {
		return &Result{Success: false, Error: fmt.Sprintf("block not found: %s", args[1])}
	}

	items := make([]map[string]interface{}, len(b.Conditions))
	for i, rule := range b.Conditions {
		items[i] = map[string]interface{}{
			"id":       rule.ID,
			"field":    string(rule.Field),
			"operator": string(rule.Operator),
			"value":    rule.Value,
			"action":   string(rule.Action),
		}
		if rule.ReplacementText != "" {
			items[i]["replacementText"] = rule.ReplacementText
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d rule(s) on block %s", len(items), args[1]),
		Data: map[string]interface{}{
			"conditions": items,
		},
	}
}

// handleGallery handles gallery subcommands
func (e *Executor) handleGallery(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: gallery <list|install> [args]",
		}
	}

	switch args[0] {
	case "list":
		return e.handleGalleryList()
	case "install":
		return e.handleGalleryInstall(args[1:])
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown gallery subcommand: %s", args[0]),
		}
	}
}

func (e *Executor) handleGalleryList() *Result {
	categories := gallery.Categories()

	items := make([]map[string]interface{}, 0)
	for _, cat := range categories {
		for _, t := range cat.Templates {
			items = append(items, map[string]interface{}{
				"id":       t.ID,
				"name":     t.Name,
				"type":     string(t.Type),
				"category": cat.Name,
			})
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d gallery template(s)", len(items)),
		Data: map[string]interface{}{
			"gallery": items,
		},
	}
}

func (e *Executor) handleGalleryInstall(args []string) *Result {
	if len(args) < 1 {
		return &Result{Success: false, Error: "usage: gallery install <gallery-template-id>"}
	}

	installed := gallery.Install(args[0])
	if installed == nil {
		return &Result{Success: false, Error: fmt.Sprintf("gallery template not found: %s", args[0])}
	}

	if err := e.store.Put(installed); err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to save template: %v", err)}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Installed %q", installed.Name),
		Data: map[string]interface{}{
			"template_id": installed.ID,
		},
	}
}

// handleScan analyzes a document file and saves the resulting draft
func (e *Executor) handleScan(args []string) *Result {
	if len(args) < 1 {
		return &Result{Success: false, Error: "usage: scan <file-path>"}
	}

	path := args[0]
	if !scanner.SupportedFormat(path) {
		return &Result{Success: false, Error: fmt.Sprintf("unsupported file format: %s", path)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to read file: %v", err)}
	}

	result, err := e.scanner.Scan(context.Background(), scanner.Upload{
		Filename: path,
		Data:     data,
	})
	if err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("scan failed: %v", err)}
	}

	t := scanner.BuildTemplate(result)
	if err := e.store.Put(t); err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to save template: %v", err)}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Created %q (confidence %.0f%%)", t.Name, result.Confidence*100),
		Data: map[string]interface{}{
			"template_id": t.ID,
			"confidence":  result.Confidence,
			"detected":    string(result.DetectedType),
		},
	}
}

func (e *Executor) handleHelp(args []string) *Result {
	help := `Available commands:
  template list                               List saved templates
  template show <id>                          Show a template as JSON
  template rename <id> <name>                 Rename a template
  template delete <id>                        Delete a template
  template preview <id> [field=value ...]     Evaluate against a print context
  template check <id>                         Preflight qr/barcode blocks
  template qr <id> <output.png>               Export the QR payload as PNG
  block move <template-id> <from> <to>        Move a block to a new position
  block toggle <template-id> <block-id>       Enable/disable a block
  block conditions <template-id> <block-id>   List a block's rules
  gallery list                                List the built-in catalog
  gallery install <gallery-template-id>       Install a catalog template
  scan <file-path>                            Analyze a document into a draft
  help                                        Show this message

Preview context fields:
  order_type payment_method time_of_day day_of_week
  total_amount platform guest_language season`

	return &Result{
		Success: true,
		Message: help,
	}
}

// ParseContext builds a print context from key=value arguments
func ParseContext(args []string) (*rules.PrintContext, error) {
	ctx := &rules.PrintContext{}

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("context argument must be field=value, got: %s", arg)
		}

		switch key {
		case "order_type":
			ctx.OrderType = value
		case "payment_method":
			ctx.PaymentMethod = value
		case "time_of_day":
			ctx.TimeOfDay = value
		case "day_of_week":
			ctx.DayOfWeek = value
		case "total_amount":
			amount, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("total_amount must be an integer in minor units, got: %s", value)
			}
			ctx.TotalAmount = amount
		case "platform":
			ctx.Platform = value
		case "guest_language":
			ctx.GuestLanguage = value
		case "season":
			ctx.Season = value
		default:
			return nil, fmt.Errorf("unknown context field: %s", key)
		}
	}

	return ctx, nil
}
