package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	defaultServerURL = "http://localhost:12213"
)

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	command := strings.Join(flag.Args(), " ")
	result := executeCommand(serverURL, command)

	if result.Success {
		printSuccess(result)
		os.Exit(0)
	}
	printError(result)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Template Engine CLI

Usage:
  template-cli [flags] <command>

Flags:
  -s, -server <url>    Server URL (default: %s)

Commands:
  template list
    List all templates

  template show <id>
    Show a template in full

  template rename <id> <name>
    Set a new display name for a template

  template delete <id>
    Delete a template

  template preview <id> [field=value ...]
    Resolve a template against a print context and show the
    visible blocks. Context fields: order_type, payment_method,
    time_of_day (HH:MM), day_of_week, total_amount (cents),
    platform, guest_language, season

  template check <id>
    Validate a template and verify its barcode/QR settings encode

  template qr <id> <file.png>
    Write the template's QR code to a PNG file

  block move <template-id> <from> <to>
    Move a block from one position to another

  block toggle <template-id> <block-id>
    Enable or disable a block

  block conditions <template-id> <block-id>
    List the conditional rules attached to a block

  gallery list
    List the built-in template gallery

  gallery install <gallery-id>
    Install a gallery template as a new editable copy

  scan <file>
    Analyze an uploaded receipt image and save a draft template

  help
    Show help message

Examples:
  template-cli template list
  template-cli template preview tmpl-123 order_type=dine_in time_of_day=18:30
  template-cli block move tmpl-123 4 1
  template-cli gallery install gallery-kitchen-ticket
  template-cli scan ./kitchen_ticket.jpg
  template-cli -s http://localhost:8080 template list

`, defaultServerURL)
}

type CommandResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func executeCommand(serverURL, command string) *CommandResult {
	url := strings.TrimSuffix(serverURL, "/") + "/command"

	reqBody := map[string]string{
		"command": command,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to marshal request: %v", err),
		}
	}

	resp, err := http.Post(url, "application/json", strings.NewReader(string(jsonData)))
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to connect to server: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to read response: %v", err),
		}
	}

	// The server flattens result data into the top-level object
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to parse response: %v", err),
		}
	}

	result := &CommandResult{Data: make(map[string]interface{})}
	for k, v := range raw {
		switch k {
		case "success":
			result.Success, _ = v.(bool)
		case "message":
			result.Message, _ = v.(string)
		case "error":
			result.Error, _ = v.(string)
		default:
			result.Data[k] = v
		}
	}
	return result
}

func printSuccess(result *CommandResult) {
	if result.Message != "" {
		fmt.Println(result.Message)
	}

	if result.Data == nil {
		return
	}

	if templates, ok := result.Data["templates"].([]interface{}); ok {
		fmt.Println("\nTemplates:")
		for _, t := range templates {
			if tmpl, ok := t.(map[string]interface{}); ok {
				active := " "
				if isActive, _ := tmpl["active"].(bool); isActive {
					active = "*"
				}
				fmt.Printf("  %s %s: %s (%s)\n", active, tmpl["id"], tmpl["name"], tmpl["type"])
			}
		}
	}

	if blocks, ok := result.Data["blocks"].([]interface{}); ok {
		fmt.Println("\nBlocks:")
		for _, b := range blocks {
			if block, ok := b.(map[string]interface{}); ok {
				line := fmt.Sprintf("  %v  %s", block["order"], block["type"])
				if text, ok := block["text"].(string); ok && text != "" {
					line += fmt.Sprintf("  %q", text)
				}
				fmt.Println(line)
			}
		}
	}

	if items, ok := result.Data["gallery"].([]interface{}); ok {
		fmt.Println("\nGallery:")
		for _, it := range items {
			if tmpl, ok := it.(map[string]interface{}); ok {
				fmt.Printf("  %s: %s [%s]\n", tmpl["id"], tmpl["name"], tmpl["category"])
			}
		}
	}

	if templateID, ok := result.Data["template_id"].(string); ok {
		fmt.Printf("Template ID: %s\n", templateID)
	}
}

func printError(result *CommandResult) {
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Error)
	} else if result.Message != "" {
		fmt.Fprintf(os.Stderr, "%s\n", result.Message)
	}
}
