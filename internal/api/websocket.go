package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereceipt/template-engine/internal/rules"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// WebSocket message types
const (
	EventPreview         = "preview"
	EventTemplateSaved   = "template_saved"
	EventTemplateDeleted = "template_deleted"
	EventResponse        = "response"
	EventError           = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	server *Server
	mu     sync.Mutex
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("WebSocket upgrade failed: %v\n", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		server: s,
	}

	// Start goroutines
	go client.readPump()
	go client.writePump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		c.mu.Lock()
		err := c.conn.WriteJSON(msg)
		c.mu.Unlock()

		if err != nil {
			fmt.Printf("WebSocket write error: %v\n", err)
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *WSMessage) {
	switch msg.Event {
	case EventPreview:
		c.handlePreviewEvent(msg.Data)
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", msg.Event))
	}
}

// handlePreviewEvent evaluates a stored template against a print
// context sent over the socket, so editors can show live previews while
// the operator tweaks rules.
func (c *WSClient) handlePreviewEvent(data map[string]interface{}) {
	templateID, ok := data["template_id"].(string)
	if !ok {
		c.sendError("template_id is required")
		return
	}

	t := c.server.store.Get(templateID)
	if t == nil {
		c.sendError(fmt.Sprintf("template not found: %s", templateID))
		return
	}

	ctx := contextFromMap(data)
	resolved := rules.EvaluateTemplate(t, ctx)

	c.sendResponse(map[string]interface{}{
		"template_id": t.ID,
		"blocks":      resolved,
	})
}

// contextFromMap pulls print-context fields out of a loosely typed
// websocket payload. Missing fields stay at their zero values.
func contextFromMap(data map[string]interface{}) *rules.PrintContext {
	ctx := &rules.PrintContext{}

	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}

	ctx.OrderType = str("orderType")
	ctx.PaymentMethod = str("paymentMethod")
	ctx.TimeOfDay = str("timeOfDay")
	ctx.DayOfWeek = str("dayOfWeek")
	ctx.Platform = str("platform")
	ctx.GuestLanguage = str("guestLanguage")
	ctx.Season = str("season")

	if v, ok := data["totalAmount"].(float64); ok {
		ctx.TotalAmount = int64(v)
	}

	return ctx
}

func (c *WSClient) sendResponse(data map[string]interface{}) {
	c.send <- WSMessage{
		Event: EventResponse,
		Data:  data,
	}
}

// Client tracking for broadcasts
var (
	clients   = make(map[*WSClient]bool)
	clientsMu sync.RWMutex
)

func addClient(client *WSClient) {
	clientsMu.Lock()
	clients[client] = true
	clientsMu.Unlock()
}

func removeClient(client *WSClient) {
	clientsMu.Lock()
	delete(clients, client)
	clientsMu.Unlock()
}

func (c *WSClient) readPump() {
	defer func() {
		removeClient(c)
		c.conn.Close()
	}()

	addClient(c)

	for {
		var msg WSMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("WebSocket error: %v\n", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *WSClient) sendError(message string) {
	c.send <- WSMessage{
		Event: EventError,
		Data: map[string]interface{}{
			"error": message,
		},
	}
}

// BroadcastTemplateSaved notifies all connected editors that a template
// changed, so open editor views can refresh
func (s *Server) BroadcastTemplateSaved(t *templateformat.ReceiptTemplate) {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	message := WSMessage{
		Event: EventTemplateSaved,
		Data: map[string]interface{}{
			"id":   t.ID,
			"name": t.Name,
			"type": string(t.Type),
		},
	}

	for client := range clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full, skip
		}
	}
}

// BroadcastTemplateDeleted notifies all connected editors of a deletion
func (s *Server) BroadcastTemplateDeleted(templateID string) {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	message := WSMessage{
		Event: EventTemplateDeleted,
		Data: map[string]interface{}{
			"id": templateID,
		},
	}

	for client := range clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full, skip
		}
	}
}
