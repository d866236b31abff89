// Package api handles HTTP and WebSocket API endpoints
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereceipt/template-engine/internal/codes"
	"github.com/thereceipt/template-engine/internal/command"
	"github.com/thereceipt/template-engine/internal/gallery"
	"github.com/thereceipt/template-engine/internal/rules"
	"github.com/thereceipt/template-engine/internal/scanner"
	"github.com/thereceipt/template-engine/internal/store"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// Server is the API server
type Server struct {
	router   *gin.Engine
	store    *store.Store
	scanner  *scanner.Service
	executor *command.Executor
	upgrader websocket.Upgrader
}

// NewServer creates a new API server
func NewServer(st *store.Store, sc *scanner.Service) *Server {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// CORS middleware
	router.Use(corsMiddleware())

	server := &Server{
		router:   router,
		store:    st,
		scanner:  sc,
		executor: command.NewExecutor(st, sc),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// Template CRUD
	s.router.GET("/templates", s.handleListTemplates)
	s.router.POST("/templates", s.handleCreateTemplate)
	s.router.GET("/template/:id", s.handleGetTemplate)
	s.router.PUT("/template/:id", s.handleUpdateTemplate)
	s.router.DELETE("/template/:id", s.handleDeleteTemplate)

	// Block operations
	s.router.POST("/template/:id/blocks/reorder", s.handleReorderBlocks)
	s.router.POST("/template/:id/block/:blockId/toggle", s.handleToggleBlock)
	s.router.POST("/template/:id/block/:blockId/conditions", s.handleAddCondition)
	s.router.PUT("/template/:id/block/:blockId/condition/:ruleId", s.handleUpdateCondition)
	s.router.DELETE("/template/:id/block/:blockId/condition/:ruleId", s.handleDeleteCondition)

	// Print-time evaluation
	s.router.POST("/template/:id/preview", s.handlePreview)

	// QR export
	s.router.GET("/template/:id/qr.png", s.handleQRExport)

	// Gallery
	s.router.GET("/gallery", s.handleGallery)
	s.router.POST("/gallery/:templateId/install", s.handleGalleryInstall)

	// Document scan
	s.router.POST("/scan", s.handleScan)

	// Command endpoint
	s.router.POST("/command", s.handleCommand)

	// WebSocket
	s.router.GET("/ws", s.handleWebSocket)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// handleListTemplates returns all saved templates
func (s *Server) handleListTemplates(c *gin.Context) {
	templates := s.store.List()

	c.JSON(200, gin.H{
		"templates": templates,
	})
}

// handleCreateTemplate builds a template from a partial and saves it.
// The server assigns the identity; everything else merges over defaults.
func (s *Server) handleCreateTemplate(c *gin.Context) {
	var partial templateformat.Partial
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	partial.ID = uuid.New().String()
	t := templateformat.NewTemplate(partial)

	if err := s.store.Put(t); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	s.BroadcastTemplateSaved(t)
	c.JSON(200, gin.H{"success": true, "template": t})
}

// handleGetTemplate returns a single template
func (s *Server) handleGetTemplate(c *gin.Context) {
	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	c.JSON(200, t)
}

// handleUpdateTemplate replaces a stored template wholesale. Last
// writer wins; concurrent editors are expected to tolerate that.
func (s *Server) handleUpdateTemplate(c *gin.Context) {
	id := c.Param("id")
	if !s.store.Exists(id) {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	var t templateformat.ReceiptTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	// The path parameter is authoritative for identity
	t.ID = id

	if err := s.store.Put(&t); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	s.BroadcastTemplateSaved(&t)
	c.JSON(200, gin.H{"success": true, "template": t})
}

// handleDeleteTemplate removes a template
func (s *Server) handleDeleteTemplate(c *gin.Context) {
	id := c.Param("id")
	if !s.store.Remove(id) {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	s.BroadcastTemplateDeleted(id)
	c.JSON(200, gin.H{"success": true})
}

// handleReorderBlocks moves a block between positions. A reorder that
// resolves to the same position is a successful no-op, not an error: a
// drag gesture that lands where it started should not surface a failure.
func (s *Server) handleReorderBlocks(c *gin.Context) {
	var req struct {
		FromIndex int `json:"fromIndex"`
		ToIndex   int `json:"toIndex"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	changed := templateformat.Reorder(t.Blocks, req.FromIndex, req.ToIndex)
	if changed {
		if err := s.store.Put(t); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		s.BroadcastTemplateSaved(t)
	}

	c.JSON(200, gin.H{"success": true, "changed": changed, "blocks": t.Blocks})
}

// handleToggleBlock flips a block's enabled flag
func (s *Server) handleToggleBlock(c *gin.Context) {
	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	if !templateformat.Toggle(t.Blocks, c.Param("blockId")) {
		c.JSON(404, gin.H{"error": "block not found"})
		return
	}

	if err := s.store.Put(t); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	s.BroadcastTemplateSaved(t)
	c.JSON(200, gin.H{"success": true, "blocks": t.Blocks})
}

// handleAddCondition appends a rule to a block
func (s *Server) handleAddCondition(c *gin.Context) {
	var rule templateformat.ConditionalRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	if !templateformat.AddCondition(t.Blocks, c.Param("blockId"), rule) {
		c.JSON(404, gin.H{"error": "block not found"})
		return
	}

	if err := s.store.Put(t); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	s.BroadcastTemplateSaved(t)
	c.JSON(200, gin.H{"success": true, "rule_id": rule.ID})
}

// handleUpdateCondition replaces a rule on a block. A stale rule id is
// reported but tolerated: the stored template is untouched.
func (s *Server) handleUpdateCondition(c *gin.Context) {
	var rule templateformat.ConditionalRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	updated := templateformat.UpdateCondition(t.Blocks, c.Param("blockId"), c.Param("ruleId"), rule)
	if updated {
		if err := s.store.Put(t); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		s.BroadcastTemplateSaved(t)
	}

	c.JSON(200, gin.H{"success": true, "updated": updated})
}

// handleDeleteCondition removes a rule from a block
func (s *Server) handleDeleteCondition(c *gin.Context) {
	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	deleted := templateformat.DeleteCondition(t.Blocks, c.Param("blockId"), c.Param("ruleId"))
	if deleted {
		if err := s.store.Put(t); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		s.BroadcastTemplateSaved(t)
	}

	c.JSON(200, gin.H{"success": true, "deleted": deleted})
}

// handlePreview evaluates a template's rules against a print context
// and returns the resolved block sequence the renderer would receive
func (s *Server) handlePreview(c *gin.Context) {
	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}

	var ctx rules.PrintContext
	if err := c.ShouldBindJSON(&ctx); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	resolved := rules.EvaluateTemplate(t, &ctx)

	c.JSON(200, gin.H{
		"template_id": t.ID,
		"blocks":      resolved,
	})
}

// handleQRExport returns the template's QR payload as a PNG image
func (s *Server) handleQRExport(c *gin.Context) {
	t := s.store.Get(c.Param("id"))
	if t == nil {
		c.JSON(404, gin.H{"error": "template not found"})
		return
	}
	if t.QRCodeURL == "" {
		c.JSON(400, gin.H{"error": "template has no qrCodeUrl set"})
		return
	}

	png, err := codes.QRPNG(t.QRCodeURL, 256)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.Data(200, "image/png", png)
}

// handleGallery returns the built-in catalog
func (s *Server) handleGallery(c *gin.Context) {
	c.JSON(200, gin.H{
		"categories": gallery.Categories(),
	})
}

// handleGalleryInstall clones a catalog template into the store
func (s *Server) handleGalleryInstall(c *gin.Context) {
	installed := gallery.Install(c.Param("templateId"))
	if installed == nil {
		c.JSON(404, gin.H{"error": "gallery template not found"})
		return
	}

	if err := s.store.Put(installed); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	s.BroadcastTemplateSaved(installed)
	c.JSON(200, gin.H{
		"success":     true,
		"template_id": installed.ID,
		"template":    installed,
	})
}

// handleScan accepts a multipart document upload, runs it through the
// analyzer, and returns the draft template for operator review. The
// draft is not saved here; the client saves it after review.
func (s *Server) handleScan(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "file is required"})
		return
	}

	if !scanner.SupportedFormat(fileHeader.Filename) {
		c.JSON(415, gin.H{"error": fmt.Sprintf("unsupported file format: %s", fileHeader.Filename)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	result, err := s.scanner.Scan(c.Request.Context(), scanner.Upload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		if errors.Is(err, scanner.ErrUnsupportedFormat) {
			c.JSON(415, gin.H{"error": err.Error()})
			return
		}
		c.JSON(502, gin.H{"error": fmt.Sprintf("analysis failed: %v", err)})
		return
	}

	draft := scanner.BuildTemplate(result)

	c.JSON(200, gin.H{
		"success":    true,
		"confidence": result.Confidence,
		"detected":   result.DetectedType,
		"analysis":   result.RawAnalysis,
		"template":   draft,
	})
}

// handleCommand handles command execution requests
func (s *Server) handleCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "command is required"})
		return
	}

	result := s.executor.Execute(req.Command)

	if result.Success {
		statusCode := 200
		response := gin.H{
			"success": true,
		}
		if result.Message != "" {
			response["message"] = result.Message
		}
		if result.Data != nil {
			for k, v := range result.Data {
				response[k] = v
			}
		}
		c.JSON(statusCode, response)
	} else {
		c.JSON(400, gin.H{
			"success": false,
			"error":   result.Error,
		})
	}
}

// Run starts the API server
func (s *Server) Run(addr string) error {
	// Server started - log will be handled by caller
	return s.router.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
