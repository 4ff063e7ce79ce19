package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/assembler"
	"github.com/rmarban/invoicedesk/internal/clients"
	"github.com/rmarban/invoicedesk/internal/converter"
	"github.com/rmarban/invoicedesk/internal/docxtpl"
	"github.com/rmarban/invoicedesk/internal/ledger"
	"github.com/rmarban/invoicedesk/internal/models"
	"github.com/rmarban/invoicedesk/internal/report"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	clients   *clients.Store
	ledger    *ledger.Ledger
	assembler *assembler.Assembler
	exporter  *report.ExcelExporter
	outputDir string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	clientStore *clients.Store,
	invoiceLedger *ledger.Ledger,
	asm *assembler.Assembler,
	exporter *report.ExcelExporter,
	outputDir string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		clients:   clientStore,
		ledger:    invoiceLedger,
		assembler: asm,
		exporter:  exporter,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// GenerateInvoiceRequest is the payload for POST /invoices/generate. Either
// client_id (resolved against the client store) or an inline client must be
// provided.
type GenerateInvoiceRequest struct {
	ClientID   string               `json:"client_id"`
	Client     *models.Client       `json:"client"`
	Lines      []models.ServiceLine `json:"service_lines"`
	TaxPercent string               `json:"tax_percent"`
	Payment    models.PaymentInfo   `json:"payment"`
	OutputPath string               `json:"output_path"`
}

// UpdateStatusRequest is the payload for PATCH /invoices/:invoice_id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListClients handles GET /api/v1/clients, with optional ?q= substring search
func (h *Handlers) ListClients(c *gin.Context) {
	var (
		records []models.Client
		err     error
	)
	if query := c.Query("q"); query != "" {
		records, err = h.clients.Search(query)
	} else {
		records, err = h.clients.Load()
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// CreateClient handles POST /api/v1/clients
func (h *Handlers) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	id, err := h.clients.Add(client)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"id": id}})
}

// GetClient handles GET /api/v1/clients/:id
func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.clients.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "client not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: client})
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *Handlers) UpdateClient(c *gin.Context) {
	var patch models.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.clients.Update(c.Param("id"), patch); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *Handlers) DeleteClient(c *gin.Context) {
	if err := h.clients.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListInvoices handles GET /api/v1/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	filters := ledger.Filters{
		ClientName: c.Query("client_name"),
		Status:     c.Query("status"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	}

	summaries, err := h.ledger.GetAll(filters, c.Query("order_by"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summaries})
}

// GetInvoice handles GET /api/v1/invoices/:invoice_id
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.ledger.GetDetails(c.Param("invoice_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoice})
}

// UpdateInvoiceStatus handles PATCH /api/v1/invoices/:invoice_id/status
func (h *Handlers) UpdateInvoiceStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.ledger.UpdateStatus(c.Param("invoice_id"), req.Status); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteInvoice handles DELETE /api/v1/invoices/:invoice_id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.ledger.Delete(c.Param("invoice_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// GenerateInvoice handles POST /api/v1/invoices/generate
func (h *Handlers) GenerateInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	var client models.Client
	switch {
	case req.ClientID != "":
		found, err := h.clients.Get(req.ClientID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if found == nil {
			c.JSON(http.StatusNotFound, Response{Success: false, Error: "client not found"})
			return
		}
		client = *found
	case req.Client != nil:
		client = *req.Client
	default:
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "client_id or client is required"})
		return
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(h.outputDir, fmt.Sprintf("invoice-%s.pdf", time.Now().Format("20060102-150405")))
	}

	result, err := h.assembler.Generate(c.Request.Context(), assembler.Request{
		Client:     client,
		Lines:      req.Lines,
		TaxPercent: req.TaxPercent,
		Payment:    req.Payment,
		OutputPath: outputPath,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{
		"invoice_id":  result.InvoiceID,
		"output_path": result.OutputPath,
		"subtotal":    result.Totals.Subtotal.StringFixed(2),
		"tax":         result.Totals.Tax.StringFixed(2),
		"grand_total": result.Totals.GrandTotal.StringFixed(2),
	}})
}

// ExportInvoices handles GET /api/v1/invoices/export, applying the same
// filters as the listing and returning an .xlsx attachment
func (h *Handlers) ExportInvoices(c *gin.Context) {
	filters := ledger.Filters{
		ClientName: c.Query("client_name"),
		Status:     c.Query("status"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	}

	summaries, err := h.ledger.GetAll(filters, c.Query("order_by"))
	if err != nil {
		h.fail(c, err)
		return
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("invoices-%d.xlsx", time.Now().UnixNano()))
	if err := h.exporter.Export(summaries, path); err != nil {
		h.fail(c, err)
		return
	}
	defer os.Remove(path)

	c.FileAttachment(path, "invoices.xlsx")
}

// fail maps core errors to HTTP status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, clients.ErrNotFound), errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, clients.ErrNameRequired), errors.Is(err, ledger.ErrMissingField):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, docxtpl.ErrTemplateNotFound):
		status = http.StatusInternalServerError
	case errors.Is(err, converter.ErrConversionFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
