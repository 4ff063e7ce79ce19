// Package assembler drives one invoice generation request through its stages:
// computing totals, filling the template, converting to the final artifact,
// and persisting the ledger record.
package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/config"
	"github.com/rmarban/invoicedesk/internal/converter"
	"github.com/rmarban/invoicedesk/internal/docxtpl"
	"github.com/rmarban/invoicedesk/internal/ledger"
	"github.com/rmarban/invoicedesk/internal/models"
	"github.com/rmarban/invoicedesk/pkg/identifier"
)

const idPrefix = "INV"

// Request carries everything needed to generate one invoice.
type Request struct {
	Client     models.Client
	Lines      []models.ServiceLine
	TaxPercent string
	Payment    models.PaymentInfo
	OutputPath string
}

// Result reports a completed generation.
type Result struct {
	InvoiceID  string
	OutputPath string
	Totals     Totals
}

// Assembler generates invoices from a template document.
type Assembler struct {
	templatePath string
	tempDir      string
	business     config.BusinessInfo
	converter    converter.Converter
	ledger       *ledger.Ledger
	logger       *zap.Logger
}

// New creates an invoice assembler. tempDir is where filled intermediate
// documents are staged; pass "" for the system temp directory.
func New(templatePath, tempDir string, business config.BusinessInfo, conv converter.Converter, led *ledger.Ledger, logger *zap.Logger) *Assembler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Assembler{
		templatePath: templatePath,
		tempDir:      tempDir,
		business:     business,
		converter:    conv,
		ledger:       led,
		logger:       logger,
	}
}

// Generate runs the full pipeline for one request. The intermediate filled
// document is removed on every exit path. The produced artifact and the
// ledger record are not transactional with respect to each other: when
// persistence fails after a successful conversion the artifact stays on disk
// and the error is surfaced to the caller.
func (a *Assembler) Generate(ctx context.Context, req Request) (*Result, error) {
	invoiceID := identifier.New(idPrefix)
	issuedAt := time.Now().Format("2006-01-02 15:04")

	totals := ComputeTotals(req.Lines, req.TaxPercent)
	placeholders := Placeholders(invoiceID, issuedAt, req, a.business, totals)

	tempDoc := filepath.Join(a.tempDir, fmt.Sprintf("invoice-%s.docx", uuid.NewString()))
	if err := docxtpl.Fill(a.templatePath, tempDoc, placeholders); err != nil {
		return nil, err
	}
	defer os.Remove(tempDoc)

	if err := a.converter.Convert(ctx, tempDoc, req.OutputPath); err != nil {
		return nil, err
	}

	record := &models.Invoice{
		InvoiceID:     invoiceID,
		ClientName:    req.Client.Name,
		ClientEmail:   req.Client.Email,
		ClientPhone:   req.Client.Phone,
		ClientAddress: req.Client.Address,
		TotalAmount:   totals.GrandTotal.InexactFloat64(),
		TaxAmount:     totals.Tax.InexactFloat64(),
		InvoiceDate:   issuedAt,
		PaymentMethod: req.Payment.Method,
		PaymentEntity: req.Payment.Entity,
	}
	if err := a.ledger.Save(record); err != nil {
		// The artifact already exists; the caller decides how to reconcile.
		a.logger.Warn("Invoice artifact produced but ledger persistence failed",
			zap.String("invoice_id", invoiceID),
			zap.String("output_path", req.OutputPath),
			zap.Error(err))
		return nil, fmt.Errorf("invoice %s generated at %s but not recorded: %w", invoiceID, req.OutputPath, err)
	}

	a.logger.Info("Invoice generated",
		zap.String("invoice_id", invoiceID),
		zap.String("client", req.Client.Name),
		zap.String("total", totals.GrandTotal.StringFixed(2)),
		zap.String("output_path", req.OutputPath))

	return &Result{
		InvoiceID:  invoiceID,
		OutputPath: req.OutputPath,
		Totals:     totals,
	}, nil
}
