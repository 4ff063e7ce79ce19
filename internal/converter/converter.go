// Package converter invokes the external document-to-PDF converter. The core
// treats it as a black box that either produces the output file or fails.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrConversionFailed is returned when the external converter does not
// produce the requested output file.
var ErrConversionFailed = errors.New("document conversion failed")

// Converter turns a filled document into the final artifact.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// LibreOffice converts documents by shelling out to the soffice binary in
// headless mode.
type LibreOffice struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLibreOffice creates a converter backed by the given soffice binary.
func NewLibreOffice(binary string, timeout time.Duration, logger *zap.Logger) *LibreOffice {
	return &LibreOffice{
		binary:  binary,
		timeout: timeout,
		logger:  logger,
	}
}

// Convert runs the converter on inputPath and moves the produced PDF to
// outputPath.
func (c *LibreOffice) Convert(ctx context.Context, inputPath, outputPath string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, inputPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Error("Converter invocation failed",
			zap.String("binary", c.binary),
			zap.String("input", inputPath),
			zap.String("output", strings.TrimSpace(string(output))),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	// soffice names the result after the input file; move it to the
	// caller's requested path.
	base := filepath.Base(inputPath)
	produced := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if produced != outputPath {
		if err := os.Rename(produced, outputPath); err != nil {
			return fmt.Errorf("%w: converter produced no output file: %v", ErrConversionFailed, err)
		}
	}

	c.logger.Info("Document converted",
		zap.String("input", inputPath),
		zap.String("output", outputPath))
	return nil
}
