// Package pdf extracts text from PDF files, reading the embedded text
// layer first and falling back to OCR for scanned documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// TextLayerReader returns the embedded text of a PDF.
type TextLayerReader func(content []byte) (string, error)

// Extractor handles PDF documents.
type Extractor struct {
	readText    TextLayerReader
	rasteriser  driven.PageRasteriser
	ocr         driven.OCREngine
	dpi         int
	pageSegMode int
	tempDir     string
}

// Option configures the extractor.
type Option func(*Extractor)

// WithDPI sets the OCR rasterisation resolution.
func WithDPI(dpi int) Option {
	return func(e *Extractor) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithPageSegMode sets the OCR page segmentation mode.
func WithPageSegMode(psm int) Option {
	return func(e *Extractor) {
		if psm >= 0 {
			e.pageSegMode = psm
		}
	}
}

// WithTempDir sets where scratch directories are created.
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// WithTextLayerReader replaces the embedded-text reader.
func WithTextLayerReader(fn TextLayerReader) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.readText = fn
		}
	}
}

// New creates a PDF extractor. rasteriser and ocr may be nil, in which
// case scanned PDFs fail at the OCR stage.
func New(rasteriser driven.PageRasteriser, ocr driven.OCREngine, opts ...Option) *Extractor {
	e := &Extractor{
		readText:    ReadTextLayer,
		rasteriser:  rasteriser,
		ocr:         ocr,
		dpi:         domain.DefaultOCRDPI,
		pageSegMode: domain.DefaultOCRPageSegMode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns domain.KindPDF.
func (e *Extractor) Kind() domain.MediaKind {
	return domain.KindPDF
}

// Extract returns the text layer, or OCR output when the text layer is
// blank. OCR never runs for a PDF with embedded text.
func (e *Extractor) Extract(ctx context.Context, file *domain.IntakeFile) (string, error) {
	if file == nil {
		return "", domain.NewExtractionError(domain.StageInput, domain.ErrInvalidInput)
	}

	text, err := e.readText(file.Content)
	if err != nil {
		return "", domain.NewExtractionError(domain.StagePDFText, err)
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	logger.Debug("%s: no embedded text, running OCR", file.Name)
	return e.runOCR(ctx, file)
}

func (e *Extractor) runOCR(ctx context.Context, file *domain.IntakeFile) (string, error) {
	if e.rasteriser == nil || e.ocr == nil {
		return "", domain.NewExtractionError(domain.StageOCR, domain.ErrToolNotFound)
	}

	dir, err := os.MkdirTemp(e.tempDir, "exonascope-pdf-*")
	if err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, file.Content, 0600); err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}

	pages, err := e.rasteriser.Rasterise(ctx, input, dir, e.dpi)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageRasterise, err)
	}

	var out []string
	for i, page := range pages {
		text, err := e.ocr.Recognise(ctx, page, e.pageSegMode)
		if err != nil {
			return "", domain.NewExtractionError(domain.StageOCR, fmt.Errorf("page %d: %w", i+1, err))
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n"), nil
}

// ReadTextLayer returns the plain text of every non-empty page, joined
// by newlines.
func ReadTextLayer(content []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n"), nil
}
