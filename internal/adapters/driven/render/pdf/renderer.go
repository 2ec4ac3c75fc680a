// Package pdf renders plain text as a paginated PDF.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.DocumentRenderer = (*Renderer)(nil)

// Layout defaults, in millimetres and points.
const (
	pageMargin   = 25.4
	titleSize    = 14
	bodySize     = 12
	lineHeight   = 6
	fontFamily   = "Times"
	documentInfo = "ExonaScope"
)

// Renderer writes .pdf files using the core Times font.
type Renderer struct {
	pageSize string
}

// New creates a PDF renderer on US Letter paper.
func New() *Renderer {
	return &Renderer{pageSize: "Letter"}
}

// Format returns "pdf".
func (r *Renderer) Format() string {
	return "pdf"
}

// Render lays title out as a centred heading and body as wrapped
// paragraphs, one per line.
func (r *Renderer) Render(title, body string) ([]byte, error) {
	doc := fpdf.New("P", "mm", r.pageSize, "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle(title, true)
	doc.SetCreator(documentInfo, true)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(fontFamily, "I", 9)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	// Core fonts are cp1252; translate so quotes and dashes survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	if title != "" {
		doc.SetFont(fontFamily, "B", titleSize)
		doc.MultiCell(0, lineHeight+2, tr(title), "", "C", false)
		doc.Ln(lineHeight)
	}

	doc.SetFont(fontFamily, "", bodySize)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			doc.Ln(lineHeight)
			continue
		}
		doc.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
