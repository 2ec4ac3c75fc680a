// Package docx extracts paragraph text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const documentPart = "word/document.xml"

// Extractor reads DOCX files, one output line per paragraph.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kind returns domain.KindDOCX.
func (e *Extractor) Kind() domain.MediaKind {
	return domain.KindDOCX
}

// Extract returns the document's paragraphs in order, joined by newlines.
func (e *Extractor) Extract(_ context.Context, file *domain.IntakeFile) (string, error) {
	if file == nil {
		return "", domain.NewExtractionError(domain.StageInput, domain.ErrInvalidInput)
	}

	reader, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return "", domain.NewExtractionError(domain.StageDOCX, fmt.Errorf("open archive: %w", domain.ErrInvalidInput))
	}

	part, err := readPart(reader, documentPart)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageDOCX, err)
	}

	paragraphs, err := parseParagraphs(part)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageDOCX, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// readPart returns the contents of one archive member.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s: %w", name, domain.ErrInvalidInput)
}

// parseParagraphs walks the document XML and returns the text of every
// w:p element in document order. Runs inside hyperlinks and tables are
// included; w:tab and w:br become a tab and a newline.
func parseParagraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
