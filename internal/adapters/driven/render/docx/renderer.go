// Package docx renders plain text as a minimal Word document.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.DocumentRenderer = (*Renderer)(nil)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const (
	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentFooter = `<w:sectPr/></w:body></w:document>`
)

// Renderer writes .docx files.
type Renderer struct{}

// New creates a DOCX renderer.
func New() *Renderer {
	return &Renderer{}
}

// Format returns "docx".
func (r *Renderer) Format() string {
	return "docx"
}

// Render writes title as a bold heading followed by one paragraph per
// line of body.
func (r *Renderer) Render(title, body string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/document.xml", documentXML(title, body)},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(w, p.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(title, body string) string {
	var b strings.Builder
	b.WriteString(documentHeader)
	if title != "" {
		b.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr>`)
		writeText(&b, title)
		b.WriteString(`</w:r></w:p>`)
	}
	body = strings.ReplaceAll(body, "\r\n", "\n")
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			b.WriteString(`<w:p/>`)
			continue
		}
		b.WriteString(`<w:p><w:r>`)
		writeText(&b, line)
		b.WriteString(`</w:r></w:p>`)
	}
	b.WriteString(documentFooter)
	return b.String()
}

// writeText emits a w:t run, preserving leading and trailing spaces.
func writeText(b *strings.Builder, s string) {
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(s))
	b.WriteString(`</w:t>`)
}
