package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// createTestDOCX creates a minimal DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func body(paragraphs ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` +
		strings.Join(paragraphs, "") + `</w:body></w:document>`
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func extract(t *testing.T, content []byte) (string, error) {
	t.Helper()
	return New().Extract(context.Background(), &domain.IntakeFile{Name: "statement.docx", Content: content})
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
	assert.Equal(t, domain.KindDOCX, New().Kind())
}

func TestExtract_ParagraphsOnePerLine(t *testing.T) {
	text, err := extract(t, createTestDOCX(t, body(para("A"), para("B"), para("C"))))

	require.NoError(t, err)
	assert.Equal(t, "A\nB\nC", text)
}

func TestExtract_MultipleRuns(t *testing.T) {
	doc := body(`<w:p><w:r><w:t xml:space="preserve">Officer </w:t></w:r><w:r><w:t>Reyes</w:t></w:r></w:p>`)

	text, err := extract(t, createTestDOCX(t, doc))

	require.NoError(t, err)
	assert.Equal(t, "Officer Reyes", text)
}

func TestExtract_HyperlinksTabsAndBreaks(t *testing.T) {
	doc := body(
		`<w:p><w:r><w:t>See</w:t></w:r><w:hyperlink><w:r><w:t> report</w:t></w:r></w:hyperlink></w:p>`,
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`,
	)

	text, err := extract(t, createTestDOCX(t, doc))

	require.NoError(t, err)
	assert.Equal(t, "See report\na\tb\nc", text)
}

func TestExtract_EmptyParagraphsKept(t *testing.T) {
	text, err := extract(t, createTestDOCX(t, body(para("A"), `<w:p/>`, para("C"))))

	require.NoError(t, err)
	assert.Equal(t, "A\n\nC", text)
}

func TestExtract_TableParagraphs(t *testing.T) {
	doc := body(para("Before"), `<w:tbl><w:tr><w:tc>`+para("Cell")+`</w:tc></w:tr></w:tbl>`, para("After"))

	text, err := extract(t, createTestDOCX(t, doc))

	require.NoError(t, err)
	assert.Equal(t, "Before\nCell\nAfter", text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	text, err := extract(t, createTestDOCX(t, body()))

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_InvalidZip(t *testing.T) {
	_, err := extract(t, []byte("not a zip file"))

	var ee *domain.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.StageDOCX, ee.Stage)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	_, err := extract(t, createTestDOCX(t, ""))

	var ee *domain.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.StageDOCX, ee.Stage)
	assert.Contains(t, ee.Detail, "word/document.xml")
}

func TestExtract_MalformedXML(t *testing.T) {
	_, err := extract(t, createTestDOCX(t, `<w:document `+wordNS+`><w:body><w:p>`))

	var ee *domain.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.StageDOCX, ee.Stage)
}

func TestExtract_NilFile(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func BenchmarkExtract(b *testing.B) {
	var paragraphs []string
	for i := 0; i < 200; i++ {
		paragraphs = append(paragraphs, para("The defendant was stopped at the intersection."))
	}
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("word/document.xml")
	_, _ = f.Write([]byte(body(paragraphs...)))
	_ = w.Close()
	file := &domain.IntakeFile{Name: "bench.docx", Content: buf.Bytes()}
	e := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Extract(context.Background(), file)
	}
}
