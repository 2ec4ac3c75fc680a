// Package render holds the document renderers used to export transcripts,
// fact summaries and drafted motions.
//
// Each subpackage implements driven.DocumentRenderer for one format:
//
//   - docx: a minimal WordprocessingML package, one paragraph per line
//   - pdf: a paginated PDF built with go-pdf/fpdf
package render
