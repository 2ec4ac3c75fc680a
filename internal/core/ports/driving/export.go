package driving

// ExportService renders text as downloadable documents.
type ExportService interface {
	// Export renders the title and body in the named format.
	Export(format, title, body string) ([]byte, error)

	// Formats lists the available formats.
	Formats() []string
}
