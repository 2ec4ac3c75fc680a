package driven

// DocumentRenderer formats plain text as a downloadable document.
type DocumentRenderer interface {
	// Format returns the file extension without the dot (e.g., "docx").
	Format() string

	// Render lays out the title and body, one paragraph per line.
	Render(title, body string) ([]byte, error)
}
