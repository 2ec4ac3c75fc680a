package driven

// ConfigStore holds user overrides keyed by dotted paths such as
// "intake.ocr_dpi". Values are the Go types the caller stored; numbers
// read back from disk are int or float64.
type ConfigStore interface {
	// Get returns the value under key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the string under key, or "" when missing or not a string.
	GetString(key string) string

	// Keys returns the stored keys in name order.
	Keys() []string

	// Set stores value under key and persists it immediately.
	Set(key string, value any) error

	// Unset removes a key so readers fall back to their defaults.
	// Removing a missing key is not an error.
	Unset(key string) error

	// Path returns where the configuration lives.
	Path() string
}
