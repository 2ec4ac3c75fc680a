package domain

// Check is the result of one environment health check.
type Check struct {
	// Name identifies what was checked (e.g., "ffmpeg", "llm").
	Name string

	// OK is true when the check passed.
	OK bool

	// Detail explains a failure, or adds context to a pass.
	Detail string

	// Required marks checks whose failure blocks the intake pipeline.
	Required bool
}

// Healthy returns true when every required check passed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if c.Required && !c.OK {
			return false
		}
	}
	return true
}
