package driven

import "context"

// CommandRunner executes an external program and returns its standard output.
// Standard error never appears in the returned bytes.
// Adapters that shell out take one so tests can substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ToolChecker reports whether external programs can be found.
type ToolChecker interface {
	// Available returns an error naming every missing program.
	Available(names ...string) error
}
