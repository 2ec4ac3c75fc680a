// Package runner executes external programs for the media and OCR adapters.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure ExecRunner implements the interfaces.
var (
	_ driven.CommandRunner = (*ExecRunner)(nil)
	_ driven.ToolChecker   = (*ExecRunner)(nil)
)

// maxErrorOutput bounds the tool output quoted in an error.
const maxErrorOutput = 512

// ExecRunner runs programs with os/exec, killing them when ctx is done.
type ExecRunner struct{}

// New creates an ExecRunner.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and returns its standard output.
// Standard error is only quoted in the error of a failed run, so tool
// diagnostics never mix with the result. A program missing from PATH
// wraps domain.ErrToolNotFound.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrToolNotFound)
	}

	logger.Debug("exec: %s %s", name, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	out := stdout.Bytes()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("%s: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diag := stderr.Bytes()
			if len(bytes.TrimSpace(diag)) == 0 {
				diag = out
			}
			return out, fmt.Errorf("%s exited with %d: %s", name, exitErr.ExitCode(), tail(diag))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	if stderr.Len() > 0 {
		logger.Debug("%s stderr: %s", name, tail(stderr.Bytes()))
	}
	return out, nil
}

// Available reports whether every named tool is on PATH.
func (r *ExecRunner) Available(names ...string) error {
	return Available(names...)
}

// Available reports whether every named tool is on PATH.
func Available(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, domain.ErrToolNotFound))
		}
	}
	return errors.Join(errs...)
}

// tail returns the last part of a tool's output, trimmed.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxErrorOutput {
		s = "..." + s[len(s)-maxErrorOutput:]
	}
	return s
}
