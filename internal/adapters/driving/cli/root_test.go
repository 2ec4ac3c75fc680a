package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/storage/memory"
	"github.com/exonascope/exonascope-cli/internal/core/services"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "exonascope", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"intake", "analyze", "history", "watch", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestNeedsServices(t *testing.T) {
	assert.False(t, needsServices(versionCmd))
	assert.True(t, needsServices(intakeCmd))
	assert.True(t, needsServices(historyListCmd))
}

func TestExecute_RunsBootstrapAndShutdown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(Services{})

	var gotDir string
	closed := false
	SetBootstrap(func(dir string) (*Services, func() error, error) {
		gotDir = dir
		return &Services{Settings: services.NewSettingsService(memory.NewConfigStore())},
			func() error { closed = true; return nil }, nil
	})
	defer SetBootstrap(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "keys", "--config-dir", "/tmp/exonascope-test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/exonascope-test", gotDir)
	assert.True(t, closed)
	assert.Contains(t, buf.String(), "intake.ocr_dpi")
}

func TestExecute_BootstrapError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetBootstrap(func(string) (*Services, func() error, error) {
		return nil, nil, errors.New("config unreadable")
	})
	defer SetBootstrap(nil)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := Execute(context.Background())

	assert.EqualError(t, err, "config unreadable")
}

func TestExecute_VersionSkipsBootstrap(t *testing.T) {
	called := false
	SetBootstrap(func(string) (*Services, func() error, error) {
		called = true
		return &Services{}, nil, nil
	})
	defer SetBootstrap(nil)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, Execute(context.Background()))
	assert.False(t, called)
}
