package tesseract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/runner"
)

type fakeRunner struct {
	calls [][]string
	run   func(args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.run != nil {
		return f.run(args)
	}
	return nil, nil
}

// pdftoppmWriting fakes pdftoppm by writing the named page files.
func pdftoppmWriting(names ...string) func([]string) ([]byte, error) {
	return func(args []string) ([]byte, error) {
		root := args[len(args)-1]
		for _, n := range names {
			if err := os.WriteFile(filepath.Join(filepath.Dir(root), n), []byte("png"), 0o600); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
}

func TestRasteriser_Rasterise(t *testing.T) {
	t.Run("returns pages in numeric order", func(t *testing.T) {
		dir := t.TempDir()
		runner := &fakeRunner{run: pdftoppmWriting("page-10.png", "page-02.png", "page-1.png", "notes.txt")}

		pages, err := NewRasteriser(runner, "").Rasterise(context.Background(), "in.pdf", dir, 300)

		require.NoError(t, err)
		require.Len(t, pages, 3)
		assert.Equal(t, "page-1.png", filepath.Base(pages[0]))
		assert.Equal(t, "page-02.png", filepath.Base(pages[1]))
		assert.Equal(t, "page-10.png", filepath.Base(pages[2]))
		assert.Equal(t, []string{"pdftoppm", "-r", "300", "-png", "in.pdf", filepath.Join(dir, "page")}, runner.calls[0])
	})

	t.Run("no pages is an error", func(t *testing.T) {
		runner := &fakeRunner{}

		_, err := NewRasteriser(runner, "").Rasterise(context.Background(), "in.pdf", t.TempDir(), 300)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pages")
	})

	t.Run("runner failure", func(t *testing.T) {
		runner := &fakeRunner{run: func([]string) ([]byte, error) {
			return nil, errors.New("pdftoppm exited with 1: Syntax Error")
		}}

		_, err := NewRasteriser(runner, "/usr/bin/pdftoppm").Rasterise(context.Background(), "in.pdf", t.TempDir(), 150)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rasterise")
		assert.Equal(t, "/usr/bin/pdftoppm", runner.calls[0][0])
	})
}

func TestEngine_Recognise(t *testing.T) {
	img := filepath.Join(t.TempDir(), "page-1.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))

	t.Run("returns stdout", func(t *testing.T) {
		runner := &fakeRunner{run: func([]string) ([]byte, error) {
			return []byte("Officer approached the vehicle.\n"), nil
		}}

		text, err := NewEngine(runner, "").Recognise(context.Background(), img, 6)

		require.NoError(t, err)
		assert.Equal(t, "Officer approached the vehicle.\n", text)
		assert.Equal(t, []string{"tesseract", img, "stdout", "--psm", "6"}, runner.calls[0])
	})

	t.Run("missing image", func(t *testing.T) {
		runner := &fakeRunner{}

		_, err := NewEngine(runner, "").Recognise(context.Background(), "/non/existent.png", 6)

		require.Error(t, err)
		assert.Empty(t, runner.calls)
	})

	t.Run("runner failure", func(t *testing.T) {
		runner := &fakeRunner{run: func([]string) ([]byte, error) {
			return nil, errors.New("boom")
		}}

		_, err := NewEngine(runner, "").Recognise(context.Background(), img, 3)

		assert.Error(t, err)
	})
}

// installTool puts an executable shell script named name first on PATH.
func installTool(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestEngine_Recognise_IgnoresDiagnostics(t *testing.T) {
	img := filepath.Join(t.TempDir(), "page-1.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))

	t.Run("blank page yields no text", func(t *testing.T) {
		installTool(t, "tesseract", "echo 'Empty page!!' 1>&2")

		text, err := NewEngine(runner.New(), "").Recognise(context.Background(), img, 6)

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("text page keeps only recognised text", func(t *testing.T) {
		installTool(t, "tesseract", "echo 'Estimating resolution as 300' 1>&2; echo 'Miranda warnings were read.'")

		text, err := NewEngine(runner.New(), "").Recognise(context.Background(), img, 6)

		require.NoError(t, err)
		assert.Equal(t, "Miranda warnings were read.\n", text)
	})
}
