// Package tesseract rasterises PDFs with pdftoppm and recognises page
// images with tesseract.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure the adapters implement the interfaces.
var (
	_ driven.PageRasteriser = (*Rasteriser)(nil)
	_ driven.OCREngine      = (*Engine)(nil)
)

// pagePrefix is the pdftoppm output root inside outDir.
const pagePrefix = "page"

// Rasteriser renders PDF pages to PNG with pdftoppm.
type Rasteriser struct {
	runner driven.CommandRunner
	binary string
}

// NewRasteriser creates a Rasteriser. An empty binary means "pdftoppm".
func NewRasteriser(runner driven.CommandRunner, binary string) *Rasteriser {
	if binary == "" {
		binary = "pdftoppm"
	}
	return &Rasteriser{runner: runner, binary: binary}
}

// Rasterise writes page-N.png files into outDir and returns them in page order.
func (r *Rasteriser) Rasterise(ctx context.Context, pdfPath, outDir string, dpi int) ([]string, error) {
	_, err := r.runner.Run(ctx, r.binary,
		"-r", strconv.Itoa(dpi),
		"-png",
		pdfPath,
		filepath.Join(outDir, pagePrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterise: %w", err)
	}

	pages, err := listPages(outDir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("rasterise: no pages produced")
	}
	return pages, nil
}

// listPages returns the rendered images sorted by page number.
// pdftoppm zero-pads to the width of the page count, so a lexical sort
// is not enough once documents pass nine pages in mixed runs.
func listPages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pagePrefix+"-*.png"))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	type page struct {
		path string
		num  int
	}
	pages := make([]page, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		num, err := strconv.Atoi(strings.TrimPrefix(base, pagePrefix+"-"))
		if err != nil {
			continue
		}
		pages = append(pages, page{path: m, num: num})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}

// Engine runs tesseract on single images.
type Engine struct {
	runner driven.CommandRunner
	binary string
}

// NewEngine creates an Engine. An empty binary means "tesseract".
func NewEngine(runner driven.CommandRunner, binary string) *Engine {
	if binary == "" {
		binary = "tesseract"
	}
	return &Engine{runner: runner, binary: binary}
}

// Recognise returns the text tesseract reads from imagePath.
func (e *Engine) Recognise(ctx context.Context, imagePath string, pageSegMode int) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	out, err := e.runner.Run(ctx, e.binary,
		imagePath,
		"stdout",
		"--psm", strconv.Itoa(pageSegMode),
	)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return string(out), nil
}
