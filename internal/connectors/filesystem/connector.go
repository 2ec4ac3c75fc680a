// Package filesystem reads case uploads from a local folder.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.UploadSource = (*Connector)(nil)

// ErrClosed is returned when the connector has been closed.
var ErrClosed = errors.New("connector closed")

// mediaTypes covers the extensions case uploads arrive with. The platform
// MIME table is consulted only for anything not listed here.
var mediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".aac":  "audio/aac",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".txt":  "text/plain",
}

// Connector loads uploads from a root folder.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector rooted at rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// RootPath returns the watched folder.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// List returns every visible regular file under the root in lexical order.
func (c *Connector) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}

	var paths []string
	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != c.rootPath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return paths, nil
}

// Load reads the given paths in order. With no paths it loads every
// visible file under the root.
func (c *Connector) Load(ctx context.Context, paths []string) ([]domain.IntakeFile, error) {
	if len(paths) == 0 {
		listed, err := c.List(ctx)
		if err != nil {
			return nil, err
		}
		paths = listed
	}

	files := make([]domain.IntakeFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, domain.IntakeFile{
			Name:         filepath.Base(path),
			DeclaredType: detectMIMEType(path),
			Content:      content,
		})
	}
	return files, nil
}

// Watch emits upload changes under the root until ctx is done.
// The returned channel is closed when watching stops.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.UploadChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	if c.watcher != nil {
		c.watcher.Close()
	}
	c.watcher = watcher

	changes := make(chan domain.UploadChange)
	go c.watchLoop(ctx, watcher, changes)
	return changes, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.UploadChange) {
	defer close(changes)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change := c.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", c.rootPath, err)
		}
	}
}

// handleFsEvent maps a filesystem event to an upload change.
// Returns nil for events that do not concern a visible file.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.UploadChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil || isHidden(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.UploadChange{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.UploadChange{Type: domain.ChangeCreated, Path: event.Name}
	case event.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.UploadChange{Type: domain.ChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

// Close stops any active watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// detectMIMEType returns the content type for a path by extension,
// without parameters.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "application/octet-stream"
	}
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return "application/octet-stream"
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return mt
}

// isHidden reports whether any element of a relative path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
