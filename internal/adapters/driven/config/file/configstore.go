package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// DefaultDirName is the per-user directory under $HOME.
const DefaultDirName = ".exonascope"

// configFileName lives directly in the config directory, next to prompts/.
const configFileName = "config.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in config.toml. Keys are dotted paths
// ("intake.ocr_dpi"); on disk each leading segment becomes a table so the
// file stays hand-editable:
//
//	[intake]
//	ocr_dpi = 400
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens config.toml in configDir, creating the directory.
// An empty configDir means ~/.exonascope. A missing file is an empty store.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		configDir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(configDir, configFileName)}
	values, err := readConfig(s.path)
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Get returns the value stored under key. Integers read back from disk
// are int, matching what callers store.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string under key, or "" for a missing or
// non-string value.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// Keys returns the stored keys in name order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under key and rewrites the file. On a write failure
// the previous value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.write(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// Unset removes key and rewrites the file. Removing a missing key is a no-op.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.write(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

// Path returns the config.toml path.
func (s *ConfigStore) Path() string {
	return s.path
}

// write replaces the file through a temp file in the same directory so a
// failed write never leaves a truncated config. Caller holds the lock.
func (s *ConfigStore) write() error {
	tree, err := nest(s.values)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// readConfig loads path into dotted keys. A missing file yields an empty map.
func readConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	values := make(map[string]any)
	flatten(tree, "", values)
	return values, nil
}

// flatten turns nested tables into dotted keys, converting TOML's int64
// to int on the way.
func flatten(tree map[string]any, prefix string, out map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(val, key, out)
		case int64:
			out[key] = int(val)
		default:
			out[key] = val
		}
	}
}

// nest is the inverse of flatten. A key that is both a value and a table
// prefix ("a" and "a.b") cannot be written.
func nest(values map[string]any) (map[string]any, error) {
	tree := make(map[string]any)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part]
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			table, ok := child.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("config key %q conflicts with value %q", key, part)
			}
			node = table
		}
		leaf := parts[len(parts)-1]
		if _, ok := node[leaf].(map[string]any); ok {
			return nil, fmt.Errorf("config key %q conflicts with table of the same name", key)
		}
		node[leaf] = values[key]
	}
	return tree, nil
}
