package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// HomeEnv overrides the StudyMate data directory.
const HomeEnv = "STUDYMATE_HOME"

// DefaultDir returns $STUDYMATE_HOME, or ~/.studymate when it is unset.
func DefaultDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".studymate"), nil
}

// ConfigStore persists settings to config.toml inside the StudyMate data
// directory. Values are held by an in-memory store and every Set rewrites
// the file. Both flat dotted keys and TOML tables are accepted, so a
// hand-written [chunking] table with size = 800 reads as "chunking.size".
type ConfigStore struct {
	*memory.ConfigStore

	mu       sync.Mutex // serialises writes to filePath
	filePath string
}

// NewConfigStore opens config.toml in configDir, creating the directory.
// If configDir is empty, DefaultDir is used.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		ConfigStore: memory.NewConfigStore(),
		filePath:    filepath.Join(configDir, "config.toml"),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set stores a value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ConfigStore.Set(key, value); err != nil {
		return err
	}
	return s.save()
}

// Save rewrites the file from the current values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestMap(s.Values()))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// 0600: API keys may be stored here.
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load replaces the values with the file's contents. A missing file leaves
// the store empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.Replace(flattenMap(loaded, ""))
	return nil
}

// flattenMap turns TOML tables into dotted keys: {"a": {"b": 1}} becomes
// {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			maps.Copy(result, flattenMap(table, key))
			continue
		}
		result[key] = value
	}
	return result
}

// nestMap is the inverse of flattenMap: {"a.b": 1} becomes
// {"a": {"b": 1}}, so the file is written as [a] tables. A key with a
// prefix that is itself a key, such as "a.b" next to "a", stays flat.
func nestMap(flat map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flat {
		parts := strings.Split(key, ".")
		if hasKeyPrefix(flat, parts) {
			result[key] = value
			continue
		}
		node := result
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[part] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = value
	}

	return result
}

func hasKeyPrefix(flat map[string]any, parts []string) bool {
	for i := 1; i < len(parts); i++ {
		if _, ok := flat[strings.Join(parts[:i], ".")]; ok {
			return true
		}
	}
	return false
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
