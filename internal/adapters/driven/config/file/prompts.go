package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// defaultPrompts are written to the prompt directory on first use and
// served whenever the file on disk is missing or invalid.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: driven.DefaultAnswerPrompt,
}

// PromptStore serves prompt templates from <dir>/<name>.txt.
// Files are re-read when their modification time changes, so edits apply
// to the next question without restarting a chat or TUI session.
// The directory is created lazily on the first Load.
type PromptStore struct {
	dir string

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

type cachedPrompt struct {
	text    string
	modTime time.Time
}

// NewPromptStore creates a prompt store over dir.
// An empty dir means the prompts directory under DefaultDir.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "prompts")
	}

	return &PromptStore{
		dir:   dir,
		cache: make(map[string]cachedPrompt),
	}, nil
}

// Load returns the template for name. A missing or invalid file for a
// known prompt yields the built-in template; an unknown name with no file
// is an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	fallback, known := defaultPrompts[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store: %w", s.initErr)
	}

	text, err := s.read(name)
	if err != nil {
		if known {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("prompt %s: %v, using default", name, err)
			}
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return text, nil
}

// read returns the file content, from cache while the file is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	cached, ok := s.cache[name]
	s.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if err := driven.CheckPrompt(name, text); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	s.mu.Unlock()
	return text, nil
}

// Reload drops every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]cachedPrompt)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// initialise creates the directory, the default prompt files that do not
// exist yet, and a README. Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": readme}
	for name, content := range defaultPrompts {
		files[name+".txt"] = content
	}
	for name, content := range files {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.initErr = fmt.Errorf("create %s: %w", name, err)
			return
		}
	}
}

const readme = `# StudyMate Prompts

This directory contains the prompt StudyMate sends to the language model.

## Files

- answer.txt: frames the retrieved passages and the question

## Customisation

Edit the file to change how answers are written. Changes apply to the next
question, also in a running chat or TUI session.

## Format Placeholders

The answer prompt takes two %s placeholders: the retrieved context first,
then the question. A prompt with any other percent signs is ignored and the
built-in prompt is used instead. Delete the file to restore the default.
`
