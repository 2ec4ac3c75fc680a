package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptFactsSystem: `You extract and present only the original facts in strict chronological order for legal suppression review. Do not enhance.`,

	driven.PromptFacts: `Using only the exact facts from the following material — without combining, summarizing, or paraphrasing — extract every individual event and action exactly as written, in strict chronological order.

CASE NAME: {{.CaseName}}
CASE NUMBER: {{.CaseNumber}}
SOURCE MATERIAL (PART {{.Part}} of {{.Parts}}):

{{.Chunk}}`,

	driven.PromptLegalSystem: `You are a precise legal assistant.`,

	driven.PromptTagEvents: `You are a legal tagging assistant. Classify each factual statement below using the following categories only: {{.Tags}}.

Return a JSON list: [ {"fact": "...", "tag": "..."}, ... ]

FACTS:
{{.Facts}}`,

	driven.PromptIssues: `You are a criminal defense legal analyst. Based on the tagged events below, identify:

A. Potential Constitutional or Procedural Issues (e.g., unlawful stop, Miranda violation, illegal search)
B. Potential Legal Defenses (e.g., self-defense, duress, alibi, mistaken identity, lack of intent)

Output in this format:
{"legal_issues": [...], "possible_defenses": [...]}

TAGGED EVENTS:
{{.TaggedEvents}}`,

	driven.PromptMotion: `You are a defense attorney drafting a {{.Title}} for:

CASE: {{.CaseName}}
CASE NO.: {{.CaseNumber}}

FACTS:
{{.Facts}}

LEGAL ISSUES:
{{.Issues}}

DEFENSES:
{{.Defenses}}

You may ONLY cite the following verified cases:
{{.Caselaw}}

Include a signature block and an audit disclaimer that this document was AI-assisted.

Start the argument with: {{.Opening}}`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	prompt, ok := defaultPrompts[name]
	return prompt, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.exonascope/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".exonascope", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# ExonaScope Prompts

This directory contains the prompts used by the case analysis stages.

## Files

- ` + "`facts_system.txt`" + ` - System prompt for fact extraction
- ` + "`facts.txt`" + ` - Extracts chronological facts from one part of the corpus
- ` + "`legal_system.txt`" + ` - System prompt for tagging, issue spotting and drafting
- ` + "`tag_events.txt`" + ` - Classifies facts into legal-event categories (JSON list)
- ` + "`issues.txt`" + ` - Spots legal issues and defenses (JSON object)
- ` + "`motion.txt`" + ` - Drafts the motion

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command.

## Template Fields

Prompts are Go text/template documents. Fields such as ` + "`{{.CaseName}}`" + `
and ` + "`{{.Chunk}}`" + ` are filled in at run time; an unknown field is an
error, so keep the names used by the default prompts. The tagging and issue
prompts must still ask for the JSON shapes shown, because the responses are
parsed.
`
	return os.WriteFile(path, []byte(content), 0600)
}
