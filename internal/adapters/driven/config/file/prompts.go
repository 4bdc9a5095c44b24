package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// defaultPrompts seed the prompt directory and answer when a file is missing.
var defaultPrompts = map[string]string{
	driven.PromptSemanticSystem: summarizer.DefaultSystemPrompt,
	driven.PromptSemanticQuery:  summarizer.DefaultQueryPrompt,
}

const promptReadme = "# chatlens prompts\n\n" +
	"These files are sent to the semantic search summarizer.\n\n" +
	"- `semantic_system.txt`: system instructions for chat analysis\n" +
	"- `semantic_query.txt`: frames the question and the transcript excerpt\n\n" +
	"Edits apply to the next command. `semantic_query.txt` needs two `%s`\n" +
	"placeholders, the question first and the excerpt second; a template\n" +
	"without both is ignored in favour of the default.\n"

// PromptStore serves summarizer prompts from <dir>/<name>.txt.
// The directory is populated with the defaults on first Load, never in
// the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]string
}

// NewPromptStore creates a prompt store rooted at promptDir, or at
// DefaultDir/prompts when promptDir is empty.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}
	return &PromptStore{dir: promptDir, cache: make(map[string]string)}, nil
}

// Load returns the named prompt. A missing or unreadable file yields the
// built-in default; unknown names without a file are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	if err != nil {
		if def, ok := defaultPrompts[name]; ok {
			return def, nil
		}
		if s.seedErr != nil {
			err = errors.Join(err, s.seedErr)
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name + ".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) path(file string) string {
	return filepath.Join(s.dir, file)
}

// seed writes the default prompts and README without touching files the
// user already has.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptReadme}
	for name, content := range defaultPrompts {
		files[name+".txt"] = content
	}
	for file, content := range files {
		if err := writeIfMissing(s.path(file), content); err != nil {
			s.seedErr = fmt.Errorf("create %s: %w", file, err)
			return
		}
	}
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
