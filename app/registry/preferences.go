package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preferences is a small key/value store for local user state.
type Preferences interface {
	// Load returns ok=false when the key is absent or its value is unreadable.
	Load(key string) (values []string, ok bool, err error)
	Save(key string, values []string) error
}

// FilePreferences keeps preferences in a YAML document on disk.
type FilePreferences struct {
	path string
	mu   sync.Mutex
}

func NewFilePreferences(path string) *FilePreferences {
	return &FilePreferences{path: path}
}

func (p *FilePreferences) Path() string {
	return p.path
}

func (p *FilePreferences) Load(key string) ([]string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.read()
	if err != nil {
		return nil, false, err
	}

	node, found := doc[key]
	if !found {
		return nil, false, nil
	}

	var values []string
	if err := node.Decode(&values); err != nil {
		return nil, false, nil
	}
	return values, true, nil
}

// Save rewrites the whole document with the key replaced.
// An unreadable document is replaced rather than merged.
func (p *FilePreferences) Save(key string, values []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.read()
	if err != nil {
		doc = make(map[string]yaml.Node)
	}

	var node yaml.Node
	if err := node.Encode(values); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	doc[key] = node

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	return writeAtomic(p.path, data)
}

// read returns an empty document for a missing file and an error for a corrupt one.
func (p *FilePreferences) read() (map[string]yaml.Node, error) {
	doc := make(map[string]yaml.Node)

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", p.path, err)
	}
	if doc == nil {
		doc = make(map[string]yaml.Node)
	}
	return doc, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".channel-comb-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close preferences: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
