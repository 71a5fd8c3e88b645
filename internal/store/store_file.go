package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore persists records as a single YAML document:
//
//	records:
//	  <key>:
//	    <field id>: <value>
//
// Every call reloads the file, so edits made between runs are picked up.
// Writes replace the file atomically via a temp file and rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	Records map[string]Fields `yaml:"records"`
}

// NewFileStore returns a store backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedKeys(doc.Records), nil
}

func (s *FileStore) Get(_ context.Context, key string) (Fields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := doc.Records[key]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", key, ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *FileStore) Put(ctx context.Context, key string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Records[key] = fields.Clone()
	return s.save(doc)
}

func (s *FileStore) load() (*fileDocument, error) {
	doc := &fileDocument{Records: map[string]Fields{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", s.path, err)
	}
	if doc.Records == nil {
		doc.Records = map[string]Fields{}
	}
	return doc, nil
}

func (s *FileStore) save(doc *fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace record file %s: %w", s.path, err)
	}
	return nil
}
