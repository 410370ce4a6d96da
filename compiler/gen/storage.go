package gen

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Sink is where generated files are stored. Implementations must allow
// concurrent WriteFile calls on distinct paths.
type Sink interface {
	// MkdirAll creates dir and its parents. It succeeds if dir exists.
	MkdirAll(dir string) error
	// WriteFile creates or truncates the file at path.
	WriteFile(path string, data []byte) error
}

// DirSink stores files on the local filesystem.
type DirSink struct{}

// MkdirAll implements Sink.
func (DirSink) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteFile implements Sink.
func (DirSink) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// MemorySink keeps files in memory.
type MemorySink struct {
	mu    sync.Mutex
	dirs  map[string]struct{}
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		dirs:  make(map[string]struct{}),
		files: make(map[string][]byte),
	}
}

// MkdirAll implements Sink.
func (s *MemorySink) MkdirAll(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[filepath.Clean(dir)] = struct{}{}
	return nil
}

// WriteFile implements Sink. The parent directory must have been created.
func (s *MemorySink) WriteFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(filepath.Clean(path))
	if _, ok := s.dirs[dir]; !ok {
		return fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	s.files[filepath.Clean(path)] = slices.Clone(data)
	return nil
}

// File returns the contents of the file at path.
func (s *MemorySink) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[filepath.Clean(path)]
	return b, ok
}

// Files returns a copy of all stored files keyed by path.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.files)
}

// Dirs returns the created directories in sorted order.
func (s *MemorySink) Dirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.dirs))
}
