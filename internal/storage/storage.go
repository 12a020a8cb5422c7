package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage writes files below an output folder. It is not safe for concurrent use.
type Storage struct {
	dir     string
	perDate bool
	written map[string]bool
}

// New creates a Storage rooted at dir, creating the folder if needed. With perDate set,
// files are written under a sub-folder named after their date.
func New(dir string, perDate bool) (*Storage, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{
		dir:     dir,
		perDate: perDate,
		written: make(map[string]bool),
	}, nil
}

// Dir returns the resolved output folder
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns where a file for dateKey (YYYY-MM-DD) would be written. An empty dateKey
// always maps to the output folder itself.
func (s *Storage) Path(dateKey, filename string) string {
	if s.perDate && dateKey != "" {
		return filepath.Join(s.dir, dateKey, filename)
	}
	return filepath.Join(s.dir, filename)
}

// Write stores data as filename and returns the path written. A name already written
// during this Storage's lifetime becomes name-2.ext, name-3.ext and so on.
func (s *Storage) Write(dateKey, filename string, data []byte) (string, error) {
	path := s.unique(s.Path(dateKey, filename))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	s.written[path] = true
	return path, nil
}

// Written returns the number of files written so far
func (s *Storage) Written() int {
	return len(s.written)
}

func (s *Storage) unique(path string) string {
	if !s.written[path] {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if !s.written[candidate] {
			return candidate
		}
	}
}

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dir[2:]), nil
}
