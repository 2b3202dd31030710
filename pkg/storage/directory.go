package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Directory writes rendered downloads under a base directory.
type Directory struct {
	baseDir string
}

// NewDirectory ensures the base directory exists.
func NewDirectory(baseDir string) (*Directory, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Directory{baseDir: baseDir}, nil
}

// Save writes data under filename and returns the full path. Names may not leave the base dir.
func (d *Directory) Save(filename string, data []byte) (string, error) {
	path, err := d.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// PruneOlderThan removes files whose modification time is older than ttl and returns their names.
func (d *Directory) PruneOlderThan(ttl time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list export directory: %w", err)
	}
	cutoff := now.Add(-ttl)
	removed := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, err
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.baseDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

func (d *Directory) resolve(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("invalid export filename %q", filename)
	}
	return filepath.Join(d.baseDir, name), nil
}
