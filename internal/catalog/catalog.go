package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Entry is one video the library knows about. Size is all a proxy needs to
// describe the video without loading it.
type Entry struct {
	ID     string `json:"id"` // opaque identifier, e.g. a filename
	SizeMB int    `json:"size_mb"`
	Title  string `json:"title,omitempty"`
}

// Catalog is the in-memory video library.
type Catalog struct {
	mu     sync.RWMutex
	Videos []Entry `json:"videos"`
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Course returns the three-lesson course used by the demo scenarios, every
// lesson sizeMB large. sizeMB <= 0 means 500.
func Course(sizeMB int) *Catalog {
	if sizeMB <= 0 {
		sizeMB = 500
	}
	c := New()
	c.Replace([]Entry{
		{ID: "aula01_introducao.mp4", SizeMB: sizeMB, Title: "Introduction"},
		{ID: "aula02_fundamentos.mp4", SizeMB: sizeMB, Title: "Fundamentals"},
		{ID: "aula03_avancado.mp4", SizeMB: sizeMB, Title: "Advanced"},
	})
	return c
}

// Replace replaces all entries.
func (c *Catalog) Replace(videos []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Videos = videos
}

// Snapshot returns a copy of the entries for read-only use.
func (c *Catalog) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.Videos))
	copy(out, c.Videos)
	return out
}

// IDs returns entry identifiers in catalog order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.Videos))
	for _, e := range c.Videos {
		out = append(out, e.ID)
	}
	return out
}

// Lookup returns the size of id. Satisfies video.Library.
func (c *Catalog) Lookup(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.Videos {
		if e.ID == id {
			return e.SizeMB, true
		}
	}
	return 0, false
}

// Save writes the catalog to path as JSON via temp file + rename so readers
// never see a partially written file.
func (c *Catalog) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filepath.Clean(path))
	tmp, err := os.CreateTemp(dir, ".catalog-*.json.tmp")
	if err != nil {
		return fmt.Errorf("catalog save: create temp: %w", err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("catalog save: write: %w", writeErr)
		}
		return fmt.Errorf("catalog save: close: %w", closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("catalog save: rename: %w", err)
	}
	return nil
}

// Load replaces the catalog with the JSON contents of path.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var out struct {
		Videos []Entry `json:"videos"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if err := validate(out.Videos); err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	c.Replace(out.Videos)
	return nil
}

// Open loads path into a new catalog, choosing SQLite for .db/.sqlite/.sqlite3
// and JSON otherwise.
func Open(path string) (*Catalog, error) {
	c := New()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		err = c.LoadSQLite(path)
	default:
		err = c.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func validate(videos []Entry) error {
	seen := make(map[string]bool, len(videos))
	for i, e := range videos {
		if e.ID == "" {
			return fmt.Errorf("entry %d: empty id", i)
		}
		if e.SizeMB < 0 {
			return fmt.Errorf("entry %q: negative size", e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}
