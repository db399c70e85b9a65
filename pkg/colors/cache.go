package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

type ProjectState struct {
	Code         string    `json:"code"`
	ActiveTasks  int       `json:"active_tasks"`
	LastModified time.Time `json:"last_modified"`
}

// Cache assigns each project a stable ANSI color for list output and
// remembers the assignment across runs.
type Cache struct {
	Path     string
	Projects map[string]*ProjectState `json:"projects"`
	dirty    bool
}

const (
	xdgAppName = "tend"
	cacheFile  = "project_colors.json"
)

// palette is the set of ANSI foreground codes handed out to projects.
var palette = []string{"32", "33", "34", "35", "36", "91", "92", "93", "94", "95", "96"}

// defaultCode is the gray used for tasks without a project.
const defaultCode = "90"

func NewCache() (*Cache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", xdgAppName, cacheFile)

	cache := &Cache{
		Path:     path,
		Projects: make(map[string]*ProjectState),
	}

	if _, err := os.Stat(path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *Cache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Projects)
}

func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}
	// ensure directory exists
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("Error creating color cache directory: %v", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Printf("Error creating color cache file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Projects)
	if err == nil {
		c.dirty = false
	}
	return err
}

// Code returns the ANSI color code for a project, managing LRU logic.
func (c *Cache) Code(project string) string {
	if project == "" {
		return defaultCode
	}

	state, exists := c.Projects[project]
	if exists {
		// Mark dirty but don't Save() here; one write at exit is enough
		// for LRU bookkeeping.
		state.LastModified = time.Now()
		c.dirty = true
		return state.Code
	}

	return c.assign(project)
}

func (c *Cache) assign(project string) string {
	used := make(map[string]bool)
	for _, s := range c.Projects {
		used[s.Code] = true
	}

	// Try to find an unused slot
	for _, code := range palette {
		if !used[code] {
			c.Projects[project] = &ProjectState{
				Code:         code,
				LastModified: time.Now(),
				ActiveTasks:  1,
			}
			c.dirty = true
			return code
		}
	}

	// Cache is full -> Evict LRU (Oldest Modified)
	var oldestProject string
	var oldestTime time.Time
	first := true

	for p, s := range c.Projects {
		if first || s.LastModified.Before(oldestTime) {
			oldestTime = s.LastModified
			oldestProject = p
			first = false
		}
	}

	if oldestProject != "" {
		recycled := c.Projects[oldestProject].Code
		delete(c.Projects, oldestProject)

		c.Projects[project] = &ProjectState{
			Code:         recycled,
			LastModified: time.Now(),
			ActiveTasks:  1,
		}
		c.dirty = true
		return recycled
	}

	return palette[0] // Fallback
}

// Paint wraps s in the project's ANSI color escape.
func (c *Cache) Paint(project, s string) string {
	return "\x1b[" + c.Code(project) + "m" + s + "\x1b[0m"
}
