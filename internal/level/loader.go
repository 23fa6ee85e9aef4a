package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/level/formats"
	"github.com/vovakirdan/tilenav/internal/steering"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader handles loading levels. Built-in levels are always available;
// levels found under Root override built-ins with the same ID.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll loads every built-in level and every level file under Root.
// Returns levels sorted by ID for deterministic ordering. Invalid files
// are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	byID := make(map[string]Level)

	builtin, err := loadFS(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	for _, lvl := range builtin {
		byID[lvl.ID] = lvl
	}

	if l.Root != "" {
		if _, err := os.Stat(l.Root); err == nil {
			err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
					return nil
				}

				lvl, err := l.LoadFile(path)
				if err != nil {
					return nil
				}
				byID[lvl.ID] = lvl
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("level: walking directory %s: %w", l.Root, err)
			}
		}
	}

	levels := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("level: reading file %s: %w", path, err)
	}

	lvl, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Level{}, fmt.Errorf("level: parsing file %s: %w", path, err)
	}
	lvl.FilePath = path
	return lvl, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level: not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Parse decodes and validates level data in the format named by ext.
func Parse(data []byte, ext string) (Level, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}

	yl, err := formats.ParseYAML(data)
	if err != nil {
		return Level{}, err
	}

	lvl := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		TileSize: yl.TileSize,
		Layout:   yl.Layout,
		Metadata: yl.Metadata,
	}
	for _, a := range yl.Agents {
		spec := AgentSpec{
			Role:   steering.Role(strings.ToLower(strings.TrimSpace(a.Role))),
			At:     Tile{X: a.At[0], Y: a.At[1]},
			Script: a.Script,
		}
		for _, t := range a.Route {
			spec.Route = append(spec.Route, Tile{X: t[0], Y: t[1]})
		}
		lvl.Agents = append(lvl.Agents, spec)
	}
	for _, s := range yl.Seeds {
		lvl.Seeds = append(lvl.Seeds, geom.V(s[0], s[1]))
	}

	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

func loadFS(fsys fs.FS, root string) ([]Level, error) {
	var levels []Level
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		lvl, err := Parse(data, filepath.Ext(path))
		if err != nil {
			return fmt.Errorf("built-in %s: %w", path, err)
		}
		lvl.FilePath = "builtin:" + path
		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	return levels, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
