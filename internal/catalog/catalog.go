// Package catalog loads retyping exercises.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/texuddy/texuddy/internal/model"
)

//go:embed exercises.yaml
var builtin []byte

// File is the YAML document layout.
type File struct {
	Exercises []model.Exercise `yaml:"exercises"`
}

// Catalog is an ordered, id-indexed set of exercises.
type Catalog struct {
	exercises []model.Exercise
	byID      map[string]int
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	c := &Catalog{byID: map[string]int{}}
	if err := c.addDocument(builtin, "builtin"); err != nil {
		return nil, err
	}
	return c, nil
}

// Load returns the builtin catalog merged with every *.yaml/*.yml file in
// dir. A missing dir is not an error.
func Load(dir string) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read catalog dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := c.addDocument(data, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func isCatalogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (c *Catalog) addDocument(data []byte, source string) error {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("failed to decode %s: %w", source, err)
	}
	for _, ex := range f.Exercises {
		if err := c.add(ex); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
	}
	return nil
}

func (c *Catalog) add(ex model.Exercise) error {
	// Line breaks cannot be typed; responses retype as single-spaced text.
	ex.Response = strings.Join(strings.Fields(ex.Response), " ")
	if err := Validate(ex); err != nil {
		return err
	}
	if _, dup := c.byID[ex.ID]; dup {
		return fmt.Errorf("duplicate exercise id %q", ex.ID)
	}
	c.byID[ex.ID] = len(c.exercises)
	c.exercises = append(c.exercises, ex)
	return nil
}

// Validate checks the fields every exercise needs.
func Validate(ex model.Exercise) error {
	if strings.TrimSpace(ex.ID) == "" {
		return fmt.Errorf("exercise id must not be empty")
	}
	if strings.TrimSpace(ex.Response) == "" {
		return fmt.Errorf("exercise %q: response must not be empty", ex.ID)
	}
	if !ex.Difficulty.Valid() {
		return fmt.Errorf("exercise %q: unknown difficulty %q", ex.ID, ex.Difficulty)
	}
	return nil
}

// All returns every exercise in load order.
func (c *Catalog) All() []model.Exercise {
	out := make([]model.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Len returns the number of exercises.
func (c *Catalog) Len() int { return len(c.exercises) }

// Get returns the exercise with id.
func (c *Catalog) Get(id string) (model.Exercise, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Exercise{}, false
	}
	return c.exercises[idx], true
}

// Categories returns the sorted distinct categories.
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, ex := range c.exercises {
		if _, ok := seen[ex.Category]; ok {
			continue
		}
		seen[ex.Category] = struct{}{}
		out = append(out, ex.Category)
	}
	sort.Strings(out)
	return out
}

// Encode renders exercises as a catalog YAML document.
func Encode(exercises []model.Exercise) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Exercises: exercises}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
