package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/texuddy/texuddy/internal/model"
)

// Import validates the catalog file at src against c and copies it into
// dir. Existing files are only replaced when force is set.
func Import(c *Catalog, src, dir string, force bool) (string, int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", src, err)
	}

	outPath := filepath.Join(dir, filepath.Base(src))
	if !isCatalogFile(outPath) {
		outPath += ".yaml"
	}
	if err := checkTarget(outPath, force); err != nil {
		return "", 0, err
	}

	// Validate against a scratch copy so a bad file leaves c untouched.
	scratch := c.clone()
	before := scratch.Len()
	if err := scratch.addDocument(data, src); err != nil {
		return "", 0, err
	}
	added := scratch.exercises[before:]

	if err := writeCatalog(outPath, added); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	for _, ex := range added {
		_ = c.add(ex)
	}
	return outPath, len(added), nil
}

// ImportText turns plain text into a single exercise stored as
// <id>.yaml in dir. The text becomes the response to retype.
func ImportText(c *Catalog, ex model.Exercise, text, dir string, force bool) (string, error) {
	ex.Response = strings.Join(strings.Fields(text), " ")
	if ex.Title == "" {
		ex.Title = ex.ID
	}
	if ex.Difficulty == "" {
		ex.Difficulty = model.DifficultyMedium
	}
	scratch := c.clone()
	if err := scratch.add(ex); err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, ex.ID+".yaml")
	if err := checkTarget(outPath, force); err != nil {
		return "", err
	}
	if err := writeCatalog(outPath, []model.Exercise{ex}); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	_ = c.add(ex)
	return outPath, nil
}

func checkTarget(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("catalog already exists: %s (use --force to overwrite)", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat catalog: %w", err)
	}
	return nil
}

func (c *Catalog) clone() *Catalog {
	out := &Catalog{byID: make(map[string]int, len(c.byID))}
	for _, ex := range c.exercises {
		out.byID[ex.ID] = len(out.exercises)
		out.exercises = append(out.exercises, ex)
	}
	return out
}

func writeCatalog(path string, exercises []model.Exercise) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog dir: %w", err)
	}
	data, err := Encode(exercises)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
