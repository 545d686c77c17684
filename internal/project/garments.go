package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/piwi3910/KnitPlan/internal/model"
)

//go:embed catalog/builtin.json
var builtinCatalogJSON []byte

//go:embed catalog/motifs.json
var builtinMotifsJSON []byte

var (
	builtinOnce   sync.Once
	builtinMotifs map[string]*model.VisualMotif
	builtinErr    error
)

func loadBuiltins() {
	var gc model.GarmentCatalog
	if err := json.Unmarshal(builtinCatalogJSON, &gc); err != nil {
		builtinErr = fmt.Errorf("failed to decode built-in garments: %w", err)
		return
	}
	if err := json.Unmarshal(builtinMotifsJSON, &builtinMotifs); err != nil {
		builtinErr = fmt.Errorf("failed to decode built-in motifs: %w", err)
	}
}

// BuiltinCatalog returns a fresh copy of the garments and charts shipped
// with the binary, so callers may modify it.
func BuiltinCatalog() (model.GarmentCatalog, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return model.NewGarmentCatalog(), builtinErr
	}
	var gc model.GarmentCatalog
	if err := json.Unmarshal(builtinCatalogJSON, &gc); err != nil {
		return model.NewGarmentCatalog(), err
	}
	return gc, nil
}

// BuiltinMotif returns a copy of a named built-in visual motif.
func BuiltinMotif(name string) (*model.VisualMotif, bool) {
	builtinOnce.Do(loadBuiltins)
	m, ok := builtinMotifs[name]
	if !ok || m == nil {
		return nil, false
	}
	return cloneMotif(m), true
}

// BuiltinMotifNames lists the built-in motifs in the order they are written
// in the embedded file.
func BuiltinMotifNames() []string {
	names := []string{}
	dec := json.NewDecoder(bytes.NewReader(builtinMotifsJSON))
	// {"name": {...}, ...}; only top-level keys are collected
	if _, err := dec.Token(); err != nil {
		return names
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return names
		}
		if key, ok := tok.(string); ok {
			names = append(names, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return names
		}
	}
	return names
}

func cloneMotif(m *model.VisualMotif) *model.VisualMotif {
	c := *m
	c.SecondaryMotifs = append([]string(nil), m.SecondaryMotifs...)
	c.ContrastColors = append([]string(nil), m.ContrastColors...)
	c.DefaultColors = append([]string(nil), m.DefaultColors...)
	if m.Successor != nil {
		c.Successor = cloneMotif(m.Successor)
	}
	return &c
}

// DefaultGarmentsPath is the user garment catalog, ~/.knitplan/garments.json.
func DefaultGarmentsPath() string {
	return filepath.Join(DefaultConfigDir(), "garments.json")
}

// LoadGarments reads a user garment catalog from a JSON or YAML file.
// If the file does not exist, it returns an empty catalog.
func LoadGarments(path string) (model.GarmentCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewGarmentCatalog(), nil
		}
		return model.GarmentCatalog{}, err
	}
	data, err = normalizeDocument(path, data)
	if err != nil {
		return model.GarmentCatalog{}, fmt.Errorf("failed to read garments %s: %w", path, err)
	}
	var gc model.GarmentCatalog
	if err := json.Unmarshal(data, &gc); err != nil {
		return model.GarmentCatalog{}, fmt.Errorf("failed to decode garments %s: %w", path, err)
	}
	if gc.Garments == nil {
		gc.Garments = []model.Garment{}
	}
	if gc.Charts == nil {
		gc.Charts = []model.NamedChart{}
	}
	return gc, nil
}

// SaveGarments writes a garment catalog as JSON.
func SaveGarments(path string, gc model.GarmentCatalog) error {
	if err := writeJSONFile(path, gc); err != nil {
		return fmt.Errorf("failed to save garments: %w", err)
	}
	return nil
}

// MergeCatalogs returns base with the extra garments and charts appended.
// Entries of extra replace base entries with the same permalink or name.
func MergeCatalogs(base, extra model.GarmentCatalog) model.GarmentCatalog {
	for _, g := range extra.Garments {
		base.Remove(g.Permalink)
		base.Add(g)
	}
	for _, c := range extra.Charts {
		if existing := base.FindChart(c.Name); existing != nil {
			*existing = c
			continue
		}
		base.Charts = append(base.Charts, c)
	}
	return base
}
