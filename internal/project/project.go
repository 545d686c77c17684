package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/model"
	"gopkg.in/yaml.v3"
)

// ProjectExtension is the file extension used for saved projects.
const ProjectExtension = ".knitplan"

// SaveProject writes a project as JSON.
func SaveProject(path string, proj model.Project) error {
	if err := writeJSONFile(path, proj); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// LoadProject reads a project saved by SaveProject. Settings missing from
// the file fall back to the defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	proj := model.Project{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to decode project: %w", err)
	}
	if proj.Name == "" {
		proj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return proj, nil
}

// LoadShapeFile reads a section tree from JSON or YAML, chosen by
// extension. Malformed sections are normalized the same way as any other
// input; a document without a shape returns a nil shape and no error.
func LoadShapeFile(path string) (*model.Trapezoid, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	shape, err := model.ParseTrapezoid(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shape %s: %w", path, err)
	}
	return shape, nil
}

// LoadPanelFile reads {shapes, gauge, sizeModifier, visualMotif} from JSON
// or YAML.
func LoadPanelFile(path string) (*model.Panel, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	var p model.Panel
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode panel %s: %w", path, err)
	}
	return &p, nil
}

// LoadPatternFile reads a colorwork pattern {grid, colors, metadata} from
// JSON or YAML.
func LoadPatternFile(path string) (*model.ColorworkPattern, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	var p model.ColorworkPattern
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pattern %s: %w", path, err)
	}
	if p.Name() == "" {
		p.Metadata["name"] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &p, nil
}

// SavePatternFile writes a colorwork pattern as JSON.
func SavePatternFile(path string, p *model.ColorworkPattern) error {
	if err := writeJSONFile(path, p); err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}
	return nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err = normalizeDocument(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// normalizeDocument turns YAML documents into JSON so every loader goes
// through the same decoders. JSON input is returned unchanged.
func normalizeDocument(path string, data []byte) ([]byte, error) {
	if !IsYAML(path) {
		return data, nil
	}
	return YAMLToJSON(data)
}

// YAMLToJSON converts a YAML document to JSON keeping mapping keys in
// document order, which garment sizes and shapes depend on.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if len(doc.Content) == 0 {
		buf.WriteString("null")
		return buf.Bytes(), nil
	}
	if err := writeNode(&buf, doc.Content[0]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
	}
	return nil
}
