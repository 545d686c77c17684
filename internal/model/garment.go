package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// GarmentSize is one named entry of a garment's size table.
type GarmentSize struct {
	Name     string  `json:"name"`
	Modifier float64 `json:"modifier"`
}

// NamedShape is one panel of a garment, e.g. "Front".
type NamedShape struct {
	Name  string     `json:"name"`
	Shape *Trapezoid `json:"shape"`
}

// Garment is a complete pattern: several panels knitted at a chosen size.
// Sizes and Shapes keep the order of the source document; in JSON both are
// objects keyed by name.
type Garment struct {
	Permalink      string        `json:"permalink"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Sizes          []GarmentSize `json:"-"`
	Shapes         []NamedShape  `json:"-"`
	FinishingSteps []string      `json:"finishingSteps"`
}

// Size looks up a size modifier by name.
func (g Garment) Size(name string) (float64, bool) {
	for _, s := range g.Sizes {
		if s.Name == name {
			return s.Modifier, true
		}
	}
	return 0, false
}

// SizeNames lists size names in document order.
func (g Garment) SizeNames() []string {
	names := make([]string, len(g.Sizes))
	for i, s := range g.Sizes {
		names[i] = s.Name
	}
	return names
}

type garmentJSON struct {
	Permalink      string          `json:"permalink"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Sizes          json.RawMessage `json:"sizes"`
	Shapes         json.RawMessage `json:"shapes"`
	FinishingSteps json.RawMessage `json:"finishingSteps"`
}

func (g *Garment) UnmarshalJSON(data []byte) error {
	var in garmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Garment{
		Permalink:      in.Permalink,
		Title:          in.Title,
		Description:    in.Description,
		Sizes:          []GarmentSize{},
		Shapes:         []NamedShape{},
		FinishingSteps: []string{},
	}

	err := decodeOrderedObject(in.Sizes, func(key string, raw json.RawMessage) error {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out.Sizes = append(out.Sizes, GarmentSize{Name: key, Modifier: toNumber(v)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to decode sizes of %q: %w", in.Permalink, err)
	}

	err = decodeOrderedObject(in.Shapes, func(key string, raw json.RawMessage) error {
		shape, err := ParseTrapezoid(raw)
		if err != nil {
			return err
		}
		if shape != nil {
			out.Shapes = append(out.Shapes, NamedShape{Name: key, Shape: shape})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to decode shapes of %q: %w", in.Permalink, err)
	}

	if len(in.FinishingSteps) > 0 {
		var v any
		if err := json.Unmarshal(in.FinishingSteps, &v); err != nil {
			return err
		}
		out.FinishingSteps = finishingStepsFrom(v)
	}
	*g = out
	return nil
}

func (g Garment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"permalink":`)
	writeJSON(&buf, g.Permalink)
	buf.WriteString(`,"title":`)
	writeJSON(&buf, g.Title)
	buf.WriteString(`,"description":`)
	writeJSON(&buf, g.Description)

	buf.WriteString(`,"sizes":{`)
	for i, s := range g.Sizes {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, s.Name)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(s.Modifier, 'f', -1, 64))
	}
	buf.WriteString(`},"shapes":{`)
	for i, s := range g.Shapes {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, s.Name)
		buf.WriteByte(':')
		b, err := json.Marshal(s.Shape)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString(`},"finishingSteps":`)
	steps := g.FinishingSteps
	if steps == nil {
		steps = []string{}
	}
	writeJSON(&buf, steps)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) {
	b, _ := json.Marshal(v)
	buf.Write(b)
}

// decodeOrderedObject calls fn for every member of a JSON object in source
// order. Empty input and null are treated as an empty object.
func decodeOrderedObject(data json.RawMessage, fn func(key string, raw json.RawMessage) error) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// NamedChart is a small index chart: 0 is the main colour, 1 the first
// contrast colour and so on.
type NamedChart struct {
	Name string  `json:"name"`
	Grid [][]int `json:"grid"`
}

// Pattern expands the chart into a ColorworkPattern using colors as hex
// values for index 0, 1, .... Missing colours fall back to white and black.
func (c NamedChart) Pattern(colors ...string) *ColorworkPattern {
	ids := func(i int) string {
		switch i {
		case 0:
			return MainColor
		case 1:
			return ContrastColor
		default:
			return ContrastColor + strconv.Itoa(i)
		}
	}
	width := 0
	if len(c.Grid) > 0 {
		width = len(c.Grid[0])
	}
	p := NewColorworkPattern(width, len(c.Grid), MainColor)
	maxIndex := 0
	for r, row := range c.Grid {
		for col, idx := range row {
			p.SetStitch(r, col, ids(idx))
			maxIndex = max(maxIndex, idx)
		}
	}
	defaults := []string{"#ffffff", "#000000"}
	for i := 0; i <= maxIndex; i++ {
		hex := "#808080"
		switch {
		case i < len(colors):
			hex = colors[i]
		case i < len(defaults):
			hex = defaults[i]
		}
		label := "Contrast"
		if i == 0 {
			label = "Main"
		} else if i > 1 {
			label = "Contrast " + strconv.Itoa(i)
		}
		p.SetColor(ids(i), hex, label)
	}
	p.Metadata["name"] = c.Name
	return p
}

// GarmentCatalog holds garments and the charts they can be decorated with.
type GarmentCatalog struct {
	Garments []Garment    `json:"garments"`
	Charts   []NamedChart `json:"charts"`
}

// NewGarmentCatalog creates an empty catalog.
func NewGarmentCatalog() GarmentCatalog {
	return GarmentCatalog{
		Garments: []Garment{},
		Charts:   []NamedChart{},
	}
}

// Add adds a garment to the catalog.
func (gc *GarmentCatalog) Add(g Garment) {
	gc.Garments = append(gc.Garments, g)
}

// Remove removes a garment by permalink. Returns true if found and removed.
func (gc *GarmentCatalog) Remove(permalink string) bool {
	for i, g := range gc.Garments {
		if g.Permalink == permalink {
			gc.Garments = append(gc.Garments[:i], gc.Garments[i+1:]...)
			return true
		}
	}
	return false
}

// FindByPermalink returns a pointer to the garment with the given permalink, or nil.
func (gc *GarmentCatalog) FindByPermalink(permalink string) *Garment {
	for i := range gc.Garments {
		if gc.Garments[i].Permalink == permalink {
			return &gc.Garments[i]
		}
	}
	return nil
}

// FindChart returns a pointer to the chart with the given name, or nil.
func (gc *GarmentCatalog) FindChart(name string) *NamedChart {
	for i := range gc.Charts {
		if gc.Charts[i].Name == name {
			return &gc.Charts[i]
		}
	}
	return nil
}

// Titles returns garment titles in catalog order.
func (gc *GarmentCatalog) Titles() []string {
	titles := make([]string, len(gc.Garments))
	for i, g := range gc.Garments {
		titles[i] = g.Title
	}
	return titles
}
