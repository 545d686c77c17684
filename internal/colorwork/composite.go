// Package colorwork stacks pattern layers into one effective colorwork
// pattern sized to a panel.
package colorwork

import (
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// RepeatMode selects the axes a layer tiles along.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatX    RepeatMode = "x"
	RepeatY    RepeatMode = "y"
	RepeatBoth RepeatMode = "both"
)

var ErrUnknownRepeatMode = errors.New("unknown repeat mode")

func (m RepeatMode) horizontal() bool { return m == RepeatX || m == RepeatBoth }
func (m RepeatMode) vertical() bool   { return m == RepeatY || m == RepeatBoth }

// ParseRepeatMode validates a mode name. "" selects none.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch m := RepeatMode(s); m {
	case "":
		return RepeatNone, nil
	case RepeatNone, RepeatX, RepeatY, RepeatBoth:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRepeatMode, s)
	}
}

// LayerSettings place a layer on the canvas. Repeat counts of 0 tile
// without limit; otherwise that many repeats are kept, centred on the
// canvas. ColorMapping replaces the colour of a pattern colour id for this
// layer only.
type LayerSettings struct {
	RepeatMode       RepeatMode        `json:"repeatMode"`
	RepeatCountX     int               `json:"repeatCountX"`
	RepeatCountY     int               `json:"repeatCountY"`
	OffsetHorizontal int               `json:"offsetHorizontal"`
	OffsetVertical   int               `json:"offsetVertical"`
	ColorMapping     map[string]string `json:"colorMapping,omitempty"`
}

// Layer is one pattern in the stack. Lower priorities are painted first.
type Layer struct {
	Name     string                  `json:"name,omitempty"`
	Priority int                     `json:"priority"`
	Pattern  *model.ColorworkPattern `json:"pattern"`
	Settings LayerSettings           `json:"settings"`
}

// Composite paints the layers onto a totalStitches x totalRows canvas and
// returns the result as a pattern. Each layer is centred on the canvas,
// moved by its offsets and tiled along its repeat axes. Later layers win.
// Cells no layer covers hold the main colour id. Source cells whose id has
// no palette entry, or whose colour is empty, are not painted.
//
// Colour ids are kept where possible. When a layer maps an id to a colour
// that differs from the one already in the result palette, the cell gets a
// layer-scoped id ("L2:CC") so both colours survive.
func Composite(totalStitches, totalRows int, layers []Layer) (*model.ColorworkPattern, error) {
	totalStitches, totalRows = max(totalStitches, 0), max(totalRows, 0)
	out := model.NewColorworkPattern(totalStitches, totalRows, model.MainColor)
	out.Metadata["layers"] = len(layers)

	ordered := make([]Layer, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	for i, layer := range ordered {
		if layer.Settings.RepeatMode == "" {
			layer.Settings.RepeatMode = RepeatNone
		}
		if _, err := ParseRepeatMode(string(layer.Settings.RepeatMode)); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		paint(out, layer, i+1)
	}
	return out, nil
}

func paint(out *model.ColorworkPattern, layer Layer, position int) {
	p := layer.Pattern
	if p == nil || p.RowCount() == 0 || p.StitchCount() == 0 {
		logging.Logger().Debug("skipping empty colorwork layer", "layer", layer.Name)
		return
	}
	s := layer.Settings
	rows, stitches := out.RowCount(), out.StitchCount()
	pw, ph := p.StitchCount(), p.RowCount()

	centerX := floorDiv(stitches-pw, 2)
	centerY := floorDiv(rows-ph, 2)
	minX, maxX := repeatWindow(s.RepeatCountX)
	minY, maxY := repeatWindow(s.RepeatCountY)
	ids := map[string]string{}

	for row := 0; row < rows; row++ {
		for stitch := 0; stitch < stitches; stitch++ {
			x := stitch - centerX - s.OffsetHorizontal
			y := row - centerY - s.OffsetVertical

			if s.RepeatMode.horizontal() {
				if s.RepeatCountX > 0 {
					if r := floorDiv(x, pw); r < minX || r > maxX {
						continue
					}
				}
				x = mod(x, pw)
			} else if x < 0 || x >= pw {
				continue
			}
			if s.RepeatMode.vertical() {
				if s.RepeatCountY > 0 {
					if r := floorDiv(y, ph); r < minY || r > maxY {
						continue
					}
				}
				y = mod(y, ph)
			} else if y < 0 || y >= ph {
				continue
			}

			id := p.Stitch(y, x)
			if id, ok := resolveID(out, p, id, s.ColorMapping, position, ids); ok {
				out.SetStitch(row, stitch, id)
			}
		}
	}
}

// resolveID returns the id a source colour is painted with, registering
// its palette entry on first use.
func resolveID(out, src *model.ColorworkPattern, id string, mapping map[string]string, position int, cache map[string]string) (string, bool) {
	if cached, ok := cache[id]; ok {
		return cached, cached != ""
	}
	info, ok := src.Colors[id]
	if !ok {
		cache[id] = ""
		return "", false
	}
	color := info.Color
	if mapped := mapping[id]; mapped != "" {
		color, _ = model.ResolveColor(mapped)
	}
	if color == "" {
		cache[id] = ""
		return "", false
	}

	target := id
	if existing, ok := out.Colors[id]; ok && existing.Color != color {
		target = fmt.Sprintf("L%d:%s", position, id)
	}
	out.Colors[target] = model.Color{ID: target, Label: info.Label, Color: color}
	cache[id] = target
	return target, true
}

// repeatWindow gives the repeat indexes kept for a count, centred on 0.
// An even count keeps one more repeat left of centre.
func repeatWindow(count int) (lo, hi int) {
	half := count / 2
	if count%2 == 0 {
		return -half, half - 1
	}
	return -half, half
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	return ((a % b) + b) % b
}
