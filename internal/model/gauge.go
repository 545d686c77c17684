package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGauge is returned by Gauge.Validate when either density is not positive.
var ErrInvalidGauge = errors.New("invalid gauge")

// Gauge defines stitch and row density as counts per four inches of fabric.
type Gauge struct {
	StitchesPerFourInches float64 `json:"stitchesPerFourInches"`
	RowsPerFourInches     float64 `json:"rowsPerFourInches"`
	ScalingFactor         float64 `json:"scalingFactor,omitempty"` // 0 means 1
}

// NewGauge returns a gauge with a scaling factor of 1.
func NewGauge(stitchesPerFourInches, rowsPerFourInches float64) Gauge {
	return Gauge{
		StitchesPerFourInches: stitchesPerFourInches,
		RowsPerFourInches:     rowsPerFourInches,
		ScalingFactor:         1,
	}
}

// DefaultGauge is 19 stitches and 30 rows per four inches.
func DefaultGauge() Gauge {
	return NewGauge(19, 30)
}

func (g Gauge) StitchesPerInch() float64 { return g.StitchesPerFourInches / 4 }

func (g Gauge) RowsPerInch() float64 { return g.RowsPerFourInches / 4 }

func (g Gauge) scaling() float64 {
	if g.ScalingFactor <= 0 {
		return 1
	}
	return g.ScalingFactor
}

// EffectiveStitchesPerInch divides StitchesPerInch by the scaling factor.
func (g Gauge) EffectiveStitchesPerInch() float64 { return g.StitchesPerInch() / g.scaling() }

// EffectiveRowsPerInch divides RowsPerInch by the scaling factor.
func (g Gauge) EffectiveRowsPerInch() float64 { return g.RowsPerInch() / g.scaling() }

// Validate reports ErrInvalidGauge when either density is zero, negative or NaN.
func (g Gauge) Validate() error {
	if !(g.StitchesPerFourInches > 0) {
		return fmt.Errorf("%w: stitches per 4in must be positive, got %v", ErrInvalidGauge, g.StitchesPerFourInches)
	}
	if !(g.RowsPerFourInches > 0) {
		return fmt.Errorf("%w: rows per 4in must be positive, got %v", ErrInvalidGauge, g.RowsPerFourInches)
	}
	return nil
}

// UnmarshalJSON accepts both the fourInches and the 4Inches key spellings.
func (g *Gauge) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = gaugeFromMap(raw)
	return nil
}

func gaugeFromMap(m map[string]any) Gauge {
	g := Gauge{ScalingFactor: 1}
	if v, ok := m["stitchesPerFourInches"]; ok {
		g.StitchesPerFourInches = toNumber(v)
	} else {
		g.StitchesPerFourInches = toNumber(m["stitchesPer4Inches"])
	}
	if v, ok := m["rowsPerFourInches"]; ok {
		g.RowsPerFourInches = toNumber(v)
	} else {
		g.RowsPerFourInches = toNumber(m["rowsPer4Inches"])
	}
	if v, ok := m["scalingFactor"]; ok && v != nil {
		g.ScalingFactor = toNumber(v)
	}
	return g
}

// RoundHalfUp rounds to the nearest integer with halves going toward
// positive infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
