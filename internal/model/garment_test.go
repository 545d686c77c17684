package model

import (
	"encoding/json"
	"testing"
)

const raglanJSON = `{
	"permalink": "cozy-raglan-sweater",
	"title": "Cozy Raglan V-Neck Sweater",
	"description": "A simple sweater with Raglan sleeves",
	"sizes": {"small": 0.9, "medium": 1, "large": 1.085},
	"shapes": {
		"Front": {"height": 4, "baseA": 25, "baseB": 25, "finishingSteps": ["Hang hem."]},
		"Back": {"height": 4, "baseA": 25, "baseB": 25},
		"Sleeves (make 2)": {"height": 4, "baseA": 10, "baseB": 10}
	},
	"finishingSteps": ["Weave in all ends."]
}`

func TestGarmentUnmarshalKeepsOrder(t *testing.T) {
	var g Garment
	if err := json.Unmarshal([]byte(raglanJSON), &g); err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, s := range g.Shapes {
		names = append(names, s.Name)
	}
	want := []string{"Front", "Back", "Sleeves (make 2)"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected shape order %v, got %v", want, names)
		}
	}
	sizes := g.SizeNames()
	if len(sizes) != 3 || sizes[0] != "small" || sizes[2] != "large" {
		t.Errorf("unexpected size order %v", sizes)
	}
	if m, ok := g.Size("large"); !ok || m != 1.085 {
		t.Errorf("expected large=1.085, got %v %v", m, ok)
	}
	if _, ok := g.Size("xxl"); ok {
		t.Error("unknown size should not be found")
	}
	if len(g.FinishingSteps) != 1 {
		t.Errorf("unexpected finishing steps %v", g.FinishingSteps)
	}
}

func TestGarmentMarshalRoundTrip(t *testing.T) {
	var g Garment
	if err := json.Unmarshal([]byte(raglanJSON), &g); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var back Garment
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if back.Permalink != g.Permalink || len(back.Shapes) != 3 || back.Shapes[2].Name != "Sleeves (make 2)" {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Shapes[0].Shape.FinishingSteps[0] != "Hang hem." {
		t.Errorf("shape finishing steps lost")
	}
}

func TestGarmentCatalog(t *testing.T) {
	gc := NewGarmentCatalog()
	gc.Add(Garment{Permalink: "hat", Title: "Hat"})
	gc.Add(Garment{Permalink: "scarf", Title: "Scarf"})
	if gc.FindByPermalink("hat") == nil {
		t.Error("expected to find hat")
	}
	if !gc.Remove("hat") || gc.Remove("hat") {
		t.Error("Remove should succeed once")
	}
	if titles := gc.Titles(); len(titles) != 1 || titles[0] != "Scarf" {
		t.Errorf("unexpected titles %v", titles)
	}
}

func TestNamedChartPattern(t *testing.T) {
	c := NamedChart{Name: "Checkerboard", Grid: [][]int{{0, 1}, {1, 0}}}
	p := c.Pattern("#ff0000")
	if p.Grid[0][1] != ContrastColor || p.Grid[1][1] != MainColor {
		t.Errorf("unexpected grid %v", p.Grid)
	}
	if p.Colors[MainColor].Color != "#ff0000" || p.Colors[ContrastColor].Color != "#000000" {
		t.Errorf("unexpected palette %v", p.Colors)
	}
	if p.Name() != "Checkerboard" {
		t.Errorf("expected name, got %q", p.Name())
	}
}
