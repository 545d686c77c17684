package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/KnitPlan/internal/model"
)

var (
	pngWhite = color.RGBA{255, 255, 255, 255}
	pngGrid  = color.RGBA{204, 204, 204, 255} // #cccccc
	pngLabel = color.RGBA{102, 102, 102, 255} // #666
)

// RenderImage rasterises the chart with the same layout as Generate. An
// empty pattern gives a blank 100x50 image with the placeholder text.
func RenderImage(p *model.ColorworkPattern, opts Options) *image.RGBA {
	if p == nil || p.RowCount() == 0 || p.StitchCount() == 0 {
		img := image.NewRGBA(image.Rect(0, 0, 100, 50))
		draw.Draw(img, img.Bounds(), image.NewUniform(pngWhite), image.Point{}, draw.Src)
		drawLabel(img, "No Pattern", 50, 29)
		return img
	}

	l := newLayout(p, opts)
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(pngWhite), image.Point{}, draw.Src)

	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.stitches; col++ {
			fill := color.Color(pngWhite)
			if c, ok := p.Colors[p.Stitch(row, col)]; ok {
				if rgba, err := ParseColor(c.Color); err == nil {
					fill = rgba
				}
			}
			x0, y0 := l.left+col*l.cell, l.top+row*l.cell
			cell := image.Rect(x0, y0, x0+l.cell, y0+l.cell)
			draw.Draw(img, cell, image.NewUniform(fill), image.Point{}, draw.Src)
			if opts.ShowGrid {
				strokeRect(img, cell, pngGrid)
			}
		}
	}

	if opts.ShowRowNumbers {
		for row := 0; row < l.rows; row++ {
			y := l.top + row*l.cell + l.cell/2 + 4
			drawLabel(img, strconv.Itoa(l.rows-row), 20, y)
		}
	}
	if opts.ShowStitchNumbers {
		for col := 0; col < l.stitches; col++ {
			drawLabel(img, strconv.Itoa(col+1), l.left+col*l.cell+l.cell/2, 20)
		}
	}
	return img
}

// WritePNG encodes RenderImage's output as PNG.
func WritePNG(w io.Writer, p *model.ColorworkPattern, opts Options) error {
	if err := png.Encode(w, RenderImage(p, opts)); err != nil {
		return fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return nil
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// drawLabel centres text horizontally on x with its baseline at y.
func drawLabel(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(pngLabel),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{X: fixed.I(x) - width/2, Y: fixed.I(y)}
	d.DrawString(text)
}

// ParseColor accepts #rgb, #rrggbb and CSS colour names.
func ParseColor(s string) (color.RGBA, error) {
	hex, _ := model.ResolveColor(s)
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
