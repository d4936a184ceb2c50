package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var named = map[string]color.RGBA{
	"black":      {0, 0, 0, 255},
	"white":      {255, 255, 255, 255},
	"red":        {255, 0, 0, 255},
	"green":      {0, 128, 0, 255},
	"blue":       {0, 0, 255, 255},
	"orange":     {255, 165, 0, 255},
	"darkorange": {255, 140, 0, 255},
	"steelblue":  {70, 130, 180, 255},
	"gray":       {128, 128, 128, 255},
	"grey":       {128, 128, 128, 255},
}

// ParseColor parses a CSS color name or a #rgb / #rrggbb hex string. Unknown colors are black.
func ParseColor(s string) color.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))

	if c, ok := named[s]; ok {
		return c
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return named["black"]
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return named["black"]
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return named["black"]
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Rasterize draws a canvas snapshot on a white background, bars in drawing order, then text.
func Rasterize(snap CanvasSnapshot) *image.RGBA {
	bounds := image.Rect(0, 0, max(snap.Width, 1), max(snap.Height, 1))
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(named["white"]), image.Point{}, draw.Src)

	for _, bar := range snap.Bars {
		if bar.Height <= 0 || bar.Width <= 0 {
			continue
		}

		rect := image.Rect(
			int(math.Floor(bar.X)),
			int(math.Floor(bar.Y)),
			int(math.Ceil(bar.X+bar.Width)),
			int(math.Ceil(bar.Y+bar.Height)),
		).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		alpha := uint8(math.Round(clamp01(bar.Opacity) * 255))
		draw.DrawMask(img, rect, image.NewUniform(ParseColor(bar.Fill)), image.Point{},
			image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
	}

	face := basicfont.Face7x13
	for _, t := range snap.Texts {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(ParseColor(t.Color)),
			Face: face,
			Dot:  fixed.P(int(t.X), int(t.Y)),
		}
		d.DrawString(t.Text)
	}

	return img
}

// EncodePNG rasterizes a canvas snapshot into w.
func EncodePNG(w io.Writer, snap CanvasSnapshot) error {
	err := png.Encode(w, Rasterize(snap))
	if err != nil {
		return ewrap.Wrap(err, "encode png")
	}

	return nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	default:
		return v
	}
}
