package dotgrid

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Surface is anything a field can draw filled circles on. glow is the blur
// radius of a halo around the circle; zero means no halo.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c color.NRGBA, glow float64)
}

// ImageSurface rasterizes a field into an RGBA image.
type ImageSurface struct {
	Img        *image.RGBA
	Background color.Color
}

func NewImageSurface(width, height int, bg color.Color) *ImageSurface {
	if bg == nil {
		bg = color.Transparent
	}
	return &ImageSurface{
		Img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		Background: bg,
	}
}

func (s *ImageSurface) Clear() {
	draw.Draw(s.Img, s.Img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
}

const glowRings = 3

// FillCircle approximates the canvas shadow blur with a few faint concentric
// rings under the dot.
func (s *ImageSurface) FillCircle(x, y, r float64, c color.NRGBA, glow float64) {
	if r <= 0 || c.A == 0 {
		return
	}
	if glow > 0 {
		for i := glowRings; i >= 1; i-- {
			halo := c
			halo.A = uint8(float64(c.A) / float64(4*(i+1)))
			s.fill(x, y, r+glow*float64(i)/(2*glowRings), halo)
		}
	}
	s.fill(x, y, r, c)
}

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

func (s *ImageSurface) fill(x, y, r float64, c color.NRGBA) {
	b := s.Img.Bounds()
	minX := int(math.Floor(x - r))
	minY := int(math.Floor(y - r))
	maxX := int(math.Ceil(x + r))
	maxY := int(math.Ceil(y + r))
	clip := image.Rect(minX, minY, maxX, maxY).Intersect(b)
	if clip.Empty() {
		return
	}

	w, h := maxX-minX, maxY-minY
	z := vector.NewRasterizer(w, h)
	cx, cy := float32(x-float64(minX)), float32(y-float64(minY))
	rr := float32(r)
	k := float32(kappa) * rr

	z.MoveTo(cx+rr, cy)
	z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
	z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
	z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
	z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	src := image.NewUniform(c)
	draw.DrawMask(s.Img, clip, src, image.Point{}, mask, clip.Min.Sub(image.Pt(minX, minY)), draw.Over)
}
