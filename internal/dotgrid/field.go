// Package dotgrid animates a regular grid of dots that brighten and swell near the
// pointer and scatter away from clicks before springing back to rest.
//
// A Field owns all of its state. Hosts feed it pointer events and a frame clock,
// then hand it a Surface to draw on. A Field is not safe for concurrent use.
package dotgrid

import (
	"image/color"
	"math"
	"time"
)

// State is the coarse lifecycle of a Field.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Vec is a 2D vector in surface pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec      { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec      { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Len() float64       { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

// Point is one dot. Base never changes after the grid is built.
type Point struct {
	Base    Vec
	Offset  Vec
	Pos     Vec
	Opacity float64
	Scale   float64
	Active  bool
}

// Pointer is the last known pointer position in surface coordinates.
type Pointer struct {
	Pos    Vec
	Active bool
}

// Field is a point field bound to one surface size.
type Field struct {
	cfg         Config
	baseColor   color.NRGBA
	activeColor color.NRGBA

	width, height int
	points        []Point
	pointer       Pointer

	sched    Scheduler
	surface  Surface
	frameID  int
	pending  bool
	lastTick time.Duration
}

// New validates cfg and returns an idle field.
func New(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, _ := ParseColor(cfg.BaseColor)
	active, _ := ParseColor(cfg.ActiveColor)
	return &Field{cfg: cfg, baseColor: base, activeColor: active}, nil
}

func (f *Field) Config() Config   { return f.cfg }
func (f *Field) Points() []Point  { return f.points }
func (f *Field) Pointer() Pointer { return f.pointer }
func (f *Field) Size() (int, int) { return f.width, f.height }

func (f *Field) State() State {
	if f.width > 0 && f.height > 0 {
		return Running
	}
	return Idle
}

// Resize rebuilds the grid whenever the surface size changes. A zero or negative
// dimension drops the grid and leaves the field idle.
func (f *Field) Resize(width, height int) {
	if width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	f.points = nil
	if width <= 0 || height <= 0 {
		return
	}

	gap := f.cfg.Gap
	cols := int(math.Floor(float64(width) / gap))
	rows := int(math.Floor(float64(height) / gap))
	offX := (float64(width) - float64(cols-1)*gap) / 2
	offY := (float64(height) - float64(rows-1)*gap) / 2

	f.points = make([]Point, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			base := Vec{offX + float64(i)*gap, offY + float64(j)*gap}
			f.points = append(f.points, Point{
				Base:    base,
				Pos:     base,
				Opacity: IdleOpacity,
				Scale:   IdleScale,
			})
		}
	}
}

// Grid returns the column and row counts of the current grid.
func (f *Field) Grid() (cols, rows int) {
	if f.State() == Idle {
		return 0, 0
	}
	return int(math.Floor(float64(f.width) / f.cfg.Gap)), int(math.Floor(float64(f.height) / f.cfg.Gap))
}

func (f *Field) PointerMove(x, y float64) {
	f.pointer.Pos = Vec{x, y}
	f.pointer.Active = true
}

func (f *Field) PointerLeave() {
	f.pointer.Active = false
}

// Click pushes every point within the shock radius away from (x, y). The push
// falls off linearly with distance and adds to any displacement already present.
func (f *Field) Click(x, y float64) {
	origin := Vec{x, y}
	radius := f.cfg.ShockRadius
	for i := range f.points {
		p := &f.points[i]
		d := p.Base.Dist(origin)
		if d > radius {
			continue
		}
		force := 1.0
		if radius > 0 {
			force = math.Max(0, 1-d/radius)
		}
		push := force * f.cfg.ShockStrength
		angle := math.Atan2(p.Base.Y-origin.Y, p.Base.X-origin.X)
		p.Offset.X += math.Cos(angle) * push
		p.Offset.Y += math.Sin(angle) * push
	}
}

const frameInterval = time.Second / 60

// Update advances the field by dt, measured in whole 60 Hz frames. Anything below
// one frame still advances one; long stalls are capped at four.
func (f *Field) Update(dt time.Duration) {
	n := int(math.Round(float64(dt) / float64(frameInterval)))
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		f.Step()
	}
}

// Step advances the field by exactly one frame.
func (f *Field) Step() {
	for i := range f.points {
		f.stepPoint(&f.points[i])
	}
}

func (f *Field) stepPoint(p *Point) {
	targetOpacity, targetScale := IdleOpacity, IdleScale

	if f.pointer.Active && f.cfg.Proximity > 0 {
		d := p.Base.Dist(f.pointer.Pos)
		if d <= f.cfg.Proximity {
			factor := 1 - d/f.cfg.Proximity
			targetOpacity = nearOpacityBase + factor*nearOpacityRange
			targetScale = IdleScale + factor*nearScaleRange

			angle := math.Atan2(f.pointer.Pos.Y-p.Base.Y, f.pointer.Pos.X-p.Base.X)
			pull := factor * magnetForce * magnetDamping
			p.Offset.X += math.Cos(angle) * pull
			p.Offset.Y += math.Sin(angle) * pull
		}
	}

	k := f.cfg.ReturnDuration / f.cfg.Resistance
	p.Offset.X -= p.Offset.X * k
	p.Offset.Y -= p.Offset.Y * k

	p.Pos = p.Base.Add(p.Offset)

	p.Opacity += (targetOpacity - p.Opacity) * Smoothing
	p.Scale += (targetScale - p.Scale) * Smoothing
	p.Active = targetOpacity > ActiveThreshold
}

// Render clears s and draws every point. A nil surface draws nothing.
func (f *Field) Render(s Surface) {
	if s == nil || f.State() == Idle {
		return
	}
	s.Clear()
	for i := range f.points {
		p := &f.points[i]
		size := f.cfg.DotSize * p.Scale
		c := f.baseColor
		glow := 0.0
		if p.Active {
			c = f.activeColor
			glow = size * 2
		}
		c.A = alpha(p.Opacity)
		s.FillCircle(p.Pos.X, p.Pos.Y, size/2, c, glow)
	}
}

func alpha(opacity float64) uint8 {
	if opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return 0xff
	}
	return uint8(math.Round(opacity * 0xff))
}
