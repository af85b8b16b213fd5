//go:build js && wasm

// Command dotgrid-wasm runs the dot-grid backgrounds and the hero typewriter in
// the browser. Every canvas[data-dotgrid] gets its own field; the JSON in the
// attribute is the field config.
package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"syscall/js"
	"time"

	"github.com/glazeradr/portfolio/internal/dotgrid"
	"github.com/glazeradr/portfolio/internal/typewriter"
)

var (
	window   = js.Global()
	document = window.Get("document")
)

// frames wraps requestAnimationFrame. Timestamps arrive in milliseconds.
type frames struct {
	pending map[int]js.Func
}

func newFrames() *frames {
	return &frames{pending: make(map[int]js.Func)}
}

func (f *frames) RequestFrame(cb func(now time.Duration)) int {
	var id int
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		delete(f.pending, id)
		fn.Release()
		ms := args[0].Float()
		cb(time.Duration(ms * float64(time.Millisecond)))
		return nil
	})
	id = window.Call("requestAnimationFrame", fn).Int()
	f.pending[id] = fn
	return id
}

func (f *frames) CancelFrame(id int) {
	fn, ok := f.pending[id]
	if !ok {
		return
	}
	window.Call("cancelAnimationFrame", id)
	delete(f.pending, id)
	fn.Release()
}

// canvasSurface draws on a 2D context in CSS pixels.
type canvasSurface struct {
	canvas js.Value
	ctx    js.Value
	width  int
	height int
}

func (s *canvasSurface) Clear() {
	s.ctx.Call("clearRect", 0, 0, s.width, s.height)
}

func (s *canvasSurface) FillCircle(x, y, r float64, c color.NRGBA, glow float64) {
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	s.ctx.Set("globalAlpha", float64(c.A)/0xff)
	s.ctx.Set("fillStyle", rgb)
	if glow > 0 {
		s.ctx.Set("shadowBlur", glow)
		s.ctx.Set("shadowColor", rgb)
	} else {
		s.ctx.Set("shadowBlur", 0)
	}
	s.ctx.Call("beginPath")
	s.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	s.ctx.Call("fill")
}

// fit sizes the backing store to the element and returns its CSS size.
func (s *canvasSurface) fit() (int, int) {
	rect := s.canvas.Call("getBoundingClientRect")
	w := int(rect.Get("width").Float())
	h := int(rect.Get("height").Float())
	dpr := window.Get("devicePixelRatio").Float()
	if dpr <= 0 {
		dpr = 1
	}
	s.canvas.Set("width", int(float64(w)*dpr))
	s.canvas.Set("height", int(float64(h)*dpr))
	s.ctx.Call("setTransform", dpr, 0, 0, dpr, 0, 0)
	s.width, s.height = w, h
	return w, h
}

type background struct {
	field   *dotgrid.Field
	surface *canvasSurface
}

func (b *background) resize() {
	w, h := b.surface.fit()
	b.field.Resize(w, h)
}

// local converts a mouse event to canvas coordinates.
func (b *background) local(ev js.Value) (float64, float64) {
	rect := b.surface.canvas.Call("getBoundingClientRect")
	return ev.Get("clientX").Float() - rect.Get("left").Float(),
		ev.Get("clientY").Float() - rect.Get("top").Float()
}

// The canvases sit behind section content, so pointer events are taken from
// the parent section.
func (b *background) listen() {
	target := b.surface.canvas.Get("parentElement")
	if target.IsNull() {
		target = b.surface.canvas
	}
	target.Call("addEventListener", "mousemove", js.FuncOf(func(this js.Value, args []js.Value) any {
		b.field.PointerMove(b.local(args[0]))
		return nil
	}))
	target.Call("addEventListener", "mouseleave", js.FuncOf(func(this js.Value, args []js.Value) any {
		b.field.PointerLeave()
		return nil
	}))
	target.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		b.field.Click(b.local(args[0]))
		return nil
	}))
}

func mountBackgrounds(sched dotgrid.Scheduler) []*background {
	var out []*background
	nodes := document.Call("querySelectorAll", "canvas[data-dotgrid]")
	for i := 0; i < nodes.Length(); i++ {
		canvas := nodes.Index(i)
		cfg := dotgrid.DefaultConfig()
		if raw := canvas.Get("dataset").Get("dotgrid"); raw.Truthy() {
			if err := json.Unmarshal([]byte(raw.String()), &cfg); err != nil {
				window.Get("console").Call("warn", "dotgrid: bad config:", err.Error())
				continue
			}
		}
		field, err := dotgrid.New(cfg)
		if err != nil {
			window.Get("console").Call("warn", "dotgrid:", err.Error())
			continue
		}
		b := &background{
			field:   field,
			surface: &canvasSurface{canvas: canvas, ctx: canvas.Call("getContext", "2d")},
		}
		b.resize()
		b.listen()
		field.Attach(sched, b.surface)
		out = append(out, b)
	}
	return out
}

type typewriterAttrs struct {
	Lines    []string `json:"lines"`
	TypingMs int      `json:"typingMs"`
	PauseMs  int      `json:"pauseMs"`
}

// mountTypewriter drives the [data-typewriter] span from the frame clock.
func mountTypewriter(sched dotgrid.Scheduler) {
	el := document.Call("querySelector", "[data-typewriter]")
	if el.IsNull() {
		return
	}
	var attrs typewriterAttrs
	if err := json.Unmarshal([]byte(el.Get("dataset").Get("typewriter").String()), &attrs); err != nil || len(attrs.Lines) == 0 {
		return
	}
	tl := typewriter.New(attrs.Lines, typewriter.Config{
		TypingSpeed:   time.Duration(attrs.TypingMs) * time.Millisecond,
		PauseDuration: time.Duration(attrs.PauseMs) * time.Millisecond,
	})

	start := time.Duration(-1)
	last := ""
	var tick func(now time.Duration)
	tick = func(now time.Duration) {
		if start < 0 {
			start = now
		}
		if text := tl.At(now - start); text != last {
			el.Set("textContent", text)
			last = text
		}
		sched.RequestFrame(tick)
	}
	sched.RequestFrame(tick)
}

func main() {
	sched := newFrames()
	backgrounds := mountBackgrounds(sched)
	mountTypewriter(sched)

	window.Call("addEventListener", "resize", js.FuncOf(func(this js.Value, args []js.Value) any {
		for _, b := range backgrounds {
			b.resize()
		}
		return nil
	}))

	select {}
}
