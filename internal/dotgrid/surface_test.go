package dotgrid

import (
	"image/color"
	"testing"
	"time"
)

type circle struct {
	x, y, r float64
	c       color.NRGBA
	glow    float64
}

type recordSurface struct {
	clears  int
	circles []circle
}

func (s *recordSurface) Clear() {
	s.clears++
	s.circles = s.circles[:0]
}

func (s *recordSurface) FillCircle(x, y, r float64, c color.NRGBA, glow float64) {
	s.circles = append(s.circles, circle{x, y, r, c, glow})
}

func TestRenderColorsActivePoints(t *testing.T) {
	f := newField(t, func(c *Config) {
		c.Gap = 20
		c.DotSize = 4
		c.Proximity = 30
		c.BaseColor = "#000080"
		c.ActiveColor = "#ff0000"
	})
	f.Resize(100, 20)
	f.PointerMove(10, 10)
	for i := 0; i < 60; i++ {
		f.Step()
	}

	s := &recordSurface{}
	f.Render(s)
	if s.clears != 1 {
		t.Fatalf("Render() cleared %d times, want 1", s.clears)
	}
	if len(s.circles) != len(f.Points()) {
		t.Fatalf("Render() drew %d circles, want %d", len(s.circles), len(f.Points()))
	}

	near, far := s.circles[0], s.circles[len(s.circles)-1]
	if near.c.R != 0xff || near.glow <= 0 {
		t.Fatalf("point under pointer drawn %+v, want active color with glow", near)
	}
	if far.c.B != 0x80 || far.glow != 0 {
		t.Fatalf("distant point drawn %+v, want base color without glow", far)
	}
	if far.r != 2 {
		t.Fatalf("resting radius = %v, want 2", far.r)
	}
	if far.c.A != alpha(IdleOpacity) {
		t.Fatalf("resting alpha = %d, want %d", far.c.A, alpha(IdleOpacity))
	}
	if near.r <= far.r {
		t.Fatalf("active radius %v not larger than resting %v", near.r, far.r)
	}
}

func TestRenderNilSurface(t *testing.T) {
	f := newField(t, nil)
	f.Resize(100, 100)
	f.Render(nil)
}

func TestImageSurfaceDrawsDots(t *testing.T) {
	f := newField(t, func(c *Config) {
		c.Gap = 20
		c.DotSize = 8
		c.BaseColor = "#ffffff"
	})
	f.Resize(40, 40)
	s := NewImageSurface(40, 40, color.Black)
	f.Render(s)

	center := s.Img.RGBAAt(10, 10)
	if center.R == 0 {
		t.Fatalf("pixel at dot center = %v, want lit", center)
	}
	gapPixel := s.Img.RGBAAt(20, 20)
	if gapPixel.R != 0 || gapPixel.A != 0xff {
		t.Fatalf("pixel between dots = %v, want opaque background", gapPixel)
	}

	// Off-surface circles are clipped, not panics.
	s.FillCircle(-50, -50, 5, color.NRGBA{R: 0xff, A: 0xff}, 10)
	s.FillCircle(39, 39, 6, color.NRGBA{R: 0xff, A: 0xff}, 10)
}

type fakeScheduler struct {
	next      int
	callbacks map[int]func(time.Duration)
	canceled  []int
}

func (s *fakeScheduler) RequestFrame(cb func(time.Duration)) int {
	if s.callbacks == nil {
		s.callbacks = make(map[int]func(time.Duration))
	}
	s.next++
	s.callbacks[s.next] = cb
	return s.next
}

func (s *fakeScheduler) CancelFrame(id int) {
	s.canceled = append(s.canceled, id)
	delete(s.callbacks, id)
}

func (s *fakeScheduler) fire(now time.Duration) bool {
	id := s.next
	cb, ok := s.callbacks[id]
	if !ok {
		return false
	}
	delete(s.callbacks, id)
	cb(now)
	return true
}

func TestAttachDrivesFrames(t *testing.T) {
	f := newField(t, func(c *Config) { c.Gap = 20 })
	f.Resize(100, 100)
	f.Click(50, 50)
	before := totalDisplacement(f)

	sched := &fakeScheduler{}
	surf := &recordSurface{}
	f.Attach(sched, surf)
	if !f.Attached() {
		t.Fatal("Attached() = false after Attach")
	}

	for i := 0; i < 10; i++ {
		if !sched.fire(time.Duration(i) * frameInterval) {
			t.Fatalf("frame %d not requested", i)
		}
	}
	if surf.clears != 10 {
		t.Fatalf("rendered %d frames, want 10", surf.clears)
	}
	if after := totalDisplacement(f); after >= before {
		t.Fatalf("displacement %.4f did not decay from %.4f", after, before)
	}

	pending := sched.next
	f.Detach()
	if f.Attached() {
		t.Fatal("Attached() = true after Detach")
	}
	if len(sched.canceled) != 1 || sched.canceled[0] != pending {
		t.Fatalf("canceled frames = %v, want [%d]", sched.canceled, pending)
	}
	if sched.fire(time.Second) {
		t.Fatal("frame fired after Detach")
	}
}

func TestAttachIdleRendersNothing(t *testing.T) {
	f := newField(t, nil)
	sched := &fakeScheduler{}
	surf := &recordSurface{}
	f.Attach(sched, surf)
	sched.fire(0)
	sched.fire(frameInterval)
	if surf.clears != 0 {
		t.Fatalf("idle field rendered %d frames", surf.clears)
	}
	f.Resize(60, 60)
	sched.fire(2 * frameInterval)
	if surf.clears != 1 {
		t.Fatalf("rendered %d frames after resize, want 1", surf.clears)
	}
}
