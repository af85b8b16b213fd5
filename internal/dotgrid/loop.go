package dotgrid

import "time"

// Scheduler requests animation frames from the host, like requestAnimationFrame.
// The callback receives the host's monotonic frame timestamp.
type Scheduler interface {
	RequestFrame(cb func(now time.Duration)) int
	CancelFrame(id int)
}

// Attach binds the field to a frame source and a surface and starts the loop.
// Each frame updates by the time since the previous frame, renders, then asks
// for the next one. Attaching again replaces the previous binding.
func (f *Field) Attach(sched Scheduler, s Surface) {
	f.Detach()
	if sched == nil {
		return
	}
	f.sched = sched
	f.surface = s
	f.lastTick = -1
	f.request()
}

// Detach cancels the pending frame. The field keeps its points and can be
// attached again.
func (f *Field) Detach() {
	if f.sched != nil && f.pending {
		f.sched.CancelFrame(f.frameID)
	}
	f.sched = nil
	f.surface = nil
	f.pending = false
}

func (f *Field) Attached() bool { return f.sched != nil }

func (f *Field) request() {
	f.frameID = f.sched.RequestFrame(f.tick)
	f.pending = true
}

func (f *Field) tick(now time.Duration) {
	f.pending = false
	if f.sched == nil {
		return
	}
	var dt time.Duration
	if f.lastTick >= 0 {
		dt = now - f.lastTick
	}
	f.lastTick = now

	if f.State() == Running {
		f.Update(dt)
		f.Render(f.surface)
	}
	if f.sched != nil {
		f.request()
	}
}
