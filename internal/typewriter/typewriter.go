// Package typewriter computes the text of a looping type-and-erase headline as
// a function of elapsed time.
package typewriter

import (
	"sort"
	"time"
)

const (
	DefaultTypingSpeed   = 75 * time.Millisecond
	DefaultPauseDuration = 1500 * time.Millisecond
	DefaultCursor        = "|"
	CursorInterval       = 500 * time.Millisecond
)

const (
	startDelay  = 500 * time.Millisecond
	sentenceGap = 300 * time.Millisecond
	loopGap     = time.Second
)

type Config struct {
	TypingSpeed   time.Duration
	PauseDuration time.Duration
}

type frame struct {
	at   time.Duration
	text string
}

// Timeline is an immutable schedule of text states. Erasing runs at twice the
// typing speed.
type Timeline struct {
	frames []frame
	total  time.Duration
}

func New(lines []string, cfg Config) *Timeline {
	if cfg.TypingSpeed <= 0 {
		cfg.TypingSpeed = DefaultTypingSpeed
	}
	if cfg.PauseDuration < 0 {
		cfg.PauseDuration = 0
	}

	tl := &Timeline{}
	if len(lines) == 0 {
		return tl
	}

	t := startDelay
	erase := cfg.TypingSpeed / 2
	for n, line := range lines {
		runes := []rune(line)
		for i := 0; i <= len(runes); i++ {
			tl.frames = append(tl.frames, frame{t, string(runes[:i])})
			t += cfg.TypingSpeed
		}
		t += cfg.PauseDuration
		for i := len(runes); i >= 0; i-- {
			tl.frames = append(tl.frames, frame{t, string(runes[:i])})
			t += erase
		}
		if n < len(lines)-1 {
			t += sentenceGap
		} else {
			t += loopGap
		}
	}
	tl.total = t
	return tl
}

// Cycle is the length of one full pass over all lines.
func (tl *Timeline) Cycle() time.Duration { return tl.total }

// At returns the visible text after elapsed time. The schedule repeats forever.
func (tl *Timeline) At(elapsed time.Duration) string {
	if tl.total <= 0 || elapsed < 0 {
		return ""
	}
	t := elapsed % tl.total
	i := sort.Search(len(tl.frames), func(i int) bool { return tl.frames[i].at > t })
	if i == 0 {
		return ""
	}
	return tl.frames[i-1].text
}

// Cursor reports whether the blinking cursor is shown after elapsed time.
func Cursor(elapsed time.Duration) bool {
	if elapsed < 0 {
		return true
	}
	return (elapsed/CursorInterval)%2 == 0
}
