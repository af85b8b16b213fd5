// Command dotgrid-preview opens a desktop window running one dot-grid preset,
// for tuning backgrounds without a browser.
package main

import (
	"flag"
	"image/color"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/glazeradr/portfolio/internal/content"
	"github.com/glazeradr/portfolio/internal/dotgrid"
	"github.com/glazeradr/portfolio/internal/typewriter"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// screenSurface draws onto the ebiten frame. The glow halo is a stack of
// fading circles, like the PNG renderer.
type screenSurface struct {
	img *ebiten.Image
	bg  color.Color
}

func (s *screenSurface) Clear() {
	s.img.Fill(s.bg)
}

func (s *screenSurface) FillCircle(x, y, r float64, c color.NRGBA, glow float64) {
	if r <= 0 || c.A == 0 {
		return
	}
	if glow > 0 {
		for i := 3; i >= 1; i-- {
			halo := c
			halo.A = uint8(float64(c.A) / float64(4*(i+1)))
			vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r+glow*float64(i)/6), halo, true)
		}
	}
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

type previewGame struct {
	field    *dotgrid.Field
	surface  *screenSurface
	headline *typewriter.Timeline
	started  time.Time
	lastTick time.Time
	preset   string
}

func (g *previewGame) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastTick)
	g.lastTick = now

	w, h := g.field.Size()
	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= w || y >= h {
		g.field.PointerLeave()
	} else {
		g.field.PointerMove(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.field.Click(float64(x), float64(y))
	}

	g.field.Update(dt)
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	g.surface.img = screen
	g.surface.Clear()
	g.field.Render(g.surface)

	elapsed := time.Since(g.started)
	text := g.headline.At(elapsed)
	if typewriter.Cursor(elapsed) {
		text += typewriter.DefaultCursor
	}
	ebitenutil.DebugPrint(screen, "preset: "+g.preset+"\n"+text)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.field.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	preset := flag.String("preset", "hero", "background preset to preview")
	contentDir := flag.String("content", "content", "content directory for profile overrides")
	flag.Parse()

	backgrounds := map[string]dotgrid.Config{}
	for name, cfg := range dotgrid.Presets {
		backgrounds[name] = cfg
	}
	var lines []string
	tw := typewriter.Config{}
	if site, err := content.Load(*contentDir); err != nil {
		log.Printf("Using built-in presets: %v", err)
	} else {
		backgrounds = site.Backgrounds()
		lines = site.Profile.Typewriter
		tw.TypingSpeed = time.Duration(site.Profile.TypingMs) * time.Millisecond
		tw.PauseDuration = time.Duration(site.Profile.PauseMs) * time.Millisecond
	}

	cfg, ok := backgrounds[*preset]
	if !ok {
		names := make([]string, 0, len(backgrounds))
		for name := range backgrounds {
			names = append(names, name)
		}
		sort.Strings(names)
		log.Fatalf("Unknown preset %q (have %s)", *preset, strings.Join(names, ", "))
	}

	field, err := dotgrid.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now()
	g := &previewGame{
		field:    field,
		surface:  &screenSurface{bg: color.NRGBA{0x0a, 0x0a, 0x1a, 0xff}},
		headline: typewriter.New(lines, tw),
		started:  now,
		lastTick: now,
		preset:   *preset,
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Dot Grid Preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
