package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/glazeradr/portfolio/internal/dotgrid"
)

const (
	maxPreviewSize   = 2000
	maxPreviewFrames = 600
	previewBG        = "#0a0a1a"
)

// gridAttrs encodes the named section backgrounds as JSON for the canvas
// data-dotgrid attributes the wasm host reads.
func (s *server) gridAttrs(names ...string) map[string]string {
	site := s.content.Site()
	out := make(map[string]string, len(names))
	for _, name := range names {
		cfg, _ := site.Background(name)
		data, err := json.Marshal(cfg)
		if err != nil {
			log.Printf("Error encoding background %q: %v", name, err)
			continue
		}
		out[name] = string(data)
	}
	return out
}

type typewriterConfig struct {
	Lines   []string `json:"lines"`
	TypeMs  int      `json:"typingMs"`
	PauseMs int      `json:"pauseMs"`
}

func (s *server) typewriterAttrs() string {
	p := s.content.Site().Profile
	data, err := json.Marshal(typewriterConfig{Lines: p.Typewriter, TypeMs: p.TypingMs, PauseMs: p.PauseMs})
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (s *server) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, s.content.Site().Backgrounds())
}

func (s *server) handlePreset(c *gin.Context) {
	cfg, ok := s.content.Site().Background(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// handlePreview renders a point field to PNG. The query can place the pointer
// (x, y), fire a click at it (click=1) and advance a number of frames first.
func (s *server) handlePreview(c *gin.Context) {
	name := c.DefaultQuery("preset", "hero")
	cfg, ok := s.content.Site().Background(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset"})
		return
	}

	w := clampInt(queryInt(c, "w", 1200), 1, maxPreviewSize)
	h := clampInt(queryInt(c, "h", 630), 1, maxPreviewSize)
	frames := clampInt(queryInt(c, "frames", 30), 0, maxPreviewFrames)

	bg, err := dotgrid.ParseColor(c.DefaultQuery("bg", previewBG))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field, err := dotgrid.New(cfg)
	if err != nil {
		log.Printf("Error building preview field %q: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid preset"})
		return
	}
	field.Resize(w, h)

	if xs, ys := c.Query("x"), c.Query("y"); xs != "" && ys != "" {
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "x and y must be numbers"})
			return
		}
		field.PointerMove(x, y)
		if c.Query("click") == "1" {
			field.Click(x, y)
		}
	}
	for i := 0; i < frames; i++ {
		field.Step()
	}

	surface := dotgrid.NewImageSurface(w, h, bg)
	field.Render(surface)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Img); err != nil {
		log.Printf("Error encoding preview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
