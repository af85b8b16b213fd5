package dotgrid

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Resting and active visual constants.
const (
	IdleOpacity     = 0.3
	IdleScale       = 1.0
	ActiveThreshold = 0.5
	Smoothing       = 0.1

	nearOpacityBase  = 0.4
	nearOpacityRange = 0.6
	nearScaleRange   = 0.8
	magnetForce      = 3.0
	magnetDamping    = 0.1
)

// Config holds the effect constants of a point field.
type Config struct {
	DotSize        float64 `yaml:"dot_size" json:"dotSize"`
	Gap            float64 `yaml:"gap" json:"gap"`
	BaseColor      string  `yaml:"base_color" json:"baseColor"`
	ActiveColor    string  `yaml:"active_color" json:"activeColor"`
	Proximity      float64 `yaml:"proximity" json:"proximity"`
	ShockRadius    float64 `yaml:"shock_radius" json:"shockRadius"`
	ShockStrength  float64 `yaml:"shock_strength" json:"shockStrength"`
	Resistance     float64 `yaml:"resistance" json:"resistance"`
	ReturnDuration float64 `yaml:"return_duration" json:"returnDuration"`
}

func DefaultConfig() Config {
	return Config{
		DotSize:        10,
		Gap:            15,
		BaseColor:      "#5227FF",
		ActiveColor:    "#5227FF",
		Proximity:      120,
		ShockRadius:    250,
		ShockStrength:  5,
		Resistance:     750,
		ReturnDuration: 1.5,
	}
}

// Presets are the per-section settings used across the site.
var Presets = map[string]Config{
	"hero": {
		DotSize: 4, Gap: 20, BaseColor: "#5227FF", ActiveColor: "#7c3aed",
		Proximity: 200, ShockRadius: 400, ShockStrength: 12, Resistance: 600, ReturnDuration: 1.8,
	},
	"experience": {
		DotSize: 4, Gap: 25, BaseColor: "#4c6ef5", ActiveColor: "#7c3aed",
		Proximity: 120, ShockRadius: 200, ShockStrength: 6, Resistance: 900, ReturnDuration: 2.5,
	},
	"portfolio": {
		DotSize: 3, Gap: 30, BaseColor: "#7c3aed", ActiveColor: "#a855f7",
		Proximity: 150, ShockRadius: 250, ShockStrength: 8, Resistance: 800, ReturnDuration: 2.5,
	},
	"latest": {
		DotSize: 3, Gap: 25, BaseColor: "#7c3aed", ActiveColor: "#a855f7",
		Proximity: 140, ShockRadius: 220, ShockStrength: 7, Resistance: 850, ReturnDuration: 2,
	},
	"blog": {
		DotSize: 3, Gap: 30, BaseColor: "#7c3aed", ActiveColor: "#a855f7",
		Proximity: 150, ShockRadius: 250, ShockStrength: 8, Resistance: 800, ReturnDuration: 2.5,
	},
	"post": {
		DotSize: 2, Gap: 35, BaseColor: "#7c3aed", ActiveColor: "#a855f7",
		Proximity: 100, ShockRadius: 150, ShockStrength: 4, Resistance: 1200, ReturnDuration: 3,
	},
}

// Preset returns the named preset, falling back to DefaultConfig.
func Preset(name string) (Config, bool) {
	cfg, ok := Presets[name]
	if !ok {
		return DefaultConfig(), false
	}
	return cfg, true
}

// Validate reports the first option that cannot drive a field.
func (c Config) Validate() error {
	switch {
	case c.DotSize <= 0:
		return fmt.Errorf("dotgrid: dot size must be positive, got %v", c.DotSize)
	case c.Gap <= 0:
		return fmt.Errorf("dotgrid: gap must be positive, got %v", c.Gap)
	case c.Resistance <= 0:
		return fmt.Errorf("dotgrid: resistance must be positive, got %v", c.Resistance)
	case c.Proximity < 0 || c.ShockRadius < 0:
		return fmt.Errorf("dotgrid: radii must not be negative")
	case c.ReturnDuration <= 0:
		return fmt.Errorf("dotgrid: return duration must be positive, got %v", c.ReturnDuration)
	case c.ReturnDuration >= c.Resistance:
		// The per-frame decay factor ReturnDuration/Resistance must stay below 1.
		return fmt.Errorf("dotgrid: return duration %v must be below resistance %v", c.ReturnDuration, c.Resistance)
	}
	if _, err := ParseColor(c.BaseColor); err != nil {
		return err
	}
	if _, err := ParseColor(c.ActiveColor); err != nil {
		return err
	}
	return nil
}

// ParseColor accepts "#rgb", "#rrggbb" or a CSS color name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("dotgrid: parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("dotgrid: unknown color %q", s)
	}
	return color.NRGBA{R: named.R, G: named.G, B: named.B, A: 0xff}, nil
}
