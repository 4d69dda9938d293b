package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"Isle3D/internal/landmark"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window      Window                   `yaml:"window"`
	Log         Log                      `yaml:"log"`
	Exterior    Exterior                 `yaml:"exterior"`
	Interior    Interior                 `yaml:"interior"`
	Transition  Transition               `yaml:"transition"`
	Outline     Outline                  `yaml:"outline"`
	Description map[landmark.Label]Panel `yaml:"descriptions"`

	// PlaceholderProps stands simple shapes in for a scene asset that fails
	// to load. When false the scene is left without it.
	PlaceholderProps bool `yaml:"placeholder_props"`
}

type Window struct {
	Width      int32      `yaml:"width"`
	Height     int32      `yaml:"height"`
	Title      string     `yaml:"title"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Exterior struct {
	Asset          string     `yaml:"asset"`
	CameraPosition [3]float32 `yaml:"camera_position"`
	OceanSize      float32    `yaml:"ocean_size"`
	OceanDetail    int        `yaml:"ocean_detail"`
	OceanSeed      int64      `yaml:"ocean_seed"`
}

// Interior describes the secondary scene and the single viewpoint the camera
// snaps to when entering it. Angles are in degrees.
type Interior struct {
	Asset        string     `yaml:"asset"`
	Target       [3]float32 `yaml:"target"`
	Distance     float32    `yaml:"distance"`
	Polar        float32    `yaml:"polar"`
	Azimuth      float32    `yaml:"azimuth"`
	PolarRange   [2]float32 `yaml:"polar_range"`
	AzimuthRange [2]float32 `yaml:"azimuth_range"`
}

type Transition struct {
	Fade      time.Duration `yaml:"fade"`
	FadeColor [3]float32    `yaml:"fade_color"`
}

type Outline struct {
	EdgeStrength     float32    `yaml:"edge_strength"`
	EdgeGlow         float32    `yaml:"edge_glow"`
	EdgeThickness    float32    `yaml:"edge_thickness"`
	VisibleEdgeColor [3]float32 `yaml:"visible_edge_color"`
	HiddenEdgeColor  [3]float32 `yaml:"hidden_edge_color"`
}

type Panel struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Window: Window{
			Width:      1280,
			Height:     720,
			Title:      "Isle3D",
			ClearColor: [3]float32{0x49 / 255.0, 0xbc / 255.0, 0xe3 / 255.0},
		},
		Log: Log{Level: "info"},
		Exterior: Exterior{
			Asset:          "assets/island.obj",
			CameraPosition: [3]float32{0, 25, -30},
			OceanSize:      200,
			OceanDetail:    64,
			OceanSeed:      7,
		},
		Interior: Interior{
			Asset:        "assets/cabin_interior.obj",
			Target:       [3]float32{0, 1.5, 0},
			Distance:     6,
			Polar:        70,
			Azimuth:      0,
			PolarRange:   [2]float32{55, 95},
			AzimuthRange: [2]float32{-60, 60},
		},
		Transition: Transition{
			Fade:      time.Second,
			FadeColor: [3]float32{0, 0, 0},
		},
		Outline: Outline{
			EdgeStrength:     7.5,
			EdgeGlow:         0,
			EdgeThickness:    1.5,
			VisibleEdgeColor: [3]float32{1, 1, 1},
			HiddenEdgeColor:  [3]float32{1, 1, 1},
		},
		Description: defaultDescriptions(),
	}
}

func defaultDescriptions() map[landmark.Label]Panel {
	return map[landmark.Label]Panel{
		landmark.Ocean:      {Title: "The Ocean", Body: "Warm shallow water ringing the island."},
		landmark.Island:     {Title: "The Island", Body: "A small volcanic island, long since quiet."},
		landmark.Dock:       {Title: "The Dock", Body: "Click to step inside the harbour master's cabin."},
		landmark.Lighthouse: {Title: "The Lighthouse", Body: "Still lit every night by a clockwork lamp."},
		landmark.Cabin:      {Title: "The Cabin", Body: "Home of the harbour master."},
		landmark.Boat:       {Title: "The Boat", Body: "A fishing skiff tied up for the season."},
		landmark.Forest:     {Title: "The Forest", Body: "Palms and scrub covering the northern ridge."},
		landmark.Beach:      {Title: "The Beach", Body: "White sand on the sheltered side."},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg, keeping any field the data leaves out,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Transition.Fade <= 0 {
		return fmt.Errorf("%w: fade duration must be positive, got %s", ErrInvalid, c.Transition.Fade)
	}
	if c.Interior.Distance <= 0 {
		return fmt.Errorf("%w: interior distance must be positive", ErrInvalid)
	}
	if !inRange(c.Interior.Polar, c.Interior.PolarRange) {
		return fmt.Errorf("%w: interior polar %.1f outside range %v", ErrInvalid, c.Interior.Polar, c.Interior.PolarRange)
	}
	if !inArc(c.Interior.Azimuth, c.Interior.AzimuthRange) {
		return fmt.Errorf("%w: interior azimuth %.1f outside range %v", ErrInvalid, c.Interior.Azimuth, c.Interior.AzimuthRange)
	}
	if c.Interior.PolarRange[0] < 0 || c.Interior.PolarRange[1] > 180 {
		return fmt.Errorf("%w: polar range %v must lie within [0, 180]", ErrInvalid, c.Interior.PolarRange)
	}
	for l := range c.Description {
		if !landmark.Known(l) {
			return fmt.Errorf("%w: description for unknown landmark %q", ErrInvalid, l)
		}
	}
	if c.Outline.EdgeThickness < 0 || math.IsNaN(float64(c.Outline.EdgeThickness)) {
		return fmt.Errorf("%w: edge thickness %v", ErrInvalid, c.Outline.EdgeThickness)
	}
	return nil
}

func inRange(v float32, r [2]float32) bool {
	return r[0] <= r[1] && v >= r[0] && v <= r[1]
}

// inArc is inRange for azimuths, where r[0] > r[1] means the arc crosses
// the 180 degree seam.
func inArc(v float32, r [2]float32) bool {
	if r[0] <= r[1] {
		return inRange(v, r)
	}
	return v >= r[0] || v <= r[1]
}
