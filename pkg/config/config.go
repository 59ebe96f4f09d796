// Package config loads viewer settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/taigrr/scanline/pkg/errs"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Config holds all viewer settings. Fields absent from a file keep the
// value from Default.
type Config struct {
	// Loop
	FPS           float64 `json:"fps"`
	HoldTimeoutMS int     `json:"hold_timeout_ms"`

	// Viewport for image output; the terminal viewer uses the window size
	Width  int `json:"width"`
	Height int `json:"height"`

	// Projection
	FOVDegrees float64 `json:"fov_degrees"`
	Near       float64 `json:"near"`
	Far        float64 `json:"far"`

	// Scene
	Background  string      `json:"background"`
	Light       [3]float64  `json:"light"`
	WorldOffset [3]float64  `json:"world_offset"`
	WorldMatrix *[9]float64 `json:"world_matrix,omitempty"`
	FitSize     float64     `json:"fit_size"`

	// Camera
	Camera          [3]float64 `json:"camera"`
	MoveSpeed       float64    `json:"move_speed"`
	StrafeSpeed     float64    `json:"strafe_speed"`
	FlySpeed        float64    `json:"fly_speed"`
	RotationDegrees float64    `json:"rotation_degrees"`

	// Keys maps intent names (see render.Intent) to key names.
	Keys map[string][]string `json:"keys"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FPS:             30,
		HoldTimeoutMS:   150,
		Width:           320,
		Height:          180,
		FOVDegrees:      90,
		Near:            render.DefaultNear,
		Far:             render.DefaultFar,
		Background:      "0,0,0",
		Light:           [3]float64{1, 1, -1},
		FitSize:         0,
		Camera:          [3]float64{0, 0, -5},
		MoveSpeed:       render.DefaultMoveSpeed,
		StrafeSpeed:     render.DefaultStrafeSpeed,
		FlySpeed:        render.DefaultFlySpeed,
		RotationDegrees: 1,
		Keys:            DefaultKeys(),
	}
}

// DefaultKeys returns the standard key bindings.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		render.MoveForward.String():  {"w"},
		render.MoveBackward.String(): {"s"},
		render.MoveLeft.String():     {"a"},
		render.MoveRight.String():    {"d"},
		render.MoveUp.String():       {"space"},
		render.MoveDown.String():     {"c"},
		render.PanLeft.String():      {"left"},
		render.PanRight.String():     {"right"},
		render.PanUp.String():        {"up"},
		render.PanDown.String():      {"down"},
		render.TiltLeft.String():     {"q"},
		render.TiltRight.String():    {"e"},
		render.IntentQuit.String():   {"esc", "escape", "ctrl+c"},
	}
}

// Load reads a JSON config file over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	cfg.Keys = nil
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Keys == nil {
		cfg.Keys = DefaultKeys()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks every field. It builds the pipeline options and camera
// so the same rules apply as at startup.
func (c Config) Validate() error {
	if !(c.FPS > 0) || math.IsInf(c.FPS, 1) {
		return errs.Invalid("fps %v must be positive", c.FPS)
	}
	if c.HoldTimeoutMS < 0 {
		return errs.Invalid("hold_timeout_ms %d must not be negative", c.HoldTimeoutMS)
	}
	if !(c.FitSize >= 0) {
		return errs.Invalid("fit_size %v must not be negative", c.FitSize)
	}
	opts, err := c.PipelineOptions(c.Width, c.Height)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := c.NewCamera(); err != nil {
		return err
	}
	_, err = c.KeyMap()
	return err
}

// HoldTimeout returns HoldTimeoutMS as a duration.
func (c Config) HoldTimeout() time.Duration {
	return time.Duration(c.HoldTimeoutMS) * time.Millisecond
}

// PipelineOptions returns render options for a width×height viewport.
func (c Config) PipelineOptions(width, height int) (render.Options, error) {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return render.Options{}, fmt.Errorf("background: %w", err)
	}

	opts := render.DefaultOptions(width, height)
	opts.FOV = c.FOVDegrees * math.Pi / 180
	opts.Near = c.Near
	opts.Far = c.Far
	opts.LightDir = vec(c.Light)
	opts.WorldOffset = vec(c.WorldOffset)
	opts.Background = bg
	if c.WorldMatrix != nil {
		opts.World = math3d.Mat3(*c.WorldMatrix)
	}
	return opts, nil
}

// NewCamera returns a camera at the configured position and speeds.
func (c Config) NewCamera() (*render.Camera, error) {
	return render.NewCamera(vec(c.Camera), render.Speeds{
		Move:     c.MoveSpeed,
		Strafe:   c.StrafeSpeed,
		Fly:      c.FlySpeed,
		Rotation: c.RotationDegrees * math.Pi / 180,
	})
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// KeyMap resolves key names to intents.
type KeyMap map[string]render.Intent

// KeyMap builds the key lookup from Keys. Unknown intent names and keys
// bound to two intents are rejected.
func (c Config) KeyMap() (KeyMap, error) {
	names := make([]string, 0, len(c.Keys))
	for name := range c.Keys {
		names = append(names, name)
	}
	sort.Strings(names)

	km := make(KeyMap)
	for _, name := range names {
		intent, ok := render.ParseIntent(name)
		if !ok {
			return nil, errs.Invalid("unknown intent %q in keys", name)
		}
		for _, key := range c.Keys[name] {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				return nil, errs.Invalid("empty key for intent %q", name)
			}
			if prev, dup := km[key]; dup && prev != intent {
				return nil, errs.Invalid("key %q bound to both %v and %v", key, prev, intent)
			}
			km[key] = intent
		}
	}
	return km, nil
}

// Lookup returns the intent bound to key.
func (km KeyMap) Lookup(key string) (render.Intent, bool) {
	i, ok := km[strings.ToLower(key)]
	return i, ok
}

// Keys returns the bound key names in sorted order.
func (km KeyMap) Keys() []string {
	keys := make([]string, 0, len(km))
	for k := range km {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseColor parses "r,g,b" or "r,g,b,a" with 0-255 components.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, errs.Invalid("color %q must be r,g,b or r,g,b,a", s)
	}
	c := [4]uint8{3: 255}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, errs.Invalid("color %q component %d: %v", s, i, err)
		}
		c[i] = uint8(n)
	}
	return color.RGBA{c[0], c[1], c[2], c[3]}, nil
}
