package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Window     Window     `json:"window" yaml:"window"`
	Camera     Camera     `json:"camera" yaml:"camera"`
	Projection Projection `json:"projection" yaml:"projection"`
	Rendering  Rendering  `json:"rendering" yaml:"rendering"`
	Assets     Assets     `json:"assets" yaml:"assets"`
	Log        Log        `json:"log" yaml:"log"`
}

// Window contains window creation parameters
type Window struct {
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Title  string `json:"title" yaml:"title"`

	// CaptureCursor hides the cursor and keeps it in the window for mouse look
	CaptureCursor bool `json:"capture_cursor" yaml:"capture_cursor"`
}

// Camera contains the initial camera state and movement tuning
type Camera struct {
	Position mgl32.Vec3 `json:"position" yaml:"position"`
	Up       mgl32.Vec3 `json:"up" yaml:"up"`
	Front    mgl32.Vec3 `json:"front" yaml:"front"`

	// Sensitivity is degrees of rotation per pixel of mouse movement
	Sensitivity float32 `json:"sensitivity" yaml:"sensitivity"`

	// MoveStep is the distance moved per frame while a movement key is held
	MoveStep float32 `json:"move_step" yaml:"move_step"`
}

// Projection contains perspective parameters
type Projection struct {
	// FOV is the vertical field of view in degrees
	FOV  float32 `json:"fov" yaml:"fov"`
	Near float32 `json:"near" yaml:"near"`
	Far  float32 `json:"far" yaml:"far"`
}

// Rendering contains fixed pipeline state
type Rendering struct {
	ClearColor mgl32.Vec4 `json:"clear_color" yaml:"clear_color"`
	CullFaces  bool       `json:"cull_faces" yaml:"cull_faces"`
}

// Assets contains paths to files loaded at startup
type Assets struct {
	VertexShader   string `json:"vertex_shader" yaml:"vertex_shader"`
	FragmentShader string `json:"fragment_shader" yaml:"fragment_shader"`
	Texture        string `json:"texture" yaml:"texture"`

	// Icon is optional; empty disables the window icon
	Icon string `json:"icon" yaml:"icon"`
}

// Log contains logging options
type Log struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: Window{
			Width:         1920,
			Height:        1080,
			Title:         "Cube Viewer",
			CaptureCursor: true,
		},
		Camera: Camera{
			Position:    mgl32.Vec3{0, 0, -3},
			Up:          mgl32.Vec3{0, 1, 0},
			Front:       mgl32.Vec3{0, 0, -1},
			Sensitivity: 0.1,
			MoveStep:    0.001,
		},
		Projection: Projection{
			FOV:  70,
			Near: 0.1,
			Far:  100000,
		},
		Rendering: Rendering{
			ClearColor: mgl32.Vec4{0.5, 0.8, 0.9, 1.0},
			CullFaces:  true,
		},
		Assets: Assets{
			VertexShader:   "assets/shaders/vertex.glsl",
			FragmentShader: "assets/shaders/fragment.glsl",
			Texture:        "assets/grass_side.png",
			Icon:           "assets/grass_side.png",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads configuration from path on top of the defaults. A missing file
// is not an error. Files ending in .yaml or .yml are decoded as YAML,
// anything else as JSON.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Camera.Front.Len() == 0:
		return errors.New("camera front must be non-zero")
	case c.Camera.Up.Len() == 0:
		return errors.New("camera up must be non-zero")
	case c.Camera.Sensitivity < 0:
		return fmt.Errorf("camera sensitivity %v must not be negative", c.Camera.Sensitivity)
	case c.Projection.FOV <= 0 || c.Projection.FOV >= 180:
		return fmt.Errorf("fov %v must be in (0, 180)", c.Projection.FOV)
	case c.Projection.Near <= 0:
		return fmt.Errorf("near plane %v must be positive", c.Projection.Near)
	case c.Projection.Far <= c.Projection.Near:
		return fmt.Errorf("far plane %v must be beyond near plane %v", c.Projection.Far, c.Projection.Near)
	case c.Assets.VertexShader == "" || c.Assets.FragmentShader == "":
		return errors.New("both shader paths are required")
	case c.Assets.Texture == "":
		return errors.New("texture path is required")
	}
	return nil
}
