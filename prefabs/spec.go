package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/grapple/movement"
	"gopkg.in/yaml.v3"
)

var ErrMissingComponent = errors.New("prefabs: missing component")

// EntityBuildSpec is the on-disk shape of every prefab: a name and a map of
// component specs decoded on demand.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeComponentSpec decodes raw into dst, keeping dst's values for keys
// raw does not set.
func DecodeComponentSpec[T any](raw any, dst *T) error {
	if raw == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, dst)
}

func decodeComponent[T any](spec EntityBuildSpec, file, name string, dst *T) error {
	raw, ok := spec.Components[name]
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrMissingComponent, name, file)
	}
	if err := DecodeComponentSpec(raw, dst); err != nil {
		return fmt.Errorf("prefabs: decode %s.%s: %w", file, name, err)
	}
	return nil
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerSpec is the player's movement tuning and collision box.
type PlayerSpec struct {
	Name     string
	Movement movement.Config
	Body     BodySpec
}

const PlayerFile = "player.yaml"

// LoadPlayerSpec reads player.yaml over the default tuning and validates it.
func LoadPlayerSpec() (*PlayerSpec, error) {
	raw, err := LoadSpec[EntityBuildSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	spec := &PlayerSpec{Name: raw.Name, Movement: movement.DefaultConfig(), Body: BodySpec{Width: 24, Height: 32}}
	if err := decodeComponent(raw, PlayerFile, "movement", &spec.Movement); err != nil {
		return nil, err
	}
	if err := decodeComponent(raw, PlayerFile, "physics_body", &spec.Body); err != nil {
		return nil, err
	}
	if err := spec.Movement.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", PlayerFile, err)
	}
	if spec.Body.Width <= 0 || spec.Body.Height <= 0 {
		return nil, fmt.Errorf("prefabs: %s: physics_body must have a positive size", PlayerFile)
	}
	return spec, nil
}

type CameraSpec struct {
	Name       string  `yaml:"-"`
	MaxOffset  float64 `yaml:"max_offset"`
	LookWeight float64 `yaml:"look_weight"`
}

const CameraFile = "camera.yaml"

func LoadCameraSpec() (*CameraSpec, error) {
	raw, err := LoadSpec[EntityBuildSpec](CameraFile)
	if err != nil {
		return nil, err
	}
	spec := &CameraSpec{Name: raw.Name, MaxOffset: 150, LookWeight: 0.1}
	if err := decodeComponent(raw, CameraFile, "camera", spec); err != nil {
		return nil, err
	}
	if spec.LookWeight < 0 || spec.LookWeight > 1 {
		return nil, fmt.Errorf("prefabs: %s: look_weight must be in [0,1], got %v", CameraFile, spec.LookWeight)
	}
	return spec, nil
}

// PaletteSpec colours the debug renderer.
type PaletteSpec struct {
	Background     YAMLColor `yaml:"background"`
	Solid          YAMLColor `yaml:"solid"`
	Hazard         YAMLColor `yaml:"hazard"`
	Player         YAMLColor `yaml:"player"`
	Rope           YAMLColor `yaml:"rope"`
	Anchor         YAMLColor `yaml:"anchor"`
	AnchorSelected YAMLColor `yaml:"anchor_selected"`
	Particle       YAMLColor `yaml:"particle"`
}

const PaletteFile = "palette.yaml"

func LoadPaletteSpec() (*PaletteSpec, error) {
	raw, err := LoadSpec[EntityBuildSpec](PaletteFile)
	if err != nil {
		return nil, err
	}
	var spec PaletteSpec
	if err := decodeComponent(raw, PaletteFile, "palette", &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns c, or fallback when c was never set.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}
