package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Tile values in physics layers.
const (
	TileEmpty  = 0
	TileSolid  = 1
	TileHazard = 2
)

// Entity types placed by level content.
const (
	EntitySpawn  = "spawn"
	EntityAnchor = "anchor"
)

var ErrInvalidLevel = errors.New("levels: invalid level")

type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity is a placed object. X and Y are pixels.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// LoadLevelFromFS reads an embedded level by basename; the .json suffix is
// optional.
func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	if _, ok := l.Spawn(); !ok {
		return fmt.Errorf("%w: no %q entity", ErrInvalidLevel, EntitySpawn)
	}
	return nil
}

// PhysicsLayers returns the layers flagged as solid geometry. A level
// without metadata treats every layer as physical.
func (l *Level) PhysicsLayers() [][]int {
	if len(l.LayerMeta) == 0 {
		return l.Layers
	}
	var out [][]int
	for i, layer := range l.Layers {
		if i < len(l.LayerMeta) && l.LayerMeta[i].Physics {
			out = append(out, layer)
		}
	}
	return out
}

// Spawn returns the first spawn entity.
func (l *Level) Spawn() (Entity, bool) {
	for _, e := range l.Entities {
		if e.Type == EntitySpawn {
			return e, true
		}
	}
	return Entity{}, false
}

func (l *Level) EntitiesOfType(typ string) []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
