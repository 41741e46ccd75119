package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/grapple"
	"github.com/milk9111/grapple/levels"
	"github.com/milk9111/grapple/movement"
)

// SpawnOptions configures the entities created for a level.
type SpawnOptions struct {
	Movement     movement.Config
	PlayerWidth  float64
	PlayerHeight float64
	Camera       component.Camera
}

// Scene is the set of entities spawned for one level.
type Scene struct {
	Player  ecs.Entity
	Camera  ecs.Entity
	Anchors []ecs.Entity
	Arbiter *grapple.Arbiter
}

// Spawn builds the physics world for level and creates the player, camera
// and anchor entities.
func Spawn(w *ecs.World, level *levels.Level, opts SpawnOptions) (*Scene, error) {
	if err := opts.Movement.Validate(); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	pw, err := ecs.NewPhysicsWorld(level)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	w.SetPhysicsWorld(pw)

	spawnPoint, _ := level.Spawn()
	spawn := cp.Vector{X: float64(spawnPoint.X), Y: float64(spawnPoint.Y)}
	scene := &Scene{Arbiter: grapple.NewArbiter()}

	scene.Player = ecs.CreateEntity(w)
	actor := pw.AddActor(scene.Player, spawn, opts.PlayerWidth, opts.PlayerHeight)
	ctrl := movement.NewController(opts.Movement, spawn, scene.Arbiter, actor)
	if err := addAll(w, scene.Player,
		func() error {
			return ecs.Add(w, scene.Player, component.PlayerComponent.Kind(), &component.Player{
				Controller: ctrl,
				Width:      opts.PlayerWidth,
				Height:     opts.PlayerHeight,
			})
		},
		func() error {
			return ecs.Add(w, scene.Player, component.TransformComponent.Kind(), &component.Transform{X: spawn.X, Y: spawn.Y})
		},
		func() error {
			return ecs.Add(w, scene.Player, component.InputComponent.Kind(), &component.Input{})
		},
		func() error {
			return ecs.Add(w, scene.Player, component.ParticlesComponent.Kind(), &component.Particles{})
		},
	); err != nil {
		return nil, err
	}

	scene.Camera = ecs.CreateEntity(w)
	cam := opts.Camera
	cam.Position = spawn
	if err := ecs.Add(w, scene.Camera, component.CameraComponent.Kind(), &cam); err != nil {
		return nil, fmt.Errorf("spawn camera: %w", err)
	}

	for _, ent := range level.EntitiesOfType(levels.EntityAnchor) {
		pos := cp.Vector{X: float64(ent.X), Y: float64(ent.Y)}
		e := ecs.CreateEntity(w)
		if err := addAll(w, e,
			func() error {
				return ecs.Add(w, e, component.AnchorComponent.Kind(), &component.Anchor{Point: grapple.NewPoint(pos, scene.Arbiter)})
			},
			func() error {
				return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
			},
		); err != nil {
			return nil, err
		}
		scene.Anchors = append(scene.Anchors, e)
	}
	return scene, nil
}

func addAll(w *ecs.World, e ecs.Entity, adds ...func() error) error {
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return fmt.Errorf("spawn %v: %w", e, err)
		}
	}
	return nil
}

// NewScheduler orders the systems for one fixed tick: input, camera,
// anchors, physics, player, particles.
func NewScheduler(source InputSource, dt float64, seed int64) *ecs.Scheduler {
	return ecs.NewScheduler(
		NewInputSystem(source),
		NewCameraSystem(),
		NewAnchorSystem(),
		NewPhysicsSystem(dt),
		NewPlayerSystem(dt),
		NewParticleSystem(dt, seed),
	)
}
