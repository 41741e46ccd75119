package ecs

import "github.com/milk9111/grapple/ecs/component"

var (
	ErrEntityNotAlive = component.ErrEntityNotAlive
	ErrNilComponent   = component.ErrNilComponent
)

// World owns entities, their components and the physics world.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities lists the live entities in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

// Events returns the per-tick event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
