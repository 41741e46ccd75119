package ecs

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/levels"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeHazard
	collisionTypePlayer
)

const (
	categorySolid uint = 1 << iota
	categoryHazard
	categoryPlayer
)

const solidFriction = 0.8

var ErrNoLevel = errors.New("ecs: physics world needs a level")

// PhysicsWorld owns the Chipmunk space built from a level's solid tiles. The
// space has no gravity; the movement controller integrates it into the
// actor's velocity and the space only resolves contacts.
type PhysicsWorld struct {
	level *levels.Level
	space *cp.Space

	actors   map[*cp.Shape]*Actor
	byEntity map[Entity]*Actor

	// lineOfSight only sees solid geometry.
	lineOfSight cp.ShapeFilter
}

// NewPhysicsWorld creates a physics world for a level.
func NewPhysicsWorld(level *levels.Level) (*PhysicsWorld, error) {
	if level == nil {
		return nil, ErrNoLevel
	}
	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("ecs: physics world: %w", err)
	}

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		level:       level,
		space:       space,
		actors:      make(map[*cp.Shape]*Actor),
		byEntity:    make(map[Entity]*Actor),
		lineOfSight: cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categorySolid),
	}
	for _, layer := range level.PhysicsLayers() {
		pw.processLayerTiles(layer)
	}
	pw.buildBounds()
	pw.setupHandlers()
	return pw, nil
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Level() *levels.Level {
	return pw.level
}

// Bounds is the level rectangle in pixels.
func (pw *PhysicsWorld) Bounds() cp.BB {
	return cp.BB{
		R: float64(pw.level.Width * common.TileSize),
		T: float64(pw.level.Height * common.TileSize),
	}
}

// AddActor creates a fixed-rotation box body for e centred on pos,
// replacing any actor e already had.
func (pw *PhysicsWorld) AddActor(e Entity, pos cp.Vector, width, height float64) *Actor {
	pw.RemoveActor(pw.byEntity[e])

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(pos)
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypePlayer)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryPlayer, cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)

	a := &Actor{world: pw, entity: e, body: body, shape: shape, width: width, height: height}
	pw.actors[shape] = a
	pw.byEntity[e] = a
	return a
}

// Actor returns the actor registered for e.
func (pw *PhysicsWorld) Actor(e Entity) (*Actor, bool) {
	if pw == nil {
		return nil, false
	}
	a, ok := pw.byEntity[e]
	return a, ok
}

// RemoveActor takes the actor out of the space.
func (pw *PhysicsWorld) RemoveActor(a *Actor) {
	if a == nil || pw.actors[a.shape] != a {
		return
	}
	delete(pw.actors, a.shape)
	delete(pw.byEntity, a.entity)
	pw.space.RemoveShape(a.shape)
	pw.space.RemoveBody(a.body)
}

// Step clears per-step contact state and advances the space.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	for _, a := range pw.actors {
		a.floor = false
		a.floorNormal = cp.Vector{}
	}
	pw.space.Step(dt)
}

// Obstructed reports whether solid geometry crosses the segment from..to.
func (pw *PhysicsWorld) Obstructed(from, to cp.Vector) bool {
	info := pw.space.SegmentQueryFirst(from, to, 0, pw.lineOfSight)
	return info.Shape != nil
}

// processLayerTiles merges runs of solid tiles into as few boxes as it can.
// Hazard tiles become sensor spikes.
func (pw *PhysicsWorld) processLayerTiles(layer []int) {
	lw, lh := pw.level.Width, pw.level.Height
	solid := func(v int) bool { return v != levels.TileEmpty && v != levels.TileHazard }
	processed := make([]bool, lw*lh)
	for y := 0; y < lh; y++ {
		for x := 0; x < lw; x++ {
			idx := y*lw + x
			if processed[idx] {
				continue
			}
			processed[idx] = true
			x0 := float64(x * common.TileSize)
			y0 := float64(y * common.TileSize)

			switch v := layer[idx]; {
			case v == levels.TileEmpty:
				continue
			case v == levels.TileHazard:
				pw.addSpike(x0, y0)
				continue
			}

			w := 1
			for x+w < lw && !processed[y*lw+x+w] && solid(layer[y*lw+x+w]) {
				w++
			}
			h := 1
		grow:
			for y+h < lh {
				for xi := x; xi < x+w; xi++ {
					i := (y+h)*lw + xi
					if processed[i] || !solid(layer[i]) {
						break grow
					}
				}
				h++
			}
			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*lw+xx] = true
				}
			}

			bb := cp.BB{L: x0, B: y0, R: x0 + float64(w*common.TileSize), T: y0 + float64(h*common.TileSize)}
			shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
			pw.addSolid(shape)
		}
	}
}

func (pw *PhysicsWorld) addSpike(x0, y0 float64) {
	size := float64(common.TileSize)
	verts := []cp.Vector{
		{X: x0, Y: y0 + size},
		{X: x0 + size, Y: y0 + size},
		{X: x0 + size/2, Y: y0},
	}
	shape := cp.NewPolyShapeRaw(pw.space.StaticBody, len(verts), verts, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeHazard)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryHazard, cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
}

func (pw *PhysicsWorld) addSolid(shape *cp.Shape) {
	shape.SetFriction(solidFriction)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
}

func (pw *PhysicsWorld) buildBounds() {
	bounds := pw.Bounds()
	corners := []cp.Vector{
		{X: bounds.L, Y: bounds.B},
		{X: bounds.R, Y: bounds.B},
		{X: bounds.R, Y: bounds.T},
		{X: bounds.L, Y: bounds.T},
	}
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		pw.addSolid(cp.NewSegment(pw.space.StaticBody, a, b, 1))
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	floor := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	floor.UserData = pw
	floor.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		actor, isA := world.actors[shapeA]
		if !isA {
			if actor, ok = world.actors[shapeB]; !ok {
				return true
			}
		}
		// The arbiter normal points from A to B; the surface normal points
		// back at the actor.
		n := arb.Normal().Neg()
		if !isA {
			n = n.Neg()
		}
		actor.touch(n)
		return true
	}

	hazard := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeHazard)
	hazard.UserData = pw
	hazard.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if a, ok := world.actors[shapeA]; ok {
			a.hazard = true
		} else if a, ok := world.actors[shapeB]; ok {
			a.hazard = true
		}
		return true
	}
}

// Actor is a kinematic-feeling dynamic body: callers write its velocity
// before each step and read the resolved position and velocity after.
type Actor struct {
	world  *PhysicsWorld
	entity Entity
	body   *cp.Body
	shape  *cp.Shape

	width, height float64

	floor       bool
	floorNormal cp.Vector
	hazard      bool
}

// Sync teleports the body and sets its velocity. Velocity into the surface
// the actor rested on last step is dropped; the solver only corrects a
// fraction of the overlap per step, so a steady push would sink the body.
func (a *Actor) Sync(pos, vel cp.Vector) {
	if a.body.Position() != pos {
		a.body.SetPosition(pos)
	}
	if a.floor {
		if d := vel.Dot(a.floorNormal); d < 0 {
			vel = vel.Sub(a.floorNormal.Mult(d))
		}
	}
	a.body.SetVelocityVector(vel)
}

func (a *Actor) Position() cp.Vector { return a.body.Position() }

func (a *Actor) Velocity() cp.Vector { return a.body.Velocity() }

func (a *Actor) Size() (width, height float64) { return a.width, a.height }

// touch keeps the most upward-facing contact normal of the step.
func (a *Actor) touch(normal cp.Vector) {
	if !a.floor || normal.Dot(upVector) > a.floorNormal.Dot(upVector) {
		a.floor = true
		a.floorNormal = normal
	}
}

var upVector = cp.Vector{X: 0, Y: -1}

// FloorContact returns the most upward contact normal seen in the last step.
func (a *Actor) FloorContact() (cp.Vector, bool) {
	return a.floorNormal, a.floor
}

// Obstructed probes the actor's world for solid geometry.
func (a *Actor) Obstructed(from, to cp.Vector) bool {
	return a.world.Obstructed(from, to)
}

// TakeHazard reports and clears a hazard touch.
func (a *Actor) TakeHazard() bool {
	hit := a.hazard
	a.hazard = false
	return hit
}
