package movement

import (
	"fmt"
	"math/bits"
)

// State is one exclusive movement mode. Every tag is a distinct bit.
type State uint8

const (
	Idle State = 1 << iota
	Move
	Brake
	Land
	Jump
	Fall
	Grapple
	Destroyed
)

var stateNames = map[State]string{
	Idle:      "idle",
	Move:      "move",
	Brake:     "brake",
	Land:      "land",
	Jump:      "jump",
	Fall:      "fall",
	Grapple:   "grapple",
	Destroyed: "destroyed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Atomic reports whether s is exactly one known tag.
func (s State) Atomic() bool {
	_, ok := stateNames[s]
	return ok && bits.OnesCount8(uint8(s)) == 1
}

// In reports whether s belongs to g.
func (s State) In(g Group) bool {
	return g.Contains(s)
}

// Group is a named set of states used only for membership queries.
type Group struct {
	name    string
	members map[State]struct{}
}

func newGroup(name string, states ...State) Group {
	g := Group{name: name, members: make(map[State]struct{}, len(states))}
	for _, s := range states {
		g.members[s] = struct{}{}
	}
	return g
}

var (
	Static   = newGroup("static", Idle, Land)
	Grounded = newGroup("grounded", Idle, Move, Brake, Land)
	Airborne = newGroup("airborne", Jump, Fall)
)

func (g Group) Name() string { return g.name }

func (g Group) Contains(s State) bool {
	_, ok := g.members[s]
	return ok
}

// Members lists the group's states in tag order.
func (g Group) Members() []State {
	out := make([]State, 0, len(g.members))
	for s := Idle; s != 0; s <<= 1 {
		if g.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}
