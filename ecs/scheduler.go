package ecs

// System advances one concern of the world by one fixed tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order and counts ticks. Events
// pushed during a tick are dropped once every system has run.
type Scheduler struct {
	systems []System
	tick    uint64
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
	w.events.flush()
	s.tick++
}

// Tick is the number of completed updates.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}
