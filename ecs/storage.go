package ecs

// entityStore hands out entity slots and recycles them with a bumped
// generation so stale handles stop resolving.
type entityStore struct {
	gens  []generation // gens[id-1]
	alive []bool
	free  []entityID
	count int
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		id = entityID(len(s.gens))
	}
	s.alive[id-1] = true
	s.count++
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.alive[idx] = false
	s.gens[idx]++
	s.free = append(s.free, e.id())
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.alive[id-1] && s.gens[id-1] == e.generation()
}

// resolve returns the live handle for a slot.
func (s *entityStore) resolve(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(s.gens) || !s.alive[id-1] {
		return 0, false
	}
	return makeEntity(id, s.gens[id-1]), true
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for i := range s.gens {
		if s.alive[i] {
			out = append(out, makeEntity(entityID(i+1), s.gens[i]))
		}
	}
	return out
}
