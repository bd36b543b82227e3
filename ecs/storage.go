package ecs

// entityStore tracks slot versions and free slots. Slot ids start at 1.
type entityStore struct {
	versions []slotVersion
	alive    []bool
	free     []slotIndex
	count    int
}

func (s *entityStore) create() Entity {
	var id slotIndex
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.versions = append(s.versions, 0)
		s.alive = append(s.alive, false)
		id = slotIndex(len(s.versions))
	}
	s.alive[id-1] = true
	s.count++
	return handle(id, s.versions[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.slot() - 1
	s.versions[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.slot())
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.slot()
	if id == 0 || int(id) > len(s.versions) {
		return false
	}
	return s.alive[id-1] && s.versions[id-1] == e.version()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for i, ok := range s.alive {
		if ok {
			out = append(out, handle(slotIndex(i+1), s.versions[i]))
		}
	}
	return out
}
