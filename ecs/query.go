package ecs

import "github.com/milk9111/stealth/ecs/component"

// ForEach visits every entity with a component of kind. The callback may
// mutate the component in place but must not add or remove components of
// the same kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := store(w, kind, false)
	if s == nil {
		return
	}
	for i := 0; i < len(s.dense); i++ {
		fn(s.dense[i], s.values[i])
	}
}

// ForEach2 visits entities that carry both kinds, iterating the smaller store.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := store(w, ka, false)
	sb := store(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	if sa.len() <= sb.len() {
		for i, e := range sa.dense {
			if b, ok := sb.get(e); ok {
				fn(e, sa.values[i], b)
			}
		}
		return
	}
	for i, e := range sb.dense {
		if a, ok := sa.get(e); ok {
			fn(e, a, sb.values[i])
		}
	}
}

// First returns an entity carrying kind, if any.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := store(w, kind, false)
	if s == nil || s.len() == 0 {
		return 0, false
	}
	return s.dense[0], true
}

// Count is the number of entities carrying kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s := store(w, kind, false)
	if s == nil {
		return 0
	}
	return s.len()
}
