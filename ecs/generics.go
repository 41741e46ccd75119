package ecs

import (
	"fmt"

	"github.com/milk9111/grapple/ecs/component"
)

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		set := &sparseSet[T]{}
		w.stores[kind.ID()] = set
		return set
	}
	return s.(*sparseSet[T])
}

// Add attaches value to e, replacing any previous component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("add %T to %v: %w", value, e, ErrEntityNotAlive)
	}
	if value == nil {
		return fmt.Errorf("add %T to %v: %w", value, e, ErrNilComponent)
	}
	storeFor(w, kind, true).set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	s := storeFor(w, kind, false)
	return s != nil && s.remove(e.id())
}

// First returns the first live entity holding kind. Singletons such as the
// player and the camera are looked up this way.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	s := storeFor(w, kind, false)
	if s == nil {
		return 0, nil, false
	}
	for i, id := range s.dense {
		if e, ok := w.entities.resolve(id); ok {
			return e, s.values[i], true
		}
	}
	return 0, nil, false
}

// ForEach visits every live entity holding kind. fn must not add or remove
// components of that kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil {
		return
	}
	for i := 0; i < len(s.dense); i++ {
		if e, ok := w.entities.resolve(s.dense[i]); ok {
			fn(e, s.values[i])
		}
	}
}

// ForEach2 visits every live entity holding both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	for _, id := range intersect(sa, sb) {
		e, ok := w.entities.resolve(id)
		if !ok {
			continue
		}
		a, _ := sa.get(id)
		b, _ := sb.get(id)
		fn(e, a, b)
	}
}
