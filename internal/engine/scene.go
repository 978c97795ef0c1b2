// Package engine provides the host side of the console: a scene of live
// components that operations can be resolved against.
package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"devconsole/internal/logging"
)

// Component is implemented by live objects owned by a Scene.
type Component interface {
	ComponentName() string
}

var componentType = reflect.TypeOf((*Component)(nil)).Elem()

// ErrNotPointer is returned when spawning a component that is not a pointer.
var ErrNotPointer = errors.New("component must be a pointer")

// Scene holds live components in spawn order.
type Scene struct {
	mu      sync.RWMutex
	objects []Component
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Spawn adds a live component. Components are identified by pointer.
func (s *Scene) Spawn(c Component) error {
	if c == nil || reflect.TypeOf(c).Kind() != reflect.Pointer {
		return fmt.Errorf("%w: %T", ErrNotPointer, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, c)

	logging.EngineDebug("Spawned %s (%T)", c.ComponentName(), c)
	return nil
}

// Despawn removes a live component, returning false if it was not in the scene.
func (s *Scene) Despawn(c Component) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.objects {
		if o == c {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			logging.EngineDebug("Despawned %s", c.ComponentName())
			return true
		}
	}
	return false
}

// Objects returns the live components in spawn order.
func (s *Scene) Objects() []Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Component(nil), s.objects...)
}

func (s *Scene) String() string {
	return fmt.Sprintf("scene(%d objects)", s.Len())
}

// Len returns the number of live components.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Manages reports whether values of t are scene components. Components are
// stored as pointers, so a non-pointer t is managed when *t is a component.
func (s *Scene) Manages(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		return reflect.PointerTo(t).Implements(componentType)
	}
	return t.Implements(componentType)
}

// FindLiveInstance returns the first spawned component assignable to t.
// For a non-pointer t the stored pointer is dereferenced, yielding a copy.
func (s *Scene) FindLiveInstance(t reflect.Type) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.objects {
		ot := reflect.TypeOf(o)
		if ot.AssignableTo(t) {
			return o, true
		}
		if t.Kind() != reflect.Interface && ot.Elem().AssignableTo(t) {
			return reflect.ValueOf(o).Elem().Interface(), true
		}
	}
	return nil, false
}
