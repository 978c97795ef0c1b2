package console

import (
	"fmt"
	"reflect"
)

// InstanceFinder is the host capability used to locate live objects.
// Manages reports whether instances of t are live objects owned by the host;
// FindLiveInstance returns one such instance. When several exist, the host
// picks deterministically (the scene in internal/engine returns the first
// spawned).
type InstanceFinder interface {
	Manages(t reflect.Type) bool
	FindLiveInstance(t reflect.Type) (any, bool)
}

// Resolver decides which receiver an operation runs against.
type Resolver struct {
	finder InstanceFinder
}

// NewResolver creates a resolver. A nil finder manages no types.
func NewResolver(finder InstanceFinder) *Resolver {
	return &Resolver{finder: finder}
}

func (r *Resolver) manages(t reflect.Type) bool {
	return r.finder != nil && r.finder.Manages(t)
}

// Resolvable reports whether op can be invoked right now. Operations on a
// host-managed type with no live instance are not resolvable.
func (r *Resolver) Resolvable(op *Operation) bool {
	if !op.NeedsResolution() {
		return true
	}
	if r.manages(op.receiver) {
		_, ok := r.finder.FindLiveInstance(op.receiver)
		return ok
	}
	return canConstruct(op.receiver)
}

// Resolve returns the receiver value for op. It is the zero Value for
// operations that take no receiver.
func (r *Resolver) Resolve(op *Operation) (reflect.Value, error) {
	switch {
	case !op.method:
		return reflect.Value{}, nil
	case op.target != nil:
		return reflect.ValueOf(op.target), nil
	}

	if r.manages(op.receiver) {
		inst, ok := r.finder.FindLiveInstance(op.receiver)
		if !ok || inst == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnresolvableTarget, op.receiver)
		}
		v := reflect.ValueOf(inst)
		if !v.Type().AssignableTo(op.receiver) {
			return reflect.Value{}, fmt.Errorf("%w: found %s", ErrTargetMismatch, v.Type())
		}
		return v, nil
	}

	if !canConstruct(op.receiver) {
		return reflect.Value{}, fmt.Errorf("%w: cannot construct %s", ErrUnresolvableTarget, op.receiver)
	}
	return freshInstance(op.receiver), nil
}

// canConstruct reports whether a default instance of t can be made.
func canConstruct(t reflect.Type) bool {
	return t.Kind() != reflect.Interface
}

// freshInstance builds a default receiver: a pointer to a new zero value for
// pointer receivers, the zero value otherwise.
func freshInstance(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem())
	}
	return reflect.New(t).Elem()
}
