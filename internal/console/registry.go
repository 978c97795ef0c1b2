package console

import (
	"fmt"
	"sync"

	"devconsole/internal/logging"
)

// Registration describes an operation supplied directly by application code.
type Registration struct {
	// ID is the caller-chosen key used for deduplication and removal.
	ID string

	Name        string
	Description string

	// Target is the bound receiver or owner. Nil means the operation is
	// static, or, for a Method expression, resolved later like a
	// discovered instance operation.
	Target any

	// Func is a func value or a Method(...) expression.
	Func any
}

// Registry holds runtime-registered operations in insertion order.
type Registry struct {
	mu   sync.RWMutex
	ops  []*Operation
	byID map[string]*Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Operation)}
}

// Add registers an operation. It fails without mutating state when the id
// already exists or the callable cannot be invoked through the form.
func (r *Registry) Add(reg Registration) error {
	if reg.ID == "" {
		return ErrEmptyID
	}

	r.mu.RLock()
	_, exists := r.byID[reg.ID]
	r.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, reg.ID)
	}

	fn, method := reg.Func, false
	if me, ok := fn.(MethodExpr); ok {
		fn, method = me.fn, true
	}

	op, err := newOperation(fn, method, nil)
	if err != nil {
		return fmt.Errorf("invalid operation %s: %w", reg.ID, err)
	}
	if err := op.bind(reg.Target); err != nil {
		return fmt.Errorf("invalid operation %s: %w", reg.ID, err)
	}
	op.id = reg.ID
	op.name = reg.Name
	op.description = reg.Description

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[reg.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, reg.ID)
	}
	r.ops = append(r.ops, op)
	r.byID[reg.ID] = op

	logging.Registry("Registered operation: %s (%s, params=%d)", reg.ID, reg.Name, len(op.params))
	return nil
}

// Register is the boolean form of Add.
func (r *Registry) Register(id, name, description string, target any, fn any) bool {
	err := r.Add(Registration{ID: id, Name: name, Description: description, Target: target, Func: fn})
	if err != nil {
		logging.RegistryDebug("Register %s rejected: %v", id, err)
		return false
	}
	return true
}

// Remove unregisters an operation by id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	delete(r.byID, id)
	for i, o := range r.ops {
		if o == op {
			r.ops = append(r.ops[:i], r.ops[i+1:]...)
			break
		}
	}

	logging.RegistryDebug("Unregistered operation: %s", id)
	return nil
}

// Unregister is the boolean form of Remove.
func (r *Registry) Unregister(id string) bool {
	return r.Remove(id) == nil
}

// Get returns an operation by id, or nil if not found.
func (r *Registry) Get(id string) *Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Has returns true if an operation with the given id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// All returns the registered operations in insertion order.
func (r *Registry) All() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
