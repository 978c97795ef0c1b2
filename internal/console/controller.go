package console

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"devconsole/internal/logging"
)

// State is the controller state.
type State int

const (
	// StateIdle means no invocation is pending.
	StateIdle State = iota
	// StateCollecting means a parameterized operation is waiting for arguments.
	StateCollecting
)

func (s State) String() string {
	if s == StateCollecting {
		return "collecting"
	}
	return "idle"
}

// Pending is the form state of a selected parameterized operation.
// Inputs and values are kept in lockstep, one per formal parameter.
type Pending struct {
	ID        string
	Operation *Operation
	inputs    []string
	values    []reflect.Value
}

// Inputs returns the field texts as displayed.
func (p *Pending) Inputs() []string {
	return append([]string(nil), p.inputs...)
}

// Values returns the coerced field values.
func (p *Pending) Values() []any {
	out := make([]any, len(p.values))
	for i, v := range p.values {
		out[i] = v.Interface()
	}
	return out
}

// Result records the outcome of an invocation.
type Result struct {
	ID        string
	Operation *Operation
	Outputs   []any
	Err       error
	Duration  time.Duration
}

// Controller drives the select, collect, invoke, reset cycle. At most one
// Pending invocation exists at a time.
type Controller struct {
	resolver *Resolver
	pending  *Pending
	last     *Result
	onInvoke func(Result)
}

// NewController creates a controller resolving receivers through resolver.
func NewController(resolver *Resolver) *Controller {
	return &Controller{resolver: resolver}
}

// OnInvoke installs a hook called after every completed invocation.
func (c *Controller) OnInvoke(fn func(Result)) {
	c.onInvoke = fn
}

// State returns the current state.
func (c *Controller) State() State {
	if c.pending != nil {
		return StateCollecting
	}
	return StateIdle
}

// Pending returns the active pending invocation, or nil when idle.
func (c *Controller) Pending() *Pending {
	return c.pending
}

// LastResult returns the most recent invocation outcome.
func (c *Controller) LastResult() *Result {
	return c.last
}

// Select picks op. Zero-parameter operations run immediately; others open a
// form with every field at its zero value. Any earlier pending invocation is
// discarded first. Errors returned by the operation itself are returned.
func (c *Controller) Select(ctx context.Context, op *Operation) error {
	if op == nil {
		return ErrNilOperation
	}
	c.reset()

	if op.Arity() == 0 {
		return c.invoke(ctx, op, uuid.NewString(), nil)
	}

	p := &Pending{
		ID:        uuid.NewString(),
		Operation: op,
		inputs:    make([]string, op.Arity()),
		values:    make([]reflect.Value, op.Arity()),
	}
	for i, param := range op.params {
		p.values[i], p.inputs[i] = ZeroField(param)
	}
	c.pending = p

	logging.InvokeDebug("Collecting %d arguments for %s (pending=%s)", op.Arity(), op.Name(), p.ID)
	return nil
}

// EditField re-coerces field i from text and returns the text to display.
func (c *Controller) EditField(i int, text string) (string, error) {
	p, err := c.field(i)
	if err != nil {
		return "", err
	}
	v, display := Coerce(text, p.Operation.params[i])
	p.values[i], p.inputs[i] = v, display
	return display, nil
}

// Toggle flips the bool field i.
func (c *Controller) Toggle(i int) error {
	p, err := c.field(i)
	if err != nil {
		return err
	}
	if p.Operation.params[i].Kind != KindBool {
		return fmt.Errorf("%w: field %d", ErrNotToggle, i)
	}
	return c.SetBool(i, !p.values[i].Bool())
}

// SetBool sets the bool field i.
func (c *Controller) SetBool(i int, on bool) error {
	p, err := c.field(i)
	if err != nil {
		return err
	}
	if p.Operation.params[i].Kind != KindBool {
		return fmt.Errorf("%w: field %d", ErrNotToggle, i)
	}
	p.values[i], p.inputs[i] = Coerce(FormatBool(on), p.Operation.params[i])
	return nil
}

// Cancel discards the pending invocation.
func (c *Controller) Cancel() {
	if c.pending != nil {
		logging.InvokeDebug("Cancelled pending %s", c.pending.ID)
	}
	c.reset()
}

// Confirm invokes the pending operation with the current field values and
// returns to idle.
func (c *Controller) Confirm(ctx context.Context) error {
	p := c.pending
	if p == nil {
		return ErrNoPending
	}
	args := append([]reflect.Value(nil), p.values...)
	logging.Invoke("Confirmed %s with %v (pending=%s)", p.Operation.Name(), p.inputs, p.ID)
	err := c.invoke(ctx, p.Operation, p.ID, args)
	if c.pending == p {
		c.reset()
	}
	return err
}

func (c *Controller) field(i int) (*Pending, error) {
	if c.pending == nil {
		return nil, ErrNoPending
	}
	if i < 0 || i >= len(c.pending.values) {
		return nil, fmt.Errorf("%w: %d", ErrFieldIndex, i)
	}
	return c.pending, nil
}

func (c *Controller) reset() {
	c.pending = nil
}

func (c *Controller) invoke(ctx context.Context, op *Operation, id string, args []reflect.Value) error {
	log := logging.Get(logging.CategoryInvoke).With("invocation", id, "operation", op.Name())

	recv, err := c.resolver.Resolve(op)
	if err != nil {
		log.Warn("Resolve failed: %v", err)
		c.record(Result{ID: id, Operation: op, Err: err})
		return err
	}

	start := time.Now()
	outputs, err := op.call(ctx, recv, args)
	res := Result{ID: id, Operation: op, Outputs: outputs, Err: err, Duration: time.Since(start)}

	if err != nil {
		log.Warn("Invocation failed after %v: %v", res.Duration, err)
	} else {
		log.Info("Invoked in %v (outputs=%d)", res.Duration, len(outputs))
	}
	c.record(res)
	return err
}

func (c *Controller) record(res Result) {
	c.last = &res
	if c.onInvoke != nil {
		c.onInvoke(res)
	}
}
