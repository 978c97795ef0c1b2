package console

import (
	"context"
	"fmt"
	"reflect"
)

// Kind is the closed set of parameter types the console form can edit.
type Kind int

const (
	KindOther Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// KindOf maps a Go type to its form kind.
func KindOf(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return KindOther
	}
}

// Param is one formal parameter of an operation.
type Param struct {
	Name string
	Kind Kind
	Type reflect.Type
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// MethodExpr wraps a method expression passed to the runtime registry so the
// first func parameter is treated as the receiver.
type MethodExpr struct {
	fn any
}

// Method marks fn (e.g. (*Player).Heal) as a method expression for Register.
func Method(fn any) MethodExpr {
	return MethodExpr{fn: fn}
}

// Operation describes one invokable operation, however it was found.
type Operation struct {
	id          string
	name        string
	description string
	marker      *Marker
	module      string

	params   []Param
	receiver reflect.Type
	target   any

	fn         reflect.Value
	method     bool
	wantsCtx   bool
	returnsErr bool
}

// ID is set only for runtime-registered operations.
func (o *Operation) ID() string { return o.id }

// Name returns the display name, read from the marker for discovered operations.
func (o *Operation) Name() string {
	if o.marker != nil {
		return o.marker.Name
	}
	return o.name
}

// Description returns the display description.
func (o *Operation) Description() string {
	if o.marker != nil {
		return o.marker.Description
	}
	return o.description
}

// Marker returns the marker the operation was discovered through.
func (o *Operation) Marker() (Marker, bool) {
	if o.marker == nil {
		return Marker{}, false
	}
	return *o.marker, true
}

// Module is the declaring module of a discovered operation.
func (o *Operation) Module() string { return o.module }

// Params returns a copy of the formal parameter list.
func (o *Operation) Params() []Param {
	out := make([]Param, len(o.params))
	copy(out, o.params)
	return out
}

// Arity is the number of form fields.
func (o *Operation) Arity() int { return len(o.params) }

// IsStatic reports whether the operation runs without any receiver or bound target.
func (o *Operation) IsStatic() bool { return !o.method && o.target == nil }

// Receiver is the declaring type of a method operation, nil otherwise.
func (o *Operation) Receiver() reflect.Type { return o.receiver }

// Target is the bound target, nil when absent.
func (o *Operation) Target() any { return o.target }

// NeedsResolution reports whether a live instance must be looked up at call time.
func (o *Operation) NeedsResolution() bool { return o.method && o.target == nil }

// Label is the list text: the name followed by the bound target, if any.
func (o *Operation) Label() string {
	switch {
	case o.target != nil:
		return fmt.Sprintf("%s (%v)", o.Name(), o.target)
	case o.receiver != nil:
		return fmt.Sprintf("%s (%s)", o.Name(), o.receiver)
	default:
		return o.Name()
	}
}

// newOperation inspects fn and builds the type-erased callable. names
// supplies parameter names in order.
func newOperation(fn any, method bool, names []string) (*Operation, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}

	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic %s", ErrUnsupportedParam, t)
	}

	op := &Operation{fn: v, method: method}

	in := 0
	if method {
		if t.NumIn() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoReceiver, t)
		}
		op.receiver = t.In(0)
		in = 1
	}
	if in < t.NumIn() && t.In(in) == contextType {
		op.wantsCtx = true
		in++
	}

	for i := in; i < t.NumIn(); i++ {
		pt := t.In(i)
		idx := i - in
		name := fmt.Sprintf("arg%d", idx)
		if idx < len(names) && names[idx] != "" {
			name = names[idx]
		}
		kind := KindOf(pt)
		if kind == KindOther {
			return nil, fmt.Errorf("%w: parameter %s has type %s", ErrUnsupportedParam, name, pt)
		}
		op.params = append(op.params, Param{Name: name, Kind: kind, Type: pt})
	}

	if n := t.NumOut(); n > 0 && t.Out(n-1) == errorType {
		op.returnsErr = true
	}

	return op, nil
}

// bind attaches a target, checking it can serve as the method receiver.
func (o *Operation) bind(target any) error {
	if target == nil {
		return nil
	}
	if o.method {
		tt := reflect.TypeOf(target)
		if !tt.AssignableTo(o.receiver) {
			return fmt.Errorf("%w: %s is not %s", ErrTargetMismatch, tt, o.receiver)
		}
	}
	o.target = target
	return nil
}

// call invokes the callable. recv is ignored for non-method operations.
// A non-nil trailing error is returned; other results are returned as values.
// Panics raised by the callable are not recovered.
func (o *Operation) call(ctx context.Context, recv reflect.Value, args []reflect.Value) ([]any, error) {
	in := make([]reflect.Value, 0, len(args)+2)
	if o.method {
		in = append(in, recv)
	}
	if o.wantsCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	in = append(in, args...)

	out := o.fn.Call(in)

	var err error
	if o.returnsErr {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, err
}
