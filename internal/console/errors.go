package console

import "errors"

// Console errors.
var (
	// ErrDuplicateID is returned when registering an id that already exists.
	ErrDuplicateID = errors.New("operation id already registered")

	// ErrUnknownID is returned when removing an id that was never registered.
	ErrUnknownID = errors.New("operation id not registered")

	// ErrEmptyID is returned when a runtime registration has no id.
	ErrEmptyID = errors.New("operation id cannot be empty")

	// ErrNotCallable is returned when an operation is not a non-nil func.
	ErrNotCallable = errors.New("operation is not a callable func")

	// ErrNoReceiver is returned when a method expression takes no receiver.
	ErrNoReceiver = errors.New("method expression has no receiver parameter")

	// ErrTargetMismatch is returned when a bound target cannot be the receiver.
	ErrTargetMismatch = errors.New("target type does not match method receiver")

	// ErrUnsupportedParam is returned for parameters the form cannot edit.
	ErrUnsupportedParam = errors.New("unsupported parameter type")

	// ErrUnresolvableTarget is returned when no live instance can receive the call.
	ErrUnresolvableTarget = errors.New("no live instance for operation")

	// ErrNoPending is returned when a form action arrives with no pending invocation.
	ErrNoPending = errors.New("no pending invocation")

	// ErrFieldIndex is returned for a field index outside the pending form.
	ErrFieldIndex = errors.New("field index out of range")

	// ErrNotToggle is returned when toggling a non-bool field.
	ErrNotToggle = errors.New("field is not a toggle")

	// ErrNilOperation is returned when selecting a nil operation.
	ErrNilOperation = errors.New("operation cannot be nil")

	// ErrConsoleExists is returned when a second console is constructed.
	ErrConsoleExists = errors.New("a console instance already exists")

	// ErrModuleNameEmpty is returned when a module has no name.
	ErrModuleNameEmpty = errors.New("module name cannot be empty")

	// ErrModuleExists is returned when a module name is registered twice.
	ErrModuleExists = errors.New("module already registered")
)
