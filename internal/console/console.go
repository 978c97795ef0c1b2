// Package console is an in-process developer console core.
//
// Application code exposes operations in two ways: modules declare marked
// funcs and method expressions that a Discovery pass enumerates, and code
// registers operations imperatively in the Registry. The Controller runs the
// select, collect-arguments, invoke cycle, coercing operator text into typed
// arguments and resolving receivers through a host InstanceFinder.
//
// Architecture:
//
//	Catalog → Discovery ┐
//	                    ├→ Console.Selectable() → Controller.Select → Coerce → Resolver → call
//	Registry ───────────┘
//
// The console is single-threaded: everything is driven from the host's
// update loop.
package console

import (
	"context"
	"strings"
	"sync/atomic"

	"devconsole/internal/logging"
)

// One console per process; claimed by New, released by Dispose.
var claimed atomic.Bool

// Console owns the discovered and registered operation sets and the controller.
type Console struct {
	discovery  *Discovery
	registry   *Registry
	resolver   *Resolver
	controller *Controller

	open     bool
	version  uint64
	disposed bool
}

// Option configures a Console.
type Option func(*options)

type options struct {
	catalog *Catalog
	modules []string
}

// WithCatalog scans catalog instead of the process-wide module catalog.
func WithCatalog(c *Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithModules restricts discovery to the named modules.
func WithModules(names ...string) Option {
	return func(o *options) { o.modules = names }
}

// New creates the process console. It fails with ErrConsoleExists while
// another console has not been disposed. The initial discovery pass runs
// before New returns.
func New(finder InstanceFinder, opts ...Option) (*Console, error) {
	if !claimed.CompareAndSwap(false, true) {
		return nil, ErrConsoleExists
	}

	o := options{catalog: Modules()}
	for _, opt := range opts {
		opt(&o)
	}

	resolver := NewResolver(finder)
	c := &Console{
		discovery:  NewDiscovery(o.catalog, o.modules),
		registry:   NewRegistry(),
		resolver:   resolver,
		controller: NewController(resolver),
	}
	c.Refresh()

	logging.Boot("Console created (modules=%v)", o.modules)
	return c, nil
}

// Dispose releases the single-console claim.
func (c *Console) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.open = false
	c.controller.Cancel()
	claimed.Store(false)
}

// Open refreshes discovery and shows the console.
func (c *Console) Open() {
	c.Refresh()
	c.open = true
	logging.UIDebug("Console opened")
}

// Close hides the console. Registered operations are kept.
func (c *Console) Close() {
	c.open = false
	logging.UIDebug("Console closed")
}

// IsOpen reports whether the console is visible.
func (c *Console) IsOpen() bool {
	return c.open
}

// Refresh rescans the configured modules.
func (c *Console) Refresh() {
	c.discovery.Refresh()
	c.version++
}

// SetModules changes the scanned modules and refreshes.
func (c *Console) SetModules(names []string) {
	c.discovery.SetModules(names)
	c.Refresh()
}

// Version changes whenever the operation lists change.
func (c *Console) Version() uint64 {
	return c.version
}

// Register adds a runtime operation. It returns false, changing nothing,
// when id is already registered or fn cannot be driven by the form.
func (c *Console) Register(id, name, description string, target any, fn any) bool {
	err := c.Add(Registration{ID: id, Name: name, Description: description, Target: target, Func: fn})
	if err != nil {
		logging.RegistryDebug("Register %s rejected: %v", id, err)
		return false
	}
	return true
}

// Unregister removes a runtime operation, returning false if id is unknown.
func (c *Console) Unregister(id string) bool {
	if !c.registry.Unregister(id) {
		return false
	}
	c.version++
	return true
}

// Add registers reg, returning the registry's error when it is rejected.
func (c *Console) Add(reg Registration) error {
	if err := c.registry.Add(reg); err != nil {
		return err
	}
	c.version++
	return nil
}

// Controller exposes the invocation controller.
func (c *Console) Controller() *Controller {
	return c.controller
}

// Operations returns discovered operations followed by registered ones.
func (c *Console) Operations() []*Operation {
	return append(c.discovery.Operations(), c.registry.All()...)
}

// Selectable returns the operations that can be invoked now. Instance
// operations whose host-managed type has no live instance are left out.
func (c *Console) Selectable() []*Operation {
	all := c.Operations()
	out := make([]*Operation, 0, len(all))
	for _, op := range all {
		if c.resolver.Resolvable(op) {
			out = append(out, op)
		}
	}
	return out
}

// Lookup finds a selectable operation by registry id or display name.
// Ids win over names; names match case-insensitively.
func (c *Console) Lookup(name string) (*Operation, bool) {
	ops := c.Selectable()
	for _, op := range ops {
		if op.ID() != "" && op.ID() == name {
			return op, true
		}
	}
	for _, op := range ops {
		if strings.EqualFold(op.Name(), name) {
			return op, true
		}
	}
	return nil, false
}

// Select forwards to the controller.
func (c *Console) Select(ctx context.Context, op *Operation) error {
	return c.controller.Select(ctx, op)
}
