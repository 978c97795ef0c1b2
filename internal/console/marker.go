package console

import (
	"fmt"
	"sort"
	"sync"
)

// Marker opts an operation into discovery. It carries the display metadata
// shown by the console. Params optionally names the formal parameters in
// order; unnamed parameters are shown as arg0, arg1, ...
type Marker struct {
	Name        string
	Description string
	Params      []string
}

// Module is a unit of application code whose marked operations the
// discovery pass enumerates. Declare is called on every refresh, so the
// descriptors it produces always reflect the current markers.
type Module struct {
	// Name identifies the module in configuration.
	Name string

	// Framework modules are skipped unless explicitly configured.
	Framework bool

	// Declare lists the module's marked operations.
	Declare func(d *Declarations)
}

// Declarations collects the marked operations of one module during a refresh.
type Declarations struct {
	module  string
	entries []declaration
}

type declaration struct {
	marker Marker
	fn     any
	method bool
}

// Static marks a plain func. It is invoked without a receiver.
func (d *Declarations) Static(m Marker, fn any) {
	d.entries = append(d.entries, declaration{marker: m, fn: fn})
}

// Method marks a method expression such as (*Player).Heal. The receiver is
// resolved at invocation time through the console's InstanceFinder.
func (d *Declarations) Method(m Marker, methodExpr any) {
	d.entries = append(d.entries, declaration{marker: m, fn: methodExpr, method: true})
}

// Len returns the number of declarations collected so far.
func (d *Declarations) Len() int {
	return len(d.entries)
}

// Catalog holds the modules known to the process.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewCatalog creates an empty module catalog.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]Module)}
}

// Register adds a module. Names must be unique.
func (c *Catalog) Register(m Module) error {
	if m.Name == "" {
		return ErrModuleNameEmpty
	}
	if m.Declare == nil {
		return fmt.Errorf("%w: module %s has no Declare func", ErrNotCallable, m.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[m.Name]; exists {
		return fmt.Errorf("%w: %s", ErrModuleExists, m.Name)
	}
	c.modules[m.Name] = m
	return nil
}

// MustRegister registers a module and panics on error.
// Use this from package init functions.
func (c *Catalog) MustRegister(m Module) {
	if err := c.Register(m); err != nil {
		panic(fmt.Sprintf("failed to register module %s: %v", m.Name, err))
	}
}

// Get returns a module by name.
func (c *Catalog) Get(name string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	return m, ok
}

// Names returns all module names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the modules to scan. An empty list means every
// application module, excluding framework modules. Unknown names are
// returned separately so callers can report them.
func (c *Catalog) Select(names []string) (selected []Module, unknown []string) {
	if len(names) == 0 {
		for _, name := range c.Names() {
			m, _ := c.Get(name)
			if !m.Framework {
				selected = append(selected, m)
			}
		}
		return selected, nil
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if m, ok := c.Get(name); ok {
			selected = append(selected, m)
		} else {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}

var globalCatalog = NewCatalog()

// Modules returns the process-wide module catalog.
func Modules() *Catalog {
	return globalCatalog
}

// RegisterModule adds a module to the process-wide catalog.
func RegisterModule(m Module) error {
	return globalCatalog.Register(m)
}

// MustRegisterModule adds a module to the process-wide catalog, panicking on error.
func MustRegisterModule(m Module) {
	globalCatalog.MustRegister(m)
}
