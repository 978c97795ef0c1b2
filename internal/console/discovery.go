package console

import (
	"sync/atomic"

	"devconsole/internal/logging"
)

// declKey identifies a declaration within one refresh. Closures made from
// one func literal share a code pointer, so the marker name is part of the key.
type declKey struct {
	module string
	name   string
	fn     uintptr
}

// Discovery enumerates marked operations across the configured modules.
// Each Refresh replaces the whole discovered set in one swap, so readers
// see either the previous or the new set.
type Discovery struct {
	catalog *Catalog
	modules []string
	current atomic.Pointer[[]*Operation]
}

// NewDiscovery creates a discovery service over catalog. modules selects
// which modules to scan; empty means every non-framework module.
func NewDiscovery(catalog *Catalog, modules []string) *Discovery {
	d := &Discovery{catalog: catalog}
	d.SetModules(modules)
	empty := []*Operation{}
	d.current.Store(&empty)
	return d
}

// SetModules changes the configured modules. It takes effect on the next Refresh.
func (d *Discovery) SetModules(modules []string) {
	d.modules = append([]string(nil), modules...)
}

// Refresh rescans every configured module and swaps in the new set.
// Declarations that cannot be turned into operations are logged and skipped.
func (d *Discovery) Refresh() {
	selected, unknown := d.catalog.Select(d.modules)
	for _, name := range unknown {
		logging.DiscoveryWarn("Configured module %q is not registered", name)
	}

	ops := make([]*Operation, 0)
	seen := make(map[declKey]bool)

	for _, m := range selected {
		decls := &Declarations{module: m.Name}
		m.Declare(decls)

		for _, decl := range decls.entries {
			op, err := newOperation(decl.fn, decl.method, decl.marker.Params)
			if err != nil {
				logging.DiscoveryWarn("Skipping %q in module %s: %v", decl.marker.Name, m.Name, err)
				continue
			}

			key := declKey{module: m.Name, name: decl.marker.Name, fn: op.fn.Pointer()}
			if seen[key] {
				logging.DiscoveryWarn("Skipping %q in module %s: declared twice", decl.marker.Name, m.Name)
				continue
			}
			seen[key] = true

			marker := decl.marker
			op.marker = &marker
			op.module = m.Name
			ops = append(ops, op)
		}
		logging.DiscoveryDebug("Module %s: %d declarations", m.Name, decls.Len())
	}

	d.current.Store(&ops)
	logging.Discovery("Discovery refreshed: %d operations from %d modules", len(ops), len(selected))
}

// Operations returns the current discovered set.
func (d *Discovery) Operations() []*Operation {
	ops := *d.current.Load()
	out := make([]*Operation, len(ops))
	copy(out, ops)
	return out
}
