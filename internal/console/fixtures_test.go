package console

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// widget is a host-managed live object in tests.
type widget struct {
	name  string
	calls []string
}

func (w *widget) String() string { return "widget:" + w.name }

func (w *widget) Poke() { w.calls = append(w.calls, "poke") }

func (w *widget) Resize(width int, scale float64, label string, visible bool) {
	w.calls = append(w.calls, fmt.Sprintf("resize %d %.2f %s %v", width, scale, label, visible))
}

// counter is not host-managed; each invocation gets a fresh one.
type counter struct {
	n int
}

var counterSeen []*counter

func (c *counter) Bump(by int) int {
	counterSeen = append(counterSeen, c)
	c.n += by
	return c.n
}

var errBoom = errors.New("boom")

func failing() error { return errBoom }

func withContext(ctx context.Context, n int) (string, error) {
	if ctx == nil {
		return "", errors.New("nil context")
	}
	return fmt.Sprintf("n=%d", n), nil
}

func takesSlice(xs []int) {}

// fakeFinder manages *widget and returns the first live one.
type fakeFinder struct {
	live []*widget
}

var widgetType = reflect.TypeOf(&widget{})

func (f *fakeFinder) Manages(t reflect.Type) bool {
	return t == widgetType
}

func (f *fakeFinder) FindLiveInstance(t reflect.Type) (any, bool) {
	if t != widgetType || len(f.live) == 0 {
		return nil, false
	}
	return f.live[0], true
}

// newTestConsole builds a console over catalog and disposes it with the test.
func newTestConsole(t *testing.T, finder InstanceFinder, catalog *Catalog, opts ...Option) *Console {
	t.Helper()
	c, err := New(finder, append([]Option{WithCatalog(catalog)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(c.Dispose)
	return c
}

// widgetModule declares operations covering every receiver shape.
func widgetModule(name string) Module {
	return Module{
		Name: name,
		Declare: func(d *Declarations) {
			d.Method(Marker{Name: "poke", Description: "poke the widget"}, (*widget).Poke)
			d.Method(Marker{
				Name:        "resize",
				Description: "resize the widget",
				Params:      []string{"width", "scale", "label", "visible"},
			}, (*widget).Resize)
			d.Method(Marker{Name: "bump", Description: "bump a fresh counter", Params: []string{"by"}}, (*counter).Bump)
			d.Static(Marker{Name: "fail", Description: "always fails"}, failing)
		},
	}
}

func testCatalog(t *testing.T, modules ...Module) *Catalog {
	t.Helper()
	cat := NewCatalog()
	for _, m := range modules {
		if err := cat.Register(m); err != nil {
			t.Fatalf("Register module %s: %v", m.Name, err)
		}
	}
	return cat
}

func names(ops []*Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name()
	}
	return out
}

func findOp(t *testing.T, ops []*Operation, name string) *Operation {
	t.Helper()
	for _, op := range ops {
		if op.Name() == name {
			return op
		}
	}
	t.Fatalf("operation %q not found in %v", name, names(ops))
	return nil
}
