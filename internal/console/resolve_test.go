package console

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectable_ExcludesManagedTypeWithoutInstance(t *testing.T) {
	finder := &fakeFinder{live: []*widget{{name: "one"}}}
	c := newTestConsole(t, finder, testCatalog(t, widgetModule("widgets")))

	withInstance := len(c.Selectable())
	assert.Contains(t, names(c.Selectable()), "poke")

	finder.live = nil
	without := c.Selectable()

	assert.Equal(t, withInstance-2, len(without), "poke and resize both need a live widget")
	assert.NotContains(t, names(without), "poke")
	assert.NotContains(t, names(without), "resize")
	assert.Contains(t, names(without), "bump", "unmanaged types are constructed on demand")
	assert.Len(t, c.Operations(), withInstance, "the full list is unaffected")
}

func TestSelectable_SingleManagedOperationDecreasesByOne(t *testing.T) {
	cat := testCatalog(t, Module{
		Name: "single",
		Declare: func(d *Declarations) {
			d.Method(Marker{Name: "poke"}, (*widget).Poke)
			d.Static(Marker{Name: "static"}, failing)
		},
	})
	finder := &fakeFinder{live: []*widget{{}}}
	c := newTestConsole(t, finder, cat)

	before := len(c.Selectable())
	finder.live = nil
	assert.Equal(t, before-1, len(c.Selectable()))
}

func TestResolve_FirstLiveInstance(t *testing.T) {
	first, second := &widget{name: "first"}, &widget{name: "second"}
	r := NewResolver(&fakeFinder{live: []*widget{first, second}})
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()

	recv, err := r.Resolve(findOp(t, d.Operations(), "poke"))
	require.NoError(t, err)
	assert.Same(t, first, recv.Interface())
}

func TestResolve_NoInstanceAtCallTime(t *testing.T) {
	finder := &fakeFinder{live: []*widget{{}}}
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()
	poke := findOp(t, d.Operations(), "poke")
	ctrl := NewController(NewResolver(finder))

	finder.live = nil
	err := ctrl.Select(context.Background(), poke)
	assert.ErrorIs(t, err, ErrUnresolvableTarget)
}

func TestResolve_FreshInstancePerInvocation(t *testing.T) {
	counterSeen = nil
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()
	bump := findOp(t, d.Operations(), "bump")
	ctrl := NewController(NewResolver(&fakeFinder{}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, ctrl.Select(ctx, bump))
		_, err := ctrl.EditField(0, "5")
		require.NoError(t, err)
		require.NoError(t, ctrl.Confirm(ctx))
		assert.Equal(t, []any{5}, ctrl.LastResult().Outputs, "state must not carry over between invocations")
	}

	require.Len(t, counterSeen, 2)
	assert.NotSame(t, counterSeen[0], counterSeen[1])
}

type greeter interface{ Greet() }

type valueReceiver struct{ n int }

func (v valueReceiver) Describe() string { return fmt.Sprintf("n=%d", v.n) }

func TestResolve_ReceiverShapes(t *testing.T) {
	r := NewResolver(nil)

	op, err := newOperation(valueReceiver.Describe, true, nil)
	require.NoError(t, err)
	assert.True(t, r.Resolvable(op))
	recv, err := r.Resolve(op)
	require.NoError(t, err)
	assert.Equal(t, valueReceiver{}, recv.Interface())

	op, err = newOperation(greeter.Greet, true, nil)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf((*greeter)(nil)).Elem(), op.Receiver())
	assert.False(t, r.Resolvable(op))
	_, err = r.Resolve(op)
	assert.ErrorIs(t, err, ErrUnresolvableTarget)
}
