package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_ZeroParamsInvokesOnce(t *testing.T) {
	calls := 0
	reg := NewRegistry()
	require.True(t, reg.Register("ping", "ping", "", nil, func() { calls++ }))

	ctrl := NewController(NewResolver(nil))
	require.NoError(t, ctrl.Select(context.Background(), reg.Get("ping")))

	assert.Equal(t, 1, calls)
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Nil(t, ctrl.Pending())
}

func TestSelect_ParameterizedOpensDefaultedForm(t *testing.T) {
	w := &widget{}
	ctrl := NewController(NewResolver(&fakeFinder{live: []*widget{w}}))
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()

	require.NoError(t, ctrl.Select(context.Background(), findOp(t, d.Operations(), "resize")))

	require.Equal(t, StateCollecting, ctrl.State())
	p := ctrl.Pending()
	require.NotNil(t, p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"0", "0", "", "False"}, p.Inputs())
	assert.Equal(t, []any{0, 0.0, "", false}, p.Values())
	assert.Empty(t, w.calls, "nothing runs until confirm")
}

func TestCancel_DoesNotLeakEdits(t *testing.T) {
	w := &widget{}
	ctrl := NewController(NewResolver(&fakeFinder{live: []*widget{w}}))
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()
	resize := findOp(t, d.Operations(), "resize")
	ctx := context.Background()

	require.NoError(t, ctrl.Select(ctx, resize))
	_, err := ctrl.EditField(0, "12")
	require.NoError(t, err)
	_, err = ctrl.EditField(2, "label")
	require.NoError(t, err)

	ctrl.Cancel()
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Empty(t, w.calls)

	require.NoError(t, ctrl.Select(ctx, resize))
	assert.Equal(t, []string{"0", "0", "", "False"}, ctrl.Pending().Inputs())
}

func TestConfirm_PassesCoercedArgsInOrder(t *testing.T) {
	w := &widget{}
	ctrl := NewController(NewResolver(&fakeFinder{live: []*widget{w}}))
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()
	ctx := context.Background()

	require.NoError(t, ctrl.Select(ctx, findOp(t, d.Operations(), "resize")))

	display, err := ctrl.EditField(0, "4x2")
	require.NoError(t, err)
	assert.Equal(t, "42", display)
	display, err = ctrl.EditField(1, "1.5em")
	require.NoError(t, err)
	assert.Equal(t, "1.5", display)
	_, err = ctrl.EditField(2, "big one")
	require.NoError(t, err)
	require.NoError(t, ctrl.Toggle(3))
	assert.Equal(t, "True", ctrl.Pending().Inputs()[3])

	require.NoError(t, ctrl.Confirm(ctx))

	assert.Equal(t, []string{"resize 42 1.50 big one true"}, w.calls)
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Nil(t, ctrl.Pending())
}

func TestEditField_FallsBackToZeroNotLastGood(t *testing.T) {
	reg := NewRegistry()
	var got int
	require.True(t, reg.Register("set", "set", "", nil, func(n int) { got = n }))
	ctrl := NewController(NewResolver(nil))
	ctx := context.Background()

	require.NoError(t, ctrl.Select(ctx, reg.Get("set")))
	_, err := ctrl.EditField(0, "55")
	require.NoError(t, err)
	display, err := ctrl.EditField(0, "abc")
	require.NoError(t, err)
	assert.Equal(t, "", display)
	assert.Equal(t, []any{0}, ctrl.Pending().Values())

	require.NoError(t, ctrl.Confirm(ctx))
	assert.Equal(t, 0, got)
}

func TestSelectWhileCollectingDiscardsPending(t *testing.T) {
	reg := NewRegistry()
	var got []int
	require.True(t, reg.Register("a", "a", "", nil, func(n int) { got = append(got, n) }))
	require.True(t, reg.Register("b", "b", "", nil, func(s string) {}))
	ctrl := NewController(NewResolver(nil))
	ctx := context.Background()

	require.NoError(t, ctrl.Select(ctx, reg.Get("a")))
	_, err := ctrl.EditField(0, "9")
	require.NoError(t, err)
	first := ctrl.Pending()

	require.NoError(t, ctrl.Select(ctx, reg.Get("b")))
	assert.NotSame(t, first, ctrl.Pending())
	assert.Equal(t, "b", ctrl.Pending().Operation.Name())
	assert.Empty(t, got)

	require.NoError(t, ctrl.Select(ctx, reg.Get("a")))
	assert.Equal(t, []string{"0"}, ctrl.Pending().Inputs())
}

func TestFormErrors(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Register("n", "n", "", nil, func(n int) {}))
	ctrl := NewController(NewResolver(nil))

	_, err := ctrl.EditField(0, "1")
	assert.ErrorIs(t, err, ErrNoPending)
	assert.ErrorIs(t, ctrl.Confirm(context.Background()), ErrNoPending)
	assert.ErrorIs(t, ctrl.Select(context.Background(), nil), ErrNilOperation)

	require.NoError(t, ctrl.Select(context.Background(), reg.Get("n")))
	_, err = ctrl.EditField(3, "1")
	assert.ErrorIs(t, err, ErrFieldIndex)
	assert.ErrorIs(t, ctrl.Toggle(0), ErrNotToggle)
	assert.ErrorIs(t, ctrl.SetBool(0, true), ErrNotToggle)
}

func TestInvocationFailurePropagates(t *testing.T) {
	d := NewDiscovery(testCatalog(t, widgetModule("widgets")), nil)
	d.Refresh()
	ctrl := NewController(NewResolver(nil))

	var hooked []Result
	ctrl.OnInvoke(func(r Result) { hooked = append(hooked, r) })

	err := ctrl.Select(context.Background(), findOp(t, d.Operations(), "fail"))
	assert.ErrorIs(t, err, errBoom)
	require.Len(t, hooked, 1)
	assert.ErrorIs(t, hooked[0].Err, errBoom)
	assert.Same(t, ctrl.LastResult().Operation, hooked[0].Operation)
}

func TestPanicsAreNotRecovered(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Register("panic", "panic", "", nil, func() { panic("kaboom") }))
	ctrl := NewController(NewResolver(nil))

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = ctrl.Select(context.Background(), reg.Get("panic"))
	})
}

func TestContextIsInjected(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Register("ctx", "ctx", "", nil, withContext))
	op := reg.Get("ctx")
	require.Equal(t, 1, op.Arity(), "context is not a form field")

	ctrl := NewController(NewResolver(nil))
	ctx := context.Background()
	require.NoError(t, ctrl.Select(ctx, op))
	_, err := ctrl.EditField(0, "7")
	require.NoError(t, err)
	require.NoError(t, ctrl.Confirm(ctx))

	assert.Equal(t, []any{"n=7"}, ctrl.LastResult().Outputs)
}
