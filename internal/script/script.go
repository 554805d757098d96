// Package script runs Lua scenario scripts against a responder session.
//
// Scripts drive the same Session as trace replay, but with control flow:
// loops, conditionals, and assertions. The Lua state is sandboxed to the
// base, table, string, and math libraries; the scenario API is exposed as a
// global `scroll` table. Scripts fail by raising errors (assert works).
package script

import (
	"errors"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/responder"
	"github.com/dshills/scrollkit/internal/session"
	"github.com/dshills/scrollkit/internal/surface"
)

// ErrScriptFailed wraps a Lua runtime error raised by a scenario.
var ErrScriptFailed = errors.New("scenario script failed")

// Engine runs scenario scripts against one session.
type Engine struct {
	sess *session.Session
	L    *lua.LState
}

// New creates an engine bound to the given session.
func New(sess *session.Session) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Safe libraries only. No io, no os, no package loading.
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}

	// Base brings file-loading entry points along; scenarios get none.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	e := &Engine{sess: sess, L: L}
	e.install()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// Run executes Lua source.
func (e *Engine) Run(source string) error {
	if err := e.L.DoString(source); err != nil {
		return fmt.Errorf("%w: %v", ErrScriptFailed, err)
	}
	return nil
}

// RunFile executes a Lua script from disk.
func (e *Engine) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return e.Run(string(data))
}

// install populates the global scroll table.
func (e *Engine) install() {
	mod := e.L.NewTable()

	fns := map[string]lua.LGFunction{
		"node":                e.luaNode,
		"advance":             e.luaAdvance,
		"touch_start":         e.nodeOp(func(name string) error { return e.sess.TouchStart(name) }),
		"touch_move":          e.nodeOp(func(name string) error { return e.sess.TouchMove(name) }),
		"touch_end":           e.luaTouchEnd,
		"touch_cancel":        e.nodeOp(func(name string) error { return e.sess.TouchCancel(name) }),
		"capture":             e.luaCapture,
		"bubble":              e.luaBubble,
		"grant":               e.nodeOp(func(name string) error { return e.sess.Grant(name) }),
		"release":             e.nodeOp(func(name string) error { return e.sess.Release(name) }),
		"termination_request": e.luaTerminationRequest,
		"scroll":              e.simpleOp(e.sess.Scroll),
		"drag_begin":          e.simpleOp(e.sess.DragBegin),
		"drag_end":            e.luaDragEnd,
		"momentum_begin":      e.simpleOp(e.sess.MomentumBegin),
		"momentum_end":        e.simpleOp(e.sess.MomentumEnd),
		"keyboard_show":       e.errOp(e.sess.ShowKeyboard),
		"keyboard_hide":       e.errOp(e.sess.HideKeyboard),
		"focus":               e.nodeOp(func(name string) error { return e.sess.FocusNode(name) }),
		"blur":                e.nodeOp(func(name string) error { return e.sess.BlurNode(name) }),
		"scroll_into_view":    e.luaScrollIntoView,
		"scroll_to":           e.luaScrollTo,
		"scroll_to_end":       e.simpleOp(func() { e.sess.Coordinator.ScrollToEnd() }),
		"flash":               e.simpleOp(e.sess.Coordinator.FlashScrollIndicators),
		"animating":           e.boolQuery(func() bool { return e.sess.Snapshot().Animating }),
		"touching":            e.boolQuery(func() bool { return e.sess.Snapshot().IsTouching }),
		"keyboard_visible":    e.boolQuery(func() bool { return e.sess.Snapshot().KeyboardVisible }),
		"focused":             e.luaFocused,
		"command_count":       e.luaCommandCount,
		"last_command":        e.luaLastCommand,
		"dismissals":          e.luaDismissals,
	}

	for name, fn := range fns {
		e.L.SetField(mod, name, e.L.NewFunction(fn))
	}

	e.L.SetGlobal("scroll", mod)
}

// nodeOp wraps a single-node-name operation.
func (e *Engine) nodeOp(op func(name string) error) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		if err := op(name); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}
}

// simpleOp wraps a no-argument operation.
func (e *Engine) simpleOp(op func()) lua.LGFunction {
	return func(*lua.LState) int {
		op()
		return 0
	}
}

// errOp wraps a no-argument operation that can fail.
func (e *Engine) errOp(op func() error) lua.LGFunction {
	return func(L *lua.LState) int {
		if err := op(); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}
}

// boolQuery wraps a boolean state query.
func (e *Engine) boolQuery(q func() bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(q()))
		return 1
	}
}

// luaNode registers a view node: scroll.node(name, {left, top, width,
// height, text_input}).
func (e *Engine) luaNode(L *lua.LState) int {
	name := L.CheckString(1)
	spec := L.CheckTable(2)

	layout := surface.Layout{
		Left:   fieldFloat(L, spec, "left"),
		Top:    fieldFloat(L, spec, "top"),
		Width:  fieldFloat(L, spec, "width"),
		Height: fieldFloat(L, spec, "height"),
	}
	textInput := lua.LVAsBool(L.GetField(spec, "text_input"))

	e.sess.RegisterNode(name, layout, textInput)
	return 0
}

// luaAdvance moves the virtual clock forward: scroll.advance(ms).
func (e *Engine) luaAdvance(L *lua.LState) int {
	ms := L.CheckNumber(1)
	if ms < 0 {
		L.ArgError(1, "cannot advance backward")
	}
	e.sess.Advance(time.Duration(float64(ms) * float64(time.Millisecond)))
	return 0
}

// luaTouchEnd dispatches touch-end: scroll.touch_end(name, remaining).
func (e *Engine) luaTouchEnd(L *lua.LState) int {
	name := L.CheckString(1)
	remaining := L.OptInt(2, 0)
	if err := e.sess.TouchEnd(name, remaining); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// luaCapture runs the capture-phase query: scroll.capture(name) -> bool.
func (e *Engine) luaCapture(L *lua.LState) int {
	name := L.CheckString(1)
	granted, err := e.sess.CaptureQuery(name)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LBool(granted))
	return 1
}

// luaBubble runs the bubble-phase query: scroll.bubble() -> bool.
func (e *Engine) luaBubble(L *lua.LState) int {
	L.Push(lua.LBool(e.sess.BubbleQuery()))
	return 1
}

// luaTerminationRequest asks the coordinator to yield: returns bool.
func (e *Engine) luaTerminationRequest(L *lua.LState) int {
	L.Push(lua.LBool(e.sess.TerminationRequest()))
	return 1
}

// luaDragEnd dispatches drag-end: scroll.drag_end([vx, vy]).
func (e *Engine) luaDragEnd(L *lua.LState) int {
	var velocity *geometry.Point
	if L.GetTop() >= 2 {
		velocity = &geometry.Point{
			X: float64(L.CheckNumber(1)),
			Y: float64(L.CheckNumber(2)),
		}
	}
	e.sess.DragEnd(velocity)
	return 0
}

// luaScrollIntoView scrolls a node clear of the keyboard:
// scroll.scroll_into_view(name, {additional_offset, prevent_negative}).
func (e *Engine) luaScrollIntoView(L *lua.LState) int {
	name := L.CheckString(1)

	var opts responder.ScrollIntoViewOptions
	if L.GetTop() >= 2 {
		spec := L.CheckTable(2)
		opts.AdditionalOffset = fieldFloat(L, spec, "additional_offset")
		opts.PreventNegativeOffset = lua.LVAsBool(L.GetField(spec, "prevent_negative"))
	}

	if err := e.sess.ScrollIntoView(name, opts); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// luaScrollTo issues a scroll command: scroll.scroll_to(x, y).
func (e *Engine) luaScrollTo(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	e.sess.Coordinator.ScrollTo(responder.ScrollToOptions{X: x, Y: y})
	return 0
}

// luaFocused returns the focused node name, or nil.
func (e *Engine) luaFocused(L *lua.LState) int {
	h, ok := e.sess.Focus.FocusedField()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(h)))
	return 1
}

// luaCommandCount returns how many commands were dispatched.
func (e *Engine) luaCommandCount(L *lua.LState) int {
	L.Push(lua.LNumber(len(e.sess.Commands())))
	return 1
}

// luaLastCommand returns the last command name and its y offset when it was
// a scrollTo, otherwise name and nil.
func (e *Engine) luaLastCommand(L *lua.LState) int {
	cmds := e.sess.Commands()
	if len(cmds) == 0 {
		L.Push(lua.LNil)
		L.Push(lua.LNil)
		return 2
	}

	last := cmds[len(cmds)-1]
	L.Push(lua.LString(string(last.Command)))

	if last.Command == surface.CommandScrollTo && len(last.Args) >= 2 {
		if y, ok := last.Args[1].(float64); ok {
			L.Push(lua.LNumber(y))
			return 2
		}
	}
	L.Push(lua.LNil)
	return 2
}

// luaDismissals returns how many keyboard dismissals were recorded.
func (e *Engine) luaDismissals(L *lua.LState) int {
	var n int
	for _, entry := range e.sess.Log() {
		if entry.Kind == "keyboardDismissed" {
			n++
		}
	}
	L.Push(lua.LNumber(n))
	return 1
}

func fieldFloat(L *lua.LState, t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(L.GetField(t, key)))
}
