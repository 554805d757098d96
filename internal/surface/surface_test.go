package surface

import (
	"errors"
	"testing"
)

func TestRegistryRegisterLookup(t *testing.T) {
	reg := NewRegistry()

	h := reg.Register("field", Layout{Left: 10, Top: 20, Width: 100, Height: 40})
	if h.IsZero() {
		t.Fatal("Register returned zero handle")
	}

	got, ok := reg.Lookup("field")
	if !ok || got != h {
		t.Errorf("Lookup(field) = (%v, %v), want (%v, true)", got, ok, h)
	}

	layout, ok := reg.Layout(h)
	if !ok || layout.Top != 20 {
		t.Errorf("Layout = (%+v, %v), want Top 20", layout, ok)
	}
}

func TestRegistryRelative(t *testing.T) {
	reg := NewRegistry()

	content := reg.Register("content", Layout{Left: 0, Top: 50, Width: 400, Height: 2000})
	field := reg.Register("field", Layout{Left: 20, Top: 650, Width: 360, Height: 44})

	rel, err := reg.Relative(field, content)
	if err != nil {
		t.Fatalf("Relative: %v", err)
	}
	if rel.Left != 20 || rel.Top != 600 || rel.Width != 360 || rel.Height != 44 {
		t.Errorf("Relative = %+v, want {20 600 360 44}", rel)
	}
}

func TestRegistryRelativeUnknown(t *testing.T) {
	reg := NewRegistry()
	h := reg.Register("only", Layout{})

	if _, err := reg.Relative(h, NewHandle()); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Relative with unknown base = %v, want ErrUnknownHandle", err)
	}
	if _, err := reg.Relative(NewHandle(), h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Relative with unknown target = %v, want ErrUnknownHandle", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	h := reg.Register("gone", Layout{})
	reg.Unregister(h)

	if _, ok := reg.Layout(h); ok {
		t.Error("Layout found after Unregister")
	}
	if _, ok := reg.Lookup("gone"); ok {
		t.Error("Lookup found after Unregister")
	}
}

func TestRecorderDispatch(t *testing.T) {
	rec := NewRecorder(NewRegistry())

	target := NewHandle()
	rec.DispatchCommand(target, CommandScrollTo, []any{0.0, 120.0, true})

	cmd, ok := rec.LastCommand()
	if !ok {
		t.Fatal("no command recorded")
	}
	if cmd.Command != CommandScrollTo || cmd.Target != target {
		t.Errorf("recorded %+v, want scrollTo on %v", cmd, target)
	}
	if len(rec.Commands()) != 1 {
		t.Errorf("Commands() length = %d, want 1", len(rec.Commands()))
	}

	rec.Reset()
	if _, ok := rec.LastCommand(); ok {
		t.Error("command survived Reset")
	}
}

func TestRecorderMeasureLayout(t *testing.T) {
	reg := NewRegistry()
	content := reg.Register("content", Layout{Top: 0, Height: 2000})
	field := reg.Register("field", Layout{Top: 700, Height: 44})

	rec := NewRecorder(reg)

	var measured Layout
	called := false
	rec.MeasureLayout(field, content, func(err error) {
		t.Fatalf("unexpected error: %v", err)
	}, func(l Layout) {
		called = true
		measured = l
	})

	if !called {
		t.Fatal("onSuccess not called")
	}
	if measured.Top != 700 {
		t.Errorf("measured Top = %g, want 700", measured.Top)
	}
}

func TestRecorderMeasureLayoutError(t *testing.T) {
	rec := NewRecorder(NewRegistry())

	var got error
	rec.MeasureLayout(NewHandle(), NewHandle(), func(err error) {
		got = err
	}, func(Layout) {
		t.Fatal("onSuccess called for unknown handles")
	})

	if !errors.Is(got, ErrUnknownHandle) {
		t.Errorf("error = %v, want ErrUnknownHandle", got)
	}
}

func TestRecorderCapabilities(t *testing.T) {
	rec := NewRecorder(NewRegistry(), WithCapabilities(Capabilities{Zoom: false}))
	if rec.Capabilities().Zoom {
		t.Error("Zoom capability should be disabled")
	}
}
