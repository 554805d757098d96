package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/scrollkit/internal/session"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()

	sess := session.New(session.Options{})
	if err := sess.Attach(); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(sess.Close)

	e := New(sess)
	t.Cleanup(e.Close)
	return e
}

func TestTapDismissScenario(t *testing.T) {
	e := newEngine(t)

	err := e.Run(`
scroll.node("field", {left = 20, top = 520, width = 360, height = 40, text_input = true})
scroll.node("plainView", {left = 20, top = 100, width = 360, height = 200})

scroll.focus("field")
assert(scroll.keyboard_visible(), "keyboard should open on focus")

scroll.advance(100)
scroll.touch_start("plainView")
assert(scroll.capture("plainView"), "tap away should be captured")
scroll.grant("plainView")
scroll.advance(80)
scroll.touch_end("plainView", 0)
scroll.release("plainView")

assert(scroll.focused() == nil, "field should be blurred")
assert(scroll.dismissals() == 1, "expected exactly one dismissal")
`)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
}

func TestMomentumScenarioWithLoop(t *testing.T) {
	e := newEngine(t)

	err := e.Run(`
scroll.momentum_begin()
scroll.advance(300)
scroll.momentum_end()

-- Walk time forward 1ms at a time; the animating window must close at 16ms.
local closed_at = nil
for ms = 0, 30 do
  if not scroll.animating() then
    closed_at = ms
    break
  end
  scroll.advance(1)
end
assert(closed_at == 16, "window closed at " .. tostring(closed_at))
`)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
}

func TestScrollIntoViewScenario(t *testing.T) {
	e := newEngine(t)

	err := e.Run(`
scroll.node("field", {left = 20, top = 700, width = 360, height = 40, text_input = true})
scroll.focus("field")
scroll.scroll_into_view("field", {additional_offset = 10})

local name, y = scroll.last_command()
assert(name == "scrollTo", "command was " .. tostring(name))
assert(y == 250, "offset was " .. tostring(y))
`)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
}

func TestFailingAssertionReportsError(t *testing.T) {
	e := newEngine(t)

	err := e.Run(`assert(scroll.touching(), "no touch is down")`)
	if !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("err = %v, want ErrScriptFailed", err)
	}
}

func TestUnknownNodeRaises(t *testing.T) {
	e := newEngine(t)

	if err := e.Run(`scroll.touch_start("ghost")`); !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("err = %v, want ErrScriptFailed", err)
	}
}

func TestSandboxBlocksIO(t *testing.T) {
	e := newEngine(t)

	if err := e.Run(`io.open("/etc/passwd")`); err == nil {
		t.Fatal("io should not be available to scenarios")
	}
	if err := e.Run(`os.getenv("HOME")`); err == nil {
		t.Fatal("os should not be available to scenarios")
	}
}

func TestRunFile(t *testing.T) {
	e := newEngine(t)

	path := filepath.Join(t.TempDir(), "scenario.lua")
	content := `
scroll.drag_begin()
scroll.advance(50)
scroll.drag_end(0, 0)
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}

	if err := e.RunFile(path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if err := e.RunFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatal("missing script file should error")
	}
}
