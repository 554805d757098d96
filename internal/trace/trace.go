// Package trace replays recorded interaction traces through a responder
// session. A trace is a JSON document naming the simulated screen, the view
// nodes, and a timestamped step list; replay drives the coordinator on a
// virtual clock and produces a JSON report of query results, dispatched
// commands, and the final state.
package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/responder"
	"github.com/dshills/scrollkit/internal/session"
	"github.com/dshills/scrollkit/internal/surface"
)

// Sentinel errors.
var (
	// ErrInvalidTrace is returned for malformed JSON.
	ErrInvalidTrace = errors.New("invalid trace JSON")

	// ErrNoSteps is returned for a trace with an empty step list.
	ErrNoSteps = errors.New("trace has no steps")
)

// NodeSpec declares one view node registered before replay.
type NodeSpec struct {
	Name      string
	Layout    surface.Layout
	TextInput bool
}

// Step is one timestamped operation.
type Step struct {
	// At is the virtual time offset from the start of the trace.
	At time.Duration

	// Op is the operation name.
	Op string

	// Node is the target node name, for operations that take one.
	Node string

	// Touches is the remaining-touch count for touchEnd.
	Touches int

	// Velocity is the drag-end velocity, when present.
	Velocity *geometry.Point

	// X, Y are scroll offsets for scrollTo.
	X, Y float64

	// AdditionalOffset and PreventNegative parameterize scrollIntoView.
	AdditionalOffset float64
	PreventNegative  bool
}

// Trace is a parsed interaction trace.
type Trace struct {
	Name  string
	Opts  session.Options
	Nodes []NodeSpec
	Steps []Step
}

// Parse decodes a JSON trace.
func Parse(data []byte) (*Trace, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidTrace
	}
	doc := gjson.ParseBytes(data)

	tr := &Trace{
		Name: doc.Get("name").String(),
		Opts: session.Options{
			KeyboardHeight: doc.Get("keyboard_height").Float(),
			SettleWindow:   time.Duration(doc.Get("settle_window_ms").Int()) * time.Millisecond,
		},
	}

	if screen := doc.Get("screen"); screen.Exists() {
		tr.Opts.Screen = geometry.Size{
			Width:  screen.Get("width").Float(),
			Height: screen.Get("height").Float(),
		}
	}

	if pt := doc.Get("persist_taps"); pt.Exists() {
		policy, _, err := responder.ParsePersistTaps(pt.Value())
		if err != nil {
			return nil, fmt.Errorf("%w: persist_taps %q", ErrInvalidTrace, pt.String())
		}
		tr.Opts.PersistTaps = policy
	}
	tr.Opts.PanResponderDisabled = doc.Get("pan_responder_disabled").Bool()

	for _, n := range doc.Get("nodes").Array() {
		tr.Nodes = append(tr.Nodes, NodeSpec{
			Name: n.Get("name").String(),
			Layout: surface.Layout{
				Left:   n.Get("left").Float(),
				Top:    n.Get("top").Float(),
				Width:  n.Get("width").Float(),
				Height: n.Get("height").Float(),
			},
			TextInput: n.Get("text_input").Bool(),
		})
	}

	steps := doc.Get("steps").Array()
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	var lastAt time.Duration
	for i, raw := range steps {
		step, err := parseStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if step.At < lastAt {
			return nil, fmt.Errorf("%w: step %d moves backward in time", ErrInvalidTrace, i)
		}
		lastAt = step.At
		tr.Steps = append(tr.Steps, step)
	}

	return tr, nil
}

func parseStep(raw gjson.Result) (Step, error) {
	op := raw.Get("op").String()
	if op == "" {
		return Step{}, fmt.Errorf("%w: missing op", ErrInvalidTrace)
	}

	step := Step{
		At:               time.Duration(raw.Get("at_ms").Float() * float64(time.Millisecond)),
		Op:               op,
		Node:             raw.Get("node").String(),
		Touches:          int(raw.Get("touches").Int()),
		X:                raw.Get("x").Float(),
		Y:                raw.Get("y").Float(),
		AdditionalOffset: raw.Get("additional_offset").Float(),
		PreventNegative:  raw.Get("prevent_negative").Bool(),
	}

	if v := raw.Get("velocity"); v.Exists() {
		step.Velocity = &geometry.Point{
			X: v.Get("x").Float(),
			Y: v.Get("y").Float(),
		}
	}

	return step, nil
}
