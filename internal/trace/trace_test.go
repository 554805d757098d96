package trace

import (
	"errors"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const tapDismissTrace = `{
  "name": "tap away dismisses keyboard",
  "screen": {"width": 400, "height": 800},
  "keyboard_height": 300,
  "persist_taps": "never",
  "nodes": [
    {"name": "field", "left": 20, "top": 520, "width": 360, "height": 40, "text_input": true},
    {"name": "plainView", "left": 20, "top": 100, "width": 360, "height": 200}
  ],
  "steps": [
    {"at_ms": 0, "op": "focus", "node": "field"},
    {"at_ms": 100, "op": "touchStart", "node": "plainView"},
    {"at_ms": 100, "op": "capture", "node": "plainView"},
    {"at_ms": 100, "op": "grant", "node": "plainView"},
    {"at_ms": 180, "op": "touchEnd", "node": "plainView", "touches": 0},
    {"at_ms": 180, "op": "release", "node": "plainView"}
  ]
}`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(tapDismissTrace))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tr.Name != "tap away dismisses keyboard" {
		t.Errorf("name = %q", tr.Name)
	}
	if len(tr.Nodes) != 2 || !tr.Nodes[0].TextInput || tr.Nodes[1].TextInput {
		t.Errorf("nodes = %+v", tr.Nodes)
	}
	if len(tr.Steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(tr.Steps))
	}
	if tr.Steps[4].At != 180*time.Millisecond || tr.Steps[4].Touches != 0 {
		t.Errorf("step 4 = %+v", tr.Steps[4])
	}
	if tr.Opts.Screen.Height != 800 || tr.Opts.KeyboardHeight != 300 {
		t.Errorf("opts = %+v", tr.Opts)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"malformed JSON", `{"steps": [`, ErrInvalidTrace},
		{"no steps", `{"name": "x", "steps": []}`, ErrNoSteps},
		{"missing op", `{"steps": [{"at_ms": 0}]}`, ErrInvalidTrace},
		{"time moving backward", `{"steps": [{"at_ms": 10, "op": "scroll"}, {"at_ms": 5, "op": "scroll"}]}`, ErrInvalidTrace},
		{"bad persist taps", `{"persist_taps": "sometimes", "steps": [{"at_ms": 0, "op": "scroll"}]}`, ErrInvalidTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReplayTapDismiss(t *testing.T) {
	tr, err := Parse([]byte(tapDismissTrace))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	report, err := Replay(tr)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	doc := gjson.ParseBytes(report)

	if got := doc.Get("queries.0.result").String(); got != "true" {
		t.Errorf("capture query = %q, want true", got)
	}
	if doc.Get("final.keyboard_visible").Bool() {
		t.Error("keyboard should be dismissed at end of trace")
	}

	var sawDismissal bool
	for _, entry := range doc.Get("log").Array() {
		if entry.Get("kind").String() == "keyboardDismissed" {
			sawDismissal = true
		}
	}
	if !sawDismissal {
		t.Errorf("no dismissal in log: %s", report)
	}
}

func TestReplayMomentumCapture(t *testing.T) {
	const momentumTrace = `{
  "name": "grab decelerating surface",
  "steps": [
    {"at_ms": 0, "op": "momentumBegin"},
    {"at_ms": 300, "op": "momentumEnd"},
    {"at_ms": 310, "op": "capture", "node": "scrollView"},
    {"at_ms": 340, "op": "capture", "node": "scrollView"}
  ]
}`

	tr, err := Parse([]byte(momentumTrace))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	report, err := Replay(tr)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	doc := gjson.ParseBytes(report)

	if got := doc.Get("queries.0.result").String(); got != "true" {
		t.Errorf("capture 10ms after momentum end = %q, want true", got)
	}
	if got := doc.Get("queries.1.result").String(); got != "false" {
		t.Errorf("capture 40ms after momentum end = %q, want false", got)
	}
}

func TestReplayScrollIntoView(t *testing.T) {
	const intoViewTrace = `{
  "name": "scroll field above keyboard",
  "nodes": [
    {"name": "field", "left": 20, "top": 700, "width": 360, "height": 40, "text_input": true}
  ],
  "steps": [
    {"at_ms": 0, "op": "focus", "node": "field"},
    {"at_ms": 50, "op": "scrollIntoView", "node": "field", "additional_offset": 10}
  ]
}`

	tr, err := Parse([]byte(intoViewTrace))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	report, err := Replay(tr)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	doc := gjson.ParseBytes(report)

	cmds := doc.Get("commands").Array()
	if len(cmds) != 1 {
		t.Fatalf("commands = %s, want one", doc.Get("commands").Raw)
	}
	// Keyboard top 500: offset is 700-500+40+10 = 250.
	if y := cmds[0].Get("args.1").Float(); y != 250 {
		t.Fatalf("scrollTo y = %v, want 250", y)
	}
}

func TestReplayUnknownOp(t *testing.T) {
	tr := &Trace{Steps: []Step{{Op: "teleport"}}}
	if _, err := Replay(tr); !errors.Is(err, ErrInvalidTrace) {
		t.Fatalf("err = %v, want ErrInvalidTrace", err)
	}
}
