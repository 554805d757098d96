package trace

import (
	"fmt"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/scrollkit/internal/responder"
	"github.com/dshills/scrollkit/internal/session"
)

// Replay runs a parsed trace through a fresh session and returns the JSON
// report. Steps execute in order; the virtual clock jumps to each step's
// timestamp before the step runs.
func Replay(tr *Trace) ([]byte, error) {
	s := session.New(tr.Opts)
	if err := s.Attach(); err != nil {
		return nil, err
	}
	defer s.Close()

	for _, n := range tr.Nodes {
		s.RegisterNode(n.Name, n.Layout, n.TextInput)
	}

	report := []byte(`{}`)
	report, _ = sjson.SetBytes(report, "name", tr.Name)

	var elapsed time.Duration
	for i, step := range tr.Steps {
		if step.At > elapsed {
			s.Advance(step.At - elapsed)
			elapsed = step.At
		}

		result, err := execute(s, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s at %v): %w", i, step.Op, step.At, err)
		}
		if result != "" {
			report, _ = sjson.SetBytes(report, "queries.-1", map[string]any{
				"step":   i,
				"op":     step.Op,
				"at_ms":  step.At.Milliseconds(),
				"result": result,
			})
		}
	}

	report, _ = sjson.SetBytes(report, "steps", len(tr.Steps))

	for _, cmd := range s.Commands() {
		report, _ = sjson.SetBytes(report, "commands.-1", map[string]any{
			"command": string(cmd.Command),
			"args":    cmd.Args,
		})
	}

	for _, entry := range s.Log() {
		item := map[string]any{
			"at_ms": entry.At.Milliseconds(),
			"kind":  entry.Kind,
		}
		if entry.Detail != "" {
			item["detail"] = entry.Detail
		}
		report, _ = sjson.SetBytes(report, "log.-1", item)
	}

	snap := s.Snapshot()
	report, _ = sjson.SetBytes(report, "final.touching", snap.IsTouching)
	report, _ = sjson.SetBytes(report, "final.animating", snap.Animating)
	report, _ = sjson.SetBytes(report, "final.observed_scroll", snap.ObservedScrollSinceGrant)
	report, _ = sjson.SetBytes(report, "final.became_responder_while_animating", snap.BecameResponderWhileAnimating)
	report, _ = sjson.SetBytes(report, "final.keyboard_visible", snap.KeyboardVisible)

	interactions := s.Interactions.Snapshot()
	report, _ = sjson.SetBytes(report, "interactions.begins", interactions.Begins)
	report, _ = sjson.SetBytes(report, "interactions.ends", interactions.Ends)

	return report, nil
}

// execute runs one step. Query operations return "true" or "false"; others
// return the empty string.
func execute(s *session.Session, step Step) (string, error) {
	switch step.Op {
	case "touchStart":
		return "", s.TouchStart(step.Node)
	case "touchMove":
		return "", s.TouchMove(step.Node)
	case "touchEnd":
		return "", s.TouchEnd(step.Node, step.Touches)
	case "touchCancel":
		return "", s.TouchCancel(step.Node)
	case "capture":
		granted, err := s.CaptureQuery(step.Node)
		return fmt.Sprintf("%v", granted), err
	case "bubble":
		return fmt.Sprintf("%v", s.BubbleQuery()), nil
	case "grant":
		return "", s.Grant(step.Node)
	case "release":
		return "", s.Release(step.Node)
	case "terminationRequest":
		return fmt.Sprintf("%v", s.TerminationRequest()), nil
	case "scroll":
		s.Scroll()
		return "", nil
	case "dragBegin":
		s.DragBegin()
		return "", nil
	case "dragEnd":
		s.DragEnd(step.Velocity)
		return "", nil
	case "momentumBegin":
		s.MomentumBegin()
		return "", nil
	case "momentumEnd":
		s.MomentumEnd()
		return "", nil
	case "keyboardShow":
		return "", s.ShowKeyboard()
	case "keyboardHide":
		return "", s.HideKeyboard()
	case "focus":
		return "", s.FocusNode(step.Node)
	case "blur":
		return "", s.BlurNode(step.Node)
	case "scrollIntoView":
		return "", s.ScrollIntoView(step.Node, responder.ScrollIntoViewOptions{
			AdditionalOffset:      step.AdditionalOffset,
			PreventNegativeOffset: step.PreventNegative,
		})
	case "scrollTo":
		s.Coordinator.ScrollTo(responder.ScrollToOptions{X: step.X, Y: step.Y})
		return "", nil
	case "scrollToEnd":
		s.Coordinator.ScrollToEnd()
		return "", nil
	case "flash":
		s.Coordinator.FlashScrollIndicators()
		return "", nil
	default:
		return "", fmt.Errorf("%w: unknown op %q", ErrInvalidTrace, step.Op)
	}
}
