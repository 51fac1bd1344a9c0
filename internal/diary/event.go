package diary

import (
	"errors"
	"fmt"
)

type Phase string

const (
	PhaseBegin  Phase = "begin"
	PhaseUpdate Phase = "update"
	PhaseEnd    Phase = "end"
	PhaseCancel Phase = "cancel"
	PhaseTap    Phase = "tap"
)

// GestureEvent is one item of a touch stream. Update events carry any subset
// of the three streams.
type GestureEvent struct {
	ElementID string   `json:"element_id" validate:"required"`
	Phase     Phase    `json:"phase" validate:"required,oneof=begin update end cancel tap"`
	Seq       uint64   `json:"seq,omitempty"`
	Pan       *Point   `json:"pan,omitempty"`
	Scale     *float64 `json:"scale,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
}

type GestureResult struct {
	ElementID string         `json:"element_id"`
	Phase     Phase          `json:"phase"`
	Outcome   GestureOutcome `json:"outcome,omitempty"`
	Tapped    bool           `json:"tapped,omitempty"`
	NotFound  bool           `json:"not_found,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Apply routes one event to the gesture methods. Unknown elements and
// missing gestures are reported in the result, not returned as errors, so a
// batch keeps going after an element was deleted through another path.
func (e *Editor) Apply(ev GestureEvent) GestureResult {
	res := GestureResult{ElementID: ev.ElementID, Phase: ev.Phase}

	var err error
	switch ev.Phase {
	case PhaseBegin:
		err = e.BeginGesture(ev.ElementID)
	case PhaseUpdate:
		err = e.applyUpdate(ev)
	case PhaseEnd:
		res.Outcome, err = e.EndGesture(ev.ElementID)
	case PhaseCancel:
		err = e.CancelGesture(ev.ElementID)
		if err == nil {
			res.Outcome = GestureDiscarded
		}
	case PhaseTap:
		res.Tapped, err = e.Tap(ev.ElementID)
	default:
		err = fmt.Errorf("unknown gesture phase %q", ev.Phase)
	}

	if err != nil {
		if errors.Is(err, ErrElementNotFound) {
			res.NotFound = true
		}
		res.Error = err.Error()
	}
	return res
}

func (e *Editor) applyUpdate(ev GestureEvent) error {
	if ev.Pan != nil {
		if err := e.Pan(ev.ElementID, ev.Seq, ev.Pan.X, ev.Pan.Y); err != nil {
			return err
		}
	}
	if ev.Scale != nil {
		if err := e.Pinch(ev.ElementID, ev.Seq, *ev.Scale); err != nil {
			return err
		}
	}
	if ev.Rotation != nil {
		if err := e.Rotate(ev.ElementID, ev.Seq, *ev.Rotation); err != nil {
			return err
		}
	}
	return nil
}
