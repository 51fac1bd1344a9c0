package diary

import (
	"errors"
	"math"
)

var (
	ErrNoActiveGesture = errors.New("no active gesture on element")
	ErrInvalidGesture  = errors.New("invalid gesture value")
)

// Delta is the fused state of the pan, pinch and rotate streams of one
// gesture, each relative to gesture start.
type Delta struct {
	Pan      Point   `json:"pan"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"` // degrees
}

func identityDelta() Delta {
	return Delta{Scale: 1}
}

type gesturePhase int

const (
	gestureIdle gesturePhase = iota
	gestureActive
	gestureEnded
)

// gesture resolves every stream against the transform frozen at start, never
// against the previous frame. Each stream orders its own updates.
type gesture struct {
	phase    gesturePhase
	snapshot Transform
	delta    Delta
	panSeq   uint64
	scaleSeq uint64
	rotSeq   uint64
}

// accept reports whether an update with seq is newer than the last one
// applied on the stream whose counter is last. Zero means unsequenced and is
// always accepted.
func accept(last *uint64, seq uint64) bool {
	if seq == 0 {
		return true
	}
	if seq < *last {
		return false
	}
	*last = seq
	return true
}

func (e *Editor) compose(g *gesture) Transform {
	return Transform{
		Position: Point{
			X: g.snapshot.Position.X + g.delta.Pan.X,
			Y: g.snapshot.Position.Y + g.delta.Pan.Y,
		},
		Rotation: g.snapshot.Rotation + g.delta.Rotation,
		Scale:    e.clampScale(g.snapshot.Scale * g.delta.Scale),
	}
}

// moved reports whether the interaction went beyond tap slop on any stream.
func (e *Editor) moved(d Delta) bool {
	if math.Hypot(d.Pan.X, d.Pan.Y) > e.opts.TapSlop {
		return true
	}
	if math.Abs(d.Scale-1) > 0.02 {
		return true
	}
	return math.Abs(d.Rotation) > 2
}

// BeginGesture freezes the element's committed transform as the snapshot for
// a new interaction. A gesture still active on the element is committed first.
func (e *Editor) BeginGesture(id string) error {
	_, el := e.find(id)
	if el == nil {
		return ErrElementNotFound
	}
	if g, ok := e.gestures[id]; ok && g.phase == gestureActive {
		if _, err := e.EndGesture(id); err != nil {
			return err
		}
	}
	delete(e.suppressTap, id)
	e.gestures[id] = &gesture{
		phase:    gestureActive,
		snapshot: el.Transform,
		delta:    identityDelta(),
	}
	return nil
}

func (e *Editor) active(id string) (*gesture, error) {
	if _, el := e.find(id); el == nil {
		delete(e.gestures, id)
		return nil, ErrElementNotFound
	}
	g, ok := e.gestures[id]
	if !ok || g.phase != gestureActive {
		return nil, ErrNoActiveGesture
	}
	return g, nil
}

// Pan reports the translation since gesture start.
func (e *Editor) Pan(id string, seq uint64, dx, dy float64) error {
	g, err := e.active(id)
	if err != nil {
		return err
	}
	if accept(&g.panSeq, seq) {
		g.delta.Pan = Point{X: dx, Y: dy}
	}
	return nil
}

// Pinch reports the scale factor since gesture start.
func (e *Editor) Pinch(id string, seq uint64, factor float64) error {
	g, err := e.active(id)
	if err != nil {
		return err
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return ErrInvalidGesture
	}
	if accept(&g.scaleSeq, seq) {
		g.delta.Scale = factor
	}
	return nil
}

// Rotate reports the rotation in degrees since gesture start.
func (e *Editor) Rotate(id string, seq uint64, degrees float64) error {
	g, err := e.active(id)
	if err != nil {
		return err
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return ErrInvalidGesture
	}
	if accept(&g.rotSeq, seq) {
		g.delta.Rotation = degrees
	}
	return nil
}

type GestureOutcome string

const (
	// GestureCommitted means the live transform became the committed one.
	GestureCommitted GestureOutcome = "committed"
	// GestureDiscarded means the interaction stayed within tap slop, or was
	// cancelled, and the committed transform is unchanged.
	GestureDiscarded GestureOutcome = "discarded"
)

// EndGesture commits the live transform. Interactions that never left tap
// slop are discarded so a following tap can still toggle selection.
func (e *Editor) EndGesture(id string) (GestureOutcome, error) {
	g, err := e.active(id)
	if err != nil {
		return GestureDiscarded, err
	}
	g.phase = gestureEnded
	delete(e.gestures, id)

	if !e.moved(g.delta) {
		return GestureDiscarded, nil
	}

	live := e.compose(g)
	if err := e.UpdateElement(id, TransformPatch{
		Position: &live.Position,
		Rotation: &live.Rotation,
		Scale:    &live.Scale,
	}); err != nil {
		return GestureDiscarded, err
	}
	e.suppressTap[id] = true
	return GestureCommitted, nil
}

// CancelGesture drops the live overlay without committing.
func (e *Editor) CancelGesture(id string) error {
	g, err := e.active(id)
	if err != nil {
		return err
	}
	g.phase = gestureEnded
	delete(e.gestures, id)
	return nil
}

// Tap toggles selection of id. It reports false when a transform gesture is
// in progress on the element or has just been committed.
func (e *Editor) Tap(id string) (bool, error) {
	if _, el := e.find(id); el == nil {
		return false, ErrElementNotFound
	}
	if g, ok := e.gestures[id]; ok && g.phase == gestureActive {
		return false, nil
	}
	if e.suppressTap[id] {
		delete(e.suppressTap, id)
		return false, nil
	}
	if err := e.SelectElement(id); err != nil {
		return false, err
	}
	return true, nil
}

// Live returns the transform to render for id.
func (e *Editor) Live(id string) (Transform, error) {
	_, el := e.find(id)
	if el == nil {
		return Transform{}, ErrElementNotFound
	}
	if g, ok := e.gestures[id]; ok && g.phase == gestureActive {
		return e.compose(g), nil
	}
	return el.Transform, nil
}

// Committed returns the stored transform for id, ignoring any live overlay.
func (e *Editor) Committed(id string) (Transform, error) {
	_, el := e.find(id)
	if el == nil {
		return Transform{}, ErrElementNotFound
	}
	return el.Transform, nil
}
