package diary

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Affordance is the "add" panel the toolbar currently shows.
type Affordance string

const (
	AffordanceNone    Affordance = ""
	AffordanceText    Affordance = "text"
	AffordanceSticker Affordance = "sticker"
)

// Controls is the toolbar mode implied by the selection.
type Controls string

const (
	ControlsAdd    Controls = "add"
	ControlsDelete Controls = "delete"
)

type EditorOptions struct {
	// Anchor is where new elements are placed.
	Anchor Point
	// MinScale and MaxScale bound element scale. Zero disables the bound.
	MinScale float64
	MaxScale float64
	// TapSlop is the pan distance below which an interaction does not count
	// as a transform.
	TapSlop float64
	NewID   func() string
}

// DefaultEditorOptions anchors new elements at the canvas center.
func DefaultEditorOptions(canvasWidth, canvasHeight float64) EditorOptions {
	return EditorOptions{
		Anchor:   Point{X: canvasWidth / 2, Y: canvasHeight / 2},
		MinScale: 0.3,
		MaxScale: 3.0,
		TapSlop:  10,
	}
}

// Editor owns one Scene. It is not safe for concurrent use; Sessions
// serialises access.
type Editor struct {
	opts       EditorOptions
	elements   []*Element
	selected   string
	affordance Affordance

	gestures    map[string]*gesture
	suppressTap map[string]bool
}

func NewEditor(opts EditorOptions) *Editor {
	if opts.NewID == nil {
		opts.NewID = func() string { return ulid.Make().String() }
	}
	return &Editor{
		opts:        opts,
		gestures:    make(map[string]*gesture),
		suppressTap: make(map[string]bool),
	}
}

func (e *Editor) find(id string) (int, *Element) {
	for i, el := range e.elements {
		if el.ID == id {
			return i, el
		}
	}
	return -1, nil
}

func (e *Editor) clampScale(s float64) float64 {
	if e.opts.MinScale > 0 && s < e.opts.MinScale {
		return e.opts.MinScale
	}
	if e.opts.MaxScale > 0 && s > e.opts.MaxScale {
		return e.opts.MaxScale
	}
	return s
}

// OpenAffordance shows an add panel. Adding an element closes it.
func (e *Editor) OpenAffordance(a Affordance) {
	e.affordance = a
}

func (e *Editor) Affordance() Affordance {
	return e.affordance
}

func (e *Editor) AddElement(kind Kind, content string, style *Style) (Element, error) {
	if !kind.Valid() {
		return Element{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if content == "" {
		return Element{}, ErrEmptyContent
	}

	el := &Element{
		ID:      e.opts.NewID(),
		Kind:    kind,
		Content: content,
		Transform: Transform{
			Position: e.opts.Anchor,
			Scale:    1,
		},
	}
	if kind == KindText {
		s := style.WithDefaults()
		el.Style = &s
	}

	e.elements = append(e.elements, el)
	e.affordance = AffordanceNone
	return el.clone(), nil
}

// UpdateElement merges the set fields of patch into the element.
func (e *Editor) UpdateElement(id string, patch TransformPatch) error {
	_, el := e.find(id)
	if el == nil {
		return ErrElementNotFound
	}
	if patch.Scale != nil {
		if *patch.Scale <= 0 {
			return fmt.Errorf("%w: scale %v", ErrInvalidGesture, *patch.Scale)
		}
		s := e.clampScale(*patch.Scale)
		patch.Scale = &s
	}
	el.apply(patch)
	return nil
}

func (e *Editor) DeleteElement(id string) error {
	i, el := e.find(id)
	if el == nil {
		return ErrElementNotFound
	}
	e.elements = append(e.elements[:i], e.elements[i+1:]...)
	delete(e.gestures, id)
	delete(e.suppressTap, id)
	if e.selected == id {
		e.selected = ""
	}
	return nil
}

// SelectElement points the selection at id. Selecting the selected element
// again, or passing an empty id, deselects.
func (e *Editor) SelectElement(id string) error {
	if id == "" || id == e.selected {
		e.selected = ""
		return nil
	}
	if _, el := e.find(id); el == nil {
		return ErrElementNotFound
	}
	e.selected = id
	return nil
}

func (e *Editor) ClearSelection() {
	e.selected = ""
}

func (e *Editor) Selected() (string, bool) {
	return e.selected, e.selected != ""
}

func (e *Editor) Controls() Controls {
	if e.selected != "" {
		return ControlsDelete
	}
	return ControlsAdd
}

func (e *Editor) Element(id string) (Element, error) {
	_, el := e.find(id)
	if el == nil {
		return Element{}, ErrElementNotFound
	}
	return el.clone(), nil
}

// Elements returns the committed elements in z-order.
func (e *Editor) Elements() []Element {
	out := make([]Element, len(e.elements))
	for i, el := range e.elements {
		out[i] = el.clone()
	}
	return out
}

func (e *Editor) Len() int {
	return len(e.elements)
}

// Load replaces the scene with previously saved elements.
func (e *Editor) Load(elements []Element) error {
	seen := make(map[string]bool, len(elements))
	loaded := make([]*Element, 0, len(elements))
	for _, el := range elements {
		if el.ID == "" || seen[el.ID] {
			return fmt.Errorf("duplicate or empty element id %q", el.ID)
		}
		if !el.Kind.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidKind, el.Kind)
		}
		if el.Scale <= 0 {
			el.Scale = 1
		}
		seen[el.ID] = true
		c := el.clone()
		loaded = append(loaded, &c)
	}

	e.elements = loaded
	e.selected = ""
	e.affordance = AffordanceNone
	e.gestures = make(map[string]*gesture)
	e.suppressTap = make(map[string]bool)
	return nil
}

// ElementView is an element as rendered: committed transform plus the live
// overlay of an in-progress gesture.
type ElementView struct {
	Element
	Live     *Transform `json:"live,omitempty"`
	Selected bool       `json:"selected"`
}

type SceneView struct {
	Elements   []ElementView `json:"elements"`
	Selected   string        `json:"selected,omitempty"`
	Affordance Affordance    `json:"affordance,omitempty"`
	Controls   Controls      `json:"controls"`
}

func (e *Editor) View() SceneView {
	view := SceneView{
		Elements:   make([]ElementView, 0, len(e.elements)),
		Selected:   e.selected,
		Affordance: e.affordance,
		Controls:   e.Controls(),
	}
	for _, el := range e.elements {
		ev := ElementView{Element: el.clone(), Selected: el.ID == e.selected}
		if g, ok := e.gestures[el.ID]; ok {
			live := e.compose(g)
			ev.Live = &live
		}
		view.Elements = append(view.Elements, ev)
	}
	return view
}
