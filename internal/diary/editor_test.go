package diary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCenter = Point{X: 195, Y: 422}

func newTestEditor() *Editor {
	return NewEditor(DefaultEditorOptions(390, 844))
}

func ptr[T any](v T) *T { return &v }

func TestAddElement_Defaults(t *testing.T) {
	e := newTestEditor()

	el, err := e.AddElement(KindSticker, "🐢", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, el.ID)
	assert.Equal(t, KindSticker, el.Kind)
	assert.Equal(t, testCenter, el.Position)
	assert.Equal(t, 0.0, el.Rotation)
	assert.Equal(t, 1.0, el.Scale)
	assert.Nil(t, el.Style, "stickers carry no style")
	assert.Equal(t, 1, e.Len())
}

func TestAddElement_TextStyleDefaults(t *testing.T) {
	e := newTestEditor()

	el, err := e.AddElement(KindText, "문섬 다이빙", &Style{Color: "#0288D1"})
	require.NoError(t, err)
	require.NotNil(t, el.Style)
	assert.Equal(t, "#0288D1", el.Style.Color)
	assert.Equal(t, float64(DefaultFontSize), el.Style.FontSize)
	assert.Equal(t, DefaultFontWeight, el.Style.FontWeight)

	plain, err := e.AddElement(KindText, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTextColor, plain.Style.Color)
}

func TestAddElement_Rejects(t *testing.T) {
	e := newTestEditor()

	_, err := e.AddElement(Kind("video"), "x", nil)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = e.AddElement(KindText, "", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	assert.Equal(t, 0, e.Len())
}

func TestAddElement_ClosesAffordance(t *testing.T) {
	e := newTestEditor()
	e.OpenAffordance(AffordanceSticker)
	assert.Equal(t, AffordanceSticker, e.Affordance())

	_, err := e.AddElement(KindSticker, "🐙", nil)
	require.NoError(t, err)
	assert.Equal(t, AffordanceNone, e.Affordance())
}

func TestAddElement_UniqueIDs(t *testing.T) {
	e := newTestEditor()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		el, err := e.AddElement(KindSticker, "🐠", nil)
		require.NoError(t, err)
		require.False(t, seen[el.ID], "duplicate id %s", el.ID)
		seen[el.ID] = true
	}
}

func TestElements_InsertionOrder(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(KindSticker, "🐠", nil)
	b, _ := e.AddElement(KindText, "hi", nil)
	c, _ := e.AddElement(KindPhoto, "https://cdn.example.com/p.jpg", nil)

	els := e.Elements()
	require.Len(t, els, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{els[0].ID, els[1].ID, els[2].ID})
}

func TestUpdateElement(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(KindSticker, "🦈", nil)

	t.Run("MergesSubset", func(t *testing.T) {
		require.NoError(t, e.UpdateElement(el.ID, TransformPatch{Rotation: ptr(45.0)}))
		got, err := e.Element(el.ID)
		require.NoError(t, err)
		assert.Equal(t, 45.0, got.Rotation)
		assert.Equal(t, testCenter, got.Position)
		assert.Equal(t, 1.0, got.Scale)
	})

	t.Run("ClampsScale", func(t *testing.T) {
		require.NoError(t, e.UpdateElement(el.ID, TransformPatch{Scale: ptr(10.0)}))
		got, _ := e.Element(el.ID)
		assert.Equal(t, 3.0, got.Scale)

		require.NoError(t, e.UpdateElement(el.ID, TransformPatch{Scale: ptr(0.01)}))
		got, _ = e.Element(el.ID)
		assert.Equal(t, 0.3, got.Scale)
	})

	t.Run("RejectsNonPositiveScale", func(t *testing.T) {
		err := e.UpdateElement(el.ID, TransformPatch{Scale: ptr(0.0)})
		assert.ErrorIs(t, err, ErrInvalidGesture)
	})

	t.Run("KindNeverChanges", func(t *testing.T) {
		got, _ := e.Element(el.ID)
		assert.Equal(t, KindSticker, got.Kind)
	})
}

func TestUnboundedScale(t *testing.T) {
	e := NewEditor(EditorOptions{Anchor: testCenter})
	el, _ := e.AddElement(KindSticker, "🐋", nil)

	require.NoError(t, e.UpdateElement(el.ID, TransformPatch{Scale: ptr(25.0)}))
	got, _ := e.Element(el.ID)
	assert.Equal(t, 25.0, got.Scale)
}

func TestMissingID_IsSoftNoOp(t *testing.T) {
	e := newTestEditor()
	el, _ := e.AddElement(KindSticker, "🐬", nil)
	before := e.Elements()

	err := e.UpdateElement("nonexistent", TransformPatch{Position: &Point{X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrElementNotFound)

	err = e.DeleteElement("nonexistent")
	assert.ErrorIs(t, err, ErrElementNotFound)

	assert.Equal(t, before, e.Elements())
	_, err = e.Element(el.ID)
	assert.NoError(t, err)
}

func TestSelection(t *testing.T) {
	t.Run("InitialUnselected", func(t *testing.T) {
		e := newTestEditor()
		_, ok := e.Selected()
		assert.False(t, ok)
		assert.Equal(t, ControlsAdd, e.Controls())
	})

	t.Run("Toggle", func(t *testing.T) {
		e := newTestEditor()
		el, _ := e.AddElement(KindSticker, "🐚", nil)

		require.NoError(t, e.SelectElement(el.ID))
		id, ok := e.Selected()
		assert.True(t, ok)
		assert.Equal(t, el.ID, id)
		assert.Equal(t, ControlsDelete, e.Controls())

		require.NoError(t, e.SelectElement(el.ID))
		_, ok = e.Selected()
		assert.False(t, ok)
	})

	t.Run("SwitchIsSingleTransition", func(t *testing.T) {
		e := newTestEditor()
		a, _ := e.AddElement(KindSticker, "🐚", nil)
		b, _ := e.AddElement(KindSticker, "🦀", nil)

		require.NoError(t, e.SelectElement(a.ID))
		require.NoError(t, e.SelectElement(b.ID))
		id, _ := e.Selected()
		assert.Equal(t, b.ID, id)

		selected := 0
		for _, ev := range e.View().Elements {
			if ev.Selected {
				selected++
			}
		}
		assert.Equal(t, 1, selected)
	})

	t.Run("EmptyIDDeselects", func(t *testing.T) {
		e := newTestEditor()
		a, _ := e.AddElement(KindSticker, "🐚", nil)
		require.NoError(t, e.SelectElement(a.ID))
		require.NoError(t, e.SelectElement(""))
		_, ok := e.Selected()
		assert.False(t, ok)
	})

	t.Run("UnknownIDKeepsSelection", func(t *testing.T) {
		e := newTestEditor()
		a, _ := e.AddElement(KindSticker, "🐚", nil)
		require.NoError(t, e.SelectElement(a.ID))
		assert.ErrorIs(t, e.SelectElement("ghost"), ErrElementNotFound)
		id, _ := e.Selected()
		assert.Equal(t, a.ID, id)
	})

	t.Run("ClearSelection", func(t *testing.T) {
		e := newTestEditor()
		a, _ := e.AddElement(KindSticker, "🐚", nil)
		require.NoError(t, e.SelectElement(a.ID))
		e.ClearSelection()
		_, ok := e.Selected()
		assert.False(t, ok)
	})
}

func TestDeleteElement_ClearsSelection(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(KindSticker, "🐡", nil)
	b, _ := e.AddElement(KindSticker, "🦑", nil)

	require.NoError(t, e.SelectElement(a.ID))
	require.NoError(t, e.DeleteElement(a.ID))

	_, ok := e.Selected()
	assert.False(t, ok)
	require.Len(t, e.Elements(), 1)
	assert.Equal(t, b.ID, e.Elements()[0].ID)
}

func TestDeleteElement_OtherKeepsSelection(t *testing.T) {
	e := newTestEditor()
	a, _ := e.AddElement(KindSticker, "🐡", nil)
	b, _ := e.AddElement(KindSticker, "🦑", nil)

	require.NoError(t, e.SelectElement(a.ID))
	require.NoError(t, e.DeleteElement(b.ID))

	id, ok := e.Selected()
	assert.True(t, ok)
	assert.Equal(t, a.ID, id)
}

func TestLoad(t *testing.T) {
	e := newTestEditor()
	err := e.Load([]Element{
		{ID: "a", Kind: KindSticker, Content: "🐠", Transform: Transform{Scale: 2}},
		{ID: "b", Kind: KindText, Content: "hi", Transform: Transform{}},
	})
	require.NoError(t, err)

	els := e.Elements()
	require.Len(t, els, 2)
	assert.Equal(t, 1.0, els[1].Scale, "zero scale restored as 1")

	err = e.Load([]Element{
		{ID: "a", Kind: KindSticker, Content: "🐠"},
		{ID: "a", Kind: KindSticker, Content: "🐠"},
	})
	assert.Error(t, err)
	assert.Len(t, e.Elements(), 2, "failed load leaves the scene untouched")
}

func TestScenario_StickerLifecycle(t *testing.T) {
	e := newTestEditor()

	el, err := e.AddElement(KindSticker, "🐢", nil)
	require.NoError(t, err)
	require.Equal(t, 1, e.Len())
	assert.Equal(t, KindSticker, el.Kind)
	assert.Equal(t, testCenter, el.Position)
	assert.Equal(t, 1.0, el.Scale)

	require.NoError(t, e.SelectElement(el.ID))
	id, _ := e.Selected()
	assert.Equal(t, el.ID, id)

	require.NoError(t, e.BeginGesture(el.ID))
	require.NoError(t, e.Pan(el.ID, 1, 20, 0))
	outcome, err := e.EndGesture(el.ID)
	require.NoError(t, err)
	assert.Equal(t, GestureCommitted, outcome)

	got, _ := e.Element(el.ID)
	assert.Equal(t, Point{X: testCenter.X + 20, Y: testCenter.Y}, got.Position)

	require.NoError(t, e.DeleteElement(el.ID))
	assert.Equal(t, 0, e.Len())
	_, ok := e.Selected()
	assert.False(t, ok)
}
