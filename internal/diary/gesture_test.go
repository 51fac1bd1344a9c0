package diary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placed returns an editor holding one sticker at the given transform.
func placed(t *testing.T, tr Transform) (*Editor, string) {
	t.Helper()
	e := newTestEditor()
	el, err := e.AddElement(KindSticker, "🪼", nil)
	require.NoError(t, err)
	require.NoError(t, e.UpdateElement(el.ID, TransformPatch{
		Position: &tr.Position,
		Rotation: &tr.Rotation,
		Scale:    &tr.Scale,
	}))
	return e, el.ID
}

func TestGesture_SnapshotComposition(t *testing.T) {
	x0, y0, r0, s0 := 40.0, 60.0, 15.0, 1.2
	want := Transform{
		Position: Point{X: x0 + 5, Y: y0 - 3},
		Rotation: r0 + 10,
		Scale:    s0 * 1.5,
	}

	updates := map[string]func(e *Editor, id string) error{
		"pan":    func(e *Editor, id string) error { return e.Pan(id, 0, 5, -3) },
		"pinch":  func(e *Editor, id string) error { return e.Pinch(id, 0, 1.5) },
		"rotate": func(e *Editor, id string) error { return e.Rotate(id, 0, 10) },
	}
	orders := [][]string{
		{"pan", "pinch", "rotate"},
		{"pan", "rotate", "pinch"},
		{"pinch", "pan", "rotate"},
		{"pinch", "rotate", "pan"},
		{"rotate", "pan", "pinch"},
		{"rotate", "pinch", "pan"},
	}

	for _, order := range orders {
		t.Run(order[0]+"_"+order[1]+"_"+order[2], func(t *testing.T) {
			e, id := placed(t, Transform{Position: Point{X: x0, Y: y0}, Rotation: r0, Scale: s0})

			require.NoError(t, e.BeginGesture(id))
			// Intermediate frames must not feed into later ones.
			require.NoError(t, e.Pan(id, 0, 100, 100))
			require.NoError(t, e.Pinch(id, 0, 2))
			require.NoError(t, e.Rotate(id, 0, 90))
			for _, name := range order {
				require.NoError(t, updates[name](e, id))
			}

			outcome, err := e.EndGesture(id)
			require.NoError(t, err)
			assert.Equal(t, GestureCommitted, outcome)

			got, err := e.Committed(id)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestGesture_LiveSeparateFromCommitted(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 10, Y: 10}, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 30, 40))

	live, err := e.Live(id)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 40, Y: 50}, live.Position)

	committed, err := e.Committed(id)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 10}, committed.Position)

	view := e.View()
	require.Len(t, view.Elements, 1)
	require.NotNil(t, view.Elements[0].Live)
	assert.Equal(t, Point{X: 40, Y: 50}, view.Elements[0].Live.Position)
}

func TestGesture_CancelReverts(t *testing.T) {
	start := Transform{Position: Point{X: 10, Y: 10}, Rotation: 0, Scale: 1}
	e, id := placed(t, start)

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 50, 50))
	require.NoError(t, e.CancelGesture(id))

	got, err := e.Committed(id)
	require.NoError(t, err)
	assert.Equal(t, start, got)

	live, err := e.Live(id)
	require.NoError(t, err)
	assert.Equal(t, start, live)
	assert.Nil(t, e.View().Elements[0].Live)
}

func TestGesture_CommitBecomesBaseline(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 0, Y: 0}, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 20, 0))
	require.NoError(t, e.Pinch(id, 0, 2))
	_, err := e.EndGesture(id)
	require.NoError(t, err)

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 20, 0))
	require.NoError(t, e.Pinch(id, 0, 1.25))
	_, err = e.EndGesture(id)
	require.NoError(t, err)

	got, _ := e.Committed(id)
	assert.Equal(t, Point{X: 40, Y: 0}, got.Position)
	assert.Equal(t, 2.5, got.Scale)
}

func TestGesture_BeginFlushesActiveCommit(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 0, Y: 0}, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 25, 0))
	// The end event of the first interaction never arrived.
	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 15, 0))
	_, err := e.EndGesture(id)
	require.NoError(t, err)

	got, _ := e.Committed(id)
	assert.Equal(t, Point{X: 40, Y: 0}, got.Position)
}

func TestGesture_StaleSequenceDropped(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 0, Y: 0}, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 2, 30, 0))
	require.NoError(t, e.Pan(id, 1, 15, 0))
	_, err := e.EndGesture(id)
	require.NoError(t, err)

	got, _ := e.Committed(id)
	assert.Equal(t, Point{X: 30, Y: 0}, got.Position)
}

func TestGesture_SequencePerStream(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 10, Y: 10}, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 2, 50, 0))
	require.NoError(t, e.Rotate(id, 1, 30))
	require.NoError(t, e.Pinch(id, 1, 1.5))
	require.NoError(t, e.Rotate(id, 3, 45))
	require.NoError(t, e.Rotate(id, 2, 20))
	_, err := e.EndGesture(id)
	require.NoError(t, err)

	got, _ := e.Committed(id)
	assert.Equal(t, Transform{Position: Point{X: 60, Y: 10}, Rotation: 45, Scale: 1.5}, got)
}

func TestGesture_ScaleClampedLive(t *testing.T) {
	e, id := placed(t, Transform{Scale: 2})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pinch(id, 0, 4))
	live, _ := e.Live(id)
	assert.Equal(t, 3.0, live.Scale)

	assert.ErrorIs(t, e.Pinch(id, 0, 0), ErrInvalidGesture)
	assert.ErrorIs(t, e.Pinch(id, 0, -1), ErrInvalidGesture)
}

func TestGesture_RotationUnbounded(t *testing.T) {
	e, id := placed(t, Transform{Rotation: 350, Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Rotate(id, 0, 400))
	_, err := e.EndGesture(id)
	require.NoError(t, err)

	got, _ := e.Committed(id)
	assert.Equal(t, 750.0, got.Rotation)
}

func TestGesture_WithinSlopIsDiscarded(t *testing.T) {
	start := Transform{Position: Point{X: 10, Y: 10}, Scale: 1}
	e, id := placed(t, start)

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 2, 1))
	outcome, err := e.EndGesture(id)
	require.NoError(t, err)
	assert.Equal(t, GestureDiscarded, outcome)

	got, _ := e.Committed(id)
	assert.Equal(t, start, got)

	tapped, err := e.Tap(id)
	require.NoError(t, err)
	assert.True(t, tapped, "a still interaction leaves the tap free")
}

func TestGesture_TapExclusion(t *testing.T) {
	t.Run("DuringGesture", func(t *testing.T) {
		e, id := placed(t, Transform{Scale: 1})
		require.NoError(t, e.BeginGesture(id))
		require.NoError(t, e.Pan(id, 0, 50, 0))

		tapped, err := e.Tap(id)
		require.NoError(t, err)
		assert.False(t, tapped)
		_, ok := e.Selected()
		assert.False(t, ok)
	})

	t.Run("JustAfterCommit", func(t *testing.T) {
		e, id := placed(t, Transform{Scale: 1})
		require.NoError(t, e.BeginGesture(id))
		require.NoError(t, e.Pan(id, 0, 50, 0))
		_, err := e.EndGesture(id)
		require.NoError(t, err)

		tapped, err := e.Tap(id)
		require.NoError(t, err)
		assert.False(t, tapped)

		tapped, err = e.Tap(id)
		require.NoError(t, err)
		assert.True(t, tapped, "suppression lasts for one interaction only")
	})

	t.Run("TapToggles", func(t *testing.T) {
		e, id := placed(t, Transform{Scale: 1})
		tapped, _ := e.Tap(id)
		assert.True(t, tapped)
		sel, _ := e.Selected()
		assert.Equal(t, id, sel)

		tapped, _ = e.Tap(id)
		assert.True(t, tapped)
		_, ok := e.Selected()
		assert.False(t, ok)
	})
}

func TestGesture_RaceWithDelete(t *testing.T) {
	e, id := placed(t, Transform{Scale: 1})

	require.NoError(t, e.BeginGesture(id))
	require.NoError(t, e.Pan(id, 0, 10, 10))
	require.NoError(t, e.DeleteElement(id))

	assert.ErrorIs(t, e.Pan(id, 0, 20, 20), ErrElementNotFound)
	_, err := e.EndGesture(id)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.ErrorIs(t, e.CancelGesture(id), ErrElementNotFound)
	_, err = e.Tap(id)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Equal(t, 0, e.Len())
}

func TestGesture_UpdateWithoutBegin(t *testing.T) {
	e, id := placed(t, Transform{Scale: 1})

	assert.ErrorIs(t, e.Pan(id, 0, 1, 1), ErrNoActiveGesture)
	_, err := e.EndGesture(id)
	assert.ErrorIs(t, err, ErrNoActiveGesture)
}

func TestApply(t *testing.T) {
	e, id := placed(t, Transform{Position: Point{X: 10, Y: 10}, Scale: 1})

	events := []GestureEvent{
		{ElementID: id, Phase: PhaseBegin},
		{ElementID: id, Phase: PhaseUpdate, Seq: 1, Pan: &Point{X: 5, Y: -3}},
		{ElementID: id, Phase: PhaseUpdate, Seq: 2, Scale: ptr(1.5), Rotation: ptr(10.0)},
		{ElementID: id, Phase: PhaseEnd},
		{ElementID: id, Phase: PhaseTap},
		{ElementID: "ghost", Phase: PhaseBegin},
		{ElementID: id, Phase: Phase("wiggle")},
	}

	var results []GestureResult
	for _, ev := range events {
		results = append(results, e.Apply(ev))
	}

	assert.Equal(t, GestureCommitted, results[3].Outcome)
	assert.False(t, results[4].Tapped)
	assert.True(t, results[5].NotFound)
	assert.NotEmpty(t, results[6].Error)
	assert.False(t, results[6].NotFound)

	got, _ := e.Committed(id)
	assert.Equal(t, Transform{Position: Point{X: 15, Y: 7}, Rotation: 10, Scale: 1.5}, got)
}
