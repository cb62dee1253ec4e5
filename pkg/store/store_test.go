package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/draft/aldrich"
	"github.com/chazu/patternhub/pkg/geom"
)

func drafted(t *testing.T, mutate func(*aldrich.Input)) (*aldrich.Input, *draft.Drawing) {
	t.Helper()
	in := aldrich.Defaults()
	if mutate != nil {
		mutate(&in)
	}
	d, err := aldrich.Method{}.Draft(&in)
	require.NoError(t, err)
	return &in, d
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New(aldrich.Key)
	in, d := drafted(t, nil)
	_, created, err := s.EnsureInitial(in, d)
	require.NoError(t, err)
	require.True(t, created)
	return s
}

func TestEnsureInitialIsIdempotent(t *testing.T) {
	s := seeded(t)
	in, d := drafted(t, func(in *aldrich.Input) { in.Bust = 100 })
	got, created, err := s.EnsureInitial(in, d)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "aldrich-draft-1", got.ID)
	assert.Equal(t, "Draft 1", got.Name)
	assert.Equal(t, Palette[0], got.Color)
	assert.Equal(t, 88.0, got.Input.(*aldrich.Input).Bust)
}

func TestDuplicateCopiesActive(t *testing.T) {
	s := seeded(t)
	first, err := s.Active()
	require.NoError(t, err)

	dup, err := s.Duplicate()
	require.NoError(t, err)
	assert.Equal(t, "aldrich-draft-2", dup.ID)
	assert.Equal(t, Palette[1], dup.Color)
	assert.True(t, dup.Visible)
	assert.NotEqual(t, first.Revision, dup.Revision)

	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, dup.ID, active.ID)

	if diff := cmp.Diff(first.Input, dup.Input); diff != "" {
		t.Errorf("input snapshot differs (-first +dup):\n%s", diff)
	}
	assert.Equal(t, first.Drawing.Points, dup.Drawing.Points)
	assert.NotSame(t, first.Drawing, dup.Drawing)
	assert.Equal(t, 1.0, dup.Drawing.Opacity)

	// The previous active draft is now drawn de-emphasized.
	prev, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, .95, prev.Drawing.Opacity)
}

func TestDuplicateCyclesPalette(t *testing.T) {
	s := seeded(t)
	for i := 0; i < len(Palette)+2; i++ {
		_, err := s.Duplicate()
		require.NoError(t, err)
	}
	for _, d := range s.Drafts() {
		assert.Equal(t, Palette[(d.Number-1)%len(Palette)], d.Color, d.ID)
	}
	assert.Equal(t, Palette[0], PaletteColor(9))
	assert.Equal(t, Palette[2], PaletteColor(11))
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := seeded(t)
	a, err := s.Active()
	require.NoError(t, err)
	a.Input.(*aldrich.Input).Bust = 120

	again, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, 88.0, again.Input.(*aldrich.Input).Bust)

	in, d := drafted(t, nil)
	_, err = s.ReplaceDrawing(a.ID, in, d)
	require.NoError(t, err)
	in.Bust = 130
	again, err = s.Active()
	require.NoError(t, err)
	assert.Equal(t, 88.0, again.Input.(*aldrich.Input).Bust)
}

func TestSelectPersistsCurrentInput(t *testing.T) {
	s := seeded(t)
	dup, err := s.Duplicate()
	require.NoError(t, err)

	edited := aldrich.Defaults()
	edited.Waist = 72
	got, err := s.Select("aldrich-draft-1", &edited)
	require.NoError(t, err)
	assert.Equal(t, "aldrich-draft-1", got.ID)

	saved, err := s.Get(dup.ID)
	require.NoError(t, err)
	assert.Equal(t, 72.0, saved.Input.(*aldrich.Input).Waist)
	assert.NotEqual(t, dup.Revision, saved.Revision)

	first, err := s.Get("aldrich-draft-1")
	require.NoError(t, err)
	assert.Equal(t, 68.0, first.Input.(*aldrich.Input).Waist)

	_, err = s.Select("aldrich-draft-9", nil)
	assert.ErrorIs(t, err, ErrUnknownDraft)
}

func TestSetVisible(t *testing.T) {
	s := seeded(t)
	err := s.SetVisible("aldrich-draft-1", false)
	assert.ErrorIs(t, err, ErrActiveDraftHidden)
	d, _ := s.Get("aldrich-draft-1")
	assert.True(t, d.Visible)

	_, err = s.Duplicate()
	require.NoError(t, err)
	require.NoError(t, s.SetVisible("aldrich-draft-1", false))
	vis, err := s.VisibleDrafts()
	require.NoError(t, err)
	require.Len(t, vis, 1)
	assert.Equal(t, "aldrich-draft-2", vis[0].ID)

	// Selecting a hidden draft shows it again.
	_, err = s.Select("aldrich-draft-1", nil)
	require.NoError(t, err)
	vis, err = s.VisibleDrafts()
	require.NoError(t, err)
	assert.Len(t, vis, 2)

	assert.ErrorIs(t, s.SetVisible("nope", true), ErrUnknownDraft)
}

func TestRemove(t *testing.T) {
	s := seeded(t)
	assert.ErrorIs(t, s.Remove("aldrich-draft-1"), ErrLastDraft)

	_, err := s.Duplicate()
	require.NoError(t, err)
	_, err = s.Duplicate()
	require.NoError(t, err)
	require.NoError(t, s.Remove("aldrich-draft-3"))

	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, "aldrich-draft-1", active.ID)
	assert.Equal(t, 1.0, active.Drawing.Opacity)

	// Numbers are never reused.
	dup, err := s.Duplicate()
	require.NoError(t, err)
	assert.Equal(t, "aldrich-draft-4", dup.ID)
	assert.ErrorIs(t, s.Remove("aldrich-draft-3"), ErrUnknownDraft)
}

func TestEmptyStore(t *testing.T) {
	s := New("wideSleeve")
	_, err := s.Active()
	assert.ErrorIs(t, err, ErrNoDrafts)
	_, err = s.Duplicate()
	assert.ErrorIs(t, err, ErrNoDrafts)
	_, err = s.VisibleDrafts()
	assert.ErrorIs(t, err, ErrEmptyDraftSet)
	assert.Empty(t, s.Drafts())
}

func TestReplaceDrawingSwapsPointer(t *testing.T) {
	s := seeded(t)
	before, err := s.Active()
	require.NoError(t, err)

	_, d := drafted(t, func(in *aldrich.Input) { in.Bust = 96 })
	after, err := s.ReplaceDrawing(before.ID, nil, d)
	require.NoError(t, err)
	assert.NotEqual(t, before.Revision, after.Revision)
	assert.NotEqual(t, before.Drawing.Points, after.Drawing.Points)
	// The input is kept when none is given.
	assert.Equal(t, 88.0, after.Input.(*aldrich.Input).Bust)

	_, err = s.ReplaceDrawing("x", nil, d)
	assert.ErrorIs(t, err, ErrUnknownDraft)
}

func TestRecolor(t *testing.T) {
	b := draft.NewBuilder("m", "cm", draft.Frame{Scale: 1}, draft.ShowAll)
	b.AddLayer(draft.Layer{ID: "block", Name: "Block"})
	b.AddLayer(draft.Layer{ID: "nums", Name: "Numbers", Numbers: true})
	b.On("block").Line(geom.Pt(0, 0), geom.Pt(1, 0), draft.Structural, "seg")
	b.On("block").Letter(geom.Pt(1, 1), "A", draft.ColorCurve)
	b.Mark("nums", "1", geom.Pt(0, 1), "")
	src := b.Drawing()

	on, err := Recolor(src, "#b91c1c", true)
	require.NoError(t, err)
	assert.Equal(t, "#b91c1c", on.Ops[0].Stroke.Color)
	assert.Equal(t, "#b91c1c", on.Ops[1].Fill)
	assert.Equal(t, draft.ColorWhite, on.Ops[2].Stroke.Color)
	assert.Equal(t, 1.0, on.Opacity)

	off, err := Recolor(src, "#b91c1c", false)
	require.NoError(t, err)
	assert.NotEqual(t, "#b91c1c", off.Ops[0].Stroke.Color)
	assert.Equal(t, off.Ops[0].Stroke.Color, off.Ops[1].Fill)
	assert.Equal(t, .95, off.Opacity)

	// The source drawing is not modified.
	assert.Equal(t, draft.ColorInk, src.Ops[0].Stroke.Color)

	_, err = Recolor(src, "red", true)
	assert.Error(t, err)
}

func TestManager(t *testing.T) {
	m := NewManager()
	a := m.For("wideSleeve")
	assert.Same(t, a, m.For("wideSleeve"))
	m.For("aldrich")
	assert.Equal(t, []string{"aldrich", "wideSleeve"}, m.Methods())
	assert.Equal(t, "wideSleeve", a.Method())
}
