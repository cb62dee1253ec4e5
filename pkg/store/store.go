// Package store keeps the drafts of each drafting method: independent
// snapshots of an input record and the drawing it produced, each with its own
// colour and visibility, so several variants can be compared side by side.
//
// A Store is safe for concurrent use. Drawings are never mutated after they
// are stored; ReplaceDrawing swaps the pointer, so a reader holding a Draft
// sees either the previous or the new drawing.
package store

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/logging"
)

var (
	ErrUnknownDraft      = errors.New("unknown draft")
	ErrActiveDraftHidden = errors.New("the active draft cannot be hidden")
	ErrLastDraft         = errors.New("the last draft cannot be removed")
	ErrNoDrafts          = errors.New("no drafts yet")
	// ErrEmptyDraftSet is informational: every draft is hidden.
	ErrEmptyDraftSet = errors.New("no visible drafts")
)

// Draft is one stored snapshot.
type Draft struct {
	ID      string
	Name    string
	Number  int
	Input   draft.Input
	Drawing *draft.Drawing
	Color   string
	Visible bool
	// Revision changes every time the input or drawing is replaced.
	Revision uuid.UUID
}

// Store holds the drafts of one method in creation order.
type Store struct {
	mu     sync.RWMutex
	method string
	drafts []*Draft
	active string
	next   int
}

// New returns an empty store for method key.
func New(method string) *Store {
	return &Store{method: method, next: 1}
}

// Method returns the method key the store belongs to.
func (s *Store) Method() string { return s.method }

// CloneInput deep-copies an input record through its concrete type. A nil
// input copies to nil.
func CloneInput(in draft.Input) (draft.Input, error) {
	if in == nil {
		return nil, nil
	}
	t := reflect.TypeOf(in)
	if t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("copy input: %T is not a pointer", in)
	}
	out, ok := reflect.New(t.Elem()).Interface().(draft.Input)
	if !ok {
		return nil, fmt.Errorf("copy input: %T", in)
	}
	if err := copier.CopyWithOption(out, in, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy input: %w", err)
	}
	return out, nil
}

// view returns a copy of d whose input the caller may modify.
func view(d *Draft) Draft {
	out := *d
	if in, err := CloneInput(d.Input); err == nil {
		out.Input = in
	}
	return out
}

func (s *Store) find(id string) (*Draft, int) {
	d, i, ok := lo.FindIndexOf(s.drafts, func(d *Draft) bool { return d.ID == id })
	if !ok {
		return nil, -1
	}
	return d, i
}

// lookup must be called with mu held.
func (s *Store) lookup(id string) (*Draft, error) {
	d, _ := s.find(id)
	if d == nil {
		return nil, fmt.Errorf("%s: %q: %w", s.method, id, ErrUnknownDraft)
	}
	return d, nil
}

// style recolours d's drawing for its emphasis.
func (s *Store) style(d *Draft) error {
	if d.Drawing == nil {
		return nil
	}
	out, err := Recolor(d.Drawing, d.Color, d.ID == s.active)
	if err != nil {
		return err
	}
	d.Drawing = out
	return nil
}

func (s *Store) create(in draft.Input, dr *draft.Drawing) (*Draft, error) {
	snap, err := CloneInput(in)
	if err != nil {
		return nil, err
	}
	n := s.next
	s.next++
	d := &Draft{
		ID:       fmt.Sprintf("%s-draft-%d", s.method, n),
		Name:     fmt.Sprintf("Draft %d", n),
		Number:   n,
		Input:    snap,
		Drawing:  dr,
		Color:    PaletteColor(n),
		Visible:  true,
		Revision: uuid.New(),
	}
	s.drafts = append(s.drafts, d)
	return d, nil
}

// activate makes id active and restyles the old and new active drafts.
func (s *Store) activate(id string) error {
	prev, _ := s.find(s.active)
	s.active = id
	if prev != nil && prev.ID != id {
		if err := s.style(prev); err != nil {
			return err
		}
	}
	d, err := s.lookup(id)
	if err != nil {
		return err
	}
	d.Visible = true
	return s.style(d)
}

// EnsureInitial creates the first draft from in and its drawing when the
// store is empty. It reports whether a draft was created; otherwise it
// returns the active draft unchanged.
func (s *Store) EnsureInitial(in draft.Input, dr *draft.Drawing) (Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.drafts) > 0 {
		d, err := s.lookup(s.active)
		if err != nil {
			return Draft{}, false, err
		}
		return view(d), false, nil
	}
	d, err := s.create(in, dr)
	if err != nil {
		return Draft{}, false, err
	}
	if err := s.activate(d.ID); err != nil {
		return Draft{}, false, err
	}
	return view(d), true, nil
}

// Duplicate copies the active draft's input and a recoloured copy of its
// drawing into a new draft, which becomes active.
func (s *Store) Duplicate() (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := s.lookup(s.active)
	if err != nil {
		return Draft{}, fmt.Errorf("duplicate: %w", ErrNoDrafts)
	}
	d, err := s.create(src.Input, src.Drawing)
	if err != nil {
		return Draft{}, fmt.Errorf("duplicate %s: %w", src.ID, err)
	}
	if err := s.activate(d.ID); err != nil {
		return Draft{}, err
	}
	return view(d), nil
}

// Select makes id active. When current is not nil it is first saved as the
// input of the previously active draft.
func (s *Store) Select(id string, current draft.Input) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(id)
	if err != nil {
		return Draft{}, err
	}
	if prev, _ := s.find(s.active); prev != nil && current != nil {
		snap, err := CloneInput(current)
		if err != nil {
			return Draft{}, err
		}
		prev.Input = snap
		prev.Revision = uuid.New()
	}
	if err := s.activate(id); err != nil {
		return Draft{}, err
	}
	return view(d), nil
}

// SetVisible shows or hides a draft. Hiding the active draft is rejected
// with ErrActiveDraftHidden and changes nothing.
func (s *Store) SetVisible(id string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !visible && id == s.active {
		logging.Logger().Info("rejected hiding active draft", "method", s.method, "draft", id)
		return fmt.Errorf("%s: %w", id, ErrActiveDraftHidden)
	}
	d.Visible = visible
	return nil
}

// Remove deletes a draft. Removing the active draft activates the first
// remaining one.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i := s.find(id)
	if i < 0 {
		return fmt.Errorf("%s: %q: %w", s.method, id, ErrUnknownDraft)
	}
	if len(s.drafts) == 1 {
		logging.Logger().Info("rejected removing last draft", "method", s.method, "draft", id)
		return fmt.Errorf("%s: %w", id, ErrLastDraft)
	}
	s.drafts = append(s.drafts[:i:i], s.drafts[i+1:]...)
	if id == s.active {
		s.active = ""
		return s.activate(s.drafts[0].ID)
	}
	return nil
}

// ReplaceDrawing stores a freshly generated drawing, and the input that
// produced it when in is not nil.
func (s *Store) ReplaceDrawing(id string, in draft.Input, dr *draft.Drawing) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(id)
	if err != nil {
		return Draft{}, err
	}
	out, err := Recolor(dr, d.Color, id == s.active)
	if err != nil {
		return Draft{}, err
	}
	if in != nil {
		snap, err := CloneInput(in)
		if err != nil {
			return Draft{}, err
		}
		d.Input = snap
	}
	d.Drawing = out
	d.Revision = uuid.New()
	return view(d), nil
}

// Active returns the active draft.
func (s *Store) Active() (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.lookup(s.active)
	if err != nil {
		return Draft{}, fmt.Errorf("%s: %w", s.method, ErrNoDrafts)
	}
	return view(d), nil
}

// Get returns one draft.
func (s *Store) Get(id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.lookup(id)
	if err != nil {
		return Draft{}, err
	}
	return view(d), nil
}

// Drafts returns every draft in creation order.
func (s *Store) Drafts() []Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.drafts, func(d *Draft, _ int) Draft { return view(d) })
}

// Len returns the number of drafts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// VisibleDrafts returns the visible drafts in creation order. If the active
// draft is hidden the first visible one becomes active. With nothing
// visible it returns ErrEmptyDraftSet.
func (s *Store) VisibleDrafts() ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vis := lo.Filter(s.drafts, func(d *Draft, _ int) bool { return d.Visible })
	if len(vis) == 0 {
		return nil, fmt.Errorf("%s: %w", s.method, ErrEmptyDraftSet)
	}
	if !lo.ContainsBy(vis, func(d *Draft) bool { return d.ID == s.active }) {
		if err := s.activate(vis[0].ID); err != nil {
			return nil, err
		}
	}
	return lo.Map(vis, func(d *Draft, _ int) Draft { return view(d) }), nil
}
