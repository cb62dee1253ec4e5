package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/chazu/patternhub/pkg/catalog"
	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/engine"
	"github.com/chazu/patternhub/pkg/logging"
	"github.com/chazu/patternhub/pkg/measure"
	"github.com/chazu/patternhub/pkg/render"
	"github.com/chazu/patternhub/pkg/render/dxf"
	"github.com/chazu/patternhub/pkg/render/svg"
	"github.com/chazu/patternhub/pkg/store"
)

var (
	// ErrUnknownFormat is returned for an export path that is neither .svg nor .dxf.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrInvalidDrawing is returned when a drawing fails validation before export.
	ErrInvalidDrawing = errors.New("invalid drawing")
)

// App is the application context: the method catalog, the per-method draft
// stores, the working inputs being edited, and the regeneration scheduler.
type App struct {
	catalog  *catalog.Catalog
	drafts   *store.Manager
	profiles *measure.ProfileTable
	engine   *engine.Engine
	sched    *engine.Scheduler

	mu     sync.Mutex
	inputs map[string]draft.Input
}

// EvalErrorData is a script error with its location.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult reports what a measurement script did.
type ScriptResult struct {
	Edits  []string        `json:"edits"`
	Errors []EvalErrorData `json:"errors"`
}

// Option configures an App.
type Option func(*App)

// WithProfiles replaces the built-in fit profile table.
func WithProfiles(t *measure.ProfileTable) Option {
	return func(a *App) { a.profiles = t }
}

// WithDelay sets the regeneration debounce window.
func WithDelay(d time.Duration) Option {
	return func(a *App) { a.sched = engine.NewScheduler(d, a.regenerateLogged) }
}

// NewApp creates an App over the default catalog.
func NewApp(opts ...Option) *App {
	a := &App{
		catalog:  catalog.Default(),
		drafts:   store.NewManager(),
		profiles: measure.DefaultProfiles(),
		engine:   engine.NewEngine(),
		inputs:   map[string]draft.Input{},
	}
	a.sched = engine.NewScheduler(engine.DefaultDelay, a.regenerateLogged)
	for _, o := range opts {
		o(a)
	}
	return a
}

// Catalog returns the method registry.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Profiles returns the fit profile table in use.
func (a *App) Profiles() *measure.ProfileTable { return a.profiles }

// Store returns the draft store of a method.
func (a *App) Store(key string) (*store.Store, error) {
	if _, err := a.catalog.Entry(key); err != nil {
		return nil, err
	}
	return a.drafts.For(key), nil
}

// working returns the live input of a method, creating it from defaults.
// mu must be held.
func (a *App) working(m draft.Method) draft.Input {
	in, ok := a.inputs[m.Key()]
	if !ok {
		in = m.NewInput()
		a.inputs[m.Key()] = in
	}
	return in
}

// snapshot returns a deep copy of the working input of m.
func (a *App) snapshot(m draft.Method) (draft.Input, error) {
	a.mu.Lock()
	data, err := catalog.EncodeInput(a.working(m))
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return catalog.DecodeInput(m, data)
}

// apply runs p against a copy of the working input of m and keeps the copy
// only when every edit succeeds.
func (a *App) apply(m draft.Method, p *engine.Patch) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, err := store.CloneInput(a.working(m))
	if err != nil {
		return err
	}
	if err := p.Apply(next, a.profiles); err != nil {
		return err
	}
	a.inputs[m.Key()] = next
	return nil
}

// Input returns a copy of the working input of a method.
func (a *App) Input(key string) (draft.Input, error) {
	m, err := a.catalog.Method(key)
	if err != nil {
		return nil, err
	}
	return a.snapshot(m)
}

// SetInput replaces the working input and schedules a regeneration.
func (a *App) SetInput(key string, in draft.Input) error {
	m, err := a.catalog.Method(key)
	if err != nil {
		return err
	}
	if reflect.TypeOf(in) != reflect.TypeOf(m.NewInput()) {
		return fmt.Errorf("%s: got %T: %w", key, in, draft.ErrInputType)
	}
	a.mu.Lock()
	a.inputs[key] = in
	a.mu.Unlock()
	a.sched.Schedule(key)
	return nil
}

// LoadInput decodes a measurement file over the method defaults and makes
// it the working input.
func (a *App) LoadInput(key string, data []byte) error {
	m, err := a.catalog.Method(key)
	if err != nil {
		return err
	}
	in, err := catalog.DecodeInput(m, data)
	if err != nil {
		return err
	}
	return a.SetInput(key, in)
}

// Evaluate runs a measurement script against the working input of a method.
// Script problems are reported in the result, not as an error.
func (a *App) Evaluate(key, source string) (ScriptResult, error) {
	result := ScriptResult{Edits: []string{}, Errors: []EvalErrorData{}}
	m, err := a.catalog.Method(key)
	if err != nil {
		return result, err
	}

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(evalErrs) > 0 {
		return result, nil
	}

	err = a.apply(m, p)
	if err != nil {
		logging.Logger().Warn("script edit failed", "method", key, "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	for _, e := range p.Edits {
		result.Edits = append(result.Edits, e.String())
	}
	if p.Len() > 0 {
		a.sched.Schedule(key)
	}
	return result, nil
}

// SetView changes the presentation toggles of the working input.
func (a *App) SetView(key string, v draft.Visibility) error {
	m, err := a.catalog.Method(key)
	if err != nil {
		return err
	}
	p := &engine.Patch{Edits: []engine.Edit{
		{Kind: engine.EditSet, Path: "showGuides", Value: v.ShowGuides},
		{Kind: engine.EditSet, Path: "showMarkers", Value: v.ShowMarkers},
	}}
	err = a.apply(m, p)
	if err != nil {
		return err
	}
	a.sched.Schedule(key)
	return nil
}

// Preview drafts the working input without storing it.
func (a *App) Preview(key string) (*draft.Drawing, error) {
	m, err := a.catalog.Method(key)
	if err != nil {
		return nil, err
	}
	in, err := a.snapshot(m)
	if err != nil {
		return nil, err
	}
	return m.Draft(in)
}

// Regenerate drafts the working input now and stores the drawing in the
// method's active draft, creating the first draft if there is none. A
// pending scheduled regeneration is dropped.
func (a *App) Regenerate(key string) (store.Draft, error) {
	a.sched.Cancel()
	return a.regenerate(key)
}

// Flush runs a pending scheduled regeneration immediately.
func (a *App) Flush() bool { return a.sched.Flush() }

func (a *App) regenerate(key string) (store.Draft, error) {
	start := time.Now()
	m, err := a.catalog.Method(key)
	if err != nil {
		return store.Draft{}, err
	}
	in, err := a.snapshot(m)
	if err != nil {
		return store.Draft{}, err
	}

	d, err := m.Draft(in)
	if err != nil {
		return store.Draft{}, fmt.Errorf("draft %s: %w", key, err)
	}

	st := a.drafts.For(key)
	out, created, err := st.EnsureInitial(in, d)
	if err == nil && !created {
		out, err = st.ReplaceDrawing(out.ID, in, d)
	}
	if err != nil {
		return store.Draft{}, fmt.Errorf("store %s: %w", key, err)
	}
	logging.Logger().Info("regenerated",
		"method", key,
		"draft", out.ID,
		"warnings", len(d.Warnings),
		"duration", time.Since(start),
	)
	return out, nil
}

func (a *App) regenerateLogged(key string) {
	if _, err := a.regenerate(key); err != nil {
		logging.Logger().Warn("regeneration failed", "method", key, "error", err)
	}
}

// Duplicate copies the active draft of a method into a new active draft.
func (a *App) Duplicate(key string) (store.Draft, error) {
	st, err := a.Store(key)
	if err != nil {
		return store.Draft{}, err
	}
	return st.Duplicate()
}

// Select switches the active draft, saving the working input into the
// previously active one and loading the selected draft's input.
func (a *App) Select(key, id string) (store.Draft, error) {
	st, err := a.Store(key)
	if err != nil {
		return store.Draft{}, err
	}
	m, _ := a.catalog.Method(key)
	a.mu.Lock()
	defer a.mu.Unlock()
	d, err := st.Select(id, a.working(m))
	if err != nil {
		return store.Draft{}, err
	}
	if d.Input != nil {
		a.inputs[key] = d.Input
	}
	return d, nil
}

// sheets builds the combined-export sheets of a method: every draft, the
// hidden ones marked hidden.
func (a *App) sheets(key string) ([]render.Sheet, error) {
	st, err := a.Store(key)
	if err != nil {
		return nil, err
	}
	if _, err := st.VisibleDrafts(); err != nil {
		return nil, err
	}
	var out []render.Sheet
	for _, d := range st.Drafts() {
		out = append(out, render.Sheet{
			ID:      d.ID,
			Name:    d.Name,
			Color:   d.Color,
			Drawing: d.Drawing,
			Hidden:  !d.Visible,
		})
	}
	return out, nil
}

func format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg", ".dxf":
		return ext, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// checkDrawing validates a drawing before it reaches a sink. Warnings are
// logged; the first error is returned.
func checkDrawing(name string, d *draft.Drawing) error {
	if d == nil {
		return fmt.Errorf("%s: %w: no drawing", name, ErrInvalidDrawing)
	}
	r := draft.Validate(d)
	for _, w := range r.Warnings {
		logging.Logger().Debug("export finding", "drawing", name, "finding", w.Error())
	}
	if !r.OK() {
		return fmt.Errorf("%s: %w: %v", name, ErrInvalidDrawing, r.Errors[0])
	}
	return nil
}

// Export writes one drawing of a method to path.
func (a *App) Export(key string, d *draft.Drawing, path string) error {
	e, err := a.catalog.Entry(key)
	if err != nil {
		return err
	}
	f, err := format(path)
	if err != nil {
		return err
	}
	if err := checkDrawing(key, d); err != nil {
		return err
	}
	if f == ".dxf" {
		return dxf.WriteFile(path, d)
	}
	return svg.WriteFile(path, d, e.Title())
}

// ExportDrafts writes every draft of a method into one document.
func (a *App) ExportDrafts(key, path string) error {
	e, err := a.catalog.Entry(key)
	if err != nil {
		return err
	}
	f, err := format(path)
	if err != nil {
		return err
	}
	sheets, err := a.sheets(key)
	if err != nil {
		return err
	}
	for _, sh := range sheets {
		if err := checkDrawing(sh.ID, sh.Drawing); err != nil {
			return err
		}
	}
	if f == ".dxf" {
		return dxf.WriteStackFile(path, sheets)
	}
	return svg.WriteStackFile(path, sheets, e.Title()+" drafts")
}
