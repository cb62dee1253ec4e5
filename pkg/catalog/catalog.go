// Package catalog registers the drafting methods by key and decodes their
// measurement files.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/draft/aldrich"
	"github.com/chazu/patternhub/pkg/draft/armstrong"
	"github.com/chazu/patternhub/pkg/draft/hofenbitzer"
	"github.com/chazu/patternhub/pkg/draft/sleeve"
)

// ErrUnknownPattern is returned for a key no method is registered under.
var ErrUnknownPattern = errors.New("unknown pattern")

// Entry is one registered method.
type Entry struct {
	Method draft.Method
	// Filename is the single-draft export name; StackFilename holds all
	// drafts of the method.
	Filename      string
	StackFilename string
}

// Key returns the method key.
func (e Entry) Key() string { return e.Method.Key() }

// Title returns the display title.
func (e Entry) Title() string { return e.Method.Title() }

// Catalog is an ordered method registry.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from methods in order. Filenames derive from the
// title unless given.
func New(entries ...Entry) *Catalog {
	c := &Catalog{}
	for _, e := range entries {
		if e.Filename == "" {
			e.Filename = fileBase(e.Title()) + ".svg"
		}
		if e.StackFilename == "" {
			e.StackFilename = strings.TrimSuffix(e.Filename, ".svg") + "_drafts.svg"
		}
		c.entries = append(c.entries, e)
	}
	return c
}

// Default returns the catalog of every built-in method.
func Default() *Catalog {
	return New(
		Entry{Method: armstrong.Method{}, Filename: "armstrong_bodice.svg"},
		Entry{Method: aldrich.Method{}, Filename: "aldrich_close_fitting_bodice.svg"},
		Entry{Method: hofenbitzer.Casual{}, Filename: "hofenbitzer_casual_bodice.svg"},
		Entry{Method: hofenbitzer.Skirt{}, Filename: "hofenbitzer_basic_skirt.svg"},
		Entry{Method: sleeve.Method{}, Filename: "wide_basic_sleeve.svg"},
	)
}

func fileBase(title string) string {
	return strings.ReplaceAll(draft.Slug(strings.ReplaceAll(title, "'s", ""), ""), "-", "_")
}

// Entries returns the registered methods in order.
func (c *Catalog) Entries() []Entry { return append([]Entry(nil), c.entries...) }

// Keys returns the method keys in order.
func (c *Catalog) Keys() []string {
	return lo.Map(c.entries, func(e Entry, _ int) string { return e.Key() })
}

// Entry looks up a method entry by key.
func (c *Catalog) Entry(key string) (Entry, error) {
	e, ok := lo.Find(c.entries, func(e Entry) bool { return e.Key() == key })
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", key, ErrUnknownPattern)
	}
	return e, nil
}

// Method looks up a method by key.
func (c *Catalog) Method(key string) (draft.Method, error) {
	e, err := c.Entry(key)
	if err != nil {
		return nil, err
	}
	return e.Method, nil
}

// DecodeInput reads a YAML measurement file over the method's defaults.
// Fields absent from data keep their default values.
func DecodeInput(m draft.Method, data []byte) (draft.Input, error) {
	in := m.NewInput()
	if err := yaml.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("%s: decode input: %w", m.Key(), err)
	}
	return in, nil
}

// EncodeInput writes an input as YAML.
func EncodeInput(in draft.Input) ([]byte, error) {
	out, err := yaml.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	return out, nil
}
