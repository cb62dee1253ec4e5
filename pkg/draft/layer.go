package draft

import (
	"regexp"
	"strings"
)

// Toggle says which visibility flag hides a layer.
type Toggle int

const (
	AlwaysShown Toggle = iota
	HiddenWithGuides
	HiddenWithMarkers
)

// Layer is a named group of ops. Layers nest through Parent.
type Layer struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
	Toggle Toggle `yaml:"toggle,omitempty"`
	// Numbers marks layers whose label text sits on a filled marker.
	Numbers bool `yaml:"numbers,omitempty"`
}

// Visibility is the presentation toggle carried by every method input.
// It never changes which points are computed.
type Visibility struct {
	ShowGuides  bool `yaml:"showGuides" json:"showGuides"`
	ShowMarkers bool `yaml:"showMarkers" json:"showMarkers"`
}

// ShowAll is the default visibility.
var ShowAll = Visibility{ShowGuides: true, ShowMarkers: true}

// Hides reports whether v hides a layer with toggle t.
func (v Visibility) Hides(t Toggle) bool {
	switch t {
	case HiddenWithGuides:
		return !v.ShowGuides
	case HiddenWithMarkers:
		return !v.ShowMarkers
	}
	return false
}

// LayerHidden reports whether a layer or any of its ancestors is hidden by v.
func (d *Drawing) LayerHidden(id string, v Visibility) bool {
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		l, ok := d.Layer(id)
		if !ok {
			return false
		}
		if v.Hides(l.Toggle) {
			return true
		}
		id = l.Parent
	}
	return false
}

// Children returns the direct children of a layer in declaration order.
// An empty parent returns the top-level layers.
func (d *Drawing) Children(parent string) []Layer {
	var out []Layer
	for _, l := range d.Layers {
		if l.Parent == parent {
			out = append(out, l)
		}
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a layer id from a display name, optionally prefixed.
func Slug(name, prefix string) string {
	base := strings.ToLower(name)
	base = strings.ReplaceAll(base, "&", "and")
	base = strings.Trim(nonSlug.ReplaceAllString(base, "-"), "-")
	if base == "" {
		if prefix != "" {
			return prefix
		}
		return "layer"
	}
	if prefix != "" {
		return prefix + "-" + base
	}
	return base
}
