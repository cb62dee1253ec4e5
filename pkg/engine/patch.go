package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

var (
	// ErrUnknownField is returned when an edit names a field the input lacks.
	ErrUnknownField = errors.New("unknown field")
	// ErrNoProfiles is returned when a profile is selected for a method
	// without fit profiles.
	ErrNoProfiles = errors.New("method does not use fit profiles")
)

// EditKind says what an Edit does.
type EditKind int

const (
	// EditSet writes Value at the dotted yaml Path of the input.
	EditSet EditKind = iota
	// EditProfile applies the fit profile named by Path.
	EditProfile
)

// Edit is one change recorded by a script.
type Edit struct {
	Kind  EditKind
	Path  string
	Value any
}

func (e Edit) String() string {
	if e.Kind == EditProfile {
		return fmt.Sprintf("profile %s", e.Path)
	}
	return fmt.Sprintf("%s = %v", e.Path, e.Value)
}

// Patch is the ordered list of edits a script made.
type Patch struct {
	Edits []Edit
}

func (p *Patch) add(e Edit) { p.Edits = append(p.Edits, e) }

// Len returns the number of edits.
func (p *Patch) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Edits)
}

// ProfileUser is an input that accepts fit profiles.
type ProfileUser interface {
	UseProfile(t *measure.ProfileTable, name string) error
}

// Apply performs the edits on in, in order. It stops at the first edit that
// fails; earlier edits stay applied.
func (p *Patch) Apply(in draft.Input, profiles *measure.ProfileTable) error {
	if p == nil {
		return nil
	}
	if profiles == nil {
		profiles = measure.DefaultProfiles()
	}
	for _, e := range p.Edits {
		switch e.Kind {
		case EditProfile:
			u, ok := in.(ProfileUser)
			if !ok {
				return fmt.Errorf("profile %q: %w", e.Path, ErrNoProfiles)
			}
			if err := u.UseProfile(profiles, e.Path); err != nil {
				return err
			}
		case EditSet:
			if err := setPath(in, e.Path, e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// setPath writes v at a dotted path by round-tripping in through its yaml
// form, so every input type is editable by its documented field names.
func setPath(in draft.Input, path string, v any) error {
	var doc yaml.Node
	if err := doc.Encode(in); err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	var val yaml.Node
	if err := val.Encode(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := assign(&doc, strings.Split(path, "."), &val); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(in); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) && strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// assign replaces the value at keys inside mapping n. A missing final key is
// appended; the decoder rejects it later if the type has no such field.
func assign(n *yaml.Node, keys []string, val *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%s is not a record: %w", keys[0], ErrUnknownField)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != keys[0] {
			continue
		}
		if len(keys) == 1 {
			n.Content[i+1] = val
			return nil
		}
		return assign(n.Content[i+1], keys[1:], val)
	}
	if len(keys) > 1 {
		return fmt.Errorf("%s: %w", keys[0], ErrUnknownField)
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: keys[0]}
	n.Content = append(n.Content, key, val)
	return nil
}
