package measure

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// ErrUnknownProfile is returned when a profile name or index does not resolve.
var ErrUnknownProfile = errors.New("unknown fit profile")

// Profile is a named table of per-field ease values.
type Profile struct {
	Name string             `yaml:"name"`
	Ease map[string]float64 `yaml:"ease"`
}

// Keys returns the fields the profile defines, sorted.
func (p Profile) Keys() []string {
	keys := lo.Keys(p.Ease)
	slices.Sort(keys)
	return keys
}

// ProfileTable is an ordered set of profiles with a default.
type ProfileTable struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles decodes and validates a profile table.
func LoadProfiles(r io.Reader) (*ProfileTable, error) {
	var t ProfileTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *ProfileTable) validate() error {
	if len(t.Profiles) == 0 {
		return errors.New("profile table is empty")
	}
	seen := make(map[string]bool, len(t.Profiles))
	for i, p := range t.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("profile %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
		for k, v := range p.Ease {
			if !finite(v) {
				return fmt.Errorf("profile %q: ease %s is not finite", p.Name, k)
			}
		}
	}
	if t.Default == "" {
		t.Default = t.Profiles[0].Name
	}
	if !seen[t.Default] {
		return fmt.Errorf("default profile %q: %w", t.Default, ErrUnknownProfile)
	}
	return nil
}

var defaultProfiles = sync.OnceValue(func() *ProfileTable {
	t, err := LoadProfiles(strings.NewReader(string(defaultProfilesYAML)))
	if err != nil {
		panic(fmt.Sprintf("embedded profiles: %v", err))
	}
	return t
})

// DefaultProfiles returns the built-in Hofenbitzer profile table.
func DefaultProfiles() *ProfileTable { return defaultProfiles() }

// Names lists profile names in table order.
func (t *ProfileTable) Names() []string {
	return lo.Map(t.Profiles, func(p Profile, _ int) string { return p.Name })
}

// Lookup resolves a profile by name, or by index when name is an integer.
func (t *ProfileTable) Lookup(name string) (Profile, error) {
	if p, ok := lo.Find(t.Profiles, func(p Profile) bool { return strings.EqualFold(p.Name, name) }); ok {
		return p, nil
	}
	if i, err := strconv.Atoi(strings.TrimSpace(name)); err == nil && i >= 0 && i < len(t.Profiles) {
		return t.Profiles[i], nil
	}
	return Profile{}, fmt.Errorf("%q: %w", name, ErrUnknownProfile)
}

// Index returns profile i, falling back to the default for out-of-range values.
func (t *ProfileTable) Index(i int) Profile {
	if i >= 0 && i < len(t.Profiles) {
		return t.Profiles[i]
	}
	return t.DefaultProfile()
}

// DefaultProfile returns the table's default profile.
func (t *ProfileTable) DefaultProfile() Profile {
	p, err := t.Lookup(t.Default)
	if err != nil {
		return t.Profiles[0]
	}
	return p
}

// EaseTarget exposes the ease-bearing fields of an input by key.
type EaseTarget interface {
	EaseField(key string) *Field
}

// Apply overwrites the ease of every field p defines and returns the keys
// it changed. Fields the profile does not mention keep their ease.
func Apply(p Profile, target EaseTarget) []string {
	var applied []string
	for _, k := range p.Keys() {
		f := target.EaseField(k)
		if f == nil {
			continue
		}
		f.Ease = p.Ease[k]
		applied = append(applied, k)
	}
	return applied
}
