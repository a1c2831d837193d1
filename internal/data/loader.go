package data

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

const catalogueFile = "roles.yaml"

// Catalogue is the read-only role table consumed by the engine.
type Catalogue struct {
	roles map[string]Role
	order []string
}

type catalogueFileFormat struct {
	Roles []Role `yaml:"roles"`
}

// NewCatalogue validates roles and builds a catalogue. Duplicate ids are rejected.
func NewCatalogue(roles []Role) (*Catalogue, error) {
	c := &Catalogue{roles: make(map[string]Role, len(roles))}
	for i := range roles {
		r := roles[i]
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.roles[r.ID]; dup {
			return nil, fmt.Errorf("duplicate role id %s", r.ID)
		}
		c.roles[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// Role looks up a role by id.
func (c *Catalogue) Role(id string) (Role, bool) {
	r, ok := c.roles[id]
	return r, ok
}

// IDs returns role ids in catalogue order.
func (c *Catalogue) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ByTeam returns the ids of every role on team t, sorted.
func (c *Catalogue) ByTeam(t Team) []string {
	var out []string
	for id, r := range c.roles {
		if r.Team == t {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Len is the number of roles in the catalogue.
func (c *Catalogue) Len() int { return len(c.order) }

// Loader handles reading catalogue and setup files from the data directory fallback hierarchy
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// DefaultCatalogue decodes the catalogue compiled into the binary.
func DefaultCatalogue() (*Catalogue, error) {
	return decodeCatalogue(defaultRoles, "embedded "+catalogueFile)
}

// LoadCatalogue returns the first roles.yaml found in the data directories,
// or the embedded default when none has one. Read errors other than a
// missing file are returned.
func (l *Loader) LoadCatalogue() (*Catalogue, error) {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, catalogueFile)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read catalogue %s: %w", path, err)
		}
		return decodeCatalogue(raw, path)
	}
	return DefaultCatalogue()
}

// LoadSetup reads a setup by path, or by name from the setups/ folder of each data directory.
func (l *Loader) LoadSetup(nameOrPath string) (*Setup, error) {
	var s Setup
	if _, err := os.Stat(nameOrPath); err == nil {
		if err := decodeFile(nameOrPath, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	ref := filepath.Join("setups", fmt.Sprintf("%s.yaml", nameOrPath))
	if err := l.load(ref, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ValidateSetup checks that every seat has a unique id and a catalogue role.
func ValidateSetup(s *Setup, cat *Catalogue) error {
	if len(s.Players) == 0 {
		return fmt.Errorf("setup %q has no players", s.Name)
	}
	seen := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if p.ID == "" {
			return fmt.Errorf("setup %q: player without id", s.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("setup %q: duplicate player id %s", s.Name, p.ID)
		}
		seen[p.ID] = true
		if _, ok := cat.Role(p.Role); !ok {
			return fmt.Errorf("setup %q: player %s has unknown role %s", s.Name, p.ID, p.Role)
		}
	}
	return nil
}

func decodeCatalogue(raw []byte, ref string) (*Catalogue, error) {
	var f catalogueFileFormat
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
	}
	c, err := NewCatalogue(f.Roles)
	if err != nil {
		return nil, fmt.Errorf("invalid catalogue %s: %w", ref, err)
	}
	return c, nil
}

func decodeFile(path string, target interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(target); err != nil {
		return fmt.Errorf("failed to decode yaml reference %s: %w", path, err)
	}
	return nil
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		if _, err := os.Stat(path); err == nil {
			return decodeFile(path, target)
		}
	}
	return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
}
