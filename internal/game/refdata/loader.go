package refdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// entry is one code/name record.
type entry struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// elementEntry is an element record naming its group.
type elementEntry struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	Group string `yaml:"group"`
}

// document is the on-disk reference-data layout.
type document struct {
	Stats          []entry        `yaml:"stats"`
	DamageTypes    []entry        `yaml:"damage_types"`
	Inclinations   []entry        `yaml:"inclinations"`
	EquipmentTypes []entry        `yaml:"equipment_types"`
	ElementGroups  []entry        `yaml:"element_groups"`
	Elements       []elementEntry `yaml:"elements"`
	// End must be true; a missing marker means the document was truncated.
	End bool `yaml:"end"`
}

// LoadFromBytes parses a reference-data YAML document into a Store.
//
// Precondition: data must be a single YAML document.
// Postcondition: Returns a fully populated Store, or an error on the first
// violation. Structural failures are *LoadError values; the partial store is discarded.
func LoadFromBytes(data []byte) (*Store, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewLoadError(KindMissingEndMarker, "refdata", "", "document is empty")
		}
		return nil, NewLoadError(KindMalformedRecord, "refdata", "", err.Error())
	}
	if !doc.End {
		return nil, NewLoadError(KindMissingEndMarker, "refdata", "", "expected trailing \"end: true\"")
	}

	s := NewStore()
	steps := []struct {
		entries []entry
		add     func(code, name string) error
	}{
		{doc.Stats, func(c, n string) error { _, err := s.AddStat(c, n); return err }},
		{doc.DamageTypes, func(c, n string) error { _, err := s.AddDamageType(c, n); return err }},
		{doc.Inclinations, func(c, n string) error { _, err := s.AddInclination(c, n); return err }},
		{doc.EquipmentTypes, func(c, n string) error { _, err := s.AddEquipmentType(c, n); return err }},
		{doc.ElementGroups, func(c, n string) error { _, err := s.AddElementGroup(c, n); return err }},
	}
	for _, step := range steps {
		for _, e := range step.entries {
			if err := step.add(e.Code, e.Name); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range doc.Elements {
		if _, err := s.AddElement(e.Code, e.Name, e.Group); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads and parses the reference-data document at path.
//
// Precondition: path must be a readable file.
// Postcondition: Returns a populated Store or a non-nil error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading refdata %q: %w", path, err)
	}
	s, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading refdata %q: %w", path, err)
	}
	return s, nil
}
