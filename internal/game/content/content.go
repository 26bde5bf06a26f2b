// Package content loads the scripted game content (skills, equipment,
// battlers, scenes and the level-up table) and validates every code it
// references against the reference-data store.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/levelup"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// Settings are the game-wide content settings.
type Settings struct {
	// WeaponType is the equipment type whose conversions gate level-up options.
	WeaponType refdata.EquipmentTypeKey
	// SlotSchema is the equipment-slot layout given to every battler.
	SlotSchema []refdata.EquipmentTypeKey
	// Party lists the character battler names in roster order.
	Party     []string
	StatLists *damage.StatLists
}

// Store is the loaded, read-only scripted content.
type Store struct {
	settings  Settings
	skills    map[string]*skill.Skill
	equipment map[string]*battler.Equipment
	battlers  map[string]*battler.Battler
	scenes    []scene.Scene
	levelUp   *levelup.Table
}

// Settings returns the game-wide settings.
func (s *Store) Settings() Settings { return s.settings }

// Skill returns the skill called name.
func (s *Store) Skill(name string) (*skill.Skill, bool) {
	v, ok := s.skills[name]
	return v, ok
}

// Skills returns every skill sorted by name.
func (s *Store) Skills() []*skill.Skill {
	out := slices.Collect(maps.Values(s.skills))
	slices.SortFunc(out, func(a, b *skill.Skill) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Equipment returns the equipment called name.
func (s *Store) Equipment(name string) (*battler.Equipment, bool) {
	v, ok := s.equipment[name]
	return v, ok
}

// Battler returns the battler template called name.
func (s *Store) Battler(name string) (*battler.Battler, bool) {
	v, ok := s.battlers[name]
	return v, ok
}

// Party returns the roster's battler templates in order.
func (s *Store) Party() []*battler.Battler {
	out := make([]*battler.Battler, 0, len(s.settings.Party))
	for _, name := range s.settings.Party {
		out = append(out, s.battlers[name])
	}
	return out
}

// Scenes returns the scene list in order.
func (s *Store) Scenes() []scene.Scene { return slices.Clone(s.scenes) }

// LevelUp returns the level-up table.
func (s *Store) LevelUp() *levelup.Table { return s.levelUp }

// LevelUpOptions returns the level-up options for character.
func (s *Store) LevelUpOptions(character string) []levelup.Option {
	return s.levelUp.Options(character)
}

// LoadDirectory loads every *.yaml file in dir, in lexical order, as one
// content set.
//
// Precondition: dir must be a readable directory; refs must be fully loaded.
// Postcondition: Returns a validated Store, or an error wrapping a
// *refdata.LoadError for content violations.
func LoadDirectory(dir string, refs *refdata.Store) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	var docs []fileDoc
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		doc, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		docs = append(docs, doc)
	}
	s, err := build(docs, refs)
	if err != nil {
		return nil, fmt.Errorf("loading content dir %q: %w", dir, err)
	}
	return s, nil
}

// LoadFromBytes loads a single content document.
func LoadFromBytes(data []byte, refs *refdata.Store) (*Store, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build([]fileDoc{doc}, refs)
}

func decode(data []byte) (fileDoc, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fileDoc{}, refdata.NewLoadError(refdata.KindMalformedRecord, "content", "", err.Error())
	}
	return doc, nil
}

// build merges docs and constructs the store: settings, skills, equipment,
// battlers, scenes, then the level-up table.
func build(docs []fileDoc, refs *refdata.Store) (*Store, error) {
	var merged fileDoc
	for _, d := range docs {
		if d.Settings != nil {
			if merged.Settings != nil {
				return nil, refdata.NewLoadError(refdata.KindDuplicateCode, "settings", "", "settings defined more than once")
			}
			merged.Settings = d.Settings
		}
		merged.Skills = append(merged.Skills, d.Skills...)
		merged.Equipment = append(merged.Equipment, d.Equipment...)
		merged.Battlers = append(merged.Battlers, d.Battlers...)
		merged.Scenes = append(merged.Scenes, d.Scenes...)
		merged.LevelUp = append(merged.LevelUp, d.LevelUp...)
	}
	if merged.Settings == nil {
		return nil, refdata.NewLoadError(refdata.KindMalformedRecord, "settings", "", "settings section is required")
	}

	b := &builder{
		refs: refs,
		store: &Store{
			skills:    make(map[string]*skill.Skill),
			equipment: make(map[string]*battler.Equipment),
			battlers:  make(map[string]*battler.Battler),
			levelUp:   levelup.NewTable(),
		},
	}
	steps := []func(*fileDoc) error{
		b.settings,
		b.skills,
		b.equipment,
		b.battlers,
		b.party,
		b.scenes,
		b.levelUp,
	}
	for _, step := range steps {
		if err := step(&merged); err != nil {
			return nil, err
		}
	}
	return b.store, nil
}
