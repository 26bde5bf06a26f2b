package content

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/levelup"
	"github.com/cory-johannsen/skirmish/internal/game/refdata"
	"github.com/cory-johannsen/skirmish/internal/game/scene"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

type builder struct {
	refs  *refdata.Store
	store *Store
}

func unknown(table, code string) error {
	return refdata.NewLoadError(refdata.KindUnknownCode, table, code, "not defined in reference data")
}

func malformed(table, name, detail string) error {
	return refdata.NewLoadError(refdata.KindMalformedRecord, table, name, detail)
}

func duplicate(table, name string) error {
	return refdata.NewLoadError(refdata.KindDuplicateCode, table, name, "name defined more than once")
}

func (b *builder) stat(code string) (refdata.StatKey, error) {
	k, ok := b.refs.Stat(code)
	if !ok {
		return k, unknown("stats", code)
	}
	return k, nil
}

func (b *builder) inclination(code string) (refdata.InclinationKey, error) {
	k, ok := b.refs.Inclination(code)
	if !ok {
		return k, unknown("inclinations", code)
	}
	return k, nil
}

func (b *builder) damageType(code string) (refdata.DamageTypeKey, error) {
	k, ok := b.refs.DamageType(code)
	if !ok {
		return k, unknown("damage_types", code)
	}
	return k, nil
}

func (b *builder) equipmentType(code string) (refdata.EquipmentTypeKey, error) {
	k, ok := b.refs.EquipmentType(code)
	if !ok {
		return k, unknown("equipment_types", code)
	}
	return k, nil
}

func (b *builder) element(code string) (refdata.ElementKey, error) {
	k, ok := b.refs.Element(code)
	if !ok {
		return k, unknown("elements", code)
	}
	return k, nil
}

func (b *builder) elementGroup(code string) (refdata.ElementGroupKey, error) {
	k, ok := b.refs.ElementGroup(code)
	if !ok {
		return k, unknown("element_groups", code)
	}
	return k, nil
}

func (b *builder) stats(src map[string]int) (map[refdata.StatKey]int, error) {
	out := make(map[refdata.StatKey]int, len(src))
	for code, v := range src {
		k, err := b.stat(code)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (b *builder) pairs(src []pairValueDoc) (map[battler.TypeInclination]int, error) {
	out := make(map[battler.TypeInclination]int, len(src))
	for _, p := range src {
		typ, err := b.damageType(p.DamageType)
		if err != nil {
			return nil, err
		}
		incl, err := b.inclination(p.Inclination)
		if err != nil {
			return nil, err
		}
		out[battler.TypeInclination{Type: typ, Inclination: incl}] += p.Value
	}
	return out, nil
}

func (b *builder) affinityKey(a affinityDoc) (battler.AffinityKey, error) {
	elem, err := b.element(a.Element)
	if err != nil {
		return battler.AffinityKey{}, err
	}
	typ, err := b.damageType(a.DamageType)
	if err != nil {
		return battler.AffinityKey{}, err
	}
	return battler.AffinityKey{Element: elem, Type: typ}, nil
}

func (b *builder) settings(doc *fileDoc) error {
	sd := doc.Settings
	weapon, err := b.equipmentType(sd.WeaponType)
	if err != nil {
		return err
	}
	schema := make([]refdata.EquipmentTypeKey, 0, len(sd.EquipmentSlots))
	for _, code := range sd.EquipmentSlots {
		k, err := b.equipmentType(code)
		if err != nil {
			return err
		}
		schema = append(schema, k)
	}
	if !slices.Contains(schema, weapon) {
		return malformed("settings", sd.WeaponType, "weapon type has no equipment slot")
	}
	lists := damage.NewStatLists()
	for _, id := range sd.Inclinations {
		incl, err := b.inclination(id.Inclination)
		if err != nil {
			return err
		}
		if incl.IsAuto() {
			return malformed("settings", id.Inclination, "stat lists cannot target AUTO")
		}
		var atk, def []refdata.StatKey
		for _, code := range id.Attacking {
			k, err := b.stat(code)
			if err != nil {
				return err
			}
			atk = append(atk, k)
		}
		for _, code := range id.Defending {
			k, err := b.stat(code)
			if err != nil {
				return err
			}
			def = append(def, k)
		}
		lists.Set(incl, atk, def)
	}
	if len(sd.Party) == 0 {
		return malformed("settings", "", "party must not be empty")
	}
	b.store.settings = Settings{
		WeaponType: weapon,
		SlotSchema: schema,
		Party:      slices.Clone(sd.Party),
		StatLists:  lists,
	}
	return nil
}

func (b *builder) skills(doc *fileDoc) error {
	for _, sd := range doc.Skills {
		if _, dup := b.store.skills[sd.Name]; dup {
			return duplicate("skills", sd.Name)
		}
		s := &skill.Skill{Name: sd.Name, Texture: sd.Texture, Sound: sd.Sound}
		for _, dd := range sd.Damage {
			comp, err := b.damageComponent(dd)
			if err != nil {
				return err
			}
			s.Components = append(s.Components, comp)
		}
		if err := s.Validate(); err != nil {
			return malformed("skills", sd.Name, err.Error())
		}
		b.store.skills[s.Name] = s
	}
	return nil
}

func (b *builder) damageComponent(dd damageDoc) (skill.Damage, error) {
	var comp skill.Damage
	base, err := b.inclination(dd.Base.Inclination)
	if err != nil {
		return comp, err
	}
	comp.BaseInclination = base
	comp.BaseValue = dd.Base.Value
	for _, sc := range dd.StatScaling {
		incl, err := b.inclination(sc.Inclination)
		if err != nil {
			return comp, err
		}
		st, err := b.stat(sc.Stat)
		if err != nil {
			return comp, err
		}
		comp.Scalings = append(comp.Scalings, skill.StatScaling{Inclination: incl, Stat: st, Weight: sc.Weight})
	}
	for _, bd := range dd.ElementBindings {
		incl, err := b.inclination(bd.Inclination)
		if err != nil {
			return comp, err
		}
		typ, err := b.damageType(bd.DamageType)
		if err != nil {
			return comp, err
		}
		switch {
		case bd.Element != "" && bd.Group == "":
			elem, err := b.element(bd.Element)
			if err != nil {
				return comp, err
			}
			comp.Bindings = append(comp.Bindings, skill.NewElementBinding(incl, typ, elem, bd.Scaling, bd.Penetrating))
		case bd.Group != "" && bd.Element == "":
			group, err := b.elementGroup(bd.Group)
			if err != nil {
				return comp, err
			}
			comp.Bindings = append(comp.Bindings, skill.NewGroupBinding(incl, typ, group, bd.Scaling, bd.Penetrating))
		default:
			return comp, malformed("skills", "", "element binding needs exactly one of element or group")
		}
	}
	return comp, nil
}

func (b *builder) equipment(doc *fileDoc) error {
	pool := b.store.Skills()
	for _, ed := range doc.Equipment {
		if _, dup := b.store.equipment[ed.Name]; dup {
			return duplicate("equipment", ed.Name)
		}
		typ, err := b.equipmentType(ed.Type)
		if err != nil {
			return err
		}
		stats, err := b.stats(ed.Stats)
		if err != nil {
			return err
		}
		res, err := b.pairs(ed.Resistances)
		if err != nil {
			return err
		}
		src, err := b.pairs(ed.DamageSources)
		if err != nil {
			return err
		}
		conv := make(map[refdata.ElementGroupKey]refdata.ElementKey, len(ed.Conversions))
		for g, e := range ed.Conversions {
			group, err := b.elementGroup(g)
			if err != nil {
				return err
			}
			elem, err := b.element(e)
			if err != nil {
				return err
			}
			if owner, _ := b.refs.ElementGroupOf(elem); owner != group {
				return malformed("equipment", ed.Name, fmt.Sprintf("element %s is not a member of group %s", e, g))
			}
			conv[group] = elem
		}
		eq, err := battler.NewEquipment(battler.EquipmentSpec{
			Name:          ed.Name,
			Type:          typ,
			Stats:         stats,
			Resistances:   res,
			DamageSources: src,
			Conversions:   conv,
		}, pool)
		if err != nil {
			return malformed("equipment", ed.Name, err.Error())
		}
		b.store.equipment[eq.Name()] = eq
	}
	return nil
}

func (b *builder) battlers(doc *fileDoc) error {
	for _, bd := range doc.Battlers {
		if _, dup := b.store.battlers[bd.Name]; dup {
			return duplicate("battlers", bd.Name)
		}
		stats, err := b.stats(bd.Stats)
		if err != nil {
			return err
		}
		res, err := b.pairs(bd.Resistances)
		if err != nil {
			return err
		}
		src, err := b.pairs(bd.DamageSources)
		if err != nil {
			return err
		}
		affs := make(map[battler.AffinityKey]int, len(bd.Affinities))
		for _, ad := range bd.Affinities {
			k, err := b.affinityKey(ad)
			if err != nil {
				return err
			}
			affs[k] += ad.Value
		}
		slots := battler.NewEquipmentSlots(b.store.settings.SlotSchema)
		for _, name := range bd.StartingEquipment {
			eq, ok := b.store.equipment[name]
			if !ok {
				return malformed("battlers", bd.Name, fmt.Sprintf("unknown starting equipment %q", name))
			}
			if err := slots.Equip(eq); err != nil {
				return malformed("battlers", bd.Name, err.Error())
			}
		}
		bt, err := battler.New(battler.Spec{
			Name:          bd.Name,
			IsCharacter:   bd.Character,
			Priority:      bd.Priority,
			Textures:      bd.Textures,
			Stats:         stats,
			Resistances:   res,
			DamageSources: src,
			Affinities:    affs,
		}, slots)
		if err != nil {
			return malformed("battlers", bd.Name, err.Error())
		}
		b.store.battlers[bt.Name()] = bt
	}
	return nil
}

func (b *builder) party(*fileDoc) error {
	for _, name := range b.store.settings.Party {
		bt, ok := b.store.battlers[name]
		if !ok {
			return malformed("settings", name, "party member is not a defined battler")
		}
		if !bt.IsCharacter() {
			return malformed("settings", name, "party member must be a character")
		}
	}
	return nil
}

func (b *builder) scenes(doc *fileDoc) error {
	for _, sd := range doc.Scenes {
		kind, err := scene.ParseKind(sd.Kind)
		if err != nil {
			return malformed("scenes", sd.Name, err.Error())
		}
		if kind == scene.KindBattle {
			enemy, ok := b.store.battlers[sd.Enemy]
			if !ok {
				return malformed("scenes", sd.Name, fmt.Sprintf("unknown enemy %q", sd.Enemy))
			}
			if enemy.IsCharacter() {
				return malformed("scenes", sd.Name, fmt.Sprintf("enemy %q is a character", sd.Enemy))
			}
		}
		b.store.scenes = append(b.store.scenes, scene.Scene{
			Name:      sd.Name,
			Kind:      kind,
			Enemy:     sd.Enemy,
			Music:     sd.Music,
			Monologue: slices.Clone(sd.Monologue),
		})
	}
	return nil
}

func (b *builder) levelUp(doc *fileDoc) error {
	for _, ld := range doc.LevelUp {
		if _, ok := b.store.battlers[ld.Character]; !ok {
			return malformed("level_up", ld.Character, "unknown character")
		}
		if b.store.levelUp.Has(ld.Character) {
			return duplicate("level_up", ld.Character)
		}
		opts := make([]levelup.Option, 0, len(ld.Options))
		for _, od := range ld.Options {
			group, err := b.elementGroup(od.Group)
			if err != nil {
				return err
			}
			elem, err := b.element(od.Element)
			if err != nil {
				return err
			}
			stats, err := b.stats(od.Stats)
			if err != nil {
				return err
			}
			aff, err := b.affinityKey(od.Affinity)
			if err != nil {
				return err
			}
			opts = append(opts, levelup.Option{
				Label:         od.Label,
				Group:         group,
				Element:       elem,
				MaxHP:         od.MaxHP,
				Stats:         stats,
				Affinity:      aff,
				AffinityDelta: od.Affinity.Value,
			})
		}
		if err := b.store.levelUp.Set(ld.Character, opts); err != nil {
			return malformed("level_up", ld.Character, err.Error())
		}
	}
	return nil
}
