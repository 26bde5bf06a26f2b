package content

// The types below mirror the on-disk YAML layout. They are decoded with
// KnownFields(true) so misspelled keys fail the load.

type fileDoc struct {
	Settings  *settingsDoc `yaml:"settings"`
	Skills    []skillDoc   `yaml:"skills"`
	Equipment []equipDoc   `yaml:"equipment"`
	Battlers  []battlerDoc `yaml:"battlers"`
	Scenes    []sceneDoc   `yaml:"scenes"`
	LevelUp   []levelUpDoc `yaml:"level_up"`
}

type settingsDoc struct {
	WeaponType     string           `yaml:"weapon_type"`
	EquipmentSlots []string         `yaml:"equipment_slots"`
	Party          []string         `yaml:"party"`
	Inclinations   []inclinationDoc `yaml:"inclinations"`
}

type inclinationDoc struct {
	Inclination string   `yaml:"inclination"`
	Attacking   []string `yaml:"attacking"`
	Defending   []string `yaml:"defending"`
}

type skillDoc struct {
	Name    string      `yaml:"name"`
	Texture string      `yaml:"texture"`
	Sound   string      `yaml:"sound"`
	Damage  []damageDoc `yaml:"damage"`
}

type damageDoc struct {
	Base            baseDoc      `yaml:"base"`
	StatScaling     []scalingDoc `yaml:"stat_scaling"`
	ElementBindings []bindingDoc `yaml:"element_bindings"`
}

type baseDoc struct {
	Inclination string  `yaml:"inclination"`
	Value       float64 `yaml:"value"`
}

type scalingDoc struct {
	Inclination string  `yaml:"inclination"`
	Stat        string  `yaml:"stat"`
	Weight      float64 `yaml:"weight"`
}

type bindingDoc struct {
	Inclination string  `yaml:"inclination"`
	DamageType  string  `yaml:"damage_type"`
	Element     string  `yaml:"element"`
	Group       string  `yaml:"group"`
	Scaling     float64 `yaml:"scaling"`
	Penetrating bool    `yaml:"penetrating"`
}

// pairValueDoc is a (damage type, inclination) value.
type pairValueDoc struct {
	DamageType  string `yaml:"damage_type"`
	Inclination string `yaml:"inclination"`
	Value       int    `yaml:"value"`
}

type affinityDoc struct {
	Element    string `yaml:"element"`
	DamageType string `yaml:"damage_type"`
	Value      int    `yaml:"value"`
}

type equipDoc struct {
	Name          string            `yaml:"name"`
	Type          string            `yaml:"type"`
	Stats         map[string]int    `yaml:"stats"`
	Resistances   []pairValueDoc    `yaml:"resistances"`
	DamageSources []pairValueDoc    `yaml:"damage_sources"`
	Conversions   map[string]string `yaml:"conversions"`
}

type battlerDoc struct {
	Name              string         `yaml:"name"`
	Character         bool           `yaml:"character"`
	Priority          int            `yaml:"priority"`
	Textures          []string       `yaml:"textures"`
	Stats             map[string]int `yaml:"stats"`
	Resistances       []pairValueDoc `yaml:"resistances"`
	DamageSources     []pairValueDoc `yaml:"damage_sources"`
	Affinities        []affinityDoc  `yaml:"affinities"`
	StartingEquipment []string       `yaml:"starting_equipment"`
}

type sceneDoc struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Enemy     string   `yaml:"enemy"`
	Music     string   `yaml:"music"`
	Monologue []string `yaml:"monologue"`
}

type levelUpDoc struct {
	Character string      `yaml:"character"`
	Options   []optionDoc `yaml:"options"`
}

type optionDoc struct {
	Label    string         `yaml:"label"`
	Group    string         `yaml:"group"`
	Element  string         `yaml:"element"`
	MaxHP    int            `yaml:"max_hp"`
	Stats    map[string]int `yaml:"stats"`
	Affinity affinityDoc    `yaml:"affinity"`
}
