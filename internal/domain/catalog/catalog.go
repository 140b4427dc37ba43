package catalog

import (
	"maps"
	"slices"
)

// Catalog is the read-only definition store. It is loaded once per session and
// never mutated afterwards.
type Catalog struct {
	Resources map[string]ResourceDef `yaml:"resources" json:"resources"`
	StatPools map[string]StatPoolDef `yaml:"stat_pools" json:"stat_pools"`
	Skills    map[string]SkillDef    `yaml:"skills" json:"skills"`
	Actions   map[string]ActionDef   `yaml:"actions" json:"actions"`
	Upgrades  map[string]UpgradeDef  `yaml:"upgrades" json:"upgrades"`
	Classes   map[string]ClassDef    `yaml:"classes" json:"classes"`
	Homes     map[string]HomeDef     `yaml:"homes" json:"homes"`
	Locations map[string]LocationDef `yaml:"locations" json:"locations"`
	Tuning    Tuning                 `yaml:"tuning" json:"tuning"`
}

type ResourceDef struct {
	ID             string             `yaml:"-" json:"id"`
	Name           string             `yaml:"name" json:"name"`
	Initial        float64            `yaml:"initial" json:"initial"`
	Maximum        float64            `yaml:"maximum" json:"maximum"`
	Unbounded      bool               `yaml:"unbounded" json:"unbounded,omitempty"`
	GenerationRate float64            `yaml:"generation_rate" json:"generation_rate,omitempty"`
	GeneratesOther map[string]float64 `yaml:"generates" json:"generates,omitempty"`
	Unlocked       bool               `yaml:"unlocked" json:"unlocked"`
	Requirements   Requirements       `yaml:"requirements" json:"-"`
}

type StatPoolDef struct {
	ID           string       `yaml:"-" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	Initial      float64      `yaml:"initial" json:"initial"`
	Maximum      float64      `yaml:"maximum" json:"maximum"`
	RegenRate    float64      `yaml:"regen_rate" json:"regen_rate,omitempty"`
	Unlocked     bool         `yaml:"unlocked" json:"unlocked"`
	Requirements Requirements `yaml:"requirements" json:"-"`
}

type SkillDef struct {
	ID                  string       `yaml:"-" json:"id"`
	Name                string       `yaml:"name" json:"name"`
	MaxLevel            int          `yaml:"max_level" json:"max_level"`
	Tier                int          `yaml:"tier" json:"tier"`
	NextLevelExperience int64        `yaml:"next_level_experience" json:"next_level_experience"`
	Unlocked            bool         `yaml:"unlocked" json:"unlocked"`
	Requirements        Requirements `yaml:"requirements" json:"-"`
}

type ActionDef struct {
	ID                  string             `yaml:"-" json:"id"`
	Name                string             `yaml:"name" json:"name"`
	Description         string             `yaml:"description" json:"description,omitempty"`
	Rest                bool               `yaml:"rest" json:"rest,omitempty"`
	DurationMS          int64              `yaml:"duration_ms" json:"duration_ms"`
	StatPoolCosts       map[string]float64 `yaml:"stat_pool_costs" json:"stat_pool_costs,omitempty"`
	CurrencyCosts       map[string]float64 `yaml:"currency_costs" json:"currency_costs,omitempty"`
	CurrencyRewards     map[string]Reward  `yaml:"currency_rewards" json:"-"`
	SkillExperience     map[string]Reward  `yaml:"skill_experience" json:"-"`
	StatPoolRestoration map[string]Reward  `yaml:"stat_pool_restoration" json:"-"`
	DiscoverLocations   []string           `yaml:"discover_locations" json:"discover_locations,omitempty"`
	MaxPurchases        int                `yaml:"max_purchases" json:"max_purchases,omitempty"`
	Unlocked            bool               `yaml:"unlocked" json:"unlocked"`
	Requirements        Requirements       `yaml:"requirements" json:"-"`
}

// Costs is what an upgrade or home charges, split by pool kind.
type Costs struct {
	Currencies map[string]float64 `yaml:"currencies" json:"currencies,omitempty"`
	StatPools  map[string]float64 `yaml:"stat_pools" json:"stat_pools,omitempty"`
}

// Gains are permanent deltas applied on purchase, class pick or home move.
type Gains struct {
	CurrencyMaximum    map[string]float64 `yaml:"currency_maximum" json:"currency_maximum,omitempty"`
	StatPoolMaximum    map[string]float64 `yaml:"stat_pool_maximum" json:"stat_pool_maximum,omitempty"`
	CurrencyGeneration map[string]float64 `yaml:"currency_generation" json:"currency_generation,omitempty"`
	StatPoolRegen      map[string]float64 `yaml:"stat_pool_regen" json:"stat_pool_regen,omitempty"`
	SpecialEffects     map[string]float64 `yaml:"special_effects" json:"special_effects,omitempty"`
}

type UpgradeDef struct {
	ID                        string       `yaml:"-" json:"id"`
	Name                      string       `yaml:"name" json:"name"`
	Description               string       `yaml:"description" json:"description,omitempty"`
	Costs                     Costs        `yaml:"costs" json:"costs"`
	Gains                     Gains        `yaml:"gains" json:"gains"`
	NumberOfPurchasesPossible int          `yaml:"purchases" json:"purchases"`
	Unlocked                  bool         `yaml:"unlocked" json:"unlocked"`
	Requirements              Requirements `yaml:"requirements" json:"-"`
}

type ClassDef struct {
	ID          string `yaml:"-" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Bonuses     Gains  `yaml:"bonuses" json:"bonuses"`
}

type HomeDef struct {
	ID           string             `yaml:"-" json:"id"`
	Name         string             `yaml:"name" json:"name"`
	Cost         map[string]float64 `yaml:"cost" json:"cost,omitempty"`
	Bonuses      Gains              `yaml:"bonuses" json:"bonuses"`
	Unlocked     bool               `yaml:"unlocked" json:"unlocked"`
	Requirements Requirements       `yaml:"requirements" json:"-"`
}

type LocationDef struct {
	ID          string `yaml:"-" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Discovered  bool   `yaml:"discovered" json:"discovered"`
}

// Tuning carries session-wide knobs that live next to the content.
type Tuning struct {
	DefaultRestAction string        `yaml:"default_rest_action" json:"default_rest_action"`
	StartingHome      string        `yaml:"starting_home" json:"starting_home,omitempty"`
	TierBase          float64       `yaml:"tier_base" json:"tier_base"`
	Improvements      []Improvement `yaml:"improvements" json:"improvements,omitempty"`
}

// Improvement is one row of the escalation policy: when an action reaches
// AtCompletions, its duration and reward ranges are multiplied. An empty Action
// applies to every action.
type Improvement struct {
	Action             string  `yaml:"action" json:"action,omitempty"`
	AtCompletions      int     `yaml:"at_completions" json:"at_completions"`
	DurationMultiplier float64 `yaml:"duration_multiplier" json:"duration_multiplier,omitempty"`
	RewardMultiplier   float64 `yaml:"reward_multiplier" json:"reward_multiplier,omitempty"`
}

const DefaultTierBase = 1.1

// Index copies map keys into the ID fields and fills tuning defaults. Loaders
// call it once after decoding.
func (c *Catalog) Index() {
	for id, d := range c.Resources {
		d.ID = id
		c.Resources[id] = d
	}
	for id, d := range c.StatPools {
		d.ID = id
		c.StatPools[id] = d
	}
	for id, d := range c.Skills {
		d.ID = id
		c.Skills[id] = d
	}
	for id, d := range c.Actions {
		d.ID = id
		c.Actions[id] = d
	}
	for id, d := range c.Upgrades {
		d.ID = id
		c.Upgrades[id] = d
	}
	for id, d := range c.Classes {
		d.ID = id
		c.Classes[id] = d
	}
	for id, d := range c.Homes {
		d.ID = id
		c.Homes[id] = d
	}
	for id, d := range c.Locations {
		d.ID = id
		c.Locations[id] = d
	}
	if c.Tuning.TierBase <= 0 {
		c.Tuning.TierBase = DefaultTierBase
	}
}

// IsCurrency reports whether id names a resource (as opposed to a stat pool).
func (c *Catalog) IsCurrency(id string) bool {
	_, ok := c.Resources[id]
	return ok
}

func (c *Catalog) IsStatPool(id string) bool {
	_, ok := c.StatPools[id]
	return ok
}

// SortedKeys returns map keys in a stable order so random draws and log lines
// are reproducible for a given seed.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
