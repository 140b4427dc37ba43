package idle

import (
	"time"

	"idlerpg/internal/domain/catalog"
)

type ResourceState struct {
	ID string `json:"id"`
	Pool
	GenerationRate float64 `json:"generation_rate"`
	Unlocked       bool    `json:"unlocked"`
}

// Regenerates reports whether the resource accrues passively.
func (r ResourceState) Regenerates() bool {
	return r.GenerationRate > 0
}

type StatPoolState struct {
	ID string `json:"id"`
	Pool
	RegenRate float64 `json:"regen_rate"`
	Unlocked  bool    `json:"unlocked"`
}

func (s StatPoolState) Regenerates() bool {
	return s.RegenRate > 0
}

type SkillState struct {
	ID                  string `json:"id"`
	Level               int    `json:"level"`
	Experience          int64  `json:"experience"`
	NextLevelExperience int64  `json:"next_level_experience"`
	MaxLevel            int    `json:"max_level"`
	Tier                int    `json:"tier"`
	Unlocked            bool   `json:"unlocked"`
}

type ActionState struct {
	ID                  string    `json:"id"`
	Unlocked            bool      `json:"unlocked"`
	Rest                bool      `json:"rest"`
	Progress            float64   `json:"current_progress"`
	BaseDurationMS      int64     `json:"base_duration_ms"`
	RewardScale         float64   `json:"reward_scale"`
	CompletionCount     int       `json:"completion_count"`
	TotalTimeSpentMS    int64     `json:"total_time_spent_ms"`
	LastActionStartTime time.Time `json:"last_action_start_time"`
	MaxPurchases        int       `json:"max_purchases,omitempty"`
}

// Exhausted reports whether a one-shot action has used all its completions.
func (a ActionState) Exhausted() bool {
	return a.MaxPurchases > 0 && a.CompletionCount >= a.MaxPurchases
}

func (a ActionState) BaseDuration() time.Duration {
	return time.Duration(a.BaseDurationMS) * time.Millisecond
}

type UpgradeState struct {
	ID        string `json:"id"`
	Purchased int    `json:"purchased"`
	Limit     int    `json:"limit"`
	Unlocked  bool   `json:"unlocked"`
}

func (u UpgradeState) SoldOut() bool {
	return u.Purchased >= u.Limit
}

type HomeState struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

type LocationState struct {
	ID         string `json:"id"`
	Discovered bool   `json:"discovered"`
}

type Character struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// State is the single mutable simulation state. It holds only plain data so it
// can be snapshotted with encoding/json.
type State struct {
	PlayerID          string                    `json:"player_id"`
	Version           int64                     `json:"version"`
	Resources         map[string]*ResourceState `json:"resources"`
	StatPools         map[string]*StatPoolState `json:"stat_pools"`
	Skills            map[string]*SkillState    `json:"skills"`
	Actions           map[string]*ActionState   `json:"actions"`
	Upgrades          map[string]*UpgradeState  `json:"upgrades"`
	Homes             map[string]*HomeState     `json:"homes"`
	Locations         map[string]*LocationState `json:"locations"`
	SpecialEffects    map[string]float64        `json:"special_effects"`
	Character         Character                 `json:"character"`
	Home              string                    `json:"home"`
	CurrentAction     string                    `json:"current_action"`
	PreviousAction    string                    `json:"previous_action"`
	DefaultRestAction string                    `json:"default_rest_action"`
	Log               ActionLog                 `json:"action_log"`
	PersistedLogSeq   int64                     `json:"persisted_log_seq"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// NewState bootstraps a fresh session from definitions: zero progress, initial
// pool levels and the definition-time unlock flags.
func NewState(cat *catalog.Catalog) *State {
	st := &State{
		Resources:         make(map[string]*ResourceState, len(cat.Resources)),
		StatPools:         make(map[string]*StatPoolState, len(cat.StatPools)),
		Skills:            make(map[string]*SkillState, len(cat.Skills)),
		Actions:           make(map[string]*ActionState, len(cat.Actions)),
		Upgrades:          make(map[string]*UpgradeState, len(cat.Upgrades)),
		Homes:             make(map[string]*HomeState, len(cat.Homes)),
		Locations:         make(map[string]*LocationState, len(cat.Locations)),
		SpecialEffects:    map[string]float64{},
		DefaultRestAction: cat.Tuning.DefaultRestAction,
		Home:              cat.Tuning.StartingHome,
	}
	for id, d := range cat.Resources {
		r := &ResourceState{
			ID:             id,
			Pool:           Pool{Max: d.Maximum, Unbounded: d.Unbounded},
			GenerationRate: d.GenerationRate,
			Unlocked:       d.Unlocked,
		}
		r.Add(d.Initial)
		st.Resources[id] = r
	}
	for id, d := range cat.StatPools {
		p := &StatPoolState{
			ID:        id,
			Pool:      Pool{Max: d.Maximum},
			RegenRate: d.RegenRate,
			Unlocked:  d.Unlocked,
		}
		p.Add(d.Initial)
		st.StatPools[id] = p
	}
	for id, d := range cat.Skills {
		st.Skills[id] = &SkillState{
			ID:                  id,
			NextLevelExperience: d.NextLevelExperience,
			MaxLevel:            d.MaxLevel,
			Tier:                d.Tier,
			Unlocked:            d.Unlocked,
		}
	}
	for id, d := range cat.Actions {
		st.Actions[id] = &ActionState{
			ID:             id,
			Unlocked:       d.Unlocked,
			Rest:           d.Rest,
			BaseDurationMS: d.DurationMS,
			RewardScale:    1,
			MaxPurchases:   d.MaxPurchases,
		}
	}
	for id, d := range cat.Upgrades {
		st.Upgrades[id] = &UpgradeState{ID: id, Limit: d.NumberOfPurchasesPossible, Unlocked: d.Unlocked}
	}
	for id, d := range cat.Homes {
		st.Homes[id] = &HomeState{ID: id, Unlocked: d.Unlocked || id == cat.Tuning.StartingHome}
	}
	for id, d := range cat.Locations {
		st.Locations[id] = &LocationState{ID: id, Discovered: d.Discovered}
	}
	if home, ok := cat.Homes[st.Home]; ok {
		applyGainsTo(st, home.Bonuses, 1)
	}
	return st
}

// pool finds a currency or stat pool by id.
func (s *State) pool(id string) (*Pool, bool) {
	if r, ok := s.Resources[id]; ok {
		return &r.Pool, true
	}
	if p, ok := s.StatPools[id]; ok {
		return &p.Pool, true
	}
	return nil, false
}

// StatPoolsFull reports whether every unlocked stat pool is at capacity.
func (s *State) StatPoolsFull() bool {
	for _, p := range s.StatPools {
		if p.Unlocked && !p.Full() {
			return false
		}
	}
	return true
}

// applyGainsTo adds (sign=1) or removes (sign=-1) a set of permanent deltas.
func applyGainsTo(st *State, g catalog.Gains, sign float64) {
	for _, id := range catalog.SortedKeys(g.CurrencyMaximum) {
		if r, ok := st.Resources[id]; ok {
			r.Resize(sign * g.CurrencyMaximum[id])
		}
	}
	for _, id := range catalog.SortedKeys(g.StatPoolMaximum) {
		if p, ok := st.StatPools[id]; ok {
			p.Resize(sign * g.StatPoolMaximum[id])
		}
	}
	for _, id := range catalog.SortedKeys(g.CurrencyGeneration) {
		if r, ok := st.Resources[id]; ok {
			r.GenerationRate += sign * g.CurrencyGeneration[id]
		}
	}
	for _, id := range catalog.SortedKeys(g.StatPoolRegen) {
		if p, ok := st.StatPools[id]; ok {
			p.RegenRate += sign * g.StatPoolRegen[id]
		}
	}
	for _, id := range catalog.SortedKeys(g.SpecialEffects) {
		if st.SpecialEffects == nil {
			st.SpecialEffects = map[string]float64{}
		}
		st.SpecialEffects[id] += sign * g.SpecialEffects[id]
	}
}

// gainsDelta is to minus from per id, so a swap resizes each pool once.
func gainsDelta(from, to catalog.Gains) catalog.Gains {
	return catalog.Gains{
		CurrencyMaximum:    mapDelta(from.CurrencyMaximum, to.CurrencyMaximum),
		StatPoolMaximum:    mapDelta(from.StatPoolMaximum, to.StatPoolMaximum),
		CurrencyGeneration: mapDelta(from.CurrencyGeneration, to.CurrencyGeneration),
		StatPoolRegen:      mapDelta(from.StatPoolRegen, to.StatPoolRegen),
		SpecialEffects:     mapDelta(from.SpecialEffects, to.SpecialEffects),
	}
}

func mapDelta(from, to map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(to)+len(from))
	for id, v := range to {
		out[id] += v
	}
	for id, v := range from {
		out[id] -= v
	}
	for id, v := range out {
		if v == 0 {
			delete(out, id)
		}
	}
	return out
}
