package idle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"idlerpg/internal/domain/catalog"
)

// Snapshot serialises the whole state.
func Snapshot(st *State) ([]byte, error) {
	return json.Marshal(st)
}

// Restore merges a saved snapshot over a fresh default state, field by field
// and recursively through nested objects. Fields the save does not know keep
// their defaults; records for ids the catalog no longer defines are dropped.
func Restore(cat *catalog.Catalog, raw []byte) (*State, error) {
	fresh, err := Snapshot(NewState(cat))
	if err != nil {
		return nil, err
	}
	base, err := decodeTree(fresh)
	if err != nil {
		return nil, err
	}
	saved, err := decodeTree(raw)
	if err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	merged, err := json.Marshal(mergeTree(base, saved))
	if err != nil {
		return nil, err
	}
	st := &State{}
	if err := json.Unmarshal(merged, st); err != nil {
		return nil, fmt.Errorf("decode merged save: %w", err)
	}
	reconcile(cat, st)
	return st, nil
}

func decodeTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// mergeTree overlays saved on base. Objects merge key by key, everything else
// (scalars, arrays) is replaced, and a null in the save keeps the default.
func mergeTree(base, saved any) any {
	if saved == nil {
		return base
	}
	bm, ok := base.(map[string]any)
	if !ok {
		return saved
	}
	sm, ok := saved.(map[string]any)
	if !ok {
		return saved
	}
	for k, sv := range sm {
		if bv, ok := bm[k]; ok {
			bm[k] = mergeTree(bv, sv)
			continue
		}
		bm[k] = sv
	}
	return bm
}

// reconcile prunes records the catalog no longer knows and re-establishes the
// pool and skill invariants on restored values.
func reconcile(cat *catalog.Catalog, st *State) {
	prune(st.Resources, cat.Resources)
	prune(st.StatPools, cat.StatPools)
	prune(st.Skills, cat.Skills)
	prune(st.Actions, cat.Actions)
	prune(st.Upgrades, cat.Upgrades)
	prune(st.Homes, cat.Homes)
	prune(st.Locations, cat.Locations)
	for id, r := range st.Resources {
		r.ID = id
		r.clamp()
	}
	for id, p := range st.StatPools {
		p.ID = id
		p.clamp()
	}
	for id, s := range st.Skills {
		s.ID = id
		s.Level = min(max(s.Level, 0), s.MaxLevel)
		s.Experience = max(s.Experience, 0)
		if s.Level >= s.MaxLevel {
			s.Experience = s.NextLevelExperience
		}
	}
	for id, a := range st.Actions {
		a.ID = id
		a.Progress = min(max(a.Progress, 0), 1)
	}
	for id, u := range st.Upgrades {
		u.ID = id
		u.Purchased = min(u.Purchased, u.Limit)
	}
	if _, ok := st.Actions[st.CurrentAction]; !ok {
		st.CurrentAction = ""
	}
	if _, ok := st.Actions[st.PreviousAction]; !ok {
		st.PreviousAction = ""
	}
	if len(st.Log.Entries) > LogCapacity {
		st.Log.Entries = st.Log.Entries[:LogCapacity]
	}
	if st.SpecialEffects == nil {
		st.SpecialEffects = map[string]float64{}
	}
}

func prune[R any, D any](records map[string]*R, defs map[string]D) {
	for id := range records {
		if _, ok := defs[id]; !ok {
			delete(records, id)
		}
	}
}
