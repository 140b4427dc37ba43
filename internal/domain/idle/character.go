package idle

import (
	"fmt"

	"idlerpg/internal/domain/catalog"
)

// ChooseClass picks the character class once and applies its bonuses.
func (e *Engine) ChooseClass(id string) error {
	st := e.k.st
	if st.Character.Class != "" {
		return fail(ReasonClassChosen, st.Character.Class)
	}
	def, ok := e.k.cat.Classes[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	st.Character.Class = id
	applyGainsTo(st, def.Bonuses, 1)
	e.k.narrate(EventClassChosen, fmt.Sprintf("You are now a %s.", displayName(def.Name, id)), map[string]any{"class": id})
	e.RefreshUnlocks()
	return nil
}

// MoveHome pays the home's cost and swaps the old home's bonuses for the new
// one's. Moving to the current home is a no-op.
func (e *Engine) MoveHome(id string) error {
	st := e.k.st
	h, ok := st.Homes[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if st.Home == id {
		return nil
	}
	if !h.Unlocked {
		return fail(ReasonLocked, id)
	}
	def := e.k.cat.Homes[id]
	if err := e.Ledger.Covers(def.Cost); err != nil {
		return err
	}
	e.Ledger.charge(def.Cost)
	var prev catalog.Gains
	if old, ok := e.k.cat.Homes[st.Home]; ok {
		prev = old.Bonuses
	}
	applyGainsTo(st, gainsDelta(prev, def.Bonuses), 1)
	from := st.Home
	st.Home = id
	e.k.narrate(EventHomeMoved, fmt.Sprintf("Moved into %s.", displayName(def.Name, id)), map[string]any{
		"from": from,
		"to":   id,
	})
	e.RefreshUnlocks()
	return nil
}

// DiscoverLocation marks a location found. Rediscovery is silent.
func (e *Engine) DiscoverLocation(id string) error {
	l, ok := e.k.st.Locations[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if l.Discovered {
		return nil
	}
	l.Discovered = true
	e.k.narrate(EventLocationFound, "Discovered "+displayName(e.k.cat.Locations[id].Name, id)+".", map[string]any{"location": id})
	return nil
}
