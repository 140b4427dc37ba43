package idle

import (
	"fmt"

	"idlerpg/internal/domain/catalog"
)

// Upgrades runs one-shot purchase transactions that permanently change
// capacities, rates and special effects.
type Upgrades struct {
	k      *kernel
	ledger *Ledger
}

// CanAfford reports why a purchase would fail, or nil.
func (u *Upgrades) CanAfford(id string) error {
	up, ok := u.k.st.Upgrades[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if !up.Unlocked {
		return fail(ReasonLocked, id)
	}
	if up.SoldOut() {
		return fail(ReasonSoldOut, id)
	}
	def := u.k.cat.Upgrades[id]
	return u.ledger.Covers(def.Costs.Currencies, def.Costs.StatPools)
}

// Purchase deducts every cost and applies every gain, or changes nothing.
func (u *Upgrades) Purchase(id string) error {
	if err := u.CanAfford(id); err != nil {
		return err
	}
	def := u.k.cat.Upgrades[id]
	up := u.k.st.Upgrades[id]
	u.ledger.charge(def.Costs.Currencies, def.Costs.StatPools)
	applyGainsTo(u.k.st, def.Gains, 1)
	up.Purchased++
	name := def.Name
	if name == "" {
		name = id
	}
	msg := fmt.Sprintf("Purchased %s.", name)
	if up.Limit > 1 {
		msg = fmt.Sprintf("Purchased %s (%d/%d).", name, up.Purchased, up.Limit)
	}
	u.k.narrate(EventUpgradePurchase, msg, map[string]any{
		"upgrade":   id,
		"purchased": up.Purchased,
		"limit":     up.Limit,
	})
	return nil
}

// CheckUnlocks reveals upgrades whose thresholds are now met.
func (u *Upgrades) CheckUnlocks() bool {
	changed := false
	for _, id := range catalog.SortedKeys(u.k.st.Upgrades) {
		up := u.k.st.Upgrades[id]
		if up.Unlocked || up.SoldOut() {
			continue
		}
		def := u.k.cat.Upgrades[id]
		if !u.k.requirementsMet(def.Requirements) {
			continue
		}
		up.Unlocked = true
		name := def.Name
		if name == "" {
			name = id
		}
		u.k.narrate(EventUnlocked, "Upgrade available: "+name+".", map[string]any{"kind": "upgrade", "id": id})
		changed = true
	}
	return changed
}

// Available lists unlocked upgrades that can still be bought, in id order.
func (u *Upgrades) Available() []string {
	out := make([]string, 0)
	for _, id := range catalog.SortedKeys(u.k.st.Upgrades) {
		up := u.k.st.Upgrades[id]
		if up.Unlocked && !up.SoldOut() {
			out = append(out, id)
		}
	}
	return out
}
