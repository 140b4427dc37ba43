package idle

import (
	"time"

	"idlerpg/internal/domain/catalog"
)

// Ledger grants and spends pool amounts and evaluates resource unlocks. Both
// currencies and stat pools are addressed by id.
type Ledger struct {
	k *kernel
}

// Grant adds amount, clamped at the pool maximum, and returns what was applied.
func (l *Ledger) Grant(id string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, fail(ReasonInvalidAmount, id)
	}
	p, ok := l.k.st.pool(id)
	if !ok {
		return 0, fail(ReasonMissingResource, id)
	}
	return p.Add(amount), nil
}

// Spend deducts exactly amount or nothing at all.
func (l *Ledger) Spend(id string, amount float64) error {
	if amount < 0 {
		return fail(ReasonInvalidAmount, id)
	}
	p, ok := l.k.st.pool(id)
	if !ok {
		return fail(ReasonMissingResource, id)
	}
	if !p.Has(amount) {
		return fail(ReasonInsufficient, id)
	}
	p.Add(-amount)
	return nil
}

// MaxChange moves a pool's capacity. Holdings above a lowered capacity are
// clamped down to it.
func (l *Ledger) MaxChange(id string, delta float64) error {
	p, ok := l.k.st.pool(id)
	if !ok {
		return fail(ReasonMissingResource, id)
	}
	p.Resize(delta)
	return nil
}

func (l *Ledger) Amount(id string) (float64, bool) {
	p, ok := l.k.st.pool(id)
	if !ok {
		return 0, false
	}
	return p.Current, true
}

// Covers checks every cost against instantaneous levels without reserving.
func (l *Ledger) Covers(costs ...map[string]float64) error {
	for _, m := range costs {
		for _, id := range catalog.SortedKeys(m) {
			p, ok := l.k.st.pool(id)
			if !ok {
				return fail(ReasonMissingResource, id)
			}
			if !p.Has(m[id]) {
				return fail(ReasonInsufficient, id)
			}
		}
	}
	return nil
}

// charge drains costs, stopping at each pool's floor.
func (l *Ledger) charge(costs ...map[string]float64) {
	for _, m := range costs {
		for _, id := range catalog.SortedKeys(m) {
			if p, ok := l.k.st.pool(id); ok {
				p.Drain(m[id])
			}
		}
	}
}

// CanUnlock evaluates the requirement list of a locked currency or stat pool.
// Already unlocked and unknown ids report false.
func (l *Ledger) CanUnlock(id string) bool {
	if r, ok := l.k.st.Resources[id]; ok {
		if r.Unlocked {
			return false
		}
		return l.k.requirementsMet(l.k.cat.Resources[id].Requirements)
	}
	if p, ok := l.k.st.StatPools[id]; ok {
		if p.Unlocked {
			return false
		}
		return l.k.requirementsMet(l.k.cat.StatPools[id].Requirements)
	}
	return false
}

// CheckUnlocks sweeps every pool once and reports whether anything flipped.
func (l *Ledger) CheckUnlocks() bool {
	changed := false
	for _, id := range catalog.SortedKeys(l.k.st.Resources) {
		if l.CanUnlock(id) {
			l.k.st.Resources[id].Unlocked = true
			l.k.narrate(EventUnlocked, "Unlocked "+l.k.poolName(id)+".", map[string]any{"kind": "resource", "id": id})
			changed = true
		}
	}
	for _, id := range catalog.SortedKeys(l.k.st.StatPools) {
		if l.CanUnlock(id) {
			l.k.st.StatPools[id].Unlocked = true
			l.k.narrate(EventUnlocked, "Unlocked "+l.k.poolName(id)+".", map[string]any{"kind": "stat_pool", "id": id})
			changed = true
		}
	}
	return changed
}

// Regenerate applies passive accrual for dt: generation rates, stat pool regen
// and resources that feed other pools. Everything clamps at capacity.
func (l *Ledger) Regenerate(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	st := l.k.st
	for _, id := range catalog.SortedKeys(st.Resources) {
		r := st.Resources[id]
		if !r.Unlocked {
			continue
		}
		if r.Regenerates() {
			r.Add(r.GenerationRate * secs)
		}
		gen := l.k.cat.Resources[id].GeneratesOther
		for _, target := range catalog.SortedKeys(gen) {
			if p, ok := st.pool(target); ok {
				p.Add(gen[target] * r.Current * secs)
			}
		}
	}
	for _, id := range catalog.SortedKeys(st.StatPools) {
		p := st.StatPools[id]
		if p.Unlocked && p.Regenerates() {
			p.Add(p.RegenRate * secs)
		}
	}
}
