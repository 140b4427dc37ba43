package catalog

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks cross references between categories. Every problem found is
// reported; the result unwraps to ErrInvalidCatalog.
func (c *Catalog) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	pool := func(where, id string) {
		if !c.IsCurrency(id) && !c.IsStatPool(id) {
			bad("%s: unknown pool %q", where, id)
		}
	}
	currency := func(where, id string) {
		if !c.IsCurrency(id) {
			bad("%s: unknown resource %q", where, id)
		}
	}
	statPool := func(where, id string) {
		if !c.IsStatPool(id) {
			bad("%s: unknown stat pool %q", where, id)
		}
	}
	reqs := func(where string, rs Requirements) {
		for _, r := range rs {
			switch r := r.(type) {
			case ResourceAtLeast:
				pool(where, r.Resource)
			case SkillLevelAtLeast:
				if _, ok := c.Skills[r.Skill]; !ok {
					bad("%s: unknown skill %q", where, r.Skill)
				}
			case LocationDiscovered:
				if _, ok := c.Locations[r.Location]; !ok {
					bad("%s: unknown location %q", where, r.Location)
				}
			case ClassEquals:
				if _, ok := c.Classes[r.Class]; !ok {
					bad("%s: unknown class %q", where, r.Class)
				}
			}
		}
	}
	gains := func(where string, g Gains) {
		for _, id := range SortedKeys(g.CurrencyMaximum) {
			currency(where, id)
		}
		for _, id := range SortedKeys(g.CurrencyGeneration) {
			currency(where, id)
		}
		for _, id := range SortedKeys(g.StatPoolMaximum) {
			statPool(where, id)
		}
		for _, id := range SortedKeys(g.StatPoolRegen) {
			statPool(where, id)
		}
	}

	for _, id := range SortedKeys(c.Resources) {
		d := c.Resources[id]
		where := "resources." + id
		if !d.Unbounded && d.Maximum < 0 {
			bad("%s: negative maximum", where)
		}
		for _, other := range SortedKeys(d.GeneratesOther) {
			pool(where, other)
		}
		reqs(where, d.Requirements)
	}
	for _, id := range SortedKeys(c.StatPools) {
		d := c.StatPools[id]
		if d.Maximum <= 0 {
			bad("stat_pools.%s: maximum must be positive", id)
		}
		reqs("stat_pools."+id, d.Requirements)
	}
	for _, id := range SortedKeys(c.Skills) {
		d := c.Skills[id]
		where := "skills." + id
		if d.MaxLevel < 1 {
			bad("%s: max_level must be at least 1", where)
		}
		if d.NextLevelExperience <= 0 {
			bad("%s: next_level_experience must be positive", where)
		}
		if d.Tier < 0 {
			bad("%s: negative tier", where)
		}
		reqs(where, d.Requirements)
	}
	for _, id := range SortedKeys(c.Actions) {
		d := c.Actions[id]
		where := "actions." + id
		if d.DurationMS <= 0 {
			bad("%s: duration_ms must be positive", where)
		}
		for _, p := range SortedKeys(d.StatPoolCosts) {
			statPool(where, p)
		}
		for _, p := range SortedKeys(d.CurrencyCosts) {
			currency(where, p)
		}
		for _, p := range SortedKeys(d.CurrencyRewards) {
			currency(where, p)
		}
		for _, p := range SortedKeys(d.StatPoolRestoration) {
			statPool(where, p)
		}
		for _, s := range SortedKeys(d.SkillExperience) {
			if _, ok := c.Skills[s]; !ok {
				bad("%s: unknown skill %q", where, s)
			}
		}
		for _, l := range d.DiscoverLocations {
			if _, ok := c.Locations[l]; !ok {
				bad("%s: unknown location %q", where, l)
			}
		}
		if d.MaxPurchases < 0 {
			bad("%s: negative max_purchases", where)
		}
		reqs(where, d.Requirements)
	}
	for _, id := range SortedKeys(c.Upgrades) {
		d := c.Upgrades[id]
		where := "upgrades." + id
		if d.NumberOfPurchasesPossible < 1 {
			bad("%s: purchases must be at least 1", where)
		}
		for _, p := range SortedKeys(d.Costs.Currencies) {
			currency(where, p)
		}
		for _, p := range SortedKeys(d.Costs.StatPools) {
			statPool(where, p)
		}
		gains(where, d.Gains)
		reqs(where, d.Requirements)
	}
	for _, id := range SortedKeys(c.Classes) {
		gains("classes."+id, c.Classes[id].Bonuses)
	}
	for _, id := range SortedKeys(c.Homes) {
		d := c.Homes[id]
		where := "homes." + id
		for _, p := range SortedKeys(d.Cost) {
			currency(where, p)
		}
		gains(where, d.Bonuses)
		reqs(where, d.Requirements)
	}

	rest, ok := c.Actions[c.Tuning.DefaultRestAction]
	switch {
	case c.Tuning.DefaultRestAction == "":
		bad("tuning.default_rest_action: required")
	case !ok:
		bad("tuning.default_rest_action: unknown action %q", c.Tuning.DefaultRestAction)
	case !rest.Rest:
		bad("tuning.default_rest_action: %q is not a rest action", c.Tuning.DefaultRestAction)
	}
	if h := c.Tuning.StartingHome; h != "" {
		if _, ok := c.Homes[h]; !ok {
			bad("tuning.starting_home: unknown home %q", h)
		}
	}
	for i, imp := range c.Tuning.Improvements {
		if imp.AtCompletions < 1 {
			bad("tuning.improvements[%d]: at_completions must be at least 1", i)
		}
		if imp.Action != "" {
			if _, ok := c.Actions[imp.Action]; !ok {
				bad("tuning.improvements[%d]: unknown action %q", i, imp.Action)
			}
		}
		if imp.DurationMultiplier < 0 || imp.RewardMultiplier < 0 {
			bad("tuning.improvements[%d]: negative multiplier", i)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
}
