package idle

import (
	"fmt"
	"math"

	"idlerpg/internal/domain/catalog"
)

// Progression accumulates skill experience and performs level-ups.
type Progression struct {
	k *kernel
}

// AddXP grants experience and levels the skill as far as it will go. A skill
// at its ceiling keeps experience pinned at NextLevelExperience. Locked skills
// refuse experience.
func (p *Progression) AddXP(id string, amount int64) error {
	if amount < 0 {
		return fail(ReasonInvalidAmount, id)
	}
	s, ok := p.k.st.Skills[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if !s.Unlocked {
		return fail(ReasonLocked, id)
	}
	if s.Level >= s.MaxLevel {
		s.Experience = s.NextLevelExperience
		return nil
	}
	s.Experience += amount
	for s.Level < s.MaxLevel && s.Experience >= s.NextLevelExperience {
		if err := p.LevelUp(id); err != nil {
			return err
		}
	}
	if s.Level >= s.MaxLevel {
		s.Experience = s.NextLevelExperience
	}
	return nil
}

// LevelUp rolls experience over into the next level. The requirement for the
// following level grows by TierBase^tier.
func (p *Progression) LevelUp(id string) error {
	s, ok := p.k.st.Skills[id]
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if s.Level >= s.MaxLevel {
		return fail(ReasonMaxLevel, id)
	}
	if s.Experience < s.NextLevelExperience {
		return fail(ReasonNotEnoughXP, id)
	}
	s.Experience -= s.NextLevelExperience
	s.Level++
	s.NextLevelExperience = nextRequirement(s.NextLevelExperience, p.k.cat.Tuning.TierBase, s.Tier)
	p.k.narrate(EventSkillLevelUp, fmt.Sprintf("%s reached level %d.", p.k.skillName(id), s.Level), map[string]any{
		"skill": id,
		"level": s.Level,
	})
	return nil
}

func nextRequirement(current int64, base float64, tier int) int64 {
	if base <= 0 {
		base = catalog.DefaultTierBase
	}
	next := int64(math.Round(float64(current) * math.Pow(base, float64(tier))))
	if next < current {
		return current
	}
	return next
}

func (p *Progression) CanUnlock(id string) bool {
	s, ok := p.k.st.Skills[id]
	if !ok || s.Unlocked {
		return false
	}
	return p.k.requirementsMet(p.k.cat.Skills[id].Requirements)
}

func (p *Progression) CheckUnlocks() bool {
	changed := false
	for _, id := range catalog.SortedKeys(p.k.st.Skills) {
		if p.CanUnlock(id) {
			p.k.st.Skills[id].Unlocked = true
			p.k.narrate(EventUnlocked, "New skill: "+p.k.skillName(id)+".", map[string]any{"kind": "skill", "id": id})
			changed = true
		}
	}
	return changed
}
