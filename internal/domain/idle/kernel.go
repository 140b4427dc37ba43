package idle

import (
	"time"

	"idlerpg/internal/domain/catalog"
)

// kernel is what every component shares: definitions, the state being mutated,
// the notifier and the clock used for timestamps.
type kernel struct {
	cat *catalog.Catalog
	st  *State
	bus *Bus
	now func() time.Time
}

// narrate appends to the action log and notifies subscribers.
func (k *kernel) narrate(t EventType, msg string, payload map[string]any) {
	at := k.now()
	k.st.Log.Add(msg, at)
	k.st.UpdatedAt = at
	k.bus.Trigger(Event{Type: t, OccurredAt: at, Message: msg, Payload: payload})
}

// requirementsMet ANDs the list. Unknown variants never hold.
func (k *kernel) requirementsMet(rs catalog.Requirements) bool {
	for _, r := range rs {
		if !k.holds(r) {
			return false
		}
	}
	return true
}

func (k *kernel) holds(r catalog.Requirement) bool {
	switch r := r.(type) {
	case catalog.ResourceAtLeast:
		p, ok := k.st.pool(r.Resource)
		return ok && p.Has(r.Amount)
	case catalog.SkillLevelAtLeast:
		s, ok := k.st.Skills[r.Skill]
		return ok && s.Level >= r.Level
	case catalog.LocationDiscovered:
		l, ok := k.st.Locations[r.Location]
		return ok && l.Discovered
	case catalog.ClassEquals:
		return k.st.Character.Class != "" && k.st.Character.Class == r.Class
	default:
		return false
	}
}

func (k *kernel) actionName(id string) string {
	if d, ok := k.cat.Actions[id]; ok && d.Name != "" {
		return d.Name
	}
	return id
}

func (k *kernel) poolName(id string) string {
	if d, ok := k.cat.Resources[id]; ok && d.Name != "" {
		return d.Name
	}
	if d, ok := k.cat.StatPools[id]; ok && d.Name != "" {
		return d.Name
	}
	return id
}

func (k *kernel) skillName(id string) string {
	if d, ok := k.cat.Skills[id]; ok && d.Name != "" {
		return d.Name
	}
	return id
}
