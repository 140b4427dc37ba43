package status

import (
	"context"
	"math"

	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/catalog"
	"idlerpg/internal/domain/idle"
)

const defaultLogLimit = 20

type UseCase struct {
	Session *session.Session
}

// Execute renders the unlocked part of the state for a client.
func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	limit := req.LogLimit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	var out Response
	u.Session.View(func(e *idle.Engine) {
		out = render(e, limit)
	})
	return out, nil
}

func render(e *idle.Engine, logLimit int) Response {
	st := e.State()
	cat := e.Catalog()
	out := Response{
		PlayerID:       st.PlayerID,
		Character:      st.Character,
		Home:           st.Home,
		CurrentAction:  st.CurrentAction,
		PreviousAction: st.PreviousAction,
		Resources:      []PoolView{},
		StatPools:      []PoolView{},
		Skills:         []SkillView{},
		Actions:        []ActionView{},
		Upgrades:       []UpgradeView{},
		Homes:          []string{},
		Locations:      []string{},
		SpecialEffects: map[string]float64{},
		Log:            st.Log.Latest(logLimit),
	}
	for _, id := range catalog.SortedKeys(st.Resources) {
		r := st.Resources[id]
		if !r.Unlocked {
			continue
		}
		out.Resources = append(out.Resources, PoolView{
			ID: id, Name: nameOr(cat.Resources[id].Name, id),
			Current: r.Current, Max: r.Max, Unbounded: r.Unbounded, Rate: r.GenerationRate,
		})
	}
	for _, id := range catalog.SortedKeys(st.StatPools) {
		p := st.StatPools[id]
		if !p.Unlocked {
			continue
		}
		out.StatPools = append(out.StatPools, PoolView{
			ID: id, Name: nameOr(cat.StatPools[id].Name, id),
			Current: p.Current, Max: p.Max, Rate: p.RegenRate,
		})
	}
	for _, id := range catalog.SortedKeys(st.Skills) {
		s := st.Skills[id]
		if !s.Unlocked {
			continue
		}
		out.Skills = append(out.Skills, SkillView{
			ID: id, Name: nameOr(cat.Skills[id].Name, id),
			Level: s.Level, MaxLevel: s.MaxLevel, Experience: s.Experience, NextLevelExperience: s.NextLevelExperience,
		})
	}
	for _, id := range catalog.SortedKeys(st.Actions) {
		a := st.Actions[id]
		if !a.Unlocked {
			continue
		}
		view := ActionView{
			ID: id, Name: nameOr(cat.Actions[id].Name, id), Rest: a.Rest,
			ProgressPercent: int(math.Floor(a.Progress * 100)), DurationMS: a.BaseDurationMS,
			Completions: a.CompletionCount, Available: true,
		}
		if err := e.CanStart(id); err != nil {
			view.Available = false
			view.BlockedBy = string(idle.ReasonOf(err))
		}
		out.Actions = append(out.Actions, view)
	}
	for _, id := range catalog.SortedKeys(st.Upgrades) {
		up := st.Upgrades[id]
		if !up.Unlocked {
			continue
		}
		view := UpgradeView{
			ID: id, Name: nameOr(cat.Upgrades[id].Name, id),
			Purchased: up.Purchased, Limit: up.Limit, Available: true,
		}
		if err := e.Upgrades.CanAfford(id); err != nil {
			view.Available = false
			view.BlockedBy = string(idle.ReasonOf(err))
		}
		out.Upgrades = append(out.Upgrades, view)
	}
	for _, id := range catalog.SortedKeys(st.Homes) {
		if st.Homes[id].Unlocked {
			out.Homes = append(out.Homes, id)
		}
	}
	for _, id := range catalog.SortedKeys(st.Locations) {
		if st.Locations[id].Discovered {
			out.Locations = append(out.Locations, id)
		}
	}
	for k, v := range st.SpecialEffects {
		out.SpecialEffects[k] = v
	}
	return out
}

func nameOr(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
