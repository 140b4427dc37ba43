package idle

import (
	"math/rand/v2"
	"testing"
	"time"

	"idlerpg/internal/domain/catalog"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Resources: map[string]catalog.ResourceDef{
			"gold":     {Name: "Gold", Maximum: 100, Unlocked: true},
			"wood":     {Name: "Wood", Maximum: 50, Unlocked: true},
			"stone":    {Name: "Stone", Unbounded: true, Unlocked: true},
			"research": {Name: "Research", Maximum: 20, Requirements: catalog.Requirements{catalog.ResourceAtLeast{Resource: "gold", Amount: 10}}},
			"mana":     {Name: "Mana", Maximum: 5, Requirements: catalog.Requirements{catalog.Unrecognized{Keys: []string{"moon"}}}},
		},
		StatPools: map[string]catalog.StatPoolDef{
			"stamina": {Name: "Stamina", Initial: 10, Maximum: 10, RegenRate: 1, Unlocked: true},
			"health":  {Name: "Health", Initial: 10, Maximum: 10, Unlocked: true},
		},
		Skills: map[string]catalog.SkillDef{
			"woodcutting": {Name: "Woodcutting", MaxLevel: 3, Tier: 1, NextLevelExperience: 100, Unlocked: true},
			"masonry":     {Name: "Masonry", MaxLevel: 5, Tier: 2, NextLevelExperience: 50, Requirements: catalog.Requirements{catalog.SkillLevelAtLeast{Skill: "woodcutting", Level: 1}}},
		},
		Actions: map[string]catalog.ActionDef{
			"rest": {
				Name: "Rest", Rest: true, DurationMS: 1000, Unlocked: true,
				StatPoolRestoration: map[string]catalog.Reward{"stamina": catalog.Fixed(5)},
			},
			"chop": {
				Name: "Chop Wood", DurationMS: 4000, Unlocked: true,
				StatPoolCosts:   map[string]float64{"stamina": 5},
				CurrencyRewards: map[string]catalog.Reward{"wood": catalog.Fixed(2)},
				SkillExperience: map[string]catalog.Reward{"woodcutting": catalog.Fixed(10)},
			},
			"beg": {
				Name: "Beg", DurationMS: 1000, Unlocked: true,
				CurrencyRewards: map[string]catalog.Reward{"gold": catalog.Fixed(5)},
			},
			"dig": {
				Name: "Dig", DurationMS: 1000, Unlocked: true,
				CurrencyRewards: map[string]catalog.Reward{"stone": catalog.Range(1, 3)},
			},
			"explore": {
				Name: "Explore", DurationMS: 2000, Unlocked: true, MaxPurchases: 1,
				DiscoverLocations: []string{"forest"},
			},
			"lecture": {
				Name: "Lecture", DurationMS: 1000,
				Requirements: catalog.Requirements{catalog.ClassEquals{Class: "scholar"}},
			},
		},
		Upgrades: map[string]catalog.UpgradeDef{
			"pack": {
				Name: "Bigger Pack", Unlocked: true, NumberOfPurchasesPossible: 2,
				Costs: catalog.Costs{Currencies: map[string]float64{"gold": 10}, StatPools: map[string]float64{"stamina": 5}},
				Gains: catalog.Gains{CurrencyMaximum: map[string]float64{"wood": 25}, SpecialEffects: map[string]float64{"maxSimultaneousActions": 1}},
			},
			"ledger": {
				Name: "Ledger", NumberOfPurchasesPossible: 1,
				Costs:        catalog.Costs{Currencies: map[string]float64{"gold": 5}},
				Gains:        catalog.Gains{CurrencyGeneration: map[string]float64{"gold": 1}},
				Requirements: catalog.Requirements{catalog.ResourceAtLeast{Resource: "gold", Amount: 30}},
			},
		},
		Classes: map[string]catalog.ClassDef{
			"warrior": {Name: "Warrior", Bonuses: catalog.Gains{StatPoolMaximum: map[string]float64{"stamina": 5}}},
			"scholar": {Name: "Scholar"},
		},
		Homes: map[string]catalog.HomeDef{
			"tent":  {Name: "Tent", Bonuses: catalog.Gains{CurrencyMaximum: map[string]float64{"wood": 10}}},
			"cabin": {Name: "Cabin", Cost: map[string]float64{"gold": 20}, Bonuses: catalog.Gains{CurrencyMaximum: map[string]float64{"wood": 50}}, Requirements: catalog.Requirements{catalog.LocationDiscovered{Location: "forest"}}},
		},
		Locations: map[string]catalog.LocationDef{
			"forest": {Name: "Forest"},
		},
		Tuning: catalog.Tuning{
			DefaultRestAction: "rest",
			StartingHome:      "tent",
			Improvements: []catalog.Improvement{
				{Action: "beg", AtCompletions: 2, DurationMultiplier: 0.5, RewardMultiplier: 2},
			},
		},
	}
	cat.Index()
	return cat
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat := testCatalog()
	if err := cat.Validate(); err != nil {
		t.Fatalf("fixture catalog invalid: %v", err)
	}
	return New(cat, nil,
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithClock(func() time.Time { return testNow }),
	)
}

func mustStart(t *testing.T, e *Engine, id string) {
	t.Helper()
	if err := e.Start(id); err != nil {
		t.Fatalf("start %s: %v", id, err)
	}
}

func assertPoolBounds(t *testing.T, st *State) {
	t.Helper()
	for id, r := range st.Resources {
		if r.Current < 0 || (!r.Unbounded && r.Current > r.Max) {
			t.Fatalf("resource %s out of bounds: %v/%v", id, r.Current, r.Max)
		}
	}
	for id, p := range st.StatPools {
		if p.Current < 0 || p.Current > p.Max {
			t.Fatalf("stat pool %s out of bounds: %v/%v", id, p.Current, p.Max)
		}
	}
}
