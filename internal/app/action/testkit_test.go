package action

import (
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/catalog"
	"idlerpg/internal/domain/idle"
)

type stubMetrics struct {
	rejections []idle.Reason
}

func (m *stubMetrics) RecordEvent(idle.EventType) {}
func (m *stubMetrics) RecordSave()                {}
func (m *stubMetrics) RecordConflict()            {}
func (m *stubMetrics) RecordFailure()             {}
func (m *stubMetrics) RecordRejection(reason idle.Reason) {
	m.rejections = append(m.rejections, reason)
}

func newTestSession() *session.Session {
	cat := &catalog.Catalog{
		StatPools: map[string]catalog.StatPoolDef{
			"stamina": {Initial: 2, Maximum: 10, Unlocked: true},
		},
		Actions: map[string]catalog.ActionDef{
			"rest":  {Rest: true, DurationMS: 1000, Unlocked: true},
			"chop":  {DurationMS: 4000, Unlocked: true, StatPoolCosts: map[string]float64{"stamina": 5}},
			"sweep": {DurationMS: 1000, Unlocked: true},
			"duel":  {DurationMS: 1000},
		},
		Tuning: catalog.Tuning{DefaultRestAction: "rest"},
	}
	cat.Index()
	return session.New("p-1", idle.New(cat, nil))
}
