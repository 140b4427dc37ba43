package save

import (
	"context"
	"errors"
	"strings"
	"time"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/catalog"
	"idlerpg/internal/domain/idle"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubSaveRepo struct {
	byPlayer map[string]ports.SaveRecord
}

func (r *stubSaveRepo) GetByPlayerID(_ context.Context, playerID string) (ports.SaveRecord, error) {
	rec, ok := r.byPlayer[playerID]
	if !ok {
		return ports.SaveRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r *stubSaveRepo) SaveWithVersion(_ context.Context, rec ports.SaveRecord, expectedVersion int64) error {
	current, ok := r.byPlayer[rec.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byPlayer[rec.PlayerID] = rec
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byPlayer[rec.PlayerID] = rec
	return nil
}

type stubEventRepo struct {
	entries []idle.LogEntry
}

// Append ignores seqs it already holds, like the sql adapters.
func (r *stubEventRepo) Append(_ context.Context, _ string, entries []idle.LogEntry) error {
	for _, e := range entries {
		if r.has(e.Seq) {
			continue
		}
		r.entries = append(r.entries, e)
	}
	return nil
}

func (r *stubEventRepo) has(seq int64) bool {
	for _, e := range r.entries {
		if e.Seq == seq {
			return true
		}
	}
	return false
}

func (r *stubEventRepo) ListByPlayerID(_ context.Context, _ string, _ int) ([]idle.LogEntry, error) {
	return r.entries, nil
}

type stubCodec struct{}

func (stubCodec) Encode(data []byte) (string, error) {
	return "CODE:" + string(data), nil
}

func (stubCodec) Decode(code string) ([]byte, error) {
	raw, ok := strings.CutPrefix(code, "CODE:")
	if !ok {
		return nil, errors.New("bad prefix")
	}
	return []byte(raw), nil
}

type stubMetrics struct {
	saves, conflicts, failures int
}

func (m *stubMetrics) RecordEvent(idle.EventType)  {}
func (m *stubMetrics) RecordRejection(idle.Reason) {}
func (m *stubMetrics) RecordSave()                 { m.saves++ }
func (m *stubMetrics) RecordConflict()             { m.conflicts++ }
func (m *stubMetrics) RecordFailure()              { m.failures++ }

func testCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Resources: map[string]catalog.ResourceDef{
			"gold": {Name: "Gold", Maximum: 100, Unlocked: true},
		},
		Actions: map[string]catalog.ActionDef{
			"rest": {Name: "Rest", Rest: true, DurationMS: 1000, Unlocked: true},
			"beg":  {Name: "Beg", DurationMS: 1000, Unlocked: true, CurrencyRewards: map[string]catalog.Reward{"gold": catalog.Fixed(3)}},
		},
		Tuning: catalog.Tuning{DefaultRestAction: "rest"},
	}
	cat.Index()
	return cat
}

func newUseCase() (UseCase, *stubSaveRepo, *stubEventRepo, *stubMetrics) {
	saves := &stubSaveRepo{byPlayer: map[string]ports.SaveRecord{}}
	events := &stubEventRepo{}
	metrics := &stubMetrics{}
	uc := UseCase{
		Session:   session.New("p-1", idle.New(testCatalog(), nil)),
		TxManager: stubTxManager{},
		Saves:     saves,
		Events:    events,
		Codec:     stubCodec{},
		Metrics:   metrics,
	}
	return uc, saves, events, metrics
}

func playBeg(uc UseCase, seconds int) {
	_ = uc.Session.Do(func(e *idle.Engine) error {
		if err := e.Start("beg"); err != nil {
			return err
		}
		for i := 0; i < seconds; i++ {
			e.Update(time.Second)
		}
		return nil
	})
}
