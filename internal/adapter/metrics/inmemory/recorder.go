package inmemory

import (
	"sync"

	"idlerpg/internal/domain/idle"
)

type Snapshot struct {
	EventTotal   uint64            `json:"event_total"`
	ByEventType  map[string]uint64 `json:"by_event_type"`
	Rejections   uint64            `json:"rejections"`
	ByReason     map[string]uint64 `json:"by_reason"`
	SaveSuccess  uint64            `json:"save_success"`
	SaveConflict uint64            `json:"save_conflict"`
	SaveFailure  uint64            `json:"save_failure"`
	SaveTotal    uint64            `json:"save_total"`
	Completions  uint64            `json:"completions"`
	LevelUps     uint64            `json:"level_ups"`
	ForcedRests  uint64            `json:"forced_rests"`
}

type Recorder struct {
	mu       sync.Mutex
	events   map[string]uint64
	reasons  map[string]uint64
	saves    uint64
	conflict uint64
	failure  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		events:  map[string]uint64{},
		reasons: map[string]uint64{},
	}
}

// Observe subscribes the recorder to every engine event on bus.
func (r *Recorder) Observe(bus *idle.Bus) {
	bus.On(idle.AllEvents, func(evt idle.Event) {
		r.RecordEvent(evt.Type)
	})
}

func (r *Recorder) RecordEvent(eventType idle.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[string(eventType)]++
}

func (r *Recorder) RecordRejection(reason idle.Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason == "" {
		reason = "unknown"
	}
	r.reasons[string(reason)]++
}

func (r *Recorder) RecordSave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ByEventType:  make(map[string]uint64, len(r.events)),
		ByReason:     make(map[string]uint64, len(r.reasons)),
		SaveSuccess:  r.saves,
		SaveConflict: r.conflict,
		SaveFailure:  r.failure,
		SaveTotal:    r.saves + r.conflict + r.failure,
		Completions:  r.events[string(idle.EventActionCompleted)],
		LevelUps:     r.events[string(idle.EventSkillLevelUp)],
		ForcedRests:  r.events[string(idle.EventForcedRest)],
	}
	for k, v := range r.events {
		out.ByEventType[k] = v
		out.EventTotal += v
	}
	for k, v := range r.reasons {
		out.ByReason[k] = v
		out.Rejections += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
