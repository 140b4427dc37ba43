package inmemory

import (
	"testing"

	"idlerpg/internal/domain/idle"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSave()
	r.RecordSave()
	r.RecordConflict()
	r.RecordFailure()
	r.RecordRejection(idle.ReasonInsufficient)
	r.RecordRejection("")

	s := r.Snapshot()
	if s.SaveTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.SaveTotal)
	}
	if s.SaveSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.SaveSuccess)
	}
	if s.SaveConflict != 1 || s.SaveFailure != 1 {
		t.Fatalf("expected one conflict and one failure, got %d/%d", s.SaveConflict, s.SaveFailure)
	}
	if s.Rejections != 2 || s.ByReason[string(idle.ReasonInsufficient)] != 1 || s.ByReason["unknown"] != 1 {
		t.Fatalf("unexpected rejections %+v", s.ByReason)
	}
}

func TestRecorderObservesBus(t *testing.T) {
	r := NewRecorder()
	bus := idle.NewBus()
	r.Observe(bus)

	bus.Trigger(idle.Event{Type: idle.EventActionCompleted})
	bus.Trigger(idle.Event{Type: idle.EventActionCompleted})
	bus.Trigger(idle.Event{Type: idle.EventSkillLevelUp})

	s := r.Snapshot()
	if s.EventTotal != 3 || s.Completions != 2 || s.LevelUps != 1 {
		t.Fatalf("unexpected event counts %+v", s)
	}
	if s.ByEventType[string(idle.EventActionCompleted)] != 2 {
		t.Fatalf("expected completions by type 2")
	}
}
