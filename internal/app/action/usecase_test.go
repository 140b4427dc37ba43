package action

import (
	"context"
	"errors"
	"testing"
)

func TestStartRunsAction(t *testing.T) {
	uc := UseCase{Session: newTestSession(), Metrics: &stubMetrics{}}
	resp, err := uc.Start(context.Background(), StartRequest{ActionID: " sweep "})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resp.CurrentAction != "sweep" {
		t.Fatalf("expected sweep current, got %q", resp.CurrentAction)
	}
}

func TestStartRejectsEmptyID(t *testing.T) {
	uc := UseCase{Session: newTestSession()}
	if _, err := uc.Start(context.Background(), StartRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestStartReportsReasonAndRedirect(t *testing.T) {
	metrics := &stubMetrics{}
	uc := UseCase{Session: newTestSession(), Metrics: metrics}

	resp, err := uc.Start(context.Background(), StartRequest{ActionID: "chop"})
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if !errors.Is(err, ErrActionRejected) {
		t.Fatalf("expected ErrActionRejected in chain")
	}
	if rejected.Reason != "insufficient" || !rejected.Redirected {
		t.Fatalf("unexpected rejection %+v", rejected)
	}
	if resp.CurrentAction != "rest" || resp.PreviousAction != "chop" {
		t.Fatalf("expected rest with chop parked, got %+v", resp)
	}
	if len(metrics.rejections) != 1 {
		t.Fatalf("expected one rejection recorded, got %d", len(metrics.rejections))
	}

	_, err = uc.Start(context.Background(), StartRequest{ActionID: "duel"})
	if !errors.As(err, &rejected) || rejected.Reason != "locked" || rejected.Redirected {
		t.Fatalf("expected locked rejection, got %v", err)
	}
}

func TestStopReportsStoppedAction(t *testing.T) {
	uc := UseCase{Session: newTestSession()}
	if _, err := uc.Start(context.Background(), StartRequest{ActionID: "sweep"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := uc.Stop(context.Background(), StopRequest{})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !resp.Stopped || resp.StoppedAction != "sweep" || resp.CurrentAction != "" {
		t.Fatalf("unexpected stop response %+v", resp)
	}
	resp, _ = uc.Stop(context.Background(), StopRequest{})
	if resp.Stopped {
		t.Fatalf("second stop should report nothing stopped")
	}
}
