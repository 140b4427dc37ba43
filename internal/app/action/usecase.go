package action

import (
	"context"
	"errors"
	"strings"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/idle"
)

var (
	ErrInvalidRequest = errors.New("invalid action request")
	ErrActionRejected = errors.New("action rejected")
)

// RejectedError reports why the engine refused a start. Redirected is set when
// the refusal sent the character to rest instead.
type RejectedError struct {
	ActionID   string
	Reason     idle.Reason
	Redirected bool
}

func (e *RejectedError) Error() string {
	return ErrActionRejected.Error() + ": " + string(e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrActionRejected
}

type UseCase struct {
	Session *session.Session
	Metrics ports.GameMetrics
}

func (u UseCase) Start(_ context.Context, req StartRequest) (Response, error) {
	req.ActionID = strings.TrimSpace(req.ActionID)
	if req.ActionID == "" {
		return Response{}, ErrInvalidRequest
	}
	var out Response
	err := u.Session.Do(func(e *idle.Engine) error {
		startErr := e.Start(req.ActionID)
		out = snapshot(e)
		if startErr == nil {
			return nil
		}
		reason := idle.ReasonOf(startErr)
		if u.Metrics != nil {
			u.Metrics.RecordRejection(reason)
		}
		return &RejectedError{
			ActionID:   req.ActionID,
			Reason:     reason,
			Redirected: e.State().PreviousAction == req.ActionID,
		}
	})
	return out, err
}

func (u UseCase) Stop(_ context.Context, _ StopRequest) (Response, error) {
	var out Response
	_ = u.Session.Do(func(e *idle.Engine) error {
		id, ok := e.StopCurrentAction()
		out = snapshot(e)
		out.Stopped = ok
		out.StoppedAction = id
		return nil
	})
	return out, nil
}

func snapshot(e *idle.Engine) Response {
	st := e.State()
	out := Response{
		CurrentAction:  st.CurrentAction,
		PreviousAction: st.PreviousAction,
	}
	if a, ok := e.Current(); ok {
		out.Progress = a.Progress
	}
	return out
}
