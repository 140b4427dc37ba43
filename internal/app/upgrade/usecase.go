package upgrade

import (
	"context"
	"errors"
	"strings"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/idle"
)

var (
	ErrInvalidRequest = errors.New("invalid upgrade request")
	ErrRejected       = errors.New("purchase rejected")
)

// RejectedError carries the engine's reason code for a refused transaction.
type RejectedError struct {
	Kind   string
	ID     string
	Reason idle.Reason
}

func (e *RejectedError) Error() string {
	return ErrRejected.Error() + ": " + e.Kind + " " + e.ID + ": " + string(e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// UseCase covers the one-shot transactions: upgrades, class pick and home move.
type UseCase struct {
	Session *session.Session
	Metrics ports.GameMetrics
}

type Request struct {
	ID string
}

type Response struct {
	ID        string             `json:"id"`
	Purchased int                `json:"purchased,omitempty"`
	Limit     int                `json:"limit,omitempty"`
	Class     string             `json:"class,omitempty"`
	Home      string             `json:"home,omitempty"`
	Resources map[string]float64 `json:"resources"`
}

func (u UseCase) Purchase(_ context.Context, req Request) (Response, error) {
	return u.run(req, "upgrade", func(e *idle.Engine, id string) error {
		return e.Upgrades.Purchase(id)
	})
}

func (u UseCase) ChooseClass(_ context.Context, req Request) (Response, error) {
	return u.run(req, "class", func(e *idle.Engine, id string) error {
		return e.ChooseClass(id)
	})
}

func (u UseCase) MoveHome(_ context.Context, req Request) (Response, error) {
	return u.run(req, "home", func(e *idle.Engine, id string) error {
		return e.MoveHome(id)
	})
}

func (u UseCase) run(req Request, kind string, apply func(*idle.Engine, string) error) (Response, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return Response{}, ErrInvalidRequest
	}
	var out Response
	err := u.Session.Do(func(e *idle.Engine) error {
		if err := apply(e, id); err != nil {
			reason := idle.ReasonOf(err)
			if u.Metrics != nil {
				u.Metrics.RecordRejection(reason)
			}
			return &RejectedError{Kind: kind, ID: id, Reason: reason}
		}
		st := e.State()
		out = Response{ID: id, Class: st.Character.Class, Home: st.Home, Resources: map[string]float64{}}
		if up, ok := st.Upgrades[id]; ok && kind == "upgrade" {
			out.Purchased = up.Purchased
			out.Limit = up.Limit
		}
		for rid, r := range st.Resources {
			if r.Unlocked {
				out.Resources[rid] = r.Current
			}
		}
		return nil
	})
	return out, err
}
