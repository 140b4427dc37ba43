package replay

import (
	"context"
	"errors"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/idle"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const maxLimit = 500

type UseCase struct {
	Session *session.Session
	Events  ports.EventRepository
}

// Execute returns narration newest first, either from the live bounded log or
// from everything saved so far.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 || req.Limit > maxLimit {
		return Response{}, ErrInvalidRequest
	}
	out := Response{PlayerID: u.Session.PlayerID()}
	if req.Persisted {
		if u.Events == nil {
			return Response{}, ErrInvalidRequest
		}
		entries, err := u.Events.ListByPlayerID(ctx, out.PlayerID, req.Limit)
		if err != nil {
			return Response{}, err
		}
		out.Entries = filterByTimeWindow(entries, req.OccurredFrom, req.OccurredTo)
		return out, nil
	}
	u.Session.View(func(e *idle.Engine) {
		out.Entries = e.State().Log.Latest(req.Limit)
	})
	out.Entries = filterByTimeWindow(out.Entries, req.OccurredFrom, req.OccurredTo)
	return out, nil
}

func filterByTimeWindow(entries []idle.LogEntry, from, to int64) []idle.LogEntry {
	if from <= 0 && to <= 0 {
		return entries
	}
	out := make([]idle.LogEntry, 0, len(entries))
	for _, entry := range entries {
		ts := entry.At.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, entry)
	}
	return out
}
