package save

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/idle"
)

var (
	ErrInvalidRequest = errors.New("invalid save request")
	ErrCorruptSave    = errors.New("corrupt save")
)

type UseCase struct {
	Session   *session.Session
	TxManager ports.TxManager
	Saves     ports.SaveRepository
	Events    ports.EventRepository
	Codec     ports.SaveCodec
	Metrics   ports.GameMetrics
	Now       func() time.Time
}

type Response struct {
	PlayerID         string    `json:"player_id"`
	Version          int64     `json:"version"`
	SavedAt          time.Time `json:"saved_at,omitempty"`
	PersistedEntries int       `json:"persisted_entries"`
}

type ExportResponse struct {
	PlayerID string `json:"player_id"`
	Code     string `json:"code"`
}

type ImportRequest struct {
	Code string
}

// Save writes the snapshot with an optimistic version check and appends log
// entries not yet persisted, in one transaction.
func (u UseCase) Save(ctx context.Context) (Response, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	var (
		data     []byte
		pending  []idle.LogEntry
		expected int64
		prevSeq  int64
	)
	err := u.Session.Do(func(e *idle.Engine) error {
		st := e.State()
		expected = st.Version
		prevSeq = st.PersistedLogSeq
		pending = st.Log.Since(prevSeq)
		st.Version = expected + 1
		st.PersistedLogSeq = st.Log.LastSeq
		var err error
		data, err = idle.Snapshot(st)
		if err != nil {
			st.Version = expected
			st.PersistedLogSeq = prevSeq
		}
		return err
	})
	if err != nil {
		u.recordFailure(err)
		return Response{}, err
	}

	out := Response{
		PlayerID:         u.Session.PlayerID(),
		Version:          expected + 1,
		SavedAt:          nowFn(),
		PersistedEntries: len(pending),
	}
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		record := ports.SaveRecord{PlayerID: out.PlayerID, Version: out.Version, Data: data, SavedAt: out.SavedAt}
		if err := u.Saves.SaveWithVersion(txCtx, record, expected); err != nil {
			return err
		}
		if u.Events == nil || len(pending) == 0 {
			return nil
		}
		return u.Events.Append(txCtx, out.PlayerID, pending)
	})
	if err != nil {
		_ = u.Session.Do(func(e *idle.Engine) error {
			st := e.State()
			if st.Version == out.Version {
				st.Version = expected
				st.PersistedLogSeq = prevSeq
			}
			return nil
		})
		u.recordFailure(err)
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordSave()
	}
	return out, nil
}

// Load replaces the session state with the stored save merged over fresh
// defaults.
func (u UseCase) Load(ctx context.Context) (Response, error) {
	playerID := u.Session.PlayerID()
	var record ports.SaveRecord
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		record, err = u.Saves.GetByPlayerID(txCtx, playerID)
		return err
	})
	if err != nil {
		return Response{}, err
	}
	st, err := u.restore(record.Data)
	if err != nil {
		return Response{}, err
	}
	st.Version = record.Version
	u.Session.Replace(st)
	return Response{PlayerID: playerID, Version: record.Version, SavedAt: record.SavedAt}, nil
}

func (u UseCase) Export(_ context.Context) (ExportResponse, error) {
	var data []byte
	err := u.Session.Do(func(e *idle.Engine) error {
		var err error
		data, err = idle.Snapshot(e.State())
		return err
	})
	if err != nil {
		return ExportResponse{}, err
	}
	code, err := u.Codec.Encode(data)
	if err != nil {
		return ExportResponse{}, err
	}
	return ExportResponse{PlayerID: u.Session.PlayerID(), Code: code}, nil
}

// Import installs an exported save. The session keeps its player id and save
// version so the next Save continues the current history.
func (u UseCase) Import(_ context.Context, req ImportRequest) (Response, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return Response{}, ErrInvalidRequest
	}
	data, err := u.Codec.Decode(code)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	st, err := u.restore(data)
	if err != nil {
		return Response{}, err
	}
	playerID := u.Session.PlayerID()
	var version int64
	_ = u.Session.Do(func(e *idle.Engine) error {
		cur := e.State()
		version = cur.Version
		st.Version = version
		st.PlayerID = playerID
		// Imported narration is renumbered past everything this player has
		// logged so persisted seqs stay unique.
		st.Log.Rebase(cur.Log.LastSeq)
		st.PersistedLogSeq = st.Log.LastSeq
		e.Replace(st)
		return nil
	})
	return Response{PlayerID: playerID, Version: version}, nil
}

func (u UseCase) restore(data []byte) (*idle.State, error) {
	var (
		st  *idle.State
		err error
	)
	u.Session.View(func(e *idle.Engine) {
		st, err = idle.Restore(e.Catalog(), data)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	return st, nil
}

func (u UseCase) recordFailure(err error) {
	if u.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		u.Metrics.RecordConflict()
		return
	}
	u.Metrics.RecordFailure()
}
