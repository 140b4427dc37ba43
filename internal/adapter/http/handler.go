package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"idlerpg/internal/app/action"
	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/replay"
	"idlerpg/internal/app/save"
	"idlerpg/internal/app/status"
	"idlerpg/internal/app/upgrade"
	"idlerpg/internal/domain/idle"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	StatusUC  status.UseCase
	ActionUC  action.UseCase
	UpgradeUC upgrade.UseCase
	ReplayUC  replay.UseCase
	SaveUC    save.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/state", h.state)
	api.POST("/action/start", h.startAction)
	api.POST("/action/stop", h.stopAction)
	api.POST("/upgrade/purchase", h.purchase)
	api.POST("/class/choose", h.chooseClass)
	api.POST("/home/move", h.moveHome)
	api.GET("/log", h.log)
	api.POST("/save", h.save)
	api.POST("/save/load", h.load)
	api.GET("/save/export", h.export)
	api.POST("/save/import", h.importSave)

	s.GET("/ops/kpi", h.kpi)
}

type idRequest struct {
	ID string `json:"id"`
}

type startRequest struct {
	ActionID string `json:"action_id"`
}

type importRequest struct {
	Code string `json:"code"`
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	logLimit, _ := strconv.Atoi(string(ctx.Query("log_limit")))
	resp, err := h.StatusUC.Execute(c, status.Request{LogLimit: logLimit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) startAction(c context.Context, ctx *app.RequestContext) {
	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.ActionUC.Start(c, action.StartRequest{ActionID: body.ActionID})
	if err != nil {
		var rejected *action.RejectedError
		if errors.As(err, &rejected) {
			writeRejected(ctx, rejected.Reason, err.Error(), map[string]any{
				"action_id":      rejected.ActionID,
				"redirected":     rejected.Redirected,
				"current_action": resp.CurrentAction,
			})
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stopAction(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ActionUC.Stop(c, action.StopRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) purchase(c context.Context, ctx *app.RequestContext) {
	h.transaction(c, ctx, h.UpgradeUC.Purchase)
}

func (h Handler) chooseClass(c context.Context, ctx *app.RequestContext) {
	h.transaction(c, ctx, h.UpgradeUC.ChooseClass)
}

func (h Handler) moveHome(c context.Context, ctx *app.RequestContext) {
	h.transaction(c, ctx, h.UpgradeUC.MoveHome)
}

func (h Handler) transaction(c context.Context, ctx *app.RequestContext, run func(context.Context, upgrade.Request) (upgrade.Response, error)) {
	var body idRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := run(c, upgrade.Request{ID: body.ID})
	if err != nil {
		var rejected *upgrade.RejectedError
		if errors.As(err, &rejected) {
			writeRejected(ctx, rejected.Reason, err.Error(), map[string]any{
				"kind": rejected.Kind,
				"id":   rejected.ID,
			})
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) log(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	persisted, _ := strconv.ParseBool(string(ctx.Query("persisted")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		Limit:        limit,
		Persisted:    persisted,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SaveUC.Save(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SaveUC.Load(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) export(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SaveUC.Export(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) importSave(c context.Context, ctx *app.RequestContext) {
	var body importRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SaveUC.Import(c, save.ImportRequest{Code: body.Code})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, upgrade.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, save.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, save.ErrCorruptSave):
		writeErrorBody(ctx, consts.StatusBadRequest, "corrupt_save", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeRejected reports an engine refusal. The reason code doubles as the
// error code so clients can branch on it.
func writeRejected(ctx *app.RequestContext, reason idle.Reason, message string, details map[string]any) {
	status := consts.StatusConflict
	if reason == idle.ReasonUnknownID {
		status = consts.StatusNotFound
	}
	ctx.JSON(status, map[string]any{
		"error": map[string]any{
			"code":    string(reason),
			"message": message,
			"details": details,
		},
	})
}
