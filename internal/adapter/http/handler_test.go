package httpadapter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"idlerpg/internal/app/action"
	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/save"
	"idlerpg/internal/domain/idle"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestState_ReturnsSnakeCaseView(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.state, "", "/api/state?log_limit=5")

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	for _, key := range []string{"player_id", "current_action", "resources", "stat_pools", "actions", "upgrades", "home"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("expected key %q in %s", key, ctx.Response.Body())
		}
	}
	if got := body["player_id"]; got != "player-1" {
		t.Fatalf("unexpected player id %v", got)
	}
	if got := body["home"]; got != "tent" {
		t.Fatalf("expected starting home tent, got %v", got)
	}
}

func TestStartAction_OK(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.startAction, `{"action_id":"beg"}`, "")

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	if got := decodeBody(t, ctx)["current_action"]; got != "beg" {
		t.Fatalf("expected current_action beg, got %v", got)
	}
}

func TestStartAction_UnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.startAction, `{"action_id":"fly"}`, "")

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), string(idle.ReasonUnknownID); got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestStartAction_UnaffordableRedirectsToRest(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.startAction, `{"action_id":"chop"}`, "")

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	errObj, _ := decodeBody(t, ctx)["error"].(map[string]any)
	if got, want := errObj["code"], string(idle.ReasonInsufficient); got != want {
		t.Fatalf("error code mismatch: got=%v want=%v", got, want)
	}
	details, _ := errObj["details"].(map[string]any)
	if details["redirected"] != true || details["current_action"] != "rest" {
		t.Fatalf("expected redirect to rest, got %v", details)
	}
	if got := f.kpi.Snapshot().ByReason[string(idle.ReasonInsufficient)]; got != 1 {
		t.Fatalf("expected rejection recorded, got %d", got)
	}
}

func TestStartAction_InvalidJSONAndMissingID(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.startAction, `{`, "")
	if got, want := errorCode(t, ctx), "invalid_json"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
	ctx = call(f.h.startAction, `{}`, "")
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "bad_request"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestStopAction_ReportsPausedAction(t *testing.T) {
	f := newFixture(t)
	call(f.h.startAction, `{"action_id":"beg"}`, "")
	ctx := call(f.h.stopAction, "", "")

	body := decodeBody(t, ctx)
	if body["stopped"] != true || body["stopped_action"] != "beg" {
		t.Fatalf("unexpected stop response %v", body)
	}
	if body["current_action"] != "" {
		t.Fatalf("expected no current action, got %v", body["current_action"])
	}
}

func TestPurchase_RejectsThenSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.purchase, `{"id":"purse"}`, "")
	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	_ = f.session.Do(func(e *idle.Engine) error {
		_, err := e.Ledger.Grant("gold", 20)
		return err
	})
	ctx = call(f.h.purchase, `{"id":"purse"}`, "")
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	ctx = call(f.h.purchase, `{"id":"purse"}`, "")
	if got, want := errorCode(t, ctx), string(idle.ReasonSoldOut); got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestChooseClassOnlyOnce(t *testing.T) {
	f := newFixture(t)
	if ctx := call(f.h.chooseClass, `{"id":"warrior"}`, ""); ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("choose failed: %s", ctx.Response.Body())
	}
	ctx := call(f.h.chooseClass, `{"id":"warrior"}`, "")
	if got, want := errorCode(t, ctx), string(idle.ReasonClassChosen); got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestMoveHome_UnknownHome(t *testing.T) {
	f := newFixture(t)
	ctx := call(f.h.moveHome, `{"id":"castle"}`, "")
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestLog_LimitsLiveEntries(t *testing.T) {
	f := newFixture(t)
	call(f.h.startAction, `{"action_id":"beg"}`, "")
	_ = f.session.Do(func(e *idle.Engine) error {
		e.Tick(time.Second)
		return nil
	})
	ctx := call(f.h.log, "", "/api/log?limit=1")

	entries, _ := decodeBody(t, ctx)["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	first, _ := entries[0].(map[string]any)
	if got, want := first["message"], "Completed Beg: +5 Gold."; got != want {
		t.Fatalf("message mismatch: got=%v want=%v", got, want)
	}
	ctx = call(f.h.log, "", "/api/log?limit=9999")
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestSaveThenPersistedLog(t *testing.T) {
	f := newFixture(t)
	call(f.h.startAction, `{"action_id":"beg"}`, "")

	ctx := call(f.h.save, "", "")
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	if got := decodeBody(t, ctx)["version"]; got != float64(1) {
		t.Fatalf("expected version 1, got %v", got)
	}

	ctx = call(f.h.log, "", "/api/log?persisted=true")
	entries, _ := decodeBody(t, ctx)["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected the start entry persisted, got %d", len(entries))
	}

	ctx = call(f.h.load, "", "")
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("load status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	call(f.h.startAction, `{"action_id":"beg"}`, "")

	ctx := call(f.h.export, "", "")
	code, _ := decodeBody(t, ctx)["code"].(string)
	if code == "" {
		t.Fatalf("expected export code, got %s", ctx.Response.Body())
	}

	call(f.h.stopAction, "", "")
	ctx = call(f.h.importSave, fmt.Sprintf(`{"code":%q}`, code), "")
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("import status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var current string
	f.session.View(func(e *idle.Engine) { current = e.State().CurrentAction })
	if current != "beg" {
		t.Fatalf("expected imported current action beg, got %q", current)
	}

	ctx = call(f.h.importSave, `{"code":"IRPG1:@@@"}`, "")
	if got, want := errorCode(t, ctx), "corrupt_save"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := call(Handler{}.kpi, "", "")
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{action.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{save.ErrCorruptSave, consts.StatusBadRequest, "corrupt_save"},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{fmt.Errorf("save: %w", ports.ErrConflict), consts.StatusConflict, "conflict"},
		{errors.New("disk on fire"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		if got := errorCode(t, ctx); got != tc.code {
			t.Fatalf("%v: code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
	}
}
