package httpadapter

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"idlerpg/internal/adapter/catalog/yamlfile"
	"idlerpg/internal/adapter/metrics/inmemory"
	"idlerpg/internal/adapter/repo/memory"
	"idlerpg/internal/adapter/savecodec"
	"idlerpg/internal/app/action"
	"idlerpg/internal/app/replay"
	"idlerpg/internal/app/save"
	"idlerpg/internal/app/session"
	"idlerpg/internal/app/status"
	"idlerpg/internal/app/upgrade"
	"idlerpg/internal/domain/idle"

	"github.com/cloudwego/hertz/pkg/app"
)

const handlerCatalog = `
resources:
  gold:
    name: Gold
    maximum: 50
    unlocked: true
stat_pools:
  stamina:
    name: Stamina
    initial: 2
    maximum: 2
    unlocked: true
actions:
  rest:
    name: Rest
    rest: true
    duration_ms: 1000
    stat_pool_restoration:
      stamina: 1
    unlocked: true
  beg:
    name: Beg
    duration_ms: 1000
    currency_rewards:
      gold: 5
    unlocked: true
  chop:
    name: Chop Wood
    duration_ms: 2000
    stat_pool_costs:
      stamina: 5
    unlocked: true
upgrades:
  purse:
    name: Purse
    costs:
      currencies: { gold: 10 }
    gains:
      currency_maximum: { gold: 50 }
    purchases: 1
    unlocked: true
classes:
  warrior:
    name: Warrior
    bonuses:
      stat_pool_maximum: { stamina: 3 }
homes:
  tent:
    name: Tent
    unlocked: true
tuning:
  default_rest_action: rest
  starting_home: tent
`

var handlerNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	h       Handler
	session *session.Session
	kpi     *inmemory.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat, err := yamlfile.Parse([]byte(handlerCatalog))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	engine := idle.New(cat, nil,
		idle.WithRand(rand.New(rand.NewPCG(1, 2))),
		idle.WithClock(func() time.Time { return handlerNow }),
	)
	sess := session.New("player-1", engine)
	kpi := inmemory.NewRecorder()
	kpi.Observe(engine.Bus())
	codec, err := savecodec.New()
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	t.Cleanup(codec.Close)

	store := memory.NewStore()
	events := memory.NewEventRepo(store)
	return fixture{
		session: sess,
		kpi:     kpi,
		h: Handler{
			StatusUC:  status.UseCase{Session: sess},
			ActionUC:  action.UseCase{Session: sess, Metrics: kpi},
			UpgradeUC: upgrade.UseCase{Session: sess, Metrics: kpi},
			ReplayUC:  replay.UseCase{Session: sess, Events: events},
			SaveUC: save.UseCase{
				Session:   sess,
				TxManager: memory.NewTxManager(store),
				Saves:     memory.NewSaveRepo(store),
				Events:    events,
				Codec:     codec,
				Metrics:   kpi,
				Now:       func() time.Time { return handlerNow },
			},
			KPI: kpi,
		},
	}
}

func call(handler app.HandlerFunc, body string, uri string) *app.RequestContext {
	ctx := &app.RequestContext{}
	if uri != "" {
		ctx.Request.SetRequestURI(uri)
	}
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	handler(context.Background(), ctx)
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &out); err != nil {
		t.Fatalf("unmarshal %s: %v", ctx.Response.Body(), err)
	}
	return out
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	errObj, _ := decodeBody(t, ctx)["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}
