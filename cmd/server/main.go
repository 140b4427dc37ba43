package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	dbmigrations "idlerpg/db"
	"idlerpg/content"
	"idlerpg/internal/adapter/catalog/yamlfile"
	httpadapter "idlerpg/internal/adapter/http"
	metricsinmem "idlerpg/internal/adapter/metrics/inmemory"
	gormrepo "idlerpg/internal/adapter/repo/gorm"
	"idlerpg/internal/adapter/repo/memory"
	sqliterepo "idlerpg/internal/adapter/repo/sqlite"
	"idlerpg/internal/adapter/savecodec"
	"idlerpg/internal/adapter/ws"
	"idlerpg/internal/app/action"
	"idlerpg/internal/app/driver"
	"idlerpg/internal/app/ports"
	"idlerpg/internal/app/replay"
	"idlerpg/internal/app/save"
	"idlerpg/internal/app/session"
	"idlerpg/internal/app/status"
	"idlerpg/internal/app/upgrade"
	"idlerpg/internal/domain/catalog"
	"idlerpg/internal/domain/idle"

	"github.com/cloudwego/hertz/pkg/app/server"
	"golang.org/x/sync/errgroup"
)

type config struct {
	HTTPAddr      string
	WSAddr        string
	DSN           string
	SQLitePath    string
	CatalogPath   string
	PlayerID      string
	TickInterval  time.Duration
	AutosaveEvery time.Duration
	Seed          int64
}

func loadConfig() config {
	return config{
		HTTPAddr:      stringEnv("IDLERPG_HTTP_ADDR", ":8080"),
		WSAddr:        stringEnv("IDLERPG_WS_ADDR", ":8081"),
		DSN:           stringEnv("IDLERPG_DB_DSN", ""),
		SQLitePath:    stringEnv("IDLERPG_SQLITE_PATH", ""),
		CatalogPath:   stringEnv("IDLERPG_CATALOG", ""),
		PlayerID:      stringEnv("IDLERPG_PLAYER_ID", "local-player"),
		TickInterval:  time.Duration(intEnv("IDLERPG_TICK_MS", int(driver.DefaultInterval/time.Millisecond))) * time.Millisecond,
		AutosaveEvery: durationEnv("IDLERPG_AUTOSAVE_SECONDS", 30*time.Second),
		Seed:          int64(intEnv("IDLERPG_SEED", 0)),
	}
}

func main() {
	cfg := loadConfig()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	st, err := buildStores(cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer st.close()

	codec, err := savecodec.New()
	if err != nil {
		log.Fatalf("save codec: %v", err)
	}
	defer codec.Close()

	var opts []idle.Option
	if cfg.Seed != 0 {
		opts = append(opts, idle.WithRand(rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1))))
	}
	engine := idle.New(cat, nil, opts...)
	sess := session.New(cfg.PlayerID, engine)

	kpiRecorder := metricsinmem.NewRecorder()
	kpiRecorder.Observe(engine.Bus())
	hub := ws.NewHub(0)
	hub.Observe(engine.Bus())

	saveUC := save.UseCase{
		Session:   sess,
		TxManager: st.tx,
		Saves:     st.saves,
		Events:    st.events,
		Codec:     codec,
		Metrics:   kpiRecorder,
		Now:       time.Now,
	}
	if resp, err := saveUC.Load(context.Background()); err == nil {
		log.Printf("resumed %s from save version %d", resp.PlayerID, resp.Version)
	} else if !errors.Is(err, ports.ErrNotFound) {
		log.Fatalf("load save for %s: %v", sess.PlayerID(), err)
	}

	h := httpadapter.Handler{
		StatusUC:  status.UseCase{Session: sess},
		ActionUC:  action.UseCase{Session: sess, Metrics: kpiRecorder},
		UpgradeUC: upgrade.UseCase{Session: sess, Metrics: kpiRecorder},
		ReplayUC:  replay.UseCase{Session: sess, Events: st.events},
		SaveUC:    saveUC,
		KPI:       kpiRecorder,
	}
	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return driver.Loop{
			Session:       sess,
			Saver:         saveUC,
			Interval:      cfg.TickInterval,
			AutosaveEvery: cfg.AutosaveEvery,
		}.Run(gctx)
	})
	g.Go(s.Run)
	g.Go(func() error {
		<-gctx.Done()
		return s.Shutdown(context.Background())
	})
	if cfg.WSAddr != "" {
		wsServer := &http.Server{Addr: cfg.WSAddr, Handler: hub.Mux(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := wsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return wsServer.Shutdown(context.Background())
		})
		log.Printf("event stream on ws://%s/ws", cfg.WSAddr)
	}

	log.Printf("idlerpg server listening on %s (player: %s, storage: %s)", cfg.HTTPAddr, sess.PlayerID(), st.kind)
	if err := g.Wait(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return yamlfile.Parse(content.DefaultCatalog())
	}
	return yamlfile.Load(path)
}

type stores struct {
	kind   string
	saves  ports.SaveRepository
	events ports.EventRepository
	tx     ports.TxManager
	close  func()
}

// buildStores picks postgres when a DSN is set, then a sqlite file, then
// process memory.
func buildStores(cfg config) (stores, error) {
	switch {
	case cfg.DSN != "":
		db, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return stores{}, err
		}
		if err := gormrepo.ApplyMigrations(context.Background(), db, dbmigrations.Migrations()); err != nil {
			return stores{}, err
		}
		return stores{
			kind:   "postgres",
			saves:  gormrepo.NewSaveRepo(db),
			events: gormrepo.NewEventRepo(db),
			tx:     gormrepo.NewTxManager(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	case cfg.SQLitePath != "":
		db, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return stores{
			kind:   "sqlite",
			saves:  sqliterepo.NewSaveRepo(db),
			events: sqliterepo.NewEventRepo(db),
			tx:     sqliterepo.NewTxManager(db),
			close:  func() { _ = db.Close() },
		}, nil
	default:
		store := memory.NewStore()
		return stores{
			kind:   "memory",
			saves:  memory.NewSaveRepo(store),
			events: memory.NewEventRepo(store),
			tx:     memory.NewTxManager(store),
			close:  func() {},
		}, nil
	}
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// durationEnv reads whole seconds.
func durationEnv(key string, fallback time.Duration) time.Duration {
	n := intEnv(key, -1)
	if n < 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
