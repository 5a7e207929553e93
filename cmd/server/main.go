package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	dietdb "github.com/dietlog/server/db"
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/db/pkg/sqlitelocal"
	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/internal/api/raccount"
	"github.com/dietlog/server/internal/api/rdish"
	"github.com/dietlog/server/internal/api/rgroup"
	"github.com/dietlog/server/internal/api/rmeal"
	"github.com/dietlog/server/internal/api/rstream"
	"github.com/dietlog/server/internal/config"
	"github.com/dietlog/server/pkg/eventstream/memory"
	"github.com/dietlog/server/pkg/logger"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/service/saccount"
	"github.com/dietlog/server/pkg/service/sdish"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/service/smeal"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			log.Error("tracer shutdown failed", "error", err)
		}
	}()

	dbPath := cfg.Database.Path
	if cfg.Database.Mode == dietdb.MEMORY {
		dbPath = sqlitelocal.MemoryPath
	}
	local, err := sqlitelocal.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer local.Close()
	log.Info("database ready", "mode", cfg.Database.Mode, "path", dbPath)

	queries := gen.New(local.DB)
	as := saccount.New(queries, log)
	gs := sgroup.New(queries, log)
	ms := smeal.New(queries, log)
	ds := sdish.New(queries, log)

	stream := memory.NewInMemorySyncStreamer[mevent.Topic, mevent.OrderEvent]()
	defer stream.Shutdown()

	secret := []byte(cfg.Server.HMACSecret)
	e := api.New(log, cfg.Trace.ServiceName, secret,
		raccount.New(local.DB, as, gs, stream, secret, cfg.Server.TokenTTL),
		rgroup.New(local.DB, as, gs, stream),
		rmeal.New(local.DB, ms, stream),
		rdish.New(local.DB, ms, ds, stream),
		rstream.New(stream, log),
	)

	return api.Serve(ctx, e, ":"+cfg.Server.Port, log)
}
