package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"glacier_alert/internal/adapters/alertsfile"
	"glacier_alert/internal/adapters/credentials"
	server "glacier_alert/internal/adapters/http_server"
	"glacier_alert/internal/adapters/mailer"
	"glacier_alert/internal/adapters/observability"
	redisad "glacier_alert/internal/adapters/redis"
	"glacier_alert/internal/adapters/xanterra"
	"glacier_alert/internal/app"
	"glacier_alert/internal/domain"
	"glacier_alert/internal/shared"
	"glacier_alert/internal/storage/csvhistory"
	"glacier_alert/internal/storage/sqlstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	args, err := shared.ParseArgs(os.Args[1:], cfg, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spec, err := alertsfile.Load(args.AlertsFile, args.Window)
	if err != nil {
		log.Fatal().Err(err).Str("file", args.AlertsFile).Msg("alerts file rejected")
	}
	creds, err := credentials.Load(args.Credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("credentials not loaded")
	}

	// storage
	store, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}
	defer store.Close()
	log.Info().Str("driver", string(store.Dialect())).Msg("store ready")

	// upstream and mail
	fetcher, err := xanterra.New(xanterra.Config{
		BaseURL:  cfg.XanterraBase,
		Property: cfg.XanterraProperty,
		RateCode: cfg.RateCode,
		RPS:      cfg.FetchRPS,
		Workers:  cfg.FetchWorkers,
		Timeout:  cfg.FetchTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Xanterra client")
	}
	notifier, err := mailer.New(mailer.Config{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		From:       creds.Address,
		Password:   creds.Password,
		Recipients: args.Recipients,
		Timeout:    cfg.MailTimeout,
	}, xanterra.Linker{Base: cfg.BookingURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize mailer")
	}

	deps := app.Deps{
		Fetcher:   fetcher,
		Snapshots: store,
		Titles:    app.NewTitleRegistry(store),
		Notifier:  notifier,
		History:   []domain.HistoryStore{store},
	}
	if args.HistoryCSV != "" {
		deps.History = append(deps.History, csvhistory.New(args.HistoryCSV))
	}

	var reports domain.ReportStore = app.NewMemoryReports()
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := redisad.Ping(ctx, rc); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		deps.Locker = redisad.NewLocker(rc, "", cfg.LockTTL)
		reports = redisad.NewReports(rc, cfg.ReportTTL)
	}
	deps.Reports = reports

	runner := app.NewRunner(deps, app.RunConfig{Window: args.Window, Spec: spec})

	// http
	if cfg.HTTPAddr != "" {
		srv := server.New()
		reg := observability.InitRegistry()
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.MountHandlers(&server.Handlers{Reports: reports})

		httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("status server listening")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("status server failed")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(sctx)
		}()
	}

	log.Info().
		Str("start", args.Window.Start.String()).
		Str("end", args.Window.End.String()).
		Int("rules", len(spec.Rules)).
		Int("recipients", len(args.Recipients)).
		Msg("glacier alert starting")

	cycle := func() {
		rep, err := runner.RunOnce(ctx)
		observability.ObserveRun(rep, err)
		if err != nil {
			log.Error().Err(err).Str("run_id", rep.RunID).Msg("cycle failed")
		}
	}

	// run once to start
	cycle()
	if args.Once {
		return
	}

	cronLog := cron.PrintfLogger(&log.Logger)
	sched := cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.SkipIfStillRunning(cronLog)))
	if _, err := sched.AddFunc(args.Schedule, cycle); err != nil {
		log.Fatal().Err(err).Str("schedule", args.Schedule).Msg("invalid schedule")
	}
	sched.Start()
	log.Info().Str("schedule", args.Schedule).Msg("scheduler started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	<-sched.Stop().Done()
}
