package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "ba_dashboard/internal/adapters/http_server"
	"ba_dashboard/internal/adapters/httpsource"
	"ba_dashboard/internal/adapters/observability"
	redisad "ba_dashboard/internal/adapters/redis"
	"ba_dashboard/internal/adapters/watch"
	"ba_dashboard/internal/app"
	"ba_dashboard/internal/domain"
	"ba_dashboard/internal/shared"
	"ba_dashboard/internal/storage/file"
	mysqlsrc "ba_dashboard/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	src := openSource(cfg)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, continuing without shared cache")
		} else {
			cache = rc
			defer rc.Close()
		}
	}

	ds := app.NewDatasetService(src, cache, app.DatasetConfig{
		CacheTTL:   cfg.CacheTTL,
		Revalidate: cfg.Revalidate,
		Join:       app.JoinOptions{AllowDuplicateCountries: cfg.AllowDuplicateCountries},
	})

	if cfg.Source == shared.SourceFile && cfg.WatchInputs {
		startWatcher(ctx, ds, cfg.ReviewsPath, cfg.CountriesPath)
	}

	// warm the memo; a failure here is reported per request later
	if _, err := ds.Dataset(ctx); err != nil {
		log.Warn().Err(err).Msg("initial dataset build failed")
	}

	// http
	srv := server.New(cfg.HTTPRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(ds)})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.Source).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func openSource(cfg shared.Config) domain.Source {
	if cfg.Source == shared.SourceMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlsrc.New(db)
	}
	return file.New(cfg.ReviewsPath, cfg.CountriesPath, httpsource.New(cfg.FetchRPS))
}

// startWatcher invalidates the memo when a local input changes. Remote inputs
// are re-identified on each revalidation instead.
func startWatcher(ctx context.Context, ds *app.DatasetService, paths ...string) {
	var local []string
	for _, p := range paths {
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			local = append(local, p)
		}
	}
	if len(local) == 0 {
		return
	}
	w, err := watch.New(local...)
	if err != nil {
		log.Warn().Err(err).Msg("input watcher disabled")
		return
	}
	go func() {
		if err := w.Run(ctx, func(string) { ds.Invalidate() }); err != nil {
			log.Warn().Err(err).Msg("input watcher stopped")
		}
	}()
}
