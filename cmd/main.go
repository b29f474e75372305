// 程序入口：读取配置、初始化依赖并启动前端服务；路由注册在 internal/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ip-frontend/internal/api"
	"ip-frontend/internal/backend"
	"ip-frontend/internal/config"
	"ip-frontend/internal/logger"
	"ip-frontend/internal/metrics"
	"ip-frontend/internal/middleware"
	"ip-frontend/internal/migrate"
	"ip-frontend/internal/render"
	"ip-frontend/internal/store"
	"ip-frontend/internal/utils"
	"ip-frontend/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")

	cfg, err := config.FromEnv()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Info("config_loaded",
		"hostname", cfg.Hostname,
		"api_server", cfg.APIServer,
		"api_server_port", cfg.APIServerPort,
		"app_port", cfg.AppPort,
		"api_timeout", cfg.APITimeout,
		"commit", version.Commit,
	)
	if !cfg.BackendConfigured() {
		l.Warn("backend_not_configured", "hint", "set API_SERVER and API_SERVER_PORT")
	}

	renderer, err := render.New()
	if err != nil {
		l.Error("template_load_error", "err", err)
		os.Exit(1)
	}

	// 统计为可选项；数据库不可用时降级为不记录
	var stats api.Stats
	if cfg.StatsEnabled {
		if st := openStats(); st != nil {
			stats = st
			defer st.Close()
		}
	}

	h := api.NewHandler(cfg, backend.New(cfg.BackendBase(), cfg.APITimeout), renderer, stats)
	mux := http.NewServeMux()
	mux.Handle("/", api.BuildRoutes(h))
	mux.Handle("GET /metrics", metrics.Handler())

	var lim middleware.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Backend == "redis" {
			rc := utils.OpenRedisFromEnv()
			if err := rc.Ping(context.Background()).Err(); err != nil {
				l.Error("redis_ping_error", "err", err)
			} else {
				l.Info("redis_ping_ok")
			}
			defer rc.Close()
			lim = middleware.NewRedisWindow(rc, cfg.RateLimit.QPS)
		} else {
			lim = middleware.NewTokenBucket(cfg.RateLimit.QPS)
		}
		l.Info("ratelimit_enabled", "backend", cfg.RateLimit.Backend, "qps", cfg.RateLimit.QPS)
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, lim)

	s := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		l.Info("shutdown_begin")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil {
			l.Error("shutdown_error", "err", err)
		}
	}()

	if cfg.TLS.Enabled {
		if err := utils.EnsureSelfSignedCert(cfg.TLS.CertPath, cfg.TLS.KeyPath, "ip-frontend.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", s.Addr, "cert", cfg.TLS.CertPath)
		err = s.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
	} else {
		l.Info("listening", "addr", s.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_done")
}

func openStats() *store.Store {
	l := logger.L()
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		l.Error("db_ping_error", "err", err)
		_ = db.Close()
		return nil
	}
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		_ = db.Close()
		return nil
	}
	l.Info("stats_enabled")
	return store.AttachDB(db)
}
