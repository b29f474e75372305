// 包 api：集中注册前端路由；主入口只负责装配依赖与中间件
package api

import (
	"context"
	"net/http"
	"time"

	"ip-frontend/internal/config"
	"ip-frontend/internal/geo"
	"ip-frontend/internal/logger"
	"ip-frontend/internal/metrics"
	"ip-frontend/internal/render"
	"ip-frontend/internal/version"

	jsoniter "github.com/json-iterator/go"
)

// Lookuper：后端查询契约，由 *backend.Client 实现
type Lookuper interface {
	Lookup(ctx context.Context, ip string) (geo.Result, error)
}

// Stats：可选的查询统计；为 nil 时不记录也不暴露 /stats
type Stats interface {
	Record(ctx context.Context, outcome string) error
	Summary(ctx context.Context) (map[string]any, error)
}

// Handler：页面处理器，持有只读配置与共享依赖
type Handler struct {
	cfg      *config.Config
	backend  Lookuper
	renderer *render.Renderer
	stats    Stats
}

func NewHandler(cfg *config.Config, backend Lookuper, renderer *render.Renderer, stats Stats) *Handler {
	return &Handler{cfg: cfg, backend: backend, renderer: renderer, stats: stats}
}

// 构建并返回路由：/、/ip、/ip/{ip} 与 /status 均接受结尾斜杠
func BuildRoutes(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.page)
	mux.HandleFunc("GET /ip", h.page)
	mux.HandleFunc("GET /ip/{$}", h.page)
	mux.HandleFunc("GET /ip/{ip}", h.page)
	mux.HandleFunc("GET /ip/{ip}/{$}", h.page)
	mux.HandleFunc("GET /status", status)
	mux.HandleFunc("GET /status/{$}", status)
	if h.stats != nil {
		mux.HandleFunc("GET /stats", h.statsSummary)
	}
	return mux
}

// status：探活接口，恒定 200 空响应，与配置无关
func status(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := Resolve(r.Context(), h.cfg, h.backend, r.PathValue("ip"))
	outcome := OutcomeOK
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	if err != nil {
		var msg string
		msg, outcome = Describe(err)
		logger.L().Info("page_error", "outcome", outcome, "err", err)
		if rerr := h.renderer.Error(w, msg); rerr != nil {
			renderFailed(w, rerr)
		}
	} else {
		p := render.Page{Result: res, Hostname: h.cfg.Hostname, FrontendVersion: version.Frontend}
		if rerr := h.renderer.Index(w, p); rerr != nil {
			renderFailed(w, rerr)
		}
	}
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if h.stats != nil {
		if err := h.stats.Record(r.Context(), outcome); err != nil {
			logger.L().Warn("stats_record_error", "err", err)
		}
	}
}

// 文档注释：按顺序执行配置检查、参数检查、格式校验与一次后端查询
// 背景：页面处理器与 geo-lookup 命令行共用同一流程。
// 约束：配置缺失优先于参数缺失；校验失败不发起任何出站请求。
func Resolve(ctx context.Context, cfg *config.Config, b Lookuper, raw string) (geo.Result, error) {
	if !cfg.BackendConfigured() {
		return geo.Result{}, errConfigMissing
	}
	if raw == "" {
		return geo.Result{}, errNoIP
	}
	ip, ok := geo.NormalizeIP(raw)
	if !ok {
		return geo.Result{}, errInvalidIP
	}
	return b.Lookup(ctx, ip)
}

func renderFailed(w http.ResponseWriter, err error) {
	logger.L().Error("render_error", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) statsSummary(w http.ResponseWriter, r *http.Request) {
	m, err := h.stats.Summary(r.Context())
	if err != nil {
		logger.L().Error("stats_summary_error", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_ = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(m)
}
