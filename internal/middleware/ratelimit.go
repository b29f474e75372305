package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ip-frontend/internal/logger"
	"ip-frontend/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Limiter：限流判定契约
type Limiter interface {
	Allow(ctx context.Context) bool
}

// 文档注释：令牌桶限流（每秒）
// 背景：单进程部署时在入口限速，保护后端 API；不排队，超限直接 429。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow(ctx context.Context) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// 文档注释：Redis 固定窗口限流（每秒）
// 背景：多副本部署时共享同一配额；键按秒分片，INCR 后设置 2 秒过期。
// 约束：Redis 不可用时放行并记录日志，限流故障不阻断主流程。
type RedisWindow struct {
	rc     *redis.Client
	qps    int
	prefix string
	now    func() time.Time
}

func NewRedisWindow(rc *redis.Client, qps int) *RedisWindow {
	return &RedisWindow{rc: rc, qps: qps, prefix: "frontend:rl:", now: time.Now}
}

func (rw *RedisWindow) key() string {
	return rw.prefix + strconv.FormatInt(rw.now().Unix(), 10)
}

func (rw *RedisWindow) Allow(ctx context.Context) bool {
	if rw.rc == nil {
		return true
	}
	k := rw.key()
	pipe := rw.rc.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.L().Warn("ratelimit_redis_error", "err", err)
		return true
	}
	return incr.Val() <= int64(rw.qps)
}

// Wrap：为处理器加上限流；lim 为 nil 时原样返回
// 约束：/status 探活不计入配额
func Wrap(next http.Handler, lim Limiter) http.Handler {
	if lim == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status" || r.URL.Path == "/status/" {
			next.ServeHTTP(w, r)
			return
		}
		if !lim.Allow(r.Context()) {
			metrics.RateLimitedTotal.Inc()
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
