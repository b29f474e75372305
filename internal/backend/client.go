// 包 backend：地理信息后端 API 客户端，负责唯一的一次出站查询
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ip-frontend/internal/geo"
	"ip-frontend/internal/logger"
	"ip-frontend/internal/metrics"

	jsoniter "github.com/json-iterator/go"
)

const maxBodyBytes = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNotObject = errors.New("body is not a JSON object")

// StatusError：后端返回非 200 状态码
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// Client：后端查询客户端
// 约束：单次阻塞请求，超时由 http.Client 控制；不重试、不缓存
type Client struct {
	base string
	hc   *http.Client
}

// New：以基础地址与超时构建客户端，base 形如 http://host:port
func New(base string, timeout time.Duration) *Client {
	return NewWithHTTPClient(base, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient：注入共享或测试用 http.Client
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), hc: hc}
}

// URL：构造查询地址 {base}/ip/{ip}
func (c *Client) URL(ip string) string {
	return c.base + "/ip/" + url.PathEscape(ip)
}

// 文档注释：查询单个 IP 的地理信息
// 参数：ctx 控制取消；ip 须已通过 geo.NormalizeIP 校验。
// 返回：成功时为缺省字段已填充 Unknown 的结果；非 200 返回 *StatusError；
// 连接失败、超时、响应体不可读或非 JSON 对象均返回包装后的传输错误。
func (c *Client) Lookup(ctx context.Context, ip string) (geo.Result, error) {
	u := c.URL(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return geo.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	t0 := time.Now()
	metrics.BackendRequestsTotal.Inc()
	logger.L().Debug("backend_req", "url", u)
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.BackendFailTotal.WithLabelValues("transport").Inc()
		logger.L().Warn("backend_http_error", "ip", ip, "err", err)
		return geo.Result{}, err
	}
	defer resp.Body.Close()
	dur := time.Since(t0).Milliseconds()
	metrics.BackendDurationMs.Observe(float64(dur))
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		metrics.BackendFailTotal.WithLabelValues("status").Inc()
		logger.L().Warn("backend_bad_status", "ip", ip, "status", resp.StatusCode, "duration_ms", dur)
		return geo.Result{}, &StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendFailTotal.WithLabelValues("transport").Inc()
		logger.L().Warn("backend_read_error", "ip", ip, "err", err)
		return geo.Result{}, fmt.Errorf("read response: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.BackendFailTotal.WithLabelValues("decode").Inc()
		logger.L().Warn("backend_decode_error", "ip", ip, "err", err)
		return geo.Result{}, fmt.Errorf("decode response: %w", err)
	}
	// JSON null 解码后 payload 仍为 nil，视为无效响应
	if payload == nil {
		metrics.BackendFailTotal.WithLabelValues("decode").Inc()
		logger.L().Warn("backend_decode_error", "ip", ip, "err", errNotObject)
		return geo.Result{}, fmt.Errorf("decode response: %w", errNotObject)
	}
	res := geo.FromPayload(payload)
	logger.L().Debug("backend_lookup_ok", "ip", ip, "country", res.CountryName, "isp", res.ISP, "duration_ms", dur)
	return res, nil
}
