package api

import (
	"errors"
	"fmt"

	"ip-frontend/internal/backend"
)

// 请求结果分类，用于指标与统计标签
const (
	OutcomeOK             = "ok"
	OutcomeConfigMissing  = "config_missing"
	OutcomeNoIP           = "no_ip"
	OutcomeInvalidIP      = "invalid_ip"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
)

var (
	errConfigMissing = errors.New("API server configuration is missing.")
	errNoIP          = errors.New("No IP address provided.")
	errInvalidIP     = errors.New("Invalid IP address format.")
)

// 文档注释：将处理错误映射为错误页文案与结果分类
// 约束：文案为用户可见的固定格式；上游非 200 带状态码，其余出站错误视为连接类错误。
func Describe(err error) (message string, outcome string) {
	switch {
	case errors.Is(err, errConfigMissing):
		return err.Error(), OutcomeConfigMissing
	case errors.Is(err, errNoIP):
		return err.Error(), OutcomeNoIP
	case errors.Is(err, errInvalidIP):
		return err.Error(), OutcomeInvalidIP
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Error fetching data from API. Status code: %d", se.Code), OutcomeUpstreamError
	}
	return fmt.Sprintf("Error connecting to API: %v", err), OutcomeTransportError
}
