// 包 geo：地理信息结果模型与 IPv4 文本格式校验
package geo

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown：后端响应缺失字段时的占位值
const Unknown = "Unknown"

// 仅做语法校验：四段 1-3 位数字，不校验 0-255 取值范围，不支持 IPv6
// 约束：RE2 的 \d 只匹配 ASCII 0-9，阿拉伯-印度数字、全角数字一律判为非法
var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// NormalizeIP：去除首尾空白后校验格式
// 返回：规范化后的文本与是否合法；999.999.999.999 视为合法
func NormalizeIP(raw string) (string, bool) {
	ip := strings.TrimSpace(raw)
	return ip, ipv4Pattern.MatchString(ip)
}

// Result：一次查询的地理信息结果，字段与后端 JSON 键一一对应
type Result struct {
	ContinentName    string `json:"continent_name"`
	ContinentCode    string `json:"continent"`
	CountryName      string `json:"country_name"`
	ISP              string `json:"isp"`
	Cached           string `json:"cached"`
	APIServer        string `json:"apiServer"`
	APIServerVersion string `json:"version"`
}

// FromPayload：从后端 JSON 对象构建结果
// 约束：缺失键或 null 取 Unknown；非字符串值按默认格式转为文本
func FromPayload(m map[string]any) Result {
	return Result{
		ContinentName:    field(m, "continent_name"),
		ContinentCode:    field(m, "continent"),
		CountryName:      field(m, "country_name"),
		ISP:              field(m, "isp"),
		Cached:           field(m, "cached"),
		APIServer:        field(m, "apiServer"),
		APIServerVersion: field(m, "version"),
	}
}

func field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return Unknown
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
