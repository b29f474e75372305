// 包 config：读取前端配置；可选 YAML 文件打底，环境变量覆盖
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHostname = "none"
	DefaultAppPort  = "8080"
	DefaultTimeout  = 5 * time.Second
	DefaultQPS      = 200
)

type RateLimit struct {
	Enabled bool   `yaml:"enabled"`
	QPS     int    `yaml:"qps"`
	Backend string `yaml:"backend"`
}

type TLS struct {
	Enabled  bool   `yaml:"enabled"`
	CertPath string `yaml:"cert_path"`
	KeyPath  string `yaml:"key_path"`
}

// Config：进程级配置
// 约束：APIServer/APIServerPort 允许为空，缺失在请求阶段以错误页呈现，不阻止启动
type Config struct {
	Hostname      string        `yaml:"hostname"`
	APIServer     string        `yaml:"api_server"`
	APIServerPort string        `yaml:"api_server_port"`
	AppPort       string        `yaml:"app_port"`
	APITimeout    time.Duration `yaml:"api_timeout"`
	StatsEnabled  bool          `yaml:"stats_enabled"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	TLS           TLS           `yaml:"tls"`
}

// BackendConfigured：后端地址与端口是否均已配置
func (c *Config) BackendConfigured() bool {
	return c.APIServer != "" && c.APIServerPort != ""
}

// BackendBase：后端基础地址，形如 http://host:port
func (c *Config) BackendBase() string {
	return "http://" + net.JoinHostPort(c.APIServer, c.APIServerPort)
}

// ListenAddr：监听地址，固定绑定所有网卡
func (c *Config) ListenAddr() string {
	return "0.0.0.0:" + c.AppPort
}

// Load：读取配置
// 背景：path 非空时先解析 YAML 文件，再用环境变量覆盖同名项，最后补齐默认值
// 异常：文件读取或解析失败、数值型环境变量非法时返回错误
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// FromEnv：仅从环境变量读取，路径取自 FRONTEND_CONFIG
func FromEnv() (*Config, error) {
	return Load(os.Getenv("FRONTEND_CONFIG"))
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.EqualFold(v, "true")
		}
	}
	str("HOSTNAME", &c.Hostname)
	str("API_SERVER", &c.APIServer)
	str("API_SERVER_PORT", &c.APIServerPort)
	str("APP_PORT", &c.AppPort)
	boolean("STATS_ENABLE", &c.StatsEnabled)
	boolean("RATE_LIMIT_ENABLED", &c.RateLimit.Enabled)
	str("RATE_LIMIT_BACKEND", &c.RateLimit.Backend)
	boolean("TLS_ENABLE", &c.TLS.Enabled)
	str("TLS_CERT_PATH", &c.TLS.CertPath)
	str("TLS_KEY_PATH", &c.TLS.KeyPath)
	if v, ok := lookup("API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("API_TIMEOUT: %w", err)
		}
		c.APITimeout = d
	}
	if v, ok := lookup("RATE_LIMIT_QPS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_QPS: %w", err)
		}
		c.RateLimit.QPS = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Hostname == "" {
		c.Hostname = DefaultHostname
	}
	if c.AppPort == "" {
		c.AppPort = DefaultAppPort
	}
	if c.APITimeout <= 0 {
		c.APITimeout = DefaultTimeout
	}
	if c.RateLimit.QPS <= 0 {
		c.RateLimit.QPS = DefaultQPS
	}
	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = "local"
	}
	if c.TLS.CertPath == "" {
		c.TLS.CertPath = "data/certs/server.crt"
	}
	if c.TLS.KeyPath == "" {
		c.TLS.KeyPath = "data/certs/server.key"
	}
}
