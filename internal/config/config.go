package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 默认上游地址
const (
	DefaultDramaBoxURL   = "https://dramabox.sansekai.my.id/api/dramabox"
	DefaultNetShortURL   = "https://netshort.sansekai.my.id/api/netshort"
	DefaultMeloloURL     = "https://melolo-api-azure.vercel.app/api/melolo"
	DefaultFlickReelsURL = "https://api.sansekai.my.id/api/flickreels"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
)

// Config 应用配置
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DramaBoxURL   string
	NetShortURL   string
	MeloloURL     string
	FlickReelsURL string

	UserAgent       string
	UpstreamTimeout time.Duration // 0 表示沿用 transport 默认行为

	EpisodeOrder      []string // 剧集查询的 provider 优先级
	StreamConcurrency int      // Melolo 单集播放地址并发解析上限
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load 加载配置
// .env 由 main 通过 godotenv 注入环境变量，这里只读环境
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5007")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DRAMABOX_BASE_URL", DefaultDramaBoxURL)
	v.SetDefault("NETSHORT_BASE_URL", DefaultNetShortURL)
	v.SetDefault("MELOLO_BASE_URL", DefaultMeloloURL)
	v.SetDefault("FLICKREELS_BASE_URL", DefaultFlickReelsURL)
	v.SetDefault("USER_AGENT", DefaultUserAgent)
	v.SetDefault("UPSTREAM_TIMEOUT", "0s")
	v.SetDefault("EPISODE_PROVIDER_ORDER", "melolo,netshort,flickreels,dramabox")
	v.SetDefault("MELOLO_STREAM_CONCURRENCY", 8)

	cfg := &Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DramaBoxURL:       trimBase(v.GetString("DRAMABOX_BASE_URL")),
		NetShortURL:       trimBase(v.GetString("NETSHORT_BASE_URL")),
		MeloloURL:         trimBase(v.GetString("MELOLO_BASE_URL")),
		FlickReelsURL:     trimBase(v.GetString("FLICKREELS_BASE_URL")),
		UserAgent:         v.GetString("USER_AGENT"),
		UpstreamTimeout:   v.GetDuration("UPSTREAM_TIMEOUT"),
		EpisodeOrder:      splitList(v.GetString("EPISODE_PROVIDER_ORDER")),
		StreamConcurrency: v.GetInt("MELOLO_STREAM_CONCURRENCY"),
	}

	if cfg.UpstreamTimeout < 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT 不能为负数: %s", cfg.UpstreamTimeout)
	}
	if cfg.StreamConcurrency < 1 {
		cfg.StreamConcurrency = 1
	}
	if len(cfg.EpisodeOrder) == 0 {
		return nil, fmt.Errorf("EPISODE_PROVIDER_ORDER 不能为空")
	}

	return cfg, nil
}

func trimBase(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
