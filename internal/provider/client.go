package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/utils"
	"go.uber.org/zap"
)

// Provider 名称
const (
	DramaBox   = "dramabox"
	NetShort   = "netshort"
	Melolo     = "melolo"
	FlickReels = "flickreels"
)

// Client 上游请求的公共部分：一次 GET，失败即记为不可达
type Client struct {
	http *utils.HTTPClient
	log  *zap.Logger
}

// NewClient 创建上游客户端
func NewClient(httpClient *utils.HTTPClient, log *zap.Logger) *Client {
	if log == nil {
		log = logger.L
	}
	return &Client{http: httpClient, log: log}
}

// fetch 请求并返回原始 JSON；任何失败都包装成 *FetchError
func (c *Client) fetch(ctx context.Context, provider, rawURL string, h utils.Headers) Outcome[json.RawMessage] {
	start := time.Now()
	body, err := c.http.GetBody(ctx, rawURL, h)
	observeLatency(provider, start)
	if err != nil {
		fe := &FetchError{Provider: provider, URL: rawURL, Err: err}
		fields := []zap.Field{
			zap.String("provider", provider),
			zap.String("url", rawURL),
			zap.Error(err),
		}
		var se *utils.StatusError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("status", se.StatusCode))
		}
		c.log.Warn("上游请求失败", fields...)
		return Unreachable[json.RawMessage](fe)
	}
	c.log.Debug("上游请求完成",
		zap.String("provider", provider),
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)),
	)
	return Success(json.RawMessage(body))
}

// decode 把已确认结构的原始 JSON 解到 target，失败记为 miss
func decode[T any](provider string, raw json.RawMessage) Outcome[T] {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Miss[T](&FetchError{Provider: provider, Err: errors.Join(ErrShapeMismatch, err)})
	}
	return Success(v)
}

// endpoint 拼接 base + path + 查询参数
func endpoint(base, path string, params url.Values) string {
	u := base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
