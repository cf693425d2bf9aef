package utils

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Headers 请求头（每个上游固定一套）
type Headers map[string]string

// BrowserHeaders 通用浏览器请求头
func BrowserHeaders(userAgent string) Headers {
	return Headers{
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      userAgent,
	}
}

// With 复制并覆盖部分请求头
func (h Headers) With(kv ...string) Headers {
	out := make(Headers, len(h)+len(kv)/2)
	for k, v := range h {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

// StatusError 上游返回了非 2xx 状态码
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// HTTPClient HTTP客户端
// 只做一次请求，不重试
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient 创建新的HTTP客户端，timeout 为 0 时不设总超时
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get 发送GET请求
func (c *HTTPClient) Get(ctx context.Context, url string, headers Headers) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Cache-Control", "no-store")
	return c.httpClient.Do(req)
}

// GetBody 发送GET请求并返回解压后的响应体，要求 2xx 且为合法 JSON
func (c *HTTPClient) GetBody(ctx context.Context, url string, headers Headers) ([]byte, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("创建gzip读取器失败: %w", err)
		}
		defer reader.Close()
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("解析JSON失败: 响应不是合法 JSON (%d 字节)", len(body))
	}
	return body, nil
}
