package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/user/dramahub/internal/model"
)

// EpisodeSource 可以按 ID 给出整部剧剧集的 provider
type EpisodeSource interface {
	Name() string
	Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle]
}

// Feed 首页的一个上游列表接口
// Fetch 可以并发执行；Map 是纯函数，产出未去重的候选分区
type Feed struct {
	Provider string // 复合身份前缀
	Key      string // 日志用，如 "dramabox/vip"
	Fetch    func(ctx context.Context) Outcome[json.RawMessage]
	Map      func(raw json.RawMessage) []model.Section
}

// compositeKey 生成 "<provider>_<nativeId>"，缺少 ID 时为空串
func compositeKey(provider string, id model.NativeID) string {
	if id.IsZero() {
		return ""
	}
	return provider + "_" + id.String()
}

// episodeTitle 上游没给标题时用 "EP n"
func episodeTitle(title string, n int) string {
	if title != "" {
		return title
	}
	return "EP " + strconv.Itoa(n)
}
