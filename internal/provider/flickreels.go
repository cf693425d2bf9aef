package provider

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/utils"
)

// FlickReelsAPI FlickReels 上游
type FlickReelsAPI struct {
	c       *Client
	base    string
	headers utils.Headers
}

// NewFlickReels 创建 FlickReels 上游
func NewFlickReels(c *Client, base, userAgent string) *FlickReelsAPI {
	return &FlickReelsAPI{c: c, base: base, headers: utils.BrowserHeaders(userAgent).With("Accept", "*/*")}
}

// Name 实现 EpisodeSource
func (f *FlickReelsAPI) Name() string { return FlickReels }

type flickreelsDetail struct {
	Data struct {
		Title     flexString          `json:"title"`
		Cover     flexString          `json:"cover"`
		UploadNum flexInt             `json:"upload_num"`
		List      []flickreelsChapter `json:"list"`
	} `json:"data"`
}

type flickreelsChapter struct {
	ChapterID    model.NativeID `json:"chapter_id"`
	ChapterNum   flexInt        `json:"chapter_num"`
	ChapterTitle flexString     `json:"chapter_title"`
	ChapterCover flexString     `json:"chapter_cover"`
	IsVip        flexBool       `json:"is_vip_episode"`
	HlsURL       flexString     `json:"hls_url"`
}

// Episodes 全部剧集，要求有 data.list 数组
func (f *FlickReelsAPI) Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle] {
	u := endpoint(f.base, "/allepisode", url.Values{"playlet_id": {id}})
	o := then(f.c.fetch(ctx, FlickReels, u, f.headers), func(raw json.RawMessage) Outcome[model.EpisodeBundle] {
		var probe struct {
			Data struct {
				List json.RawMessage `json:"list"`
			} `json:"data"`
		}
		if !isObject(raw) || json.Unmarshal(raw, &probe) != nil || !isArray(probe.Data.List) {
			return Miss[model.EpisodeBundle](shapeError("data.list"))
		}
		return then(decode[flickreelsDetail](FlickReels, raw), func(d flickreelsDetail) Outcome[model.EpisodeBundle] {
			return Success(normalizeFlickReelsEpisodes(id, d))
		})
	})
	return record(FlickReels, "episodes", o)
}

func normalizeFlickReelsEpisodes(id string, d flickreelsDetail) model.EpisodeBundle {
	series := d.Data
	episodes := make([]model.Episode, 0, len(series.List))
	for i, ch := range series.List {
		n := i + 1
		if ch.ChapterNum.Set {
			n = ch.ChapterNum.Value
		}
		thumb := string(ch.ChapterCover)
		if thumb == "" {
			thumb = string(series.Cover)
		}
		videos := []model.VideoVariant{}
		if ch.HlsURL != "" {
			videos = append(videos, model.VideoVariant{
				Quality: "hls",
				URL:     string(ch.HlsURL),
				VIP:     bool(ch.IsVip),
			})
		}
		episodes = append(episodes, model.Episode{
			ID:        ch.ChapterID,
			Episode:   n,
			Title:     episodeTitle(string(ch.ChapterTitle), n),
			Thumbnail: thumb,
			VIP:       bool(ch.IsVip),
			Subtitle:  []model.Subtitle{},
			Videos:    videos,
		})
	}
	total := len(episodes)
	if series.UploadNum.Set {
		total = series.UploadNum.Value
	}
	return model.EpisodeBundle{
		Source:       FlickReels,
		ID:           id,
		Title:        string(series.Title),
		Cover:        string(series.Cover),
		TotalEpisode: total,
		Episodes:     episodes,
	}
}

type flickreelsPlaylet struct {
	PlayletID   model.NativeID `json:"playlet_id"`
	Title       flexString     `json:"title"`
	Cover       flexString     `json:"cover"`
	CoverSquare flexString     `json:"cover_square"`
	TagName     flexStrings    `json:"tag_name"`
	PlayletTag  flexStrings    `json:"playlet_tag_name"`
	UploadNum   rawScalar      `json:"upload_num"`
	Status      rawScalar      `json:"status"`
	HotNum      rawScalar      `json:"hot_num"`
	HotURL      flexString     `json:"hot_url"`
	RankURL     flexString     `json:"rank_url"`
	RankType    rawScalar      `json:"rank_type"`
	RankOrder   rawScalar      `json:"rank_order"`
	Introduce   flexString     `json:"introduce"`
	ReleaseTime flexString     `json:"release_time"`
}

func (p flickreelsPlaylet) item(tags flexStrings) model.ContentItem {
	return model.ContentItem{
		Key:         compositeKey(FlickReels, p.PlayletID),
		ID:          p.PlayletID.AsNumber(),
		Title:       string(p.Title),
		Cover:       string(p.Cover),
		Tags:        tags.orEmpty(),
		CoverSquare: string(p.CoverSquare),
		UploadNum:   p.UploadNum.value(),
		Status:      p.Status.value(),
		HotNum:      p.HotNum.value(),
		HotURL:      string(p.HotURL),
		RankURL:     string(p.RankURL),
		RankType:    p.RankType.value(),
		RankOrder:   p.RankOrder.value(),
		Introduce:   string(p.Introduce),
		ReleaseTime: string(p.ReleaseTime),
	}
}

// HomeFeeds 最新与热榜
func (f *FlickReelsAPI) HomeFeeds() []Feed {
	latest := endpoint(f.base, "/latest", nil)
	hotrank := endpoint(f.base, "/hotrank", nil)
	return []Feed{
		{
			Provider: FlickReels,
			Key:      FlickReels + "/latest",
			Fetch: func(ctx context.Context) Outcome[json.RawMessage] {
				return record(FlickReels, "home", f.c.fetch(ctx, FlickReels, latest, f.headers))
			},
			Map: mapFlickReelsLatest,
		},
		{
			Provider: FlickReels,
			Key:      FlickReels + "/hotrank",
			Fetch: func(ctx context.Context) Outcome[json.RawMessage] {
				return record(FlickReels, "home", f.c.fetch(ctx, FlickReels, hotrank, f.headers))
			},
			Map: mapFlickReelsHotrank,
		},
	}
}

// mapFlickReelsLatest {data:[{list:[...]}]}，所有 list 合并成一个分区
func mapFlickReelsLatest(raw json.RawMessage) []model.Section {
	var page struct {
		Data []struct {
			List []flickreelsPlaylet `json:"list"`
		} `json:"data"`
	}
	if !isObject(raw) || json.Unmarshal(raw, &page) != nil {
		return nil
	}
	var items []model.ContentItem
	for _, d := range page.Data {
		for _, p := range d.List {
			items = append(items, p.item(p.PlayletTag))
		}
	}
	return []model.Section{{
		ID:    model.StringID("flickreels_latest"),
		Title: "🆕 FlickReels Terbaru",
		Type:  FlickReels,
		Items: items,
	}}
}

// mapFlickReelsHotrank {data:[{name, rank_type, data:[...]}]}，每个榜单一个分区
func mapFlickReelsHotrank(raw json.RawMessage) []model.Section {
	var page struct {
		Data []struct {
			Name     flexString          `json:"name"`
			RankType flexString          `json:"rank_type"`
			Data     []flickreelsPlaylet `json:"data"`
		} `json:"data"`
	}
	if !isObject(raw) || json.Unmarshal(raw, &page) != nil {
		return nil
	}
	sections := make([]model.Section, 0, len(page.Data))
	for _, g := range page.Data {
		name := string(g.Name)
		if name == "" {
			name = "Hot Rank"
		}
		items := make([]model.ContentItem, 0, len(g.Data))
		for _, p := range g.Data {
			items = append(items, p.item(p.TagName))
		}
		sections = append(sections, model.Section{
			ID:    model.StringID("flickreels_hotrank_" + string(g.RankType)),
			Title: "🔥 " + name,
			Type:  FlickReels,
			Items: items,
		})
	}
	return sections
}
