package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/utils"
)

// DramaBoxAPI DramaBox 上游
type DramaBoxAPI struct {
	c       *Client
	base    string
	headers utils.Headers
}

// NewDramaBox 创建 DramaBox 上游
func NewDramaBox(c *Client, base, userAgent string) *DramaBoxAPI {
	return &DramaBoxAPI{c: c, base: base, headers: utils.BrowserHeaders(userAgent)}
}

// Name 实现 EpisodeSource
func (d *DramaBoxAPI) Name() string { return DramaBox }

type dramaboxChapter struct {
	ChapterID         model.NativeID `json:"chapterId"`
	ChapterIndex      flexInt        `json:"chapterIndex"`
	ChapterName       flexString     `json:"chapterName"`
	ChapterImg        flexString     `json:"chapterImg"`
	IsCharge          flexInt        `json:"isCharge"`
	SpriteSnapshotURL flexString     `json:"spriteSnapshotUrl"`
	CdnList           []dramaboxCDN  `json:"cdnList"`
}

type dramaboxCDN struct {
	IsDefault     flexInt `json:"isDefault"`
	VideoPathList []struct {
		Quality     rawScalar  `json:"quality"`
		VideoPath   flexString `json:"videoPath"`
		IsVipEquity flexInt    `json:"isVipEquity"`
	} `json:"videoPathList"`
}

// Episodes 全部剧集，响应顶层必须是数组
func (d *DramaBoxAPI) Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle] {
	u := endpoint(d.base, "/allepisode", url.Values{"bookId": {id}})
	o := then(d.c.fetch(ctx, DramaBox, u, d.headers), func(raw json.RawMessage) Outcome[model.EpisodeBundle] {
		if !isArray(raw) {
			return Miss[model.EpisodeBundle](shapeError("顶层数组"))
		}
		return then(decode[[]dramaboxChapter](DramaBox, raw), func(chapters []dramaboxChapter) Outcome[model.EpisodeBundle] {
			return Success(normalizeDramaBoxEpisodes(id, chapters))
		})
	})
	return record(DramaBox, "episodes", o)
}

func normalizeDramaBoxEpisodes(id string, chapters []dramaboxChapter) model.EpisodeBundle {
	episodes := make([]model.Episode, 0, len(chapters))
	for i, ch := range chapters {
		n := i + 1
		if ch.ChapterIndex.Set {
			n = ch.ChapterIndex.Value + 1
		}

		videos := []model.VideoVariant{}
		if cdn := pickCDN(ch.CdnList); cdn != nil {
			for _, v := range cdn.VideoPathList {
				videos = append(videos, model.VideoVariant{
					Quality: v.Quality.value(),
					URL:     string(v.VideoPath),
					VIP:     v.IsVipEquity.Value == 1,
				})
			}
		}

		// 只有雪碧图地址时才合成一条字幕
		subtitle := []model.Subtitle{}
		if ch.SpriteSnapshotURL != "" {
			subtitle = append(subtitle, model.Subtitle{
				Lang:   "auto",
				URL:    string(ch.SpriteSnapshotURL),
				Format: "webvtt",
			})
		}

		episodes = append(episodes, model.Episode{
			ID:        ch.ChapterID,
			Episode:   n,
			Title:     string(ch.ChapterName),
			Thumbnail: string(ch.ChapterImg),
			VIP:       ch.IsCharge.Value == 1,
			Subtitle:  subtitle,
			Videos:    videos,
		})
	}
	return model.EpisodeBundle{
		Source:       DramaBox,
		ID:           id,
		TotalEpisode: len(episodes),
		Episodes:     episodes,
	}
}

// pickCDN 优先默认线路，否则取第一条
func pickCDN(list []dramaboxCDN) *dramaboxCDN {
	for i := range list {
		if list[i].IsDefault.Value == 1 {
			return &list[i]
		}
	}
	if len(list) > 0 {
		return &list[0]
	}
	return nil
}

type dramaboxBook struct {
	BookID       model.NativeID  `json:"bookId"`
	BookName     flexString      `json:"bookName"`
	CoverWap     flexString      `json:"coverWap"`
	Cover        flexString      `json:"cover"`
	Tags         flexStrings     `json:"tags"`
	TagNames     flexStrings     `json:"tagNames"`
	ChapterCount flexInt         `json:"chapterCount"`
	PlayCount    rawScalar       `json:"playCount"`
	Introduction flexString      `json:"introduction"`
	Corner       json.RawMessage `json:"corner"`
}

// hasCorner 角标存在即视为 VIP
func (b dramaboxBook) hasCorner() bool {
	c := bytes.TrimSpace(b.Corner)
	if len(c) == 0 {
		return false
	}
	switch string(c) {
	case "null", "false", "0", `""`:
		return false
	}
	return true
}

// cornerType 角标类型，4 为 VIP
func (b dramaboxBook) cornerType() int {
	var c struct {
		CornerType flexInt `json:"cornerType"`
	}
	if !isObject(b.Corner) {
		return 0
	}
	if err := json.Unmarshal(b.Corner, &c); err != nil {
		return 0
	}
	return c.CornerType.Value
}

type dramaboxColumn struct {
	ColumnID model.NativeID `json:"columnId"`
	Title    flexString     `json:"title"`
	BookList []dramaboxBook `json:"bookList"`
}

// DramaBoxCategory 首页分类接口
type DramaBoxCategory struct {
	Type  string
	Title string
	Path  string
	Query url.Values
}

// DramaBoxCategories 首页分类，顺序即输出顺序
var DramaBoxCategories = []DramaBoxCategory{
	{Type: "vip", Title: "VIP Eksklusif", Path: "/vip"},
	{Type: "dubindo", Title: "Dub Indo Terpopuler", Path: "/dubindo", Query: url.Values{"classify": {"terpopuler"}}},
	{Type: "random", Title: "Rekomendasi Acak", Path: "/randomdrama"},
	{Type: "latest", Title: "Drama Terbaru", Path: "/latest"},
	{Type: "trending", Title: "🔥 Trending", Path: "/trending"},
	{Type: "populersearch", Title: "🔍 Pencarian Populer", Path: "/populersearch"},
}

// HomeFeeds 每个分类一个 Feed
func (d *DramaBoxAPI) HomeFeeds() []Feed {
	feeds := make([]Feed, 0, len(DramaBoxCategories))
	for _, cat := range DramaBoxCategories {
		cat := cat
		u := endpoint(d.base, cat.Path, cat.Query)
		feeds = append(feeds, Feed{
			Provider: DramaBox,
			Key:      DramaBox + "/" + cat.Type,
			Fetch: func(ctx context.Context) Outcome[json.RawMessage] {
				return record(DramaBox, "home", d.c.fetch(ctx, DramaBox, u, d.headers))
			},
			Map: func(raw json.RawMessage) []model.Section {
				return mapDramaBoxCategory(raw, cat)
			},
		})
	}
	return feeds
}

// mapDramaBoxCategory 支持 {columnVoList:[...]}，也接受直接返回书籍数组
func mapDramaBoxCategory(raw json.RawMessage, cat DramaBoxCategory) []model.Section {
	var columns []dramaboxColumn
	switch {
	case isArray(raw):
		var books []dramaboxBook
		if err := json.Unmarshal(raw, &books); err != nil {
			return nil
		}
		columns = []dramaboxColumn{{ColumnID: model.StringID(cat.Type), BookList: books}}
	case isObject(raw):
		var page struct {
			ColumnVoList json.RawMessage `json:"columnVoList"`
		}
		if err := json.Unmarshal(raw, &page); err != nil || !isArray(page.ColumnVoList) {
			return nil
		}
		if err := json.Unmarshal(page.ColumnVoList, &columns); err != nil {
			return nil
		}
	default:
		return nil
	}

	sections := make([]model.Section, 0, len(columns))
	for _, col := range columns {
		title := string(col.Title)
		if title == "" {
			title = cat.Title
		}
		items := make([]model.ContentItem, 0, len(col.BookList))
		for _, b := range col.BookList {
			cover := string(b.CoverWap)
			if cover == "" {
				cover = string(b.Cover)
			}
			tags := b.Tags
			if len(tags) == 0 {
				tags = b.TagNames
			}
			items = append(items, model.ContentItem{
				Key:       compositeKey(DramaBox, b.BookID),
				ID:        b.BookID,
				Title:     string(b.BookName),
				Cover:     cover,
				Tags:      tags.orEmpty(),
				Episodes:  b.ChapterCount.Value,
				PlayCount: b.PlayCount.value(),
				VIP:       b.hasCorner(),
			})
		}
		sections = append(sections, model.Section{
			ID:    col.ColumnID,
			Title: title,
			Type:  cat.Type,
			Items: items,
		})
	}
	return sections
}

// Search 搜索，响应顶层必须是数组
func (d *DramaBoxAPI) Search(ctx context.Context, query string) Outcome[[]model.SearchResult] {
	u := endpoint(d.base, "/search", url.Values{"query": {query}})
	o := then(d.c.fetch(ctx, DramaBox, u, d.headers), func(raw json.RawMessage) Outcome[[]model.SearchResult] {
		if !isArray(raw) {
			return Miss[[]model.SearchResult](shapeError("顶层数组"))
		}
		return then(decode[[]dramaboxBook](DramaBox, raw), func(books []dramaboxBook) Outcome[[]model.SearchResult] {
			results := make([]model.SearchResult, 0, len(books))
			for _, b := range books {
				if b.BookID.IsZero() {
					continue
				}
				results = append(results, model.SearchResult{
					Source:      DramaBox,
					ID:          b.BookID,
					Title:       string(b.BookName),
					Description: string(b.Introduction),
					Cover:       string(b.Cover),
					Tags:        b.TagNames.orEmpty(),
					VIP:         b.cornerType() == 4,
				})
			}
			return Success(results)
		})
	})
	return record(DramaBox, "search", o)
}
