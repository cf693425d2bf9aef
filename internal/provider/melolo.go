package provider

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const meloloAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7"

// MeloloAPI Melolo 上游
// 详情接口只给分集列表，播放地址需要逐集再请求一次 /stream
type MeloloAPI struct {
	c           *Client
	base        string
	headers     utils.Headers
	concurrency int
}

// NewMelolo 创建 Melolo 上游，concurrency 为分集播放地址的并发上限
func NewMelolo(c *Client, base, userAgent string, concurrency int) *MeloloAPI {
	if concurrency < 1 {
		concurrency = 1
	}
	return &MeloloAPI{
		c:           c,
		base:        base,
		headers:     utils.BrowserHeaders(userAgent).With("Accept", meloloAccept),
		concurrency: concurrency,
	}
}

// Name 实现 EpisodeSource
func (m *MeloloAPI) Name() string { return Melolo }

type meloloDetail struct {
	Data struct {
		VideoData struct {
			SeriesTitle flexString    `json:"series_title"`
			SeriesCover flexString    `json:"series_cover"`
			EpisodeCnt  flexInt       `json:"episode_cnt"`
			VideoList   []meloloVideo `json:"video_list"`
		} `json:"video_data"`
	} `json:"data"`
}

type meloloVideo struct {
	Vid         model.NativeID `json:"vid"`
	VidIndex    flexInt        `json:"vid_index"`
	Title       flexString     `json:"title"`
	Cover       flexString     `json:"cover"`
	DisablePlay flexBool       `json:"disable_play"`
}

type meloloStream struct {
	Data struct {
		MainURL    flexString `json:"main_url"`
		BackupURL  flexString `json:"backup_url"`
		Definition rawScalar  `json:"definition"`
	} `json:"data"`
}

// hasVideoList 检查 data.video_data.video_list 是否为数组
func hasVideoList(raw json.RawMessage) bool {
	var probe struct {
		Data struct {
			VideoData struct {
				VideoList json.RawMessage `json:"video_list"`
			} `json:"video_data"`
		} `json:"data"`
	}
	if !isObject(raw) || json.Unmarshal(raw, &probe) != nil {
		return false
	}
	return isArray(probe.Data.VideoData.VideoList)
}

// Episodes 全部剧集，要求有 data.video_data.video_list 数组
func (m *MeloloAPI) Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle] {
	u := endpoint(m.base, "/detail", url.Values{"series_id": {id}})
	o := then(m.c.fetch(ctx, Melolo, u, m.headers), func(raw json.RawMessage) Outcome[model.EpisodeBundle] {
		if !hasVideoList(raw) {
			return Miss[model.EpisodeBundle](shapeError("data.video_data.video_list"))
		}
		return then(decode[meloloDetail](Melolo, raw), func(d meloloDetail) Outcome[model.EpisodeBundle] {
			return Success(m.normalize(ctx, id, d))
		})
	})
	return record(Melolo, "episodes", o)
}

func (m *MeloloAPI) normalize(ctx context.Context, id string, d meloloDetail) model.EpisodeBundle {
	vd := d.Data.VideoData
	episodes := make([]model.Episode, len(vd.VideoList))
	for i, v := range vd.VideoList {
		n := i + 1
		if v.VidIndex.Set {
			n = v.VidIndex.Value
		}
		thumb := string(v.Cover)
		if thumb == "" {
			thumb = string(vd.SeriesCover)
		}
		episodes[i] = model.Episode{
			ID:        v.Vid,
			Episode:   n,
			Title:     episodeTitle(string(v.Title), n),
			Thumbnail: thumb,
			VIP:       bool(v.DisablePlay),
			Subtitle:  []model.Subtitle{},
			Videos:    []model.VideoVariant{},
		}
	}

	// 每个 goroutine 只写自己下标的元素
	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range episodes {
		i := i
		if episodes[i].ID.IsZero() {
			continue
		}
		g.Go(func() error {
			episodes[i].Videos = m.stream(ctx, episodes[i].ID.String(), episodes[i].VIP)
			return nil
		})
	}
	_ = g.Wait()

	total := len(episodes)
	if vd.EpisodeCnt.Set {
		total = vd.EpisodeCnt.Value
	}
	return model.EpisodeBundle{
		Source:       Melolo,
		ID:           id,
		Title:        string(vd.SeriesTitle),
		Cover:        string(vd.SeriesCover),
		TotalEpisode: total,
		Episodes:     episodes,
	}
}

// stream 解析单集播放地址，失败时返回空列表
func (m *MeloloAPI) stream(ctx context.Context, videoID string, vip bool) []model.VideoVariant {
	u := endpoint(m.base, "/stream", url.Values{"video_id": {videoID}})
	o := then(m.c.fetch(ctx, Melolo, u, m.headers), func(raw json.RawMessage) Outcome[meloloStream] {
		if !isObject(raw) {
			return Miss[meloloStream](shapeError("data"))
		}
		return decode[meloloStream](Melolo, raw)
	})
	o = record(Melolo, "stream", o)

	switch o.Kind {
	case KindSuccess:
		s := o.Value.Data
		videos := []model.VideoVariant{}
		if s.MainURL != "" {
			videos = append(videos, model.VideoVariant{
				Quality: s.Definition.value(),
				URL:     string(s.MainURL),
				VIP:     vip,
			})
		}
		if s.BackupURL != "" && s.BackupURL != s.MainURL {
			videos = append(videos, model.VideoVariant{
				Quality: s.Definition.value(),
				URL:     string(s.BackupURL),
				VIP:     vip,
			})
		}
		return videos
	case KindMiss:
		m.c.log.Debug("分集播放地址结构不符", zap.String("video_id", videoID), zap.Error(o.Err))
		return []model.VideoVariant{}
	default:
		return []model.VideoVariant{}
	}
}

type meloloBook struct {
	BookID             model.NativeID `json:"book_id"`
	BookName           flexString     `json:"book_name"`
	ThumbURL           flexString     `json:"thumb_url"`
	Abstract           flexString     `json:"abstract"`
	Author             flexString     `json:"author"`
	SerialCount        flexInt        `json:"serial_count"`
	IsNewBook          flexString     `json:"is_new_book"`
	IsHot              flexString     `json:"is_hot"`
	ShowCreationStatus rawScalar      `json:"show_creation_status"`
	AgeGate            rawScalar      `json:"age_gate"`
}

// MeloloList 首页列表接口
type MeloloList struct {
	ID    string
	Title string
	Path  string
}

// MeloloLists 首页列表，顺序即输出顺序
var MeloloLists = []MeloloList{
	{ID: "melolo_latest", Title: "🆕 Melolo Terbaru", Path: "/latest"},
	{ID: "melolo_trending", Title: "🔥 Melolo Trending", Path: "/trending"},
}

// HomeFeeds 最新与热门，各一个分区
func (m *MeloloAPI) HomeFeeds() []Feed {
	feeds := make([]Feed, 0, len(MeloloLists))
	for _, l := range MeloloLists {
		l := l
		u := endpoint(m.base, l.Path, nil)
		feeds = append(feeds, Feed{
			Provider: Melolo,
			Key:      Melolo + l.Path,
			Fetch: func(ctx context.Context) Outcome[json.RawMessage] {
				return record(Melolo, "home", m.c.fetch(ctx, Melolo, u, m.headers))
			},
			Map: func(raw json.RawMessage) []model.Section {
				return mapMeloloBooks(raw, l)
			},
		})
	}
	return feeds
}

func mapMeloloBooks(raw json.RawMessage, l MeloloList) []model.Section {
	if !isObject(raw) {
		return nil
	}
	var page struct {
		Books []meloloBook `json:"books"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil
	}
	items := make([]model.ContentItem, 0, len(page.Books))
	for _, b := range page.Books {
		items = append(items, model.ContentItem{
			Key:         compositeKey(Melolo, b.BookID),
			ID:          b.BookID,
			Title:       string(b.BookName),
			Cover:       string(b.ThumbURL),
			Tags:        []string{},
			Description: string(b.Abstract),
			Author:      string(b.Author),
			Episodes:    b.SerialCount.Value,
			IsNew:       b.IsNewBook == "1",
			IsHot:       b.IsHot == "1",
			Status:      b.ShowCreationStatus.value(),
			AgeGate:     b.AgeGate.value(),
		})
	}
	return []model.Section{{
		ID:    model.StringID(l.ID),
		Title: l.Title,
		Type:  Melolo,
		Items: items,
	}}
}
