package provider

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/utils"
)

// NetShortAPI NetShort 上游
type NetShortAPI struct {
	c       *Client
	base    string
	headers utils.Headers
}

// NewNetShort 创建 NetShort 上游
func NewNetShort(c *Client, base, userAgent string) *NetShortAPI {
	return &NetShortAPI{c: c, base: base, headers: utils.BrowserHeaders(userAgent)}
}

// Name 实现 EpisodeSource
func (n *NetShortAPI) Name() string { return NetShort }

type netshortDetail struct {
	ShortPlayName  flexString           `json:"shortPlayName"`
	ShortPlayCover flexString           `json:"shortPlayCover"`
	TotalEpisode   flexInt              `json:"totalEpisode"`
	Episodes       []netshortEpisodeRaw `json:"shortPlayEpisodeInfos"`
}

type netshortEpisodeRaw struct {
	EpisodeID    model.NativeID `json:"episodeId"`
	EpisodeNo    flexInt        `json:"episodeNo"`
	EpisodeCover flexString     `json:"episodeCover"`
	IsVip        flexBool       `json:"isVip"`
	IsLock       flexBool       `json:"isLock"`
	PlayClarity  rawScalar      `json:"playClarity"`
	PlayVoucher  flexString     `json:"playVoucher"`
	SubtitleList []struct {
		SubtitleLanguage flexString `json:"subtitleLanguage"`
		URL              flexString `json:"url"`
		Format           flexString `json:"format"`
	} `json:"subtitleList"`
}

// Episodes 全部剧集，要求顶层有 shortPlayEpisodeInfos 数组
func (n *NetShortAPI) Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle] {
	u := endpoint(n.base, "/allepisode", url.Values{"shortPlayId": {id}})
	o := then(n.c.fetch(ctx, NetShort, u, n.headers), func(raw json.RawMessage) Outcome[model.EpisodeBundle] {
		var probe struct {
			Episodes json.RawMessage `json:"shortPlayEpisodeInfos"`
		}
		if !isObject(raw) || json.Unmarshal(raw, &probe) != nil || !isArray(probe.Episodes) {
			return Miss[model.EpisodeBundle](shapeError("shortPlayEpisodeInfos"))
		}
		return then(decode[netshortDetail](NetShort, raw), func(d netshortDetail) Outcome[model.EpisodeBundle] {
			return Success(normalizeNetShortEpisodes(id, d))
		})
	})
	return record(NetShort, "episodes", o)
}

func normalizeNetShortEpisodes(id string, d netshortDetail) model.EpisodeBundle {
	episodes := make([]model.Episode, 0, len(d.Episodes))
	for i, ep := range d.Episodes {
		no := i + 1
		if ep.EpisodeNo.Set {
			no = ep.EpisodeNo.Value
		}
		subtitle := make([]model.Subtitle, 0, len(ep.SubtitleList))
		for _, s := range ep.SubtitleList {
			subtitle = append(subtitle, model.Subtitle{
				Lang:   string(s.SubtitleLanguage),
				URL:    string(s.URL),
				Format: string(s.Format),
			})
		}
		episodes = append(episodes, model.Episode{
			ID:        ep.EpisodeID,
			Episode:   no,
			Title:     episodeTitle("", no),
			Thumbnail: string(ep.EpisodeCover),
			VIP:       bool(ep.IsVip) || bool(ep.IsLock),
			Subtitle:  subtitle,
			Videos: []model.VideoVariant{{
				Quality: ep.PlayClarity.value(),
				URL:     string(ep.PlayVoucher),
				VIP:     bool(ep.IsVip),
			}},
		})
	}
	total := len(episodes)
	if d.TotalEpisode.Set {
		total = d.TotalEpisode.Value
	}
	return model.EpisodeBundle{
		Source:       NetShort,
		ID:           id,
		Title:        string(d.ShortPlayName),
		Cover:        string(d.ShortPlayCover),
		TotalEpisode: total,
		Episodes:     episodes,
	}
}

type netshortTheater struct {
	GroupID      model.NativeID `json:"groupId"`
	ContentName  flexString     `json:"contentName"`
	ContentInfos []struct {
		ShortPlayID    model.NativeID `json:"shortPlayId"`
		ShortPlayName  flexString     `json:"shortPlayName"`
		ShortPlayCover flexString     `json:"shortPlayCover"`
		LabelArray     flexStrings    `json:"labelArray"`
		HeatScoreShow  rawScalar      `json:"heatScoreShow"`
		IsNewLabel     flexBool       `json:"isNewLabel"`
	} `json:"contentInfos"`
}

// HomeFeeds 剧场分组，一组一个分区
func (n *NetShortAPI) HomeFeeds() []Feed {
	u := endpoint(n.base, "/theaters", nil)
	return []Feed{{
		Provider: NetShort,
		Key:      NetShort + "/theaters",
		Fetch: func(ctx context.Context) Outcome[json.RawMessage] {
			return record(NetShort, "home", n.c.fetch(ctx, NetShort, u, n.headers))
		},
		Map: mapNetShortTheaters,
	}}
}

func mapNetShortTheaters(raw json.RawMessage) []model.Section {
	if !isArray(raw) {
		return nil
	}
	var groups []netshortTheater
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil
	}
	sections := make([]model.Section, 0, len(groups))
	for _, g := range groups {
		items := make([]model.ContentItem, 0, len(g.ContentInfos))
		for _, c := range g.ContentInfos {
			items = append(items, model.ContentItem{
				Key:       compositeKey(NetShort, c.ShortPlayID),
				ID:        c.ShortPlayID,
				Title:     utils.StripMarkup(string(c.ShortPlayName)),
				Cover:     string(c.ShortPlayCover),
				Tags:      c.LabelArray.orEmpty(),
				PlayCount: c.HeatScoreShow.value(),
				IsNew:     bool(c.IsNewLabel),
			})
		}
		sections = append(sections, model.Section{
			ID:    g.GroupID,
			Title: string(g.ContentName),
			Type:  "theater",
			Items: items,
		})
	}
	return sections
}

// Search 搜索，要求顶层有 searchCodeSearchResult 数组
// 标题里带高亮标签，输出前去掉
func (n *NetShortAPI) Search(ctx context.Context, query string) Outcome[[]model.SearchResult] {
	u := endpoint(n.base, "/search", url.Values{"query": {query}})
	o := then(n.c.fetch(ctx, NetShort, u, n.headers), func(raw json.RawMessage) Outcome[[]model.SearchResult] {
		var page struct {
			Results json.RawMessage `json:"searchCodeSearchResult"`
		}
		if !isObject(raw) || json.Unmarshal(raw, &page) != nil || !isArray(page.Results) {
			return Miss[[]model.SearchResult](shapeError("searchCodeSearchResult"))
		}
		type hit struct {
			ShortPlayID     model.NativeID `json:"shortPlayId"`
			ShortPlayName   flexString     `json:"shortPlayName"`
			ShotIntroduce   flexString     `json:"shotIntroduce"`
			ShortPlayCover  flexString     `json:"shortPlayCover"`
			LabelNameList   flexStrings    `json:"labelNameList"`
			FormatHeatScore rawScalar      `json:"formatHeatScore"`
		}
		return then(decode[[]hit](NetShort, page.Results), func(hits []hit) Outcome[[]model.SearchResult] {
			results := make([]model.SearchResult, 0, len(hits))
			for _, h := range hits {
				if h.ShortPlayID.IsZero() {
					continue
				}
				results = append(results, model.SearchResult{
					Source:      NetShort,
					ID:          h.ShortPlayID,
					Title:       utils.StripMarkup(string(h.ShortPlayName)),
					Description: string(h.ShotIntroduce),
					Cover:       string(h.ShortPlayCover),
					Tags:        h.LabelNameList.orEmpty(),
					Heat:        h.FormatHeatScore.value(),
				})
			}
			return Success(results)
		})
	})
	return record(NetShort, "search", o)
}
