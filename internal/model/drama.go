package model

// ContentItem 首页分区中的一条短剧
type ContentItem struct {
	Key string `json:"-"` // 复合身份 "<provider>_<nativeId>"，用于全局去重

	ID          NativeID `json:"id"`
	Title       string   `json:"title"`
	Cover       string   `json:"cover"`
	Tags        []string `json:"tags"`
	VIP         bool     `json:"vip,omitempty"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	Episodes    int      `json:"episodes,omitempty"`
	PlayCount   any      `json:"playCount,omitempty"` // 各家格式不一（"1.2M" 或数字）
	IsNew       bool     `json:"isNew,omitempty"`
	IsHot       bool     `json:"isHot,omitempty"`
	Status      any      `json:"status,omitempty"`
	AgeGate     any      `json:"ageGate,omitempty"`

	// FlickReels 特有
	CoverSquare string `json:"coverSquare,omitempty"`
	UploadNum   any    `json:"uploadNum,omitempty"`
	HotNum      any    `json:"hotNum,omitempty"`
	HotURL      string `json:"hotUrl,omitempty"`
	RankURL     string `json:"rankUrl,omitempty"`
	RankType    any    `json:"rankType,omitempty"`
	RankOrder   any    `json:"rankOrder,omitempty"`
	Introduce   string `json:"introduce,omitempty"`
	ReleaseTime string `json:"releaseTime,omitempty"`
}

// Section 首页分区
type Section struct {
	ID    NativeID      `json:"id"`
	Title string        `json:"title"`
	Type  string        `json:"type"`
	Items []ContentItem `json:"items"`
}

// VideoVariant 某一清晰度的播放地址
type VideoVariant struct {
	Quality any    `json:"quality"` // 上游可能给 720 或 "720p"
	URL     string `json:"url"`
	VIP     bool   `json:"vip"`
}

// Subtitle 字幕
type Subtitle struct {
	Lang   string `json:"lang"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Episode 单集
type Episode struct {
	ID        NativeID       `json:"id"`
	Episode   int            `json:"episode"`
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail"`
	VIP       bool           `json:"vip"`
	Subtitle  []Subtitle     `json:"subtitle"`
	Videos    []VideoVariant `json:"videos"`
}

// EpisodeBundle 一部剧的全部剧集（已归一化）
type EpisodeBundle struct {
	Source       string    `json:"source"`
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Cover        string    `json:"cover,omitempty"`
	TotalEpisode int       `json:"totalEpisode"`
	Episodes     []Episode `json:"episodes"`
}

// SearchResult 搜索结果
type SearchResult struct {
	Source      string   `json:"source"`
	ID          NativeID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Cover       string   `json:"cover"`
	Tags        []string `json:"tags"`
	VIP         bool     `json:"vip,omitempty"`
	Heat        any      `json:"heat,omitempty"`
}
