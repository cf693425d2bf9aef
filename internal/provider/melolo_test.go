package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meloloDetailBody = `{"data": {"video_data": {
  "series_title": "Cinta", "series_cover": "sc", "episode_cnt": 3,
  "video_list": [
    {"vid": "v1", "vid_index": 1, "title": "", "cover": "c1"},
    {"vid": "v2", "vid_index": 2, "title": "Dua", "disable_play": true},
    {"vid": "v3", "vid_index": 3}
  ]
}}}`

func TestMeloloEpisodes(t *testing.T) {
	up := newFakeUpstream(t, map[string]http.HandlerFunc{
		"/detail": jsonBody(meloloDetailBody),
		"/stream": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("video_id") {
			case "v1":
				jsonBody(`{"data": {"main_url": "https://m/1", "backup_url": "https://b/1", "definition": "720p"}}`)(w, r)
			case "v2":
				jsonBody(`{"data": {"main_url": "https://m/2", "definition": "1080p"}}`)(w, r)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		},
	})
	o := NewMelolo(newTestClient(), up.URL, "ua", 4).Episodes(context.Background(), "s1")
	require.Equal(t, KindSuccess, o.Kind)
	assert.Equal(t, "series_id=s1", up.lastQuery("/detail"))
	assert.Equal(t, 3, up.count("/stream"))

	b := o.Value
	assert.Equal(t, Melolo, b.Source)
	assert.Equal(t, "Cinta", b.Title)
	assert.Equal(t, 3, b.TotalEpisode)
	require.Len(t, b.Episodes, 3)

	ep1 := b.Episodes[0]
	assert.Equal(t, "EP 1", ep1.Title)
	assert.Equal(t, "c1", ep1.Thumbnail)
	require.Len(t, ep1.Videos, 2)
	assert.Equal(t, "https://m/1", ep1.Videos[0].URL)
	assert.Equal(t, "720p", ep1.Videos[0].Quality)
	assert.Equal(t, "https://b/1", ep1.Videos[1].URL)

	ep2 := b.Episodes[1]
	assert.Equal(t, "Dua", ep2.Title)
	assert.Equal(t, "sc", ep2.Thumbnail, "分集没有封面时用剧封面")
	assert.True(t, ep2.VIP)
	require.Len(t, ep2.Videos, 1)
	assert.True(t, ep2.Videos[0].VIP)

	// 播放地址解析失败不影响整部剧
	ep3 := b.Episodes[2]
	assert.NotNil(t, ep3.Videos)
	assert.Empty(t, ep3.Videos)
}

func TestMeloloStreamsResolveConcurrently(t *testing.T) {
	const n = 3
	var inflight int32
	all := make(chan struct{})
	var once sync.Once
	var timedOut atomic.Bool

	up := newFakeUpstream(t, map[string]http.HandlerFunc{
		"/detail": jsonBody(meloloDetailBody),
		"/stream": func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&inflight, 1) == n {
				once.Do(func() { close(all) })
			}
			select {
			case <-all:
			case <-time.After(3 * time.Second):
				timedOut.Store(true)
			}
			jsonBody(`{"data": {"main_url": "https://m/x"}}`)(w, r)
		},
	})
	o := NewMelolo(newTestClient(), up.URL, "ua", n).Episodes(context.Background(), "s1")
	require.Equal(t, KindSuccess, o.Kind)
	assert.False(t, timedOut.Load(), "所有分集请求应同时在途")
	for _, ep := range o.Value.Episodes {
		assert.Len(t, ep.Videos, 1)
	}
}

func TestMeloloEpisodesShape(t *testing.T) {
	for _, body := range []string{`{}`, `{"data": {}}`, `{"data": {"video_data": {"video_list": {}}}}`, `[]`} {
		up := newFakeUpstream(t, map[string]http.HandlerFunc{"/detail": jsonBody(body)})
		o := NewMelolo(newTestClient(), up.URL, "ua", 2).Episodes(context.Background(), "s1")
		assert.Equal(t, KindMiss, o.Kind, body)
		assert.Equal(t, 0, up.count("/stream"))
	}
}

func TestMeloloHomeFeeds(t *testing.T) {
	var accept atomic.Value
	up := newFakeUpstream(t, map[string]http.HandlerFunc{
		"/latest": func(w http.ResponseWriter, r *http.Request) {
			accept.Store(r.Header.Get("Accept"))
			jsonBody(`{"books": [{"book_id": "m1", "book_name": "A", "thumb_url": "t", "abstract": "ab",
			  "author": "au", "serial_count": "45", "is_new_book": "1", "is_hot": "0",
			  "show_creation_status": "Tamat", "age_gate": 0}]}`)(w, r)
		},
		"/trending": jsonBody(`{"books": []}`),
	})
	feeds := NewMelolo(newTestClient(), up.URL, "ua", 1).HomeFeeds()
	require.Len(t, feeds, 2)

	o := feeds[0].Fetch(context.Background())
	require.Equal(t, KindSuccess, o.Kind)
	assert.Equal(t, meloloAccept, accept.Load())

	sections := feeds[0].Map(o.Value)
	require.Len(t, sections, 1)
	s := sections[0]
	assert.Equal(t, "melolo_latest", s.ID.String())
	assert.Equal(t, "🆕 Melolo Terbaru", s.Title)
	assert.Equal(t, Melolo, s.Type)
	require.Len(t, s.Items, 1)

	it := s.Items[0]
	assert.Equal(t, "melolo_m1", it.Key)
	assert.Equal(t, "ab", it.Description)
	assert.Equal(t, "au", it.Author)
	assert.Equal(t, 45, it.Episodes)
	assert.True(t, it.IsNew)
	assert.False(t, it.IsHot)
	assert.Equal(t, "Tamat", it.Status)
	assert.Equal(t, json.Number("0"), it.AgeGate)

	assert.Nil(t, mapMeloloBooks(json.RawMessage(`[]`), MeloloLists[1]))
}
