package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/provider"
)

// sectionFeed 返回固定分区的 Feed，raw 为空表示上游不可达
func sectionFeed(providerName, key string, raw string, sections ...model.Section) provider.Feed {
	return provider.Feed{
		Provider: providerName,
		Key:      key,
		Fetch: func(ctx context.Context) provider.Outcome[json.RawMessage] {
			if raw == "" {
				return provider.Unreachable[json.RawMessage](errors.New("down"))
			}
			return provider.Success(json.RawMessage(raw))
		},
		Map: func(json.RawMessage) []model.Section { return sections },
	}
}

func item(providerName, id string) model.ContentItem {
	nid := model.StringID(id)
	key := ""
	if !nid.IsZero() {
		key = providerName + "_" + id
	}
	return model.ContentItem{Key: key, ID: nid, Title: id, Tags: []string{}}
}

func section(id, typ string, items ...model.ContentItem) model.Section {
	return model.Section{ID: model.StringID(id), Title: id, Type: typ, Items: items}
}

func ids(items []model.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID.String())
	}
	return out
}

func TestAggregateDedupWithinProvider(t *testing.T) {
	feeds := []provider.Feed{
		sectionFeed("dramabox", "dramabox/vip", "{}",
			section("vip", "vip", item("dramabox", "1"), item("dramabox", "2"))),
		sectionFeed("dramabox", "dramabox/latest", "{}",
			section("latest", "latest", item("dramabox", "2"), item("dramabox", "3"))),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"1", "2"}, ids(sections[0].Items))
	assert.Equal(t, []string{"3"}, ids(sections[1].Items), "重复条目只保留在先出现的分区")
}

func TestAggregateSameNativeIDAcrossProviders(t *testing.T) {
	feeds := []provider.Feed{
		sectionFeed("netshort", "netshort/theaters", "[]",
			section("100", "theater", item("netshort", "7"))),
		sectionFeed("dramabox", "dramabox/vip", "{}",
			section("vip", "vip", item("dramabox", "7"))),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2, "不同 provider 的相同原生 ID 不算重复")
	assert.Equal(t, []string{"7"}, ids(sections[0].Items))
	assert.Equal(t, []string{"7"}, ids(sections[1].Items))
}

func TestAggregateDropsEmptySections(t *testing.T) {
	feeds := []provider.Feed{
		sectionFeed("netshort", "netshort/theaters", "[]",
			section("a", "theater", item("netshort", "1")),
			section("empty", "theater"),
			section("noid", "theater", item("netshort", ""), item("netshort", "0")),
		),
		sectionFeed("dramabox", "dramabox/vip", "{}",
			section("dup", "vip", item("netshort", "1"))),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "a", sections[0].ID.String())
}

func TestAggregateKeepsDeclarationOrder(t *testing.T) {
	// 后声明的上游先返回，输出顺序不受影响
	slow := sectionFeed("netshort", "netshort/theaters", "[]", section("first", "theater", item("netshort", "1")))
	fetch := slow.Fetch
	slow.Fetch = func(ctx context.Context) provider.Outcome[json.RawMessage] {
		time.Sleep(50 * time.Millisecond)
		return fetch(ctx)
	}
	feeds := []provider.Feed{
		slow,
		sectionFeed("melolo", "melolo/latest", "{}", section("second", "melolo", item("melolo", "1"))),
		sectionFeed("flickreels", "flickreels/latest", "{}", section("third", "flickreels", item("flickreels", "1"))),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "first", sections[0].ID.String())
	assert.Equal(t, "second", sections[1].ID.String())
	assert.Equal(t, "third", sections[2].ID.String())
}

func TestAggregateBestEffort(t *testing.T) {
	panicking := sectionFeed("melolo", "melolo/latest", "{}")
	panicking.Map = func(json.RawMessage) []model.Section { panic("bad payload") }

	feeds := []provider.Feed{
		sectionFeed("netshort", "netshort/theaters", ""),
		panicking,
		sectionFeed("flickreels", "flickreels/hotrank", "{}", section("hot", "flickreels", item("flickreels", "9"))),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "hot", sections[0].ID.String())
}

func TestAggregateAllDown(t *testing.T) {
	feeds := []provider.Feed{
		sectionFeed("netshort", "netshort/theaters", ""),
		sectionFeed("dramabox", "dramabox/vip", ""),
	}
	sections, err := NewHomeService(feeds, nil).Aggregate(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestAggregateFetchesConcurrentlyAndCoalesces(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	feed := sectionFeed("netshort", "netshort/theaters", "[]", section("a", "theater", item("netshort", "1")))
	fetch := feed.Fetch
	feed.Fetch = func(ctx context.Context) provider.Outcome[json.RawMessage] {
		calls.Add(1)
		<-release
		return fetch(ctx)
	}
	svc := NewHomeService([]provider.Feed{feed}, nil)

	var wg sync.WaitGroup
	results := make([][]model.Section, 2)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Aggregate(context.Background())
		}()
	}
	// 等第一个聚合进入上游请求后再放行
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.Len(t, results[0], 1)
	assert.Len(t, results[1], 1)

	// 不缓存：再次调用会重新请求
	_, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}
