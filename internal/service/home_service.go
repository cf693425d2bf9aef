package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HomeService 首页聚合
// 所有上游并发拉取，之后按声明顺序串行映射与去重：先出现的 provider 分区保留重复条目
type HomeService struct {
	feeds []provider.Feed
	log   *zap.Logger
	sf    singleflight.Group
}

// NewHomeService 创建首页服务，feeds 的顺序即分区输出顺序
func NewHomeService(feeds []provider.Feed, log *zap.Logger) *HomeService {
	if log == nil {
		log = logger.L
	}
	return &HomeService{feeds: feeds, log: log}
}

// seenSet 去重累加器，键为复合身份 "<provider>_<nativeId>"
type seenSet map[string]struct{}

// Aggregate 聚合首页分区
// 同时到达的请求共享同一次聚合，结果不会在调用结束后保留
func (s *HomeService) Aggregate(ctx context.Context) ([]model.Section, error) {
	v, err, shared := s.sf.Do("home", func() (any, error) {
		return s.aggregate(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug("首页聚合复用进行中的请求")
	}
	return v.([]model.Section), nil
}

func (s *HomeService) aggregate(ctx context.Context) (sections []model.Section, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("首页聚合异常", zap.Any("panic", r))
			sections, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	raws := s.fetchAll(ctx)

	sections = []model.Section{}
	seen := seenSet{}
	for i, f := range s.feeds {
		o := raws[i]
		switch o.Kind {
		case provider.KindSuccess:
		case provider.KindMiss:
			continue
		case provider.KindUnreachable:
			s.log.Debug("首页上游不可达", zap.String("feed", f.Key), zap.Error(o.Err))
			continue
		}
		sections, seen = s.fold(sections, seen, f, o.Value)
	}
	s.log.Debug("首页聚合完成", zap.Int("feeds", len(s.feeds)), zap.Int("sections", len(sections)))
	return sections, nil
}

// fetchAll 并发请求所有上游，结果按 feeds 下标存放
func (s *HomeService) fetchAll(ctx context.Context) []provider.Outcome[json.RawMessage] {
	raws := make([]provider.Outcome[json.RawMessage], len(s.feeds))
	var g errgroup.Group
	for i, f := range s.feeds {
		i, f := i, f
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("首页上游请求异常", zap.String("feed", f.Key), zap.Any("panic", r))
					raws[i] = provider.Unreachable[json.RawMessage](fmt.Errorf("panic: %v", r))
				}
			}()
			raws[i] = f.Fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return raws
}

// fold 把一个上游的分区并入结果，返回新的结果与累加器
// 去重后为空的分区直接丢弃
func (s *HomeService) fold(sections []model.Section, seen seenSet, f provider.Feed, raw json.RawMessage) ([]model.Section, seenSet) {
	for _, sec := range s.safeMap(f, raw) {
		var items []model.ContentItem
		items, seen = dedupe(sec.Items, seen)
		if len(items) == 0 {
			continue
		}
		sec.Items = items
		sections = append(sections, sec)
	}
	return sections, seen
}

// safeMap 映射函数 panic 时该上游不贡献任何分区
func (s *HomeService) safeMap(f provider.Feed, raw json.RawMessage) (out []model.Section) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("首页分区映射异常", zap.String("feed", f.Key), zap.Any("panic", r))
			out = nil
		}
	}()
	return f.Map(raw)
}

// dedupe 保留首次出现的条目，没有身份的条目丢弃
func dedupe(items []model.ContentItem, seen seenSet) ([]model.ContentItem, seenSet) {
	out := make([]model.ContentItem, 0, len(items))
	for _, it := range items {
		if it.Key == "" {
			continue
		}
		if _, dup := seen[it.Key]; dup {
			continue
		}
		seen[it.Key] = struct{}{}
		out = append(out, it)
	}
	return out, seen
}
