package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Searcher 支持关键词搜索的 provider
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) provider.Outcome[[]model.SearchResult]
}

// SearchResponse 搜索结果
type SearchResponse struct {
	Query        string               `json:"query"`
	Total        int                  `json:"total"`
	Results      []model.SearchResult `json:"results"`
	SourceFailed *model.SourceFailed  `json:"sourceFailed"`
}

// SearchService 搜索服务
// 各 provider 并发搜索，按原生 ID 合并，排在前面的 provider 优先
type SearchService struct {
	sources []Searcher
	log     *zap.Logger
}

// NewSearchService 创建搜索服务
func NewSearchService(log *zap.Logger, sources ...Searcher) *SearchService {
	if log == nil {
		log = logger.L
	}
	return &SearchService{sources: sources, log: log}
}

// Search 搜索短剧
// 所有 provider 都失败时返回空结果和失败标记，而不是错误
// 合并键只用原生 ID，不带 provider 前缀（与首页去重不同）
func (s *SearchService) Search(ctx context.Context, query string) (resp *SearchResponse, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidRequest
	}

	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	resp = &SearchResponse{
		Query:        query,
		Results:      []model.SearchResult{},
		SourceFailed: model.NewSourceFailed(names...),
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("搜索异常", zap.String("query", query), zap.Any("panic", r))
			resp.Results = []model.SearchResult{}
			resp.Total = 0
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	outcomes := make([]provider.Outcome[[]model.SearchResult], len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("provider 搜索异常", zap.String("provider", names[i]), zap.Any("panic", r))
					outcomes[i] = provider.Unreachable[[]model.SearchResult](fmt.Errorf("panic: %v", r))
				}
			}()
			outcomes[i] = src.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	for i, o := range outcomes {
		name := names[i]
		resp.SourceFailed.Set(name, o.Failed())
		switch o.Kind {
		case provider.KindSuccess:
			for _, r := range o.Value {
				key := r.ID.String()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				resp.Results = append(resp.Results, r)
			}
		case provider.KindMiss:
			s.log.Debug("搜索结果结构不符", zap.String("provider", name), zap.Error(o.Err))
		case provider.KindUnreachable:
			s.log.Debug("搜索 provider 不可达", zap.String("provider", name))
		}
	}
	resp.Total = len(resp.Results)

	s.log.Debug("搜索完成",
		zap.String("query", query),
		zap.Int("total", resp.Total),
		zap.Any("sourceFailed", resp.SourceFailed.Map()),
	)
	return resp, nil
}
