package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/provider"
	"go.uber.org/zap"
)

// Attempt 记录回退链中的一次尝试，用于解释最终结果
type Attempt struct {
	Provider string
	Kind     provider.Kind
	Err      error
}

// EpisodeResult 剧集查询结果
// 出错时 SourceFailed 与 Attempts 仍然有效
type EpisodeResult struct {
	Bundle       model.EpisodeBundle
	Provider     string
	SourceFailed *model.SourceFailed
	Attempts     []Attempt
}

// EpisodeService 按固定优先级逐个尝试 provider，第一个成功的胜出
type EpisodeService struct {
	chain []provider.EpisodeSource
	log   *zap.Logger
}

// NewEpisodeService 创建剧集服务，chain 的顺序即回退顺序
func NewEpisodeService(chain []provider.EpisodeSource, log *zap.Logger) *EpisodeService {
	if log == nil {
		log = logger.L
	}
	return &EpisodeService{chain: chain, log: log}
}

// Providers 回退链中的 provider 名称
func (s *EpisodeService) Providers() []string {
	names := make([]string, 0, len(s.chain))
	for _, p := range s.chain {
		names = append(names, p.Name())
	}
	return names
}

// Resolve 查询整部剧的剧集
// 不可达的 provider 在 SourceFailed 中标记为 true；没有数据的只是跳过
func (s *EpisodeService) Resolve(ctx context.Context, id string) (res *EpisodeResult, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidRequest
	}

	res = &EpisodeResult{SourceFailed: model.NewSourceFailed(s.Providers()...)}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("剧集查询异常", zap.String("id", id), zap.Any("panic", r))
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	for _, p := range s.chain {
		name := p.Name()
		o := p.Episodes(ctx, id)
		res.Attempts = append(res.Attempts, Attempt{Provider: name, Kind: o.Kind, Err: o.Err})
		res.SourceFailed.Set(name, o.Failed())

		switch o.Kind {
		case provider.KindSuccess:
			res.Bundle = o.Value
			res.Provider = name
			s.log.Debug("剧集查询命中",
				zap.String("id", id),
				zap.String("provider", name),
				zap.Int("episodes", len(o.Value.Episodes)),
			)
			return res, nil
		case provider.KindMiss:
			s.log.Debug("provider 没有该剧", zap.String("id", id), zap.String("provider", name), zap.Error(o.Err))
		case provider.KindUnreachable:
			s.log.Debug("provider 不可达，继续下一个", zap.String("id", id), zap.String("provider", name))
		}
	}

	s.log.Info("所有 provider 都没有该剧", zap.String("id", id), zap.Any("sourceFailed", res.SourceFailed.Map()))
	return res, ErrNotFound
}
