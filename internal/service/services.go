package service

import (
	"fmt"

	"github.com/user/dramahub/internal/config"
	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/provider"
	"github.com/user/dramahub/internal/utils"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Episodes *EpisodeService
	Home     *HomeService
	Search   *SearchService
}

// NewServices 按配置创建所有上游与服务
func NewServices(cfg *config.Config, log *zap.Logger) (*Services, error) {
	if log == nil {
		log = logger.L
	}

	c := provider.NewClient(utils.NewHTTPClient(cfg.UpstreamTimeout), log.Named("provider"))
	dramabox := provider.NewDramaBox(c, cfg.DramaBoxURL, cfg.UserAgent)
	netshort := provider.NewNetShort(c, cfg.NetShortURL, cfg.UserAgent)
	melolo := provider.NewMelolo(c, cfg.MeloloURL, cfg.UserAgent, cfg.StreamConcurrency)
	flickreels := provider.NewFlickReels(c, cfg.FlickReelsURL, cfg.UserAgent)

	reg, err := provider.NewRegistry(melolo, netshort, flickreels, dramabox)
	if err != nil {
		return nil, err
	}
	chain, err := reg.Chain(cfg.EpisodeOrder)
	if err != nil {
		return nil, fmt.Errorf("EPISODE_PROVIDER_ORDER 无效: %w", err)
	}

	// 首页分区顺序：剧场 → DramaBox 各分类 → Melolo → FlickReels
	var feeds []provider.Feed
	feeds = append(feeds, netshort.HomeFeeds()...)
	feeds = append(feeds, dramabox.HomeFeeds()...)
	feeds = append(feeds, melolo.HomeFeeds()...)
	feeds = append(feeds, flickreels.HomeFeeds()...)

	return &Services{
		Episodes: NewEpisodeService(chain, log.Named("episode")),
		Home:     NewHomeService(feeds, log.Named("home")),
		Search:   NewSearchService(log.Named("search"), dramabox, netshort),
	}, nil
}
