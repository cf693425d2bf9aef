package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/service"
	"github.com/user/dramahub/internal/utils"
	"go.uber.org/zap"
)

// Handler HTTP 处理器
type Handler struct {
	Episodes *service.EpisodeService
	Home     *service.HomeService
	Search   *service.SearchService
	log      *zap.Logger
}

// NewHandler 创建处理器
func NewHandler(s *service.Services, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L
	}
	return &Handler{
		Episodes: s.Episodes,
		Home:     s.Home,
		Search:   s.Search,
		log:      log,
	}
}

// EpisodeRequest 剧集查询参数
type EpisodeRequest struct {
	ID string `form:"id" binding:"required"` // 任一 provider 的原生 ID
}

// SearchRequest 搜索参数
type SearchRequest struct {
	Q string `form:"q" binding:"required"` // 关键词
}

// episodeResponse 剧集响应，sourceFailed 与剧集字段并列
type episodeResponse struct {
	model.EpisodeBundle
	SourceFailed *model.SourceFailed `json:"sourceFailed"`
}

// bindMessage 把绑定错误转成面向用户的提示
func bindMessage(err error, param string) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "required" {
		return param + " wajib diisi"
	}
	return "parameter " + param + " tidak valid"
}

// Episode 查询整部剧的剧集
// GET /api/episode?id=
func (h *Handler) Episode(c *gin.Context) {
	var req EpisodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, bindMessage(err, "id"))
		return
	}

	res, err := h.Episodes.Resolve(c.Request.Context(), req.ID)
	switch {
	case err == nil:
		utils.Success(c, episodeResponse{EpisodeBundle: res.Bundle, SourceFailed: res.SourceFailed})
	case errors.Is(err, service.ErrInvalidRequest):
		utils.BadRequest(c, "id wajib diisi")
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, "ID tidak ditemukan di provider mana pun", gin.H{"sourceFailed": res.SourceFailed})
	default:
		h.log.Error("剧集查询失败", zap.String("id", req.ID), zap.Error(err))
		extra := gin.H{}
		if res != nil {
			extra["sourceFailed"] = res.SourceFailed
		}
		utils.InternalServerError(c, err.Error(), extra)
	}
}

// HomeSections 首页分区
// GET /api/home
func (h *Handler) HomeSections(c *gin.Context) {
	sections, err := h.Home.Aggregate(c.Request.Context())
	if err != nil {
		h.log.Error("首页聚合失败", zap.Error(err))
		utils.InternalServerError(c, err.Error(), gin.H{"sections": []model.Section{}})
		return
	}
	utils.Success(c, gin.H{"sections": sections})
}

// SearchDramas 搜索短剧
// GET /api/search?q=
func (h *Handler) SearchDramas(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, bindMessage(err, "q"))
		return
	}

	resp, err := h.Search.Search(c.Request.Context(), req.Q)
	switch {
	case err == nil:
		utils.Success(c, resp)
	case errors.Is(err, service.ErrInvalidRequest):
		utils.BadRequest(c, "q wajib diisi")
	default:
		h.log.Error("搜索失败", zap.String("q", req.Q), zap.Error(err))
		extra := gin.H{"results": []model.SearchResult{}}
		if resp != nil {
			extra["sourceFailed"] = resp.SourceFailed
		}
		utils.InternalServerError(c, err.Error(), extra)
	}
}
