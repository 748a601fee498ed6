package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// FeatureHandler 功能开关查询
type FeatureHandler struct {
	backend string
}

// NewFeatureHandler 创建功能开关处理器
func NewFeatureHandler(cfg *config.Config) *FeatureHandler {
	return &FeatureHandler{backend: cfg.Catalog.Backend}
}

// RegisterRoutes 注册功能开关路由
func (h *FeatureHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/features/backend", h.Backend)
}

// Backend 当前使用的存储后端
// @Summary      当前存储后端
// @Description  catalog.backend配置:sql(手写SQL)、orm(GORM)、memory(内存)
// @Tags         功能开关
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BackendResponse}
// @Router       /api/v1/features/backend [get]
func (h *FeatureHandler) Backend(c *gin.Context) {
	response.Success(c, &dto.BackendResponse{
		Backend: h.backend,
		UseSQL:  h.backend == config.BackendSQL,
	})
}
