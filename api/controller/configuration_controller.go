package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	domainErrors "slotlayout-go-server/domain/errors"
	"slotlayout-go-server/internal/validator"
	"slotlayout-go-server/usecase"

	"github.com/gin-gonic/gin"
)

// --- 响应结构定义 ---

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EnsureDraftResponse ensureDraftExists 的响应：带 created 标志
type EnsureDraftResponse struct {
	Draft   any  `json:"draft"`
	Created bool `json:"created"`
}

// --- 控制器定义 ---

// ConfigurationController 槽位配置 HTTP 控制器
type ConfigurationController struct {
	configUseCase *usecase.ConfigurationUseCase
}

// NewConfigurationController 创建 ConfigurationController 实例
func NewConfigurationController(configUseCase *usecase.ConfigurationUseCase) *ConfigurationController {
	return &ConfigurationController{configUseCase: configUseCase}
}

// GetDraft 获取草稿（带派生的 hasUnpublishedChanges）
// GET /api/stores/:storeId/pages/:pageType/draft
func (cc *ConfigurationController) GetDraft(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	draft, err := cc.configUseCase.GetDraftConfiguration(storeID, pageType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if draft == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "草稿不存在"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// EnsureDraftRequest 惰性创建草稿请求结构
type EnsureDraftRequest struct {
	DisplayName string `json:"displayName"`
}

// EnsureDraft 惰性创建草稿（幂等）
// POST /api/stores/:storeId/pages/:pageType/draft
// 已存在时返回 200 + created=false，新建时返回 201 + created=true
func (cc *ConfigurationController) EnsureDraft(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	var req EnsureDraftRequest
	_ = c.ShouldBindJSON(&req) // displayName 可选，body 为空也接受

	draft, created, err := cc.configUseCase.EnsureDraftExists(storeID, pageType, req.DisplayName)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSchemaNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "未知页面类型", Details: pageType})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, EnsureDraftResponse{Draft: draft, Created: created})
}

// SaveDraft 保存草稿内容
// PUT /api/configurations/:id
// 请求体即 configuration 载荷 JSON；校验失败返回 422（调用方应先 autoFix）
func (cc *ConfigurationController) SaveDraft(c *gin.Context) {
	draftID := c.Param("id")

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无法读取请求体"})
		return
	}

	draft, err := cc.configUseCase.SaveDraft(draftID, raw)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrDraftNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "草稿不存在"})
		case errors.Is(err, domainErrors.ErrValidationFailed):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "配置未通过校验", Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Publish 把草稿快照成新的已发布版本
// POST /api/configurations/:id/publish
// 乐观锁冲突返回 409，前端应提示"刷新后重试"
func (cc *ConfigurationController) Publish(c *gin.Context) {
	draftID := c.Param("id")

	published, err := cc.configUseCase.PublishDraft(draftID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrDraftNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "草稿不存在"})
		case errors.Is(err, domainErrors.ErrOptimisticLock):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "版本已被其他发布推进，请刷新后重试"})
		case errors.Is(err, domainErrors.ErrValidationFailed):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "配置未通过校验", Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, published)
}

// GetVersionHistory 版本历史（新的在前，reverted 带状态返回）
// GET /api/stores/:storeId/pages/:pageType/versions?limit=20
func (cc *ConfigurationController) GetVersionHistory(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	versions, err := cc.configUseCase.GetVersionHistory(storeID, pageType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, versions)
}

// Revert 回退到历史版本
// POST /api/configurations/versions/:versionId/revert
func (cc *ConfigurationController) Revert(c *gin.Context) {
	versionID := c.Param("versionId")

	reverted, err := cc.configUseCase.RevertToVersion(versionID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrVersionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "版本不存在"})
		case errors.Is(err, domainErrors.ErrOptimisticLock):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "版本已被其他发布推进，请刷新后重试"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, reverted)
}

// DiffVersion 目标版本相对上一版的 merge patch
// GET /api/configurations/versions/:versionId/diff
func (cc *ConfigurationController) DiffVersion(c *gin.Context) {
	versionID := c.Param("versionId")

	patch, err := cc.configUseCase.DiffVersions(versionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrVersionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "版本不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", patch)
}

// RenderPage 解析渲染树
// GET /api/stores/:storeId/pages/:pageType/render?viewMode=withProducts&mode=published
// mode=draft 用于编辑器预览，mode=published 用于线上渲染；
// 配置缺失/损坏不报错，渲染器自行降级（error 节点随树返回）
func (cc *ConfigurationController) RenderPage(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	viewMode := c.Query("viewMode")
	mode := c.DefaultQuery("mode", usecase.ModePublished)

	nodes, err := cc.configUseCase.RenderPage(storeID, pageType, viewMode, mode)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSchemaNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "未知页面类型", Details: pageType})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, nodes)
}

// Export 导出配置载荷 JSON（备份/分享）
// GET /api/stores/:storeId/pages/:pageType/export?mode=published
func (cc *ConfigurationController) Export(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	mode := c.DefaultQuery("mode", usecase.ModePublished)

	data, err := cc.configUseCase.ExportConfiguration(storeID, pageType, mode)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrDraftNotFound), errors.Is(err, domainErrors.ErrPublishedNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "没有可导出的配置"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+pageType+"-layout.json")
	c.Data(http.StatusOK, "application/json", data)
}

// ImportResponse 导入响应：落库的草稿 + 修复前的校验报告
// report.valid=false 时编辑器应提示用户哪些问题被自动修复
type ImportResponse struct {
	Draft  any              `json:"draft"`
	Report validator.Result `json:"report"`
}

// Import 导入外部配置为草稿内容（强制 validate + autoFix + 旧版迁移）
// POST /api/stores/:storeId/pages/:pageType/import
func (cc *ConfigurationController) Import(c *gin.Context) {
	storeID, pageType, ok := storePageParams(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无法读取请求体"})
		return
	}

	draft, report, err := cc.configUseCase.ImportToDraft(storeID, pageType, raw, "")
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSchemaNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "未知页面类型", Details: pageType})
		case errors.Is(err, domainErrors.ErrValidationFailed):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "导入文件无法解析", Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Draft: draft, Report: report})
}

// storePageParams 提取并检查路径参数
func storePageParams(c *gin.Context) (storeID, pageType string, ok bool) {
	storeID = c.Param("storeId")
	pageType = c.Param("pageType")
	if storeID == "" || pageType == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "storeId 和 pageType 不能为空"})
		return "", "", false
	}
	return storeID, pageType, true
}
