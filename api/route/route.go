package route

import (
	"slotlayout-go-server/api/controller"
	"slotlayout-go-server/api/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖注入结构
type Dependencies struct {
	ConfigurationController *controller.ConfigurationController
	PreviewHandler          *controller.PreviewHandler
	WebhookController       *controller.WebhookController
}

// Setup 配置所有路由
func Setup(router *gin.Engine, deps *Dependencies) {
	// --- 公开路由 ---

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "slotlayout-go-server",
		})
	})

	// Clerk Webhook（使用签名验证，不使用 JWT）
	router.POST("/webhook/clerk", deps.WebhookController.HandleClerkWebhook)

	// --- WebSocket 路由 ---
	// WebSocket 自行在 Handler 中验证 Token
	router.GET("/ws/preview", deps.PreviewHandler.HandlePreview)

	// --- API 路由（需要 Clerk JWT 认证）---
	api := router.Group("/api")
	api.Use(middleware.ClerkAuth())
	{
		// 草稿读写
		api.GET("/stores/:storeId/pages/:pageType/draft", deps.ConfigurationController.GetDraft)
		api.POST("/stores/:storeId/pages/:pageType/draft", deps.ConfigurationController.EnsureDraft)
		api.PUT("/configurations/:id", deps.ConfigurationController.SaveDraft)

		// 发布与版本
		api.POST("/configurations/:id/publish", deps.ConfigurationController.Publish)
		api.GET("/stores/:storeId/pages/:pageType/versions", deps.ConfigurationController.GetVersionHistory)
		api.POST("/configurations/versions/:versionId/revert", deps.ConfigurationController.Revert)
		api.GET("/configurations/versions/:versionId/diff", deps.ConfigurationController.DiffVersion)

		// 渲染与导入导出
		api.GET("/stores/:storeId/pages/:pageType/render", deps.ConfigurationController.RenderPage)
		api.GET("/stores/:storeId/pages/:pageType/export", deps.ConfigurationController.Export)
		api.POST("/stores/:storeId/pages/:pageType/import", deps.ConfigurationController.Import)
	}
}
