package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotlayout-go-server/api/controller"
	"slotlayout-go-server/api/route"
	"slotlayout-go-server/bootstrap"
	"slotlayout-go-server/internal/preview"
	"slotlayout-go-server/internal/schema"
	"slotlayout-go-server/repository"
	"slotlayout-go-server/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("[Server] Slot Layout Go Server 启动中...")

	// 加载环境变量
	env := bootstrap.LoadEnv()

	// 初始化 Clerk
	bootstrap.InitClerk(env)

	// 连接数据库
	db := bootstrap.NewDatabase(env.DatabaseURL)

	// 页面 Schema 注册表：默认内嵌，SCHEMA_FILE 可覆盖
	var (
		registry *schema.Registry
		err      error
	)
	if env.SchemaFile != "" {
		registry, err = schema.LoadFile(env.SchemaFile)
		log.Printf("[Server] 使用外部 Schema 文件: %s", env.SchemaFile)
	} else {
		registry, err = schema.NewRegistry()
	}
	if err != nil {
		log.Fatalf("[Server] ❌ 页面 Schema 加载失败: %v", err)
	}
	log.Printf("[Server] ✅ 页面 Schema 已加载，页面类型: %v", registry.PageTypes())

	// 依赖注入 - Repository 层
	configRepo := repository.NewConfigurationRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)

	// 预览通知 Hub
	hub := preview.NewHub()
	go hub.Run()

	// 依赖注入 - UseCase 层
	configUseCase := usecase.NewConfigurationUseCase(configRepo, registry, hub)

	// 依赖注入 - Controller 层
	configController := controller.NewConfigurationController(configUseCase)
	previewHandler := controller.NewPreviewHandler(hub, env.AllowedOrigins)
	webhookController := controller.NewWebhookController(operatorRepo, env.WebhookSecret)

	// 配置 Gin 路由
	router := gin.Default()

	// CORS 配置
	corsOrigins := append([]string{"http://localhost:3000", "http://localhost:5173"}, env.AllowedOrigins...)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 设置路由
	route.Setup(router, &route.Dependencies{
		ConfigurationController: configController,
		PreviewHandler:          previewHandler,
		WebhookController:       webhookController,
	})

	// 启动 HTTP 服务
	srv := &http.Server{
		Addr:    ":" + env.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] 服务已启动: http://localhost:%s", env.Port)
		log.Printf("[Server] API 端点:")
		log.Printf("   GET  /health                                        - 健康检查")
		log.Printf("   GET  /api/stores/:storeId/pages/:pageType/draft     - 获取草稿")
		log.Printf("   POST /api/stores/:storeId/pages/:pageType/draft     - 惰性创建草稿")
		log.Printf("   PUT  /api/configurations/:id                        - 保存草稿")
		log.Printf("   POST /api/configurations/:id/publish                - 发布")
		log.Printf("   GET  /api/stores/:storeId/pages/:pageType/versions  - 版本历史")
		log.Printf("   POST /api/configurations/versions/:versionId/revert - 回退")
		log.Printf("   GET  /api/configurations/versions/:versionId/diff   - 版本差异")
		log.Printf("   GET  /api/stores/:storeId/pages/:pageType/render    - 渲染树")
		log.Printf("   GET  /api/stores/:storeId/pages/:pageType/export    - 导出")
		log.Printf("   POST /api/stores/:storeId/pages/:pageType/import    - 导入")
		log.Printf("   GET  /ws/preview?storeId=xxx&pageType=xxx&token=xxx - 预览通知")
		log.Printf("   POST /webhook/clerk                                 - Clerk Webhook")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] 服务启动失败: %v", err)
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] 收到停机信号，正在优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Server] 服务强制关闭: %v", err)
	}

	// 停掉预览 Hub 的事件循环
	hub.Stop()

	log.Println("[Server] 服务已安全停止")
}
