package controller

import (
	"log"
	"net/http"
	"strings"

	"slotlayout-go-server/internal/preview"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PreviewHandler 预览通知 WebSocket 连接处理器
// 编辑器订阅某个 店铺+页面类型 频道，草稿保存/发布/回退时收到刷新通知
type PreviewHandler struct {
	hub      *preview.Hub
	upgrader websocket.Upgrader
}

// NewPreviewHandler 构造函数
func NewPreviewHandler(hub *preview.Hub, allowedOrigins []string) *PreviewHandler {
	return &PreviewHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 配置 CORS
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 开发环境允许所有
				if origin == "" || strings.HasPrefix(origin, "http://localhost") {
					return true
				}
				// 生产环境检查白名单
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Printf("[Preview] ⚠️ 拒绝来自 %s 的连接", origin)
				return false
			},
		},
	}
}

// HandlePreview 处理 WebSocket 升级请求
// GET /ws/preview?storeId=xxx&pageType=cart
// ⚠️ 需要在 URL 查询参数或 Sec-WebSocket-Protocol 中携带 JWT Token
func (h *PreviewHandler) HandlePreview(c *gin.Context) {
	storeID := c.Query("storeId")
	pageType := c.Query("pageType")
	if storeID == "" || pageType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storeId 和 pageType 不能为空"})
		return
	}

	// 1. 验证 JWT Token（从 URL 参数获取，因为 WebSocket 不支持自定义 Header）
	token := c.Query("token")
	if token == "" {
		// 也尝试从 Sec-WebSocket-Protocol 获取（某些客户端实现）
		token = c.GetHeader("Sec-WebSocket-Protocol")
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证 token"})
		return
	}

	// 2. 验证 Clerk JWT
	claims, err := jwt.Verify(c.Request.Context(), &jwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		log.Printf("[Preview] ❌ Token 验证失败: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效", "details": err.Error()})
		return
	}

	// 3. 升级为 WebSocket 连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Preview] ❌ 升级 WebSocket 失败: %v", err)
		return
	}

	// 4. 创建客户端并订阅频道
	client := preview.NewClient(h.hub, conn, preview.Topic(storeID, pageType))
	h.hub.Register(client)

	log.Printf("[Preview] ✅ 用户 [%s] 订阅 [%s/%s]", claims.Subject, storeID, pageType)

	// 5. 启动读写协程
	go client.WritePump()
	go client.ReadPump()
}
