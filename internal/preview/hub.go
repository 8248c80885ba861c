// Package preview 草稿变更通知总线
// 编辑器面板之间的刷新联动走这里：任何落库的变更（保存草稿/发布/回退）
// 都会广播到对应 (店铺, 页面类型) 频道，预览窗口收到后回查 HTTP 接口。
// 明确的观察者总线，取代散落在宿主里的全局刷新回调；
// 不做协同合并，总线上没有任何配置内容
package preview

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// ========== Actor Model: 订阅表只在 Run() 循环内修改 ==========

// Hub 预览频道总线
type Hub struct {
	topics map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewHub 创建总线实例
func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 256),
		stopChan:   make(chan struct{}),
	}
}

// Run 事件循环：注册/注销/广播全部串行处理，topics 无需锁
func (h *Hub) Run() {
	log.Println("[Preview] 🚀 预览通知总线已启动")

	for {
		select {
		case client := <-h.register:
			subs, ok := h.topics[client.topic]
			if !ok {
				subs = make(map[*Client]bool)
				h.topics[client.topic] = subs
			}
			subs[client] = true
			log.Printf("[Preview] 👋 新订阅 %s，当前订阅数: %d", client.topic, len(subs))

		case client := <-h.unregister:
			if subs, ok := h.topics[client.topic]; ok {
				if _, ok := subs[client]; ok {
					delete(subs, client)
					close(client.send)
					if len(subs) == 0 {
						delete(h.topics, client.topic)
					}
				}
			}

		case event := <-h.events:
			h.broadcast(event)

		case <-h.stopChan:
			// 关闭所有订阅连接后退出
			for topic, subs := range h.topics {
				for client := range subs {
					close(client.send)
				}
				delete(h.topics, topic)
			}
			log.Println("[Preview] 🛑 预览通知总线已停止")
			return
		}
	}
}

// broadcast 把事件投递给频道内所有订阅者
// 订阅者缓冲区满时直接丢弃：刷新信号是幂等的，丢一条无伤大雅
func (h *Hub) broadcast(event Event) {
	subs, ok := h.topics[event.Topic()]
	if !ok || len(subs) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Preview] ⚠️ 事件序列化失败: %v", err)
		return
	}

	for client := range subs {
		select {
		case client.send <- data:
		default:
			// 慢消费者，跳过本条
		}
	}
}

// Stop 停止事件循环并断开所有订阅
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Register 注册订阅客户端
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister 注销订阅客户端
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish 投递事件（非阻塞，队列满时丢弃并记日志）
func (h *Hub) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	select {
	case h.events <- event:
	default:
		log.Printf("[Preview] ⚠️ 事件队列已满，丢弃 %s 事件 (%s)", event.Kind, event.Topic())
	}
}

// ================= usecase 消费的通知接口实现 =================

// NotifyDraftUpdated 草稿保存后调用
func (h *Hub) NotifyDraftUpdated(storeID, pageType string) {
	h.Publish(Event{Kind: EventDraftUpdated, StoreID: storeID, PageType: pageType})
}

// NotifyPublished 发布成功后调用
func (h *Hub) NotifyPublished(storeID, pageType string, versionNumber int64) {
	h.Publish(Event{Kind: EventPublished, StoreID: storeID, PageType: pageType, VersionNumber: versionNumber})
}

// NotifyReverted 回退成功后调用
func (h *Hub) NotifyReverted(storeID, pageType string, versionNumber int64) {
	h.Publish(Event{Kind: EventReverted, StoreID: storeID, PageType: pageType, VersionNumber: versionNumber})
}
