package preview

// ================= 预览刷新事件 =================
// 这里只做"有变更，请重新拉取"的信号，不携带配置内容本身：
// 预览窗口收到事件后回查 HTTP 接口（拉模式），服务端不维护文档状态

// EventKind 事件类型
type EventKind string

const (
	EventDraftUpdated EventKind = "draft-updated" // 草稿被保存
	EventPublished    EventKind = "published"     // 新版本发布
	EventReverted     EventKind = "reverted"      // 发生回退（也会产生新版本）
)

// Event 推送给预览窗口的刷新事件
type Event struct {
	Kind          EventKind `json:"kind"`
	StoreID       string    `json:"storeId"`
	PageType      string    `json:"pageType"`
	VersionNumber int64     `json:"versionNumber,omitempty"` // 发布/回退后的新版本号
	Timestamp     int64     `json:"ts"`
}

// Topic 事件路由键：一个 (店铺, 页面类型) 一个频道
func (e Event) Topic() string {
	return Topic(e.StoreID, e.PageType)
}

// Topic 构造订阅频道名
func Topic(storeID, pageType string) string {
	return storeID + ":" + pageType
}
