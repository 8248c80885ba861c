package entity

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ================= 槽位配置领域模型 =================

// ConfigStatus 配置生命周期状态
type ConfigStatus string

const (
	StatusDraft     ConfigStatus = "draft"     // 草稿：可编辑，每个 (店铺, 页面类型) 最多一份
	StatusPublished ConfigStatus = "published" // 已发布：不可变的编号快照
	StatusReverted  ConfigStatus = "reverted"  // 已回退：被后续 revert 跳过的历史版本，保留可查
)

// SlotConfiguration 数据库模型 (PostgreSQL JSONB)
// 一行代表一份草稿或一个历史版本；草稿的 VersionNumber 恒为 0，
// 版本号只在发布时分配，且对 (store_id, page_type) 严格单调递增
type SlotConfiguration struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"` // UUID
	StoreID       string         `gorm:"size:64;index:idx_store_page" json:"storeId"`
	PageType      string         `gorm:"size:32;index:idx_store_page" json:"pageType"`
	Status        ConfigStatus   `gorm:"size:16;index" json:"status"`
	VersionNumber int64          `gorm:"default:0" json:"versionNumber"`
	DisplayName   string         `gorm:"size:128" json:"displayName"`
	Configuration datatypes.JSON `gorm:"type:jsonb" json:"configuration"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`

	// HasUnpublishedChanges 派生字段，不落库
	// 规则：草稿内容与当前已发布内容不一致即为 true（无已发布版本时恒为 true）
	HasUnpublishedChanges bool `gorm:"-" json:"hasUnpublishedChanges,omitempty"`
}

// Payload 解析 Configuration 字段为结构化载荷
// 解析失败返回 nil，调用方（渲染器/校验器）必须容忍 nil
func (c *SlotConfiguration) Payload() *ConfigPayload {
	if c == nil || len(c.Configuration) == 0 {
		return nil
	}
	var p ConfigPayload
	if err := json.Unmarshal(c.Configuration, &p); err != nil {
		return nil
	}
	return &p
}

// ================= configuration JSON 载荷 =================

// Span 微槽位在 12 列 × 4 行网格上的占位
type Span struct {
	Col int `json:"col"` // [1,12]
	Row int `json:"row"` // [1,4]
}

// SlotEntry 通用 schema 的单个槽位配置
type SlotEntry struct {
	Enabled   bool            `json:"enabled"`
	Order     int             `json:"order"`
	Component string          `json:"component,omitempty"`
	Props     json.RawMessage `json:"props,omitempty"`
	Required  bool            `json:"required,omitempty"`
}

// ConfigPayload configuration 字段的规范形态
// 通用 schema 使用 Slots；网格页面（cart/category 等）使用 MajorSlots 起的网格字段。
// 旧形态（textContent/componentCode 分离）只存在于导入路径，
// 经 validator.MigrateLegacy 转换后，渲染器只会见到这一种形态
type ConfigPayload struct {
	Version string               `json:"version"`
	Slots   map[string]SlotEntry `json:"slots,omitempty"`

	// 网格页面字段
	MajorSlots      []string                     `json:"majorSlots,omitempty"`
	MicroSlotOrders map[string][]string          `json:"microSlotOrders,omitempty"`
	MicroSlotSpans  map[string]Span              `json:"microSlotSpans,omitempty"`
	SlotContent     map[string]string            `json:"slotContent,omitempty"`
	ElementClasses  map[string]string            `json:"elementClasses,omitempty"`
	ElementStyles   map[string]map[string]string `json:"elementStyles,omitempty"`
	ComponentSizes  map[string]Span              `json:"componentSizes,omitempty"`
	CustomSlots     []string                     `json:"customSlots,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone 深拷贝载荷（经 JSON 往返），用于 autoFix / 发布快照，保证不共享底层 map
func (p *ConfigPayload) Clone() *ConfigPayload {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var out ConfigPayload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

// LegacyPayload 旧版页面专属配置形态（仅导入/迁移路径使用）
// textContent 与 componentCode 在旧版是分开的两张 map，
// 迁移时统一合并进 slotContent
type LegacyPayload struct {
	Version         string                       `json:"version,omitempty"`
	MajorSlots      []string                     `json:"majorSlots,omitempty"`
	MicroSlotOrders map[string][]string          `json:"microSlotOrders,omitempty"`
	MicroSlotSpans  map[string]Span              `json:"microSlotSpans,omitempty"`
	SlotContent     map[string]string            `json:"slotContent,omitempty"`
	TextContent     map[string]string            `json:"textContent,omitempty"`
	ComponentCode   map[string]string            `json:"componentCode,omitempty"`
	ElementClasses  map[string]string            `json:"elementClasses,omitempty"`
	ElementStyles   map[string]map[string]string `json:"elementStyles,omitempty"`
	ComponentSizes  map[string]Span              `json:"componentSizes,omitempty"`
	CustomSlots     []string                     `json:"customSlots,omitempty"`
}
