package entity

// ================= 页面类型静态 Schema =================
// 每种页面模板（cart/category/product/checkout/login）一份，
// 纯查表数据，由 internal/schema.Registry 从 YAML 加载，运行期只读

// SlotDefinition 单个主槽位的静态定义
type SlotDefinition struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string   `yaml:"type" json:"type"`
	MicroSlots  []string `yaml:"microSlots,omitempty" json:"microSlots,omitempty"`
	// Views 非空时，该槽位仅在列出的视图模式下渲染（如 cart 的 empty / withProducts）
	Views []string `yaml:"views,omitempty" json:"views,omitempty"`
}

// AllowsView 判断槽位在给定视图模式下是否可见
// Views 为空表示所有视图都可见
func (d *SlotDefinition) AllowsView(viewMode string) bool {
	if len(d.Views) == 0 {
		return true
	}
	for _, v := range d.Views {
		if v == viewMode {
			return true
		}
	}
	return false
}

// PageTypeSchema 一种页面类型的完整槽位定义
type PageTypeSchema struct {
	PageType string                    `yaml:"pageType" json:"pageType"`
	Slots    map[string]SlotDefinition `yaml:"slots" json:"slots"`
	// DefaultSlots 无任何配置时的主槽位顺序
	DefaultSlots []string `yaml:"defaultSlots" json:"defaultSlots"`
}

// HasSlot 判断主槽位 ID 是否存在于 schema 中
func (s *PageTypeSchema) HasSlot(slotID string) bool {
	_, ok := s.Slots[slotID]
	return ok
}
