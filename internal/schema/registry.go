// Package schema 页面类型槽位 Schema 注册表
// 纯查表组件：每种页面模板（cart/category/product/checkout/login）
// 静态定义存在哪些主槽位、各自的微槽位、以及默认槽位顺序。
// 数据从内嵌 YAML 加载，可用外部文件整体覆盖，运行期只读。
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"slotlayout-go-server/domain/entity"
	domainErrors "slotlayout-go-server/domain/errors"

	"github.com/goccy/go-yaml"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// registryFile YAML 文件的顶层结构
type registryFile struct {
	PageTypes map[string]*entity.PageTypeSchema `yaml:"pageTypes"`
}

// Registry 页面类型 → Schema 的只读注册表
type Registry struct {
	pages map[string]*entity.PageTypeSchema
}

// NewRegistry 从内嵌默认 YAML 构建注册表
func NewRegistry() (*Registry, error) {
	return Load(defaultsYAML)
}

// LoadFile 从外部 YAML 文件构建注册表（部署时覆盖内置 Schema 用）
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Load(data)
}

// Load 解析 YAML 并做基本一致性检查
func Load(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema yaml: %w", err)
	}
	if len(file.PageTypes) == 0 {
		return nil, fmt.Errorf("schema yaml contains no page types")
	}

	for pageType, s := range file.PageTypes {
		s.PageType = pageType

		// defaultSlots 里引用的槽位必须在 slots 中定义
		for _, slotID := range s.DefaultSlots {
			if !s.HasSlot(slotID) {
				return nil, fmt.Errorf("page type %q: default slot %q is not defined", pageType, slotID)
			}
		}
	}

	return &Registry{pages: file.PageTypes}, nil
}

// Get 查询页面类型的 Schema
// 未注册的页面类型返回 ErrSchemaNotFound
func (r *Registry) Get(pageType string) (*entity.PageTypeSchema, error) {
	s, ok := r.pages[pageType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrSchemaNotFound, pageType)
	}
	return s, nil
}

// PageTypes 返回所有已注册页面类型（排序后，便于展示与测试）
func (r *Registry) PageTypes() []string {
	types := make([]string, 0, len(r.pages))
	for t := range r.pages {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultPayload 生成页面类型的初始配置载荷
// 用于首次 ensureDraftExists 时无任何已发布配置的场景
func (r *Registry) DefaultPayload(pageType string) (*entity.ConfigPayload, error) {
	s, err := r.Get(pageType)
	if err != nil {
		return nil, err
	}

	majorSlots := make([]string, len(s.DefaultSlots))
	copy(majorSlots, s.DefaultSlots)

	return &entity.ConfigPayload{
		Version:         "1.0",
		MajorSlots:      majorSlots,
		MicroSlotOrders: map[string][]string{},
		MicroSlotSpans:  map[string]entity.Span{},
		SlotContent:     map[string]string{},
		ElementClasses:  map[string]string{},
		ElementStyles:   map[string]map[string]string{},
		Metadata: map[string]any{
			"createdFrom": "schema-defaults",
		},
	}, nil
}
