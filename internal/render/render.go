// Package render 槽位树渲染器
// 把 (页面 Schema, 配置载荷, 视图模式) 解析成有序、内容齐备的渲染描述。
// 纯函数：同一输入永远产出结构相同的输出，不改动输入配置。
// 防御性叶子：畸形配置最多少渲染几个槽位、多出几个 error 节点，绝不 panic
// —— 校验/autoFix 应在编辑路径上游执行，但这里不能依赖这一点
// （外部投喂或损坏的配置会绕过编辑路径直接进来）
package render

import (
	"fmt"

	"slotlayout-go-server/domain/entity"
	"slotlayout-go-server/internal/grid"
)

// NodeKind 渲染节点类型
type NodeKind string

const (
	KindSlot  NodeKind = "slot"  // 正常槽位节点
	KindError NodeKind = "error" // 降级诊断节点：槽位定义缺失等，可见但不致命
)

// MicroSlotNode 单个微槽位的渲染描述
// 宿主 UI 据此直接绘制，不再查任何表
type MicroSlotNode struct {
	Key       string            `json:"key"` // "majorId.microId"
	Content   string            `json:"content"`
	ClassName string            `json:"className"`
	Style     map[string]string `json:"style"`
	Span      *entity.Span      `json:"span,omitempty"`
}

// RenderNode 单个主槽位的渲染描述
type RenderNode struct {
	Kind       NodeKind        `json:"kind"`
	SlotID     string          `json:"slotId"`
	Name       string          `json:"name,omitempty"`
	Type       string          `json:"type,omitempty"`
	Message    string          `json:"message,omitempty"` // 仅 error 节点
	MicroSlots []MicroSlotNode `json:"microSlots,omitempty"`
}

// Render 解析配置为有序渲染树
// 主槽位顺序：配置的 majorSlots（按视图模式过滤）优先，否则 schema 的 defaultSlots。
// 配置引用了 schema 中不存在的槽位时，产出 error 节点并继续渲染其余槽位
func Render(schema *entity.PageTypeSchema, payload *entity.ConfigPayload, viewMode string) []RenderNode {
	if schema == nil {
		return []RenderNode{{
			Kind:    KindError,
			Message: "page schema is missing, nothing can be rendered",
		}}
	}

	majorOrder := schema.DefaultSlots
	if payload != nil && payload.MajorSlots != nil {
		majorOrder = payload.MajorSlots
	}

	nodes := make([]RenderNode, 0, len(majorOrder))
	for _, majorID := range majorOrder {
		def, ok := schema.Slots[majorID]
		if !ok {
			// 部分失败容忍：缺失定义降级为诊断节点，渲染继续
			nodes = append(nodes, RenderNode{
				Kind:    KindError,
				SlotID:  majorID,
				Message: fmt.Sprintf("slot %q is not defined in the %s page schema", majorID, schema.PageType),
			})
			continue
		}

		// views 限制：不属于当前视图模式的槽位直接跳过（不是错误）
		if !def.AllowsView(viewMode) {
			continue
		}

		nodes = append(nodes, RenderNode{
			Kind:       KindSlot,
			SlotID:     majorID,
			Name:       def.Name,
			Type:       def.Type,
			MicroSlots: renderMicroSlots(majorID, &def, payload),
		})
	}

	return nodes
}

// renderMicroSlots 解析单个主槽位下的微槽位列表
// 顺序：配置的 microSlotOrders 优先，否则 schema 的静态 microSlots
func renderMicroSlots(majorID string, def *entity.SlotDefinition, payload *entity.ConfigPayload) []MicroSlotNode {
	microOrder := def.MicroSlots
	if payload != nil {
		if order, ok := payload.MicroSlotOrders[majorID]; ok && len(order) > 0 {
			microOrder = order
		}
	}

	micros := make([]MicroSlotNode, 0, len(microOrder))
	for _, microID := range microOrder {
		key := entity.NewSlotKey(majorID, microID).String()

		node := MicroSlotNode{
			Key:   key,
			Style: map[string]string{},
		}

		if payload != nil {
			node.Content = payload.SlotContent[key]     // 缺失即空串
			node.ClassName = payload.ElementClasses[key] // 缺失即空串

			// 占位先落进 style（gridColumn/gridRow），显式 elementStyles 可覆盖
			if span, ok := payload.MicroSlotSpans[key]; ok {
				clamped := grid.ClampSpan(span)
				node.Span = &clamped
				for k, v := range grid.SpanStyle(span) {
					node.Style[k] = v
				}
			}
			for k, v := range payload.ElementStyles[key] {
				node.Style[k] = v
			}
		}

		micros = append(micros, node)
	}

	return micros
}
