package render

import (
	"reflect"
	"testing"

	"slotlayout-go-server/domain/entity"
	"slotlayout-go-server/internal/schema"

	"github.com/stretchr/testify/assert"
)

// ========== 槽位树渲染器单元测试 ==========

func cartSchema(t *testing.T) *entity.PageTypeSchema {
	t.Helper()

	registry, err := schema.NewRegistry()
	assert.NoError(t, err)

	s, err := registry.Get("cart")
	assert.NoError(t, err)
	return s
}

// TestRender_FullMerge 内容、样式类、行内样式、占位全部按键合并到位
func TestRender_FullMerge(t *testing.T) {
	payload := &entity.ConfigPayload{
		Version:    "1.0",
		MajorSlots: []string{"header"},
		MicroSlotOrders: map[string][]string{
			"header": {"subtitle", "title"}, // 自定义微槽位顺序
		},
		SlotContent: map[string]string{
			"header.title": "我的购物车",
		},
		ElementClasses: map[string]string{
			"header.title": "text-2xl font-bold",
		},
		ElementStyles: map[string]map[string]string{
			"header.title": {"color": "#1a1a1a"},
		},
		MicroSlotSpans: map[string]entity.Span{
			"header.title": {Col: 8, Row: 1},
		},
	}

	nodes := Render(cartSchema(t), payload, "withProducts")

	assert.Len(t, nodes, 1)
	header := nodes[0]
	assert.Equal(t, KindSlot, header.Kind)
	assert.Equal(t, "header", header.SlotID)

	// 微槽位顺序来自配置而非 schema
	assert.Equal(t, "header.subtitle", header.MicroSlots[0].Key)
	assert.Equal(t, "header.title", header.MicroSlots[1].Key)

	title := header.MicroSlots[1]
	assert.Equal(t, "我的购物车", title.Content)
	assert.Equal(t, "text-2xl font-bold", title.ClassName)
	assert.Equal(t, "#1a1a1a", title.Style["color"])
	assert.Equal(t, "span 8", title.Style["gridColumn"])
	assert.Equal(t, entity.Span{Col: 8, Row: 1}, *title.Span)

	// 未配置内容的微槽位降级为空串与空 map，不是 nil
	subtitle := header.MicroSlots[0]
	assert.Equal(t, "", subtitle.Content)
	assert.Equal(t, "", subtitle.ClassName)
	assert.NotNil(t, subtitle.Style)
}

// TestRender_GhostSlot 配置引用了 schema 中不存在的槽位：
// 产出 error 节点，其余槽位照常渲染（部分失败容忍）
func TestRender_GhostSlot(t *testing.T) {
	payload := &entity.ConfigPayload{
		Version:    "1.0",
		MajorSlots: []string{"header", "ghost", "recommendations"},
	}

	nodes := Render(cartSchema(t), payload, "empty")

	assert.Len(t, nodes, 3)
	assert.Equal(t, KindSlot, nodes[0].Kind)
	assert.Equal(t, KindError, nodes[1].Kind)
	assert.Equal(t, "ghost", nodes[1].SlotID)
	assert.Contains(t, nodes[1].Message, `"ghost"`)
	assert.Equal(t, KindSlot, nodes[2].Kind)
	assert.Equal(t, "recommendations", nodes[2].SlotID)
}

// TestRender_ViewModeFiltering views 限制：cartContent 只在 withProducts 出现，
// emptyCart 只在 empty 出现
func TestRender_ViewModeFiltering(t *testing.T) {
	s := cartSchema(t)

	slotIDs := func(nodes []RenderNode) []string {
		ids := make([]string, 0, len(nodes))
		for _, n := range nodes {
			ids = append(ids, n.SlotID)
		}
		return ids
	}

	withProducts := slotIDs(Render(s, nil, "withProducts"))
	assert.Contains(t, withProducts, "cartContent")
	assert.NotContains(t, withProducts, "emptyCart")

	empty := slotIDs(Render(s, nil, "empty"))
	assert.Contains(t, empty, "emptyCart")
	assert.NotContains(t, empty, "cartContent")
}

// TestRender_NilPayload 无配置时按 schema 默认槽位渲染
func TestRender_NilPayload(t *testing.T) {
	nodes := Render(cartSchema(t), nil, "withProducts")

	// 默认槽位里 emptyCart 被视图过滤，剩 4 个
	assert.Len(t, nodes, 4)
	assert.Equal(t, "header", nodes[0].SlotID)

	// 微槽位顺序回退到 schema 的静态定义
	assert.Equal(t, "header.title", nodes[0].MicroSlots[0].Key)
	assert.Equal(t, "header.subtitle", nodes[0].MicroSlots[1].Key)
}

// TestRender_Deterministic 核心性质：同一输入两次渲染，输出结构完全一致
func TestRender_Deterministic(t *testing.T) {
	payload := &entity.ConfigPayload{
		Version:    "1.0",
		MajorSlots: []string{"recommendations", "header", "flashMessage"},
		SlotContent: map[string]string{
			"header.title":          "标题",
			"flashMessage.text":     "限时促销",
			"recommendations.title": "猜你喜欢",
		},
		MicroSlotSpans: map[string]entity.Span{
			"header.title":      {Col: 6, Row: 1},
			"flashMessage.text": {Col: 12, Row: 1},
		},
	}
	s := cartSchema(t)

	first := Render(s, payload, "withProducts")
	second := Render(s, payload, "withProducts")

	assert.True(t, reflect.DeepEqual(first, second), "两次渲染结果必须逐字段一致")
}

// TestRender_DoesNotMutateInput 渲染不改动输入配置
func TestRender_DoesNotMutateInput(t *testing.T) {
	payload := &entity.ConfigPayload{
		Version:    "1.0",
		MajorSlots: []string{"header"},
		ElementStyles: map[string]map[string]string{
			"header.title": {"color": "red"},
		},
		MicroSlotSpans: map[string]entity.Span{
			"header.title": {Col: 3, Row: 1},
		},
	}

	_ = Render(cartSchema(t), payload, "withProducts")

	// 输入的 style map 不应被并入 gridColumn 等键
	assert.Equal(t, map[string]string{"color": "red"}, payload.ElementStyles["header.title"])
	assert.Equal(t, []string{"header"}, payload.MajorSlots)
}

// TestRender_NilSchema schema 缺失时产出单个 error 节点，不 panic
func TestRender_NilSchema(t *testing.T) {
	nodes := Render(nil, &entity.ConfigPayload{MajorSlots: []string{"header"}}, "")

	assert.Len(t, nodes, 1)
	assert.Equal(t, KindError, nodes[0].Kind)
}

// TestRender_CorruptedOrders 畸形 microSlotOrders（未知微槽位）也能渲染：
// 渲染器不做校验，按配置顺序输出，未知键的内容自然为空
func TestRender_CorruptedOrders(t *testing.T) {
	payload := &entity.ConfigPayload{
		Version:    "1.0",
		MajorSlots: []string{"header"},
		MicroSlotOrders: map[string][]string{
			"header": {"nonexistent"},
		},
	}

	nodes := Render(cartSchema(t), payload, "withProducts")

	assert.Len(t, nodes, 1)
	assert.Equal(t, "header.nonexistent", nodes[0].MicroSlots[0].Key)
	assert.Equal(t, "", nodes[0].MicroSlots[0].Content)
}
