// Package grid 网格占位解析
// 纯函数组件：把编辑器的像素拖拽增量换算成饱和收拢后的整数占位，
// 以及把占位转换成渲染层可直接消费的布局原语。无状态、无 I/O，
// 指针事件每次移动都会重复调用，必须保持可重入
package grid

import (
	"fmt"
	"math"

	"slotlayout-go-server/domain/entity"
)

// 网格边界：12 列 × 4 行
const (
	MinColSpan = 1
	MaxColSpan = 12
	MinRowSpan = 1
	MaxRowSpan = 4
)

// ColSpanFromDrag 把横向像素增量换算成新的列占位
// 饱和截断到 [1,12]：再大的增量也不会绕回或越界
func ColSpanFromDrag(startSpan int, pixelDeltaX, cellWidthPx float64) int {
	return spanFromDrag(startSpan, pixelDeltaX, cellWidthPx, MinColSpan, MaxColSpan)
}

// RowSpanFromDrag 把纵向像素增量换算成新的行占位，饱和截断到 [1,4]
func RowSpanFromDrag(startSpan int, pixelDeltaY, cellHeightPx float64) int {
	return spanFromDrag(startSpan, pixelDeltaY, cellHeightPx, MinRowSpan, MaxRowSpan)
}

func spanFromDrag(startSpan int, pixelDelta, cellSizePx float64, min, max int) int {
	// 单元格尺寸非法时不产生位移，保持原占位（仍然收拢进边界）
	if cellSizePx <= 0 || math.IsNaN(pixelDelta) || math.IsInf(pixelDelta, 0) {
		return clampInt(startSpan, min, max)
	}

	cells := math.Round(pixelDelta / cellSizePx)
	if math.IsNaN(cells) {
		return clampInt(startSpan, min, max)
	}
	// 先把格数收拢进 [-max, max]，避免超大浮点转整型的未定义区间
	if cells > float64(max) {
		cells = float64(max)
	}
	if cells < float64(-max) {
		cells = float64(-max)
	}

	return clampInt(startSpan+int(cells), min, max)
}

// ================= 元素级缩放 =================

// ElementKind 缩放规则按元素类型区分
type ElementKind string

const (
	ElementIcon    ElementKind = "icon"    // 等比缩放：宽高取两个增量的平均值同步变化
	ElementButton  ElementKind = "button"  // 高度优先：字号由新高度推导
	ElementDefault ElementKind = "default" // 宽高各自独立缩放
)

// 按钮字号推导范围
const (
	buttonFontMin   = 12.0
	buttonFontMax   = 20.0
	buttonFontRatio = 0.4
)

// ResizeBounds 调用方提供的每个维度的缩放边界
type ResizeBounds struct {
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
	MaxHeight float64
}

// ElementSize 缩放结果
// FontSize 仅对 button 有效，其余类型恒为 0
type ElementSize struct {
	Width    float64
	Height   float64
	FontSize float64
}

// ResizeElement 按元素类型应用缩放规则
func ResizeElement(kind ElementKind, width, height, deltaX, deltaY float64, bounds ResizeBounds) ElementSize {
	var newWidth, newHeight float64

	switch kind {
	case ElementIcon:
		// 等比：两个方向的增量取平均，宽高同步移动
		avg := (deltaX + deltaY) / 2
		newWidth = width + avg
		newHeight = height + avg
	case ElementButton:
		// 高度优先：高度跟随纵向增量，宽度照常
		newWidth = width + deltaX
		newHeight = height + deltaY
	default:
		newWidth = width + deltaX
		newHeight = height + deltaY
	}

	newWidth = clampFloat(newWidth, bounds.MinWidth, bounds.MaxWidth)
	newHeight = clampFloat(newHeight, bounds.MinHeight, bounds.MaxHeight)

	size := ElementSize{Width: newWidth, Height: newHeight}
	if kind == ElementButton {
		size.FontSize = clampFloat(newHeight*buttonFontRatio, buttonFontMin, buttonFontMax)
	}
	return size
}

// ================= 占位 → 布局原语 =================

// SpanStyle 把占位转换成渲染层可直接并入 style 的 CSS 网格声明
func SpanStyle(span entity.Span) map[string]string {
	col := clampInt(span.Col, MinColSpan, MaxColSpan)
	row := clampInt(span.Row, MinRowSpan, MaxRowSpan)
	return map[string]string{
		"gridColumn": fmt.Sprintf("span %d", col),
		"gridRow":    fmt.Sprintf("span %d", row),
	}
}

// ClampSpan 把任意占位收拢进网格边界（导入/迁移路径复用）
func ClampSpan(span entity.Span) entity.Span {
	return entity.Span{
		Col: clampInt(span.Col, MinColSpan, MaxColSpan),
		Row: clampInt(span.Row, MinRowSpan, MaxRowSpan),
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampFloat max <= 0 视为未设上限（零值 ResizeBounds 只保证非负）
func clampFloat(v, min, max float64) float64 {
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}
