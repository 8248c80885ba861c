package grid

import (
	"math"
	"testing"

	"slotlayout-go-server/domain/entity"

	"github.com/stretchr/testify/assert"
)

// ========== 网格占位解析单元测试 ==========

// TestColSpanFromDrag 基本换算：像素增量按单元格宽度取整
func TestColSpanFromDrag(t *testing.T) {
	testCases := []struct {
		name      string
		startSpan int
		deltaX    float64
		cellWidth float64
		expected  int
	}{
		{"不动", 4, 0, 100, 4},
		{"右拖一格", 4, 100, 100, 5},
		{"右拖一格半 - 四舍五入", 4, 150, 100, 6},
		{"右拖不到半格 - 舍去", 4, 40, 100, 4},
		{"左拖一格", 4, -100, 100, 3},
		{"左拖到底饱和", 4, -2000, 100, 1},
		{"右拖到顶饱和", 4, 99999, 100, 12},
		{"起始占位本身越界也被收拢", 40, 0, 100, 12},
		{"单元格宽度为零 - 保持原占位", 4, 500, 0, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ColSpanFromDrag(tc.startSpan, tc.deltaX, tc.cellWidth))
		})
	}
}

// TestRowSpanFromDrag 行占位上限是 4
func TestRowSpanFromDrag(t *testing.T) {
	assert.Equal(t, 2, RowSpanFromDrag(1, 80, 80))
	assert.Equal(t, 4, RowSpanFromDrag(2, 10000, 80))
	assert.Equal(t, 1, RowSpanFromDrag(3, -10000, 80))
}

// TestSpanClamping 性质测试：任意起始占位 × 任意增量（含极端值），
// 结果永远落在 [1,12] / [1,4]，饱和而非回绕
func TestSpanClamping(t *testing.T) {
	extremeDeltas := []float64{
		0, 1, -1, 1e9, -1e9, math.MaxFloat64, -math.MaxFloat64,
		math.Inf(1), math.Inf(-1), math.NaN(),
	}

	for start := -5; start <= 20; start++ {
		for _, delta := range extremeDeltas {
			col := ColSpanFromDrag(start, delta, 80)
			assert.GreaterOrEqual(t, col, MinColSpan)
			assert.LessOrEqual(t, col, MaxColSpan)

			row := RowSpanFromDrag(start, delta, 80)
			assert.GreaterOrEqual(t, row, MinRowSpan)
			assert.LessOrEqual(t, row, MaxRowSpan)
		}
	}
}

// TestResizeElement_Icon 图标等比缩放：宽高用两个增量的平均值同步移动
func TestResizeElement_Icon(t *testing.T) {
	bounds := ResizeBounds{MinWidth: 16, MaxWidth: 256, MinHeight: 16, MaxHeight: 256}

	size := ResizeElement(ElementIcon, 64, 64, 20, 10, bounds)

	assert.Equal(t, 79.0, size.Width)  // 64 + (20+10)/2
	assert.Equal(t, 79.0, size.Height) // 与宽度同步
	assert.Zero(t, size.FontSize)
}

// TestResizeElement_Button 按钮高度优先，字号 = clamp(12, 20, 0.4 × 新高度)
func TestResizeElement_Button(t *testing.T) {
	bounds := ResizeBounds{MinWidth: 40, MaxWidth: 600, MinHeight: 24, MaxHeight: 120}

	testCases := []struct {
		name         string
		height       float64
		deltaY       float64
		wantHeight   float64
		wantFontSize float64
	}{
		{"常规高度", 40, 0, 40, 16},          // 0.4×40 = 16
		{"高度压到下限 - 字号触底", 24, -100, 24, 12}, // 0.4×24 = 9.6 → 12
		{"高度拉到上限 - 字号封顶", 40, 500, 120, 20}, // 0.4×120 = 48 → 20
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			size := ResizeElement(ElementButton, 100, tc.height, 0, tc.deltaY, bounds)
			assert.Equal(t, tc.wantHeight, size.Height)
			assert.Equal(t, tc.wantFontSize, size.FontSize)
		})
	}
}

// TestResizeElement_Default 普通元素宽高各自独立，且都收拢进边界
func TestResizeElement_Default(t *testing.T) {
	bounds := ResizeBounds{MinWidth: 50, MaxWidth: 400, MinHeight: 30, MaxHeight: 300}

	size := ResizeElement(ElementDefault, 100, 80, 1000, -1000, bounds)

	assert.Equal(t, 400.0, size.Width)
	assert.Equal(t, 30.0, size.Height)
	assert.Zero(t, size.FontSize)
}

// TestSpanStyle 占位转成 CSS 网格声明，越界输入一样被收拢
func TestSpanStyle(t *testing.T) {
	style := SpanStyle(entity.Span{Col: 3, Row: 2})
	assert.Equal(t, "span 3", style["gridColumn"])
	assert.Equal(t, "span 2", style["gridRow"])

	saturated := SpanStyle(entity.Span{Col: 100, Row: -1})
	assert.Equal(t, "span 12", saturated["gridColumn"])
	assert.Equal(t, "span 1", saturated["gridRow"])
}

// TestClampSpan 导入路径复用的占位收拢
func TestClampSpan(t *testing.T) {
	assert.Equal(t, entity.Span{Col: 12, Row: 4}, ClampSpan(entity.Span{Col: 50, Row: 50}))
	assert.Equal(t, entity.Span{Col: 1, Row: 1}, ClampSpan(entity.Span{Col: 0, Row: 0}))
	assert.Equal(t, entity.Span{Col: 7, Row: 2}, ClampSpan(entity.Span{Col: 7, Row: 2}))
}
