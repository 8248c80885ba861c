// Package validator 配置校验 / 自动修复 / 旧版迁移
// 防御性叶子组件：任何畸形输入都只产出错误列表或修复后的副本，绝不 panic，
// 也绝不把错误透传给渲染器
package validator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"slotlayout-go-server/domain/entity"
)

var (
	// version 字段必须是 "major.minor" 形式
	versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

	// 通用 schema 的槽位 ID：3~4 段小写字母，点分隔（如 cart.header.title）
	genericSlotIDPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+(\.[a-z]+)?$`)
)

// 网格占位的合法范围
const (
	MinColSpan = 1
	MaxColSpan = 12
	MinRowSpan = 1
	MaxRowSpan = 4
)

// Result 校验结果：每条违规一条错误字符串
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate 校验配置载荷是否与页面 Schema 一致
// 只报告，不修复；所有报告的问题 AutoFix 都能修复
func Validate(payload *entity.ConfigPayload, schema *entity.PageTypeSchema) Result {
	var errs []string

	if schema == nil {
		return Result{Valid: false, Errors: []string{"page schema is missing"}}
	}
	if payload == nil {
		return Result{Valid: false, Errors: []string{"configuration is not an object"}}
	}

	// 1. version 格式
	if payload.Version == "" {
		errs = append(errs, "version is missing")
	} else if !versionPattern.MatchString(payload.Version) {
		errs = append(errs, fmt.Sprintf("version %q does not match major.minor format", payload.Version))
	}

	// 2. 容器必须至少有一种形态
	if payload.Slots == nil && payload.MajorSlots == nil {
		errs = append(errs, "neither slots nor majorSlots container is present")
	}

	// 3. majorSlots 引用的槽位必须在 schema 中定义
	for _, slotID := range payload.MajorSlots {
		if !schema.HasSlot(slotID) {
			errs = append(errs, fmt.Sprintf("major slot %q is not defined in page schema", slotID))
		}
	}

	// 4. 网格形态下 schema 的默认槽位全部必选：整个缺失直接拒绝
	// （手工投喂的载荷也会走到这里，不能只指望编辑器路径的 AutoFix）
	if payload.MajorSlots != nil {
		for _, slotID := range schema.DefaultSlots {
			if !containsString(payload.MajorSlots, slotID) {
				errs = append(errs, fmt.Sprintf("required slot %q is missing from majorSlots", slotID))
			}
		}
	}

	// 5. microSlotOrders：主键和微槽位 ID 都要能在 schema 中找到
	for majorID, microIDs := range payload.MicroSlotOrders {
		def, ok := schema.Slots[majorID]
		if !ok {
			errs = append(errs, fmt.Sprintf("microSlotOrders references unknown major slot %q", majorID))
			continue
		}
		for _, microID := range microIDs {
			if !containsString(def.MicroSlots, microID) {
				errs = append(errs, fmt.Sprintf("micro slot %q is not defined for major slot %q", microID, majorID))
			}
		}
	}

	// 6. 通用 schema：槽位 ID 格式 + required 条目不允许被禁用
	for slotID, slotEntry := range payload.Slots {
		if !genericSlotIDPattern.MatchString(slotID) {
			errs = append(errs, fmt.Sprintf("slot id %q does not match the generic slot id pattern", slotID))
		}
		if slotEntry.Required && !slotEntry.Enabled {
			errs = append(errs, fmt.Sprintf("required slot %q is disabled", slotID))
		}
	}

	// 7. 网格占位范围
	for key, span := range payload.MicroSlotSpans {
		if span.Col < MinColSpan || span.Col > MaxColSpan {
			errs = append(errs, fmt.Sprintf("span for %q has col %d outside [%d,%d]", key, span.Col, MinColSpan, MaxColSpan))
		}
		if span.Row < MinRowSpan || span.Row > MaxRowSpan {
			errs = append(errs, fmt.Sprintf("span for %q has row %d outside [%d,%d]", key, span.Row, MinRowSpan, MaxRowSpan))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateRaw 校验原始 JSON 字节（导入路径 / 外部投喂的配置）
// 非对象、类型不符等解码问题一律转成校验错误，不向上抛异常
func ValidateRaw(raw []byte, schema *entity.PageTypeSchema) Result {
	if len(raw) == 0 {
		return Result{Valid: false, Errors: []string{"configuration is empty"}}
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Result{Valid: false, Errors: []string{fmt.Sprintf("configuration is not valid JSON: %v", err)}}
	}
	if _, ok := probe.(map[string]any); !ok {
		return Result{Valid: false, Errors: []string{"configuration is not a JSON object"}}
	}

	var payload entity.ConfigPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{Valid: false, Errors: []string{fmt.Sprintf("configuration has wrong container types: %v", err)}}
	}

	return Validate(&payload, schema)
}

// AutoFix 修复常见缺陷，返回修复后的副本（不改动输入）
// 幂等且全函数：AutoFix(AutoFix(c)) == AutoFix(c)，任何输入都有输出。
// 修复范围覆盖 Validate 报告的全部问题，所以 AutoFix 之后 Validate 必然通过
func AutoFix(payload *entity.ConfigPayload, schema *entity.PageTypeSchema) *entity.ConfigPayload {
	if schema == nil {
		// 没有 schema 无从修复，原样克隆返回
		if payload == nil {
			return &entity.ConfigPayload{Version: "1.0"}
		}
		return payload.Clone()
	}

	fixed := payload.Clone()
	if fixed == nil {
		fixed = &entity.ConfigPayload{}
	}

	// version 缺失或格式非法 → 重置为 1.0
	if !versionPattern.MatchString(fixed.Version) {
		fixed.Version = "1.0"
	}

	// majorSlots：丢掉 schema 中不存在的 ID，保持原有顺序
	var majorSlots []string
	seen := map[string]bool{}
	for _, slotID := range fixed.MajorSlots {
		if schema.HasSlot(slotID) && !seen[slotID] {
			majorSlots = append(majorSlots, slotID)
			seen[slotID] = true
		}
	}
	// schema 要求的默认槽位缺失时补在末尾（按 schema 顺序）
	for _, slotID := range schema.DefaultSlots {
		if !seen[slotID] {
			majorSlots = append(majorSlots, slotID)
			seen[slotID] = true
		}
	}
	if majorSlots == nil {
		// defaultSlots 为空的极端 schema：容器也必须存在
		majorSlots = []string{}
	}
	fixed.MajorSlots = majorSlots

	// microSlotOrders：丢掉未知主槽位、未知微槽位
	orders := map[string][]string{}
	for majorID, microIDs := range fixed.MicroSlotOrders {
		def, ok := schema.Slots[majorID]
		if !ok {
			continue
		}
		var kept []string
		for _, microID := range microIDs {
			if containsString(def.MicroSlots, microID) {
				kept = append(kept, microID)
			}
		}
		if len(kept) > 0 {
			orders[majorID] = kept
		}
	}
	fixed.MicroSlotOrders = orders

	// 通用槽位：丢掉 ID 格式非法的条目，required 条目强制启用
	if fixed.Slots != nil {
		slots := map[string]entity.SlotEntry{}
		for slotID, slotEntry := range fixed.Slots {
			if genericSlotIDPattern.MatchString(slotID) {
				if slotEntry.Required {
					slotEntry.Enabled = true
				}
				slots[slotID] = slotEntry
			}
		}
		fixed.Slots = slots
	}

	// 占位越界 → 饱和收拢到合法范围
	spans := map[string]entity.Span{}
	for key, span := range fixed.MicroSlotSpans {
		spans[key] = entity.Span{
			Col: clampInt(span.Col, MinColSpan, MaxColSpan),
			Row: clampInt(span.Row, MinRowSpan, MaxRowSpan),
		}
	}
	fixed.MicroSlotSpans = spans

	// 缺失的内容容器一律补空
	if fixed.SlotContent == nil {
		fixed.SlotContent = map[string]string{}
	}
	if fixed.ElementClasses == nil {
		fixed.ElementClasses = map[string]string{}
	}
	if fixed.ElementStyles == nil {
		fixed.ElementStyles = map[string]map[string]string{}
	}

	return fixed
}

// MigrateLegacy 把旧版页面专属形态转换成规范形态
// textContent / componentCode 两张旧 map 合并进统一的 slotContent，
// 新键（text/component）在冲突时覆盖旧 slotContent 的值
func MigrateLegacy(legacy *entity.LegacyPayload, pageType string) *entity.ConfigPayload {
	now := time.Now().UnixMilli()

	if legacy == nil {
		return &entity.ConfigPayload{
			Version: "1.0",
			Metadata: map[string]any{
				"migratedFrom": "legacy",
				"pageType":     pageType,
				"timestamp":    now,
			},
		}
	}

	slotContent := map[string]string{}
	for key, value := range legacy.SlotContent {
		slotContent[key] = value
	}
	for key, value := range legacy.TextContent {
		slotContent[key] = value
	}
	for key, value := range legacy.ComponentCode {
		slotContent[key] = value
	}

	version := legacy.Version
	if !versionPattern.MatchString(version) {
		version = "1.0"
	}

	return &entity.ConfigPayload{
		Version:         version,
		MajorSlots:      legacy.MajorSlots,
		MicroSlotOrders: legacy.MicroSlotOrders,
		MicroSlotSpans:  legacy.MicroSlotSpans,
		SlotContent:     slotContent,
		ElementClasses:  legacy.ElementClasses,
		ElementStyles:   legacy.ElementStyles,
		ComponentSizes:  legacy.ComponentSizes,
		CustomSlots:     legacy.CustomSlots,
		Metadata: map[string]any{
			"migratedFrom": "legacy",
			"pageType":     pageType,
			"timestamp":    now,
		},
	}
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
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
