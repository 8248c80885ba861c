// Package transfer 配置的导出 / 导入 / 比对
// 版本历史与备份共享工具，不参与渲染路径。
// 导出产物是 configuration 载荷的原样 JSON（version 字段逐字保留）；
// 导入必须先过 validate + autoFix 才能被接受
package transfer

import (
	"encoding/json"
	"fmt"

	"slotlayout-go-server/domain/entity"
	"slotlayout-go-server/internal/validator"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Export 序列化配置载荷为可分享的 JSON（缩进格式，便于人工查看与 diff）
func Export(cfg *entity.SlotConfiguration) ([]byte, error) {
	if cfg == nil || len(cfg.Configuration) == 0 {
		return nil, fmt.Errorf("configuration is empty, nothing to export")
	}

	// 经 RawMessage 往返做一次格式化，不解析为结构体，保证 version 等字段逐字保留
	var raw json.RawMessage = []byte(cfg.Configuration)
	return json.MarshalIndent(raw, "", "  ")
}

// ImportResult 导入结果：载荷 + 原始校验报告
// Payload 已经过 AutoFix，可直接作为草稿内容；
// Report 保留 autoFix 前的问题清单，供编辑器提示用户
type ImportResult struct {
	Payload *entity.ConfigPayload
	Report  validator.Result
}

// Import 解析外部 JSON 并套用 validate + autoFix
// 旧版形态（含 textContent / componentCode）先走 MigrateLegacy 再修复。
// 只有完全无法解析为 JSON 对象的输入才返回错误
func Import(raw []byte, schema *entity.PageTypeSchema, pageType string) (*ImportResult, error) {
	report := validator.ValidateRaw(raw, schema)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("import payload is not a JSON object: %w", err)
	}

	var payload *entity.ConfigPayload
	if isLegacyShape(probe) {
		var legacy entity.LegacyPayload
		// 类型不符的字段在这里丢弃即可，后面 AutoFix 兜底
		_ = json.Unmarshal(raw, &legacy)
		payload = validator.MigrateLegacy(&legacy, pageType)
	} else {
		payload = &entity.ConfigPayload{}
		_ = json.Unmarshal(raw, payload)
	}

	return &ImportResult{
		Payload: validator.AutoFix(payload, schema),
		Report:  report,
	}, nil
}

// isLegacyShape 旧版形态的判别依据：存在分离的 textContent / componentCode map
func isLegacyShape(probe map[string]json.RawMessage) bool {
	if _, ok := probe["textContent"]; ok {
		return true
	}
	if _, ok := probe["componentCode"]; ok {
		return true
	}
	return false
}

// Diff 生成两个配置载荷之间的 RFC 7386 merge patch
// 版本历史界面用它展示"这一版改了什么"
func Diff(from, to []byte) ([]byte, error) {
	if len(from) == 0 {
		from = []byte(`{}`)
	}
	if len(to) == 0 {
		to = []byte(`{}`)
	}
	patch, err := jsonpatch.CreateMergePatch(from, to)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return patch, nil
}

// Equal 语义级 JSON 等价判断（键序无关）
// usecase 用它派生 has_unpublished_changes：草稿与已发布内容不等即为有未发布变更
func Equal(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	return jsonpatch.Equal(a, b)
}
