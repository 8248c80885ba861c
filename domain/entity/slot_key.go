package entity

import "strings"

// SlotKey 结构化的微槽位键（"majorId.microId"）
// 统一在边界处解析一次，内部传递结构体，避免散落各处的字符串拆分
type SlotKey struct {
	MajorID string
	MicroID string
}

// ParseSlotKey 解析 "majorId.microId" 形式的键
// 不满足两段式的输入返回 ok=false，调用方自行降级处理
func ParseSlotKey(s string) (SlotKey, bool) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return SlotKey{}, false
	}
	return SlotKey{MajorID: parts[0], MicroID: parts[1]}, true
}

// NewSlotKey 由主/微槽位 ID 构造键
func NewSlotKey(majorID, microID string) SlotKey {
	return SlotKey{MajorID: majorID, MicroID: microID}
}

// String 还原为存储用的 "majorId.microId" 字符串
func (k SlotKey) String() string {
	return k.MajorID + "." + k.MicroID
}
