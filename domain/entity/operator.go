package entity

import "time"

// Operator 店铺运营者（Clerk 用户同步表）
// 由 Clerk Webhook 写入，API 鉴权只认 JWT，本表用于展示与审计
type Operator struct {
	ID        string    `gorm:"primaryKey;size:64"` // Clerk user_id
	Email     string    `gorm:"size:255"`
	Name      string    `gorm:"size:100"`
	AvatarURL string    `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
