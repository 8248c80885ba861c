package repository

import "slotlayout-go-server/domain/entity"

// ConfigurationRepository 槽位配置数据仓库接口
// 行级原子操作由实现保证；跨行的状态机逻辑（发布/回退）在 usecase 层编排
type ConfigurationRepository interface {
	// GetDraft 获取 (店铺, 页面类型) 的当前草稿
	// 不存在返回 (nil, nil)，调用方需处理
	GetDraft(storeID, pageType string) (*entity.SlotConfiguration, error)

	// GetByID 按行 ID 获取任意状态的配置行
	// 不存在返回 (nil, nil)
	GetByID(id string) (*entity.SlotConfiguration, error)

	// CreateDraft 创建草稿行（每个 (store, pageType) 最多一份，由调用方保证）
	CreateDraft(cfg *entity.SlotConfiguration) error

	// UpdateDraft 覆盖草稿的 configuration 载荷并刷新 updated_at
	// 草稿不存在返回 ErrDraftNotFound
	UpdateDraft(id string, payload []byte) error

	// GetPublished 获取当前生效的已发布版本（version_number 最大的 published 行）
	// 不存在返回 (nil, nil)
	GetPublished(storeID, pageType string) (*entity.SlotConfiguration, error)

	// CreatePublishedVersion 插入新的已发布版本行
	// expectedHead: 调用方读到的当前版本头；若数据库中的版本头已推进，
	// 返回 ErrOptimisticLock，调用方必须重新拉取后重试
	CreatePublishedVersion(cfg *entity.SlotConfiguration, expectedHead int64) error

	// ListVersions 列出版本历史（published + reverted，不含草稿），新的在前
	// limit <= 0 表示不限制
	ListVersions(storeID, pageType string, limit int) ([]entity.SlotConfiguration, error)

	// MarkReverted 将版本号落在 (afterVersion, upToVersion] 区间内的
	// published 行标记为 reverted；被回退的行只改状态，内容永不删除
	MarkReverted(storeID, pageType string, afterVersion, upToVersion int64) error
}
