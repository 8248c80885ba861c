package repository

import (
	"errors"
	"time"

	"slotlayout-go-server/domain/entity"
	domainErrors "slotlayout-go-server/domain/errors"
	domainRepo "slotlayout-go-server/domain/repository"

	"gorm.io/gorm"
)

// configurationRepository GORM 实现 ConfigurationRepository 接口
type configurationRepository struct {
	db *gorm.DB
}

// NewConfigurationRepository 构造函数
func NewConfigurationRepository(db *gorm.DB) domainRepo.ConfigurationRepository {
	return &configurationRepository{db: db}
}

// GetDraft 查询 (店铺, 页面类型) 的当前草稿
func (r *configurationRepository) GetDraft(storeID, pageType string) (*entity.SlotConfiguration, error) {
	var cfg entity.SlotConfiguration
	err := r.db.
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, entity.StatusDraft).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // 返回 nil 表示不存在，调用方需处理
	}
	return &cfg, err
}

// GetByID 按行 ID 查询
func (r *configurationRepository) GetByID(id string) (*entity.SlotConfiguration, error) {
	var cfg entity.SlotConfiguration
	err := r.db.Where("id = ?", id).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// CreateDraft 创建草稿行
// ⚠️ 禁止使用 GORM Save，它会覆盖 configuration 和 version_number
func (r *configurationRepository) CreateDraft(cfg *entity.SlotConfiguration) error {
	return r.db.Create(cfg).Error
}

// UpdateDraft 只更新草稿的载荷字段（编辑热路径）
func (r *configurationRepository) UpdateDraft(id string, payload []byte) error {
	result := r.db.Model(&entity.SlotConfiguration{}).
		// WHERE 带 status 条件，防止误写历史版本行
		Where("id = ? AND status = ?", id, entity.StatusDraft).
		Updates(map[string]interface{}{
			"configuration": string(payload),
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	// RowsAffected == 0 说明草稿已被删除或该行不是草稿
	if result.RowsAffected == 0 {
		return domainErrors.ErrDraftNotFound
	}

	return nil
}

// GetPublished 查询当前生效的已发布版本
// reverted 行被排除，所以 version_number 最大的 published 行即当前版本
func (r *configurationRepository) GetPublished(storeID, pageType string) (*entity.SlotConfiguration, error) {
	var cfg entity.SlotConfiguration
	err := r.db.
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, entity.StatusPublished).
		Order("version_number DESC").
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// CreatePublishedVersion 插入新版本行（乐观并发）
// ⚠️ 关键：在事务内复核版本头。调用方读到的 expectedHead 可能已过期，
// 若数据库中已有更高的版本号，返回 ErrOptimisticLock 让调用方重试
func (r *configurationRepository) CreatePublishedVersion(cfg *entity.SlotConfiguration, expectedHead int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var head int64
		err := tx.Model(&entity.SlotConfiguration{}).
			Where("store_id = ? AND page_type = ? AND status <> ?",
				cfg.StoreID, cfg.PageType, entity.StatusDraft).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&head).Error
		if err != nil {
			return err
		}

		// 版本头已被并发发布推进，拒绝写入
		if head != expectedHead {
			return domainErrors.ErrOptimisticLock
		}

		cfg.VersionNumber = expectedHead + 1
		return tx.Create(cfg).Error
	})
}

// ListVersions 版本历史，新的在前，含 reverted 行（状态在行上标明）
func (r *configurationRepository) ListVersions(storeID, pageType string, limit int) ([]entity.SlotConfiguration, error) {
	query := r.db.
		Where("store_id = ? AND page_type = ? AND status <> ?", storeID, pageType, entity.StatusDraft).
		Order("version_number DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var versions []entity.SlotConfiguration
	err := query.Find(&versions).Error
	return versions, err
}

// MarkReverted 标记 (afterVersion, upToVersion] 区间的 published 行为 reverted
// 只改状态不动内容；reverted 行永不删除，随时可作为 revert 目标
func (r *configurationRepository) MarkReverted(storeID, pageType string, afterVersion, upToVersion int64) error {
	return r.db.Model(&entity.SlotConfiguration{}).
		Where("store_id = ? AND page_type = ? AND status = ? AND version_number > ? AND version_number <= ?",
			storeID, pageType, entity.StatusPublished, afterVersion, upToVersion).
		Update("status", entity.StatusReverted).Error
}
