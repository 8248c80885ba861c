package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"slotlayout-go-server/domain/entity"
	domainErrors "slotlayout-go-server/domain/errors"
	domainRepo "slotlayout-go-server/domain/repository"
	"slotlayout-go-server/internal/render"
	"slotlayout-go-server/internal/schema"
	"slotlayout-go-server/internal/transfer"
	"slotlayout-go-server/internal/validator"

	"github.com/google/uuid"
)

// RenderMode 渲染取数来源
const (
	ModeDraft     = "draft"     // 预览路径：取草稿
	ModePublished = "published" // 线上路径：取当前已发布版本
)

// Notifier 预览刷新通知接口
// 任何落库的变更之后广播，预览窗口收到信号后回查接口（拉模式）
type Notifier interface {
	NotifyDraftUpdated(storeID, pageType string)
	NotifyPublished(storeID, pageType string, versionNumber int64)
	NotifyReverted(storeID, pageType string, versionNumber int64)
}

// ConfigurationUseCase 槽位配置业务逻辑层
// 持有 draft → published → reverted 状态机的全部编排：
// 草稿惰性创建、发布快照、版本历史、回退。
// 存储行级原子性由 repository 保证，这里负责乐观并发的前置条件读取
type ConfigurationUseCase struct {
	repo     domainRepo.ConfigurationRepository
	registry *schema.Registry
	notifier Notifier
}

// NewConfigurationUseCase 构造函数，依赖注入
func NewConfigurationUseCase(repo domainRepo.ConfigurationRepository, registry *schema.Registry, notifier Notifier) *ConfigurationUseCase {
	return &ConfigurationUseCase{repo: repo, registry: registry, notifier: notifier}
}

// ================= 草稿 =================

// HasDraftConfiguration 判断 (店铺, 页面类型) 是否存在草稿
func (uc *ConfigurationUseCase) HasDraftConfiguration(storeID, pageType string) (bool, error) {
	draft, err := uc.repo.GetDraft(storeID, pageType)
	if err != nil {
		return false, err
	}
	return draft != nil, nil
}

// GetDraftConfiguration 获取草稿，并标注派生的 has_unpublished_changes
// 规则：草稿内容与当前已发布内容语义不等 → true；没有已发布版本 → 恒为 true。
// 该标志只派生、永不落库（时间戳比较不可靠，内容比较才是准绳）
func (uc *ConfigurationUseCase) GetDraftConfiguration(storeID, pageType string) (*entity.SlotConfiguration, error) {
	draft, err := uc.repo.GetDraft(storeID, pageType)
	if err != nil || draft == nil {
		return nil, err
	}
	if err := uc.annotateUnpublishedChanges(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// EnsureDraftExists 惰性创建草稿（首次编辑时调用）
// 幂等：已有草稿直接返回 (draft, created=false)。
// 新草稿内容克隆自当前已发布版本；没有任何发布版本时取 schema 默认值
func (uc *ConfigurationUseCase) EnsureDraftExists(storeID, pageType, displayName string) (*entity.SlotConfiguration, bool, error) {
	pageSchema, err := uc.registry.Get(pageType)
	if err != nil {
		return nil, false, err
	}

	// 幂等快路径：草稿已存在
	existing, err := uc.repo.GetDraft(storeID, pageType)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := uc.annotateUnpublishedChanges(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	// 选取初始内容：当前已发布版本优先，否则 schema 默认槽位
	var payload *entity.ConfigPayload
	published, err := uc.repo.GetPublished(storeID, pageType)
	if err != nil {
		return nil, false, err
	}
	if published != nil {
		payload = published.Payload()
	}
	if payload == nil {
		payload, err = uc.registry.DefaultPayload(pageType)
		if err != nil {
			return nil, false, err
		}
	}

	// 入库前统一修复，保证草稿从第一天起就是良构的
	fixed := validator.AutoFix(payload, pageSchema)
	raw, err := json.Marshal(fixed)
	if err != nil {
		return nil, false, err
	}

	draft := &entity.SlotConfiguration{
		ID:            uuid.NewString(),
		StoreID:       storeID,
		PageType:      pageType,
		Status:        entity.StatusDraft,
		VersionNumber: 0, // 版本号只在发布时分配
		DisplayName:   displayName,
		Configuration: raw,
	}

	if err := uc.repo.CreateDraft(draft); err != nil {
		return nil, false, err
	}

	draft.HasUnpublishedChanges = published == nil ||
		!transfer.Equal(draft.Configuration, published.Configuration)
	return draft, true, nil
}

// SaveDraft 覆盖草稿内容（编辑器的保存热路径）
// 存储层防御性校验：未通过 schema 校验的载荷直接拒绝，
// 调用方应当先跑 autoFix 再提交（错误信息里带上全部违规项）
func (uc *ConfigurationUseCase) SaveDraft(draftID string, rawPayload []byte) (*entity.SlotConfiguration, error) {
	draft, err := uc.repo.GetByID(draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil || draft.Status != entity.StatusDraft {
		return nil, domainErrors.ErrDraftNotFound
	}

	pageSchema, err := uc.registry.Get(draft.PageType)
	if err != nil {
		return nil, err
	}

	result := validator.ValidateRaw(rawPayload, pageSchema)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrValidationFailed, strings.Join(result.Errors, "; "))
	}

	if err := uc.repo.UpdateDraft(draftID, rawPayload); err != nil {
		return nil, err
	}

	draft.Configuration = rawPayload
	draft.UpdatedAt = time.Now()
	if err := uc.annotateUnpublishedChanges(draft); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.NotifyDraftUpdated(draft.StoreID, draft.PageType)
	}
	return draft, nil
}

// ================= 发布 / 历史 / 回退 =================

// PublishDraft 把草稿快照成新的已发布版本
// 草稿行保留不动（status 不变），作为下一轮编辑的可写面；
// 版本号 = 当前版本头 + 1，并发发布通过乐观锁前置条件拒绝
func (uc *ConfigurationUseCase) PublishDraft(draftID string) (*entity.SlotConfiguration, error) {
	draft, err := uc.repo.GetByID(draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil || draft.Status != entity.StatusDraft {
		return nil, domainErrors.ErrDraftNotFound
	}

	pageSchema, err := uc.registry.Get(draft.PageType)
	if err != nil {
		return nil, err
	}

	// 防御性复验：坏载荷不允许进入版本历史
	result := validator.ValidateRaw(draft.Configuration, pageSchema)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrValidationFailed, strings.Join(result.Errors, "; "))
	}

	head, err := uc.currentHead(draft.StoreID, draft.PageType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	published := &entity.SlotConfiguration{
		ID:            uuid.NewString(),
		StoreID:       draft.StoreID,
		PageType:      draft.PageType,
		Status:        entity.StatusPublished,
		DisplayName:   draft.DisplayName,
		Configuration: append([]byte(nil), draft.Configuration...), // 快照，不与草稿共享底层数组
		PublishedAt:   &now,
	}

	// 失败返回 ErrOptimisticLock 时由调用方重新拉取后重试
	if err := uc.repo.CreatePublishedVersion(published, head); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.NotifyPublished(published.StoreID, published.PageType, published.VersionNumber)
	}
	return published, nil
}

// GetVersionHistory 版本历史，新的在前，reverted 行带状态一并返回
func (uc *ConfigurationUseCase) GetVersionHistory(storeID, pageType string, limit int) ([]entity.SlotConfiguration, error) {
	return uc.repo.ListVersions(storeID, pageType, limit)
}

// RevertToVersion 回退到历史版本
// 做法是"再发布"：铸造一个内容等于目标版本的新版本（版本头 + 1），
// 并把 (目标, 原版本头] 区间内的版本标记为 reverted。
// 目标版本本身原封不动，仍可按原版本号查询
func (uc *ConfigurationUseCase) RevertToVersion(versionID string) (*entity.SlotConfiguration, error) {
	target, err := uc.repo.GetByID(versionID)
	if err != nil {
		return nil, err
	}
	// 草稿不是版本，不能作为回退目标
	if target == nil || target.Status == entity.StatusDraft {
		return nil, domainErrors.ErrVersionNotFound
	}

	head, err := uc.currentHead(target.StoreID, target.PageType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reverted := &entity.SlotConfiguration{
		ID:            uuid.NewString(),
		StoreID:       target.StoreID,
		PageType:      target.PageType,
		Status:        entity.StatusPublished,
		DisplayName:   target.DisplayName,
		Configuration: append([]byte(nil), target.Configuration...),
		PublishedAt:   &now,
	}

	// 与发布共用同一套冲突纪律：头被并发推进就拒绝，调用方重试
	if err := uc.repo.CreatePublishedVersion(reverted, head); err != nil {
		return nil, err
	}

	// 标记被跳过的版本：(target, head]，目标本身不在区间内。
	// 新版本头已落库后这一步失败会短暂留下未标记的区间；错误原样上抛，
	// 调用方重试时会在新的版本头上重新铸造并把整个区间补标完整
	if err := uc.repo.MarkReverted(target.StoreID, target.PageType, target.VersionNumber, head); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.NotifyReverted(reverted.StoreID, reverted.PageType, reverted.VersionNumber)
	}
	return reverted, nil
}

// DiffVersions 生成目标版本相对其前一个版本的 merge patch（版本历史界面用）
func (uc *ConfigurationUseCase) DiffVersions(versionID string) ([]byte, error) {
	target, err := uc.repo.GetByID(versionID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Status == entity.StatusDraft {
		return nil, domainErrors.ErrVersionNotFound
	}

	versions, err := uc.repo.ListVersions(target.StoreID, target.PageType, 0)
	if err != nil {
		return nil, err
	}

	// 找版本号小于目标的最近一版（列表已按版本号降序）
	var previous []byte
	for i := range versions {
		if versions[i].VersionNumber < target.VersionNumber {
			previous = versions[i].Configuration
			break
		}
	}

	return transfer.Diff(previous, target.Configuration)
}

// ================= 渲染 / 导出导入 =================

// GetConfigurationForRender 按模式取配置：draft（预览）或 published（线上）
// 不存在时返回 (nil, nil)，渲染路径会退回 schema 默认值
func (uc *ConfigurationUseCase) GetConfigurationForRender(storeID, pageType, mode string) (*entity.SlotConfiguration, error) {
	if mode == ModeDraft {
		return uc.repo.GetDraft(storeID, pageType)
	}
	return uc.repo.GetPublished(storeID, pageType)
}

// RenderPage 解析渲染树（宿主 UI 每个绘制周期调用一次）
// 配置缺失或载荷损坏都不报错：渲染器自己降级。
// error 诊断节点只属于编辑器预览（draft 模式）；线上渲染（published 模式）
// 把缺失槽位静默渲染成空，诊断节点在这里被过滤掉
func (uc *ConfigurationUseCase) RenderPage(storeID, pageType, viewMode, mode string) ([]render.RenderNode, error) {
	pageSchema, err := uc.registry.Get(pageType)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.GetConfigurationForRender(storeID, pageType, mode)
	if err != nil {
		return nil, err
	}

	var payload *entity.ConfigPayload
	if cfg != nil {
		payload = cfg.Payload()
	}

	nodes := render.Render(pageSchema, payload, viewMode)
	if mode != ModePublished {
		return nodes, nil
	}

	visible := make([]render.RenderNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Kind != render.KindError {
			visible = append(visible, node)
		}
	}
	return visible, nil
}

// ExportConfiguration 导出配置载荷（备份/分享）
func (uc *ConfigurationUseCase) ExportConfiguration(storeID, pageType, mode string) ([]byte, error) {
	cfg, err := uc.GetConfigurationForRender(storeID, pageType, mode)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		if mode == ModeDraft {
			return nil, domainErrors.ErrDraftNotFound
		}
		return nil, domainErrors.ErrPublishedNotFound
	}
	return transfer.Export(cfg)
}

// ImportToDraft 导入外部配置为 (店铺, 页面类型) 的草稿内容
// 导入件强制过 validate + autoFix（含旧版形态迁移），从不原样入库。
// 返回修复前的校验报告，编辑器据此向用户提示"哪些地方被自动修复了"
func (uc *ConfigurationUseCase) ImportToDraft(storeID, pageType string, raw []byte, displayName string) (*entity.SlotConfiguration, validator.Result, error) {
	pageSchema, err := uc.registry.Get(pageType)
	if err != nil {
		return nil, validator.Result{}, err
	}

	imported, err := transfer.Import(raw, pageSchema, pageType)
	if err != nil {
		return nil, validator.Result{}, fmt.Errorf("%w: %v", domainErrors.ErrValidationFailed, err)
	}

	draft, _, err := uc.EnsureDraftExists(storeID, pageType, displayName)
	if err != nil {
		return nil, imported.Report, err
	}

	fixedRaw, err := json.Marshal(imported.Payload)
	if err != nil {
		return nil, imported.Report, err
	}

	saved, err := uc.SaveDraft(draft.ID, fixedRaw)
	return saved, imported.Report, err
}

// ================= 内部工具 =================

// currentHead 读取当前版本头（无任何版本时为 0）
// 乐观并发的前置条件：repository 在事务内会再复核一次
func (uc *ConfigurationUseCase) currentHead(storeID, pageType string) (int64, error) {
	published, err := uc.repo.GetPublished(storeID, pageType)
	if err != nil {
		return 0, err
	}
	if published == nil {
		return 0, nil
	}
	return published.VersionNumber, nil
}

// annotateUnpublishedChanges 填充派生的 HasUnpublishedChanges 字段
func (uc *ConfigurationUseCase) annotateUnpublishedChanges(draft *entity.SlotConfiguration) error {
	published, err := uc.repo.GetPublished(draft.StoreID, draft.PageType)
	if err != nil {
		return err
	}
	draft.HasUnpublishedChanges = published == nil ||
		!transfer.Equal(draft.Configuration, published.Configuration)
	return nil
}
