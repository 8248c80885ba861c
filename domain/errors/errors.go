package errors

import "errors"

// ================= 业务领域错误定义 =================
// 所有业务逻辑相关的错误统一在此定义，避免跨包重复定义
// 校验器与渲染器是防御性叶子，不抛这些错误；只有版本存储层（usecase）向调用方抛出

// ErrDraftNotFound 草稿不存在错误
// 对不存在的草稿执行保存/发布时返回
var ErrDraftNotFound = errors.New("draft configuration not found")

// ErrVersionNotFound 历史版本不存在错误
// revert 指向的版本 ID 在数据库中不存在时返回
var ErrVersionNotFound = errors.New("configuration version not found")

// ErrPublishedNotFound 当前无已发布版本
var ErrPublishedNotFound = errors.New("no published configuration for this store and page type")

// ErrSchemaNotFound 未知页面类型
// 请求的 pageType 不在 Schema 注册表中时返回
var ErrSchemaNotFound = errors.New("no schema registered for this page type")

// ErrOptimisticLock 乐观锁冲突错误
// 发布/回退时版本号前置条件不满足（有并发发布已推进了版本头），
// 调用方必须重新拉取后重试，核心不做自动合并
var ErrOptimisticLock = errors.New("optimistic lock error: version head advanced, please refresh and retry")

// ErrValidationFailed 配置载荷未通过 schema 校验
// 调用方应先跑 autoFix；存储层仍然防御性复验并拒绝
var ErrValidationFailed = errors.New("configuration payload failed schema validation")

// ErrUnauthorized 无权限操作
var ErrUnauthorized = errors.New("operator not authorized for this action")
