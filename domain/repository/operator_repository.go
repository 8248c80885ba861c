package repository

import "slotlayout-go-server/domain/entity"

// OperatorRepository 运营者数据仓库接口
type OperatorRepository interface {
	// Upsert = Update + Insert（存在则更新，不存在则创建）
	Upsert(operator *entity.Operator) error

	// GetByID 根据 Clerk user_id 获取运营者
	GetByID(operatorID string) (*entity.Operator, error)
}
