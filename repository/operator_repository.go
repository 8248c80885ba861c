package repository

import (
	"errors"

	"slotlayout-go-server/domain/entity"
	domainRepo "slotlayout-go-server/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// operatorRepository GORM 实现 OperatorRepository 接口
type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository 构造函数
func NewOperatorRepository(db *gorm.DB) domainRepo.OperatorRepository {
	return &operatorRepository{db: db}
}

// Upsert 创建或更新运营者（Clerk Webhook 同步使用）
// 使用 PostgreSQL ON CONFLICT 语法实现 upsert
func (r *operatorRepository) Upsert(operator *entity.Operator) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}}, // 冲突字段
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(operator).Error
}

// GetByID 根据 Clerk user_id 查询运营者
func (r *operatorRepository) GetByID(operatorID string) (*entity.Operator, error) {
	var operator entity.Operator
	err := r.db.Where("id = ?", operatorID).First(&operator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &operator, err
}
