package usecase

import (
	"slotlayout-go-server/domain/entity"

	"github.com/stretchr/testify/mock"
)

// ========== MockConfigurationRepository ==========
// 实现 ConfigurationRepository 接口，用于 usecase 层单元测试

type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) GetDraft(storeID, pageType string) (*entity.SlotConfiguration, error) {
	args := m.Called(storeID, pageType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SlotConfiguration), args.Error(1)
}

func (m *MockConfigurationRepository) GetByID(id string) (*entity.SlotConfiguration, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SlotConfiguration), args.Error(1)
}

func (m *MockConfigurationRepository) CreateDraft(cfg *entity.SlotConfiguration) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockConfigurationRepository) UpdateDraft(id string, payload []byte) error {
	args := m.Called(id, payload)
	return args.Error(0)
}

func (m *MockConfigurationRepository) GetPublished(storeID, pageType string) (*entity.SlotConfiguration, error) {
	args := m.Called(storeID, pageType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SlotConfiguration), args.Error(1)
}

func (m *MockConfigurationRepository) CreatePublishedVersion(cfg *entity.SlotConfiguration, expectedHead int64) error {
	args := m.Called(cfg, expectedHead)
	if args.Error(0) == nil {
		// 模拟真实仓库行为：版本号 = 前置版本头 + 1
		cfg.VersionNumber = expectedHead + 1
	}
	return args.Error(0)
}

func (m *MockConfigurationRepository) ListVersions(storeID, pageType string, limit int) ([]entity.SlotConfiguration, error) {
	args := m.Called(storeID, pageType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SlotConfiguration), args.Error(1)
}

func (m *MockConfigurationRepository) MarkReverted(storeID, pageType string, afterVersion, upToVersion int64) error {
	args := m.Called(storeID, pageType, afterVersion, upToVersion)
	return args.Error(0)
}

// ========== MockNotifier ==========
// 记录预览刷新通知的调用，用于断言副作用

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDraftUpdated(storeID, pageType string) {
	m.Called(storeID, pageType)
}

func (m *MockNotifier) NotifyPublished(storeID, pageType string, versionNumber int64) {
	m.Called(storeID, pageType, versionNumber)
}

func (m *MockNotifier) NotifyReverted(storeID, pageType string, versionNumber int64) {
	m.Called(storeID, pageType, versionNumber)
}
