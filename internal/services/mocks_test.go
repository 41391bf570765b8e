package services_test

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockProductStore is a mock implementation of repositories.ProductStore.
// Transaction runs fn against the mock itself.
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Transaction(ctx context.Context, fn func(repo repositories.ProductRepository) error) error {
	return fn(m)
}

func (m *MockProductStore) GetAll(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStore) CreateOption(ctx context.Context, option *models.Option) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockProductStore) GetOptions(ctx context.Context, productID string) ([]models.Option, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]models.Option), args.Error(1)
}

func (m *MockProductStore) CreateVariants(ctx context.Context, variants []models.Variant) error {
	args := m.Called(ctx, variants)
	return args.Error(0)
}

func (m *MockProductStore) GetVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]models.Variant), args.Error(1)
}

func (m *MockProductStore) GetVariant(ctx context.Context, productID, variantID string) (*models.Variant, error) {
	args := m.Called(ctx, productID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variant), args.Error(1)
}

func (m *MockProductStore) UpdateVariant(ctx context.Context, variant *models.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

// MockCache is a mock implementation of services.ProductCache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Version(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Get(ctx context.Context, id string, version int64, dst interface{}) error {
	args := m.Called(ctx, id, version, dst)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, id string, version int64, value interface{}) error {
	args := m.Called(ctx, id, version, value)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

// MockAttributeRepository is a mock implementation of repositories.AttributeRepository.
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) GetAll(ctx context.Context) ([]models.Attribute, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) GetByID(ctx context.Context, id string) (*models.Attribute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) Create(ctx context.Context, attribute *models.Attribute) error {
	args := m.Called(ctx, attribute)
	return args.Error(0)
}

func (m *MockAttributeRepository) Update(ctx context.Context, attribute *models.Attribute) error {
	args := m.Called(ctx, attribute)
	return args.Error(0)
}

func (m *MockAttributeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeRepository) GetItems(ctx context.Context, attributeID string) ([]models.AttributeItem, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).([]models.AttributeItem), args.Error(1)
}

func (m *MockAttributeRepository) GetItem(ctx context.Context, id string) (*models.AttributeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttributeItem), args.Error(1)
}

func (m *MockAttributeRepository) CreateItems(ctx context.Context, items []models.AttributeItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockAttributeRepository) UpdateItem(ctx context.Context, item *models.AttributeItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockAttributeRepository) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeRepository) DeleteItems(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of repositories.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockOTPRepository is a mock implementation of repositories.OTPRepository.
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, challenge *models.OTPChallenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockOTPRepository) GetPending(ctx context.Context, userID string, purpose models.OTPPurpose) (*models.OTPChallenge, error) {
	args := m.Called(ctx, userID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OTPChallenge), args.Error(1)
}

func (m *MockOTPRepository) Update(ctx context.Context, challenge *models.OTPChallenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockOTPRepository) ExpirePending(ctx context.Context, userID string, purpose models.OTPPurpose) error {
	args := m.Called(ctx, userID, purpose)
	return args.Error(0)
}
