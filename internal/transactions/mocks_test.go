package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *mockRepository) UpdateFraudResult(ctx context.Context, txnID uuid.UUID, score float64, fraudulent bool) error {
	args := m.Called(ctx, txnID, score, fraudulent)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, txnID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, txnID)
	txn, _ := args.Get(0).(*models.Transaction)
	return txn, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, userID uuid.UUID, filters *ListFilters, limit, offset int) ([]*models.Transaction, int, error) {
	args := m.Called(ctx, userID, filters, limit, offset)
	txns, _ := args.Get(0).([]*models.Transaction)
	return txns, args.Int(1), args.Error(2)
}

func (m *mockRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) AverageAmount(ctx context.Context, userID uuid.UUID) (decimal.NullDecimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *mockRepository) CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID)
	txns, _ := args.Get(0).([]*models.Transaction)
	return txns, args.Error(1)
}

func (m *mockRepository) DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type mockAssessor struct {
	mock.Mock
}

func (m *mockAssessor) Assess(ctx context.Context, txn *models.Transaction) (*fraud.Assessment, error) {
	args := m.Called(ctx, txn)
	a, _ := args.Get(0).(*fraud.Assessment)
	return a, args.Error(1)
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) RaiseAlert(ctx context.Context, txn *models.Transaction, assessment *fraud.Assessment) (*fraud.FraudAlert, error) {
	args := m.Called(ctx, txn, assessment)
	alert, _ := args.Get(0).(*fraud.FraudAlert)
	return alert, args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) LogAction(ctx context.Context, userID uuid.UUID, action, entityType, entityID string, details map[string]interface{}) error {
	args := m.Called(ctx, userID, action, entityType, entityID, details)
	return args.Error(0)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type testDeps struct {
	repo      *mockRepository
	users     *mockUsers
	assessor  *mockAssessor
	alerts    *mockAlerts
	audit     *mockAudit
	dashboard *mockInvalidator
}

func newTestService() (*Service, *testDeps) {
	d := &testDeps{
		repo:      new(mockRepository),
		users:     new(mockUsers),
		assessor:  new(mockAssessor),
		alerts:    new(mockAlerts),
		audit:     new(mockAudit),
		dashboard: new(mockInvalidator),
	}
	return NewService(d.repo, d.users, d.assessor, d.alerts, d.audit, d.dashboard), d
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	d.repo.AssertExpectations(t)
	d.users.AssertExpectations(t)
	d.assessor.AssertExpectations(t)
	d.alerts.AssertExpectations(t)
	d.audit.AssertExpectations(t)
	d.dashboard.AssertExpectations(t)
}
