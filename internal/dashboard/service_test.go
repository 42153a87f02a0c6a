package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/cache"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID)
	txns, _ := args.Get(0).([]*models.Transaction)
	return txns, args.Error(1)
}

func (m *mockReader) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	txns, _ := args.Get(0).([]*models.Transaction)
	return txns, args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// failingCache returns an error from every call
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("redis down")
}
func (failingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("redis down")
}
func (failingCache) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("redis down")
}
func (failingCache) Delete(ctx context.Context, keys ...string) error { return errors.New("redis down") }

// flakyIncrCache is a memory cache whose Incr fails while failIncr is set
type flakyIncrCache struct {
	*cache.MemoryCache
	failIncr bool
}

func (f *flakyIncrCache) Incr(ctx context.Context, key string) (int64, error) {
	if f.failIncr {
		return 0, errors.New("circuit breaker is open")
	}
	return f.MemoryCache.Incr(ctx, key)
}

func sampleTxns() []*models.Transaction {
	return []*models.Transaction{
		txn(models.TransactionTypeIncome, "salary", "100.00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), false, 0),
		txn(models.TransactionTypeExpense, "food", "40.00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), false, 0),
	}
}

func TestGetSummaryCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	reader := new(mockReader)
	users := new(mockUsers)
	userID := uuid.New()
	service := NewService(reader, users, cache.NewMemoryCache(time.Minute), time.Minute)

	users.On("UserExists", ctx, userID).Return(true, nil)
	reader.On("ListByUser", ctx, userID).Return(sampleTxns(), nil).Twice()

	first, err := service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "60", first.CurrentBalance.String())

	second, err := service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.True(t, first.CurrentBalance.Equal(second.CurrentBalance))
	reader.AssertNumberOfCalls(t, "ListByUser", 1)

	require.NoError(t, service.Invalidate(ctx, userID))

	_, err = service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	reader.AssertNumberOfCalls(t, "ListByUser", 2)
}

func TestGetSummaryBypassesCacheAfterFailedInvalidate(t *testing.T) {
	ctx := context.Background()
	reader := new(mockReader)
	users := new(mockUsers)
	userID := uuid.New()
	c := &flakyIncrCache{MemoryCache: cache.NewMemoryCache(time.Minute)}
	service := NewService(reader, users, c, time.Minute)

	withSalary := append(sampleTxns(), txn(models.TransactionTypeIncome, "salary", "500.00", time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), false, 0))
	users.On("UserExists", ctx, userID).Return(true, nil)
	reader.On("ListByUser", ctx, userID).Return(sampleTxns(), nil).Once()
	reader.On("ListByUser", ctx, userID).Return(withSalary, nil)

	first, err := service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "60", first.CurrentBalance.String())

	c.failIncr = true
	require.Error(t, service.Invalidate(ctx, userID))

	// the old summary is still in the cache but must not be served
	s, err := service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "560", s.CurrentBalance.String())
	reader.AssertNumberOfCalls(t, "ListByUser", 2)

	c.failIncr = false
	s, err = service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "560", s.CurrentBalance.String())
	reader.AssertNumberOfCalls(t, "ListByUser", 3)

	_, err = service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	reader.AssertNumberOfCalls(t, "ListByUser", 3)
}

func TestGetSummaryDateRange(t *testing.T) {
	ctx := context.Background()
	reader := new(mockReader)
	users := new(mockUsers)
	userID := uuid.New()
	service := NewService(reader, users, nil, time.Minute)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	users.On("UserExists", ctx, userID).Return(true, nil)
	reader.On("ListBetween", ctx, userID, from, to).Return(sampleTxns(), nil).Once()
	reader.On("ListBetween", ctx, userID, from, maxTime).Return([]*models.Transaction{}, nil).Once()

	s, err := service.GetSummary(ctx, userID, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.TotalTransactions)

	s, err = service.GetSummary(ctx, userID, &from, nil)
	require.NoError(t, err)
	assert.Zero(t, s.TotalTransactions)
	reader.AssertExpectations(t)
}

func TestGetSummaryDegradesWhenCacheFails(t *testing.T) {
	ctx := context.Background()
	reader := new(mockReader)
	users := new(mockUsers)
	userID := uuid.New()
	service := NewService(reader, users, failingCache{}, time.Minute)

	users.On("UserExists", ctx, userID).Return(true, nil)
	reader.On("ListByUser", ctx, userID).Return(sampleTxns(), nil)

	s, err := service.GetSummary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.TotalTransactions)
	assert.Error(t, service.Invalidate(ctx, userID))
}

func TestGetSummaryErrors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown user", func(t *testing.T) {
		users := new(mockUsers)
		users.On("UserExists", ctx, userID).Return(false, nil)

		_, err := NewService(new(mockReader), users, nil, 0).GetSummary(ctx, userID, nil, nil)
		appErr, ok := err.(*common.AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

		_, err := NewService(new(mockReader), new(mockUsers), nil, 0).GetSummary(ctx, userID, &from, &to)
		appErr, ok := err.(*common.AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		users := new(mockUsers)
		reader := new(mockReader)
		users.On("UserExists", ctx, userID).Return(true, nil)
		reader.On("ListByUser", ctx, userID).Return(nil, errors.New("timeout"))

		_, err := NewService(reader, users, nil, 0).GetSummary(ctx, userID, nil, nil)
		appErr, ok := err.(*common.AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	})
}
