package health

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCheckerConfig(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultCheckerConfig().Timeout)
}

func TestDatabaseChecker_NilDB(t *testing.T) {
	err := DatabaseChecker(nil)()
	require.Error(t, err)
	assert.Equal(t, "database connection is nil", err.Error())
}

func TestDatabaseChecker_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, DatabaseChecker(db)())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.EqualError(t, DatabaseCheckerWithConfig(db, CheckerConfig{Timeout: time.Second})(), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisChecker_NilClient(t *testing.T) {
	assert.Error(t, RedisChecker(nil)())
}
