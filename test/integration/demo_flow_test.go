//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSeedPopulatesAccount(t *testing.T) {
	truncateTables(t)
	user := signupAndLogin(t)
	userID := uuid.MustParse(user.UserID)
	ctx := context.Background()

	n, err := seeding.SeedIfEmpty(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	n, err = seeding.SeedIfEmpty(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)

	summary := doRequest(t, http.MethodGet, "/api/v1/dashboard/summary", nil, user.Token)
	require.Equal(t, http.StatusOK, summary.status, summary.raw)
	assert.EqualValues(t, 250, summary.data()["total_transactions"])
	assert.NotEmpty(t, summary.data()["spending_trends"])

	alerts := doRequest(t, http.MethodGet, "/api/v1/fraud/alerts", nil, user.Token)
	require.Equal(t, http.StatusOK, alerts.status, alerts.raw)
	assert.NotEmpty(t, alerts.list())

	n, err = seeding.ForceReseed(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	var count int
	require.NoError(t, dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count))
	assert.Equal(t, 250, count)
}
