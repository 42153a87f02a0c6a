package helpers

import (
	"strings"
	"testing"

	"github.com/richxcame/finsight/pkg/models"
	"github.com/stretchr/testify/assert"
)

// AssertUserEqual asserts that two users are equal (excluding sensitive fields)
func AssertUserEqual(t *testing.T, expected, actual *models.User) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Email, actual.Email)
	assert.Equal(t, expected.FullName, actual.FullName)
}

// AssertValidJWT asserts that a string is a valid JWT token format
func AssertValidJWT(t *testing.T, token string) {
	t.Helper()
	assert.NotEmpty(t, token)
	// header.payload.signature
	assert.Len(t, strings.Split(token, "."), 3)
}

// AssertPasswordNotInResponse asserts that a decoded user payload carries no password material
func AssertPasswordNotInResponse(t *testing.T, user map[string]interface{}) {
	t.Helper()
	for _, key := range []string{"password", "password_hash"} {
		_, ok := user[key]
		assert.False(t, ok, "%s should not be in response", key)
	}
}

// AssertTransactionsChronological asserts txns are ordered oldest first
func AssertTransactionsChronological(t *testing.T, txns []*models.Transaction) {
	t.Helper()
	for i := 1; i < len(txns); i++ {
		assert.False(t, txns[i].TransactionDate.Before(txns[i-1].TransactionDate),
			"transaction %d is dated before its predecessor", i)
	}
}
