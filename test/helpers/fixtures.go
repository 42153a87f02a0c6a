package helpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/auth"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// CreateTestUser creates a test user with a bcrypt hash of "password123"
func CreateTestUser() *models.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	return &models.User{
		ID:           uuid.New(),
		Email:        "test-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: string(hashedPassword),
		FullName:     "Test User",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestSignupRequest creates a signup request with a unique email
func CreateTestSignupRequest() *auth.SignupRequest {
	return &auth.SignupRequest{
		Email:    "signup-" + uuid.NewString()[:8] + "@example.com",
		Password: "password123",
		FullName: "Integration User",
	}
}

// CreateTestTransaction creates an expense owned by userID
func CreateTestTransaction(userID uuid.UUID, amount string, category string, date time.Time) *models.Transaction {
	return &models.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          decimal.RequireFromString(amount),
		Type:            models.TransactionTypeExpense,
		Category:        category,
		TransactionDate: date,
		CreatedAt:       time.Now(),
	}
}

// WithLocation sets the transaction's location and returns it
func WithLocation(txn *models.Transaction, location string) *models.Transaction {
	txn.Location = &location
	return txn
}

// MonthlyCharges creates one charge of amount per month for n months ending at last
func MonthlyCharges(userID uuid.UUID, merchant, amount string, last time.Time, n int) []*models.Transaction {
	txns := make([]*models.Transaction, 0, n)
	for i := n - 1; i >= 0; i-- {
		txns = append(txns, CreateTestTransaction(userID, amount, merchant, last.AddDate(0, -i, 0)))
	}
	return txns
}
