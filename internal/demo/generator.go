package demo

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

// transactionsPerMonth grows over the year so trends have a visible slope
var transactionsPerMonth = [12]int{12, 14, 15, 16, 18, 20, 22, 24, 25, 26, 28, 30}

type amountRange struct {
	min, max int
}

var categoryAmounts = map[string]amountRange{
	"groceries":     {20, 150},
	"utilities":     {50, 300},
	"entertainment": {10, 100},
	"transport":     {10, 80},
	"subscriptions": {5, 50},
	"salary":        {2000, 5000},
	"rent":          {800, 2000},
}

// Generate builds a year of synthetic history for userID ending in the month
// of now. The same user always gets the same amounts, categories and times.
// Dates never fall after now.
func Generate(userID uuid.UUID, now time.Time) []*models.Transaction {
	rng := rand.New(rand.NewSource(seedFor(userID)))
	now = now.UTC()

	txns := make([]*models.Transaction, 0, 250)
	for monthIndex, count := range transactionsPerMonth {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, monthIndex-(len(transactionsPerMonth)-1), 0)
		days := daysIn(monthStart)
		if monthIndex == len(transactionsPerMonth)-1 {
			days = now.Day()
		}

		for i := 0; i < count; i++ {
			day := 1 + rng.Intn(days)
			hour := 8 + rng.Intn(14)
			minute := rng.Intn(60)
			date := time.Date(monthStart.Year(), monthStart.Month(), day, hour, minute, 0, 0, time.UTC)
			if date.After(now) {
				date = now.Add(-time.Duration(i+1) * time.Minute)
			}

			category := pickCategory(rng)
			txnType := models.TransactionTypeExpense
			if category == "salary" {
				txnType = models.TransactionTypeIncome
			}

			description := "Demo " + category
			location := fmt.Sprintf("Demo Location %d", rng.Intn(3)+1)
			txns = append(txns, &models.Transaction{
				ID:              uuid.New(),
				UserID:          userID,
				Amount:          amountFor(category, rng),
				Type:            txnType,
				Category:        category,
				Description:     &description,
				Location:        &location,
				TransactionDate: date,
			})
		}
	}

	injectFraudScenarios(txns, rng)
	return txns
}

func seedFor(userID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write(userID[:])
	return int64(h.Sum64())
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

func pickCategory(rng *rand.Rand) string {
	roll := rng.Intn(100)
	switch {
	case roll < 40:
		return "groceries"
	case roll < 55:
		return "utilities"
	case roll < 70:
		return "entertainment"
	case roll < 80:
		return "transport"
	case roll < 90:
		return "subscriptions"
	case roll < 95:
		return "salary"
	default:
		return "rent"
	}
}

func amountFor(category string, rng *rand.Rand) decimal.Decimal {
	r, ok := categoryAmounts[category]
	if !ok {
		r = amountRange{50, 150}
	}
	return decimal.NewFromInt(int64(r.min + rng.Intn(r.max-r.min+1)))
}

// fraudScenario overwrites the transaction at index with a suspicious purchase
type fraudScenario struct {
	index       int
	base        int
	spread      int
	category    string
	description string
	location    string
}

var fraudScenarios = []fraudScenario{
	{index: 2, base: 5000, spread: 3000, category: "luxury_electronics", description: "Demo: Expensive electronics purchase"},
	{index: 12, base: 6000, spread: 2000, category: "jewelry_luxury", description: "Demo: Luxury jewelry purchase"},
	{index: 25, base: 9000, spread: 3000, category: "crypto_exchange", description: "Demo: Large crypto exchange transaction", location: "Foreign Location"},
	{index: 28, base: 7500, category: "offshore_wire", description: "Demo: Offshore wire transfer", location: "International"},
	{index: 29, base: 8200, category: "precious_metals", description: "Demo: Precious metals purchase", location: "International"},
	{index: 42, base: 10000, spread: 5000, category: "art_collectibles", description: "Demo: High-value art purchase", location: "Auction House"},
	{index: 44, base: 12000, spread: 3000, category: "luxury_vehicle_deposit", description: "Demo: Luxury vehicle deposit", location: "Dealership"},
	{index: 46, base: 15000, spread: 5000, category: "investment_offshore", description: "Demo: Offshore investment", location: "Foreign Bank"},
}

func injectFraudScenarios(txns []*models.Transaction, rng *rand.Rand) {
	for _, s := range fraudScenarios {
		if s.index >= len(txns) {
			continue
		}
		t := txns[s.index]

		amount := s.base
		if s.spread > 0 {
			amount += rng.Intn(s.spread + 1)
		}
		description := s.description

		t.Amount = decimal.NewFromInt(int64(amount))
		t.Type = models.TransactionTypeExpense
		t.Category = s.category
		t.Description = &description
		if s.location != "" {
			location := s.location
			t.Location = &location
		}
	}
}
