// Package calculator computes equal-split shares and per-user balances from
// recorded bar nights. Everything here is a pure function of its arguments.
package calculator

import "github.com/mmynk/barnight/internal/models"

// UserBalance pairs a user with their net balance.
type UserBalance struct {
	User    models.User
	Balance float64 // Positive = owed money, Negative = owes money
}

// ComputeBalances folds every night into a signed balance per known user.
//
// Algorithm:
//   - every user in users starts at 0, whether or not they appear in a night
//   - for each night with at least one participant:
//     each participant owes total / participant count,
//     each payer is credited with the amount they paid,
//     each item with at least one participant charges amount / item count
//     to every item participant (night participant or not)
//   - nights without participants contribute nothing, payments and items included
//
// Shares are recomputed from totals and counts; stored ShareAmount values are
// never read. Amounts are not validated or rounded. Only IDs present in users
// are reported. The returned map is freshly allocated on every call.
func ComputeBalances(users []models.User, nights []models.BarNight) map[string]float64 {
	balances := make(map[string]float64, len(users))
	for _, u := range users {
		balances[u.ID] = 0
	}

	adjust := func(userID string, delta float64) {
		if _, known := balances[userID]; known {
			balances[userID] += delta
		}
	}

	for _, night := range nights {
		baseShare, ok := EqualShare(night.TotalAmount, len(night.Participants))
		if !ok {
			continue
		}

		for _, p := range night.Participants {
			adjust(p.UserID, -baseShare)
		}

		for _, payment := range night.Payments {
			adjust(payment.UserID, payment.Amount)
		}

		for _, item := range night.Items {
			itemShare, ok := EqualShare(item.Amount, len(item.Participants))
			if !ok {
				continue
			}
			for _, p := range item.Participants {
				adjust(p.UserID, -itemShare)
			}
		}
	}

	return balances
}

// SortedBalances lists balances in the order of users.
// Users missing from balances are reported with 0.
func SortedBalances(users []models.User, balances map[string]float64) []UserBalance {
	result := make([]UserBalance, len(users))
	for i, u := range users {
		result[i] = UserBalance{User: u, Balance: balances[u.ID]}
	}
	return result
}
