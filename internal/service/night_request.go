package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/pkg/api"
)

var (
	ErrMissingTotal        = errors.New("total amount is required")
	ErrNegativeTotal       = errors.New("total amount must not be negative")
	ErrNoParticipants      = errors.New("at least one participant is required")
	ErrPaymentsExceedTotal = errors.New("payments exceed the total amount")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrUnknownUser         = errors.New("unknown user")
)

// nightFromInput validates submitted form data and turns it into a night
// ready for the store. Shares are derived by the store.
func nightFromInput(in api.BarNightInput) (*models.BarNight, error) {
	if in.TotalAmount == nil {
		return nil, ErrMissingTotal
	}
	total := *in.TotalAmount
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, ErrMissingTotal
	}
	if total < 0 {
		return nil, ErrNegativeTotal
	}

	participantIDs := uniqueIDs(in.ParticipantIDs)
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	payments, err := normalizePayments(in.Payments, total)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = models.DefaultNightName
	}

	night := &models.BarNight{
		Name:         name,
		TotalAmount:  total,
		Date:         date,
		Participants: toParticipants(participantIDs),
		Payments:     payments,
		Items:        normalizeItems(in.Items),
	}
	return night, nil
}

// checkUsers rejects a night that references anyone outside users.
// Shares owed by an unknown ID would vanish from every reported balance.
func checkUsers(night *models.BarNight, users []models.User) error {
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}

	check := func(role, userID string) error {
		if !known[userID] {
			return fmt.Errorf("%w: %s %q", ErrUnknownUser, role, userID)
		}
		return nil
	}
	for _, p := range night.Participants {
		if err := check("participant", p.UserID); err != nil {
			return err
		}
	}
	for _, p := range night.Payments {
		if err := check("payer", p.UserID); err != nil {
			return err
		}
	}
	for _, item := range night.Items {
		for _, p := range item.Participants {
			if err := check("item participant", p.UserID); err != nil {
				return err
			}
		}
	}
	return nil
}

// normalizePayments drops non-positive entries, merges repeated payers and
// checks the sum against the total.
func normalizePayments(in []api.Payment, total float64) ([]models.Payment, error) {
	payments := make([]models.Payment, 0, len(in))
	index := make(map[string]int, len(in))
	sum := decimal.Zero

	for _, p := range in {
		userID := strings.TrimSpace(p.UserID)
		if userID == "" || !(p.Amount > 0) || math.IsInf(p.Amount, 0) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(p.Amount))
		if i, ok := index[userID]; ok {
			payments[i].Amount += p.Amount
			continue
		}
		index[userID] = len(payments)
		payments = append(payments, models.Payment{UserID: userID, Amount: p.Amount})
	}

	if sum.GreaterThan(decimal.NewFromFloat(total)) {
		return nil, fmt.Errorf("%w: %s > %s", ErrPaymentsExceedTotal, sum.StringFixed(2), decimal.NewFromFloat(total).StringFixed(2))
	}
	return payments, nil
}

// normalizeItems keeps items with a description, a positive amount and at
// least one participant.
func normalizeItems(in []api.ItemInput) []models.IndividualItem {
	items := make([]models.IndividualItem, 0, len(in))
	for _, item := range in {
		description := strings.TrimSpace(item.Description)
		participantIDs := uniqueIDs(item.ParticipantIDs)
		if description == "" || !(item.Amount > 0) || math.IsInf(item.Amount, 0) || len(participantIDs) == 0 {
			continue
		}
		items = append(items, models.IndividualItem{
			Description:  description,
			Amount:       item.Amount,
			Participants: toParticipants(participantIDs),
		})
	}
	return items
}

// normalizeDate returns today (UTC) for an empty date.
func normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().UTC().Format(models.DateLayout), nil
	}
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return parsed.Format(models.DateLayout), nil
}

// uniqueIDs trims IDs and drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

func toParticipants(ids []string) []models.Participant {
	participants := make([]models.Participant, len(ids))
	for i, id := range ids {
		participants[i] = models.Participant{UserID: id}
	}
	return participants
}
