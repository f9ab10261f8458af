package service

import (
	"github.com/mmynk/barnight/internal/calculator"
	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/pkg/api"
)

func toAPINights(nights []models.BarNight) []api.BarNight {
	result := make([]api.BarNight, len(nights))
	for i, n := range nights {
		items := make([]api.IndividualItem, len(n.Items))
		for j, item := range n.Items {
			items[j] = api.IndividualItem{
				ID:           item.ID,
				Description:  item.Description,
				Amount:       item.Amount,
				Participants: toAPIParticipants(item.Participants),
			}
		}
		payments := make([]api.Payment, len(n.Payments))
		for j, p := range n.Payments {
			payments[j] = api.Payment{UserID: p.UserID, Amount: p.Amount}
		}
		result[i] = api.BarNight{
			ID:           n.ID,
			Name:         n.Name,
			TotalAmount:  n.TotalAmount,
			Date:         n.Date,
			CreatedBy:    n.CreatedBy,
			Participants: toAPIParticipants(n.Participants),
			Payments:     payments,
			Items:        items,
			CreatedAt:    n.CreatedAt,
			UpdatedAt:    n.UpdatedAt,
		}
	}
	return result
}

func toAPIParticipants(participants []models.Participant) []api.Participant {
	result := make([]api.Participant, len(participants))
	for i, p := range participants {
		result[i] = api.Participant{UserID: p.UserID, ShareAmount: p.ShareAmount}
	}
	return result
}

func toAPIBalances(balances []calculator.UserBalance) []api.Balance {
	result := make([]api.Balance, len(balances))
	for i, b := range balances {
		result[i] = api.Balance{
			UserID:      b.User.ID,
			DisplayName: b.User.DisplayName,
			Balance:     b.Balance,
		}
	}
	return result
}

// toAPIUser returns the public profile; the email is only set when withEmail is true.
func toAPIUser(u *models.User, withEmail bool) *api.User {
	user := &api.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
	if withEmail {
		user.Email = u.Email
	}
	return user
}
