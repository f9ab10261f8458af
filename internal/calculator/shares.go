package calculator

import "github.com/mmynk/barnight/internal/models"

// EqualShare divides amount among count people.
// It reports false when there is nobody to split among.
func EqualShare(amount float64, count int) (float64, bool) {
	if count <= 0 {
		return 0, false
	}
	return amount / float64(count), true
}

// AssignShares sets ShareAmount on every night and item participant to an
// equal split of the current totals. It is called on every write so stored
// shares never carry over from a previous edit.
func AssignShares(night *models.BarNight) {
	if share, ok := EqualShare(night.TotalAmount, len(night.Participants)); ok {
		for i := range night.Participants {
			night.Participants[i].ShareAmount = share
		}
	}

	for i := range night.Items {
		item := &night.Items[i]
		share, ok := EqualShare(item.Amount, len(item.Participants))
		if !ok {
			continue
		}
		for j := range item.Participants {
			item.Participants[j].ShareAmount = share
		}
	}
}
