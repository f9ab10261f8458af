package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/barnight/internal/calculator"
	"github.com/mmynk/barnight/internal/models"
)

// PrepareNight fills in defaults and derives share amounts before a write.
// Item IDs are always regenerated because updates re-create every item.
func PrepareNight(night *models.BarNight) {
	if night.Name == "" {
		night.Name = models.DefaultNightName
	}
	if night.Date == "" {
		night.Date = time.Now().UTC().Format(models.DateLayout)
	}
	for i := range night.Items {
		night.Items[i].ID = uuid.New().String()
	}
	calculator.AssignShares(night)
}
