package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/pkg/api"
)

func amount(v float64) *float64 { return &v }

func TestNightFromInput(t *testing.T) {
	tests := []struct {
		name         string
		input        api.BarNightInput
		wantErr      error
		validateFunc func(t *testing.T, night *models.BarNight)
	}{
		{
			name:    "missing total",
			input:   api.BarNightInput{ParticipantIDs: []string{"A"}},
			wantErr: ErrMissingTotal,
		},
		{
			name:    "negative total",
			input:   api.BarNightInput{TotalAmount: amount(-1), ParticipantIDs: []string{"A"}},
			wantErr: ErrNegativeTotal,
		},
		{
			name:    "no participants",
			input:   api.BarNightInput{TotalAmount: amount(10), ParticipantIDs: []string{" ", ""}},
			wantErr: ErrNoParticipants,
		},
		{
			name:    "bad date",
			input:   api.BarNightInput{TotalAmount: amount(10), ParticipantIDs: []string{"A"}, Date: "01.03.2024"},
			wantErr: ErrInvalidDate,
		},
		{
			name: "payments exceed total",
			input: api.BarNightInput{
				TotalAmount:    amount(50),
				ParticipantIDs: []string{"A", "B"},
				Payments:       []api.Payment{{UserID: "A", Amount: 30}, {UserID: "B", Amount: 30}},
			},
			wantErr: ErrPaymentsExceedTotal,
		},
		{
			name: "payments equal to total after float noise",
			input: api.BarNightInput{
				TotalAmount:    amount(0.3),
				ParticipantIDs: []string{"A", "B"},
				Payments:       []api.Payment{{UserID: "A", Amount: 0.1}, {UserID: "B", Amount: 0.2}},
			},
			validateFunc: func(t *testing.T, night *models.BarNight) {
				if len(night.Payments) != 2 {
					t.Errorf("expected 2 payments, got %d", len(night.Payments))
				}
			},
		},
		{
			name: "zero total is allowed",
			input: api.BarNightInput{
				TotalAmount:    amount(0),
				ParticipantIDs: []string{"A"},
			},
			validateFunc: func(t *testing.T, night *models.BarNight) {
				if night.TotalAmount != 0 {
					t.Errorf("expected total 0, got %f", night.TotalAmount)
				}
			},
		},
		{
			name: "defaults and normalization",
			input: api.BarNightInput{
				Name:           "   ",
				TotalAmount:    amount(90),
				ParticipantIDs: []string{"A", " B ", "A", "C"},
				Payments: []api.Payment{
					{UserID: "A", Amount: 50},
					{UserID: "B", Amount: 0},
					{UserID: "C", Amount: -5},
					{UserID: "A", Amount: 10},
				},
			},
			validateFunc: func(t *testing.T, night *models.BarNight) {
				if night.Name != models.DefaultNightName {
					t.Errorf("expected default name, got %q", night.Name)
				}
				if got := night.ParticipantIDs(); len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
					t.Errorf("expected participants [A B C], got %v", got)
				}
				if len(night.Payments) != 1 || night.Payments[0] != (models.Payment{UserID: "A", Amount: 60}) {
					t.Errorf("expected one merged payment of 60 by A, got %+v", night.Payments)
				}
				today := time.Now().UTC().Format(models.DateLayout)
				if night.Date != today {
					t.Errorf("expected date %s, got %s", today, night.Date)
				}
			},
		},
		{
			name: "invalid items dropped",
			input: api.BarNightInput{
				Name:           " Stammtisch ",
				TotalAmount:    amount(90),
				Date:           "2024-03-01",
				ParticipantIDs: []string{"A", "B", "C"},
				Items: []api.ItemInput{
					{Description: "Nachos", Amount: 12, ParticipantIDs: []string{"B", "C", "B"}},
					{Description: "  ", Amount: 5, ParticipantIDs: []string{"A"}},
					{Description: "Free round", Amount: 0, ParticipantIDs: []string{"A"}},
					{Description: "Nobody", Amount: 8},
				},
			},
			validateFunc: func(t *testing.T, night *models.BarNight) {
				if night.Name != "Stammtisch" || night.Date != "2024-03-01" {
					t.Errorf("unexpected name/date: %q %q", night.Name, night.Date)
				}
				if len(night.Items) != 1 {
					t.Fatalf("expected 1 valid item, got %d", len(night.Items))
				}
				if len(night.Items[0].Participants) != 2 {
					t.Errorf("expected duplicate item participant collapsed, got %+v", night.Items[0].Participants)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			night, err := nightFromInput(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, night)
			}
		})
	}
}

func TestCheckUsers(t *testing.T) {
	users := []models.User{{ID: "A"}, {ID: "B"}}

	tests := []struct {
		name    string
		night   models.BarNight
		wantErr bool
	}{
		{
			name: "all known",
			night: models.BarNight{
				Participants: toParticipants([]string{"A", "B"}),
				Payments:     []models.Payment{{UserID: "B", Amount: 5}},
				Items:        []models.IndividualItem{{Participants: toParticipants([]string{"A"})}},
			},
		},
		{
			name:    "unknown participant",
			night:   models.BarNight{Participants: toParticipants([]string{"A", "X"})},
			wantErr: true,
		},
		{
			name: "unknown payer",
			night: models.BarNight{
				Participants: toParticipants([]string{"A"}),
				Payments:     []models.Payment{{UserID: "X", Amount: 5}},
			},
			wantErr: true,
		},
		{
			name: "unknown item participant",
			night: models.BarNight{
				Participants: toParticipants([]string{"A"}),
				Items:        []models.IndividualItem{{Participants: toParticipants([]string{"B", "X"})}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkUsers(&tt.night, users)
			if tt.wantErr && !errors.Is(err, ErrUnknownUser) {
				t.Errorf("expected ErrUnknownUser, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
