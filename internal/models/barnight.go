package models

// DefaultNightName is used when a night is saved without a name.
const DefaultNightName = "Bar-Abend"

// DateLayout is the calendar-day format of BarNight.Date.
const DateLayout = "2006-01-02"

// BarNight represents one shared outing and everything recorded about its cost.
type BarNight struct {
	// ID is the unique identifier for the night (UUID format).
	ID string

	// Name is the human-readable label. Defaults to DefaultNightName.
	Name string

	// TotalAmount is the cost shared equally among Participants.
	TotalAmount float64

	// Date is the calendar day of the outing (DateLayout).
	Date string

	// CreatedBy is the ID of the user who recorded the night.
	CreatedBy string

	// Participants are the users splitting TotalAmount.
	Participants []Participant

	// Payments record what users actually paid toward the night.
	// Their sum does not have to match TotalAmount.
	Payments []Payment

	// Items are sub-purchases split among their own participant subsets.
	Items []IndividualItem

	// CreatedAt is the Unix timestamp when the night was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// Participant is a user's membership in a night or an item.
type Participant struct {
	UserID string

	// ShareAmount is amount / participant count at the time of the write.
	ShareAmount float64
}

// Payment is money a user contributed toward a night.
type Payment struct {
	UserID string
	Amount float64
}

// IndividualItem is a sub-purchase of a night. Its participants are not
// required to be participants of the night itself.
type IndividualItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Description names the item (e.g., "Cocktails", "Pizza").
	Description string

	// Amount is the item cost split equally among Participants.
	Amount float64

	Participants []Participant
}

// ParticipantIDs returns the user IDs of the night's participants in order.
func (n *BarNight) ParticipantIDs() []string {
	ids := make([]string, len(n.Participants))
	for i, p := range n.Participants {
		ids[i] = p.UserID
	}
	return ids
}
