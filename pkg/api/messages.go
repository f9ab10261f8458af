package api

// User is a public user profile.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// Participant is a user's equal share of a night or item.
type Participant struct {
	UserID      string  `json:"userId"`
	ShareAmount float64 `json:"shareAmount"`
}

// Payment records money a user actually paid towards a night.
type Payment struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// IndividualItem is a sub-purchase split among its own participants.
type IndividualItem struct {
	ID           string        `json:"id"`
	Description  string        `json:"description"`
	Amount       float64       `json:"amount"`
	Participants []Participant `json:"participants"`
}

// BarNight is a stored night with derived shares.
type BarNight struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	TotalAmount  float64          `json:"totalAmount"`
	Date         string           `json:"date"`
	CreatedBy    string           `json:"createdBy"`
	Participants []Participant    `json:"participants"`
	Payments     []Payment        `json:"payments"`
	Items        []IndividualItem `json:"items"`
	CreatedAt    int64            `json:"createdAt"`
	UpdatedAt    int64            `json:"updatedAt"`
}

// ItemInput is an individual item as submitted by a client.
type ItemInput struct {
	Description    string   `json:"description"`
	Amount         float64  `json:"amount"`
	ParticipantIDs []string `json:"participantIds"`
}

// BarNightInput is the form data for creating or editing a night.
// TotalAmount is a pointer so a missing total can be told apart from zero.
type BarNightInput struct {
	Name           string      `json:"name"`
	TotalAmount    *float64    `json:"totalAmount"`
	Date           string      `json:"date"`
	ParticipantIDs []string    `json:"participantIds"`
	Payments       []Payment   `json:"payments"`
	Items          []ItemInput `json:"items"`
}

// Balance is a user's net position across all nights.
// Positive means the user is owed money.
type Balance struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Balance     float64 `json:"balance"`
}

type ListBarNightsRequest struct{}

type ListBarNightsResponse struct {
	Nights   []BarNight `json:"nights"`
	Balances []Balance  `json:"balances"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type CreateBarNightRequest struct {
	Night BarNightInput `json:"night"`
}

type CreateBarNightResponse struct {
	ID       string     `json:"id"`
	Nights   []BarNight `json:"nights"`
	Balances []Balance  `json:"balances"`
}

type UpdateBarNightRequest struct {
	ID    string        `json:"id"`
	Night BarNightInput `json:"night"`
}

type UpdateBarNightResponse struct {
	Nights   []BarNight `json:"nights"`
	Balances []Balance  `json:"balances"`
}

type DeleteBarNightRequest struct {
	ID string `json:"id"`
}

type DeleteBarNightResponse struct {
	Nights   []BarNight `json:"nights"`
	Balances []Balance  `json:"balances"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
