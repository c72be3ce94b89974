package models

import "time"

// Property is a listing as returned by the backend.
type Property struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Price       float64   `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	AreaSqm     float64   `json:"area"`
	Status      string    `json:"status"`
	AgentID     string    `json:"agentId,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PropertyQuery filters the public listing.
type PropertyQuery struct {
	Search string
	City   string
	Limit  int
}

// Notification is a dashboard message for the signed-in user.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToastKind is the style of a one-shot notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a one-shot user notification shown on the next rendered page.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}
