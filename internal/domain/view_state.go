package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoadPhase follows idle -> loading -> populated | empty-on-error.
type LoadPhase string

const (
	PhaseIdle         LoadPhase = "idle"
	PhaseLoading      LoadPhase = "loading"
	PhasePopulated    LoadPhase = "populated"
	PhaseEmptyOnError LoadPhase = "empty-on-error"
)

type NotificationStatus string

const (
	StatusSuccess NotificationStatus = "success"
	StatusError   NotificationStatus = "error"
)

// Notification is a transient, dismissible message about an operation outcome.
type Notification struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      NotificationStatus `json:"status"`
	Duration    time.Duration      `json:"duration"`
	Closable    bool               `json:"closable"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Active reports whether the notification is still within its display window.
func (n Notification) Active(now time.Time) bool {
	if n.Duration <= 0 {
		return true
	}
	return now.Before(n.CreatedAt.Add(n.Duration))
}

// ViewState is the in-memory, session-scoped data that drives rendering.
type ViewState struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`

	CategoryName    string `json:"category_name"`
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`

	Loading   bool      `json:"loading"`
	LoadPhase LoadPhase `json:"load_phase"`

	Notifications []Notification `json:"notifications"`
}

// NewViewState returns the empty state a session starts from.
func NewViewState() ViewState {
	return ViewState{
		Categories:    []Category{},
		Products:      []Product{},
		LoadPhase:     PhaseIdle,
		Notifications: []Notification{},
	}
}

// Clone copies the slices so callers can read the snapshot without holding a lock.
func (s ViewState) Clone() ViewState {
	out := s
	out.Categories = append([]Category(nil), s.Categories...)
	out.Products = append([]Product(nil), s.Products...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	if out.Categories == nil {
		out.Categories = []Category{}
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	if out.Notifications == nil {
		out.Notifications = []Notification{}
	}
	return out
}

// CategoryNameFor resolves a category identifier to its display name, falling
// back to the raw identifier when no loaded category matches or the match has
// no name.
func (s ViewState) CategoryNameFor(id ID) string {
	for _, c := range s.Categories {
		if c.ID == id && c.Name != "" {
			return c.Name
		}
	}
	return string(id)
}
