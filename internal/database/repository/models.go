package repository

import "time"

// User represents a user row. PasswordHash is a bcrypt hash.
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	PasswordHash      string
	IsServiceProvider bool
	Rating            float64
	ReviewCount       int
	ProfileImage      *string
	CreatedAt         time.Time
}

// Category represents a service category row.
type Category struct {
	ID             string
	Name           string
	AvailableCount int
	Color          string
	SortOrder      int
}

// Provider represents a service provider row.
type Provider struct {
	ID              string
	CategoryID      string
	Name            string
	Title           string
	Rating          float64
	Description     string
	JobsCompleted   int
	HourlyRateCents int64
	Elite           bool
}

// ProviderFilters narrows a provider listing. Zero values mean no filter.
type ProviderFilters struct {
	MinRating    float64
	MaxRateCents int64
	EliteOnly    bool
}

// Booking statuses.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking represents a booking row.
type Booking struct {
	ID              string
	ClientID        string
	ProviderID      string
	CategoryID      string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          string
	TotalCents      int64
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
