package venue

import "time"

type Venue struct {
	ID         int       `db:"id" json:"id"`
	ProviderID int       `db:"provider_id" json:"provider_id"`
	Name       string    `db:"name" json:"name"`
	Location   string    `db:"location" json:"location"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Resource is one bookable unit at a venue: a court, table or net for
// a single sport, priced per hour.
type Resource struct {
	ID                int       `db:"id" json:"id"`
	VenueID           int       `db:"venue_id" json:"venue_id"`
	Sport             string    `db:"sport" json:"sport"`
	Label             string    `db:"label" json:"label"`
	PriceCentsPerHour int64     `db:"price_cents_per_hour" json:"price_cents_per_hour"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type VenueWithProvider struct {
	Venue
	ProviderName  string `db:"provider_name" json:"provider_name"`
	ProviderEmail string `db:"provider_email" json:"provider_email"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type CreateResourceRequest struct {
	Sport             string `json:"sport" binding:"required"`
	Label             string `json:"label" binding:"required"`
	PriceCentsPerHour int64  `json:"price_cents_per_hour" binding:"required,min=1"`
}
