package venue

import "context"

type Repository interface {
	CreateVenue(ctx context.Context, providerID int, name, location string) (*Venue, error)
	GetVenueByID(ctx context.Context, id int) (*Venue, error)
	GetAllVenues(ctx context.Context) ([]Venue, error)
	GetVenuesByProvider(ctx context.Context, providerID int) ([]Venue, error)
	GetVenuesWithProvider(ctx context.Context) ([]VenueWithProvider, error)
	DeleteVenue(ctx context.Context, id int) error
	CreateResource(ctx context.Context, venueID int, sport, label string, priceCentsPerHour int64) (*Resource, error)
	GetResourceByID(ctx context.Context, id int) (*Resource, error)
	GetResourcesByVenue(ctx context.Context, venueID int) ([]Resource, error)
	DeleteResource(ctx context.Context, id int) error
}
