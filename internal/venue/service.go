package venue

import (
	"context"
	"errors"

	"courtbook/internal/auth"
)

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotVenueOwner    = errors.New("venue belongs to another provider")
)

type Service interface {
	CreateVenue(ctx context.Context, providerID int, req CreateVenueRequest) (*Venue, error)
	GetAllVenues(ctx context.Context) ([]Venue, error)
	GetVenuesByProvider(ctx context.Context, providerID int) ([]Venue, error)
	GetVenuesWithProvider(ctx context.Context) ([]VenueWithProvider, error)
	GetVenueByID(ctx context.Context, id int) (*Venue, error)
	DeleteVenue(ctx context.Context, callerID int, callerRole string, venueID int) error
	CreateResource(ctx context.Context, callerID int, callerRole string, venueID int, req CreateResourceRequest) (*Resource, error)
	GetResourceByID(ctx context.Context, id int) (*Resource, error)
	GetResourcesByVenue(ctx context.Context, venueID int) ([]Resource, error)
	DeleteResource(ctx context.Context, callerID int, callerRole string, resourceID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVenue(ctx context.Context, providerID int, req CreateVenueRequest) (*Venue, error) {
	return s.repo.CreateVenue(ctx, providerID, req.Name, req.Location)
}

func (s *service) GetAllVenues(ctx context.Context) ([]Venue, error) {
	return s.repo.GetAllVenues(ctx)
}

func (s *service) GetVenuesByProvider(ctx context.Context, providerID int) ([]Venue, error) {
	return s.repo.GetVenuesByProvider(ctx, providerID)
}

func (s *service) GetVenuesWithProvider(ctx context.Context) ([]VenueWithProvider, error) {
	return s.repo.GetVenuesWithProvider(ctx)
}

func (s *service) GetVenueByID(ctx context.Context, id int) (*Venue, error) {
	v, err := s.repo.GetVenueByID(ctx, id)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	return v, nil
}

// ownsVenue allows the venue's provider and admins through.
func (s *service) ownsVenue(ctx context.Context, callerID int, callerRole string, venueID int) (*Venue, error) {
	v, err := s.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	if callerRole != auth.RoleAdmin && v.ProviderID != callerID {
		return nil, ErrNotVenueOwner
	}

	return v, nil
}

func (s *service) DeleteVenue(ctx context.Context, callerID int, callerRole string, venueID int) error {
	if _, err := s.ownsVenue(ctx, callerID, callerRole, venueID); err != nil {
		return err
	}

	return s.repo.DeleteVenue(ctx, venueID)
}

func (s *service) CreateResource(ctx context.Context, callerID int, callerRole string, venueID int, req CreateResourceRequest) (*Resource, error) {
	if _, err := s.ownsVenue(ctx, callerID, callerRole, venueID); err != nil {
		return nil, err
	}

	return s.repo.CreateResource(ctx, venueID, req.Sport, req.Label, req.PriceCentsPerHour)
}

func (s *service) GetResourceByID(ctx context.Context, id int) (*Resource, error) {
	res, err := s.repo.GetResourceByID(ctx, id)
	if err != nil {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

func (s *service) GetResourcesByVenue(ctx context.Context, venueID int) ([]Resource, error) {
	if _, err := s.repo.GetVenueByID(ctx, venueID); err != nil {
		return nil, ErrVenueNotFound
	}

	return s.repo.GetResourcesByVenue(ctx, venueID)
}

func (s *service) DeleteResource(ctx context.Context, callerID int, callerRole string, resourceID int) error {
	res, err := s.repo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return ErrResourceNotFound
	}

	if _, err := s.ownsVenue(ctx, callerID, callerRole, res.VenueID); err != nil {
		return err
	}

	return s.repo.DeleteResource(ctx, resourceID)
}
