package venue

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNothingDeleted = errors.New("no row deleted")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVenue(ctx context.Context, providerID int, name, location string) (*Venue, error) {
	query := `
		INSERT INTO venues (provider_id, name, location)
		VALUES ($1, $2, $3)
		RETURNING id, provider_id, name, location, created_at
	`

	var v Venue
	err := r.db.GetContext(ctx, &v, query, providerID, name, location)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *repository) GetVenueByID(ctx context.Context, id int) (*Venue, error) {
	query := `
		SELECT id, provider_id, name, location, created_at
		FROM venues
		WHERE id = $1
	`

	var v Venue
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *repository) GetAllVenues(ctx context.Context) ([]Venue, error) {
	query := `
		SELECT id, provider_id, name, location, created_at
		FROM venues
		ORDER BY created_at DESC
	`

	var venues []Venue
	err := r.db.SelectContext(ctx, &venues, query)
	if err != nil {
		return nil, err
	}

	return venues, nil
}

func (r *repository) GetVenuesByProvider(ctx context.Context, providerID int) ([]Venue, error) {
	query := `
		SELECT id, provider_id, name, location, created_at
		FROM venues
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`

	var venues []Venue
	err := r.db.SelectContext(ctx, &venues, query, providerID)
	if err != nil {
		return nil, err
	}

	return venues, nil
}

func (r *repository) GetVenuesWithProvider(ctx context.Context) ([]VenueWithProvider, error) {
	query := `
		SELECT
			v.id,
			v.provider_id,
			v.name,
			v.location,
			v.created_at,
			u.name AS provider_name,
			u.email AS provider_email
		FROM venues v
		JOIN users u ON v.provider_id = u.id
		ORDER BY v.created_at DESC
	`

	var venues []VenueWithProvider
	err := r.db.SelectContext(ctx, &venues, query)
	if err != nil {
		return nil, err
	}

	return venues, nil
}

func (r *repository) DeleteVenue(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNothingDeleted
	}

	return nil
}

func (r *repository) CreateResource(ctx context.Context, venueID int, sport, label string, priceCentsPerHour int64) (*Resource, error) {
	query := `
		INSERT INTO resources (venue_id, sport, label, price_cents_per_hour)
		VALUES ($1, $2, $3, $4)
		RETURNING id, venue_id, sport, label, price_cents_per_hour, created_at
	`

	var res Resource
	err := r.db.GetContext(ctx, &res, query, venueID, sport, label, priceCentsPerHour)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetResourceByID(ctx context.Context, id int) (*Resource, error) {
	query := `
		SELECT id, venue_id, sport, label, price_cents_per_hour, created_at
		FROM resources
		WHERE id = $1
	`

	var res Resource
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetResourcesByVenue(ctx context.Context, venueID int) ([]Resource, error) {
	query := `
		SELECT id, venue_id, sport, label, price_cents_per_hour, created_at
		FROM resources
		WHERE venue_id = $1
		ORDER BY sport ASC, label ASC
	`

	var resources []Resource
	err := r.db.SelectContext(ctx, &resources, query, venueID)
	if err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *repository) DeleteResource(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNothingDeleted
	}

	return nil
}
