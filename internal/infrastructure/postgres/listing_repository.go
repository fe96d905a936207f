package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamrorooms/rooms-api/internal/domain/apperr"
	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	"github.com/hamrorooms/rooms-api/internal/domain/repository"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `id, owner_id, city, address, phone, rent, parking, water, floor, room_type,
	images, latitude, longitude, slug, verified, view_count, created_at, updated_at`

func scanListing(row pgx.Row) (*entity.Listing, error) {
	l := &entity.Listing{}
	if err := row.Scan(&l.ID, &l.OwnerID, &l.City, &l.Address, &l.Phone, &l.Rent,
		&l.Parking, &l.Water, &l.Floor, &l.RoomType, &l.Images, &l.Latitude, &l.Longitude,
		&l.Slug, &l.Verified, &l.ViewCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) Create(l *entity.Listing) error {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO listings (owner_id, city, address, phone, rent, parking, water, floor, room_type,
			images, latitude, longitude, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, verified, view_count, created_at, updated_at
	`, l.OwnerID, l.City, l.Address, l.Phone, l.Rent, l.Parking, l.Water, l.Floor, l.RoomType,
		l.Images, l.Latitude, l.Longitude, l.Slug)

	if err := row.Scan(&l.ID, &l.Verified, &l.ViewCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ListingRepository) GetByID(id string) (*entity.Listing, error) {
	return scanListing(r.pool.QueryRow(context.Background(), `
		SELECT `+listingColumns+` FROM listings WHERE id = $1
	`, id))
}

func (r *ListingRepository) GetBySlug(slug string) (*entity.Listing, error) {
	return scanListing(r.pool.QueryRow(context.Background(), `
		SELECT `+listingColumns+` FROM listings WHERE slug = $1
	`, slug))
}

func (r *ListingRepository) listQuery(query string, args ...any) ([]*entity.Listing, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) ListVerified() ([]*entity.Listing, error) {
	return r.listQuery(`SELECT ` + listingColumns + ` FROM listings WHERE verified ORDER BY created_at DESC`)
}

func (r *ListingRepository) ListAll() ([]*entity.Listing, error) {
	return r.listQuery(`SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`)
}

func (r *ListingRepository) ListByOwner(ownerID string) ([]*entity.Listing, error) {
	return r.listQuery(`SELECT `+listingColumns+` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *ListingRepository) ListByAddress(address string, excludeID string, limit int) ([]*entity.Listing, error) {
	return r.listQuery(`
		SELECT `+listingColumns+` FROM listings
		WHERE address = $1 AND id <> $2
		ORDER BY created_at DESC
		LIMIT $3
	`, address, excludeID, limit)
}

// SearchByAddress is the case-insensitive substring search used when
// Elasticsearch is not configured.
func (r *ListingRepository) SearchByAddress(substr string) ([]*entity.Listing, error) {
	return r.listQuery(`
		SELECT `+listingColumns+` FROM listings
		WHERE address ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`, substr)
}

func (r *ListingRepository) Update(id string, upd repository.ListingUpdate) (*entity.Listing, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE listings SET
			address    = COALESCE($1, address),
			phone      = COALESCE($2, phone),
			rent       = COALESCE($3, rent),
			parking    = COALESCE($4, parking),
			water      = COALESCE($5, water),
			floor      = COALESCE($6, floor),
			room_type  = COALESCE($7, room_type),
			verified   = COALESCE($8, verified),
			slug       = COALESCE($9, slug),
			updated_at = now()
		WHERE id = $10
		RETURNING `+listingColumns+`
	`, upd.Address, upd.Phone, upd.Rent, upd.Parking, upd.Water, upd.Floor, upd.RoomType,
		upd.Verified, upd.Slug, id)

	l, err := scanListing(row)
	if err != nil && isUniqueViolation(err) {
		return nil, apperr.ErrConflict
	}
	return l, err
}

func (r *ListingRepository) IncrementViewCount(id string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(context.Background(), `
		UPDATE listings SET view_count = view_count + 1 WHERE id = $1
		RETURNING view_count
	`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.ErrNotFound
	}
	return n, err
}

func (r *ListingRepository) Delete(id string) error {
	res, err := r.pool.Exec(context.Background(), `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Count() (int64, error) {
	var n int64
	err := r.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
