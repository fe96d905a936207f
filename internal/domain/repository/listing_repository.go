package repository

import "github.com/hamrorooms/rooms-api/internal/domain/entity"

// ListingUpdate carries the updatable listing fields. Nil pointers
// leave the stored value untouched.
type ListingUpdate struct {
	Address  *string
	Phone    *string
	Rent     *int64
	Parking  *string
	Water    *string
	Floor    *string
	RoomType *string
	Verified *bool // admin only
	Slug     *string
}

// ListingRepository defines listing persistence. GetBySlug exists for
// slug-collision probing as well as detail reads; IncrementViewCount
// must be atomic in the store.
type ListingRepository interface {
	Create(l *entity.Listing) error
	GetByID(id string) (*entity.Listing, error)
	GetBySlug(slug string) (*entity.Listing, error)
	ListVerified() ([]*entity.Listing, error)
	ListAll() ([]*entity.Listing, error)
	ListByOwner(ownerID string) ([]*entity.Listing, error)
	ListByAddress(address string, excludeID string, limit int) ([]*entity.Listing, error)
	SearchByAddress(substr string) ([]*entity.Listing, error)
	Update(id string, upd ListingUpdate) (*entity.Listing, error)
	IncrementViewCount(id string) (int64, error)
	Delete(id string) error
	Count() (int64, error)
}
