package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamrorooms/rooms-api/internal/domain/apperr"
	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	repo "github.com/hamrorooms/rooms-api/internal/domain/repository"
)

type fakeListingRepo struct {
	byID   map[string]*entity.Listing
	nextID int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{byID: map[string]*entity.Listing{}}
}

func (f *fakeListingRepo) Create(l *entity.Listing) error {
	for _, other := range f.byID {
		if other.Slug == l.Slug {
			return apperr.ErrConflict
		}
	}
	f.nextID++
	l.ID = fmt.Sprintf("listing-%d", f.nextID)
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) GetByID(id string) (*entity.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) GetBySlug(slug string) (*entity.Listing, error) {
	for _, l := range f.byID {
		if l.Slug == slug {
			cp := *l
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeListingRepo) list(match func(*entity.Listing) bool) []*entity.Listing {
	var out []*entity.Listing
	for _, l := range f.byID {
		if match(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeListingRepo) ListVerified() ([]*entity.Listing, error) {
	return f.list(func(l *entity.Listing) bool { return l.Verified }), nil
}

func (f *fakeListingRepo) ListAll() ([]*entity.Listing, error) {
	return f.list(func(*entity.Listing) bool { return true }), nil
}

func (f *fakeListingRepo) ListByOwner(ownerID string) ([]*entity.Listing, error) {
	return f.list(func(l *entity.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (f *fakeListingRepo) ListByAddress(address string, excludeID string, limit int) ([]*entity.Listing, error) {
	out := f.list(func(l *entity.Listing) bool { return l.Address == address && l.ID != excludeID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeListingRepo) SearchByAddress(substr string) ([]*entity.Listing, error) {
	needle := strings.ToLower(substr)
	return f.list(func(l *entity.Listing) bool {
		return strings.Contains(strings.ToLower(l.Address), needle)
	}), nil
}

func (f *fakeListingRepo) Update(id string, upd repo.ListingUpdate) (*entity.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Address != nil {
		l.Address = *upd.Address
	}
	if upd.Phone != nil {
		l.Phone = *upd.Phone
	}
	if upd.Rent != nil {
		l.Rent = *upd.Rent
	}
	if upd.Parking != nil {
		l.Parking = *upd.Parking
	}
	if upd.Water != nil {
		l.Water = *upd.Water
	}
	if upd.Floor != nil {
		l.Floor = *upd.Floor
	}
	if upd.RoomType != nil {
		l.RoomType = *upd.RoomType
	}
	if upd.Verified != nil {
		l.Verified = *upd.Verified
	}
	if upd.Slug != nil {
		l.Slug = *upd.Slug
	}
	l.UpdatedAt = time.Now()
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) IncrementViewCount(id string) (int64, error) {
	l, ok := f.byID[id]
	if !ok {
		return 0, apperr.ErrNotFound
	}
	l.ViewCount++
	return l.ViewCount, nil
}

func (f *fakeListingRepo) Delete(id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeListingRepo) Count() (int64, error) {
	return int64(len(f.byID)), nil
}

func newTestListingService() (*ListingService, *fakeListingRepo) {
	listings := newFakeListingRepo()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewListingService(listings, nil, "", nil, "", logger)
	return svc, listings
}

func seedListing(t *testing.T, repo *fakeListingRepo, ownerID, address, slug string, verified bool) *entity.Listing {
	t.Helper()
	l := &entity.Listing{
		OwnerID:  ownerID,
		City:     "Kathmandu",
		Address:  address,
		Phone:    "9800000000",
		Rent:     8000,
		Parking:  "yes",
		Water:    "yes",
		Floor:    "2nd",
		RoomType: "single room",
		Slug:     slug,
		Verified: verified,
	}
	require.NoError(t, repo.Create(l))
	return l
}

func TestAssignSlug(t *testing.T) {
	svc, listings := newTestListingService()

	t.Run("fresh address gets the bare slug", func(t *testing.T) {
		s, err := svc.AssignSlug("Baneshwor, Kathmandu", "")
		require.NoError(t, err)
		assert.Equal(t, "baneshwor-kathmandu", s)
	})

	t.Run("occupied slug gets a numeric suffix", func(t *testing.T) {
		seedListing(t, listings, "owner-1", "Baneshwor, Kathmandu", "baneshwor-kathmandu", true)
		s, err := svc.AssignSlug("Baneshwor, Kathmandu", "")
		require.NoError(t, err)
		assert.Equal(t, "baneshwor-kathmandu-1", s)
	})

	t.Run("an update keeps its own slug", func(t *testing.T) {
		l, err := listings.GetBySlug("baneshwor-kathmandu")
		require.NoError(t, err)
		s, err := svc.AssignSlug("Baneshwor, Kathmandu", l.ID)
		require.NoError(t, err)
		assert.Equal(t, "baneshwor-kathmandu", s)
	})
}

func TestAssignSlugExhaustedProbesFallsBackToRandom(t *testing.T) {
	svc, listings := newTestListingService()

	seedListing(t, listings, "owner-1", "Patan", "patan", false)
	for i := 1; i < maxSlugProbes; i++ {
		seedListing(t, listings, "owner-1", "Patan", fmt.Sprintf("patan-%d", i), false)
	}

	s, err := svc.AssignSlug("Patan", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "patan-"))
	assert.Len(t, s, len("patan-")+8)
	_, err = listings.GetBySlug(s)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateListingValidation(t *testing.T) {
	svc, _ := newTestListingService()
	ctx := context.Background()

	valid := CreateListingInput{
		OwnerID:  "owner-1",
		City:     "Kathmandu",
		Address:  "Baneshwor",
		Phone:    "9800000000",
		Rent:     8000,
		Parking:  "yes",
		Water:    "no",
		Floor:    "1st",
		RoomType: "flat",
	}

	t.Run("missing required fields", func(t *testing.T) {
		in := valid
		in.Address = ""
		_, err := svc.CreateListing(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("non-positive rent", func(t *testing.T) {
		in := valid
		in.Rent = 0
		_, err := svc.CreateListing(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("bad enums", func(t *testing.T) {
		for _, mutate := range []func(*CreateListingInput){
			func(in *CreateListingInput) { in.Parking = "maybe" },
			func(in *CreateListingInput) { in.Water = "sometimes" },
			func(in *CreateListingInput) { in.Floor = "6th" },
			func(in *CreateListingInput) { in.RoomType = "penthouse" },
		} {
			in := valid
			mutate(&in)
			_, err := svc.CreateListing(ctx, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		}
	})

	t.Run("no images", func(t *testing.T) {
		_, err := svc.CreateListing(ctx, valid)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("images without object store configured", func(t *testing.T) {
		in := valid
		in.Images = []ImageUpload{{Filename: "room.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("data")}}
		_, err := svc.CreateListing(ctx, in)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestGetBySlugBumpsViewCount(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", true)

	l, err := svc.GetBySlug(ctx, "baneshwor")
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.ViewCount)

	l, err = svc.GetBySlug(ctx, "baneshwor")
	require.NoError(t, err)
	assert.Equal(t, int64(2), l.ViewCount)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRelated(t *testing.T) {
	svc, listings := newTestListingService()

	seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", true)
	for i := 0; i < 7; i++ {
		seedListing(t, listings, "owner-2", "Baneshwor", fmt.Sprintf("baneshwor-%d", i+1), true)
	}

	out, err := svc.Related("baneshwor")
	require.NoError(t, err)
	assert.Len(t, out, 5, "related results are capped")
	for _, l := range out {
		assert.NotEqual(t, "baneshwor", l.Slug, "the listing itself is excluded")
	}

	_, err = svc.Related("missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateListingOwnership(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	l := seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", false)
	phone := "9811111111"

	_, err := svc.UpdateListing(ctx, l.ID, "intruder", false, UpdateListingInput{Phone: &phone})
	assert.ErrorIs(t, err, apperr.ErrAuth)

	updated, err := svc.UpdateListing(ctx, l.ID, "owner-1", false, UpdateListingInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)

	// Admins may update anyone's listing.
	rent := int64(9500)
	updated, err = svc.UpdateListing(ctx, l.ID, "someone-else", true, UpdateListingInput{Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, rent, updated.Rent)
}

func TestUpdateListingVerifiedFlag(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	l := seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", false)
	verified := true

	// Owners cannot self-approve.
	updated, err := svc.UpdateListing(ctx, l.ID, "owner-1", false, UpdateListingInput{Verified: &verified})
	require.NoError(t, err)
	assert.False(t, updated.Verified)

	updated, err = svc.UpdateListing(ctx, l.ID, "admin", true, UpdateListingInput{Verified: &verified})
	require.NoError(t, err)
	assert.True(t, updated.Verified)
}

func TestUpdateListingEnumValidationOnMergedValues(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	l := seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", false)
	bad := "attic"

	_, err := svc.UpdateListing(ctx, l.ID, "owner-1", false, UpdateListingInput{Floor: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateListingAddressChangeRecomputesSlug(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	l := seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", false)
	seedListing(t, listings, "owner-2", "Patan", "patan", false)

	addr := "Patan"
	updated, err := svc.UpdateListing(ctx, l.ID, "owner-1", false, UpdateListingInput{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "patan-1", updated.Slug, "collides with the existing patan slug")

	// Same address again: the slug it already holds is kept.
	updated, err = svc.UpdateListing(ctx, l.ID, "owner-1", false, UpdateListingInput{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "patan-1", updated.Slug)
}

func TestDeleteListing(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	l := seedListing(t, listings, "owner-1", "Baneshwor", "baneshwor", true)

	require.NoError(t, svc.DeleteListing(ctx, l.ID))
	_, err := listings.GetByID(l.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteListing(ctx, l.ID), apperr.ErrNotFound)
}

func TestSearchByAddressFallback(t *testing.T) {
	svc, listings := newTestListingService()
	ctx := context.Background()

	seedListing(t, listings, "owner-1", "Baneshwor, Kathmandu", "baneshwor-kathmandu", true)
	seedListing(t, listings, "owner-1", "Patan Durbar", "patan-durbar", true)

	out, err := svc.SearchByAddress(ctx, "baneshwor")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Baneshwor, Kathmandu", out[0].Address)

	out, err = svc.SearchByAddress(ctx, "pokhara")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = svc.SearchByAddress(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListVerifiedAndCounts(t *testing.T) {
	svc, listings := newTestListingService()

	seedListing(t, listings, "owner-1", "A", "a", true)
	seedListing(t, listings, "owner-1", "B", "b", false)
	seedListing(t, listings, "owner-2", "C", "c", true)

	verified, err := svc.ListVerified()
	require.NoError(t, err)
	assert.Len(t, verified, 2)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	n, err := svc.ListingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
