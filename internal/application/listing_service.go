package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hamrorooms/rooms-api/internal/domain/apperr"
	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	repo "github.com/hamrorooms/rooms-api/internal/domain/repository"
	"github.com/hamrorooms/rooms-api/pkg/helpers"
	"github.com/hamrorooms/rooms-api/pkg/slug"
)

// maxSlugProbes bounds the collision-resolution loop. Past this many
// identical addresses a random fragment is appended instead; the
// database unique index remains the actual uniqueness guarantee.
const maxSlugProbes = 64

var supportedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ListingService handles listing CRUD, image upload, slug assignment,
// and search.
type ListingService struct {
	Listings        repo.ListingRepository
	GCS             *storage.Client
	GCSBucket       string
	ES              *elasticsearch.Client
	ESListingsIndex string
	Logger          *logrus.Logger
}

func NewListingService(listings repo.ListingRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ListingService {
	return &ListingService{
		Listings:        listings,
		GCS:             gcs,
		GCSBucket:       gcsBucket,
		ES:              es,
		ESListingsIndex: esIndex,
		Logger:          logger,
	}
}

// ImageUpload is one file from the multipart create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// CreateListingInput carries the fields of a new listing.
type CreateListingInput struct {
	OwnerID   string
	City      string
	Address   string
	Phone     string
	Rent      int64
	Parking   string
	Water     string
	Floor     string
	RoomType  string
	Latitude  float64
	Longitude float64
	Images    []ImageUpload
}

func validateEnums(parking, water, floor, roomType string) error {
	if !entity.ValidAmenity(parking) || !entity.ValidAmenity(water) {
		return apperr.ErrValidation
	}
	if !entity.ValidFloor(floor) {
		return apperr.ErrValidation
	}
	if !entity.ValidRoomType(roomType) {
		return apperr.ErrValidation
	}
	return nil
}

// AssignSlug computes a unique slug for the address. It probes existing
// listings starting from the bare slugified address and appends -1, -2,
// ... until the slot is free or already owned by listingID (an update
// keeping its own slug). The loop is bounded; when exhausted a random
// fragment is appended.
func (s *ListingService) AssignSlug(address, listingID string) (string, error) {
	base := slug.Make(address)
	for i := 0; i < maxSlugProbes; i++ {
		candidate := slug.WithSuffix(base, i)
		existing, err := s.Listings.GetBySlug(candidate)
		if errors.Is(err, apperr.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperr.Upstream("probe slug", err)
		}
		if existing.ID == listingID {
			return candidate, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func (s *ListingService) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, apperr.ErrValidation
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, apperr.Upstream("object store", errors.New("gcs not configured"))
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		ext := strings.ToLower(filepath.Ext(img.Filename))
		if !supportedImageTypes[ext] {
			return nil, apperr.ErrValidation
		}
		objectPath := filepath.ToSlash(filepath.Join("rooms", uuid.NewString()+ext))
		url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
		if err != nil {
			return nil, apperr.Upstream("upload image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// CreateListing uploads the images, assigns the slug, and persists the
// listing. The slug is assigned before the insert so the stored record
// never lacks one; if a concurrent create wins the same slug, the
// unique index rejects the insert and the slug is probed once more.
func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*entity.Listing, error) {
	if in.OwnerID == "" || in.City == "" || in.Address == "" || in.Phone == "" || in.Rent <= 0 {
		return nil, apperr.ErrValidation
	}
	if err := validateEnums(in.Parking, in.Water, in.Floor, in.RoomType); err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	l := &entity.Listing{
		OwnerID:   in.OwnerID,
		City:      in.City,
		Address:   in.Address,
		Phone:     in.Phone,
		Rent:      in.Rent,
		Parking:   in.Parking,
		Water:     in.Water,
		Floor:     in.Floor,
		RoomType:  in.RoomType,
		Images:    urls,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}

	for attempt := 0; attempt < 2; attempt++ {
		l.Slug, err = s.AssignSlug(in.Address, "")
		if err != nil {
			return nil, err
		}
		err = s.Listings.Create(l)
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Upstream("create listing", err)
		}
	}
	if err != nil {
		return nil, apperr.Upstream("create listing", err)
	}

	s.indexListing(ctx, l)
	return l, nil
}

// GetBySlug fetches a listing for its detail page and bumps the view
// counter.
func (s *ListingService) GetBySlug(ctx context.Context, slugStr string) (*entity.Listing, error) {
	l, err := s.Listings.GetBySlug(slugStr)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Upstream("get listing", err)
	}
	n, err := s.Listings.IncrementViewCount(l.ID)
	if err == nil {
		l.ViewCount = n
	}
	return l, nil
}

func (s *ListingService) ListVerified() ([]*entity.Listing, error) {
	out, err := s.Listings.ListVerified()
	if err != nil {
		return nil, apperr.Upstream("list listings", err)
	}
	return out, nil
}

func (s *ListingService) ListAll() ([]*entity.Listing, error) {
	out, err := s.Listings.ListAll()
	if err != nil {
		return nil, apperr.Upstream("list listings", err)
	}
	return out, nil
}

func (s *ListingService) ListByOwner(ownerID string) ([]*entity.Listing, error) {
	out, err := s.Listings.ListByOwner(ownerID)
	if err != nil {
		return nil, apperr.Upstream("list listings", err)
	}
	return out, nil
}

// Related returns up to five other listings sharing the exact address.
func (s *ListingService) Related(slug string) ([]*entity.Listing, error) {
	l, err := s.Listings.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Upstream("get listing", err)
	}
	out, err := s.Listings.ListByAddress(l.Address, l.ID, 5)
	if err != nil {
		return nil, apperr.Upstream("list related", err)
	}
	return out, nil
}

// UpdateListingInput carries updatable fields; nil means unchanged.
type UpdateListingInput struct {
	Address  *string
	Phone    *string
	Rent     *int64
	Parking  *string
	Water    *string
	Floor    *string
	RoomType *string
	Verified *bool // honored only for admin updates
}

// UpdateListing applies an owner or admin update. When the address
// changes the slug is recomputed (keeping the old slug when the new
// address slugifies to it). Non-admin callers may only touch their own
// listings and cannot flip the verified flag.
func (s *ListingService) UpdateListing(ctx context.Context, id, callerID string, isAdmin bool, in UpdateListingInput) (*entity.Listing, error) {
	l, err := s.Listings.GetByID(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Upstream("get listing", err)
	}
	if !isAdmin && l.OwnerID != callerID {
		return nil, apperr.ErrAuth
	}

	parking, water, floor, roomType := l.Parking, l.Water, l.Floor, l.RoomType
	if in.Parking != nil {
		parking = *in.Parking
	}
	if in.Water != nil {
		water = *in.Water
	}
	if in.Floor != nil {
		floor = *in.Floor
	}
	if in.RoomType != nil {
		roomType = *in.RoomType
	}
	if err := validateEnums(parking, water, floor, roomType); err != nil {
		return nil, err
	}

	upd := repo.ListingUpdate{
		Address:  in.Address,
		Phone:    in.Phone,
		Rent:     in.Rent,
		Parking:  in.Parking,
		Water:    in.Water,
		Floor:    in.Floor,
		RoomType: in.RoomType,
	}
	if isAdmin {
		upd.Verified = in.Verified
	}
	if in.Address != nil && *in.Address != l.Address {
		newSlug, err := s.AssignSlug(*in.Address, id)
		if err != nil {
			return nil, err
		}
		upd.Slug = &newSlug
	}

	updated, err := s.Listings.Update(id, upd)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Upstream("update listing", err)
	}

	s.indexListing(ctx, updated)
	return updated, nil
}

// DeleteListing removes a listing (admin action).
func (s *ListingService) DeleteListing(ctx context.Context, id string) error {
	if err := s.Listings.Delete(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return apperr.Upstream("delete listing", err)
	}
	s.removeFromIndex(ctx, id)
	return nil
}

// ListingCount returns the total number of listings.
func (s *ListingService) ListingCount() (int64, error) {
	n, err := s.Listings.Count()
	if err != nil {
		return 0, apperr.Upstream("count listings", err)
	}
	return n, nil
}

// SearchByAddress performs a case-insensitive substring search. With
// Elasticsearch configured it queries the listings index and resolves
// hits through the repository; otherwise (or when ES fails) it falls
// back to an ILIKE query.
func (s *ListingService) SearchByAddress(ctx context.Context, q string) ([]*entity.Listing, error) {
	if q == "" {
		return nil, apperr.ErrValidation
	}
	if s.ES != nil && s.ESListingsIndex != "" {
		if out, err := s.searchES(ctx, q); err == nil {
			return out, nil
		} else {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		}
	}
	out, err := s.Listings.SearchByAddress(q)
	if err != nil {
		return nil, apperr.Upstream("search listings", err)
	}
	return out, nil
}

func (s *ListingService) searchES(ctx context.Context, q string) ([]*entity.Listing, error) {
	query := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"address": map[string]any{
					"value":            "*" + strings.ToLower(q) + "*",
					"case_insensitive": true,
				},
			},
		},
		"size": 50,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESListingsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Listing, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		l, err := s.Listings.GetByID(h.ID)
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *ListingService) indexListing(ctx context.Context, l *entity.Listing) {
	if s.ES == nil || s.ESListingsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         l.ID,
		"address":    l.Address,
		"city":       l.City,
		"rent":       l.Rent,
		"room_type":  l.RoomType,
		"slug":       l.Slug,
		"verified":   l.Verified,
		"created_at": l.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESListingsIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("listing_id", l.ID).Warn("es index response error")
	}
}

func (s *ListingService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESListingsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESListingsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("listing_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
