package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hamrorooms/rooms-api/internal/application"
	"github.com/hamrorooms/rooms-api/internal/interface/middleware"
	"github.com/hamrorooms/rooms-api/pkg/response"
	"github.com/hamrorooms/rooms-api/pkg/validation"
)

type ListingHandler struct {
	Svc    *application.ListingService
	Logger *logrus.Logger
}

func NewListingHandler(svc *application.ListingService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

type createListingForm struct {
	City      string  `form:"city" binding:"required"`
	Address   string  `form:"address" binding:"required"`
	Phone     string  `form:"phone" binding:"required"`
	Rent      int64   `form:"rent" binding:"required"`
	Parking   string  `form:"parking" binding:"required,oneof=yes no"`
	Water     string  `form:"water" binding:"required,oneof=yes no"`
	Floor     string  `form:"floor" binding:"required,oneof=1st 2nd 3rd 4th 5th"`
	RoomType  string  `form:"roomType" binding:"required"`
	Latitude  float64 `form:"latitude" binding:"required,latitude"`
	Longitude float64 `form:"longitude" binding:"required,longitude"`
}

type updateListingRequest struct {
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Rent     *int64  `json:"rent"`
	Parking  *string `json:"parking"`
	Water    *string `json:"water"`
	Floor    *string `json:"floor"`
	RoomType *string `json:"roomType"`
	Verified *bool   `json:"verified"` // honored on the admin route only
}

// Create POST /api/rooms (multipart: fields + images)
func (h *ListingHandler) Create(c *gin.Context) {
	var form createListingForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	mf, err := c.MultipartForm()
	if err != nil || len(mf.File["images"]) == 0 {
		response.Error[any](c, http.StatusBadRequest, "no files uploaded", nil)
		return
	}

	var images []application.ImageUpload
	var closers []func() error
	defer func() {
		for _, cl := range closers {
			_ = cl()
		}
	}()
	for _, fh := range mf.File["images"] {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "failed to read upload", nil)
			return
		}
		closers = append(closers, f.Close)
		images = append(images, application.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Reader:      f,
		})
	}

	l, err := h.Svc.CreateListing(c.Request.Context(), application.CreateListingInput{
		OwnerID:   c.GetString(middleware.CtxUserIDKey),
		City:      form.City,
		Address:   form.Address,
		Phone:     form.Phone,
		Rent:      form.Rent,
		Parking:   form.Parking,
		Water:     form.Water,
		Floor:     form.Floor,
		RoomType:  form.RoomType,
		Latitude:  form.Latitude,
		Longitude: form.Longitude,
		Images:    images,
	})
	if err != nil {
		h.Logger.WithError(err).Warn("create listing failed")
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "thanks for posting your room", nil)
}

// ListVerified GET /api/rooms
func (h *ListingHandler) ListVerified(c *gin.Context) {
	listings, err := h.Svc.ListVerified()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listings, "all room details fetched", nil)
}

// GetBySlug GET /api/rooms/:slug — increments the view counter.
func (h *ListingHandler) GetBySlug(c *gin.Context) {
	l, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "single room fetched", nil)
}

// Mine GET /api/rooms/mine — the caller's own listings.
func (h *ListingHandler) Mine(c *gin.Context) {
	listings, err := h.Svc.ListByOwner(c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listings, "user rooms fetched", nil)
}

// Search GET /api/rooms/search?address=
func (h *ListingHandler) Search(c *gin.Context) {
	results, err := h.Svc.SearchByAddress(c.Request.Context(), c.Query("address"))
	if err != nil {
		fail(c, err)
		return
	}
	if len(results) == 0 {
		response.Error[any](c, http.StatusNotFound, "no matching rooms found", nil)
		return
	}
	response.Success(c, http.StatusOK, results, "rooms found successfully", nil)
}

// Related GET /api/rooms/:slug/related
func (h *ListingHandler) Related(c *gin.Context) {
	listings, err := h.Svc.Related(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listings, "related rooms", nil)
}

// Update PUT /api/rooms/:id (owner)
func (h *ListingHandler) Update(c *gin.Context) {
	h.update(c, false)
}

// AdminUpdate PUT /api/admin/rooms/:id — may toggle the verified flag.
func (h *ListingHandler) AdminUpdate(c *gin.Context) {
	h.update(c, true)
}

func (h *ListingHandler) update(c *gin.Context, isAdmin bool) {
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.UpdateListing(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey), isAdmin, application.UpdateListingInput{
		Address:  req.Address,
		Phone:    req.Phone,
		Rent:     req.Rent,
		Parking:  req.Parking,
		Water:    req.Water,
		Floor:    req.Floor,
		RoomType: req.RoomType,
		Verified: req.Verified,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "room details updated successfully", nil)
}

// AdminList GET /api/admin/rooms
func (h *ListingHandler) AdminList(c *gin.Context) {
	listings, err := h.Svc.ListAll()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listings, "all room details fetched", nil)
}

// AdminDelete DELETE /api/admin/rooms/:id
func (h *ListingHandler) AdminDelete(c *gin.Context) {
	if err := h.Svc.DeleteListing(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "room deleted successfully", nil)
}

// AdminCount GET /api/admin/rooms/count
func (h *ListingHandler) AdminCount(c *gin.Context) {
	n, err := h.Svc.ListingCount()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n}, "room count", nil)
}
