package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamrorooms/rooms-api/internal/container"
	handlers "github.com/hamrorooms/rooms-api/internal/interface/http"
	"github.com/hamrorooms/rooms-api/internal/interface/middleware"
	"github.com/hamrorooms/rooms-api/pkg/helpers"
)

// ListingModule wires the room listing routes.
// Public: GET /api/rooms, /rooms/:slug, /rooms/:slug/related, /rooms/search
// Protected: POST /api/rooms, GET /api/rooms/mine, PUT /api/rooms/:id
// Admin: GET/PUT/DELETE under /api/admin/rooms

type ListingModule struct {
	Handler *handlers.ListingHandler
	JWT     *helpers.JWTManager
}

func NewListingModule(h *handlers.ListingHandler, jwt *helpers.JWTManager) *ListingModule {
	return &ListingModule{Handler: h, JWT: jwt}
}

func (m *ListingModule) Register(rg *gin.RouterGroup) {
	// Public browsing, per-IP limited
	browseLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/rooms", browseLimiter, m.Handler.ListVerified)
	rg.GET("/rooms/search", searchLimiter, m.Handler.Search)
	rg.GET("/rooms/:slug", browseLimiter, m.Handler.GetBySlug)
	rg.GET("/rooms/:slug/related", browseLimiter, m.Handler.Related)

	// Protected owner routes
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/rooms", m.Handler.Create)
		auth.GET("/rooms/mine", m.Handler.Mine)
		auth.PUT("/rooms/:id", m.Handler.Update)
	}

	// Admin moderation
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/rooms", m.Handler.AdminList)
		admin.GET("/rooms/count", m.Handler.AdminCount)
		admin.PUT("/rooms/:id", m.Handler.AdminUpdate)
		admin.DELETE("/rooms/:id", m.Handler.AdminDelete)
	}
}
