package router

import (
	"github.com/hamrorooms/rooms-api/internal/application"
	"github.com/hamrorooms/rooms-api/internal/container"
	pginfra "github.com/hamrorooms/rooms-api/internal/infrastructure/postgres"
	"github.com/hamrorooms/rooms-api/internal/infrastructure/redisstore"
	handlers "github.com/hamrorooms/rooms-api/internal/interface/http"
	"github.com/hamrorooms/rooms-api/internal/router/modules"
)

// queuePub avoids passing a typed-nil *RabbitPublisher through the interface
// when RabbitMQ is not configured.
func queuePub() application.QueuePublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

func buildAuthHandler() *handlers.AuthHandler {
	users := pginfra.NewUserRepository(container.GetPGPool())
	pending := redisstore.NewPendingStore(container.GetRedis())

	svc := application.NewAuthService(
		users,
		pending,
		container.GetSender(),
		container.GetJWT(),
		container.GetRedis(),
		queuePub(),
		container.GetLogger(),
		container.GetConfig(),
	)
	return handlers.NewAuthHandler(svc, container.GetLogger())
}

func buildListingHandler() *handlers.ListingHandler {
	listings := pginfra.NewListingRepository(container.GetPGPool())

	svc := application.NewListingService(
		listings,
		container.GetGCS(),
		container.GetConfig().GCSBucket,
		container.GetES(),
		container.GetConfig().ESListingsIndex,
		container.GetLogger(),
	)
	return handlers.NewListingHandler(svc, container.GetLogger())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	authHandler := buildAuthHandler()
	listingHandler := buildListingHandler()
	emailHandler := handlers.NewEmailHandler(queuePub(), container.GetLogger(), container.GetConfig())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewListingModule(listingHandler, container.GetJWT()))
	r.Add(modules.NewEmailModule(emailHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
