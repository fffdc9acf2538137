package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/handler"
	"github.com/iliyamo/camp-registration/internal/middleware"
)

// Handlers bundles the constructed handlers the router wires up.
type Handlers struct {
	Ingest       *handler.IngestHandler
	Reminder     *handler.ReminderHandler
	Registration *handler.RegistrationHandler
	Camps        *handler.CampHandler
}

// Register wires all application routes onto the provided Echo instance.
//
//	GET  /healthz                     – liveness probe, no auth
//	POST /v1/ingest                   – email webhook, rate limited
//	POST /v1/reminders/run            – scheduler sweep, job-token auth
//	GET  /v1/registrations/:token     – guardian registration lookup
//	POST /v1/registrations/:token     – guardian registration submit
//	GET  /v1/camps                    – public camp listing, response cached
//
// rdb may be nil, in which case rate limiting and response caching are
// disabled and the routes run bare.
func Register(e *echo.Echo, h Handlers, jobSecret string, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// The ingestion webhook sits behind the token bucket: forwarding
	// services retry failed deliveries aggressively and must be slowed
	// down, not dropped (a 429 with Retry-After makes them back off).
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/v1/ingest", h.Ingest.Ingest, rl)

	// The reminder sweep is invoked by an external cron system holding a
	// signed job token.
	e.POST("/v1/reminders/run", h.Reminder.Run, middleware.JobAuth(jobSecret))

	// Guardian-facing registration routes.  The token in the path is the
	// capability; no other authentication applies.
	e.GET("/v1/registrations/:token", h.Registration.Lookup)
	e.POST("/v1/registrations/:token", h.Registration.Submit)

	// Public camp listing used by the registration pages.  Cheap to cache:
	// camps change rarely and the handler output is identical for everyone.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/camps", h.Camps.ListActive, cache)
}
