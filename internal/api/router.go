package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"teamjob-backend/config"
	"teamjob-backend/internal/auth"
	"teamjob-backend/internal/mw"
	"teamjob-backend/internal/schedule"
	"teamjob-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, tokens *auth.TokenIssuer, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	engine := schedule.NewEngine(s, s, s)
	views := schedule.NewViewBuilder(engine)
	handler := NewHandler(s, views, tokens, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authRequired := mw.RequireAuth(tokens)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.PostRegister)
		api.POST("/auth/login", handler.PostLogin)

		api.GET("/calendar/week", caching, handler.GetWeekCalendar)
		api.GET("/calendar/day", caching, handler.GetDayCalendar)
		api.GET("/calendar/available", handler.GetFindAvailable)

		api.GET("/rooms", caching, handler.GetRooms)
		api.GET("/users", handler.GetUsers)
		api.GET("/events", handler.GetEvents)

		authed := api.Group("")
		authed.Use(authRequired)
		{
			authed.POST("/rooms", handler.PostRoom)
			authed.PUT("/rooms/:id", handler.PutRoom)
			authed.DELETE("/rooms/:id", handler.DeleteRoom)

			authed.PUT("/users/:id", handler.PutUser)
			authed.DELETE("/users/:id", handler.DeleteUser)

			authed.POST("/events", handler.PostEvent)
			authed.PUT("/events/:id", handler.PutEvent)
			authed.DELETE("/events/:id", handler.DeleteEvent)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
