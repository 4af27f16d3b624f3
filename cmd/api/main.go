package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"adscope/internal/cache"
	"adscope/internal/config"
	"adscope/internal/events"
	"adscope/internal/middleware"
	"adscope/internal/modules/favorites"
	"adscope/internal/modules/timeline"
	"adscope/internal/pkg/imageurl"
	jwtsvc "adscope/internal/pkg/jwt"
	"adscope/internal/upstream"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, cfg.UpstreamTimeout)

	// One cache per session process, empty at start. The stores are its
	// only writers; Clear() is the sign-out teardown.
	entityCache := cache.New()
	hub := events.NewHub()
	defer hub.Close()

	favoritesStore := favorites.NewStore(api, entityCache, hub)
	timelineStore := timeline.NewStore(api, entityCache, hub)

	resolver := imageurl.NewResolver(cfg.AssetBaseURL)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	favoritesHandler := favorites.NewHandler(favoritesStore)
	timelineHandler := timeline.NewHandler(timelineStore, resolver, cfg.SnapshotLimit, cfg.SnapshotMax)
	wsHandler := events.NewWSHandler(hub, j)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// change feed authenticates via query token inside the handler
		v1.GET("/events", wsHandler.HandleWebSocket)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			favoritesHandler.RegisterRoutes(protected)
			timelineHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
