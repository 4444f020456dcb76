package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"puckpool-backend/auth"
	"puckpool-backend/controllers"
	"puckpool-backend/feeds"
	"puckpool-backend/routes"
	"puckpool-backend/state"
	"puckpool-backend/token"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load env vars from .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, continuing with system environment variables")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	store, err := state.New(dataDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("state store init failed")
	}
	seedSources(store, log)

	key := token.DefaultPublicKey()
	if jwk := os.Getenv("POOL_PUBLIC_KEY"); jwk != "" {
		key, err = token.ParsePublicJWK(jwk)
		if err != nil {
			log.Fatal().Err(err).Msg("POOL_PUBLIC_KEY is not a valid P-256 JWK")
		}
	}

	clock := clockwork.NewRealClock()
	verifier := token.NewVerifier(key, clock, os.Getenv("PUBLIC_ORIGIN"), os.Getenv("BASE_PATH"))
	sessions := auth.NewSessionStore(store)
	reconciler := feeds.NewReconciler(store, feeds.NewHTTPFetcher(), clock, log)

	interval := feeds.DefaultRefreshInterval
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Fatal().Str("value", raw).Msg("REFRESH_INTERVAL must be a positive duration")
		}
		interval = d
	}
	go reconciler.Run(context.Background(), interval)

	api := &controllers.API{
		Store:      store,
		Sessions:   sessions,
		Verifier:   verifier,
		Reconciler: reconciler,
		Clock:      clock,
		Log:        log,
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Setup routes
	routes.Register(app, api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Info().Str("port", port).Msg("server running")
	log.Fatal().Err(app.Listen(":" + port)).Msg("server stopped")
}

// seedSources merges the feed URL env vars into the saved source config,
// one URL at a time: each set var overwrites that one URL, unset vars
// leave whatever the manager saved.
func seedSources(store *state.Store, log zerolog.Logger) {
	src := store.Sources()
	if !src.Merge(state.RemoteSources{
		PlayersURL: os.Getenv("PLAYERS_URL"),
		PoolersURL: os.Getenv("POOLERS_URL"),
		RostersURL: os.Getenv("ROSTERS_URL"),
		StatsURL:   os.Getenv("STATS_URL"),
	}) {
		return
	}
	if err := store.SaveSources(src); err != nil {
		log.Warn().Err(err).Msg("failed to save feed source config")
	}
}
