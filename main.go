// main.go
//
// Entry point for the Mosaic game server.
// Startup order: .env -> log level -> SQLite open + migrations ->
// game store (optionally fronted by Redis) -> HTTP server. The DB and
// Redis handles are owned here: opened once, closed when run returns.

package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
	"github.com/calderwb/mosaic/apps/go-server/internal/httpserver"
	"github.com/calderwb/mosaic/apps/go-server/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/mosaic.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		return err
	}

	var games store.Store = store.NewSQLStore(db)

	// Optional Redis cache in front of the SQL store. Startup does not
	// depend on Redis being reachable.
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		defer rdb.Close()
		games = store.NewCachedStore(games, rdb, 30*time.Minute)
		log.Info().Str("addr", addr).Msg("game store cache enabled")
	}

	engine := game.New(nil)
	srv := httpserver.New(engine, games, db)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting mosaic-go")
	return srv.Start(":" + port)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
