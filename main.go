package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/gen"
	"github.com/periopal/arcade-server/internal/httpserver"
	"github.com/periopal/arcade-server/internal/timers"
	"github.com/periopal/arcade-server/internal/wallet"
	"github.com/periopal/arcade-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	db, err := openDB(getEnv("DATABASE_PATH", "./data/arcade.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var g gen.Generator = gen.Disabled()
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gg, err := gen.NewGemini(context.Background(), key)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init generator")
		}
		defer gg.Close()
		g = gg
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, running with curated fallbacks")
	}

	srv := httpserver.New(db, wallet.NewSQLStore(db), g, timers.Wall())
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting arcade-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
