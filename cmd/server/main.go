// Command server runs the two-team word guessing game over websockets.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordduel-backend/internal/config"
	"github.com/DoyleJ11/wordduel-backend/internal/engine"
	"github.com/DoyleJ11/wordduel-backend/internal/httpapi"
	"github.com/DoyleJ11/wordduel-backend/internal/hub"
	"github.com/DoyleJ11/wordduel-backend/internal/lobby"
	"github.com/DoyleJ11/wordduel-backend/internal/observability"
	"github.com/DoyleJ11/wordduel-backend/internal/server"
	"github.com/DoyleJ11/wordduel-backend/internal/words"
	"github.com/DoyleJ11/wordduel-backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	// .env is optional; real environment wins over it.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	pool, err := words.Load(cfg.Game.WordsFile, cfg.Game.MinWordLength, words.NewCryptoSource())
	if err != nil {
		logger.Fatal("loading word list", zap.Error(err))
	}
	logger.Info("word list loaded", zap.Int("words", pool.Len()))

	rules := engine.Rules{
		TurnTimeout:        cfg.Game.TurnTimeout,
		RestartDelay:       cfg.Game.RestartDelay,
		InvalidGuessPolicy: engine.InvalidGuessPolicy(cfg.Game.InvalidGuessPolicy),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx, logger.Named("hub"))
	lb := lobby.NewLobby(ctx, engine.NewState(pool.Pick(), rules), h, pool, logger.Named("lobby"))

	// Build the router *with* the game injected
	handler := httpapi.SetupRoutes(lb, h, ws.Options{OriginPatterns: cfg.Server.AllowedOrigins}, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("hub", server.Actor(h))
	lc.Add("lobby", server.Actor(lb))
	lc.Add("http", server.NewHTTPService(cfg.Server.Addr(), handler, cfg.Server.ShutdownTimeout, logger.Named("http")))

	if err := lc.Run(ctx); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
