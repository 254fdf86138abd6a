package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"acquire-server/internal/boardgame"
	"acquire-server/internal/config"
	httpHandler "acquire-server/internal/delivery/http"
	"acquire-server/internal/delivery/websocket"
	"acquire-server/internal/lobby"
	"acquire-server/internal/logger"
	"acquire-server/internal/router"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(&cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lobbies := lobby.NewManager(cfg, nil)
	rt := router.New(lobbies)

	lobbyHub := websocket.NewHub(websocket.NewLobbyBroadcaster(lobbies), "lobby")
	gameBroadcaster := websocket.NewGameBroadcaster(lobbies)
	gameHub := websocket.NewHub(gameBroadcaster, "game")
	voiceHub := websocket.NewHub(websocket.NewVoiceSignaling(), "voice")

	go lobbies.Run(ctx)
	go lobbyHub.Run(ctx)
	go gameHub.Run(ctx)
	go voiceHub.Run(ctx)

	newShuffle := func() boardgame.ShuffleFunc { return boardgame.NewRandomShuffle(time.Now().UnixNano()) }

	engine := httpHandler.SetupRouter(lobbies, rt, newShuffle, cfg.GameRateLimitPerSecond, httpHandler.Realtime{
		Lobby:          websocket.Handler(lobbyHub),
		Game:           websocket.Handler(gameHub),
		Voice:          websocket.Handler(voiceHub),
		PushGameStatus: func(lobbyID string) { gameBroadcaster.PushStatus(gameHub, lobbyID) },
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		log.Info("acquire server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
