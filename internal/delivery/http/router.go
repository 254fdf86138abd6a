package http

import (
	"github.com/gin-gonic/gin"

	"acquire-server/internal/boardgame"
	"acquire-server/internal/lobby"
	httpmiddleware "acquire-server/internal/middleware/http"
	"acquire-server/internal/router"
)

// Realtime groups the three namespaced websocket upgraders spec.md
// §4.8 defines. Each is a gin.HandlerFunc so the websocket package
// stays free of any HTTP-framework dependency beyond what it already
// needs for the upgrade handshake.
type Realtime struct {
	Lobby gin.HandlerFunc
	Game  gin.HandlerFunc
	Voice gin.HandlerFunc

	// PushGameStatus fans a game's latest per-viewer snapshot out over
	// the /ws/game/:id room after an HTTP mutation succeeds. Nil when
	// realtime fan-out is not wired (e.g. in tests).
	PushGameStatus func(lobbyID string)
}

// SetupRouter builds the gin engine and registers every route from
// spec.md §6.1, replacing the teacher's gorilla/mux SetupRouter with
// gin's route groups and adding the rate-limited /game group the
// teacher's Mars API had no equivalent of.
func SetupRouter(lobbies *lobby.Manager, rt *router.Router, newShuffle func() boardgame.ShuffleFunc, rateLimitPerSecond float64, realtime Realtime) *gin.Engine {
	lobbyHandler := NewLobbyHandler(lobbies, rt)
	gameHandler := NewGameHandler(lobbies, rt, newShuffle, realtime.PushGameStatus)
	healthHandler := NewHealthHandler()

	engine := gin.New()
	engine.Use(httpmiddleware.Recovery())
	engine.Use(httpmiddleware.CORS())
	engine.Use(httpmiddleware.RequestLogging())

	engine.GET("/health", healthHandler.HealthCheck)

	engine.GET("/list", lobbyHandler.ListLobbies)
	engine.POST("/host", lobbyHandler.Host)
	engine.POST("/lobby/:id/players", lobbyHandler.JoinLobby)
	engine.GET("/lobby/:id/status", lobbyHandler.LobbyStatus)
	engine.POST("/lobby/:id/leave", lobbyHandler.LeaveLobby)

	game := engine.Group("/game")
	game.Use(httpmiddleware.RateLimit(rateLimitPerSecond))
	{
		game.POST("/:id/start", gameHandler.Start)
		game.GET("/:id/status", gameHandler.Status)
		game.GET("/:id/end-result", gameHandler.EndResult)
		game.POST("/:id/tile", gameHandler.PlaceTile)
		game.POST("/:id/establish", gameHandler.Establish)
		game.POST("/:id/buy-stocks", gameHandler.BuyStocks)
		game.POST("/:id/end-turn", gameHandler.EndTurn)
		game.POST("/:id/merger/deal", gameHandler.SubmitMergerDeal)
		game.POST("/:id/merger/end-turn", gameHandler.EndMergerTurn)
		game.POST("/:id/merger/resolve-conflict", gameHandler.ResolveConflict)
		game.POST("/:id/merger/resolve-acquirer", gameHandler.ResolveAcquirer)
		game.POST("/:id/merger/confirm-defunct", gameHandler.ConfirmDefunct)
		game.POST("/:id/end-merge", gameHandler.EndMerge)
	}

	if realtime.Lobby != nil {
		engine.GET("/ws/lobby/:id", realtime.Lobby)
	}
	if realtime.Game != nil {
		engine.GET("/ws/game/:id", realtime.Game)
	}
	if realtime.Voice != nil {
		engine.GET("/ws/voice/:id", realtime.Voice)
	}

	return engine
}
