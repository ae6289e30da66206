package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cyberquest/internal/arena"
	"cyberquest/internal/config"
	"cyberquest/internal/db"
	"cyberquest/internal/results"
)

// MatchLister reads finished-match history.
type MatchLister interface {
	Recent(ctx context.Context, limit int) ([]db.Match, error)
}

// StandingsReader reads the cumulative leaderboard.
type StandingsReader interface {
	Top(ctx context.Context, n int) ([]results.Standing, error)
}

// Deps are the optional collaborators of a Server. Nil fields disable the
// routes that need them.
type Deps struct {
	Recorder      arena.Recorder
	Matches       MatchLister
	Leaderboard   StandingsReader
	EngineOptions []arena.Option
}

type Server struct {
	cfg         config.Config
	loop        *arena.Loop
	engine      *arena.Engine
	hub         *hub
	matches     MatchLister
	leaderboard StandingsReader
	upgrader    websocket.Upgrader
}

// New builds the engine on top of loop. The caller must run the loop.
func New(cfg config.Config, loop *arena.Loop, deps Deps) *Server {
	registerValidators()
	s := &Server{
		cfg:         cfg,
		loop:        loop,
		hub:         newHub(),
		matches:     deps.Matches,
		leaderboard: deps.Leaderboard,
	}
	opts := slices.Clone(deps.EngineOptions)
	if deps.Recorder != nil {
		opts = append(opts, arena.WithRecorder(deps.Recorder))
	}
	s.engine = arena.NewEngine(cfg.ArenaSettings(), s.hub, loop, opts...)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealth)
	router.GET("/ws", s.handleWebsocket)

	api := router.Group("/api")
	{
		api.GET("/rooms", s.handleListRooms)
		api.GET("/rooms/:code", s.handleGetRoom)
		api.GET("/matches", s.handleListMatches)
		api.GET("/leaderboard", s.handleLeaderboard)
	}
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Origin"},
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	return cfg
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.cfg.AllowedOrigins, origin)
}
