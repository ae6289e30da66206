package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cyberquest/internal/arena"
)

const loopTimeout = 2 * time.Second

type roomURI struct {
	Code string `uri:"code" binding:"required,alphanum,max=12"`
}

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRooms(c *gin.Context) {
	rooms, err := s.roomSummaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "arena unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (s *Server) handleGetRoom(c *gin.Context) {
	var req roomURI
	if !bindURI(c, &req) {
		return
	}
	var (
		summary arena.RoomSummary
		found   bool
	)
	err := s.onLoop(c.Request.Context(), func() {
		summary, found = s.engine.Summary(req.Code)
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "arena unavailable"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": arena.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleListMatches(c *gin.Context) {
	if s.matches == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match history disabled"})
		return
	}
	var req limitQuery
	if !bindQuery(c, &req) {
		return
	}
	matches, err := s.matches.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load matches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	if s.leaderboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard disabled"})
		return
	}
	var req limitQuery
	if !bindQuery(c, &req) {
		return
	}
	standings, err := s.leaderboard.Top(c.Request.Context(), req.Limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}

func (s *Server) roomSummaries(ctx context.Context) ([]arena.RoomSummary, error) {
	var rooms []arena.RoomSummary
	err := s.onLoop(ctx, func() {
		rooms = s.engine.Summaries()
	})
	return rooms, err
}

// onLoop runs a read against engine state on the reactor goroutine.
func (s *Server) onLoop(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, loopTimeout)
	defer cancel()
	return s.loop.Do(ctx, fn)
}
