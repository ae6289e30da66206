package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cyberquest/internal/web"
)

const (
	homeMatchLimit     = 10
	homeStandingsLimit = 10
)

func (s *Server) handleHome(c *gin.Context) {
	ctx := c.Request.Context()
	rooms, err := s.roomSummaries(ctx)
	if err != nil {
		c.String(http.StatusServiceUnavailable, "arena unavailable")
		return
	}
	data := web.HomeData{Rooms: make([]web.RoomRow, 0, len(rooms))}
	for _, room := range rooms {
		data.Rooms = append(data.Rooms, web.RoomRow{
			Code:       room.Code,
			Mode:       room.Mode,
			State:      room.State,
			Players:    room.Players,
			MaxPlayers: room.MaxPlayers,
		})
	}
	if s.matches != nil {
		if matches, err := s.matches.Recent(ctx, homeMatchLimit); err == nil {
			data.HasHistory = true
			for _, match := range matches {
				row := web.MatchRow{
					RoomCode:   match.RoomCode,
					Mode:       match.Mode,
					Players:    len(match.Results),
					FinishedAt: match.FinishedAt,
				}
				if len(match.Results) > 0 {
					row.Winner = match.Results[0].DisplayName
				}
				data.Matches = append(data.Matches, row)
			}
		} else {
			log.Warn().Err(err).Msg("home: match history unavailable")
		}
	}
	if s.leaderboard != nil {
		if standings, err := s.leaderboard.Top(ctx, homeStandingsLimit); err == nil {
			data.HasStandings = true
			for _, standing := range standings {
				data.Standings = append(data.Standings, web.StandingRow{Name: standing.Name, Score: standing.Score})
			}
		} else {
			log.Warn().Err(err).Msg("home: leaderboard unavailable")
		}
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := web.Home(data).Render(ctx, c.Writer); err != nil {
		log.Error().Err(err).Msg("render home")
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	cl := newClient(uuid.NewString(), conn, s.cfg.MessagesPerSecond, s.cfg.MessageBurst)
	s.hub.add(cl)
	log.Info().Str("conn", cl.id).Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	go s.writePump(cl)
	go s.readPump(cl)
}
