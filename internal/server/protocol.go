package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"

	"cyberquest/internal/arena"
)

const (
	eventCreateRoom     = "create-room"
	eventJoinRoom       = "join-room"
	eventPlayerReady    = "player-ready"
	eventStartGame      = "start-game"
	eventPlayerUpdate   = "player-update"
	eventEliminated     = "player-eliminated"
	eventPlayerPaused   = "player-paused"
	eventPlayerResumed  = "player-resumed"
	eventQuizAnswer     = "quiz-answer"
	eventLeaveRoom      = "leave-room"
	invalidMessageError = "Invalid message"
)

var (
	errMalformed    = errors.New("malformed message")
	errUnknownEvent = errors.New("unknown event")
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Ack   *int            `json:"ack"`
}

type playerPayload struct {
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef" binding:"max=256"`
}

type createRoomPayload struct {
	playerPayload
	Mode string `json:"mode" binding:"omitempty,oneof=runner quiz-run"`
}

type joinRoomPayload struct {
	playerPayload
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
}

type playerUpdatePayload struct {
	Position arena.Position `json:"position"`
	Score    int            `json:"score" binding:"gte=0"`
}

type eliminatedPayload struct {
	Score int `json:"score" binding:"gte=0"`
}

type positionPayload struct {
	Position arena.Position `json:"position"`
}

type quizAnswerPayload struct {
	Correct *bool `json:"correct" binding:"required"`
}

var payloadMessages = bindMessages{
	"AvatarRef": {
		"max": "Avatar reference is too long",
	},
	"RoomCode": {
		"required": "Room code is required",
		"roomcode": "Room not found",
	},
	"Mode": {
		"oneof": "Unknown game mode",
	},
}

type ackFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// decode turns one websocket frame into an engine command. Failures are
// reported to the client here: acknowledged requests get a failed ack, the
// rest get an error-message event.
func (s *Server) decode(connID string, data []byte) (arena.Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		s.hub.Send(connID, arena.EventErrorMessage, invalidMessageError)
		return nil, errMalformed
	}
	cmd, err := s.commandFor(connID, env)
	if err != nil {
		message := resolveBindError(err, payloadMessages, invalidMessageError)
		if env.Ack != nil {
			s.hub.reply(connID, *env.Ack, ackFailure{Success: false, Error: message})
		} else {
			s.hub.Send(connID, arena.EventErrorMessage, message)
		}
		return nil, fmt.Errorf("%s: %w", env.Event, err)
	}
	return cmd, nil
}

func (s *Server) commandFor(connID string, env envelope) (arena.Command, error) {
	switch env.Event {
	case eventCreateRoom:
		var req createRoomPayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		return arena.CreateRoom{
			ConnID: connID,
			Info:   req.info(),
			Mode:   req.Mode,
			Ack:    ackFunc[arena.CreateRoomAck](s.hub, connID, env.Ack),
		}, nil
	case eventJoinRoom:
		var req joinRoomPayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		return arena.JoinRoom{
			ConnID: connID,
			Code:   req.RoomCode,
			Info:   req.info(),
			Ack:    ackFunc[arena.JoinRoomAck](s.hub, connID, env.Ack),
		}, nil
	case eventPlayerReady:
		var ready bool
		if err := json.Unmarshal(env.Data, &ready); err != nil {
			return nil, errMalformed
		}
		return arena.SetReady{ConnID: connID, Ready: ready}, nil
	case eventStartGame:
		return arena.StartGame{ConnID: connID}, nil
	case eventPlayerUpdate:
		var req playerUpdatePayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		return arena.UpdatePlayer{ConnID: connID, Position: req.Position, Score: req.Score}, nil
	case eventEliminated:
		var req eliminatedPayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		return arena.ReportElimination{ConnID: connID, Score: req.Score}, nil
	case eventPlayerPaused, eventPlayerResumed:
		var req positionPayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		if env.Event == eventPlayerPaused {
			return arena.PausePlayer{ConnID: connID, Position: req.Position}, nil
		}
		return arena.ResumePlayer{ConnID: connID, Position: req.Position}, nil
	case eventQuizAnswer:
		var req quizAnswerPayload
		if err := bindPayload(env.Data, &req); err != nil {
			return nil, err
		}
		return arena.AnswerQuiz{ConnID: connID, Correct: *req.Correct}, nil
	case eventLeaveRoom:
		return arena.LeaveRoom{ConnID: connID}, nil
	default:
		return nil, errUnknownEvent
	}
}

func (p playerPayload) info() arena.PlayerInfo {
	return arena.PlayerInfo{DisplayName: sanitizeName(p.DisplayName), AvatarRef: p.AvatarRef}
}

func bindPayload(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return errMalformed
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errMalformed
	}
	return binding.Validator.ValidateStruct(dest)
}

func ackFunc[T any](h *hub, connID string, ack *int) func(T) {
	if ack == nil {
		return nil
	}
	id := *ack
	return func(result T) {
		h.reply(connID, id, result)
	}
}
