package arena

import (
	"sort"
	"time"
)

// RoomStore is the registry of live rooms plus the connection -> room index.
// It is owned by a single Engine and only touched from the reactor goroutine.
type RoomStore struct {
	rooms    map[string]*Room
	connRoom map[string]string
	newCode  CodeGenerator
}

func NewRoomStore(gen CodeGenerator) *RoomStore {
	if gen == nil {
		gen = newRoomCode
	}
	return &RoomStore{
		rooms:    make(map[string]*Room),
		connRoom: make(map[string]string),
		newCode:  gen,
	}
}

// Create registers a lobby room with hostConn as its only player in lane 0.
func (s *RoomStore) Create(hostConn string, info PlayerInfo, mode string, maxPlayers int, now time.Time) *Room {
	code := s.uniqueCode()
	room := &Room{
		Code:       code,
		Mode:       mode,
		HostConnID: hostConn,
		State:      stateLobby,
		MaxPlayers: maxPlayers,
		Players:    make(map[string]*Player),
		ReadyIDs:   make(map[string]struct{}),
	}
	room.Players[hostConn] = &Player{
		ConnID:      hostConn,
		DisplayName: info.DisplayName,
		AvatarRef:   info.AvatarRef,
		Lane:        0,
		JoinedAt:    now,
	}
	s.rooms[code] = room
	s.connRoom[hostConn] = code
	return room
}

func (s *RoomStore) uniqueCode() string {
	for {
		code := normalizeCode(s.newCode())
		if code == "" {
			continue
		}
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}

func (s *RoomStore) Find(code string) (*Room, bool) {
	room, ok := s.rooms[normalizeCode(code)]
	return room, ok
}

// RoomOf returns the room a connection currently belongs to.
func (s *RoomStore) RoomOf(connID string) (*Room, bool) {
	code, ok := s.connRoom[connID]
	if !ok {
		return nil, false
	}
	return s.Find(code)
}

func (s *RoomStore) bind(connID, code string) {
	s.connRoom[connID] = code
}

func (s *RoomStore) unbind(connID string) {
	delete(s.connRoom, connID)
}

// Delete removes a room and cancels everything it has scheduled.
func (s *RoomStore) Delete(code string) {
	code = normalizeCode(code)
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	room.tasks.cancelAll()
	for connID := range room.Players {
		if s.connRoom[connID] == code {
			delete(s.connRoom, connID)
		}
	}
	delete(s.rooms, code)
}

// live reports whether room is still the registered instance for its code.
func (s *RoomStore) live(room *Room) bool {
	current, ok := s.rooms[room.Code]
	return ok && current == room
}

func (s *RoomStore) Len() int {
	return len(s.rooms)
}

func (s *RoomStore) Summaries() []RoomSummary {
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, room.summary())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}
