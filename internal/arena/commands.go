package arena

// Command is the closed set of client intents the engine understands.
// Every variant is handled by exactly one Engine method; see Engine.Handle.
type Command interface {
	connection() string
}

type CreateRoom struct {
	ConnID string
	Info   PlayerInfo
	Mode   string
	Ack    func(CreateRoomAck)
}

type CreateRoomAck struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode,omitempty"`
	Error    string `json:"error,omitempty"`
}

type JoinRoom struct {
	ConnID string
	Code   string
	Info   PlayerInfo
	Ack    func(JoinRoomAck)
}

type JoinRoomAck struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode,omitempty"`
	Lane     int    `json:"lane"`
	Error    string `json:"error,omitempty"`
}

type SetReady struct {
	ConnID string
	Ready  bool
}

type StartGame struct {
	ConnID string
}

type UpdatePlayer struct {
	ConnID   string
	Position Position
	Score    int
}

type ReportElimination struct {
	ConnID string
	Score  int
}

type PausePlayer struct {
	ConnID   string
	Position Position
}

type ResumePlayer struct {
	ConnID   string
	Position Position
}

type AnswerQuiz struct {
	ConnID  string
	Correct bool
}

type LeaveRoom struct {
	ConnID string
}

// Disconnect is raised by the transport when a connection goes away.
type Disconnect struct {
	ConnID string
}

func (c CreateRoom) connection() string        { return c.ConnID }
func (c JoinRoom) connection() string          { return c.ConnID }
func (c SetReady) connection() string          { return c.ConnID }
func (c StartGame) connection() string         { return c.ConnID }
func (c UpdatePlayer) connection() string      { return c.ConnID }
func (c ReportElimination) connection() string { return c.ConnID }
func (c PausePlayer) connection() string       { return c.ConnID }
func (c ResumePlayer) connection() string      { return c.ConnID }
func (c AnswerQuiz) connection() string        { return c.ConnID }
func (c LeaveRoom) connection() string         { return c.ConnID }
func (c Disconnect) connection() string        { return c.ConnID }
