package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventRoster Event = "roster"
	EventJoined Event = "joined"
	EventLeft   Event = "left"
	EventPong   Event = "pong"
)

// RosterEvent carries the full participant list, sent once on connect.
type RosterEvent struct {
	Event        Event    `json:"event"`
	Participants []string `json:"participants"`
}

// PresenceEvent announces a single participant joining or leaving.
type PresenceEvent struct {
	Event  Event  `json:"event"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
