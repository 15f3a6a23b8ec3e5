package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/middleware"
	"github.com/learnifyhq/learnify-backend/internal/service"
	ws "github.com/learnifyhq/learnify-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams meeting presence over WebSocket. Participant sets
// and the join/leave fan-out live in Redis, so presence is consistent
// across server instances.
type WSHandler struct {
	rdb            *redis.Client
	meetingService *service.MeetingService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, meetingService *service.MeetingService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:            rdb,
		meetingService: meetingService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// MeetingPresence godoc
// WS /ws/v1/meetings/:meeting_id/presence
// Upgrades to WebSocket and streams join/leave events for the meeting.
func (h *WSHandler) MeetingPresence(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meetingID, err := uuid.Parse(c.Param("meeting_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting ID"})
		return
	}

	if _, err := h.meetingService.Get(c.Request.Context(), meetingID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("user_id", claims.UserID).
		Str("meeting_id", meetingID.String()).
		Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setKey := config.CacheKey.MeetingPresenceKey(meetingID.String())
	channel := config.CacheKey.MeetingPresenceChannel(meetingID.String())

	if err := h.join(ctx, setKey, channel, claims); err != nil {
		wsLog.Error().Err(err).Msg("Presence join failed")
		conn.WriteError("presence unavailable")
		return
	}
	defer h.leave(setKey, channel, claims)

	if err := h.sendRoster(ctx, conn, setKey); err != nil {
		wsLog.Error().Err(err).Msg("Roster send failed")
		return
	}

	wsLog.Info().Msg("Participant connected")

	// Fan-out: forward join/leave events published by any instance.
	sub := h.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	go func() {
		for msg := range sub.Channel() {
			var event ws.PresenceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if err := conn.WriteTyped(event); err != nil {
				cancel()
				return
			}
		}
	}()

	// Read loop: the client only sends pings; anything else is rejected.
	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

func (h *WSHandler) join(ctx context.Context, setKey, channel string, claims *service.Claims) error {
	if err := h.rdb.SAdd(ctx, setKey, claims.UserID).Err(); err != nil {
		return err
	}
	return h.publish(ctx, channel, ws.EventJoined, claims)
}

// leave uses a fresh context: the request context is already cancelled
// when the deferred call runs.
func (h *WSHandler) leave(setKey, channel string, claims *service.Claims) {
	ctx := context.Background()
	if err := h.rdb.SRem(ctx, setKey, claims.UserID).Err(); err != nil {
		h.log.Warn().Err(err).Msg("Presence leave failed")
	}
	if err := h.publish(ctx, channel, ws.EventLeft, claims); err != nil {
		h.log.Warn().Err(err).Msg("Leave publish failed")
	}
}

func (h *WSHandler) publish(ctx context.Context, channel string, event ws.Event, claims *service.Claims) error {
	payload, err := json.Marshal(ws.PresenceEvent{
		Event:  event,
		UserID: claims.UserID,
		Name:   claims.Name,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, channel, payload).Err()
}

func (h *WSHandler) sendRoster(ctx context.Context, conn *ws.Conn, setKey string) error {
	participants, err := h.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	return conn.WriteTyped(ws.RosterEvent{
		Event:        ws.EventRoster,
		Participants: participants,
	})
}
