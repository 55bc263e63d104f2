package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/wordduel-backend/internal/engine"
	"github.com/DoyleJ11/wordduel-backend/internal/hub"
	"github.com/DoyleJ11/wordduel-backend/internal/lobby"
	itypes "github.com/DoyleJ11/wordduel-backend/internal/types"
	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 32
)

var errUnknownType = errors.New("unknown type")
var errMissingPayload = errors.New("missing payload")

type Options struct {
	// OriginPatterns loosens the same-origin check, e.g. "localhost:*" in dev.
	OriginPatterns []string
}

// Handler upgrades the request and binds the connection to the game as one
// session for its lifetime.
func Handler(lb *lobby.Lobby, h *hub.Hub, opts Options, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sessionID := uuid.NewString()
		log := logger.With(zap.String("session", sessionID))
		log.Debug("client connected")

		out := make(chan types.ServerMessage, outboxSize)
		h.Register(sessionID, out)
		defer func() {
			lb.Leave(sessionID)
			h.Unregister(sessionID)
			log.Debug("client disconnected")
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writeLoop(writeCtx, conn, out)

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				log.Debug("read failed", zap.Error(err))
				return
			}

			var cm itypes.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				h.SendTo(sessionID, types.ErrorMessage("bad json"))
				continue
			}

			if cm.Type == types.IntentGameState {
				v, err := lb.View(r.Context())
				if err != nil {
					return
				}
				h.SendTo(sessionID, types.StateMessage(v.Version, v.Snapshot))
				continue
			}

			cmd, err := toEngineCommand(sessionID, cm)
			switch {
			case errors.Is(err, errMissingPayload):
				log.Debug("ignoring intent without payload", zap.String("type", cm.Type))
				continue
			case err != nil:
				h.SendTo(sessionID, types.ErrorMessage(err.Error()))
				continue
			}

			if err := lb.Submit(r.Context(), cmd); err != nil {
				return
			}
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan types.ServerMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				// The hub let go of us; hang up so the reader unblocks too.
				conn.Close(websocket.StatusTryAgainLater, "dropped")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// toEngineCommand maps an inbound frame to a command. A payload of the
// wrong JSON type becomes a zero value so the engine rejects it the same
// way it rejects an empty one.
func toEngineCommand(sessionID string, m itypes.ClientMessage) (engine.Command, error) {
	switch m.Type {
	case types.IntentSetName:
		name, ok := itypes.Text(m.Name)
		if !ok {
			return engine.Command{}, errMissingPayload
		}
		return engine.Command{Type: engine.CmdSetName, SessionID: sessionID, Name: name}, nil

	case types.IntentJoinTeam:
		team, ok := itypes.TeamNumber(m.TeamID)
		if !ok {
			return engine.Command{}, errMissingPayload
		}
		return engine.Command{Type: engine.CmdJoinTeam, SessionID: sessionID, Team: engine.TeamID(team)}, nil

	case types.IntentGuessLetter:
		letter, ok := itypes.Text(m.Letter)
		if !ok {
			return engine.Command{}, errMissingPayload
		}
		return engine.Command{Type: engine.CmdGuessLetter, SessionID: sessionID, Letter: letter}, nil

	default:
		return engine.Command{}, errUnknownType
	}
}
