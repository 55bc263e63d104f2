package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/wordduel-backend/internal/engine"
	"github.com/DoyleJ11/wordduel-backend/internal/hub"
	"github.com/DoyleJ11/wordduel-backend/internal/lobby"
	itypes "github.com/DoyleJ11/wordduel-backend/internal/types"
	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

type fixedWords []string

func (w fixedWords) Pick() string { return w[0] }

type testServer struct {
	url string
	hub *hub.Hub
	lb  *lobby.Lobby
}

func startServer(t *testing.T) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := zap.NewNop()
	h := hub.NewHub(ctx, logger)
	lb := lobby.NewLobby(ctx, engine.NewState("GO", engine.DefaultRules()), h, fixedWords{"GO"}, logger)

	srv := httptest.NewServer(Handler(lb, h, Options{}, logger))
	t.Cleanup(srv.Close)

	return testServer{url: "ws" + strings.TrimPrefix(srv.URL, "http"), hub: h, lb: lb}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, v))
}

func sendRaw(t *testing.T, conn *websocket.Conn, data string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(data)))
}

// readUntil skips frames until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		var msg types.ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestHandler_SetNameBroadcastsState(t *testing.T) {
	s := startServer(t)
	alice := dial(t, s.url)
	watcher := dial(t, s.url)

	// Make sure the watcher is registered before alice acts.
	send(t, watcher, map[string]any{"type": types.IntentGameState})
	readUntil(t, watcher, types.EventGameState)

	send(t, alice, map[string]any{"type": types.IntentSetName, "name": "Alice"})

	for _, conn := range []*websocket.Conn{alice, watcher} {
		msg := readUntil(t, conn, types.EventGameState)
		require.NotNil(t, msg.State)
		require.Len(t, msg.State.Players, 1)
		for _, p := range msg.State.Players {
			assert.Equal(t, "Alice", p.Name)
			assert.Zero(t, p.TeamID)
		}
		assert.Equal(t, 1, msg.Version)
	}
}

func TestHandler_GameStateRepliesToRequester(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s.url)

	send(t, conn, map[string]any{"type": types.IntentGameState})

	msg := readUntil(t, conn, types.EventGameState)
	require.NotNil(t, msg.State)
	assert.Equal(t, []string{"_", "_"}, msg.State.GuessedLetters)
	assert.Equal(t, 1, msg.State.CurrentTeam)
	assert.False(t, msg.State.RoundOver)
}

func TestHandler_Errors(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s.url)

	sendRaw(t, conn, "{not json")
	assert.Equal(t, "bad json", readUntil(t, conn, types.EventGameError).Message)

	send(t, conn, map[string]any{"type": "dance"})
	assert.Equal(t, "unknown type", readUntil(t, conn, types.EventGameError).Message)

	send(t, conn, map[string]any{"type": types.IntentSetName, "name": ""})
	assert.Equal(t, engine.ErrInvalidName.Error(), readUntil(t, conn, types.EventGameError).Message)

	send(t, conn, map[string]any{"type": types.IntentJoinTeam, "teamId": 1})
	assert.Contains(t, readUntil(t, conn, types.EventGameError).Message, engine.ErrPlayerNotRegistered.Error())
}

func TestHandler_GuessEchoesLetter(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s.url)

	send(t, conn, map[string]any{"type": types.IntentSetName, "name": "Alice"})
	send(t, conn, map[string]any{"type": types.IntentJoinTeam, "teamId": "1"})
	send(t, conn, map[string]any{"type": types.IntentGuessLetter, "letter": "g"})

	assert.Equal(t, "Alice joined team 1.", readUntil(t, conn, types.EventGameEvent).Message)
	assert.Equal(t, "G", readUntil(t, conn, types.EventLetter).Letter)
	assert.Equal(t, `Team 1: Alice correct guess "G" +1`, readUntil(t, conn, types.EventGameEvent).Message)
}

func TestHandler_GuessWithoutLetterIsIgnored(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s.url)

	send(t, conn, map[string]any{"type": types.IntentSetName, "name": "Alice"})
	send(t, conn, map[string]any{"type": types.IntentJoinTeam, "teamId": 1})
	assert.Equal(t, "Alice joined team 1.", readUntil(t, conn, types.EventGameEvent).Message)

	send(t, conn, map[string]any{"type": types.IntentGuessLetter})
	send(t, conn, map[string]any{"type": types.IntentGuessLetter, "letter": nil})
	send(t, conn, map[string]any{"type": types.IntentGameState})

	// Anything the dropped guesses produced would arrive before the reply.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var msg types.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.Equal(t, types.EventGameState, msg.Type)
	assert.Equal(t, 1, msg.State.CurrentTeam)
	assert.Equal(t, map[int]int{1: 0, 2: 0}, msg.State.Score)
	assert.Equal(t, 2, msg.Version)
}

func TestHandler_DisconnectLeavesGame(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s.url)

	send(t, conn, map[string]any{"type": types.IntentSetName, "name": "Alice"})
	readUntil(t, conn, types.EventGameState)
	require.Equal(t, 1, s.hub.Stats().NumClients)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	require.Eventually(t, func() bool {
		v, err := s.lb.View(context.Background())
		return err == nil && len(v.Snapshot.Players) == 0 && s.hub.Stats().NumClients == 0
	}, time.Second, 10*time.Millisecond)
}

func TestToEngineCommand(t *testing.T) {
	raw := func(s string) json.RawMessage { return json.RawMessage(s) }

	tests := []struct {
		name string
		in   itypes.ClientMessage
		want engine.Command
		err  error
	}{
		{
			name: "set name",
			in:   itypes.ClientMessage{Type: types.IntentSetName, Name: raw(`"Alice"`)},
			want: engine.Command{Type: engine.CmdSetName, SessionID: "s1", Name: "Alice"},
		},
		{
			name: "set name wrong type",
			in:   itypes.ClientMessage{Type: types.IntentSetName, Name: raw(`42`)},
			want: engine.Command{Type: engine.CmdSetName, SessionID: "s1"},
		},
		{
			name: "set name missing",
			in:   itypes.ClientMessage{Type: types.IntentSetName},
			err:  errMissingPayload,
		},
		{
			name: "join numeric team",
			in:   itypes.ClientMessage{Type: types.IntentJoinTeam, TeamID: raw(`2`)},
			want: engine.Command{Type: engine.CmdJoinTeam, SessionID: "s1", Team: engine.Team2},
		},
		{
			name: "join string team",
			in:   itypes.ClientMessage{Type: types.IntentJoinTeam, TeamID: raw(`"1"`)},
			want: engine.Command{Type: engine.CmdJoinTeam, SessionID: "s1", Team: engine.Team1},
		},
		{
			name: "join bogus team",
			in:   itypes.ClientMessage{Type: types.IntentJoinTeam, TeamID: raw(`7`)},
			want: engine.Command{Type: engine.CmdJoinTeam, SessionID: "s1", Team: engine.NoTeam},
		},
		{
			name: "guess",
			in:   itypes.ClientMessage{Type: types.IntentGuessLetter, Letter: raw(`"r"`)},
			want: engine.Command{Type: engine.CmdGuessLetter, SessionID: "s1", Letter: "r"},
		},
		{
			name: "guess null",
			in:   itypes.ClientMessage{Type: types.IntentGuessLetter, Letter: raw(`null`)},
			err:  errMissingPayload,
		},
		{
			name: "unknown",
			in:   itypes.ClientMessage{Type: "dance"},
			err:  errUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toEngineCommand("s1", tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
