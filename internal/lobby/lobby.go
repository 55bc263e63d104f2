package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/wordduel-backend/internal/engine"
	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

var ErrClosed = errors.New("lobby closed")

// Emitter delivers outbound frames. Broadcast reaches every connected
// session, SendTo only the named one.
type Emitter interface {
	Broadcast(msg types.ServerMessage)
	SendTo(sessionID string, msg types.ServerMessage)
}

type WordSource interface {
	Pick() string
}

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isLobbyMsg() {}

type Leave struct{ SessionID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

func (timerFired) isLobbyMsg() {}

type View struct {
	Version        int
	State          engine.State
	Snapshot       types.Snapshot
	IdlePending    bool
	RestartPending bool
}

// Lobby owns the single game. Every intent, query and timer fire is handled
// on one goroutine, one message at a time.
type Lobby struct {
	inbox   chan Msg
	state   engine.State
	version int
	emit    Emitter
	words   WordSource
	logger  *zap.Logger
	idle    *turnTimer
	restart *turnTimer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewLobby(parent context.Context, initial engine.State, emit Emitter, words WordSource, logger *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		version: 0,
		emit:    emit,
		words:   words,
		logger:  logger,
		idle:    &turnTimer{kind: idleTimer},
		restart: &turnTimer{kind: restartTimer},
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.done)

	l.logger.Debug("round started", zap.String("word", l.state.Board.Word()))
	if l.state.RoundOver {
		l.restart.arm(l.state.Rules.RestartDelay, l.post)
	} else {
		l.idle.arm(l.state.Rules.TurnTimeout, l.post)
	}

	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case FromClient:
				l.handle(msg.Cmd)

			case Leave:
				l.handle(engine.Command{Type: engine.CmdLeave, SessionID: msg.SessionID})

			case timerFired:
				l.fire(msg)

			case GetState:
				msg.Reply <- l.view()

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handle(cmd engine.Command) {
	events, next, err := engine.Apply(l.state, cmd)
	l.state = next
	if err != nil {
		l.logger.Debug("intent rejected",
			zap.String("session", cmd.SessionID),
			zap.String("command", string(cmd.Type)),
			zap.Error(err),
		)
		if cmd.SessionID != "" {
			l.emit.SendTo(cmd.SessionID, types.ErrorMessage(err.Error()))
		}
	}
	l.publish(events)
}

// publish runs after the state is committed, so every frame it sends
// reflects the finished update.
func (l *Lobby) publish(events []engine.Event) {
	if len(events) == 0 {
		return
	}

	for _, ev := range events {
		if ev.Type == engine.EvtLetterEchoed {
			l.emit.SendTo(ev.SessionID, types.LetterMessage(ev.Letter))
		}
	}

	if engine.StateChanged(events) {
		l.version++
		l.emit.Broadcast(types.StateMessage(l.version, l.state.Snapshot()))
	}

	for _, ev := range events {
		if line, ok := describe(ev, l.state.Rules); ok {
			l.emit.Broadcast(types.EventMessage(line))
		}
	}

	l.schedule(events)
}

func (l *Lobby) schedule(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtTurnAdvanced:
			l.idle.arm(l.state.Rules.TurnTimeout, l.post)

		case engine.EvtRoundCompleted:
			l.idle.stop()
			l.restart.arm(l.state.Rules.RestartDelay, l.post)
			l.logger.Info("round completed",
				zap.Int("winner", int(ev.Team)),
				zap.String("word", l.state.Board.Word()),
				zap.Int("games_won", l.state.GamesWon[ev.Team]),
			)

		case engine.EvtRoundStarted:
			l.logger.Debug("round started", zap.String("word", l.state.Board.Word()))
		}
	}
}

func (l *Lobby) fire(f timerFired) {
	switch f.kind {
	case idleTimer:
		if !l.idle.accept(f.gen) {
			l.logger.Debug("dropping stale timer", zap.Stringer("timer", f.kind), zap.Uint64("gen", f.gen))
			return
		}
		l.logger.Info("turn timed out", zap.Int("team", int(l.state.CurrentTeam)))
		l.handle(engine.Command{Type: engine.CmdTimeoutAdvance})

	case restartTimer:
		if !l.restart.accept(f.gen) {
			l.logger.Debug("dropping stale timer", zap.Stringer("timer", f.kind), zap.Uint64("gen", f.gen))
			return
		}
		l.handle(engine.Command{Type: engine.CmdStartRound, Word: l.words.Pick()})
	}
}

func (l *Lobby) view() View {
	return View{
		Version:        l.version,
		State:          l.state.Clone(),
		Snapshot:       l.state.Snapshot(),
		IdlePending:    l.idle.pending(),
		RestartPending: l.restart.pending(),
	}
}

// post hands a timer fire back to the loop. It gives up once the lobby is
// stopping so no timer goroutine outlives it.
func (l *Lobby) post(f timerFired) {
	select {
	case l.inbox <- f:
	case <-l.ctx.Done():
	}
}

func (l *Lobby) shutdown() {
	l.idle.stop()
	l.restart.stop()
	l.cancel()
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Submit queues a client intent.
func (l *Lobby) Submit(ctx context.Context, cmd engine.Command) error {
	return l.send(ctx, FromClient{Cmd: cmd})
}

// Leave removes sessionID from the game. It does not take a context since
// it runs while the connection is already going away.
func (l *Lobby) Leave(sessionID string) {
	_ = l.send(context.Background(), Leave{SessionID: sessionID})
}

// View answers a state query synchronously.
func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (l *Lobby) send(ctx context.Context, m Msg) error {
	select {
	case l.inbox <- m:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has exited.
func (l *Lobby) Done() <-chan struct{} { return l.done }

// Stop cancels the lobby and waits for the loop to exit.
func (l *Lobby) Stop() {
	l.cancel()
	<-l.done
}
