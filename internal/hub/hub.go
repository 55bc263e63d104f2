package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

type HubMsg interface{ isHubMsg() }

// Register attaches a connection. The hub owns Outbox from here on and
// closes it on Unregister, on drop, or on shutdown.
type Register struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

type Unregister struct {
	ClientID string
}

type Broadcast struct {
	Msg types.ServerMessage
}

type Send struct {
	ClientID string
	Msg      types.ServerMessage
}

type GetStats struct {
	Reply chan Stats
}

type ShutdownHub struct{}

type Stats struct {
	NumClients int
}

func (Register) isHubMsg()    {}
func (Unregister) isHubMsg()  {}
func (Broadcast) isHubMsg()   {}
func (Send) isHubMsg()        {}
func (GetStats) isHubMsg()    {}
func (ShutdownHub) isHubMsg() {}

// Hub fans frames out to connected clients.
type Hub struct {
	inbox   chan HubMsg
	clients map[string]chan types.ServerMessage
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 256),
		clients: make(map[string]chan types.ServerMessage),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				if old, ok := h.clients[msg.ClientID]; ok {
					close(old)
				}
				h.clients[msg.ClientID] = msg.Outbox

			case Unregister:
				if ch, ok := h.clients[msg.ClientID]; ok {
					close(ch)
					delete(h.clients, msg.ClientID)
				}

			case Broadcast:
				for id := range h.clients {
					h.deliver(id, msg.Msg)
				}

			case Send:
				h.deliver(msg.ClientID, msg.Msg)

			case GetStats:
				msg.Reply <- Stats{NumClients: len(h.clients)}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) deliver(id string, msg types.ServerMessage) {
	ch, ok := h.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- msg:
		//ok
	default:
		// Client is slow/full - drop them.
		h.logger.Warn("dropping slow client", zap.String("client", id), zap.String("frame", msg.Type))
		close(ch)
		delete(h.clients, id)
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch) // Tell client no more frames
		delete(h.clients, id)
	}
	h.cancel()
}

func (h *Hub) post(m HubMsg) {
	select {
	case h.inbox <- m:
	case <-h.done:
	}
}

func (h *Hub) Register(clientID string, outbox chan types.ServerMessage) {
	h.post(Register{ClientID: clientID, Outbox: outbox})
}

func (h *Hub) Unregister(clientID string) {
	h.post(Unregister{ClientID: clientID})
}

// Broadcast implements lobby.Emitter.
func (h *Hub) Broadcast(msg types.ServerMessage) {
	h.post(Broadcast{Msg: msg})
}

// SendTo implements lobby.Emitter.
func (h *Hub) SendTo(clientID string, msg types.ServerMessage) {
	h.post(Send{ClientID: clientID, Msg: msg})
}

func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	h.post(GetStats{Reply: reply})
	select {
	case s := <-reply:
		return s
	case <-h.done:
		return Stats{}
	}
}

func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) Stop() {
	h.cancel()
	<-h.done
}
