package server

import (
	"context"
	"errors"
	"log"

	"lostcities-calculator/internal/protocol"
	"lostcities-calculator/internal/session"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

var errHubStopped = errors.New("hub stopped")

// Hub owns the session and every connected client. All state changes happen
// on the Run goroutine, one message at a time.
type Hub struct {
	session        *session.Session
	clients        map[*Client]bool
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	snapshots      chan chan protocol.StatePayload
	done           chan struct{}
	dirty          bool
}

// NewHub creates a new Hub instance around the session.
func NewHub(s *session.Session) *Hub {
	h := &Hub{
		session:        s,
		clients:        make(map[*Client]bool),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		snapshots:      make(chan chan protocol.StatePayload),
		done:           make(chan struct{}),
	}
	// Storage notifications fire synchronously inside handleMessage.
	s.Subscribe(func(key string) { h.dirty = true })
	return h
}

// Run starts the Hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.removeClient(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client %s (%s) connected", client.ID, client.remoteAddr())
			h.sendState(client)

		case client := <-h.unregister:
			if h.clients[client] {
				h.removeClient(client)
				log.Printf("Client %s disconnected", client.ID)
			}

		case reply := <-h.snapshots:
			reply <- h.session.Snapshot()

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
			if h.dirty {
				h.dirty = false
				h.broadcastState()
			}
		}
	}
}

// Snapshot returns the current state, read on the hub goroutine.
func (h *Hub) Snapshot(ctx context.Context) (protocol.StatePayload, error) {
	reply := make(chan protocol.StatePayload, 1)
	select {
	case h.snapshots <- reply:
	case <-ctx.Done():
		return protocol.StatePayload{}, ctx.Err()
	case <-h.done:
		return protocol.StatePayload{}, errHubStopped
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return protocol.StatePayload{}, ctx.Err()
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	var err error
	switch msg.Type {
	case protocol.TypeToggleCard:
		var payload protocol.ToggleCardPayload
		if err = msg.Decode(&payload); err == nil {
			err = h.session.ToggleCard(payload.Card)
		}
	case protocol.TypeCycleWager:
		var payload protocol.CycleWagerPayload
		if err = msg.Decode(&payload); err == nil {
			err = h.session.CycleWager(payload.Suit)
		}
	case protocol.TypeSelectPlayer:
		var payload protocol.SelectPlayerPayload
		if err = msg.Decode(&payload); err == nil {
			err = h.session.SelectPlayer(payload.Player)
		}
	case protocol.TypeSelectRound:
		var payload protocol.SelectRoundPayload
		if err = msg.Decode(&payload); err == nil {
			err = h.session.SelectRound(payload.Round)
		}
	case protocol.TypeUpdateSetting:
		var payload protocol.UpdateSettingPayload
		if err = msg.Decode(&payload); err == nil {
			err = h.session.UpdateSetting(payload.Key, payload.Value)
		}
	case protocol.TypeReset:
		h.session.Reset()
	case protocol.TypeResetSettings:
		h.session.ResetSettings()
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.send(client, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s", msg.Type, client.ID)
		h.sendError(client, "Unknown message type.")
		return
	}

	// A write that failed to persist still changed the in-memory state.
	if err == nil && msg.Type != protocol.TypePing {
		h.dirty = true
	}
	if err != nil {
		log.Printf("Rejected '%s' from client %s: %v", msg.Type, client.ID, err)
		h.sendError(client, err.Error())
	}
}

func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// send queues a message without blocking the hub. A client whose queue is
// full is dropped.
func (h *Hub) send(client *Client, message []byte) {
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full), dropping client.", client.ID)
		h.removeClient(client)
	}
}

func (h *Hub) sendState(client *Client) {
	msg, err := protocol.NewMessage(protocol.TypeState, h.session.Snapshot())
	if err != nil {
		log.Printf("Error creating state message: %v", err)
		return
	}
	h.send(client, msg)
}

func (h *Hub) broadcastState() {
	msg, err := protocol.NewMessage(protocol.TypeState, h.session.Snapshot())
	if err != nil {
		log.Printf("Error creating state message: %v", err)
		return
	}
	for client := range h.clients {
		h.send(client, msg)
	}
}

// sendError sends an error message to a specific client.
func (h *Hub) sendError(client *Client, errorMsg string) {
	msg, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.send(client, msg)
}
