package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Hub is the event dispatcher and connection supervisor. A single Hub owns
// the waiting pool, pair registry, and remembered interests for every live
// client, and serializes all mutation through its Run loop, giving the
// whole server one critical section.
type Hub interface {
	// Run drives the hub's event loop until ctx is cancelled. It must be
	// started in its own goroutine.
	Run(ctx context.Context)

	// RegisterClient admits a newly connected client. The client starts
	// Unregistered.
	RegisterClient(c *Client)

	// UnregisterClient runs the disconnect transition: tears down any
	// pairing, removes any pool entry, forgets interests, and destroys
	// all state referencing the client atomically from the hub's
	// perspective.
	UnregisterClient(c *Client)
}

type clientCommand struct {
	clientID string
	cmd      *Command
}

type hub struct {
	log *zerolog.Logger

	pool      *waitingPool
	registry  *pairRegistry
	states    map[string]SessionState
	interests map[string][]string
	clients   map[string]*Client
	cancels   map[string]context.CancelFunc

	register   chan *Client
	unregister chan *Client
	inbound    chan clientCommand
}

// NewHub constructs a Hub. logger must not be nil.
func NewHub(logger *zerolog.Logger) Hub {
	return &hub{
		log:        logger,
		pool:       newWaitingPool(),
		registry:   newPairRegistry(),
		states:     make(map[string]SessionState),
		interests:  make(map[string][]string),
		clients:    make(map[string]*Client),
		cancels:    make(map[string]context.CancelFunc),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan clientCommand, 256),
	}
}

func (h *hub) RegisterClient(c *Client) {
	h.register <- c
}

func (h *hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run is the hub's single-threaded event loop: every mutation of pool,
// registry, states, and interests happens here, so no two find_partner
// calls (or any other command) ever observe an inconsistent view.
func (h *hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.onRegister(ctx, c)

		case c := <-h.unregister:
			h.onDisconnect(c)

		case cc := <-h.inbound:
			h.handleCommand(cc.clientID, cc.cmd)

		case <-ctx.Done():
			for id := range h.clients {
				h.teardownAndClose(id)
			}
			return
		}
	}
}

func (h *hub) onRegister(ctx context.Context, c *Client) {
	h.clients[c.ID] = c
	h.states[c.ID] = Unregistered

	fanCtx, cancel := context.WithCancel(ctx)
	h.cancels[c.ID] = cancel
	go h.fanIn(fanCtx, c)

	h.log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client registered")
}

// fanIn forwards a client's Commands channel into the hub's single inbound
// channel, giving the hub loop one place to select from regardless of how
// many clients are connected.
func (h *hub) fanIn(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbound <- clientCommand{clientID: c.ID, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *hub) onDisconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	h.teardownAndClose(c.ID)
}

// teardownAndClose runs the disconnect transition from any state and
// removes every trace of clientID from hub state.
func (h *hub) teardownAndClose(clientID string) {
	if h.states[clientID] == Paired {
		h.teardownAndNotify(clientID)
	}
	h.pool.removeByID(clientID)
	delete(h.interests, clientID)
	delete(h.states, clientID)

	if cancel, ok := h.cancels[clientID]; ok {
		cancel()
		delete(h.cancels, clientID)
	}
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
	}

	h.log.Debug().Str("client_id", clientID).Int("clients", len(h.clients)).
		Int("pool_size", h.pool.size()).Int("pair_count", len(h.registry.partners)/2).
		Msg("client unregistered")
}

func (h *hub) handleCommand(clientID string, cmd *Command) {
	if _, live := h.clients[clientID]; !live {
		return
	}

	switch cmd.Kind {
	case CommandFindPartner:
		h.handleFindPartner(clientID, cmd.Interests)
	case CommandSendMessage:
		h.handleSendMessage(clientID, cmd.Text)
	case CommandOffer:
		h.handleOffer(clientID, cmd.Payload)
	case CommandAnswer:
		h.handleAnswer(clientID, cmd.To, cmd.Payload)
	case CommandICECandidate:
		h.handleICECandidate(clientID, cmd.Payload)
	case CommandStopVideo:
		h.handleStopVideo(clientID)
	case CommandSkip:
		h.handleSkip(clientID, cmd.Interests, cmd.HasInterests)
	case CommandLeaveChat:
		h.handleLeaveChat(clientID)
	}
}

// handleFindPartner enters matchmaking for clientID regardless of its
// originating state (Unregistered, Waiting, or Paired), replacing any
// existing pairing or pool entry first.
func (h *hub) handleFindPartner(clientID string, rawInterests any) {
	interests := Normalize(rawInterests)
	h.interests[clientID] = interests

	if h.states[clientID] == Paired {
		h.teardownAndNotify(clientID)
	}
	h.pool.removeByID(clientID)

	h.matchOrWait(clientID, interests)
}

// matchOrWait runs the matcher for clientID, which must currently be
// unbound and out of the pool, and either pairs it immediately or enqueues
// it.
func (h *hub) matchOrWait(clientID string, interests []string) {
	match, found := findBestMatch(interests, clientID, h.pool)
	if !found {
		h.pool.insert(waitingEntry{
			ClientID:     clientID,
			Interests:    interests,
			JoinedAtNano: time.Now().UnixNano(),
		})
		h.states[clientID] = Waiting
		h.log.Debug().Int("pool_size", h.pool.size()).Msg("client enqueued")
		h.send(clientID, &Event{Kind: EventWaiting, Waiting: waitingDescription(interests)})
		return
	}

	h.pool.removeByID(match.ClientID)
	h.registry.bind(clientID, match.ClientID)
	h.states[clientID] = Paired
	h.states[match.ClientID] = Paired
	h.log.Debug().Int("pool_size", h.pool.size()).Int("pair_count", len(h.registry.partners)/2).Msg("clients paired")

	// partner_found is emitted to both before any other pair event, since
	// the hub loop processes one command at a time.
	h.send(clientID, &Event{Kind: EventPartnerFound, PartnerID: match.ClientID})
	h.send(match.ClientID, &Event{Kind: EventPartnerFound, PartnerID: clientID})
}

func waitingDescription(interests []string) string {
	if len(interests) == 1 && interests[0] == randomTag {
		return "Waiting for a random partner..."
	}
	desc := interests[0]
	for _, tag := range interests[1:] {
		desc += ", " + tag
	}
	return fmt.Sprintf("Waiting for a partner interested in: %s", desc)
}

func (h *hub) handleSendMessage(clientID string, text string) {
	if h.states[clientID] != Paired {
		return
	}
	partner, ok := h.registry.partnerOf(clientID)
	if !ok {
		return
	}
	h.send(partner, &Event{Kind: EventReceiveMessage, Sender: SenderPartner, Text: text})
	h.send(clientID, &Event{Kind: EventReceiveMessage, Sender: SenderMe, Text: text})
}

func (h *hub) handleOffer(clientID string, payload []byte) {
	if h.states[clientID] != Paired {
		return
	}
	partner, ok := h.registry.partnerOf(clientID)
	if !ok {
		return
	}
	h.send(partner, &Event{Kind: EventOffer, From: clientID, Payload: payload})
}

func (h *hub) handleAnswer(clientID, to string, payload []byte) {
	if h.states[clientID] != Paired {
		return
	}
	partner, ok := h.registry.partnerOf(clientID)
	if !ok || to != partner {
		return
	}
	h.send(to, &Event{Kind: EventAnswer, From: clientID, Payload: payload})
}

func (h *hub) handleICECandidate(clientID string, payload []byte) {
	if h.states[clientID] != Paired {
		return
	}
	partner, ok := h.registry.partnerOf(clientID)
	if !ok {
		return
	}
	h.send(partner, &Event{Kind: EventICECandidate, From: clientID, Payload: payload})
}

func (h *hub) handleStopVideo(clientID string) {
	if h.states[clientID] != Paired {
		return
	}
	partner, ok := h.registry.partnerOf(clientID)
	if !ok {
		return
	}
	h.send(partner, &Event{Kind: EventStopVideo})
}

// handleSkip tears down the current pairing, notifying the former partner,
// then re-matches the initiator only. The skipped partner returns to
// Unregistered and must call find_partner again to re-enter matchmaking.
func (h *hub) handleSkip(clientID string, rawInterests any, hasInterests bool) {
	if h.states[clientID] != Paired {
		return
	}
	h.teardownAndNotify(clientID)

	var interests []string
	if hasInterests {
		interests = Normalize(rawInterests)
	} else {
		interests = h.interests[clientID]
		if interests == nil {
			interests = []string{randomTag}
		}
	}
	h.interests[clientID] = interests
	h.matchOrWait(clientID, interests)
}

// handleLeaveChat implements both the Paired and Waiting leaveChat rows.
func (h *hub) handleLeaveChat(clientID string) {
	switch h.states[clientID] {
	case Paired:
		h.teardownAndNotify(clientID)
	case Waiting:
		h.pool.removeByID(clientID)
		h.log.Debug().Int("pool_size", h.pool.size()).Msg("client left waiting pool")
	default:
		return
	}
	delete(h.interests, clientID)
	h.states[clientID] = Unregistered
}

// teardownAndNotify looks up the partner, emits partner_disconnected, and
// unbinds both sides. It does not change clientID's own state or pool
// membership; callers do that.
func (h *hub) teardownAndNotify(clientID string) {
	partner, ok := h.registry.unbind(clientID)
	if !ok {
		return
	}
	h.states[partner] = Unregistered
	h.log.Debug().Int("pair_count", len(h.registry.partners)/2).Msg("pair torn down")
	h.send(partner, &Event{Kind: EventPartnerDisconnected})
}

// send delivers an event to a client's Events channel without blocking. A
// full buffer means a slow or dead peer; the event is dropped rather than
// stalling the matchmaker.
func (h *hub) send(clientID string, ev *Event) {
	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case client.Events <- ev:
	default:
		h.log.Warn().Str("client_id", clientID).Msg("dropping event: slow consumer")
	}
}
