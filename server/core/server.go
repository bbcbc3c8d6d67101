package core

import (
	"fmt"
	"sync"

	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/registry"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"
)

// Peer is a connected client as seen by the relay.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

type player struct {
	peer     Peer
	id       int
	username string
	position mgl64.Vec3
	rotation float64
	health   int
}

func (p *player) joinedMessage() protocol.Message {
	m := protocol.PlayerJoined(p.id, p.username, p.position, p.health)
	m.Rotation = p.rotation
	return m
}

// Server relays replication messages between joined clients. It keeps the
// last known state of every player so newcomers can be told about them.
type Server struct {
	maxPlayers int
	transport  *transports.WsServerTransport
	log        *logrus.Entry

	mu      sync.Mutex
	nextID  int
	players *orderedmap.OrderedMap[string, *player] // Keyed by peer id, in join order
}

// NewServer creates a relay admitting at most maxPlayers joined clients.
func NewServer(maxPlayers int, log *logrus.Entry) *Server {
	return &Server{
		maxPlayers: maxPlayers,
		log:        log.WithField("component", "relay"),
		nextID:     1,
		players:    orderedmap.NewOrderedMap[string, *player](),
	}
}

// Start registers the router callbacks and serves on port until the
// transport stops.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.log.WithField("peer", client.Id()).Debug("connected")
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.HandleDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, req protocol.JoinRequest) {
		s.HandleJoin(client, req)
	})

	router.On(func(client *router.NetworkClient, msg protocol.Message) {
		s.HandleMessage(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.WithField("peer", client.Id()).WithError(err).Warn("client error")
	})
}

// HandleJoin admits peer, assigns the next id and introduces it to the
// players already present.
func (s *Server) HandleJoin(peer Peer, req protocol.JoinRequest) {
	s.mu.Lock()
	if _, dup := s.players.Get(peer.Id()); dup {
		s.mu.Unlock()
		return
	}
	if s.players.Len() >= s.maxPlayers {
		s.mu.Unlock()
		s.send(peer, protocol.JoinRejected{Reason: fmt.Sprintf("server full (%d players)", s.maxPlayers)})
		return
	}

	p := &player{
		peer:     peer,
		id:       s.nextID,
		username: req.Username,
		position: req.Position,
		health:   registry.ClampHealth(req.Health, config.Combat.MaxHealth),
	}
	s.nextID++

	var existing []protocol.Message
	others := make([]Peer, 0, s.players.Len())
	for el := s.players.Front(); el != nil; el = el.Next() {
		existing = append(existing, el.Value.joinedMessage())
		others = append(others, el.Value.peer)
	}
	s.players.Set(peer.Id(), p)
	announce := p.joinedMessage()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"id": p.id, "username": p.username}).Info("player joined")

	s.send(peer, protocol.JoinAccepted{ID: p.id})
	for _, m := range existing {
		s.send(peer, m)
	}
	for _, o := range others {
		s.send(o, announce)
	}
}

// HandleMessage stamps msg with the sender's id where needed, remembers its
// effect and forwards it to every other joined peer.
func (s *Server) HandleMessage(peer Peer, msg protocol.Message) {
	s.mu.Lock()
	sender, ok := s.players.Get(peer.Id())
	if !ok {
		s.mu.Unlock()
		return
	}

	switch msg.Object {
	case protocol.ObjectPlayer:
		msg = protocol.PlayerUpdate(sender.id, msg.Transform())
		sender.position = msg.Position
		sender.rotation = msg.Rotation
	case protocol.ObjectBullet:
		msg.ID = sender.id
	case protocol.ObjectHealthUpdate:
		msg.Health = registry.ClampHealth(msg.Health, config.Combat.MaxHealth)
		for el := s.players.Front(); el != nil; el = el.Next() {
			if el.Value.id == msg.ID {
				el.Value.health = msg.Health
				break
			}
		}
	default:
		s.mu.Unlock()
		s.log.WithField("object", msg.Object).Debug("dropping unknown object")
		return
	}

	others := s.othersLocked(peer.Id())
	s.mu.Unlock()

	for _, o := range others {
		s.send(o, msg)
	}
}

// HandleDisconnect forgets peer and tells everyone it left.
func (s *Server) HandleDisconnect(peer Peer, err error) {
	s.mu.Lock()
	p, ok := s.players.Get(peer.Id())
	if ok {
		s.players.Delete(peer.Id())
	}
	others := s.othersLocked(peer.Id())
	s.mu.Unlock()

	if !ok {
		return
	}
	s.log.WithFields(logrus.Fields{"id": p.id, "username": p.username}).WithError(err).Info("player left")
	left := protocol.PlayerLeft(p.id)
	for _, o := range others {
		s.send(o, left)
	}
}

func (s *Server) othersLocked(except string) []Peer {
	out := make([]Peer, 0, s.players.Len())
	for el := s.players.Front(); el != nil; el = el.Next() {
		if el.Key != except {
			out = append(out, el.Value.peer)
		}
	}
	return out
}

func (s *Server) send(peer Peer, msg any) {
	if err := peer.SendMessage(msg); err != nil {
		s.log.WithField("peer", peer.Id()).WithError(err).Debug("send failed")
	}
}

// PlayerCount returns the number of joined players.
func (s *Server) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Len()
}
