package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"
)

type joinResult struct {
	id     int
	reason string
	ok     bool
}

// Client is the websocket Relay used by the game. Router callbacks run on
// necs goroutines; shared fields are protected by mu.
type Client struct {
	mu      sync.RWMutex
	addr    string
	join    protocol.JoinRequest
	timeout time.Duration
	conn    *websocket.Conn

	id atomic.Int64

	inbox     chan protocol.Message
	joinCh    chan joinResult
	done      chan struct{}
	closeOnce sync.Once
	streamErr error

	log *logrus.Entry
}

// NewClient prepares a client for the relay at addr ("host:port"). join is
// sent once the socket is open.
func NewClient(addr string, join protocol.JoinRequest, log *logrus.Entry) *Client {
	return &Client{
		addr:    addr,
		join:    join,
		timeout: config.Network.ConnectTimeout,
		inbox:   make(chan protocol.Message, config.Network.InboxSize),
		joinCh:  make(chan joinResult, 1),
		done:    make(chan struct{}),
		log:     log.WithField("component", "client"),
	}
}

// SetTimeout bounds how long Connect waits for the socket and the join reply.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// Connect dials the relay, sends the join request and waits for the reply.
// Every failure is a *ConnectionError.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.RLock()
	timeout := c.timeout
	c.mu.RUnlock()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Handlers are global to the router; start from a clean slate so retries
	// after a failed attempt don't stack callbacks.
	router.ResetRouter()
	c.registerHandlers()

	connCh := make(chan *websocket.Conn, 1)
	errCh := make(chan error, 1)
	go func() {
		transport := transports.NewWsClientTransport("ws://" + c.addr)
		err := transport.Start(func(conn *websocket.Conn) {
			if c.attach(conn) {
				connCh <- conn
			}
		})
		if err != nil {
			errCh <- err
			c.terminate(err)
			return
		}
		c.terminate(nil)
	}()

	var conn *websocket.Conn
	select {
	case conn = <-connCh:
	case err := <-errCh:
		return classify(c.addr, err)
	case <-ctx.Done():
		c.abort()
		return classify(c.addr, ctx.Err())
	}

	payload, err := router.Serialize(c.join)
	if err != nil {
		c.abort()
		return classify(c.addr, fmt.Errorf("serialize join request: %w", err))
	}
	if err := conn.Write(ctx, websocket.MessageBinary, payload); err != nil {
		c.abort()
		return classify(c.addr, fmt.Errorf("send join request: %w", err))
	}

	select {
	case res := <-c.joinCh:
		if !res.ok {
			c.abort()
			return &ConnectionError{Reason: ReasonRejected, Addr: c.addr, Err: errors.New(res.reason)}
		}
		c.id.Store(int64(res.id))
		c.log.WithField("id", res.id).Info("joined relay")
		return nil
	case <-c.done:
		return classify(c.addr, c.terminalErr())
	case <-ctx.Done():
		c.abort()
		return classify(c.addr, ctx.Err())
	}
}

func (c *Client) registerHandlers() {
	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Debug("socket open")
	})

	router.On(func(_ *router.NetworkClient, msg protocol.JoinAccepted) {
		select {
		case c.joinCh <- joinResult{id: msg.ID, ok: true}:
		default:
		}
	})

	router.On(func(_ *router.NetworkClient, msg protocol.JoinRejected) {
		c.log.WithField("reason", msg.Reason).Warn("join rejected")
		select {
		case c.joinCh <- joinResult{reason: msg.Reason}:
		default:
		}
	})

	router.On(func(_ *router.NetworkClient, msg protocol.Message) {
		c.deliver(msg)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Info("disconnected")
		c.terminate(err)
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Debug("router error")
	})
}

// deliver queues msg for ReceiveMessage. It blocks while the inbox is full
// so nothing is dropped, and gives up once the stream has ended.
func (c *Client) deliver(msg protocol.Message) {
	select {
	case c.inbox <- msg:
	case <-c.done:
	}
}

// attach stores conn as the live socket. A socket that opens after the
// stream has ended is closed and rejected.
func (c *Client) attach(conn *websocket.Conn) bool {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		_ = conn.CloseNow()
		return false
	default:
	}
	c.conn = conn
	c.mu.Unlock()
	return true
}

// terminate ends the stream once. Messages already queued stay readable.
func (c *Client) terminate(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.streamErr = err
		c.conn = nil
		close(c.done)
		c.mu.Unlock()
	})
}

func (c *Client) terminalErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.streamErr != nil {
		return c.streamErr
	}
	return ErrStreamTerminated
}

func (c *Client) abort() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.CloseNow()
	}
	c.terminate(nil)
}

// ReceiveMessage blocks for the next relay message. Once the stream has
// ended and the inbox is drained it returns ErrStreamTerminated.
func (c *Client) ReceiveMessage(ctx context.Context) (protocol.Message, error) {
	select {
	case msg := <-c.inbox:
		return msg, nil
	default:
	}

	select {
	case msg := <-c.inbox:
		return msg, nil
	case <-c.done:
		select {
		case msg := <-c.inbox:
			return msg, nil
		default:
		}
		if err := c.terminalErr(); !errors.Is(err, ErrStreamTerminated) {
			return protocol.Message{}, fmt.Errorf("%w: %v", ErrStreamTerminated, err)
		}
		return protocol.Message{}, ErrStreamTerminated
	case <-ctx.Done():
		return protocol.Message{}, ctx.Err()
	}
}

// LocalID is the session id assigned by the relay, 0 before joining.
func (c *Client) LocalID() int { return int(c.id.Load()) }

func (c *Client) SendPlayerUpdate(t protocol.Transform) error {
	return c.send(protocol.PlayerUpdate(c.LocalID(), t))
}

func (c *Client) SendBullet(b protocol.BulletSpawn) error {
	return c.send(protocol.Bullet(c.LocalID(), b))
}

func (c *Client) SendHealth(id, health int) error {
	return c.send(protocol.HealthUpdate(id, health))
}

func (c *Client) send(msg protocol.Message) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Close drops the connection and ends the stream.
func (c *Client) Close() error {
	c.abort()
	router.ResetRouter()
	return nil
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

// Pending returns every queued message without blocking.
func (c *Client) Pending() []protocol.Message {
	return drainChan(c.inbox)
}
