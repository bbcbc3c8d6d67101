package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/automoto/bhop-mp/registry"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Replicator applies relay messages to the registry and sends the local
// player's changes back out.
type Replicator struct {
	relay Relay
	reg   *registry.Registry
	log   *logrus.Entry
	hub   *sentry.Hub

	mu   sync.Mutex
	err  error
	done chan struct{}

	sent     bool
	lastSent protocol.Transform
}

func NewReplicator(relay Relay, reg *registry.Registry, log *logrus.Entry) *Replicator {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "replication")
	})
	return &Replicator{
		relay: relay,
		reg:   reg,
		log:   log.WithField("component", "replication"),
		hub:   hub,
		done:  make(chan struct{}),
	}
}

// Run receives until ctx is cancelled or the stream ends. A terminated
// stream is recorded and reported by Err.
func (r *Replicator) Run(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			r.hub.Recover(v)
			err = fmt.Errorf("receive loop panic: %v", v)
			r.fail(err)
		}
	}()

	for {
		msg, err := r.relay.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, ErrStreamTerminated) {
				err = fmt.Errorf("%w: %v", ErrStreamTerminated, err)
			}
			r.hub.CaptureException(err)
			r.fail(err)
			return err
		}
		r.Apply(msg)
	}
}

func (r *Replicator) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.err = err
	close(r.done)
	r.log.WithError(err).Warn("receive loop stopped")
}

// Err returns the error that ended the receive loop, nil while it runs.
func (r *Replicator) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done is closed once the receive loop has failed.
func (r *Replicator) Done() <-chan struct{} { return r.done }

// Apply folds one relay message into the registry.
func (r *Replicator) Apply(msg protocol.Message) {
	log := r.log.WithFields(logrus.Fields{"object": msg.Object, "id": msg.ID})

	switch msg.Object {
	case protocol.ObjectPlayer:
		r.applyPlayer(msg, log)

	case protocol.ObjectBullet:
		r.reg.SpawnBullet(msg.ID, msg.Position, msg.Direction, -msg.XDirection, msg.Damage)

	case protocol.ObjectHealthUpdate:
		local := r.reg.Local()
		if msg.ID == r.relay.LocalID() {
			local.SetHealth(msg.Health)
			return
		}
		if !r.reg.SetEnemyHealth(msg.ID, msg.Health) {
			log.Debug("health update for unknown entity")
		}

	default:
		log.Debug("unknown object")
	}
}

func (r *Replicator) applyPlayer(msg protocol.Message, log *logrus.Entry) {
	if msg.ID == r.relay.LocalID() {
		return
	}
	switch {
	case msg.Joined:
		if !r.reg.Join(msg.ID, msg.Username, msg.Position, msg.Health) {
			log.Debug("join for known player updated in place")
		}
	case msg.Left:
		if !r.reg.Leave(msg.ID) {
			log.Debug("leave for unknown player")
		}
	default:
		if !r.reg.UpdateTransform(msg.ID, msg.Position, msg.Rotation) {
			log.Debug("transform for unknown player")
		}
	}
}

// SyncLocal sends the local transform when it changed since the last send.
// Dead players send nothing.
func (r *Replicator) SyncLocal() error {
	local := r.reg.Local()
	if !local.Alive() {
		return nil
	}
	t := protocol.Transform{Position: local.Position(), Rotation: local.Yaw()}
	if r.sent && t == r.lastSent {
		return nil
	}
	if err := r.relay.SendPlayerUpdate(t); err != nil {
		return fmt.Errorf("send player update: %w", err)
	}
	r.sent = true
	r.lastSent = t
	return nil
}

// SendBullet announces a fired bullet.
func (r *Replicator) SendBullet(b protocol.BulletSpawn) error {
	if err := r.relay.SendBullet(b); err != nil {
		return fmt.Errorf("send bullet: %w", err)
	}
	return nil
}

// SendHealth announces the new health of a damaged enemy.
func (r *Replicator) SendHealth(id, health int) error {
	if err := r.relay.SendHealth(id, health); err != nil {
		return fmt.Errorf("send health: %w", err)
	}
	return nil
}
