// Package session wires the registry, movement, combat and replication into
// one playable client session driven by Tick.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/network"
	"github.com/automoto/bhop-mp/registry"
	"github.com/automoto/bhop-mp/systems"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Input is one tick's worth of player intent.
type Input struct {
	Forward float64 // W minus S
	Strafe  float64 // D minus A
	Jump    bool
	Fire    bool
	Slot    int // 0 keeps the current weapon, 1..N selects a slot
	Crouch  bool
	LookX   float64
	LookY   float64 // Positive looks down
}

// Camera is where the view is rendered from.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Session is a joined client. Tick must be called from a single goroutine.
type Session struct {
	relay    network.Relay
	reg      *registry.Registry
	ctrl     *systems.Controller
	combat   *systems.Combat
	reloader *systems.Reloader
	repl     *network.Replicator
	log      *logrus.Entry

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds a session for player over an already connected relay.
func New(relay network.Relay, level geometry.Caster, player *registry.LocalPlayer, log *logrus.Entry) *Session {
	reg := registry.New(player)
	reloader := systems.NewReloader(player.Inventory)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(relay.LocalID())))

	return &Session{
		relay:    relay,
		reg:      reg,
		ctrl:     systems.NewController(level, player),
		combat:   systems.NewCombat(reg, level, reloader, rng),
		reloader: reloader,
		repl:     network.NewReplicator(relay, reg, log),
		log:      log.WithField("component", "session"),
	}
}

// Start spawns the local player and launches the receive loop.
func (s *Session) Start(ctx context.Context, spawn mgl64.Vec3) {
	p := s.reg.Local()
	p.SetID(s.relay.LocalID())
	s.ctrl.Spawn(spawn)

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.repl.Run(ctx)
	}()
	s.log.WithFields(logrus.Fields{"id": p.ID(), "username": p.Username}).Info("session started")
}

// Tick runs one simulation step. It returns network.ErrStreamTerminated
// once the relay stream has closed; the session is over at that point.
func (s *Session) Tick(in Input, dt time.Duration) error {
	if err := s.repl.Err(); err != nil {
		return err
	}

	p := s.reg.Local()
	if p.Alive() {
		s.ctrl.Look(in.LookX, in.LookY)
		if in.Slot > 0 {
			s.combat.Select(in.Slot - 1)
		}
		if in.Crouch {
			s.ctrl.ToggleCrouch()
		}
		if in.Jump {
			s.ctrl.RequestJump()
		}
		s.ctrl.Step(systems.MoveInput{Forward: in.Forward, Strafe: in.Strafe}, dt)

		if in.Fire {
			s.fire()
		}
	}

	s.reg.StepBullets(dt)

	if err := s.repl.SyncLocal(); err != nil {
		s.log.WithError(err).Debug("transform not sent")
	}
	return nil
}

func (s *Session) fire() {
	shot := s.combat.Fire(s.ctrl.Now())
	if !shot.Fired {
		return
	}
	if err := s.repl.SendBullet(shot.Bullet); err != nil {
		s.log.WithError(err).Debug("bullet not sent")
	}
	if shot.Hit {
		if err := s.repl.SendHealth(shot.TargetID, shot.TargetHealth); err != nil {
			s.log.WithError(err).Debug("health not sent")
		}
	}
}

// Camera follows the player's eye, or parks over the arena once they die.
func (s *Session) Camera() Camera {
	p := s.reg.Local()
	if !p.Alive() {
		pos := config.Combat.SpectatorPos
		return Camera{Position: mgl64.Vec3{pos[0], pos[1], pos[2]}, Pitch: config.Combat.SpectatorTilt}
	}
	return Camera{Position: p.Eye(), Yaw: p.Body.Yaw, Pitch: p.Body.Pitch}
}

func (s *Session) Registry() *registry.Registry { return s.reg }

func (s *Session) Controller() *systems.Controller { return s.ctrl }

// Done is closed when the relay stream ends.
func (s *Session) Done() <-chan struct{} { return s.repl.Done() }

// Close stops the receive loop and every reload task, then drops the relay.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.reloader.Close()
		if cerr := s.relay.Close(); cerr != nil {
			err = fmt.Errorf("close relay: %w", cerr)
		}
		s.wg.Wait()
		s.log.Info("session closed")
	})
	return err
}
