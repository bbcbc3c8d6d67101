package registry

import (
	"sync/atomic"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is the kinematic state the tick owns.
type Body struct {
	Position  mgl64.Vec3 // Feet
	Velocity  mgl64.Vec3
	Yaw       float64 // Degrees
	Pitch     float64 // Degrees, positive looks up
	Grounded  bool
	Crouched  bool
	EyeHeight float64
}

// BhopState tracks jump chaining. LandedAt is simulation time.
type BhopState struct {
	LandedAt time.Duration
	Active   bool
	Chain    int
	Boost    float64
}

// LocalPlayer is the one player simulated on this client. Body, Bhop and
// Inventory belong to the tick; health may also be written by the receive
// loop.
type LocalPlayer struct {
	Body      Body
	Bhop      BhopState
	Inventory *Inventory
	Username  string

	id        atomic.Int64
	health    atomic.Int32
	maxHealth int
}

// NewLocalPlayer builds a standing player at spawn with full health and the
// configured weapons.
func NewLocalPlayer(username string, spawn mgl64.Vec3) *LocalPlayer {
	p := &LocalPlayer{
		Body: Body{
			Position:  spawn,
			EyeHeight: cfg.Movement.Height,
		},
		Bhop:      BhopState{Boost: cfg.Bhop.BaseBoost},
		Inventory: NewInventory(cfg.Weapons),
		Username:  username,
		maxHealth: cfg.Combat.MaxHealth,
	}
	p.health.Store(int32(p.maxHealth))
	return p
}

func (p *LocalPlayer) Kind() Kind           { return KindLocalPlayer }
func (p *LocalPlayer) Position() mgl64.Vec3 { return p.Body.Position }
func (p *LocalPlayer) Yaw() float64         { return p.Body.Yaw }

// ID is the relay-assigned session id, zero before joining.
func (p *LocalPlayer) ID() int { return int(p.id.Load()) }

// SetID records the session id.
func (p *LocalPlayer) SetID(id int) { p.id.Store(int64(id)) }

func (p *LocalPlayer) Health() int { return int(p.health.Load()) }

// SetHealth stores v clamped to [0, max] and returns the stored value.
func (p *LocalPlayer) SetHealth(v int) int {
	v = ClampHealth(v, p.maxHealth)
	p.health.Store(int32(v))
	return v
}

func (p *LocalPlayer) Alive() bool { return p.Health() > 0 }

// Eye is the camera position.
func (p *LocalPlayer) Eye() mgl64.Vec3 {
	return p.Body.Position.Add(mgl64.Vec3{0, p.Body.EyeHeight, 0})
}

func (p *LocalPlayer) Bounds() geometry.Box {
	return geometry.BoxFromFeet(p.Body.Position, cfg.Combat.EnemyWidth, p.Body.EyeHeight)
}
