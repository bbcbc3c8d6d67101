package systems

import (
	"math"
	"sync"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/registry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	down    = mgl64.Vec3{0, -1, 0}
	up      = mgl64.Vec3{0, 1, 0}
	axisDir = [4]mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1}}
)

// MoveInput is the held movement axes for one tick, each in [-1, 1].
type MoveInput struct {
	Forward float64 // W minus S
	Strafe  float64 // D minus A
}

// Controller steps the local player's movement against static geometry.
// Step, Jump, Look and ToggleCrouch belong to the tick; RequestJump may be
// called from any goroutine.
type Controller struct {
	level  geometry.Caster
	player *registry.LocalPlayer
	clock  func() time.Time

	now       time.Duration // Simulation time
	direction mgl64.Vec3

	jumpMu      sync.Mutex
	jumpQueued  bool
	lastRequest time.Time
}

func NewController(level geometry.Caster, player *registry.LocalPlayer) *Controller {
	player.Bhop = registry.BhopState{
		LandedAt: -time.Hour,
		Boost:    cfg.Bhop.BaseBoost,
	}
	return &Controller{
		level:  level,
		player: player,
		clock:  time.Now,
	}
}

// Now is the accumulated simulation time.
func (c *Controller) Now() time.Duration { return c.now }

// Direction is the last computed movement intent.
func (c *Controller) Direction() mgl64.Vec3 { return c.direction }

// JumpVelocity is the launch speed that peaks at the configured jump height.
func JumpVelocity() float64 {
	return math.Sqrt(2 * cfg.Movement.Gravity * cfg.Movement.JumpHeight)
}

// Spawn places the player at position and drops them onto the first surface
// below.
func (c *Controller) Spawn(position mgl64.Vec3) {
	b := &c.player.Body
	b.Position = position
	b.Velocity = mgl64.Vec3{}
	b.Grounded = false

	origin := position.Add(mgl64.Vec3{0, cfg.Movement.Height, 0})
	if hit := c.level.Cast(origin, down, math.Inf(1), nil); hit.Hit {
		b.Position[1] = hit.Point[1]
		b.Grounded = true
	}
}

// RequestJump queues a jump for the next grounded tick. Requests closer than
// the debounce interval are dropped.
func (c *Controller) RequestJump() bool {
	c.jumpMu.Lock()
	defer c.jumpMu.Unlock()

	now := c.clock()
	if !c.lastRequest.IsZero() && now.Sub(c.lastRequest) < cfg.Movement.JumpDebounce {
		return false
	}
	c.jumpQueued = true
	c.lastRequest = now
	return true
}

func (c *Controller) jumpPending() bool {
	c.jumpMu.Lock()
	defer c.jumpMu.Unlock()
	return c.jumpQueued
}

func (c *Controller) clearJump() {
	c.jumpMu.Lock()
	c.jumpQueued = false
	c.jumpMu.Unlock()
}

// Look turns the view. dx and dy are in look units, dy positive downward.
func (c *Controller) Look(dx, dy float64) {
	b := &c.player.Body
	m := cfg.Movement
	b.Yaw = math.Mod(b.Yaw+dx*m.MouseSensitivity, 360)
	b.Pitch = mgl64.Clamp(b.Pitch-dy*m.MouseSensitivity, -m.PitchLimit, m.PitchLimit)
}

// ToggleCrouch lowers the eye or stands back up when there is headroom. It
// returns the resulting crouch state.
func (c *Controller) ToggleCrouch() bool {
	b := &c.player.Body
	m := cfg.Movement

	if !b.Crouched {
		b.Crouched = true
		b.EyeHeight = m.Height * m.CrouchFactor
		return true
	}

	origin := b.Position.Add(mgl64.Vec3{0, m.Height * m.CrouchFactor, 0})
	if c.level.Cast(origin, up, m.Height*(1-m.CrouchFactor), nil).Hit {
		return true
	}
	b.Crouched = false
	b.EyeHeight = m.Height
	return false
}

// Step advances the simulation by dt.
func (c *Controller) Step(in MoveInput, dt time.Duration) {
	sec := dt.Seconds()
	c.now += dt
	b := &c.player.Body

	c.direction = c.intent(in)

	if b.Grounded && c.jumpPending() {
		c.Jump()
		c.clearJump()
	}

	if !c.obstructed() {
		c.moveHorizontal(sec)
	}

	c.resolveVertical(sec)

	bh := &c.player.Bhop
	if b.Grounded && c.now-bh.LandedAt > cfg.Bhop.Window {
		bh.Active = false
		bh.Chain = 0
		bh.Boost = cfg.Bhop.BaseBoost
	}
}

// Jump launches a grounded player. Inside the bhop window since landing it
// chains and amplifies horizontal speed.
func (c *Controller) Jump() {
	b := &c.player.Body
	if !b.Grounded {
		return
	}
	bh := &c.player.Bhop
	bp := cfg.Bhop

	if c.now-bh.LandedAt < bp.Window {
		bh.Active = true
		bh.Chain++
		bh.Boost = math.Min(bp.BaseBoost+float64(bh.Chain)*bp.BoostIncrement, bp.MaxBoost)
	}

	b.Grounded = false
	b.Velocity[1] = JumpVelocity()

	dir, ok := geometry.Unit(geometry.Horizontal(c.direction))
	if !ok {
		return
	}

	mult := bp.PlainBoost
	if bh.Active {
		mult = bh.Boost
	}
	limit := cfg.Movement.MaxSpeed * mult

	hv := geometry.Horizontal(b.Velocity)
	var boosted mgl64.Vec3
	if cur, moving := geometry.Unit(hv); moving && cur.Dot(dir) > bp.AlignThreshold {
		boosted = hv.Mul(mult)
		if boosted.Len() > limit {
			boosted = cur.Mul(limit)
		}
	} else {
		boosted = dir.Mul(limit)
	}
	b.Velocity[0] = boosted[0]
	b.Velocity[2] = boosted[2]
}

func (c *Controller) intent(in MoveInput) mgl64.Vec3 {
	forward, right := geometry.Flat(c.player.Body.Yaw)
	v := forward.Mul(in.Forward).Add(right.Mul(in.Strafe))
	if dir, ok := geometry.Unit(v); ok {
		return dir
	}
	return mgl64.Vec3{}
}

// obstructed probes along intent at foot and head height.
func (c *Controller) obstructed() bool {
	if c.direction.Len() == 0 {
		return false
	}
	m := cfg.Movement
	pos := c.player.Body.Position
	feet := pos.Add(mgl64.Vec3{0, m.FootProbeHeight, 0})
	head := pos.Add(mgl64.Vec3{0, m.Height - m.GroundSlack, 0})
	return c.level.Cast(feet, c.direction, m.ProbeDistance, nil).Hit ||
		c.level.Cast(head, c.direction, m.ProbeDistance, nil).Hit
}

func (c *Controller) moveHorizontal(sec float64) {
	b := &c.player.Body
	bh := &c.player.Bhop
	m := cfg.Movement

	if c.direction.Len() > 0 {
		accel := m.Acceleration
		if !b.Grounded && !bh.Active {
			accel *= m.AirControl
		}
		b.Velocity = b.Velocity.Add(c.direction.Mul(accel * sec))
	}

	// Friction never reverses velocity; it stops at zero.
	hv := geometry.Horizontal(b.Velocity)
	if speed := hv.Len(); speed > 0 {
		friction := m.AirFriction
		if b.Grounded {
			friction = m.Friction
		}
		drop := friction * sec
		if speed > drop {
			hv = hv.Mul((speed - drop) / speed)
		} else {
			hv = mgl64.Vec3{}
		}
	}

	limit := m.MaxSpeed
	if bh.Active {
		limit *= bh.Boost
	}
	if speed := hv.Len(); speed > limit {
		hv = hv.Mul(limit / speed)
	}
	b.Velocity[0] = hv[0]
	b.Velocity[2] = hv[2]

	move := b.Velocity.Mul(sec)
	move[1] = 0
	origin := b.Position.Add(mgl64.Vec3{0, m.AxisProbeHeight, 0})
	for _, dir := range axisDir {
		if !c.level.Cast(origin, dir, m.ProbeDistance, nil).Hit {
			continue
		}
		axis := 0
		if dir[2] != 0 {
			axis = 2
		}
		sign := dir[axis]
		if move[axis]*sign > 0 {
			move[axis] = 0
		}
		if b.Velocity[axis]*sign > 0 {
			b.Velocity[axis] = 0
		}
	}

	b.Position = b.Position.Add(move)
}

// resolveVertical probes for ground from head height. Rising players are
// never grounded so a jump survives its own tick.
func (c *Controller) resolveVertical(sec float64) {
	b := &c.player.Body
	m := cfg.Movement

	origin := b.Position.Add(mgl64.Vec3{0, m.Height, 0})
	hit := c.level.Cast(origin, down, math.Inf(1), nil)

	if hit.Hit && hit.Distance <= m.Height+m.GroundSlack && b.Velocity[1] <= 0 {
		if !b.Grounded {
			c.player.Bhop.LandedAt = c.now
		}
		b.Grounded = true
		b.Velocity[1] = 0
		if hit.Normal[1] > m.SlopeNormalY && hit.Point[1]-b.Position[1] < m.StepHeight {
			b.Position[1] = hit.Point[1]
		}
		return
	}

	b.Grounded = false
	b.Velocity[1] -= m.Gravity * sec
	b.Position[1] += b.Velocity[1] * sec
}
