package systems

import (
	"math/rand/v2"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/registry"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/go-gl/mathgl/mgl64"
)

// Shot is the outcome of one trigger pull.
type Shot struct {
	Fired         bool
	ReloadStarted bool
	Bullet        protocol.BulletSpawn

	// Set when the shot damaged a living enemy.
	Hit          bool
	TargetID     int
	TargetHealth int
}

// Combat drives the active weapon: firing, hit resolution and slot changes.
type Combat struct {
	reg      *registry.Registry
	level    geometry.Caster
	reloader *Reloader
	rng      *rand.Rand
}

func NewCombat(reg *registry.Registry, level geometry.Caster, reloader *Reloader, rng *rand.Rand) *Combat {
	return &Combat{
		reg:      reg,
		level:    level,
		reloader: reloader,
		rng:      rng,
	}
}

// Fire pulls the trigger of the weapon in hand at simulation time now.
func (c *Combat) Fire(now time.Duration) Shot {
	p := c.reg.Local()
	if !p.Alive() {
		return Shot{}
	}
	w := p.Inventory.Active()
	if w == nil {
		return Shot{}
	}

	res := w.TryFire(now)
	shot := Shot{Fired: res.Fired, ReloadStarted: res.ReloadStarted}
	if res.ReloadStarted {
		c.reloader.Start(w)
	}
	if !res.Fired {
		return shot
	}

	damage := c.rollDamage(w)
	b := p.Body
	shot.Bullet = protocol.BulletSpawn{
		Position:   b.Position.Add(mgl64.Vec3{0, cfg.Combat.MuzzleHeight, 0}),
		Direction:  b.Yaw,
		XDirection: -b.Pitch,
		Damage:     damage,
	}
	c.reg.SpawnBullet(p.ID(), shot.Bullet.Position, b.Yaw, b.Pitch, damage)

	hit := c.trace(p)
	if !hit.Hit || hit.Entity == geometry.StaticEntity {
		return shot
	}
	if health, ok := c.reg.Damage(hit.Entity, damage); ok {
		shot.Hit = true
		shot.TargetID = hit.Entity
		shot.TargetHealth = health
	}
	return shot
}

// Select makes slot the active weapon and cancels the previous weapon's
// reload. Out of range slots are ignored.
func (c *Combat) Select(slot int) bool {
	prev, ok := c.reg.Local().Inventory.Select(slot)
	if !ok {
		return false
	}
	if prev != nil {
		c.reloader.Cancel(prev)
	}
	return true
}

func (c *Combat) trace(p *registry.LocalPlayer) geometry.Hit {
	origin := p.Eye()
	dir := geometry.Forward(p.Body.Yaw, p.Body.Pitch)
	ignore := geometry.Ignore(p.ID())

	return geometry.Nearest(
		c.level.Cast(origin, dir, cfg.Combat.MaxRange, ignore),
		c.reg.Cast(origin, dir, cfg.Combat.MaxRange, ignore),
	)
}

func (c *Combat) rollDamage(w *registry.Weapon) int {
	lo, hi := w.DamageRange()
	if hi <= lo {
		return lo
	}
	return lo + c.rng.IntN(hi-lo+1)
}
