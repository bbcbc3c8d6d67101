package registry

import (
	"math"
	"time"

	"github.com/automoto/bhop-mp/archetypes"
	"github.com/automoto/bhop-mp/components"
	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// Bullet is a value snapshot of a visual bullet.
type Bullet struct {
	owner     int
	position  mgl64.Vec3
	direction mgl64.Vec3
	damage    int
	age       time.Duration
}

func (b Bullet) Kind() Kind            { return KindBullet }
func (b Bullet) Owner() int            { return b.owner }
func (b Bullet) Position() mgl64.Vec3  { return b.position }
func (b Bullet) Direction() mgl64.Vec3 { return b.direction }
func (b Bullet) Damage() int           { return b.damage }
func (b Bullet) Age() time.Duration    { return b.age }

// Yaw is the heading of the bullet's flight.
func (b Bullet) Yaw() float64 {
	return mgl64.RadToDeg(math.Atan2(b.direction[0], b.direction[2]))
}

// SpawnBullet adds a bullet flying from origin along yaw/pitch in degrees
// (positive pitch up). It travels in a straight line until its TTL runs out.
func (r *Registry) SpawnBullet(owner int, origin mgl64.Vec3, yaw, pitch float64, damage int) {
	dir := geometry.Forward(yaw, pitch)
	ttl := cfg.Combat.BulletTTL
	reach := float32(cfg.Combat.BulletSpeed * ttl.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := archetypes.Bullet.Spawn(r.world)
	components.Transform.SetValue(entry, components.TransformData{Position: origin, Yaw: yaw})
	components.Bullet.SetValue(entry, components.BulletData{
		Owner:     owner,
		Origin:    origin,
		Direction: dir,
		Damage:    damage,
		Travel:    gween.New(0, reach, float32(ttl.Seconds()), ease.Linear),
		TTL:       ttl,
	})
}

// StepBullets advances every bullet by dt and removes expired ones.
func (r *Registry) StepBullets(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var toRemove []donburi.Entity
	tags.Bullet.Each(r.world, func(e *donburi.Entry) {
		b := components.Bullet.Get(e)
		b.Age += dt
		if b.Travel != nil {
			dist, _ := b.Travel.Update(float32(dt.Seconds()))
			b.Distance = float64(dist)
		}
		components.Transform.Get(e).Position = b.Origin.Add(b.Direction.Mul(b.Distance))

		if b.Age >= b.TTL {
			toRemove = append(toRemove, e.Entity())
		}
	})

	for _, entity := range toRemove {
		r.world.Remove(entity)
	}
}

// Bullets returns snapshots of every live bullet.
func (r *Registry) Bullets() []Bullet {
	// Queries may populate donburi's caches, so this takes the write lock.
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Bullet
	tags.Bullet.Each(r.world, func(e *donburi.Entry) {
		b := components.Bullet.Get(e)
		out = append(out, Bullet{
			owner:     b.Owner,
			position:  components.Transform.Get(e).Position,
			direction: b.Direction,
			damage:    b.Damage,
			age:       b.Age,
		})
	})
	return out
}
