// Package registry owns every entity the client knows about: the local
// player, the remote enemies keyed by session id, and transient bullets.
// All methods are safe for concurrent use by the tick and the receive loop.
package registry

import (
	"sync"

	"github.com/automoto/bhop-mp/archetypes"
	"github.com/automoto/bhop-mp/components"
	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Enemy is a value snapshot of a remote player.
type Enemy struct {
	id       int
	username string
	position mgl64.Vec3
	yaw      float64
	health   int
}

func (e Enemy) Kind() Kind           { return KindRemoteEnemy }
func (e Enemy) ID() int              { return e.id }
func (e Enemy) Username() string     { return e.username }
func (e Enemy) Position() mgl64.Vec3 { return e.position }
func (e Enemy) Yaw() float64         { return e.yaw }
func (e Enemy) Health() int          { return e.health }

func (e Enemy) Bounds() geometry.Box {
	return geometry.BoxFromFeet(e.position, cfg.Combat.EnemyWidth, cfg.Combat.EnemyHeight)
}

// Registry is the shared world state.
type Registry struct {
	mu      sync.RWMutex
	world   donburi.World
	enemies *orderedmap.OrderedMap[int, donburi.Entity]
	local   *LocalPlayer
}

func New(local *LocalPlayer) *Registry {
	return &Registry{
		world:   donburi.NewWorld(),
		enemies: orderedmap.NewOrderedMap[int, donburi.Entity](),
		local:   local,
	}
}

// Local returns the local player singleton.
func (r *Registry) Local() *LocalPlayer { return r.local }

// Join creates enemy id. A join for a live id updates it in place and keeps
// its position in join order; Join then returns false.
func (r *Registry) Join(id int, username string, position mgl64.Vec3, health int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entity, ok := r.enemies.Get(id); ok && r.world.Valid(entity) {
		entry := r.world.Entry(entity)
		components.Enemy.Get(entry).Username = username
		components.Transform.Get(entry).Position = position
		components.Health.Get(entry).Set(health)
		return false
	}

	entry := archetypes.Enemy.Spawn(r.world)
	components.Enemy.SetValue(entry, components.EnemyData{ID: id, Username: username})
	components.Transform.SetValue(entry, components.TransformData{Position: position})
	hp := components.HealthData{Max: cfg.Combat.MaxHealth}
	hp.Set(health)
	components.Health.SetValue(entry, hp)

	r.enemies.Set(id, entry.Entity())
	return true
}

// Leave destroys enemy id. It reports whether the enemy existed.
func (r *Registry) Leave(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.enemies.Get(id)
	if !ok {
		return false
	}
	r.enemies.Delete(id)
	if r.world.Valid(entity) {
		r.world.Remove(entity)
	}
	return true
}

// Enemy returns a snapshot of enemy id.
func (r *Registry) Enemy(id int) (Enemy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entryLocked(id)
	if !ok {
		return Enemy{}, false
	}
	return snapshotEnemy(entry), true
}

// UpdateTransform moves enemy id. Unknown ids are ignored.
func (r *Registry) UpdateTransform(id int, position mgl64.Vec3, yaw float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entryLocked(id)
	if !ok {
		return false
	}
	t := components.Transform.Get(entry)
	t.Position = position
	t.Yaw = yaw
	return true
}

// SetEnemyHealth overwrites enemy id's health, clamped.
func (r *Registry) SetEnemyHealth(id, health int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entryLocked(id)
	if !ok {
		return false
	}
	components.Health.Get(entry).Set(health)
	return true
}

// Damage subtracts amount from a living enemy and returns its new health.
// Dead or unknown enemies report false.
func (r *Registry) Damage(id, amount int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entryLocked(id)
	if !ok {
		return 0, false
	}
	hp := components.Health.Get(entry)
	if hp.Current <= 0 {
		return 0, false
	}
	hp.Set(hp.Current - amount)
	return hp.Current, true
}

// Enemies returns snapshots in join order.
func (r *Registry) Enemies() []Enemy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Enemy, 0, r.enemies.Len())
	for el := r.enemies.Front(); el != nil; el = el.Next() {
		if !r.world.Valid(el.Value) {
			continue
		}
		out = append(out, snapshotEnemy(r.world.Entry(el.Value)))
	}
	return out
}

// EnemyCount returns the number of live enemies.
func (r *Registry) EnemyCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enemies.Len()
}

// Cast tests the ray against enemy bounds. Hits carry the enemy id.
func (r *Registry) Cast(origin, direction mgl64.Vec3, maxDistance float64, ignore geometry.IgnoreSet) geometry.Hit {
	dir, ok := geometry.Unit(direction)
	if !ok {
		return geometry.Hit{}
	}

	best := geometry.Hit{}
	for _, e := range r.Enemies() {
		if ignore.Has(e.id) {
			continue
		}
		dist, normal, ok := e.Bounds().Intersect(origin, dir, maxDistance)
		if !ok {
			continue
		}
		best = geometry.Nearest(best, geometry.Hit{
			Hit:      true,
			Distance: dist,
			Point:    origin.Add(dir.Mul(dist)),
			Normal:   normal,
			Entity:   e.id,
		})
	}
	return best
}

// Snapshot lists every entity, local player first.
func (r *Registry) Snapshot() []Entity {
	var out []Entity
	if r.local != nil {
		out = append(out, r.local)
	}
	for _, e := range r.Enemies() {
		out = append(out, e)
	}
	for _, b := range r.Bullets() {
		out = append(out, b)
	}
	return out
}

func (r *Registry) entryLocked(id int) (*donburi.Entry, bool) {
	entity, ok := r.enemies.Get(id)
	if !ok || !r.world.Valid(entity) {
		return nil, false
	}
	return r.world.Entry(entity), true
}

func snapshotEnemy(entry *donburi.Entry) Enemy {
	data := components.Enemy.Get(entry)
	t := components.Transform.Get(entry)
	return Enemy{
		id:       data.ID,
		username: data.Username,
		position: t.Position,
		yaw:      t.Yaw,
		health:   components.Health.Get(entry).Current,
	}
}
