package registry

import (
	"testing"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestRegistry() *Registry {
	return New(NewLocalPlayer("me", mgl64.Vec3{0, 1, 0}))
}

func TestJoinJoinLeave(t *testing.T) {
	r := newTestRegistry()

	r.Join(7, "seven", mgl64.Vec3{1, 0, 0}, 100)
	r.Join(9, "nine", mgl64.Vec3{2, 0, 0}, 100)
	if !r.Leave(7) {
		t.Fatalf("leave 7 should report existing enemy")
	}

	enemies := r.Enemies()
	if len(enemies) != 1 || enemies[0].ID() != 9 {
		t.Fatalf("enemies = %+v, want exactly 9", enemies)
	}
	if _, ok := r.Enemy(7); ok {
		t.Fatalf("enemy 7 still present")
	}
}

func TestDoubleJoinUpdatesInPlace(t *testing.T) {
	r := newTestRegistry()

	if !r.Join(3, "first", mgl64.Vec3{1, 0, 0}, 100) {
		t.Fatalf("first join should create")
	}
	r.Join(4, "other", mgl64.Vec3{}, 100)
	if r.Join(3, "renamed", mgl64.Vec3{5, 0, 5}, 40) {
		t.Fatalf("second join should update, not create")
	}

	enemies := r.Enemies()
	if len(enemies) != 2 {
		t.Fatalf("enemies = %d, want 2", len(enemies))
	}
	first := enemies[0]
	if first.ID() != 3 || first.Username() != "renamed" || first.Health() != 40 {
		t.Fatalf("enemy 3 = %+v", first)
	}
	if first.Position() != (mgl64.Vec3{5, 0, 5}) {
		t.Fatalf("position = %v", first.Position())
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	r := newTestRegistry()
	r.Join(1, "one", mgl64.Vec3{}, 100)

	if r.Leave(42) {
		t.Fatalf("leave unknown reported true")
	}
	if r.Leave(1); r.Leave(1) {
		t.Fatalf("double leave reported true")
	}
	if r.UpdateTransform(42, mgl64.Vec3{1, 1, 1}, 90) {
		t.Fatalf("update unknown reported true")
	}
	if r.SetEnemyHealth(42, 10) {
		t.Fatalf("health unknown reported true")
	}
	if _, ok := r.Damage(42, 10); ok {
		t.Fatalf("damage unknown reported true")
	}
	if r.EnemyCount() != 0 {
		t.Fatalf("count = %d", r.EnemyCount())
	}
}

func TestHealthStaysInRange(t *testing.T) {
	r := newTestRegistry()
	r.Join(1, "one", mgl64.Vec3{}, 250)

	if e, _ := r.Enemy(1); e.Health() != 100 {
		t.Fatalf("joined health = %d, want clamp to 100", e.Health())
	}

	r.SetEnemyHealth(1, -20)
	if e, _ := r.Enemy(1); e.Health() != 0 {
		t.Fatalf("health = %d, want 0", e.Health())
	}
	if _, ok := r.Damage(1, 5); ok {
		t.Fatalf("damaging a dead enemy should fail")
	}

	r.SetEnemyHealth(1, 15)
	hp, ok := r.Damage(1, 20)
	if !ok || hp != 0 {
		t.Fatalf("damage = %d %v, want 0 true", hp, ok)
	}

	local := r.Local()
	if got := local.SetHealth(500); got != 100 || local.Health() != 100 {
		t.Fatalf("local health = %d", local.Health())
	}
	if got := local.SetHealth(-1); got != 0 || local.Alive() {
		t.Fatalf("local should be dead at 0, got %d", got)
	}
}

func TestUpdateTransform(t *testing.T) {
	r := newTestRegistry()
	r.Join(2, "two", mgl64.Vec3{}, 100)

	if !r.UpdateTransform(2, mgl64.Vec3{3, 4, 5}, 45) {
		t.Fatalf("update known enemy failed")
	}
	e, _ := r.Enemy(2)
	if e.Position() != (mgl64.Vec3{3, 4, 5}) || e.Yaw() != 45 {
		t.Fatalf("enemy = %+v", e)
	}
}

func TestCastHitsNearestEnemyAndSkipsIgnored(t *testing.T) {
	r := newTestRegistry()
	r.Join(5, "far", mgl64.Vec3{0, 0, 20}, 100)
	r.Join(6, "near", mgl64.Vec3{0, 0, 10}, 100)

	origin := mgl64.Vec3{0, 1, 0}
	forward := mgl64.Vec3{0, 0, 1}

	hit := r.Cast(origin, forward, 100, nil)
	if !hit.Hit || hit.Entity != 6 {
		t.Fatalf("hit = %+v, want enemy 6", hit)
	}

	hit = r.Cast(origin, forward, 100, geometry.Ignore(6))
	if !hit.Hit || hit.Entity != 5 {
		t.Fatalf("hit = %+v, want enemy 5 past ignored 6", hit)
	}

	if hit := r.Cast(origin, forward, 5, nil); hit.Hit {
		t.Fatalf("hit beyond range: %+v", hit)
	}
}

func TestBulletsExpire(t *testing.T) {
	r := newTestRegistry()
	r.SpawnBullet(1, mgl64.Vec3{0, 2, 0}, 0, 0, 15)

	r.StepBullets(time.Second)
	bullets := r.Bullets()
	if len(bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(bullets))
	}
	b := bullets[0]
	wantZ := cfg.Combat.BulletSpeed * 1
	if d := b.Position()[2] - wantZ; d > 1e-3 || d < -1e-3 {
		t.Fatalf("bullet z = %v, want %v", b.Position()[2], wantZ)
	}
	if b.Owner() != 1 || b.Damage() != 15 || b.Kind() != KindBullet {
		t.Fatalf("bullet = %+v", b)
	}

	r.StepBullets(cfg.Combat.BulletTTL)
	if n := len(r.Bullets()); n != 0 {
		t.Fatalf("bullets after ttl = %d", n)
	}
}

func TestSnapshotKinds(t *testing.T) {
	r := newTestRegistry()
	r.Join(1, "one", mgl64.Vec3{}, 100)
	r.SpawnBullet(1, mgl64.Vec3{}, 0, 0, 10)

	counts := map[Kind]int{}
	for _, e := range r.Snapshot() {
		switch e.Kind() {
		case KindLocalPlayer, KindRemoteEnemy, KindBullet:
			counts[e.Kind()]++
		default:
			t.Fatalf("unexpected kind %v", e.Kind())
		}
	}
	if counts[KindLocalPlayer] != 1 || counts[KindRemoteEnemy] != 1 || counts[KindBullet] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
