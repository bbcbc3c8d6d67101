package components

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// BulletData is a visual-only projectile. Travel is the tweened distance from
// Origin along Direction.
type BulletData struct {
	Owner     int
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // Unit vector
	Damage    int
	Travel    *gween.Tween
	Distance  float64
	Age       time.Duration
	TTL       time.Duration
}

var Bullet = donburi.NewComponentType[BulletData]()
