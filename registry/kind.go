package registry

import (
	"github.com/automoto/bhop-mp/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind tells entity variants apart.
type Kind int

const (
	KindLocalPlayer Kind = iota
	KindRemoteEnemy
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindLocalPlayer:
		return "local"
	case KindRemoteEnemy:
		return "enemy"
	case KindBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

// Positionable is anything placed in the world.
type Positionable interface {
	Position() mgl64.Vec3
	Yaw() float64
}

// Damageable is anything carrying health.
type Damageable interface {
	Health() int
}

// Collidable is anything a ray can hit.
type Collidable interface {
	Bounds() geometry.Box
}

// Entity is the common view over every variant.
type Entity interface {
	Positionable
	Kind() Kind
}

// ClampHealth bounds v to [0, max].
func ClampHealth(v, maxHealth int) int {
	return max(0, min(v, maxHealth))
}
