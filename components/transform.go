package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// TransformData is an entity's feet position and yaw in degrees.
type TransformData struct {
	Position mgl64.Vec3
	Yaw      float64
}

var Transform = donburi.NewComponentType[TransformData]()
