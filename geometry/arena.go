package geometry

import "github.com/go-gl/mathgl/mgl64"

const (
	arenaHalf    = 45.0
	blockSize    = 2.0
	wallHeight   = 4.0
	barrierLow   = -42.0
	barrierHigh  = 40.0
	barrierTop   = 6.0
	innerWallX   = 6.0
	innerWallEnd = 8.0
)

// Arena builds the built-in map: a floor, an inner L-shaped wall near the
// spawn, and a barrier ring around the play area.
func Arena() *Level {
	var boxes []Box

	boxes = append(boxes, NewBox(
		mgl64.Vec3{-arenaHalf, -1, -arenaHalf},
		mgl64.Vec3{arenaHalf, 0, arenaHalf},
	))

	// Long leg along Z at x=6, short leg along X at z=8.
	h := blockSize / 2
	boxes = append(boxes,
		NewBox(
			mgl64.Vec3{innerWallX - h, 0, -h},
			mgl64.Vec3{innerWallX + h, wallHeight, innerWallEnd + h},
		),
		NewBox(
			mgl64.Vec3{-2 - h, 0, innerWallEnd - h},
			mgl64.Vec3{innerWallX - h, wallHeight, innerWallEnd + h},
		),
	)

	lo, hi := barrierLow, barrierHigh
	boxes = append(boxes,
		NewBox(mgl64.Vec3{lo - h, 0, lo - h}, mgl64.Vec3{lo + h, barrierTop, hi + h}),
		NewBox(mgl64.Vec3{hi - h, 0, lo - h}, mgl64.Vec3{hi + h, barrierTop, hi + h}),
		NewBox(mgl64.Vec3{lo - h, 0, lo - h}, mgl64.Vec3{hi + h, barrierTop, lo + h}),
		NewBox(mgl64.Vec3{lo - h, 0, hi - h}, mgl64.Vec3{hi + h, barrierTop, hi + h}),
	)

	return NewLevel(boxes, []mgl64.Vec3{{0, 1, 0}})
}
