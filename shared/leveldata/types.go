// Package leveldata parses TMX arena files into static collision data.
// It has no dependencies on ebitengine, donburi, or resolv; pure data only.
//
// A map is read top-down: tile column x maps to world X and tile row y maps
// to world Z, both centered on the map middle. One tile is one BlockSize
// square in world units.
package leveldata

// DefaultBlockSize is the world size of one tile.
const DefaultBlockSize = 2.0

// DefaultWallBlocks is the wall height, in blocks, of a walls layer without a
// "height" property.
const DefaultWallBlocks = 2

// CollisionData holds all collision-relevant data parsed from a TMX level file.
type CollisionData struct {
	Walls       []WallRect
	SpawnPoints []SpawnPoint
	BlockSize   float64
	Width       float64 // World extent along X
	Depth       float64 // World extent along Z
}

// WallRect is a run of wall tiles in one row, extruded upward from the floor.
type WallRect struct {
	X, Z   float64 // Minimum corner on the floor plane
	W, D   float64
	Height float64
}

// SpawnPoint represents a player spawn location on the floor plane.
type SpawnPoint struct {
	X, Z  float64
	Index int
}
