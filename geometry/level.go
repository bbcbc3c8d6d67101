package geometry

import (
	"math"
	"sync"

	"github.com/automoto/bhop-mp/shared/leveldata"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

const (
	tagSolid  = "solid"
	cellSize  = 4
	probeSize = 0.01
)

// Level is static axis-aligned geometry. Box footprints live in a resolv
// space on the XZ plane so a cast only slab-tests boxes its ray can touch.
type Level struct {
	mu      sync.Mutex
	boxes   []Box
	space   *resolv.Space
	offsetX float64
	offsetZ float64
	bounds  Box
	reach   float64
	spawns  []mgl64.Vec3
}

// NewLevel indexes boxes for casting. spawns may be empty.
func NewLevel(boxes []Box, spawns []mgl64.Vec3) *Level {
	l := &Level{
		boxes:  append([]Box(nil), boxes...),
		spawns: append([]mgl64.Vec3(nil), spawns...),
	}

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range l.boxes {
		minX, maxX = math.Min(minX, b.Min[0]), math.Max(maxX, b.Max[0])
		minY, maxY = math.Min(minY, b.Min[1]), math.Max(maxY, b.Max[1])
		minZ, maxZ = math.Min(minZ, b.Min[2]), math.Max(maxZ, b.Max[2])
	}
	if len(l.boxes) == 0 {
		minX, maxX, minY, maxY, minZ, maxZ = 0, 0, 0, 0, 0, 0
	}

	// resolv cells start at zero, so the footprint is shifted to be non-negative.
	l.offsetX = -minX + cellSize
	l.offsetZ = -minZ + cellSize
	width := int(math.Ceil(maxX-minX)) + 2*cellSize
	depth := int(math.Ceil(maxZ-minZ)) + 2*cellSize
	l.space = resolv.NewSpace(width, depth, cellSize, cellSize)
	l.bounds = Box{Min: mgl64.Vec3{minX, minY, minZ}, Max: mgl64.Vec3{maxX, maxY, maxZ}}
	l.reach = mgl64.Vec3{maxX - minX, maxY - minY, maxZ - minZ}.Len() + 2*cellSize

	for i, b := range l.boxes {
		w := b.Max[0] - b.Min[0]
		d := b.Max[2] - b.Min[2]
		obj := resolv.NewObject(b.Min[0]+l.offsetX, b.Min[2]+l.offsetZ, w, d, tagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, w, d))
		obj.Data = i
		l.space.Add(obj)
	}

	return l
}

// FromCollisionData builds a Level from a parsed TMX arena: a floor slab under
// the whole map plus one box per wall run.
func FromCollisionData(data *leveldata.CollisionData) *Level {
	halfW := data.Width / 2
	halfD := data.Depth / 2
	boxes := []Box{
		NewBox(mgl64.Vec3{-halfW, -1, -halfD}, mgl64.Vec3{halfW, 0, halfD}),
	}
	for _, w := range data.Walls {
		boxes = append(boxes, NewBox(
			mgl64.Vec3{w.X, 0, w.Z},
			mgl64.Vec3{w.X + w.W, w.Height, w.Z + w.D},
		))
	}

	spawns := make([]mgl64.Vec3, 0, len(data.SpawnPoints))
	for _, s := range data.SpawnPoints {
		spawns = append(spawns, mgl64.Vec3{s.X, 1, s.Z})
	}
	return NewLevel(boxes, spawns)
}

// Boxes returns a copy of the level geometry.
func (l *Level) Boxes() []Box {
	return append([]Box(nil), l.boxes...)
}

// Spawns returns the level's spawn points.
func (l *Level) Spawns() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), l.spawns...)
}

// Cast finds the nearest box along the ray. Static geometry is entity 0 and
// is never skipped by ignore.
func (l *Level) Cast(origin, direction mgl64.Vec3, maxDistance float64, _ IgnoreSet) Hit {
	dir, ok := Unit(direction)
	if !ok || maxDistance < 0 {
		return Hit{}
	}

	// A ray that enters the level does so within reach of the level's
	// nearest point, so the broadphase never has to look further than that.
	length := math.Min(maxDistance, l.bounds.Distance(origin)+l.reach)

	best := Hit{}
	for _, i := range l.candidates(origin, dir, length) {
		dist, normal, ok := l.boxes[i].Intersect(origin, dir, maxDistance)
		if !ok {
			continue
		}
		best = Nearest(best, Hit{
			Hit:      true,
			Distance: dist,
			Point:    origin.Add(dir.Mul(dist)),
			Normal:   normal,
			Entity:   StaticEntity,
		})
	}
	return best
}

// candidates returns indexes of boxes whose footprint overlaps the ray's XZ
// bounding rectangle, clipped to the level footprint.
func (l *Level) candidates(origin, dir mgl64.Vec3, length float64) []int {
	end := origin.Add(dir.Mul(length))
	x0 := math.Max(math.Min(origin[0], end[0]), l.bounds.Min[0])
	x1 := math.Min(math.Max(origin[0], end[0]), l.bounds.Max[0])
	z0 := math.Max(math.Min(origin[2], end[2]), l.bounds.Min[2])
	z1 := math.Min(math.Max(origin[2], end[2]), l.bounds.Max[2])
	if x0 > x1 || z0 > z1 {
		return nil
	}

	probe := resolv.NewObject(x0+l.offsetX, z0+l.offsetZ, math.Max(x1-x0, probeSize), math.Max(z1-z0, probeSize))

	l.mu.Lock()
	defer l.mu.Unlock()

	l.space.Add(probe)
	defer l.space.Remove(probe)

	check := probe.Check(0, 0, tagSolid)
	if check == nil {
		return nil
	}

	seen := make(map[int]struct{})
	var out []int
	for _, obj := range check.ObjectsByTags(tagSolid) {
		i, ok := obj.Data.(int)
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
