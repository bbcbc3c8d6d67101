// Package geometry answers ray and probe queries against static level
// geometry. Every query returns a defined Hit; a miss is Hit{Hit: false}.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StaticEntity is the entity id reported for hits against level geometry.
const StaticEntity = 0

const epsilon = 1e-9

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max mgl64.Vec3
}

// NewBox returns the box spanning the two corners in any order.
func NewBox(a, b mgl64.Vec3) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// BoxFromFeet returns a box of the given footprint width and height standing
// on feet.
func BoxFromFeet(feet mgl64.Vec3, width, height float64) Box {
	h := width / 2
	return Box{
		Min: mgl64.Vec3{feet[0] - h, feet[1], feet[2] - h},
		Max: mgl64.Vec3{feet[0] + h, feet[1] + height, feet[2] + h},
	}
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Distance returns how far p is from the box, 0 when p is inside it.
func (b Box) Distance(p mgl64.Vec3) float64 {
	var d mgl64.Vec3
	for i := 0; i < 3; i++ {
		d[i] = math.Max(math.Max(b.Min[i]-p[i], 0), p[i]-b.Max[i])
	}
	return d.Len()
}

// Intersect runs a slab test of the ray origin + t*dir against the box, dir
// being a unit vector. It reports the entry distance and the face normal.
// Rays starting inside the box do not hit it.
func (b Box) Intersect(origin, dir mgl64.Vec3, maxDistance float64) (float64, mgl64.Vec3, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	var normal mgl64.Vec3

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < epsilon {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}

		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[i] = sign
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}

	if tMin < 0 || tMin > maxDistance {
		return 0, mgl64.Vec3{}, false
	}
	return tMin, normal, true
}

// Hit is the result of a Cast.
type Hit struct {
	Hit      bool
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Entity   int
}

// IgnoreSet lists entity ids a cast must pass through. The zero value
// ignores nothing.
type IgnoreSet map[int]struct{}

// Ignore builds an IgnoreSet.
func Ignore(ids ...int) IgnoreSet {
	s := make(IgnoreSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is ignored.
func (s IgnoreSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Caster is the probe query used by movement and hit resolution.
type Caster interface {
	Cast(origin, direction mgl64.Vec3, maxDistance float64, ignore IgnoreSet) Hit
}

// Nearest returns whichever hit is closer. Misses lose to hits.
func Nearest(a, b Hit) Hit {
	switch {
	case !a.Hit:
		return b
	case !b.Hit:
		return a
	case b.Distance < a.Distance:
		return b
	default:
		return a
	}
}

// Unit normalizes dir, reporting false for a zero vector.
func Unit(dir mgl64.Vec3) (mgl64.Vec3, bool) {
	l := dir.Len()
	if l < epsilon {
		return mgl64.Vec3{}, false
	}
	return dir.Mul(1 / l), true
}
