package population

import "github.com/Emeline-1/citygen/geom"

// gridIndex deduplicates grid-snapped probe locations. Offsets snapped to
// the same grid cell of the same core transform to identical world
// coordinates; each axis is truncated to integer millimeters to form the
// map key, so locations closer than a millimeter on both axes also count
// as duplicates.
type gridIndex struct {
	seen map[gridKey]struct{}
}

type gridKey struct {
	x, y int64
}

func newGridIndex() *gridIndex {
	return &gridIndex{seen: make(map[gridKey]struct{})}
}

// insert reports whether world is newly seen (true) or a duplicate of an
// already-indexed grid cell (false).
func (g *gridIndex) insert(world geom.Point2) bool {
	key := gridKey{x: millis(world.X), y: millis(world.Y)}
	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = struct{}{}
	return true
}

func millis(v float64) int64 {
	return int64(v * 1000)
}
