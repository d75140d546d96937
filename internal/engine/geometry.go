package engine

import "github.com/piwi3910/BlockFit/internal/model"

// rect is a candidate rectangle on the integer grid.
type rect struct {
	x, y, w, h int
}

// overlaps uses the half-open test: rectangles that only touch along an
// edge or a corner do not overlap.
func (r rect) overlaps(o model.PlacedBlock) bool {
	return r.x < o.Right && r.x+r.w > o.Left &&
		r.y < o.Bottom && r.y+r.h > o.Top
}

// interior returns the cells strictly inside the outermost ring of r.
// ok is false when r is too thin to have an interior (a side of 2 or less).
func (r rect) interior() (rect, bool) {
	if r.w <= 2 || r.h <= 2 {
		return rect{}, false
	}
	return rect{x: r.x + 1, y: r.y + 1, w: r.w - 2, h: r.h - 2}, true
}

// firstOverlap returns the first placed block r overlaps.
func firstOverlap(r rect, placed []model.PlacedBlock) (model.PlacedBlock, bool) {
	for _, o := range placed {
		if r.overlaps(o) {
			return o, true
		}
	}
	return model.PlacedBlock{}, false
}

// interiorFree reports whether no interior cell of r is covered by a placed
// block. A cell (i, j) spans [i, i+1) x [j, j+1), so the union of the
// interior cells is exactly the interior rect and one overlap test per
// placed block suffices.
func interiorFree(r rect, placed []model.PlacedBlock) bool {
	inner, ok := r.interior()
	if !ok {
		return true
	}
	_, hit := firstOverlap(inner, placed)
	return !hit
}

// extent tracks the origin-anchored bounding box and covered area of the
// blocks committed so far.
type extent struct {
	right, bottom int
	area          int
}

func (e extent) with(r rect) extent {
	return extent{
		right:  max(e.right, r.x+r.w),
		bottom: max(e.bottom, r.y+r.h),
		area:   e.area + r.w*r.h,
	}
}

// waste is the empty area inside the bounding box.
func (e extent) waste() int {
	return e.right*e.bottom - e.area
}
