package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BlockFit/internal/model"
)

// snapTolerance absorbs floating point noise before rounding up to whole units.
const snapTolerance = 1e-6

// bounds is an axis-aligned bounding box in drawing units.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func newBounds(x, y float64) bounds {
	return bounds{minX: x, minY: y, maxX: x, maxY: y}
}

func (b *bounds) extend(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

// gridSize rounds the box up to whole grid units.
func (b bounds) gridSize() (int, int) {
	return int(math.Ceil(b.maxX - b.minX - snapTolerance)),
		int(math.Ceil(b.maxY - b.minY - snapTolerance))
}

// ImportDXF imports blocks from a DXF file. Each LWPOLYLINE with at least
// three vertices and each CIRCLE becomes one block sized by its bounding box,
// rounded up to whole drawing units.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []bounds
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			shapes = append(shapes, lwPolylineBounds(e))

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			b := newBounds(cx-r, cy-r)
			b.extend(cx+r, cy+r)
			shapes = append(shapes, b)

		default:
			// Other entity types carry no block outline
		}
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, s := range shapes {
		w, h := s.gridSize()
		if w <= 0 || h <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", s.maxX-s.minX, s.maxY-s.minY))
			continue
		}
		result.Blocks = append(result.Blocks, model.NewBlock(fmt.Sprintf("DXF Block %d", i+1), w, h))
	}

	return result
}

// lwPolylineBounds returns the bounding box of a polyline. Bulged segments
// are sampled along their arc so that curved edges are covered.
func lwPolylineBounds(lw *entity.LwPolyline) bounds {
	first := lw.Vertices[0]
	b := newBounds(first[0], first[1])

	for i, v := range lw.Vertices {
		b.extend(v[0], v[1])

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			continue
		}
		next := lw.Vertices[(i+1)%len(lw.Vertices)]
		for _, p := range bulgeArcPoints(v[0], v[1], next[0], next[1], bulge, 32) {
			b.extend(p[0], p[1])
		}
	}
	return b
}

// bulgeArcPoints samples the arc between two vertices described by a DXF
// bulge factor (the tangent of a quarter of the included angle).
func bulgeArcPoints(x1, y1, x2, y2, bulge float64, numSegments int) [][2]float64 {
	dx := x2 - x1
	dy := y2 - y1
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return [][2]float64{{x1, y1}, {x2, y2}}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := (x1+x2)/2 + perpX*dist
	cy := (y1+y2)/2 + perpY*dist

	startAngle := math.Atan2(y1-cy, x1-cx)
	endAngle := math.Atan2(y2-cy, x2-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([][2]float64, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, [2]float64{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}
