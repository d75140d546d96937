package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/BlockFit/internal/model"
)

func TestRect_Overlaps(t *testing.T) {
	placed := model.PlacedBlock{Left: 2, Top: 2, Right: 5, Bottom: 4}

	tests := []struct {
		name string
		r    rect
		want bool
	}{
		{"inside", rect{x: 3, y: 2, w: 1, h: 1}, true},
		{"covering", rect{x: 0, y: 0, w: 8, h: 8}, true},
		{"touching left edge", rect{x: 0, y: 2, w: 2, h: 2}, false},
		{"touching top edge", rect{x: 2, y: 0, w: 3, h: 2}, false},
		{"touching corner", rect{x: 5, y: 4, w: 1, h: 1}, false},
		{"one cell in", rect{x: 4, y: 3, w: 3, h: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.overlaps(placed))
		})
	}
}

func TestRect_Interior(t *testing.T) {
	inner, ok := rect{x: 1, y: 2, w: 5, h: 4}.interior()
	assert.True(t, ok)
	assert.Equal(t, rect{x: 2, y: 3, w: 3, h: 2}, inner)

	_, ok = rect{w: 2, h: 10}.interior()
	assert.False(t, ok)
	_, ok = rect{w: 10, h: 1}.interior()
	assert.False(t, ok)
}

func TestInteriorFree(t *testing.T) {
	r := rect{x: 0, y: 0, w: 5, h: 5}

	assert.True(t, interiorFree(r, nil))
	assert.False(t, interiorFree(r, []model.PlacedBlock{{Left: 2, Top: 2, Right: 3, Bottom: 3}}),
		"a block enclosed by the candidate is rejected")
	assert.True(t, interiorFree(r, []model.PlacedBlock{{Left: 0, Top: 0, Right: 1, Bottom: 5}}),
		"the outer ring is not part of the interior")
	assert.True(t, interiorFree(rect{w: 2, h: 2}, []model.PlacedBlock{{Left: 0, Top: 0, Right: 2, Bottom: 2}}),
		"thin candidates have no interior to check")
}

func TestFirstOverlap_ReturnsEarliest(t *testing.T) {
	placed := []model.PlacedBlock{
		{Left: 0, Top: 0, Right: 1, Bottom: 1, InputIndex: 0},
		{Left: 3, Top: 0, Right: 4, Bottom: 2, InputIndex: 1},
		{Left: 3, Top: 2, Right: 4, Bottom: 5, InputIndex: 2},
	}

	o, hit := firstOverlap(rect{x: 2, y: 1, w: 2, h: 2}, placed)
	assert.True(t, hit)
	assert.Equal(t, 1, o.InputIndex)

	_, hit = firstOverlap(rect{x: 1, y: 1, w: 2, h: 2}, placed)
	assert.False(t, hit)
}

func TestExtent_Waste(t *testing.T) {
	var e extent
	assert.Equal(t, 0, e.waste())

	e = e.with(rect{x: 0, y: 0, w: 3, h: 1})
	assert.Equal(t, 0, e.waste())

	e = e.with(rect{x: 0, y: 1, w: 1, h: 2})
	assert.Equal(t, 3, e.right)
	assert.Equal(t, 3, e.bottom)
	assert.Equal(t, 5, e.area)
	assert.Equal(t, 4, e.waste())

	// A block away from the origin still counts the gap before it.
	far := extent{}.with(rect{x: 2, y: 2, w: 1, h: 1})
	assert.Equal(t, 8, far.waste())
}
