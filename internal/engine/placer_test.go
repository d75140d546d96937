package engine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockFit/internal/model"
)

func blocksOf(sizes ...[2]int) []model.Block {
	blocks := make([]model.Block, len(sizes))
	for i, s := range sizes {
		blocks[i] = model.Block{ID: "b", Label: "B", Width: s[0], Height: s[1]}
	}
	return blocks
}

func rectOf(p model.PlacedBlock) [4]int {
	return [4]int{p.Left, p.Top, p.Right, p.Bottom}
}

// assertValidPlacement checks the invariants every successful result holds.
func assertValidPlacement(t *testing.T, blocks []model.Block, c model.Container, result model.Result) {
	t.Helper()

	require.Len(t, result.Placements, len(blocks), "every block is placed exactly once")

	seen := make(map[int]bool)
	for i, p := range result.Placements {
		assert.False(t, seen[p.InputIndex], "input index %d placed twice", p.InputIndex)
		seen[p.InputIndex] = true

		assert.GreaterOrEqual(t, p.Left, 0)
		assert.Less(t, p.Left, p.Right)
		assert.LessOrEqual(t, p.Right, c.Width)
		assert.GreaterOrEqual(t, p.Top, 0)
		assert.Less(t, p.Top, p.Bottom)
		assert.LessOrEqual(t, p.Bottom, c.Height)

		b := blocks[p.InputIndex]
		dims := [2]int{p.Width(), p.Height()}
		assert.Contains(t, [][2]int{{b.Width, b.Height}, {b.Height, b.Width}}, dims,
			"placement %d has dimensions of neither orientation", i)

		for j := i + 1; j < len(result.Placements); j++ {
			assert.False(t, p.Overlaps(result.Placements[j]),
				"placements %d and %d overlap: %v %v", i, j, rectOf(p), rectOf(result.Placements[j]))
		}
	}

	assert.GreaterOrEqual(t, result.Fullness, 0.0)
	assert.LessOrEqual(t, result.Fullness, 1.0)
}

func TestPlace_SingleBlockAtOrigin(t *testing.T) {
	c := model.Container{Width: 10, Height: 10}
	blocks := blocksOf([2]int{4, 4})

	result, err := New(model.DefaultSettings()).Place(blocks, c)

	require.NoError(t, err)
	require.Len(t, result.Placements, 1)
	assert.Equal(t, [4]int{0, 0, 4, 4}, rectOf(result.Placements[0]))
	assert.Equal(t, 1, result.Placements[0].OriginalOrder)
	assert.InDelta(t, 0.16, result.Fullness, 1e-9)
	assert.Equal(t, 16, result.UsedArea)
	assert.Equal(t, 0, result.BoundingWaste)
}

func TestPlace_FourQuadrants(t *testing.T) {
	c := model.Container{Width: 4, Height: 4}
	blocks := blocksOf([2]int{2, 2}, [2]int{2, 2}, [2]int{2, 2}, [2]int{2, 2})

	for _, cost := range model.CostStrategies {
		t.Run(string(cost), func(t *testing.T) {
			settings := model.DefaultSettings()
			settings.Cost = cost

			result, err := New(settings).Place(blocks, c)

			require.NoError(t, err)
			assertValidPlacement(t, blocks, c, result)

			got := make([][4]int, len(result.Placements))
			for i, p := range result.Placements {
				got[i] = rectOf(p)
			}
			assert.Equal(t, [][4]int{
				{0, 0, 2, 2},
				{0, 2, 2, 4},
				{2, 0, 4, 2},
				{2, 2, 4, 4},
			}, got)
			assert.InDelta(t, 1.0, result.Fullness, 1e-9)
		})
	}
}

func TestPlace_BlockLargerThanContainer(t *testing.T) {
	c := model.Container{Width: 5, Height: 5}

	_, err := New(model.DefaultSettings()).Place(blocksOf([2]int{6, 6}), c)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidBlock)
	var pe *model.PlacementError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.BlockIndex)
}

func TestPlace_BarAndRotatedBar(t *testing.T) {
	c := model.Container{Width: 3, Height: 3}
	blocks := blocksOf([2]int{3, 1}, [2]int{1, 3})

	result, err := New(model.DefaultSettings()).Place(blocks, c)

	require.NoError(t, err)
	assertValidPlacement(t, blocks, c, result)

	first, second := result.Placements[0], result.Placements[1]
	assert.Equal(t, [4]int{0, 0, 3, 1}, rectOf(first))
	assert.False(t, first.Rotated)
	assert.Equal(t, [4]int{0, 1, 3, 2}, rectOf(second))
	assert.True(t, second.Rotated, "the 1x3 bar only fits beside the first bar when lying down")
}

func TestPlace_InvalidContainer(t *testing.T) {
	for _, c := range []model.Container{{Width: 0, Height: 5}, {Width: 5, Height: -1}} {
		_, err := New(model.DefaultSettings()).Place(blocksOf([2]int{1, 1}), c)
		assert.ErrorIs(t, err, model.ErrInvalidContainer)
	}
}

func TestPlace_NonPositiveBlockReportsInputIndex(t *testing.T) {
	c := model.Container{Width: 10, Height: 10}
	blocks := blocksOf([2]int{2, 2}, [2]int{3, 3}, [2]int{0, 4})

	_, err := New(model.DefaultSettings()).Place(blocks, c)

	var pe *model.PlacementError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.InvalidBlock, pe.Kind)
	assert.Equal(t, 2, pe.BlockIndex)
}

func TestPlace_NoRoomLeftFails(t *testing.T) {
	c := model.Container{Width: 2, Height: 2}
	blocks := blocksOf([2]int{2, 2}, [2]int{1, 1})

	result, err := New(model.DefaultSettings()).Place(blocks, c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrPlacementFailure))
	assert.Empty(t, result.Placements, "a failed call returns no partial result")

	var pe *model.PlacementError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.BlockIndex)
}

func TestPlace_EmptyInput(t *testing.T) {
	result, err := New(model.DefaultSettings()).Place(nil, model.Container{Width: 3, Height: 3})

	require.NoError(t, err)
	assert.Empty(t, result.Placements)
	assert.Zero(t, result.Fullness)
}

func TestPlace_LabelModes(t *testing.T) {
	c := model.Container{Width: 5, Height: 5}
	blocks := blocksOf([2]int{1, 1}, [2]int{3, 3})

	sorted, err := New(model.DefaultSettings()).Place(blocks, c)
	require.NoError(t, err)

	// The 3x3 block is processed first even though it came second.
	assert.Equal(t, 1, sorted.Placements[0].InputIndex)
	assert.Equal(t, 1, sorted.Placements[0].OriginalOrder)
	assert.Equal(t, 0, sorted.Placements[1].InputIndex)
	assert.Equal(t, 2, sorted.Placements[1].OriginalOrder)

	settings := model.DefaultSettings()
	settings.Label = model.LabelInputIndex
	byInput, err := New(settings).Place(blocks, c)
	require.NoError(t, err)

	assert.Equal(t, 2, byInput.Placements[0].OriginalOrder)
	assert.Equal(t, 1, byInput.Placements[1].OriginalOrder)
	assert.Equal(t, rectOf(sorted.Placements[0]), rectOf(byInput.Placements[0]), "label mode never changes positions")
}

func TestPlace_StableOrderForEqualLongestSide(t *testing.T) {
	c := model.Container{Width: 2, Height: 2}
	blocks := blocksOf([2]int{2, 1}, [2]int{1, 2})

	result, err := New(model.DefaultSettings()).Place(blocks, c)

	require.NoError(t, err)
	assertValidPlacement(t, blocks, c, result)
	assert.Equal(t, 0, result.Placements[0].InputIndex)
	assert.Equal(t, [4]int{0, 0, 2, 1}, rectOf(result.Placements[0]))
	assert.Equal(t, 1, result.Placements[1].InputIndex)
	assert.Equal(t, [4]int{0, 1, 2, 2}, rectOf(result.Placements[1]))
	assert.True(t, result.Placements[1].Rotated)
}

func TestPlace_RotationRules(t *testing.T) {
	c := model.Container{Width: 3, Height: 1}
	tall := model.Block{Width: 1, Height: 3}

	result, err := New(model.DefaultSettings()).Place([]model.Block{tall}, c)
	require.NoError(t, err)
	assert.True(t, result.Placements[0].Rotated)
	assert.Equal(t, [4]int{0, 0, 3, 1}, rectOf(result.Placements[0]))

	noRotate := model.DefaultSettings()
	noRotate.AllowRotation = false
	_, err = New(noRotate).Place([]model.Block{tall}, c)
	assert.ErrorIs(t, err, model.ErrInvalidBlock)

	locked := tall
	locked.Locked = true
	_, err = New(model.DefaultSettings()).Place([]model.Block{locked}, c)
	assert.ErrorIs(t, err, model.ErrInvalidBlock)
}

func TestPlace_MixedLoadInvariants(t *testing.T) {
	c := model.Container{Width: 20, Height: 20}
	blocks := blocksOf(
		[2]int{3, 2}, [2]int{5, 5}, [2]int{1, 4}, [2]int{5, 5}, [2]int{3, 2},
		[2]int{1, 4}, [2]int{5, 5}, [2]int{3, 2}, [2]int{5, 5}, [2]int{3, 2},
		[2]int{1, 4}, [2]int{3, 2},
	)

	for _, cost := range model.CostStrategies {
		t.Run(string(cost), func(t *testing.T) {
			settings := model.DefaultSettings()
			settings.Cost = cost
			placer := New(settings)

			first, err := placer.Place(blocks, c)
			require.NoError(t, err)
			assertValidPlacement(t, blocks, c, first)
			assert.Equal(t, 142, first.UsedArea)
			assert.InDelta(t, 142.0/400.0, first.Fullness, 1e-9)

			second, err := placer.Place(blocks, c)
			require.NoError(t, err)
			assert.Equal(t, first, second, "placement must be deterministic")

			for i := 1; i < len(first.Placements); i++ {
				prev := first.Placements[i-1].Block.LongestSide()
				cur := first.Placements[i].Block.LongestSide()
				assert.GreaterOrEqual(t, prev, cur, "blocks are placed longest side first")
			}
		})
	}
}

func TestPlace_DoesNotMutateInput(t *testing.T) {
	blocks := blocksOf([2]int{1, 1}, [2]int{3, 3}, [2]int{2, 2})
	before := append([]model.Block(nil), blocks...)

	_, err := New(model.DefaultSettings()).Place(blocks, model.Container{Width: 6, Height: 6})

	require.NoError(t, err)
	assert.Equal(t, before, blocks)
}

func TestPlace_LogsEachBlockAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := New(model.DefaultSettings()).WithLogger(logger).
		Place(blocksOf([2]int{2, 2}, [2]int{1, 1}), model.Container{Width: 4, Height: 4})

	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("placed block")))
}

// exhaustiveSearch is the plain scan without the skip past blockers.
func exhaustiveSearch(p *Placer, b model.Block, placed []model.PlacedBlock, ext extent, c model.Container) (candidate, bool) {
	orientations := []bool{false}
	if p.Settings.CanRotate(b) {
		orientations = append(orientations, true)
	}
	var best candidate
	found := false
	for _, rotated := range orientations {
		w, h := b.Oriented(rotated)
		for x := 0; x <= c.Width-w; x++ {
			for y := 0; y <= c.Height-h; y++ {
				r := rect{x: x, y: y, w: w, h: h}
				if _, hit := firstOverlap(r, placed); hit || !interiorFree(r, placed) {
					continue
				}
				cost := p.cost(r, ext)
				if !found || cost < best.cost {
					best = candidate{rect: r, rotated: rotated, cost: cost}
					found = true
				}
			}
		}
	}
	return best, found
}

func TestSearch_MatchesExhaustiveScan(t *testing.T) {
	c := model.Container{Width: 9, Height: 7}
	placed := []model.PlacedBlock{
		{Left: 0, Top: 0, Right: 4, Bottom: 3},
		{Left: 4, Top: 0, Right: 6, Bottom: 5},
		{Left: 0, Top: 3, Right: 2, Bottom: 7},
		{Left: 7, Top: 2, Right: 9, Bottom: 4},
	}
	var ext extent
	for _, p := range placed {
		ext = ext.with(rect{x: p.Left, y: p.Top, w: p.Width(), h: p.Height()})
	}

	for _, cost := range model.CostStrategies {
		settings := model.DefaultSettings()
		settings.Cost = cost
		p := New(settings)

		for _, b := range blocksOf([2]int{1, 1}, [2]int{2, 3}, [2]int{3, 2}, [2]int{2, 2}, [2]int{1, 4}, [2]int{5, 5}) {
			got, gotOK := p.search(b, placed, ext, c)
			want, wantOK := exhaustiveSearch(p, b, placed, ext, c)
			assert.Equal(t, wantOK, gotOK, "%s %dx%d", cost, b.Width, b.Height)
			assert.Equal(t, want, got, "%s %dx%d", cost, b.Width, b.Height)
		}
	}
}
