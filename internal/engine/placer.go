package engine

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/BlockFit/internal/model"
)

// Placer runs the greedy grid-scan placement.
type Placer struct {
	Settings model.Settings
	logger   *log.Logger
}

func New(settings model.Settings) *Placer {
	return &Placer{Settings: settings}
}

// WithLogger attaches a logger that receives one debug entry per committed
// block. A nil logger disables logging.
func (p *Placer) WithLogger(l *log.Logger) *Placer {
	p.logger = l
	return p
}

// candidate is a feasible position for the block being placed.
type candidate struct {
	rect
	rotated bool
	cost    int
}

// orderedBlock remembers where a block sat in the caller's input.
type orderedBlock struct {
	index int
	block model.Block
}

// Place positions every block inside the container and reports how full the
// container ends up. Blocks are processed longest side first; each one goes
// to the lowest-cost feasible position found by scanning every grid cell in
// both orientations, and is never moved afterwards.
//
// The call fails as a whole with a *model.PlacementError when the container
// or any block is invalid, or when a block finds no free position.
func (p *Placer) Place(blocks []model.Block, c model.Container) (model.Result, error) {
	if err := model.ValidateContainer(c); err != nil {
		return model.Result{}, err
	}
	for i, b := range blocks {
		if err := model.ValidateBlock(i, b, c, p.Settings); err != nil {
			return model.Result{}, err
		}
	}

	order := sortBlocks(blocks)
	placed := make([]model.PlacedBlock, 0, len(order))
	var ext extent

	for rank, ob := range order {
		best, ok := p.search(ob.block, placed, ext, c)
		if !ok {
			return model.Result{}, model.NewPlacementFailure(ob.index, ob.block)
		}

		pb := model.PlacedBlock{
			Left:          best.x,
			Top:           best.y,
			Right:         best.x + best.w,
			Bottom:        best.y + best.h,
			OriginalOrder: p.label(rank, ob.index),
			InputIndex:    ob.index,
			Rotated:       best.rotated,
			Block:         ob.block,
		}
		placed = append(placed, pb)
		ext = ext.with(best.rect)

		if p.logger != nil {
			p.logger.Debug("placed block",
				"rank", rank+1, "input", ob.index+1,
				"left", pb.Left, "top", pb.Top, "right", pb.Right, "bottom", pb.Bottom,
				"rotated", pb.Rotated, "cost", best.cost)
		}
	}

	result := model.Result{
		Container:     c,
		Placements:    placed,
		UsedArea:      ext.area,
		BoundingWaste: ext.waste(),
	}
	result.Fullness = float64(ext.area) / float64(c.Area())
	return result, nil
}

// sortBlocks orders blocks by longest side, descending. Ties keep their
// input order.
func sortBlocks(blocks []model.Block) []orderedBlock {
	order := make([]orderedBlock, len(blocks))
	for i, b := range blocks {
		order[i] = orderedBlock{index: i, block: b}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].block.LongestSide() > order[j].block.LongestSide()
	})
	return order
}

// search scans every top-left position for both orientations and returns
// the cheapest feasible candidate. Enumeration runs unrotated before
// rotated, then x ascending, then y ascending; the first minimum wins.
func (p *Placer) search(b model.Block, placed []model.PlacedBlock, ext extent, c model.Container) (candidate, bool) {
	orientations := []bool{false}
	if p.Settings.CanRotate(b) {
		orientations = append(orientations, true)
	}

	var best candidate
	found := false

	for _, rotated := range orientations {
		w, h := b.Oriented(rotated)
		if !c.Fits(w, h) {
			continue
		}
		for x := 0; x <= c.Width-w; x++ {
			for y := 0; y <= c.Height-h; {
				r := rect{x: x, y: y, w: w, h: h}

				// Every y below the blocker's bottom edge overlaps it too.
				if o, hit := firstOverlap(r, placed); hit {
					y = o.Bottom
					continue
				}
				if !interiorFree(r, placed) {
					y++
					continue
				}

				cost := p.cost(r, ext)
				if !found || cost < best.cost {
					best = candidate{rect: r, rotated: rotated, cost: cost}
					found = true
				}
				y++
			}
		}
	}
	return best, found
}

// cost scores a feasible candidate; lower is better.
func (p *Placer) cost(r rect, ext extent) int {
	switch p.Settings.Cost {
	case model.CostOriginDistance:
		return r.x + r.y
	default:
		return ext.with(r).waste()
	}
}

// label returns the 1-based OriginalOrder for the block placed at rank.
func (p *Placer) label(rank, inputIndex int) int {
	if p.Settings.Label == model.LabelInputIndex {
		return inputIndex + 1
	}
	return rank + 1
}
