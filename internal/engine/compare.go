package engine

import (
	"github.com/piwi3910/BlockFit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the placement result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario
	Result         model.Result
	Err            error
	Fullness       float64
	BoundingWaste  int
	BoundingRight  int
	BoundingBottom int
	RotatedCount   int
}

// CompareScenarios runs the placer for each scenario and returns the results
// in scenario order. A failing scenario records its error and does not stop
// the others.
func CompareScenarios(scenarios []ComparisonScenario, blocks []model.Block, container model.Container) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Settings).Place(blocks, container)
		cr := ComparisonResult{Scenario: scenario, Result: result, Err: err}
		if err == nil {
			cr.Fullness = result.Fullness
			cr.BoundingWaste = result.BoundingWaste
			cr.BoundingRight, cr.BoundingBottom = result.BoundingBox()
			for _, p := range result.Placements {
				if p.Rotated {
					cr.RotatedCount++
				}
			}
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates comparison scenarios from the current
// settings, varying one parameter at a time.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	altCost := baseSettings
	if baseSettings.Cost == model.CostOriginDistance {
		altCost.Cost = model.CostBoundingWaste
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Bounding Waste Cost",
			Settings: altCost,
		})
	} else {
		altCost.Cost = model.CostOriginDistance
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Origin Distance Cost",
			Settings: altCost,
		})
	}

	if baseSettings.AllowRotation {
		noRotate := baseSettings
		noRotate.AllowRotation = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Rotation",
			Settings: noRotate,
		})
	}

	return scenarios
}
