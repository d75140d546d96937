package importer

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/BlockFit/internal/model"
)

// tomlJob is the layout of a TOML job file:
//
//	name = "crate"
//
//	[container]
//	width = 350
//	height = 300
//
//	[settings]
//	cost = "origin-distance"
//	allow_rotation = false
//
//	[[blocks]]
//	label = "Lid"
//	width = 40
//	height = 20
//	quantity = 2
type tomlJob struct {
	Name      string          `toml:"name"`
	Container *containerEntry `toml:"container"`
	Settings  *tomlSettings   `toml:"settings"`
	Blocks    []blockEntry    `toml:"blocks"`
}

// tomlSettings uses pointers so that omitted keys keep their defaults.
type tomlSettings struct {
	Cost          *string `toml:"cost"`
	Label         *string `toml:"label"`
	AllowRotation *bool   `toml:"allow_rotation"`
}

// ImportTOML imports a job description from a TOML file.
func ImportTOML(path string) ImportResult {
	result := ImportResult{}

	var job tomlJob
	md, err := toml.DecodeFile(path, &job)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse TOML: %v", err))
		return result
	}
	for _, key := range md.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Ignored unknown key '%s'", key.String()))
	}

	result.Name = job.Name
	if job.Container != nil {
		result.Container = containerFromEntry(*job.Container, &result)
	}
	if job.Settings != nil {
		if s, ok := settingsFromTOML(*job.Settings, &result); ok {
			result.Settings = &s
		}
	}
	appendEntries(&result, job.Blocks)
	return result
}

func settingsFromTOML(ts tomlSettings, result *ImportResult) (model.Settings, bool) {
	s := model.DefaultSettings()
	ok := true
	if ts.Cost != nil {
		cost, err := model.ParseCostStrategy(*ts.Cost)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Settings: %v", err))
			ok = false
		}
		s.Cost = cost
	}
	if ts.Label != nil {
		label, err := model.ParseLabelMode(*ts.Label)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Settings: %v", err))
			ok = false
		}
		s.Label = label
	}
	if ts.AllowRotation != nil {
		s.AllowRotation = *ts.AllowRotation
	}
	return s, ok
}
