package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/BlockFit/internal/model"
)

// blockEntry is one block as written in a JSON or TOML job file.
type blockEntry struct {
	Label    string `json:"label" toml:"label"`
	Width    int    `json:"width" toml:"width"`
	Height   int    `json:"height" toml:"height"`
	Quantity int    `json:"quantity" toml:"quantity"`
	Locked   bool   `json:"locked" toml:"locked"`
}

type containerEntry struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// jsonJob is the object form of a JSON job file.
type jsonJob struct {
	Name      string          `json:"name"`
	Container *containerEntry `json:"container"`
	Blocks    []blockEntry    `json:"blocks"`
}

// ImportJSON imports blocks from a JSON file.
func ImportJSON(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ParseJSON(data)
}

// ParseJSON accepts either a bare array of blocks, as in
//
//	[{"width": 40, "height": 20}, {"width": 10, "height": 10}]
//
// or an object with an optional container:
//
//	{"container": {"width": 350, "height": 300}, "blocks": [...]}
func ParseJSON(data []byte) ImportResult {
	result := ImportResult{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	var job jsonJob
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &job.Blocks); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse JSON: %v", err))
			return result
		}
	} else if err := json.Unmarshal(trimmed, &job); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse JSON: %v", err))
		return result
	}

	result.Name = job.Name
	if job.Container != nil {
		result.Container = containerFromEntry(*job.Container, &result)
	}
	appendEntries(&result, job.Blocks)
	return result
}

// containerFromEntry validates a container read from a job file.
func containerFromEntry(e containerEntry, result *ImportResult) *model.Container {
	c := model.Container{Width: e.Width, Height: e.Height}
	if err := model.ValidateContainer(c); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Container: %v", err))
		return nil
	}
	return &c
}

// appendEntries converts block entries into blocks, recording one error per
// invalid entry. A missing quantity means one block.
func appendEntries(result *ImportResult, entries []blockEntry) {
	if len(entries) == 0 {
		result.Errors = append(result.Errors, "No blocks found")
		return
	}

	for i, e := range entries {
		entryLabel := fmt.Sprintf("Block entry %d", i+1)
		if e.Width <= 0 || e.Height <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: Width and height must be positive (got %dx%d)", entryLabel, e.Width, e.Height))
			continue
		}

		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 || qty > maxQuantity {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: Quantity must be between 1 and %d", entryLabel, maxQuantity))
			continue
		}

		label := e.Label
		if label == "" {
			label = fmt.Sprintf("Block %d", len(result.Blocks)+1)
		}
		for n := 0; n < qty; n++ {
			b := model.NewBlock(label, e.Width, e.Height)
			b.Locked = e.Locked
			result.Blocks = append(result.Blocks, b)
		}
	}
}
