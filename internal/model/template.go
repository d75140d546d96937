package model

import (
	"time"

	"github.com/google/uuid"
)

// JobTemplate is a reusable block set: container, blocks and settings,
// never a computed placement.
type JobTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Container   Container `json:"container"`
	Blocks      []Block   `json:"blocks"`
	Settings    Settings  `json:"settings"`
}

// NewJobTemplate creates a new template from the given job inputs.
func NewJobTemplate(name, description string, container Container, blocks []Block, settings Settings) JobTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return JobTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Container:   container,
		Blocks:      copyBlocks(blocks),
		Settings:    settings,
	}
}

// ToJob creates a new Job from this template.
// Blocks get fresh IDs so they are independent of the template.
func (t JobTemplate) ToJob(jobName string) Job {
	blocks := make([]Block, len(t.Blocks))
	for i, b := range t.Blocks {
		blocks[i] = NewBlock(b.Label, b.Width, b.Height)
		blocks[i].Locked = b.Locked
	}

	return Job{
		Name:      jobName,
		Container: t.Container,
		Blocks:    blocks,
		Settings:  t.Settings,
	}
}

// TemplateStore holds a collection of job templates.
type TemplateStore struct {
	Templates []JobTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []JobTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t JobTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *JobTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *JobTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyBlocks(blocks []Block) []Block {
	if blocks == nil {
		return []Block{}
	}
	cp := make([]Block, len(blocks))
	copy(cp, blocks)
	return cp
}
