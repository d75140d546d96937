package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultContainerWidth  int          `json:"default_container_width"`
	DefaultContainerHeight int          `json:"default_container_height"`
	DefaultCost            CostStrategy `json:"default_cost"`
	DefaultLabel           LabelMode    `json:"default_label"`
	DefaultAllowRotation   bool         `json:"default_allow_rotation"`

	// Application preferences
	RecentJobs []string `json:"recent_jobs"`
	LogLevel   string   `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultContainerWidth:  350,
		DefaultContainerHeight: 300,
		DefaultCost:            defaults.Cost,
		DefaultLabel:           defaults.Label,
		DefaultAllowRotation:   defaults.AllowRotation,
		RecentJobs:             []string{},
		LogLevel:               "info",
	}
}

// DefaultContainer returns the configured default container.
func (c AppConfig) DefaultContainer() Container {
	return Container{Width: c.DefaultContainerWidth, Height: c.DefaultContainerHeight}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// Empty strategy or label values leave the existing setting untouched.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultCost != "" {
		s.Cost = c.DefaultCost
	}
	if c.DefaultLabel != "" {
		s.Label = c.DefaultLabel
	}
	s.AllowRotation = c.DefaultAllowRotation
}

// AddRecentJob moves path to the front of the recent list, keeping at most
// limit entries.
func (c *AppConfig) AddRecentJob(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentJobs = recent
}
