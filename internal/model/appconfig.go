package model

// AppConfig holds application-wide preferences and default settings for
// new projects and operations.
type AppConfig struct {
	DefaultFlattenTolerance float64  `json:"default_flatten_tolerance"`
	DefaultStepover         float64  `json:"default_stepover"`
	DefaultSafeZ            float64  `json:"default_safe_z"`
	DefaultCutDepth         float64  `json:"default_cut_depth"`
	DefaultPassDepth        float64  `json:"default_pass_depth"`

	AutoSaveInterval int      `json:"auto_save_interval"` // minutes, 0 = disabled
	RecentProjects   []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultFlattenTolerance: 0.25,
		DefaultStepover:         0.4,
		DefaultSafeZ:            10.0,
		DefaultCutDepth:         5.0,
		DefaultPassDepth:        5.0,
		AutoSaveInterval:        0,
		RecentProjects:          []string{},
	}
}
