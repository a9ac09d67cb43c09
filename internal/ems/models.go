package ems

// Model defines capabilities and initialisation commands for an engine
// monitor device.
type Model struct {
	Slug            string   `json:"slug"`
	DisplayName     string   `json:"display_name"`
	MaxCylinders    int      `json:"max_cylinders"`
	HasFuelFlow     bool     `json:"has_fuel_flow"`
	HasGMeter       bool     `json:"has_g_meter"`
	DefaultBaudRate int      `json:"default_baud_rate"`
	InitCommands    []string `json:"init_commands"`
	Description     string   `json:"description"`
}

// SupportedModels is the application-level registry of engine monitor models.
var SupportedModels = map[string]Model{
	"cgr-30p": {
		Slug:            "cgr-30p",
		DisplayName:     "Electronics International CGR-30P",
		MaxCylinders:    9,
		HasFuelFlow:     true,
		HasGMeter:       true,
		DefaultBaudRate: 19200,
		// Reset recording state, emit a fresh column header, then start
		// streaming data rows once per second.
		InitCommands: []string{"RS", "HD", "D1"},
		Description:  "Primary engine monitor with per-cylinder EGT/CHT probes",
	},
}

// GetModel looks up an engine monitor model by slug.
func GetModel(slug string) (Model, bool) {
	model, ok := SupportedModels[slug]
	return model, ok
}

// AllModels returns a slice of all supported engine monitor models.
func AllModels() []Model {
	models := make([]Model, 0, len(SupportedModels))
	for _, model := range SupportedModels {
		models = append(models, model)
	}
	return models
}
