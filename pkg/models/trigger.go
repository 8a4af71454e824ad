package models

// TriggerConfig is the config payload of a trigger step. Event holds the
// event payload selected in the editor, used to seed the data context when
// the run is not handed an external payload. Schedule optionally carries a
// standard 5-field cron expression for scheduled workflows.
type TriggerConfig struct {
	Event    map[string]any `json:"event,omitempty"`
	Schedule string         `json:"schedule,omitempty"`
}

// DecodeTriggerConfig reads a trigger step's raw config map.
func DecodeTriggerConfig(config map[string]any) TriggerConfig {
	var cfg TriggerConfig

	if config == nil {
		return cfg
	}

	if event, ok := config["event"].(map[string]any); ok {
		cfg.Event = event
	}

	if schedule, ok := config["schedule"].(string); ok {
		cfg.Schedule = schedule
	}

	return cfg
}
