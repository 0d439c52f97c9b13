package config

// ProcessingConfig holds prompt template overrides.
type ProcessingConfig struct {
	// Templates maps a capability name (acts, simplify, explain, predict,
	// dictionary, timeline, chat, general_chat) to a text/template body
	// replacing the built-in prompt.
	Templates map[string]string `yaml:"templates"`
}
