package config

// NewAppConfigForTest builds an AppConfig pointing at the given file path
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}
