package domain

// AIConfig holds the text-generation endpoint settings. All three fields
// are independently required for any model call to proceed.
type AIConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// IsConfigured reports whether every required field is present
func (c AIConfig) IsConfigured() bool {
	return c.APIKey != "" && c.Model != "" && c.BaseURL != ""
}
