package resend

// Config holds Resend transport configuration.
type Config struct {
	APIKey  string `mapstructure:"apiKey" validate:"required"`
	From    string `mapstructure:"from"`    // used when the message has no sender
	BaseURL string `mapstructure:"baseURL"` // API endpoint override, mainly for tests
}
