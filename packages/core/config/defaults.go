package config

const (
	// DefaultBaseURL is where the facts service listens when run locally
	DefaultBaseURL = "http://localhost:8080"
	// DefaultFactsPath is the facts collection
	DefaultFactsPath = "/animals/facts"
	// DefaultQueryPath is the question endpoint
	DefaultQueryPath = "/animals"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		FactsPath:       DefaultFactsPath,
		QueryPath:       DefaultQueryPath,
		Timeout:         30000, // 30 seconds
		FollowRedirects: boolPtr(true),
		MaxRedirects:    10,
		ValidateSSL:     boolPtr(true),
		Proxy:           "",
		Headers:         nil,
		Output:          "console",
		Verbose:         boolPtr(false),
		NoColor:         boolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == defaults.BaseURL &&
		c.FactsPath == defaults.FactsPath &&
		c.QueryPath == defaults.QueryPath &&
		c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.Output == defaults.Output &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
