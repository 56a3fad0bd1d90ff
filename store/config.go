package store

// Config holds configuration for the Store.
type Config struct {
	// ClaimsTable is the name of the DynamoDB table holding committed
	// claims, one item per digest.
	// Default: "notary_claims"
	ClaimsTable string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ClaimsTable: "notary_claims",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.ClaimsTable == "" {
		c.ClaimsTable = "notary_claims"
	}
}
