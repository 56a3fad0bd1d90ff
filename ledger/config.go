package ledger

// Config holds configuration for a Ledger instance.
type Config struct {
	// MaxDigestLength caps the digest length accepted by CreateClaim,
	// in bytes. 0 disables the bound.
	//
	// The bound is enforced at creation time only: claims restored from
	// a snapshot are never retroactively rejected.
	MaxDigestLength int
}

// DefaultConfig returns the default configuration: unbounded digests.
func DefaultConfig() Config {
	return Config{
		MaxDigestLength: 0,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.MaxDigestLength < 0 {
		c.MaxDigestLength = 0
	}
}
