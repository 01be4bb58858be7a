package intent

import "time"

// Config holds runtime knobs for the intent service.
type Config struct {
	Bounds    Bounds
	Mode      Mode
	MaxPasses int
	CacheSize int
	RunTTL    time.Duration
}

// DefaultConfig mirrors the defaults of the configuration file.
func DefaultConfig() Config {
	return Config{
		Bounds:    DefaultBounds(),
		Mode:      ModeStable,
		MaxPasses: 8,
		CacheSize: 4096,
		RunTTL:    24 * time.Hour,
	}
}
