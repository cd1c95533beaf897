package app

import "time"

// Defaults shared between flag parsing and file-config overlay.
const (
	InputDefault   = "-"
	OutputDefault  = "-"
	TimeoutDefault = 15 * time.Second
)

// Config holds runtime configuration for one capture run.
type Config struct {
	// InputPath is the payload JSON source; "-" reads stdin.
	InputPath string
	// OutputPath is where the result JSON goes; "-" writes stdout.
	OutputPath string

	// Fetch
	UserAgent string
	Timeout   time.Duration

	// Behavior
	Verbose bool
}
