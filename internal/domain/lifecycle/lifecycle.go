// Package lifecycle defines shared timeouts for graceful startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds how long a component may take to shut down cleanly.
const DefaultTimeout = 30 * time.Second
