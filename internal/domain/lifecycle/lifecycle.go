// Package lifecycle holds process lifecycle constants shared by fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks.
const DefaultTimeout = 15 * time.Second
