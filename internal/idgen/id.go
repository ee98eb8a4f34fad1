// Package idgen generates opaque per-connection client IDs, scoped to the
// running process only.
package idgen

import "github.com/google/uuid"

// New returns a fresh, process-unique client ID.
func New() string {
	return uuid.NewString()
}
