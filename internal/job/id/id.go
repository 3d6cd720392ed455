// Package id provides unique identifier generation for jobs and artifacts.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generate creates a new unique job ID.
// Format: job-<uuid>
func Generate() string {
	return "job-" + uuid.NewString()
}

// Deck creates a new presentation ID.
// Format: pres_<32 hex chars>
func Deck() string {
	return "pres_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Artifact creates a stored artifact filename with the given prefix and
// extension, e.g. Artifact("dalle3", "png") -> "dalle3_<uuid>.png".
func Artifact(prefix, ext string) string {
	return prefix + "_" + uuid.NewString() + "." + ext
}
