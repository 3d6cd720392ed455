// Package storage persists generated media artifacts and returns the URL a
// client can fetch them from. It defines the Storage port and implementations
// for local disk and S3.
package storage

import "context"

// Categories group artifacts by media type; they become path segments in the
// stored URL.
const (
	CategoryImages = "images"
	CategoryVideos = "videos"
	CategoryDecks  = "decks"
)

// Storage defines the interface for artifact persistence. Callers supply a
// unique filename per artifact, so saves do not need to be idempotent by name.
type Storage interface {
	// Save writes an artifact and returns the URL it is served from.
	Save(ctx context.Context, category, filename string, data []byte) (url string, err error)
}
