// Package service defines the backend-agnostic interface for habit suggestions.
package service

import "context"

// Service defines the lookups the onboarding screens need.
// Commands never import Google or Spotify clients directly.
type Service interface {
	// SearchImages returns inspiration image URLs for a habit, best first.
	// At most four are returned. No results is an empty slice, not an error.
	SearchImages(ctx context.Context, habit string) ([]string, error)

	// SuggestSongs returns tracks from a playlist matching the habit.
	// At most four are returned. No results is an empty slice, not an error.
	SuggestSongs(ctx context.Context, habit string) ([]Song, error)
}
