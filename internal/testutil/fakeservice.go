// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strings"
	"sync"

	"muse/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	images map[string][]string       // habit -> image URLs
	songs  map[string][]service.Song // habit -> songs

	// Calls records lookups as "images:<habit>" / "songs:<habit>".
	Calls []string

	// Error injection for testing
	SearchImagesErr error
	SuggestSongsErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		images: make(map[string][]string),
		songs:  make(map[string][]service.Song),
	}
}

// AddImages registers image results for a habit.
func (f *FakeService) AddImages(habit string, urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := normalize(habit)
	f.images[key] = append(f.images[key], urls...)
}

// AddSong registers a song result for a habit.
func (f *FakeService) AddSong(habit, id, name, artist string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := normalize(habit)
	f.songs[key] = append(f.songs[key], service.Song{ID: id, Name: name, Artist: artist})
}

// SearchImages implements service.Service.
func (f *FakeService) SearchImages(ctx context.Context, habit string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "images:"+normalize(habit))
	if f.SearchImagesErr != nil {
		return nil, f.SearchImagesErr
	}
	result := make([]string, len(f.images[normalize(habit)]))
	copy(result, f.images[normalize(habit)])
	return result, nil
}

// SuggestSongs implements service.Service.
func (f *FakeService) SuggestSongs(ctx context.Context, habit string) ([]service.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "songs:"+normalize(habit))
	if f.SuggestSongsErr != nil {
		return nil, f.SuggestSongsErr
	}
	result := make([]service.Song, len(f.songs[normalize(habit)]))
	copy(result, f.songs[normalize(habit)])
	return result, nil
}

func normalize(habit string) string {
	return strings.ToLower(strings.TrimSpace(habit))
}
