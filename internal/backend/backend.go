// Package backend implements service.Service with Google Custom Search for
// images and Spotify for songs.
package backend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"muse/internal/backend/googlesearch"
	"muse/internal/backend/spotify"
	"muse/internal/config"
	"muse/internal/onboarding"
	"muse/internal/service"
)

// ImageSearcher is the part of googlesearch.Client the backend uses.
type ImageSearcher interface {
	Search(ctx context.Context, query string, num int) ([]string, error)
}

// SongSuggester is the part of spotify.Client the backend uses.
type SongSuggester interface {
	Suggest(ctx context.Context, habit string, n int) ([]spotify.Track, error)
}

// Backend implements service.Service.
type Backend struct {
	images ImageSearcher
	songs  SongSuggester
	log    *zap.Logger
}

var _ service.Service = (*Backend)(nil)

// New builds both API clients from cfg's credentials.
func New(ctx context.Context, cfg *config.Config) (*Backend, error) {
	env := cfg.Env
	var missing []string
	if env.GoogleAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if env.GoogleCX == "" {
		missing = append(missing, "GOOGLE_CX")
	}
	if env.SpotifyClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if env.SpotifyClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	images, err := googlesearch.New(ctx, env.GoogleAPIKey, env.GoogleCX)
	if err != nil {
		return nil, err
	}
	songs, err := spotify.New(ctx, env.SpotifyClientID, env.SpotifyClientSecret)
	if err != nil {
		return nil, err
	}
	return NewWithClients(images, songs, cfg.Logger()), nil
}

// NewWithClients wires already-built clients (for testing).
func NewWithClients(images ImageSearcher, songs SongSuggester, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{images: images, songs: songs, log: log}
}

// SearchImages searches for "<habit> inspiration" and keeps the top results.
func (b *Backend) SearchImages(ctx context.Context, habit string) ([]string, error) {
	query := strings.TrimSpace(habit) + " inspiration"
	links, err := b.images.Search(ctx, query, googlesearch.MaxResults)
	if err != nil {
		b.log.Debug("image search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	if len(links) > onboarding.MaxImages {
		links = links[:onboarding.MaxImages]
	}
	b.log.Debug("image search", zap.String("query", query), zap.Int("results", len(links)))
	return links, nil
}

// SuggestSongs returns the top tracks of the first playlist for the habit.
func (b *Backend) SuggestSongs(ctx context.Context, habit string) ([]service.Song, error) {
	tracks, err := b.songs.Suggest(ctx, habit, onboarding.MaxSongs)
	if err != nil {
		b.log.Debug("song lookup failed", zap.String("habit", habit), zap.Error(err))
		return nil, err
	}

	songs := make([]service.Song, 0, len(tracks))
	for _, t := range tracks {
		songs = append(songs, service.Song{
			ID:     t.ID,
			Name:   t.Name,
			Artist: strings.Join(t.Artists, ", "),
		})
	}
	b.log.Debug("song lookup", zap.String("habit", habit), zap.Int("results", len(songs)))
	return songs, nil
}
