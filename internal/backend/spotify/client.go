// Package spotify suggests tracks from the Spotify Web API.
//
// Authentication uses the client-credentials grant, so no user login is
// involved; only the catalog endpoints are reachable.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	spotifyapi "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultTokenURL is Spotify's accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// SearchLimit is the number of playlists requested per search page.
	SearchLimit = 5

	// APITimeout is the timeout for each API call.
	APITimeout = 10 * time.Second
)

// Track is a playlist entry reduced to what the app displays.
type Track struct {
	ID      string
	Name    string
	Artists []string
}

// Client talks to the Web API with an app-only token.
type Client struct {
	api *spotifyapi.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	tokenURL string
	baseURL  string
	http     *http.Client
}

// WithTokenURL overrides the token endpoint.
func WithTokenURL(u string) Option {
	return func(o *options) { o.tokenURL = u }
}

// WithBaseURL overrides the Web API root, including the version path
// (for example "http://127.0.0.1:8080/v1/").
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") + "/" }
}

// WithHTTPClient sets the client used for token requests and as the
// transport base for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.http = c }
}

// New creates a client for the given app credentials.
// Tokens are fetched lazily and refreshed when they expire.
func New(ctx context.Context, clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client id and secret are required")
	}

	o := options{tokenURL: DefaultTokenURL}
	for _, opt := range opts {
		opt(&o)
	}

	if o.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.http)
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     o.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	var apiOpts []spotifyapi.ClientOption
	if o.baseURL != "" {
		apiOpts = append(apiOpts, spotifyapi.WithBaseURL(o.baseURL))
	}
	return &Client{api: spotifyapi.New(cc.Client(ctx), apiOpts...)}, nil
}

// FindPlaylist returns the ID of the first playlist matching query.
// Null entries are skipped; if the first page has none left, the next page is
// tried once. It returns "" when nothing matches.
func (c *Client) FindPlaylist(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	res, err := c.api.Search(ctx, query, spotifyapi.SearchTypePlaylist, spotifyapi.Limit(SearchLimit))
	if err != nil {
		return "", wrapError(err)
	}
	page := res.Playlists
	if page == nil {
		return "", nil
	}

	id := firstPlaylist(page)
	if id == "" && page.Next != "" {
		if err := c.api.NextPage(ctx, page); err != nil {
			return "", wrapError(err)
		}
		id = firstPlaylist(page)
	}
	return id, nil
}

// PlaylistTracks returns the tracks of a playlist in playlist order.
// Entries without a track, such as removed items or episodes, are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	page, err := c.api.GetPlaylistItems(ctx, spotifyapi.ID(playlistID))
	if err != nil {
		return nil, wrapError(err)
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		t := item.Track.Track
		if t == nil {
			continue
		}
		artists := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			artists = append(artists, a.Name)
		}
		tracks = append(tracks, Track{
			ID:      string(t.ID),
			Name:    t.Name,
			Artists: artists,
		})
	}
	return tracks, nil
}

// Suggest returns up to n tracks from the first playlist found for
// "<habit> playlist". No playlist is not an error.
func (c *Client) Suggest(ctx context.Context, habit string, n int) ([]Track, error) {
	id, err := c.FindPlaylist(ctx, strings.TrimSpace(habit)+" playlist")
	if err != nil {
		return nil, err
	}
	if id == "" {
		return []Track{}, nil
	}

	tracks, err := c.PlaylistTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tracks) > n {
		tracks = tracks[:n]
	}
	return tracks, nil
}

// firstPlaylist skips null entries, which decode to an empty ID.
func firstPlaylist(page *spotifyapi.SimplePlaylistPage) string {
	for _, p := range page.Playlists {
		if p.ID != "" {
			return string(p.ID)
		}
	}
	return ""
}

// wrapError wraps API errors with user-friendly messages.
// The SDK error stays reachable with errors.As.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("song lookup timed out")
	}

	var apiErr spotifyapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("spotify rejected the app credentials: %w", err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("spotify rate limit exceeded: %w", err)
		}
	}
	return fmt.Errorf("spotify: %w", err)
}
