// Package googlesearch looks up images with the Google Custom Search JSON API.
package googlesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// MaxResults is the largest page the API returns.
	MaxResults = 10

	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	searchTypeImage = "image"
)

// Client searches a programmable search engine for images.
type Client struct {
	svc *customsearch.Service
	cx  string
}

// New creates a client for the search engine cx, authenticated with apiKey.
// Extra options are appended, so tests can point the client at a fake server.
func New(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	if cx == "" {
		return nil, errors.New("google search engine id is empty")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &Client{svc: svc, cx: cx}, nil
}

// NewWithHTTPClient creates a client that sends requests through httpClient
// to endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, cx string) (*Client, error) {
	svc, err := customsearch.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, cx: cx}, nil
}

// Search returns the links of up to num image results for query, in API order.
// num is clamped to 1..MaxResults.
func (c *Client) Search(ctx context.Context, query string, num int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	num = min(max(num, 1), MaxResults)

	resp, err := c.svc.Cse.List().
		Cx(c.cx).
		Q(query).
		SearchType(searchTypeImage).
		Num(int64(num)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError(err)
	}

	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			continue
		}
		links = append(links, item.Link)
	}
	return links, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("image search timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest:
			return fmt.Errorf("image search rejected request: %s", apiErr.Message)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("image search quota exceeded or api key invalid: %w", err)
		}
	}

	return fmt.Errorf("image search: %w", err)
}
