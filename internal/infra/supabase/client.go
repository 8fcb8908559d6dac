package supabase

import (
	"fmt"

	"pdf-summarizer/internal/domain"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Client wraps the Supabase client used by the PostgREST-backed repositories.
type Client struct {
	client *supabase.Client
	url    string
	key    string
	logger domain.Logger
}

// NewClient establishes a Supabase client for the given project URL and anon key.
func NewClient(supabaseURL, supabaseKey string, logger domain.Logger) (*Client, error) {
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return &Client{
		client: client,
		url:    supabaseURL,
		key:    supabaseKey,
		logger: logger,
	}, nil
}

// From starts a PostgREST query against table.
func (c *Client) From(table string) *postgrest.QueryBuilder {
	return c.client.From(table)
}

// URL returns the project URL.
func (c *Client) URL() string {
	return c.url
}

// Key returns the API key sent with storage requests.
func (c *Client) Key() string {
	return c.key
}
