package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SupabaseOptions configures the Supabase Storage backend.
type SupabaseOptions struct {
	BaseURL string
	APIKey  string
	Bucket  string
}

// SupabaseStorage talks to the Supabase Storage REST API.
type SupabaseStorage struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

func NewSupabaseStorage(opts SupabaseOptions) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		bucket:     opts.Bucket,
		httpClient: http.DefaultClient,
	}
}

func (s *SupabaseStorage) Put(ctx context.Context, key string, data io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL("object", key), data)
	if err != nil {
		return fmt.Errorf("failed to build storage request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

func (s *SupabaseStorage) Exists(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL("object/authenticated", key), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build storage request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("storage lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusBadRequest:
		// Supabase answers 400 for a missing object.
		return false, nil
	default:
		return false, fmt.Errorf("storage lookup failed: status %d", resp.StatusCode)
	}
}

func (s *SupabaseStorage) Close() error {
	return nil
}

func (s *SupabaseStorage) objectURL(route, key string) string {
	return s.baseURL + "/storage/v1/" + route + "/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

func (s *SupabaseStorage) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
