package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
)

// SupabaseStore implements BlobStore against the Supabase Storage API.
type SupabaseStore struct {
	supabaseURL string
	serviceKey  string
	bucket      string
	httpClient  *http.Client
}

// NewSupabaseStore creates a storage client for one bucket. Requires the
// service role key (SUPABASE_KEY) for write access.
func NewSupabaseStore(supabaseURL, serviceKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		supabaseURL: supabaseURL,
		serviceKey:  serviceKey,
		bucket:      bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Upload stores bytes under objectPath and returns the reference. Fails
// fast with ErrUnauthorized before any network call when no service key is
// configured.
func (s *SupabaseStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if err := s.requireKey(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.supabaseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	// Overwrite on re-upload of the same path instead of failing with 409
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("upload", objectPath, resp)
	}

	return objectPath, nil
}

// Delete removes an object. Supabase answers 400/404 for unknown objects;
// both count as already-gone and return nil, so asset cleanup can be
// retried without spurious failures.
func (s *SupabaseStore) Delete(ctx context.Context, objectPath string) error {
	if err := s.requireKey(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.supabaseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusBadRequest:
		return nil
	default:
		return statusError("delete", objectPath, resp)
	}
}

// List returns the object paths stored under a path prefix.
func (s *SupabaseStore) List(ctx context.Context, pathPrefix string) ([]string, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"prefix": pathPrefix,
		"limit":  1000,
	})
	if err != nil {
		return nil, fmt.Errorf("encode list request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", s.supabaseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", pathPrefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", pathPrefix, resp)
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, pathPrefix+"/"+entry.Name)
	}
	return paths, nil
}

// URL returns the public retrieval URL for a stored reference.
func (s *SupabaseStore) URL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.supabaseURL, s.bucket, (&url.URL{Path: objectPath}).EscapedPath())
}

func (s *SupabaseStore) requireKey() error {
	if s.serviceKey == "" {
		return &domain.UnauthorizedError{Message: "storage operations require a configured service key"}
	}
	return nil
}

func (s *SupabaseStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

func statusError(op, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s failed with status %d: %s", op, path, resp.StatusCode, string(body))
}
