package submissionstorage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// SupabaseStorage talks to the Supabase Storage REST API.
type SupabaseStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

// NewSupabaseStorage creates a client for bucket at baseURL.
func NewSupabaseStorage(baseURL, bucket, serviceKey string, client *http.Client) *SupabaseStorage {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		client:     client,
	}
}

func (s *SupabaseStorage) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)
}

// PublicURL returns the public download URL of key.
func (s *SupabaseStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

// Upload stores body at key, overwriting an existing object.
func (s *SupabaseStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(key), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if size > 0 {
		req.ContentLength = size
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	s.authorize(req)

	if err := s.do(req); err != nil {
		return nil, err
	}
	return &Object{Key: key, URL: s.PublicURL(key), Size: size}, nil
}

// Delete removes key. A missing object is not an error.
func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	s.authorize(req)

	err = s.do(req)
	if apperrors.GetMetadata(err)["status"] == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *SupabaseStorage) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

func (s *SupabaseStorage) do(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Dependency("storage request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return apperrors.WithMetadata(apperrors.KindDependency, apperrors.CodeDependencyFailure,
		"storage returned "+strconv.Itoa(resp.StatusCode)+": "+strings.TrimSpace(string(msg)),
		map[string]any{"status": resp.StatusCode},
	)
}
