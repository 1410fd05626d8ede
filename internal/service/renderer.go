package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"equiprent-backend/internal/logger"
)

// httpDocumentRenderer calls the server-side rendering function that turns a
// booking into a contract document and returns the artifact URL.
type httpDocumentRenderer struct {
	endpoint string
	client   *http.Client
}

func NewDocumentRenderer(endpoint string) DocumentRenderer {
	return &httpDocumentRenderer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *httpDocumentRenderer) Render(ctx context.Context, bookingID string, fields map[string]string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id": bookingID,
		"fields":     fields,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("renderer", "Render", "booking_id", bookingID)
	resp, err := r.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("renderer", "Render", err)
		return "", fmt.Errorf("document render failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("document renderer error: status %d", resp.StatusCode)
		logger.ExternalServiceResult("renderer", "Render", err)
		return "", err
	}

	var result struct {
		DocumentURL string `json:"document_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if result.DocumentURL == "" {
		return "", fmt.Errorf("renderer returned no document url")
	}
	logger.ExternalServiceResult("renderer", "Render", nil, "document_url", result.DocumentURL)
	return result.DocumentURL, nil
}

// localFileSaver downloads a rendered document to a local directory. It
// stands in for the client-side save utility when the pipeline runs
// server-side.
type localFileSaver struct {
	dir    string
	client *http.Client
}

func NewFileSaver(dir string) FileSaver {
	return &localFileSaver{
		dir:    dir,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *localFileSaver) Download(ctx context.Context, url, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("download document: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
