package mastodon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// mediaService implements app.MediaService using the Mastodon API.
type mediaService struct {
	client *Client
}

// NewMediaService creates a MediaService backed by Mastodon.
func NewMediaService(client *Client) *mediaService {
	return &mediaService{client: client}
}

// Upload posts the file to the v2 media endpoint. A 200 means the
// attachment is immediately usable; a 202 means the server is still
// processing and Ready must be polled.
func (s *mediaService) Upload(ctx context.Context, path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading media file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", false, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", false, fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", false, fmt.Errorf("building upload form: %w", err)
	}

	body, code, err := s.client.PostMultipart(ctx, "/api/v2/media", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", false, fmt.Errorf("uploading media: %w", err)
	}
	if code != http.StatusOK && code != http.StatusAccepted {
		return "", false, checkStatus(http.MethodPost, "/api/v2/media", code, body)
	}

	var media struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &media); err != nil {
		return "", false, fmt.Errorf("parsing upload response: %w", err)
	}
	return media.ID, code == http.StatusOK, nil
}

// Ready polls the media endpoint. The API returns 206 while the attachment
// is still processing and 200 once a stable URL exists.
func (s *mediaService) Ready(ctx context.Context, id string) (bool, error) {
	path := fmt.Sprintf("/api/v1/media/%s", id)
	data, code, err := s.client.GetRaw(ctx, path)
	if err != nil {
		return false, fmt.Errorf("checking media %s: %w", id, err)
	}

	switch code {
	case http.StatusOK:
		return true, nil
	case http.StatusPartialContent:
		return false, nil
	default:
		return false, checkStatus(http.MethodGet, path, code, data)
	}
}
