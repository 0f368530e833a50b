package attachments

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// RemoteSink uploads to a Supabase-style storage REST API and returns the
// durable public URL of the object.
type RemoteSink struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

func NewRemoteSink(baseURL, serviceKey, bucket string) *RemoteSink {
	return &RemoteSink{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RemoteSink) Store(data []byte, mimeType, ownerKey string) (string, error) {
	name := objectName(mimeType, ownerKey)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)

	req, err := http.NewRequest(http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading attachment %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<10))
		return "", fmt.Errorf("uploading attachment %s: status %d: %s", name, resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name), nil
}

func (s *RemoteSink) Remove(reference string) {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
	name := strings.TrimPrefix(reference, prefix)
	if name == reference || name == "" {
		return
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)

	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		log.Printf("Failed to build delete request for %s: %v", reference, err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("Failed to delete attachment %s: %v", reference, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Failed to delete attachment %s: status %d", reference, resp.StatusCode)
	}
}
