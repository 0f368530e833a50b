// Package attachments abstracts where uploaded bytes live. A Sink is picked
// once at startup from STORAGE_BACKEND; callers never branch on which one is
// active.
package attachments

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/projethon/projethon/internal/apperror"
)

type Sink interface {
	// Store persists data and returns a reference (relative path or URL)
	// to record against the owning row.
	Store(data []byte, mimeType, ownerKey string) (string, error)

	// Remove deletes a previously stored reference. Best-effort: failures
	// are logged by the implementation, never returned to the caller.
	Remove(reference string)
}

const (
	defaultMaxFileMB   = 20
	defaultMaxAvatarMB = 5
)

var avatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var avatarExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func maxBytes(envKey string, defaultMB int64) int64 {
	if v := os.Getenv(envKey); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			return mb << 20
		}
		log.Printf("Ignoring invalid %s %q, using default %dMB", envKey, v, defaultMB)
	}
	return defaultMB << 20
}

func MaxFileBytes() int64 {
	return maxBytes("MAX_FILE_MB", defaultMaxFileMB)
}

func MaxAvatarBytes() int64 {
	return maxBytes("MAX_AVATAR_MB", defaultMaxAvatarMB)
}

// ValidateProjectFile bounds project uploads by size only; projects may
// attach any file type.
func ValidateProjectFile(size int64) error {
	if limit := MaxFileBytes(); size > limit {
		return apperror.Validation("file", fmt.Sprintf("file exceeds the %dMB limit", limit>>20))
	}
	return nil
}

// ValidateAvatar bounds avatar uploads by size and an image allow-list.
// Both the declared MIME type and the filename extension must be on the
// list, so renaming a binary to .png is not enough to get it through.
func ValidateAvatar(size int64, mimeType, filename string) error {
	if limit := MaxAvatarBytes(); size > limit {
		return apperror.Validation("avatar", fmt.Sprintf("avatar exceeds the %dMB limit", limit>>20))
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	if !avatarTypes[mt] || !avatarExtensions[strings.ToLower(filepath.Ext(filename))] {
		return apperror.Validation("avatar", "avatar must be a jpeg, jpg, png, gif or webp image")
	}

	return nil
}

// NewFromEnv builds the sink selected by STORAGE_BACKEND ("disk", "memory"
// or "remote"; default disk). A remote backend without credentials degrades
// to a logged no-op so the service still runs, per the deployment contract.
func NewFromEnv() (Sink, error) {
	backend := strings.ToLower(os.Getenv("STORAGE_BACKEND"))

	switch backend {
	case "", "disk":
		dir := os.Getenv("UPLOAD_DIR")
		if dir == "" {
			dir = "uploads"
		}
		return NewDiskSink(dir)
	case "memory":
		return NewMemorySink(), nil
	case "remote":
		url := os.Getenv("STORAGE_URL")
		key := os.Getenv("STORAGE_KEY")
		if url == "" || key == "" {
			log.Println("STORAGE_URL/STORAGE_KEY not set, attachment uploads will be skipped")
			return noopSink{}, nil
		}
		bucket := os.Getenv("STORAGE_BUCKET")
		if bucket == "" {
			bucket = "attachments"
		}
		return NewRemoteSink(url, key, bucket), nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", backend)
	}
}

// noopSink stands in when remote storage is configured without credentials.
// Store returns an empty reference, which callers treat as "keep whatever
// reference already exists".
type noopSink struct{}

func (noopSink) Store(data []byte, mimeType, ownerKey string) (string, error) {
	log.Printf("Skipping attachment upload for %s: object storage is not configured", ownerKey)
	return "", nil
}

func (noopSink) Remove(reference string) {}
