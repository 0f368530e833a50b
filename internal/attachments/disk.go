package attachments

import (
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// DiskSink writes uploads under a local directory and returns
// "/uploads/<name>" references that the router serves statically.
type DiskSink struct {
	dir string
}

func NewDiskSink(dir string) (*DiskSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &DiskSink{dir: dir}, nil
}

func (s *DiskSink) Store(data []byte, mimeType, ownerKey string) (string, error) {
	name := objectName(mimeType, ownerKey)

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing attachment %s: %w", name, err)
	}

	return "/uploads/" + name, nil
}

func (s *DiskSink) Remove(reference string) {
	name := strings.TrimPrefix(reference, "/uploads/")
	if name == "" || strings.Contains(name, "/") {
		return
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove attachment %s: %v", reference, err)
	}
}

// Dir returns the directory backing the sink, for static route mounting.
func (s *DiskSink) Dir() string {
	return s.dir
}

// objectName builds a collision-resistant name, keeping an extension
// derived from the MIME type so browsers sniff the right thing back.
func objectName(mimeType, ownerKey string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return fmt.Sprintf("%s-%s%s", ownerKey, xid.New().String(), ext)
}
