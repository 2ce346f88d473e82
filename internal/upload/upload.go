// Package upload stores uploaded images on local disk and exposes an echo
// middleware that accepts one file field per request.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"recipebook/internal/errors"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads"

// File describes a stored upload.
type File struct {
	Name         string
	URL          string
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// Store writes uploads into a single directory under generated names.
type Store struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewStore creates dir if needed.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// MaxSize returns the per-file size limit in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save checks fh is an image within the size limit and writes it to disk.
// The declared part type must be image/* unless it is absent or generic;
// the sniffed content type must always be image/*.
func (s *Store) Save(fh *multipart.FileHeader) (*File, error) {
	if fh.Size > s.maxSize {
		return nil, errors.ErrFileTooLarge
	}
	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "image/") {
		return nil, errors.ErrInvalidFileType
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("sniff upload: %w", err)
	}
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, errors.ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	name := s.generateName(fh.Filename)
	dst := filepath.Join(s.dir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	written, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	contentType := declared
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detected.String()
	}
	return &File{
		Name:         name,
		URL:          path.Join(URLPrefix, name),
		Path:         dst,
		OriginalName: fh.Filename,
		ContentType:  contentType,
		Size:         written,
	}, nil
}

// generateName returns <unix-millis>-<random><ext>, keeping the original extension.
func (s *Store) generateName(original string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, cleanExt(original))
}

func cleanExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
