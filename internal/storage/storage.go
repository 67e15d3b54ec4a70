// Package storage keeps uploaded files (CVs, pictures, videos) and exposes
// them under a public URL.
package storage

import (
	"context"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves uploads under a directory ("cvs", "formations/videos") and
// returns the public URL of the stored file.
type Store interface {
	Put(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName is a random file name keeping the original extension.
func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// DeleteQuietly removes a file and only logs failures. Empty URLs are ignored.
func DeleteQuietly(ctx context.Context, s Store, url string) {
	if url == "" || s == nil {
		return
	}
	if err := s.Delete(ctx, url); err != nil {
		log.Printf("storage: delete %s: %v", url, err)
	}
}
