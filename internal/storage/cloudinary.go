package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"net/url"
	"path"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads files to Cloudinary.
type CloudinaryStore struct {
	cld    *cld.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a cloudinary:// URL.
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	c, err := cld.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: c, folder: strings.Trim(folder, "/")}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(fh.Filename)
	res, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:       path.Join(s.folder, dir),
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, rawURL string) error {
	resourceType, publicID, err := PublicID(rawURL)
	if err != nil {
		return err
	}
	_, err = s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	return err
}

// PublicID extracts the resource type and public id from a delivery URL such as
// https://res.cloudinary.com/demo/video/upload/v1712/elite/videos/abc.mp4.
func PublicID(rawURL string) (resourceType, publicID string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i+1] != "upload" || i == 0 {
			continue
		}
		resourceType = parts[i]
		rest := parts[i+2:]
		if len(rest) > 0 && len(rest[0]) > 1 && rest[0][0] == 'v' && isDigits(rest[0][1:]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
		id := strings.Join(rest, "/")
		return resourceType, strings.TrimSuffix(id, path.Ext(id)), nil
	}
	return "", "", errors.New("storage: not a cloudinary url")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
