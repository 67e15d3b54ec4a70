package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrOutsideRoot = errors.New("storage: path outside root")

// LocalStore writes files to a directory served under PublicPrefix.
type LocalStore struct {
	root    string
	prefix  string
	baseURL string
}

func NewLocalStore(root, publicPrefix, baseURL string) *LocalStore {
	return &LocalStore{
		root:    root,
		prefix:  "/" + strings.Trim(publicPrefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStore) Put(_ context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir = strings.Trim(path.Clean("/"+dir), "/")
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0o755); err != nil {
		return "", err
	}
	name := path.Join(dir, objectName(fh.Filename))
	if err := writeFile(filepath.Join(s.root, filepath.FromSlash(name)), src); err != nil {
		return "", err
	}
	return s.baseURL + s.prefix + "/" + name, nil
}

// writeFile copies src to a new file at name. A failed copy leaves nothing behind.
func writeFile(name string, src io.Reader) error {
	dst, err := os.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
	}
	return err
}

// Delete removes the file behind a URL returned by Put. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	rel, err := s.relPath(url)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) relPath(url string) (string, error) {
	p := strings.TrimPrefix(url, s.baseURL)
	if !strings.HasPrefix(p, s.prefix+"/") {
		return "", ErrOutsideRoot
	}
	rel := path.Clean(strings.TrimPrefix(p, s.prefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideRoot
	}
	return rel, nil
}

// Handler serves stored files; mount it at the public prefix.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.prefix, http.FileServer(http.Dir(s.root)))
}

func (s *LocalStore) Prefix() string { return s.prefix }
