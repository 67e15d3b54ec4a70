package validation

import (
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File returns the uploaded file for field. A non-file value under the same
// key is a type violation.
func (in *Input) File(field string) (*multipart.FileHeader, bool) {
	if fh, ok := in.files[field]; ok && fh != nil {
		return fh, true
	}
	if in.Has(field) {
		in.failType(field, "validation.file")
	}
	return nil, false
}

// contentTypes lists the detected types accepted for each extension.
// Containers are matched through their parents: a docx is also a zip.
var contentTypes = map[string][]string{
	"jpeg": {"image/jpeg"},
	"jpg":  {"image/jpeg"},
	"png":  {"image/png"},
	"webp": {"image/webp"},
	"mp4":  {"video/mp4", "audio/mp4", "video/x-m4v"},
	"mov":  {"video/quicktime"},
	"avi":  {"video/x-msvideo"},
	"webm": {"video/webm"},
	"pdf":  {"application/pdf"},
	"doc":  {"application/msword", "application/x-ole-storage"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// Mimes checks the file against an allow-list of extensions such as "pdf",
// "docx". Both the name and the sniffed content must agree with the list.
func (in *Input) Mimes(field string, fh *multipart.FileHeader, exts ...string) bool {
	if in.skip(field) || fh == nil {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !slices.Contains(exts, ext) || !contentMatches(fh, contentTypes[ext]) {
		in.Fail(field, "validation.mimes", strings.Join(exts, ", "))
		return false
	}
	return true
}

func contentMatches(fh *multipart.FileHeader, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	f, err := fh.Open()
	if err != nil {
		return false
	}
	defer f.Close()
	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return false
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, want := range accepted {
			if m.Is(want) {
				return true
			}
		}
	}
	return false
}

// MaxKB checks the file size in kilobytes.
func (in *Input) MaxKB(field string, fh *multipart.FileHeader, kb int64) bool {
	if in.skip(field) || fh == nil {
		return false
	}
	if fh.Size > kb*1024 {
		in.Fail(field, "validation.max.file", kb)
		return false
	}
	return true
}

// Common upload constraints.
var (
	ImageExts    = []string{"jpeg", "jpg", "png", "webp"}
	VideoExts    = []string{"mp4", "mov", "avi", "webm"}
	DocumentExts = []string{"pdf", "doc", "docx"}
)

const (
	ImageMaxKB    = 2048
	DocumentMaxKB = 2048
	VideoMaxKB    = 102400
)

// Upload validates an optional or required file field in one call.
func (in *Input) Upload(field string, required bool, maxKB int64, exts ...string) (*multipart.FileHeader, bool) {
	if required && !in.Required(field) {
		return nil, false
	}
	fh, ok := in.File(field)
	if !ok {
		return nil, false
	}
	okType := in.Mimes(field, fh, exts...)
	okSize := in.MaxKB(field, fh, maxKB)
	return fh, okType && okSize
}
