// Package asset defines the image asset carried through the acquisition
// pipeline and the filename-based filtering helpers shared by all sources.
package asset

import (
	"path/filepath"
	"strings"
)

// Asset is one acquired image: raw bytes plus name and provenance.
// Identity within an acquisition session is (position in the session list, Name).
type Asset struct {
	ID        string // source-specific identifier (file ID, local path)
	Name      string // filename used as the correlation key downstream
	MimeType  string
	SizeBytes int64
	Provider  string // which source adapter produced the asset
	Data      []byte
}

// mimeTypes maps image file extensions to MIME types.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

// IsImageName reports whether the filename has a recognized image extension.
func IsImageName(name string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsImageMime reports whether the MIME type denotes an image.
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// MimeTypeFromName guesses the MIME type from the file extension.
// Returns application/octet-stream for unknown extensions.
func MimeTypeFromName(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// DedupeByName drops assets whose filename was already seen, keeping the
// first occurrence. Order is preserved.
func DedupeByName(assets []Asset) []Asset {
	seen := make(map[string]struct{}, len(assets))
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a)
	}
	return out
}

// FilterImages keeps only assets with an image MIME type. Assets without a
// MIME type are judged by filename extension.
func FilterImages(assets []Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.MimeType != "" {
			if IsImageMime(a.MimeType) {
				out = append(out, a)
			}
			continue
		}
		if IsImageName(a.Name) {
			out = append(out, a)
		}
	}
	return out
}

// Names returns the filenames of the assets in order.
func Names(assets []Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	return names
}
