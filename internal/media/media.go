package media

import (
	"mime/multipart"
	"strings"
)

// MaxUploadBytes is the ceiling for a single uploaded image.
const MaxUploadBytes = 20 << 20 // 20 MB

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// ContentType returns the declared media type of an upload with any
// parameters (charset, boundary) stripped.
func ContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

// Allowed reports whether the declared type is an accepted upload format.
func Allowed(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// ExtensionMIME maps a file extension to the content type used when
// serving stored files back.
func ExtensionMIME(name string) string {
	switch {
	case strings.HasSuffix(name, ".jpg"), strings.HasSuffix(name, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
