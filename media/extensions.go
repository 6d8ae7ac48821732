package media

import (
	"path/filepath"
	"strings"
)

var recognizedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsRecognizedImage checks the filename against the fixed image-extension
// allow-list, case-insensitively
func IsRecognizedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return recognizedImageExtensions[ext]
}

// NormalizedExtension returns the lowercase extension without the leading
// dot, e.g. "jpg" for "IMG_0001.JPG"
func NormalizedExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
