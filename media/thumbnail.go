package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// GenerateThumbnail produces a bounded-box preview of the source image in
// thumbnailDir (created if absent), preserving aspect ratio with the
// longest side capped at maxSize. The output keeps the source extension
// when imaging can encode it and is named <basename>_thumb<ext>; formats
// without an encoder (webp) are saved as JPEG. Returns the saved path.
func GenerateThumbnail(sourcePath, thumbnailDir string, maxSize int) (string, error) {
	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return "", fmt.Errorf("thumbnail: failed to create directory %s: %w", thumbnailDir, err)
	}

	img, err := imaging.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("thumbnail: failed to open image %s: %w", sourcePath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ext)
	savePath := filepath.Join(thumbnailDir, base+"_thumb"+thumbnailExt(ext))

	if err := imaging.Save(thumb, savePath, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("thumbnail: failed to save %s: %w", savePath, err)
	}

	return savePath, nil
}

// thumbnailExt keeps the source extension when imaging has an encoder
// for it; webp decodes but cannot be encoded, so its previews fall back
// to JPEG
func thumbnailExt(ext string) string {
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		return ".jpg"
	}
	return ext
}
