package media

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save test image %s: %v", name, err)
	}
	return path
}

func TestGenerateThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "wide.jpg", 640, 480)
	thumbDir := filepath.Join(dir, "thumbnails")

	savePath, err := GenerateThumbnail(src, thumbDir, 100)
	if err != nil {
		t.Fatalf("GenerateThumbnail returned error: %v", err)
	}

	if filepath.Base(savePath) != "wide_thumb.jpg" {
		t.Errorf("thumbnail name = %s, want wide_thumb.jpg", filepath.Base(savePath))
	}

	thumb, err := imaging.Open(savePath)
	if err != nil {
		t.Fatalf("failed to open generated thumbnail: %v", err)
	}
	bounds := thumb.Bounds()
	if bounds.Dx() > 100 || bounds.Dy() > 100 {
		t.Errorf("thumbnail %dx%d exceeds 100px bound", bounds.Dx(), bounds.Dy())
	}
	// aspect ratio preserved: 640x480 capped at 100 -> 100x75
	if bounds.Dx() != 100 || bounds.Dy() != 75 {
		t.Errorf("thumbnail %dx%d, want 100x75", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateThumbnailCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "pic.png", 50, 50)
	thumbDir := filepath.Join(dir, "nested", "thumbnails")

	if _, err := GenerateThumbnail(src, thumbDir, 32); err != nil {
		t.Fatalf("GenerateThumbnail returned error: %v", err)
	}
	if _, err := os.Stat(thumbDir); err != nil {
		t.Errorf("thumbnail directory was not created: %v", err)
	}
}

func TestGenerateThumbnailWebpFallsBackToJPEG(t *testing.T) {
	dir := t.TempDir()
	// imaging sniffs content on open, so a jpeg payload under a .webp
	// name stands in for a webp source without needing a webp encoder
	src := writeTestImage(t, dir, "clip.jpg", 60, 40)
	webpSrc := filepath.Join(dir, "clip.webp")
	if err := os.Rename(src, webpSrc); err != nil {
		t.Fatal(err)
	}

	savePath, err := GenerateThumbnail(webpSrc, filepath.Join(dir, "thumbnails"), 32)
	if err != nil {
		t.Fatalf("GenerateThumbnail returned error: %v", err)
	}
	if filepath.Base(savePath) != "clip_thumb.jpg" {
		t.Errorf("thumbnail name = %s, want clip_thumb.jpg", filepath.Base(savePath))
	}
	if _, err := imaging.Open(savePath); err != nil {
		t.Errorf("generated thumbnail unreadable: %v", err)
	}
}

func TestThumbnailExt(t *testing.T) {
	cases := map[string]string{
		".jpg":  ".jpg",
		".PNG":  ".PNG",
		".tif":  ".tif",
		".webp": ".jpg",
		".WEBP": ".jpg",
	}
	for ext, want := range cases {
		if got := thumbnailExt(ext); got != want {
			t.Errorf("thumbnailExt(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestGenerateThumbnailCorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(src, []byte("not an image at all"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, err := GenerateThumbnail(src, filepath.Join(dir, "thumbnails"), 100); err == nil {
		t.Error("expected error for corrupt source image")
	}
}
