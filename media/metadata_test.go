package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadDimensions(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "dims.png", 320, 200)

	width, height, err := ReadDimensions(src)
	if err != nil {
		t.Fatalf("ReadDimensions returned error: %v", err)
	}
	if width == nil || *width != 320 {
		t.Errorf("width = %v, want 320", width)
	}
	if height == nil || *height != 200 {
		t.Errorf("height = %v, want 200", height)
	}
}

func TestReadDimensionsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.jpg")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadDimensions(path); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestExtractTechnicalNoExif(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "plain.jpg", 40, 30)

	info, err := ExtractTechnical(src)
	if err != nil {
		t.Fatalf("ExtractTechnical returned error: %v", err)
	}
	if !info.IsEmpty() {
		t.Errorf("expected empty result for an image without EXIF, got %+v", info)
	}
}

func TestTechnicalInfoIsEmpty(t *testing.T) {
	var info TechnicalInfo
	if !info.IsEmpty() {
		t.Error("zero TechnicalInfo should be empty")
	}

	model := "Canon EOS 5D Mark IV"
	info.CameraModel = &model
	if info.IsEmpty() {
		t.Error("TechnicalInfo with a camera model should not be empty")
	}
}

func TestRoundCoord(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{37.774929491234567, 37.77492949},
		{-122.419415501234, -122.4194155},
		{0, 0},
	}
	for _, c := range cases {
		if got := roundCoord(c.in); got != c.want {
			t.Errorf("roundCoord(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsRecognizedImage(t *testing.T) {
	recognized := []string{"a.jpg", "B.JPEG", "c.png", "d.GIF", "e.bmp", "f.tiff", "g.tif", "h.webp"}
	for _, name := range recognized {
		if !IsRecognizedImage(name) {
			t.Errorf("IsRecognizedImage(%q) = false, want true", name)
		}
	}

	rejected := []string{"notes.txt", "archive.zip", "noext", "photo.jpg.metadata"}
	for _, name := range rejected {
		if IsRecognizedImage(name) {
			t.Errorf("IsRecognizedImage(%q) = true, want false", name)
		}
	}
}

func TestNormalizedExtension(t *testing.T) {
	if got := NormalizedExtension("IMG_0001.JPG"); got != "jpg" {
		t.Errorf("NormalizedExtension = %q, want jpg", got)
	}
	if got := NormalizedExtension("noext"); got != "" {
		t.Errorf("NormalizedExtension = %q, want empty", got)
	}
}
