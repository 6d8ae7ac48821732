package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSidecar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg.metadata")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}
	return path
}

func TestParseSidecarTags(t *testing.T) {
	path := writeSidecar(t, "tags=sunset, beach ,nature\n")

	parsed, err := ParseSidecar(path)
	if err != nil {
		t.Fatalf("ParseSidecar returned error: %v", err)
	}

	want := []string{"sunset", "beach", "nature"}
	if !reflect.DeepEqual(parsed.Tags, want) {
		t.Errorf("tags = %v, want %v", parsed.Tags, want)
	}
	if len(parsed.Fields) != 0 {
		t.Errorf("fields = %v, want none", parsed.Fields)
	}
}

func TestParseSidecarSkipsEmptyTags(t *testing.T) {
	path := writeSidecar(t, "tags=a,, ,b\n")

	parsed, err := ParseSidecar(path)
	if err != nil {
		t.Fatalf("ParseSidecar returned error: %v", err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(parsed.Tags, want) {
		t.Errorf("tags = %v, want %v", parsed.Tags, want)
	}
}

func TestParseSidecarMalformedLines(t *testing.T) {
	path := writeSidecar(t, "location=San Francisco\nthis line has no separator\n=novalue\n\n")

	parsed, err := ParseSidecar(path)
	if err != nil {
		t.Fatalf("ParseSidecar returned error: %v", err)
	}

	if len(parsed.Fields) != 1 {
		t.Fatalf("fields = %v, want exactly one", parsed.Fields)
	}
	if parsed.Fields["location"] != "San Francisco" {
		t.Errorf("location = %q, want %q", parsed.Fields["location"], "San Francisco")
	}
}

func TestParseSidecarEmptyValue(t *testing.T) {
	path := writeSidecar(t, "caption=\n")

	parsed, err := ParseSidecar(path)
	if err != nil {
		t.Fatalf("ParseSidecar returned error: %v", err)
	}

	value, ok := parsed.Fields["caption"]
	if !ok {
		t.Fatal("caption field missing")
	}
	if value != "" {
		t.Errorf("caption = %q, want empty string", value)
	}
}

func TestParseSidecarMissingFile(t *testing.T) {
	if _, err := ParseSidecar(filepath.Join(t.TempDir(), "absent.metadata")); err == nil {
		t.Error("expected error for missing sidecar file")
	}
}
