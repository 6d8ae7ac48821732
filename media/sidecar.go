package media

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// SidecarSuffix is appended to an image path to locate its optional
// companion metadata file, e.g. photo.jpg -> photo.jpg.metadata
const SidecarSuffix = ".metadata"

// sidecarTagsKey is the reserved multi-value key
const sidecarTagsKey = "tags"

// SidecarMetadata is the parsed content of one sidecar file
type SidecarMetadata struct {
	Tags   []string
	Fields map[string]string
}

// SidecarPath returns the expected sidecar location for an image file
func SidecarPath(imagePath string) string {
	return imagePath + SidecarSuffix
}

// ParseSidecar reads a line-oriented key=value sidecar file. Malformed
// lines (no '=', or empty key) are skipped with a warning and never abort
// the parse. The reserved key "tags" is comma-split into trimmed,
// non-empty values; all other values are kept verbatim.
func ParseSidecar(path string) (*SidecarMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sidecar: failed to open %s: %w", path, err)
	}
	defer file.Close()

	result := &SidecarMetadata{Fields: make(map[string]string)}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			log.Printf("sidecar: skipping malformed line %d in %s", lineNo, path)
			continue
		}

		if key == sidecarTagsKey {
			for _, raw := range strings.Split(value, ",") {
				tag := strings.TrimSpace(raw)
				if tag != "" {
					result.Tags = append(result.Tags, tag)
				}
			}
			continue
		}

		result.Fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sidecar: failed to read %s: %w", path, err)
	}

	return result, nil
}
