package media

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	// register decoders for image.DecodeConfig; jpeg/png/gif/tiff/bmp come
	// in via the imaging import in thumbnail.go
	_ "golang.org/x/image/webp"
)

// TechnicalInfo holds the embedded metadata extracted from one image
// file. Every field is optional; a fully-nil struct means the file
// carried no extractable data.
type TechnicalInfo struct {
	CapturedAt   *int64   `json:"captured_at,omitempty"` // Unix timestamp
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ExposureTime *string  `json:"exposure_time,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"`
	Orientation  *int     `json:"orientation,omitempty"`
}

// IsEmpty reports whether no field at all was populated
func (t *TechnicalInfo) IsEmpty() bool {
	return t.CapturedAt == nil && t.CameraMake == nil && t.CameraModel == nil &&
		t.Latitude == nil && t.Longitude == nil && t.ExposureTime == nil &&
		t.Aperture == nil && t.ISO == nil && t.FocalLength == nil && t.Orientation == nil
}

// textual fallbacks tried when the structured EXIF date is unreadable
var exifDateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// helper to safely get and convert a rational tag (like Aperture, FocalLength)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// sometimes stored as Int instead
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// helper to safely get and convert an integer tag (like ISO, Orientation)
func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.TrimRight(strings.TrimSpace(tag.String()), "\x00")
	val = strings.Trim(val, `"`)
	if val == "" {
		return nil
	}
	return &val
}

// getExposureTime formats the exposure as a human-readable fraction when
// possible (1/250), otherwise as seconds
func getExposureTime(exifData *exif.Exif) *string {
	tag, err := exifData.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}
	if num == 1 && den > 1 {
		s := fmt.Sprintf("1/%d", den)
		return &s
	}
	val := float64(num) / float64(den)
	if val >= 1.0 {
		s := fmt.Sprintf("%.1fs", val)
		return &s
	}
	s := fmt.Sprintf("%.4fs", val)
	return &s
}

// getCaptureTime tries the structured EXIF date first and falls back to
// parsing the raw DateTimeOriginal / DateTime strings in known layouts
func getCaptureTime(exifData *exif.Exif) *int64 {
	if dt, err := exifData.DateTime(); err == nil {
		ts := dt.Unix()
		return &ts
	}
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		raw := getString(exifData, field)
		if raw == nil {
			continue
		}
		for _, layout := range exifDateLayouts {
			if dt, err := time.ParseInLocation(layout, *raw, time.Local); err == nil {
				ts := dt.Unix()
				return &ts
			}
		}
	}
	return nil
}

// round to 8 fractional digits, the catalog's GPS precision
func roundCoord(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

// ReadDimensions decodes just the image header and returns pixel
// dimensions; either pointer may be nil when the file cannot be decoded
func ReadDimensions(filePath string) (*int, *int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata: failed to decode dimensions of %s: %w", filePath, err)
	}
	w, h := cfg.Width, cfg.Height
	return &w, &h, nil
}

// ExtractTechnical reads embedded image metadata from a file on disk.
// A file without EXIF data is not an error: the result is simply empty.
func ExtractTechnical(filePath string) (*TechnicalInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	exifData, err := exif.Decode(file)
	if err != nil {
		// file might just lack EXIF data
		log.Printf("metadata: no EXIF data found for %s: %v", filePath, err)
		return &TechnicalInfo{}, nil
	}

	info := &TechnicalInfo{
		CapturedAt:   getCaptureTime(exifData),
		CameraMake:   getString(exifData, exif.Make),
		CameraModel:  getString(exifData, exif.Model),
		ExposureTime: getExposureTime(exifData),
		Aperture:     getRational(exifData, exif.FNumber),
		ISO:          getInt(exifData, exif.ISOSpeedRatings),
		FocalLength:  getRational(exifData, exif.FocalLength),
		Orientation:  getInt(exifData, exif.Orientation),
	}

	if lat, long, err := exifData.LatLong(); err == nil {
		rLat, rLong := roundCoord(lat), roundCoord(long)
		info.Latitude = &rLat
		info.Longitude = &rLong
	}

	return info, nil
}
