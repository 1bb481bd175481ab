package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// checkboxYes is the raw value the remote source stores for a ticked checkbox.
const checkboxYes = "YES"

// Image is the payload of an image value.
type Image struct {
	Filename string `json:"filename"`
}

// File is the payload of a file value: either an uploaded file or an external link.
type File struct {
	Filename string `json:"filename"`
	Filesize any    `json:"filesize"`
	Fileext  string `json:"fileext"`
	Link     string `json:"link"`
}

// Hosted reports whether the file was uploaded to the event host.
func (f File) Hosted() bool {
	return f.Filename != ""
}

// Checked reports whether a raw checkbox value is ticked.
func Checked(raw *string) bool {
	return raw != nil && *raw == checkboxYes
}

// ParseImage decodes an image payload.
func ParseImage(raw string) (Image, error) {
	var img Image
	if err := json.Unmarshal([]byte(raw), &img); err != nil {
		return Image{}, fmt.Errorf("decoding image value: %w", err)
	}
	if img.Filename == "" {
		return Image{}, fmt.Errorf("decoding image value: %w", ErrNoFile)
	}
	return img, nil
}

// ParseFile decodes a file payload. A payload without filename and link
// yields ErrNoFile.
func ParseFile(raw string) (File, error) {
	var f File
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return File{}, fmt.Errorf("decoding file value: %w", err)
	}
	if f.Filename == "" && f.Link == "" {
		return File{}, ErrNoFile
	}
	return f, nil
}

// ParseDuration decodes a decimal number of minutes. Precision is kept to
// the microsecond.
func ParseDuration(raw string) (time.Duration, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("decoding duration value: %w", err)
	}
	micros := math.Round(minutes * 60 * 1e6)
	return time.Duration(micros) * time.Microsecond, nil
}

// FormatDuration renders d as zero-padded MM:SS, dropping sub-second precision.
// Minutes are not wrapped into hours.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
