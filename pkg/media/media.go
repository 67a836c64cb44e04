// Package media validates uploaded files and decides where they live in
// object storage. Validation runs before anything is written so a rejected
// request never leaves orphaned objects behind.
package media

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"time"
)

// Upload field names, fixed by the client forms.
const (
	FieldReportImages = "reportImages"
	FieldVoiceNote    = "voice_note"
	FieldPostImage    = "postImage"
)

// MaxFileSize caps any single uploaded file at 20 MB.
const MaxFileSize = 20 * 1000 * 1000

// MaxReportImages limits how many images one report may carry.
const MaxReportImages = 5

// URLPrefix is the fixed path prefix media is served back under.
const URLPrefix = "/uploads/"

var imageExts = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
}

var audioExts = map[string]bool{
	".webm": true, ".mp3": true, ".wav": true, ".ogg": true, ".mpeg": true,
}

var imageMimes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true,
}

var audioMimes = map[string]bool{
	"audio/webm": true, "audio/mp3": true, "audio/wav": true, "audio/ogg": true,
	"audio/mpeg": true, "video/webm": true,
}

// subdir maps an upload field to its storage prefix.
func subdir(field string) (string, error) {
	switch field {
	case FieldReportImages:
		return "images", nil
	case FieldVoiceNote:
		return "audio", nil
	case FieldPostImage:
		return "postImages", nil
	}
	return "", fmt.Errorf("invalid fieldname %q", field)
}

// Validate checks a single file against the rules for its field: both the
// extension and the declared content type must match the expected family.
func Validate(field, filename, contentType string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("file %q exceeds the %d byte limit", filename, MaxFileSize)
	}

	ext := strings.ToLower(path.Ext(filename))
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	switch field {
	case FieldReportImages, FieldPostImage:
		if !imageExts[ext] || !imageMimes[mime] {
			return fmt.Errorf("only image files are allowed")
		}
	case FieldVoiceNote:
		if !audioExts[ext] || !audioMimes[mime] {
			return fmt.Errorf("only audio files are allowed")
		}
	default:
		return fmt.Errorf("invalid fieldname %q", field)
	}
	return nil
}

// ObjectKey builds the storage key for an accepted upload:
// <subdir>/<field>-<timestamp>-<rand><ext>, mirroring how uploads were
// always named on disk so existing stored URLs keep resolving.
func ObjectKey(field, filename string) (string, error) {
	dir, err := subdir(field)
	if err != nil {
		return "", err
	}
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return fmt.Sprintf("%s/%s-%s%s", dir, field, suffix, strings.ToLower(path.Ext(filename))), nil
}

// URLFor returns the public path a stored object is served under.
func URLFor(key string) string {
	return URLPrefix + key
}

// KeyFromURL reverses URLFor; it returns ok=false for paths outside the
// upload prefix.
func KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, URLPrefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
