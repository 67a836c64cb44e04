package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civicsync/pkg/alerts"
	"civicsync/pkg/media"
	"civicsync/pkg/response"
	"civicsync/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const multipartMemory = 32 << 20

func createReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart payload", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// Media first, mirroring how the upload pipeline always behaved:
	// files land in storage as they stream in, and a rejected request
	// cleans up whatever the attempt already wrote.
	imageKeys, voiceKey, err := storeReportMedia(ctx, r.MultipartForm)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Upload rejected", err.Error())
		return
	}
	storedKeys := append(append([]string{}, imageKeys...), voiceKey...)

	category := strings.TrimSpace(r.FormValue("category"))
	name := strings.TrimSpace(r.FormValue("name"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	location := strings.TrimSpace(r.FormValue("location"))
	description := strings.TrimSpace(r.FormValue("description"))

	if category == "" || name == "" || phone == "" || location == "" || description == "" {
		store.RemoveAll(ctx, storedKeys)
		response.Error(w, http.StatusBadRequest, "All required text fields were not provided.", "")
		return
	}

	report := models.Report{
		ID:          primitive.NewObjectID(),
		Category:    category,
		Name:        name,
		Phone:       phone,
		Location:    location,
		Description: description,
		MapURL:      strings.TrimSpace(r.FormValue("map_url")),
		Details:     parseDetails(r.FormValue("details")),
		Status:      alerts.StatusPending,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
	}

	if lat, ok := parseCoord(r.FormValue("latitude")); ok {
		report.Latitude = &lat
	}
	if lng, ok := parseCoord(r.FormValue("longitude")); ok {
		report.Longitude = &lng
	}
	deadline, err := formDeadline(r.FormValue("deadline"))
	if err != nil {
		store.RemoveAll(ctx, storedKeys)
		response.Error(w, http.StatusBadRequest, "Invalid deadline", err.Error())
		return
	}
	report.Deadline = deadline

	for _, key := range imageKeys {
		report.ImageURLs = append(report.ImageURLs, media.URLFor(key))
	}
	if len(voiceKey) > 0 {
		report.VoiceNoteURL = media.URLFor(voiceKey[0])
	}

	if _, err := db.Collection("reports").InsertOne(ctx, report); err != nil {
		store.RemoveAll(ctx, storedKeys)
		response.Internal(w, "Failed to save report", err)
		return
	}

	// Re-read so generated fields in the broadcast and the response are
	// the store's, not ours.
	persisted, err := reloadReport(ctx, report.ID)
	if err != nil {
		logBroadcastSkip(r, report.ID, err)
		response.Success(w, http.StatusCreated, "Report submitted successfully!", report)
		return
	}

	go publishReportEvent(models.EventNewReport, *persisted)
	response.Success(w, http.StatusCreated, "Report submitted successfully!", persisted)
}

// storeReportMedia validates and stores up to 5 report images and one
// voice note. On any rejection it removes what this attempt already
// stored and reports the validation error.
func storeReportMedia(ctx context.Context, form *multipart.Form) (imageKeys, voiceKeys []string, err error) {
	var stored []string
	fail := func(e error) ([]string, []string, error) {
		store.RemoveAll(ctx, stored)
		return nil, nil, e
	}

	if form == nil {
		return nil, nil, nil
	}

	images := form.File[media.FieldReportImages]
	if len(images) > media.MaxReportImages {
		return fail(errTooManyImages)
	}
	for _, fh := range images {
		key, err := storeOne(ctx, media.FieldReportImages, fh)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, key)
		imageKeys = append(imageKeys, key)
	}

	if voices := form.File[media.FieldVoiceNote]; len(voices) > 0 {
		key, err := storeOne(ctx, media.FieldVoiceNote, voices[0])
		if err != nil {
			return fail(err)
		}
		stored = append(stored, key)
		voiceKeys = append(voiceKeys, key)
	}

	return imageKeys, voiceKeys, nil
}

func storeOne(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	if err := media.Validate(field, fh.Filename, contentType, fh.Size); err != nil {
		return "", err
	}

	key, err := media.ObjectKey(field, fh.Filename)
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := store.Put(ctx, key, f, fh.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// mediaHandler serves stored media back under the fixed /uploads prefix.
func mediaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	key, ok := media.KeyFromURL(r.URL.Path)
	if !ok {
		response.NotFound(w, "File not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	obj, contentType, err := store.Get(ctx, key)
	if err != nil {
		response.NotFound(w, "File not found")
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, obj); err != nil {
		log.Printf("[WARN] streaming %q aborted: %v", key, err)
	}
}

var errTooManyImages = errors.New("a report may carry at most 5 images")

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseDetails accepts the category-specific detail map as a JSON object
// form field. The schema is intentionally unvalidated; non-JSON input is
// dropped with a log line rather than failing the submission.
func parseDetails(s string) map[string]interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal([]byte(s), &details); err != nil {
		log.Printf("[WARN] ignoring malformed details payload: %v", err)
		return nil
	}
	return details
}

// jsonString wraps a raw form value so the shared deadline parser can
// treat it like a JSON body value.
func jsonString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// formDeadline interprets the optional deadline form field. Absent or
// blank means no deadline; anything else must parse, so a mistyped date
// fails the submission instead of silently losing the deadline.
func formDeadline(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, clear, err := parseDeadlineValue(jsonString(value))
	if err != nil || clear {
		return nil, err
	}
	return &d, nil
}
