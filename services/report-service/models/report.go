package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a citizen-submitted issue. The store assigns the id at insert;
// everything else mutates only through the service's narrow endpoints.
type Report struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Category    string                 `bson:"category" json:"category"`
	Name        string                 `bson:"name" json:"name"`
	Phone       string                 `bson:"phone" json:"phone"`
	Location    string                 `bson:"location" json:"location"`
	Description string                 `bson:"description" json:"description"`
	Latitude    *float64               `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64               `bson:"longitude,omitempty" json:"longitude,omitempty"`
	MapURL      string                 `bson:"map_url,omitempty" json:"map_url,omitempty"`
	Details     map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`

	ImageURLs    MediaPaths `bson:"image_urls,omitempty" json:"image_urls"`
	VoiceNoteURL string     `bson:"voice_note_url,omitempty" json:"voice_note_url,omitempty"`

	Status        string     `bson:"status" json:"status"`
	Deadline      *time.Time `bson:"deadline,omitempty" json:"deadline"`
	FinalDeadline *time.Time `bson:"final_deadline,omitempty" json:"final_deadline"`

	// Version increments on every mutation so observers can discard
	// stale broadcast rows that arrive out of order.
	Version    int64      `bson:"version" json:"version"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// Comment is an append-only child of a report.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID    primitive.ObjectID `bson:"report_id" json:"report_id"`
	UserName    string             `bson:"user_name" json:"user_name"`
	CommentText string             `bson:"comment_text" json:"comment_text"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Broadcast event types, fixed by the dashboard clients.
const (
	EventNewReport     = "new_report"
	EventReportUpdated = "report_updated"
)

// ReportEvent is the envelope published for every mutation. Report is the
// full row re-read from the store after the write, never the client
// payload.
type ReportEvent struct {
	Type   string `json:"type"`
	Report Report `json:"report"`
}
