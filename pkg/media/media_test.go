package media

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"report image png", FieldReportImages, "pothole.png", "image/png", 1024, false},
		{"report image jpeg with charset", FieldReportImages, "photo.JPG", "image/jpeg; charset=binary", 1024, false},
		{"post image gif", FieldPostImage, "banner.gif", "image/gif", 1024, false},
		{"voice note webm", FieldVoiceNote, "note.webm", "audio/webm", 1024, false},
		{"voice note mp3", FieldVoiceNote, "note.mp3", "audio/mpeg", 1024, false},
		{"pdf in image field", FieldReportImages, "scan.pdf", "application/pdf", 1024, true},
		{"image ext with audio mime", FieldReportImages, "fake.png", "audio/mpeg", 1024, true},
		{"audio in image field", FieldPostImage, "note.mp3", "audio/mpeg", 1024, true},
		{"image in voice field", FieldVoiceNote, "photo.png", "image/png", 1024, true},
		{"unknown field", "avatar", "a.png", "image/png", 1024, true},
		{"oversize", FieldReportImages, "huge.png", "image/png", MaxFileSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.field, tt.filename, tt.contentType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestObjectKeyDispatch(t *testing.T) {
	tests := []struct {
		field      string
		filename   string
		wantPrefix string
	}{
		{FieldReportImages, "a.png", "images/reportImages-"},
		{FieldVoiceNote, "a.webm", "audio/voice_note-"},
		{FieldPostImage, "a.jpg", "postImages/postImage-"},
	}
	for _, tt := range tests {
		key, err := ObjectKey(tt.field, tt.filename)
		if err != nil {
			t.Fatalf("ObjectKey(%q): %v", tt.field, err)
		}
		if !strings.HasPrefix(key, tt.wantPrefix) {
			t.Errorf("ObjectKey(%q) = %q, want prefix %q", tt.field, key, tt.wantPrefix)
		}
	}

	if _, err := ObjectKey("avatar", "a.png"); err == nil {
		t.Error("ObjectKey with unknown field should fail")
	}
}

func TestKeyFromURL(t *testing.T) {
	if key, ok := KeyFromURL("/uploads/images/reportImages-1-2.png"); !ok || key != "images/reportImages-1-2.png" {
		t.Errorf("KeyFromURL round trip failed: %q %v", key, ok)
	}
	for _, bad := range []string{"/static/x.png", "/uploads/", "/uploads/../etc/passwd"} {
		if _, ok := KeyFromURL(bad); ok {
			t.Errorf("KeyFromURL(%q) accepted, want reject", bad)
		}
	}
}
