package models

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

type mediaDoc struct {
	ImageURLs MediaPaths `bson:"image_urls,omitempty"`
}

func decode(t *testing.T, doc interface{}) MediaPaths {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	var out mediaDoc
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out.ImageURLs
}

func TestMediaPathsFromArray(t *testing.T) {
	got := decode(t, bson.M{"image_urls": []string{"/uploads/images/a.png", "/uploads/images/b.png"}})
	want := MediaPaths{"/uploads/images/a.png", "/uploads/images/b.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMediaPathsFromJSONString(t *testing.T) {
	// Legacy rows stored the array JSON-encoded inside a string field.
	got := decode(t, bson.M{"image_urls": `["/uploads/images/a.png","/uploads/images/b.png"]`})
	want := MediaPaths{"/uploads/images/a.png", "/uploads/images/b.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMediaPathsFromBarePathString(t *testing.T) {
	got := decode(t, bson.M{"image_urls": "/uploads/images/only.png"})
	want := MediaPaths{"/uploads/images/only.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMediaPathsAbsentAndNull(t *testing.T) {
	if got := decode(t, bson.M{}); got != nil {
		t.Errorf("absent field: got %v, want nil", got)
	}
	if got := decode(t, bson.M{"image_urls": nil}); got != nil {
		t.Errorf("null field: got %v, want nil", got)
	}
}

func TestMediaPathsWriteNormalizes(t *testing.T) {
	// A decoded legacy row re-marshals as a proper array.
	raw, err := bson.Marshal(mediaDoc{ImageURLs: MediaPaths{"/uploads/images/a.png"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic bson.M
	if err := bson.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	arr, ok := generic["image_urls"].(bson.A)
	if !ok {
		t.Fatalf("image_urls stored as %T, want array", generic["image_urls"])
	}
	if len(arr) != 1 || arr[0] != "/uploads/images/a.png" {
		t.Errorf("stored array = %v", arr)
	}
}
