// internal/app/system/paging/paging_test.go
package paging

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC),
		ID:        "user-42",
	}
	out, ok := Decode(Encode(in))
	if !ok {
		t.Fatal("Decode rejected its own Encode output")
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
	if out.ID != in.ID {
		t.Errorf("id = %q, want %q", out.ID, in.ID)
	}
}

func TestCursorRoundTripIDWithSeparator(t *testing.T) {
	in := Cursor{CreatedAt: time.Now().UTC(), ID: "id|with|pipes"}
	out, ok := Decode(Encode(in))
	if !ok || out.ID != in.ID {
		t.Fatalf("out = %+v ok=%v, want id preserved", out, ok)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, tok := range []string{
		"",
		"not base64 ***",
		"bm9zZXBhcmF0b3I",     // "noseparator"
		"bm90YW51bWJlcnxhYmM", // "notanumber|abc"
	} {
		if _, ok := Decode(tok); ok {
			t.Errorf("Decode(%q) accepted garbage", tok)
		}
	}
}
