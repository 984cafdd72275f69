package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshal_String(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"1500ms"`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != 1500*time.Millisecond {
		t.Fatalf("got %v want 1.5s", d.Duration)
	}
}

func TestUnmarshal_Nanoseconds(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`3000000000`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != 3*time.Second {
		t.Fatalf("got %v want 3s", d.Duration)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected error for invalid duration type")
	}
}
