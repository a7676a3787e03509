package deviceid

import (
	"strings"
	"testing"
	"time"
)

func TestAutoIDFormat(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 34, 56, 0, time.UTC)
	got := AutoID("DHT11", now)
	want := "KIOT/ESP32/DHT11/20260829123456"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAutoIDDiffersByTimestamp(t *testing.T) {
	a := AutoID("HX711", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := AutoID("HX711", time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))
	if a == b {
		t.Errorf("expected distinct IDs for distinct timestamps, both %q", a)
	}
}

func TestClientIDHasPrefix(t *testing.T) {
	id := ClientID()
	if !strings.HasPrefix(id, "ember") {
		t.Errorf("expected ember-prefixed client ID, got %q", id)
	}
}
