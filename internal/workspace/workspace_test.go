package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrepareLayout(t *testing.T) {
	m := NewManager()
	ws, err := m.Prepare("MQTT_DHT", "void setup() {}", nil)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer m.Destroy(ws, nil)

	if filepath.Base(ws.SketchDir) != "MQTT_DHT" {
		t.Errorf("expected sketch folder named MQTT_DHT, got %s", ws.SketchDir)
	}
	if filepath.Base(ws.SketchFile) != "MQTT_DHT.ino" {
		t.Errorf("expected sketch file MQTT_DHT.ino, got %s", ws.SketchFile)
	}

	data, err := os.ReadFile(ws.SketchFile)
	if err != nil {
		t.Fatalf("reading sketch file: %v", err)
	}
	if string(data) != "void setup() {}" {
		t.Errorf("unexpected sketch content: %q", data)
	}
}

func TestPrepareTwiceYieldsDistinctRootsAndRemovesLeftover(t *testing.T) {
	m := NewManager()

	first, err := m.Prepare("Sketch", "// one", nil)
	if err != nil {
		t.Fatalf("first Prepare failed: %v", err)
	}

	second, err := m.Prepare("Sketch", "// two", nil)
	if err != nil {
		t.Fatalf("second Prepare failed: %v", err)
	}
	defer m.Destroy(second, nil)

	if first.Root == second.Root {
		t.Errorf("expected distinct roots, both were %s", first.Root)
	}
	if _, err := os.Stat(first.Root); !os.IsNotExist(err) {
		t.Errorf("expected first workspace to be removed before the second job")
	}
	if _, err := os.Stat(second.SketchFile); err != nil {
		t.Errorf("expected second workspace to be intact: %v", err)
	}
}

func TestDestroyThenPrepareYieldsFreshRoot(t *testing.T) {
	m := NewManager()

	first, err := m.Prepare("Sketch", "// one", nil)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	m.Destroy(first, nil)

	if _, err := os.Stat(first.Root); !os.IsNotExist(err) {
		t.Fatalf("expected root to be removed")
	}

	second, err := m.Prepare("Sketch", "// two", nil)
	if err != nil {
		t.Fatalf("Prepare after Destroy failed: %v", err)
	}
	defer m.Destroy(second, nil)

	if second.Root == first.Root {
		t.Errorf("expected a structurally distinct root after destroy")
	}
}

func TestDestroyNilIsNoOp(t *testing.T) {
	m := NewManager()
	m.Destroy(nil, func(string) { t.Fatal("expected no warnings") })
}
