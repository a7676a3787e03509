package template

import "testing"

func TestSensorByCategory(t *testing.T) {
	s, ok := SensorByCategory("MPU6050")
	if !ok {
		t.Fatal("expected MPU6050 to be a known category")
	}
	if s.SketchName != "MQTT_VIB" {
		t.Errorf("expected sketch MQTT_VIB, got %s", s.SketchName)
	}
	if len(s.Topics) != 6 {
		t.Errorf("expected 6 vibration topics, got %v", s.Topics)
	}

	if _, ok := SensorByCategory("LIDAR"); ok {
		t.Error("expected unknown category to miss")
	}
}

func TestSensorCategoriesSorted(t *testing.T) {
	got := SensorCategories()
	want := []string{"BME280", "DHT", "HX711", "MPU6050"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
