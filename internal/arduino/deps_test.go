package arduino

import (
	"reflect"
	"testing"
)

func TestLibrariesForAppendsCommonLast(t *testing.T) {
	libs := LibrariesFor("DHT")
	want := []string{"DHT sensor library", "Adafruit Unified Sensor", "PubSubClient"}
	if !reflect.DeepEqual(libs, want) {
		t.Errorf("expected %v, got %v", want, libs)
	}
}

func TestLibrariesForPreservesOrder(t *testing.T) {
	libs := LibrariesFor("MPU6050")
	want := []string{"Adafruit MPU6050", "Adafruit Unified Sensor", "Adafruit BusIO", "arduinoFFT", "PubSubClient"}
	if !reflect.DeepEqual(libs, want) {
		t.Errorf("expected %v, got %v", want, libs)
	}
}

func TestLibrariesForUnknownSensor(t *testing.T) {
	libs := LibrariesFor("UNKNOWN")
	if !reflect.DeepEqual(libs, []string{CommonLibrary}) {
		t.Errorf("expected only the common library, got %v", libs)
	}
}

func TestLibrariesForDoesNotAliasTable(t *testing.T) {
	libs := LibrariesFor("HX711")
	libs[0] = "mutated"
	if again := LibrariesFor("HX711"); again[0] != "HX711" {
		t.Errorf("expected the table to be unaffected by caller mutation, got %v", again)
	}
}

func TestSensorsSorted(t *testing.T) {
	want := []string{"BME280", "DHT", "HX711", "MPU6050"}
	if got := Sensors(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
