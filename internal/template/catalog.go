package template

import "sort"

// Sensor describes one provisionable sensor category: the sketch name its
// firmware is flashed under and the topic suffixes it publishes readings
// to under the device's topic root.
type Sensor struct {
	Category   string
	SketchName string
	Topics     []string
}

// sensorCatalog is the fixed set of supported sensor categories. Topic
// suffixes must match the publish lines in the corresponding template.
var sensorCatalog = map[string]Sensor{
	"DHT": {
		Category:   "DHT",
		SketchName: "MQTT_DHT",
		Topics:     []string{"temperature", "humidity"},
	},
	"BME280": {
		Category:   "BME280",
		SketchName: "MQTT_BME280",
		Topics:     []string{"temperature", "humidity", "pressure"},
	},
	"MPU6050": {
		Category:   "MPU6050",
		SketchName: "MQTT_VIB",
		Topics:     []string{"freq_x", "freq_y", "freq_z", "rms_x", "rms_y", "rms_z"},
	},
	"HX711": {
		Category:   "HX711",
		SketchName: "MQTT_WT",
		Topics:     []string{"weight"},
	},
}

// SensorByCategory looks up a sensor category.
func SensorByCategory(category string) (Sensor, bool) {
	s, ok := sensorCatalog[category]
	return s, ok
}

// SensorCategories returns the supported category names, sorted.
func SensorCategories() []string {
	names := make([]string, 0, len(sensorCatalog))
	for name := range sensorCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
