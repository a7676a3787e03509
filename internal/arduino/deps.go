package arduino

import "sort"

// CommonLibrary is required by every generated sketch for MQTT transport
// and is always installed after the sensor-specific libraries.
const CommonLibrary = "PubSubClient"

// sensorLibraries maps a sensor category to the ordered list of Arduino
// libraries its firmware needs. The order matters: arduino-cli resolves
// transitive includes against already-installed libraries.
var sensorLibraries = map[string][]string{
	"DHT":     {"DHT sensor library", "Adafruit Unified Sensor"},
	"BME280":  {"Adafruit BME280 Library", "Adafruit Unified Sensor"},
	"MPU6050": {"Adafruit MPU6050", "Adafruit Unified Sensor", "Adafruit BusIO", "arduinoFFT"},
	"HX711":   {"HX711"},
}

// LibrariesFor returns the install order for a sensor category: the
// category's own libraries followed by the common library. Unknown
// categories still get the common library.
func LibrariesFor(sensor string) []string {
	libs := append([]string(nil), sensorLibraries[sensor]...)
	return append(libs, CommonLibrary)
}

// Sensors returns the known sensor categories, sorted.
func Sensors() []string {
	names := make([]string, 0, len(sensorLibraries))
	for name := range sensorLibraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
