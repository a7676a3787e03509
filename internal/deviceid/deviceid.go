// Package deviceid generates identifiers for provisioned sensor nodes
// and for this provisioning host.
package deviceid

import (
	"fmt"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
)

// prefix matches the identifier scheme already burned into the deployed
// fleet; changing it would orphan existing topic subscriptions.
const prefix = "KIOT/ESP32"

// timeFormat is a sortable yyyymmddhhmmss stamp.
const timeFormat = "20060102150405"

// AutoID returns a device ID of the form KIOT/ESP32/<type>/<timestamp>.
// The ID doubles as the device's MQTT topic root.
func AutoID(sensorType string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s", prefix, sensorType, now.Format(timeFormat))
}

// ClientID returns a stable MQTT client identifier for this host, so
// concurrent provisioning hosts watching the same broker never collide.
// Falls back to the hostname when no machine ID is available.
func ClientID() string {
	if id, err := machineid.ProtectedID("ember"); err == nil && len(id) >= 8 {
		return "ember-" + id[:8]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return "ember-" + host
	}
	return "ember"
}
