package template

import "fmt"

// Params holds the provisioning values substituted into a firmware
// template: the WiFi network, the MQTT broker and the device identity.
// Per-topic publish strings are rewritten as quoted topic literals, so the
// payload variable next to them does not matter.
type Params struct {
	SSID          string
	Password      string
	ServerAddress string
	ServerPort    string
	DeviceID      string
}

// Substitutions builds the marker table for p against the stock firmware
// templates. topics lists the sensor's publish topic suffixes (for
// example temperature and humidity for a DHT sketch); the corresponding
// publish lines are rewritten to the device's own topic tree. Template
// authors must keep these markers verbatim across versions.
func (p Params) Substitutions(topics []string) []Substitution {
	subs := []Substitution{
		{`const char* ssid = "MYSSID";`, fmt.Sprintf(`const char* ssid = "%s";`, p.SSID)},
		{`const char* password = "MYPASS";`, fmt.Sprintf(`const char* password = "%s";`, p.Password)},
		{`const char* mqtt_server = "MYMQTTSERVER";`, fmt.Sprintf(`const char* mqtt_server = "%s";`, p.ServerAddress)},
		{`client.setServer(mqtt_server, portNumber);`, fmt.Sprintf(`client.setServer(mqtt_server, %s);`, p.ServerPort)},
		{`if (client.connect("esp32_htj"))`, fmt.Sprintf(`if (client.connect("%s"))`, p.DeviceID)},
		{`client.subscribe("esp32_htj/output");`, fmt.Sprintf(`client.subscribe("%s/output");`, p.DeviceID)},
	}
	for _, t := range topics {
		subs = append(subs, Substitution{
			Marker: fmt.Sprintf(`"esp32_htj/%s"`, t),
			Value:  fmt.Sprintf(`"%s/%s"`, p.DeviceID, t),
		})
	}
	subs = append(subs, Substitution{
		Marker: `Serial.print("device ID: "); Serial.println("myID");`,
		Value:  fmt.Sprintf(`Serial.print("device ID: "); Serial.println("%s");`, p.DeviceID),
	})
	return subs
}
