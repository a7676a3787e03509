package store

import "time"

// FlashRecord captures the result of a provisioning run.
type FlashRecord struct {
	Sketch    string    `json:"sketch"`
	Sensor    string    `json:"sensor"`
	Port      string    `json:"port"`
	DeviceID  string    `json:"device_id,omitempty"`
	Result    string    `json:"result"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Duration  string    `json:"duration"`
}

// MonitorRecord tracks a serial monitoring session.
type MonitorRecord struct {
	Port      string    `json:"port"`
	BaudRate  int       `json:"baud_rate"`
	Timestamp time.Time `json:"timestamp"`
}
