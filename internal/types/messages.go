package types

import "time"

// PinCommandMessage is the payload received on the control topic.
// Value is an optional PWM duty in range 0-255, State alone toggles the
// pin digitally.
type PinCommandMessage struct {
	Pin   int  `json:"pin"`
	State bool `json:"state"`
	Value *int `json:"value,omitempty"`
}

// PinStateMessage is published on the status topic after a pin changed.
type PinStateMessage struct {
	Pin       int       `json:"pin"`
	State     bool      `json:"state"`
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BridgeStatusMessage is published on the status topic when the bridge
// itself changes state (online/offline/command errors).
type BridgeStatusMessage struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
	Error    string `json:"error,omitempty"`
}

// TelemetryMessage carries one sensor reading on the telemetry topic.
type TelemetryMessage struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	SensorType  string    `json:"sensor_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConfigSetMessage is the payload of the config/set topic. Keys are
// configuration section names with nested field maps, applied to the
// running configuration via reflection.
type ConfigSetMessage map[string]interface{}
