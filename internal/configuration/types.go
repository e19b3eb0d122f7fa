package configuration

const (
	SensorTypeDHT11 = "DHT11"
	SensorTypeDHT22 = "DHT22"
)

type NetworkConfiguration struct {
	SSID             string `yaml:"ssid"`
	Password         string `yaml:"password"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
}

type MqttConfiguration struct {
	Address          string `yaml:"address"`
	Port             uint16 `yaml:"port"`
	ClientID         string `yaml:"client_id"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	ReconnectDelayMs int    `yaml:"reconnect_delay_ms"`
	TopicPrefix      string `yaml:"topic_prefix"`
	UseTLS           bool   `yaml:"use_tls"`
	TLSInsecure      bool   `yaml:"tls_insecure"`
}

// Topics are always derived from TopicPrefix so control, status and
// telemetry cannot drift apart.
func (c MqttConfiguration) ControlTopic() string {
	return c.TopicPrefix + "/control"
}

func (c MqttConfiguration) StatusTopic() string {
	return c.TopicPrefix + "/status"
}

func (c MqttConfiguration) TelemetryTopic() string {
	return c.TopicPrefix + "/telemetry"
}

func (c MqttConfiguration) ConfigSetTopic() string {
	return c.TopicPrefix + "/config/set"
}

type GpioConfiguration struct {
	ControlPins []int `yaml:"control_pins"`
}

func (c GpioConfiguration) PinCount() int {
	return len(c.ControlPins)
}

func (c GpioConfiguration) IsControlPin(pin int) bool {
	for _, p := range c.ControlPins {
		if p == pin {
			return true
		}
	}
	return false
}

type SensorConfiguration struct {
	Pin            int    `yaml:"pin"`
	SensorType     string `yaml:"sensor_type"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

type DebugConfiguration struct {
	Enabled        bool   `yaml:"enabled"`
	SerialPort     string `yaml:"serial_port"`
	SerialBaudRate int    `yaml:"serial_baud_rate"`
}

type Configuration struct {
	NetworkConfiguration NetworkConfiguration `yaml:"network"`
	MqttConfiguration    MqttConfiguration    `yaml:"mqtt"`
	GpioConfiguration    GpioConfiguration    `yaml:"gpio"`
	SensorConfiguration  SensorConfiguration  `yaml:"sensor"`
	DebugConfiguration   DebugConfiguration   `yaml:"debug"`
	LogLevel             int                  `yaml:"log_level"` // info=0, warn=1, error=2, debug=3
}
