package configuration

import (
	"fmt"
	"strings"
)

// isPlaceholder reports whether a value still looks like the "<your_...>"
// markers the default configuration ships with.
func isPlaceholder(value string) bool {
	return strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">")
}

func (c Configuration) Validate() error {
	if err := c.NetworkConfiguration.validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := c.MqttConfiguration.validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.GpioConfiguration.validate(); err != nil {
		return fmt.Errorf("gpio: %w", err)
	}
	if err := c.SensorConfiguration.validate(); err != nil {
		return fmt.Errorf("sensor: %w", err)
	}
	if err := c.DebugConfiguration.validate(); err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	// The sensor shares the physical pin namespace with the control pins.
	// The firmware never checked this, a collision silently corrupted
	// sensor reads, so the bridge refuses to start on one.
	if c.GpioConfiguration.IsControlPin(c.SensorConfiguration.Pin) {
		return fmt.Errorf("sensor pin %v is also configured as a control pin", c.SensorConfiguration.Pin)
	}

	return nil
}

func (c NetworkConfiguration) validate() error {
	if isPlaceholder(c.SSID) {
		return fmt.Errorf("ssid is still the placeholder value %q", c.SSID)
	}
	if isPlaceholder(c.Password) {
		return fmt.Errorf("password is still a placeholder value")
	}
	if c.ConnectTimeoutMs <= 0 {
		return fmt.Errorf("connect_timeout_ms must be positive, got %v", c.ConnectTimeoutMs)
	}
	return nil
}

func (c MqttConfiguration) validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is empty")
	}
	if isPlaceholder(c.Address) {
		return fmt.Errorf("address is still the placeholder value %q", c.Address)
	}
	if isPlaceholder(c.Username) || isPlaceholder(c.Password) {
		return fmt.Errorf("username/password are still placeholder values")
	}
	if c.Port == 0 {
		return fmt.Errorf("port must be in range 1-65535, got %v", c.Port)
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is empty")
	}
	if c.ReconnectDelayMs <= 0 {
		return fmt.Errorf("reconnect_delay_ms must be positive, got %v", c.ReconnectDelayMs)
	}
	if c.TopicPrefix == "" || strings.HasSuffix(c.TopicPrefix, "/") {
		return fmt.Errorf("topic_prefix must be non-empty and not end with '/', got %q", c.TopicPrefix)
	}
	return nil
}

func (c GpioConfiguration) validate() error {
	if len(c.ControlPins) == 0 {
		return fmt.Errorf("control_pins is empty")
	}
	seen := make(map[int]struct{}, len(c.ControlPins))
	for _, pin := range c.ControlPins {
		if pin < 0 {
			return fmt.Errorf("control pin %v is negative", pin)
		}
		if _, ok := seen[pin]; ok {
			return fmt.Errorf("control pin %v is listed twice", pin)
		}
		seen[pin] = struct{}{}
	}
	return nil
}

func (c SensorConfiguration) validate() error {
	if c.Pin < 0 {
		return fmt.Errorf("pin %v is negative", c.Pin)
	}
	if c.SensorType != SensorTypeDHT11 && c.SensorType != SensorTypeDHT22 {
		return fmt.Errorf("sensor_type must be %v or %v, got %q", SensorTypeDHT11, SensorTypeDHT22, c.SensorType)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %v", c.PollIntervalMs)
	}
	return nil
}

func (c DebugConfiguration) validate() error {
	if c.SerialBaudRate <= 0 {
		return fmt.Errorf("serial_baud_rate must be positive, got %v", c.SerialBaudRate)
	}
	return nil
}
