package router

import (
	"testing"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/types"
	"github.com/stretchr/testify/assert"
)

type fakeMqttClient struct {
	callback  func(topic string, message []byte)
	published []publishedMessage
}

type publishedMessage struct {
	subTopic string
	data     []byte
}

func (c *fakeMqttClient) Dispose() {}

func (c *fakeMqttClient) Publish(subTopic string, data []byte) {
	c.published = append(c.published, publishedMessage{subTopic: subTopic, data: data})
}

func (c *fakeMqttClient) Subscribe(callback func(topic string, message []byte)) {
	c.callback = callback
}

func (c *fakeMqttClient) UnSubscribe() {
	c.callback = nil
}

type fakeConfigService struct {
	cfg configuration.Configuration
}

func (s *fakeConfigService) GetConfiguration() configuration.Configuration {
	return s.cfg
}

func (s *fakeConfigService) Update(updatedConfig configuration.Configuration) error {
	s.cfg = updatedConfig
	return nil
}

func testMQTTRouter() (MQTTRouter, *fakeMqttClient) {
	cfg := configuration.Default()
	client := &fakeMqttClient{}
	r := NewMQTTRouter(&fakeConfigService{cfg: cfg}, client, logger.GetLogger("[test]", logger.LogLevelError))
	return r, client
}

func TestControlMessageDispatch(t *testing.T) {
	r, client := testMQTTRouter()

	var received *types.PinCommandMessage
	r.SubscribeOnPinCommand(func(cmd types.PinCommandMessage) {
		received = &cmd
	})

	client.callback("esp32/gpio/control", []byte(`{"pin": 5, "state": true, "value": 128}`))

	assert.NotNil(t, received)
	assert.Equal(t, 5, received.Pin)
	assert.True(t, received.State)
	assert.NotNil(t, received.Value)
	assert.Equal(t, 128, *received.Value)
}

func TestControlMessageWithoutValue(t *testing.T) {
	r, client := testMQTTRouter()

	var received *types.PinCommandMessage
	r.SubscribeOnPinCommand(func(cmd types.PinCommandMessage) {
		received = &cmd
	})

	client.callback("esp32/gpio/control", []byte(`{"pin": 18, "state": false}`))

	assert.NotNil(t, received)
	assert.Equal(t, 18, received.Pin)
	assert.Nil(t, received.Value)
}

func TestMalformedControlMessageIgnored(t *testing.T) {
	r, client := testMQTTRouter()

	called := false
	r.SubscribeOnPinCommand(func(cmd types.PinCommandMessage) {
		called = true
	})

	client.callback("esp32/gpio/control", []byte(`turn on the light`))

	assert.False(t, called)
}

func TestForeignTopicIgnored(t *testing.T) {
	r, client := testMQTTRouter()

	called := false
	r.SubscribeOnPinCommand(func(cmd types.PinCommandMessage) {
		called = true
	})

	client.callback("some/other/control", []byte(`{"pin": 5, "state": true}`))
	client.callback("esp32/gpio/status", []byte(`{"pin": 5, "state": true}`))

	assert.False(t, called)
}

func TestConfigSetDispatch(t *testing.T) {
	r, client := testMQTTRouter()

	var received types.ConfigSetMessage
	r.SubscribeOnConfigSet(func(update types.ConfigSetMessage) {
		received = update
	})

	client.callback("esp32/gpio/config/set", []byte(`{"LogLevel": 3}`))

	assert.NotNil(t, received)
	assert.Equal(t, float64(3), received["LogLevel"])
}

func TestPublishPinState(t *testing.T) {
	r, client := testMQTTRouter()

	r.PublishPinState(types.PinStateMessage{Pin: 5, State: true, Value: 255})

	assert.Equal(t, 1, len(client.published))
	assert.Equal(t, "status", client.published[0].subTopic)
	assert.Contains(t, string(client.published[0].data), `"pin":5`)
}

func TestPublishTelemetry(t *testing.T) {
	r, client := testMQTTRouter()

	r.PublishTelemetry(types.TelemetryMessage{Temperature: 23.4, Humidity: 51.2, SensorType: "DHT22"})

	assert.Equal(t, 1, len(client.published))
	assert.Equal(t, "telemetry", client.published[0].subTopic)
	assert.Contains(t, string(client.published[0].data), `"temperature":23.4`)
}
