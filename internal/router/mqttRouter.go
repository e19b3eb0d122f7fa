package router

import (
	"encoding/json"
	"strings"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/mqtt"
	"github.com/iotbridge/gpio2mqtt/internal/types"
)

const (
	MQTT_CONTROL    = "control"
	MQTT_STATUS     = "status"
	MQTT_TELEMETRY  = "telemetry"
	MQTT_CONFIG     = "config"
	MQTT_CONFIG_SET = "set"
)

type mqttRouter struct {
	mqttClient           mqtt.Client
	configurationService configuration.ConfigurationService
	onPinCommand         func(cmd types.PinCommandMessage)
	onConfigSet          func(update types.ConfigSetMessage)
	logger               logger.Logger
}

func NewMQTTRouter(
	configurationService configuration.ConfigurationService,
	mqttClient mqtt.Client,
	log1 logger.Logger) MQTTRouter {
	ret := mqttRouter{
		mqttClient:           mqttClient,
		configurationService: configurationService,
		logger:               log1,
	}

	mqttClient.Subscribe(ret.mqttMessage)

	return &ret
}

func (h *mqttRouter) PublishPinState(state types.PinStateMessage) {
	jsonData, err := json.Marshal(state)
	if err != nil {
		h.logger.Error("Error Marshal PinStateMessage: %v", err)
		return
	}

	h.mqttClient.Publish(MQTT_STATUS, jsonData)
}

func (h *mqttRouter) PublishBridgeStatus(msg types.BridgeStatusMessage) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal BridgeStatusMessage: %v", err)
		return
	}

	h.mqttClient.Publish(MQTT_STATUS, jsonData)
}

func (h *mqttRouter) PublishTelemetry(msg types.TelemetryMessage) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal TelemetryMessage: %v", err)
		return
	}

	h.mqttClient.Publish(MQTT_TELEMETRY, jsonData)
}

func (h *mqttRouter) SubscribeOnPinCommand(callback func(cmd types.PinCommandMessage)) {
	h.onPinCommand = callback
}

func (h *mqttRouter) SubscribeOnConfigSet(callback func(update types.ConfigSetMessage)) {
	h.onConfigSet = callback
}

func (h *mqttRouter) mqttMessage(topic string, message []byte) {
	prefix := h.configurationService.GetConfiguration().MqttConfiguration.TopicPrefix
	if !strings.HasPrefix(topic, prefix+"/") {
		return
	}

	topicParts := strings.Split(topic[len(prefix)+1:], "/")

	if topicParts[0] == MQTT_CONTROL {
		h.handlePinCommand(message)
		return
	}

	if len(topicParts) > 1 && topicParts[0] == MQTT_CONFIG && topicParts[1] == MQTT_CONFIG_SET {
		h.handleConfigSet(message)
	}
}

func (h *mqttRouter) handlePinCommand(message []byte) {
	var cmd types.PinCommandMessage
	if err := json.Unmarshal(message, &cmd); err != nil {
		h.logger.Error("Error unmarshal control message: %v", err)
		return
	}

	h.logger.Debug("control message received. Pin:%v", cmd.Pin)

	if h.onPinCommand != nil {
		h.onPinCommand(cmd)
	}
}

func (h *mqttRouter) handleConfigSet(message []byte) {
	var update types.ConfigSetMessage
	if err := json.Unmarshal(message, &update); err != nil {
		h.logger.Error("Error unmarshal config/set message: %v", err)
		return
	}

	if h.onConfigSet != nil {
		h.onConfigSet(update)
	}
}
