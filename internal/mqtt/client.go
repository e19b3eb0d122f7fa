package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/types"
)

func NewClient(config *configuration.Configuration, log1 logger.Logger) (Client, func(), error) {
	retClient := defaultClient{
		configuration: config,
		logger:        log1,
	}

	mqttlib.ERROR = log.New(log1.GetWriter(), "[MQTT Client]", 0)

	mqttCfg := config.MqttConfiguration

	scheme := "tcp"
	if mqttCfg.UseTLS {
		scheme = "ssl"
	}

	opts := mqttlib.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%v://%v:%v", scheme, mqttCfg.Address, mqttCfg.Port))
	opts.SetClientID(mqttCfg.ClientID)
	opts.SetUsername(mqttCfg.Username)
	opts.SetPassword(mqttCfg.Password)
	if mqttCfg.UseTLS {
		// TLSInsecure matches the firmware's development-only
		// setInsecure() escape hatch for brokers without a known CA.
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: mqttCfg.TLSInsecure})
	}
	opts.AutoReconnect = true
	opts.SetMaxReconnectInterval(time.Duration(mqttCfg.ReconnectDelayMs) * time.Millisecond)
	opts.SetConnectTimeout(time.Duration(config.NetworkConfiguration.ConnectTimeoutMs) * time.Millisecond)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)

	// last will so subscribers learn about ungraceful disconnects
	will, _ := json.Marshal(types.BridgeStatusMessage{Status: "offline", ClientID: mqttCfg.ClientID})
	opts.SetBinaryWill(mqttCfg.StatusTopic(), will, 0, true)

	opts.OnConnect = func(client mqttlib.Client) {
		retClient.logger.Info("Connected")
		retClient.subscribeCommandTopics(client)
	}
	opts.OnConnectionLost = func(client mqttlib.Client, err error) {
		retClient.logger.Warn("Connect lost: %v", err)
	}

	innerClient := mqttlib.NewClient(opts)

	if token := innerClient.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT broker %v:%v: %w", mqttCfg.Address, mqttCfg.Port, token.Error())
	}

	retClient.logger.Info("Connected to MQTT on '%v:%v'", mqttCfg.Address, mqttCfg.Port)

	online, _ := json.Marshal(types.BridgeStatusMessage{Status: "online", ClientID: mqttCfg.ClientID})
	innerClient.Publish(mqttCfg.StatusTopic(), 0, true, online)

	retClient.innerClient = innerClient

	return &retClient, func() { retClient.Dispose() }, nil
}

type Client interface {
	Dispose()
	Publish(subTopic string, data []byte)
	Subscribe(callback func(topic string, message []byte))
	UnSubscribe()
}

type defaultClient struct {
	innerClient     mqttlib.Client
	messageCallback func(topic string, message []byte)
	configuration   *configuration.Configuration
	logger          logger.Logger
}

// subscribeCommandTopics runs on every (re)connect. Only the two inbound
// topics are subscribed, the bridge must not receive its own status and
// telemetry publishes back.
func (cl *defaultClient) subscribeCommandTopics(client mqttlib.Client) {
	mqttCfg := cl.configuration.MqttConfiguration
	for _, topic := range []string{mqttCfg.ControlTopic(), mqttCfg.ConfigSetTopic()} {
		if token := client.Subscribe(topic, 0, cl.onMessageReceived); token.Wait() && token.Error() != nil {
			cl.logger.Error("Subscribe to '%v' failed: %v", topic, token.Error())
		}
	}
}

func (cl *defaultClient) Dispose() {
	cl.logger.Info("Disposing MQTT client")
	cl.innerClient.Disconnect(0)
}

func (cl *defaultClient) Publish(subTopic string, data []byte) {
	cl.innerClient.Publish(fmt.Sprintf("%v/%v", cl.configuration.MqttConfiguration.TopicPrefix, subTopic), 0, false, data)
}

func (cl *defaultClient) Subscribe(callback func(topic string, message []byte)) {
	cl.messageCallback = callback
}

func (cl *defaultClient) UnSubscribe() {
	cl.messageCallback = nil
}

func (cl *defaultClient) onMessageReceived(client mqttlib.Client, msg mqttlib.Message) {
	cl.logger.Debug("Received message on topic '%v'", msg.Topic())
	if cl.messageCallback != nil {
		go cl.messageCallback(msg.Topic(), msg.Payload())
	}
}
