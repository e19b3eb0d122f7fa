package router

import (
	"context"

	"github.com/iotbridge/gpio2mqtt/internal/sensor"
	"github.com/iotbridge/gpio2mqtt/internal/types"
)

type MQTTRouter interface {
	PublishPinState(state types.PinStateMessage)
	PublishBridgeStatus(msg types.BridgeStatusMessage)
	PublishTelemetry(msg types.TelemetryMessage)

	SubscribeOnPinCommand(callback func(cmd types.PinCommandMessage))
	SubscribeOnConfigSet(callback func(update types.ConfigSetMessage))
}

type GpioRouter interface {
	ProcessPinCommand(ctx context.Context, cmd types.PinCommandMessage)

	SubscribeOnPinChange(callback func(state types.PinStateMessage))
	SubscribeOnCommandError(callback func(cmd types.PinCommandMessage, err error))
	SubscribeOnSensorReport(callback func(r sensor.Reading))

	StartAsync(ctx context.Context)
	Stop()
}
