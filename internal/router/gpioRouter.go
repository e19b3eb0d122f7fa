package router

import (
	"context"

	"github.com/iotbridge/gpio2mqtt/internal/db"
	"github.com/iotbridge/gpio2mqtt/internal/gpio"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/sensor"
	"github.com/iotbridge/gpio2mqtt/internal/types"
)

type gpioRouter struct {
	controller     *gpio.Controller
	poller         *sensor.Poller
	db             db.PinStateDB
	onPinChange    func(state types.PinStateMessage)
	onCommandError func(cmd types.PinCommandMessage, err error)
	onSensorReport func(r sensor.Reading)
	logger         logger.Logger
}

func NewGpioRouter(
	controller *gpio.Controller,
	poller *sensor.Poller,
	pinStateDB db.PinStateDB,
	log1 logger.Logger) GpioRouter {
	ret := gpioRouter{
		controller: controller,
		poller:     poller,
		db:         pinStateDB,
		logger:     log1,
	}

	poller.SubscribeOnReading(func(r sensor.Reading) {
		if ret.onSensorReport != nil {
			ret.onSensorReport(r)
		}
	})

	return &ret
}

func (r *gpioRouter) ProcessPinCommand(ctx context.Context, cmd types.PinCommandMessage) {
	state, err := r.controller.Apply(cmd)
	if err != nil {
		r.logger.Error("applying command for pin %v: %v", cmd.Pin, err)
		if r.onCommandError != nil {
			r.onCommandError(cmd, err)
		}
		return
	}

	if err := r.db.SavePinState(ctx, db.PinState{
		Pin:         state.Pin,
		State:       state.State,
		Value:       state.Value,
		LastChanged: state.UpdatedAt,
	}); err != nil {
		r.logger.Error("persisting state of pin %v: %v", state.Pin, err)
	}

	if r.onPinChange != nil {
		r.onPinChange(state)
	}
}

func (r *gpioRouter) SubscribeOnPinChange(callback func(state types.PinStateMessage)) {
	r.onPinChange = callback
}

func (r *gpioRouter) SubscribeOnCommandError(callback func(cmd types.PinCommandMessage, err error)) {
	r.onCommandError = callback
}

func (r *gpioRouter) SubscribeOnSensorReport(callback func(r sensor.Reading)) {
	r.onSensorReport = callback
}

// StartAsync restores persisted pin states, announces the resulting pin
// levels and starts sensor polling.
func (r *gpioRouter) StartAsync(ctx context.Context) {
	states, err := r.db.GetPinStates(ctx)
	if err != nil {
		r.logger.Error("loading persisted pin states: %v", err)
	}

	restored := make([]types.PinStateMessage, 0, len(states))
	for _, s := range states {
		if !r.controller.IsControlPin(s.Pin) {
			r.logger.Warn("dropping persisted state for pin %v, not a control pin anymore", s.Pin)
			if err := r.db.DeletePinState(ctx, s.Pin); err != nil {
				r.logger.Error("deleting stale state of pin %v: %v", s.Pin, err)
			}
			continue
		}
		restored = append(restored, types.PinStateMessage{
			Pin:       s.Pin,
			State:     s.State,
			Value:     s.Value,
			UpdatedAt: s.LastChanged,
		})
	}
	r.controller.Restore(restored)

	// subscribers resynchronize after a restart without waiting for
	// the next command
	if r.onPinChange != nil {
		for _, state := range r.controller.States() {
			r.onPinChange(state)
		}
	}

	r.poller.StartAsync(ctx)
}

func (r *gpioRouter) Stop() {
	r.poller.Stop()
}
