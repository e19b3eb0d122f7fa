package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/types"
)

// Controller owns the set of controllable pins. Commands for pins outside
// the configured control set are rejected before they reach the driver.
type Controller struct {
	driver Driver
	config configuration.GpioConfiguration
	states map[int]types.PinStateMessage
	logger logger.Logger
	mtx    sync.Mutex
}

func NewController(config configuration.GpioConfiguration, driver Driver, log1 logger.Logger) (*Controller, error) {
	ret := Controller{
		driver: driver,
		config: config,
		states: make(map[int]types.PinStateMessage, len(config.ControlPins)),
		logger: log1,
	}

	for _, pin := range config.ControlPins {
		if err := driver.Setup(pin); err != nil {
			return nil, fmt.Errorf("setting up control pin %v: %w", pin, err)
		}
		ret.states[pin] = types.PinStateMessage{Pin: pin}
	}

	return &ret, nil
}

func (c *Controller) Apply(cmd types.PinCommandMessage) (types.PinStateMessage, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, ok := c.states[cmd.Pin]; !ok {
		return types.PinStateMessage{}, fmt.Errorf("pin %v is not a configured control pin", cmd.Pin)
	}

	duty := 0
	if cmd.Value != nil {
		if *cmd.Value < 0 || *cmd.Value > MaxDuty {
			return types.PinStateMessage{}, fmt.Errorf("pin %v value %v out of range 0-%v", cmd.Pin, *cmd.Value, MaxDuty)
		}
		duty = *cmd.Value
		if err := c.driver.WritePWM(cmd.Pin, duty); err != nil {
			return types.PinStateMessage{}, err
		}
	} else {
		if cmd.State {
			duty = MaxDuty
		}
		if err := c.driver.Write(cmd.Pin, cmd.State); err != nil {
			return types.PinStateMessage{}, err
		}
	}

	state := types.PinStateMessage{
		Pin:       cmd.Pin,
		State:     duty > 0,
		Value:     duty,
		UpdatedAt: time.Now(),
	}
	c.states[cmd.Pin] = state

	c.logger.Debug("pin %v set to state=%v value=%v", state.Pin, state.State, state.Value)

	return state, nil
}

func (c *Controller) IsControlPin(pin int) bool {
	return c.config.IsControlPin(pin)
}

// Restore re-drives previously persisted pin states, e.g. after a restart.
// Unknown pins are skipped, the control set may have changed in between.
func (c *Controller) Restore(states []types.PinStateMessage) {
	for _, state := range states {
		if !c.config.IsControlPin(state.Pin) {
			c.logger.Warn("skipping persisted state for pin %v, not a control pin anymore", state.Pin)
			continue
		}

		value := state.Value
		cmd := types.PinCommandMessage{Pin: state.Pin, State: state.State, Value: &value}
		if _, err := c.Apply(cmd); err != nil {
			c.logger.Error("restoring pin %v: %v", state.Pin, err)
		}
	}
}

func (c *Controller) States() []types.PinStateMessage {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	ret := make([]types.PinStateMessage, 0, len(c.states))
	for _, pin := range c.config.ControlPins {
		ret = append(ret, c.states[pin])
	}
	return ret
}
