package router

import (
	"context"
	"testing"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/db"
	"github.com/iotbridge/gpio2mqtt/internal/gpio"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/sensor"
	"github.com/iotbridge/gpio2mqtt/internal/types"
	"github.com/stretchr/testify/assert"
)

type fakePinStateDB struct {
	states map[int]db.PinState
}

func newFakePinStateDB() *fakePinStateDB {
	return &fakePinStateDB{states: make(map[int]db.PinState)}
}

func (d *fakePinStateDB) GetPinStates(ctx context.Context) ([]db.PinState, error) {
	ret := make([]db.PinState, 0, len(d.states))
	for _, s := range d.states {
		ret = append(ret, s)
	}
	return ret, nil
}

func (d *fakePinStateDB) GetPinState(ctx context.Context, pin int) (db.PinState, error) {
	return d.states[pin], nil
}

func (d *fakePinStateDB) SavePinState(ctx context.Context, state db.PinState) error {
	d.states[state.Pin] = state
	return nil
}

func (d *fakePinStateDB) DeletePinState(ctx context.Context, pin int) error {
	delete(d.states, pin)
	return nil
}

func (d *fakePinStateDB) Close(ctx context.Context) error {
	return nil
}

type stubReader struct{}

func (stubReader) Read() (sensor.Reading, error) {
	return sensor.Reading{Temperature: 20, Humidity: 40}, nil
}

func testGpioRouter(t *testing.T, stateDB db.PinStateDB) (GpioRouter, *gpio.MemoryDriver) {
	cfg := configuration.Default()
	log1 := logger.GetLogger("[test]", logger.LogLevelError)

	driver := gpio.NewMemoryDriver()
	controller, err := gpio.NewController(cfg.GpioConfiguration, driver, log1)
	assert.NoError(t, err)

	poller := sensor.NewPoller(cfg.SensorConfiguration, stubReader{}, log1)

	return NewGpioRouter(controller, poller, stateDB, log1), driver
}

func TestProcessPinCommand(t *testing.T) {
	stateDB := newFakePinStateDB()
	r, driver := testGpioRouter(t, stateDB)

	var changed *types.PinStateMessage
	r.SubscribeOnPinChange(func(state types.PinStateMessage) {
		changed = &state
	})

	r.ProcessPinCommand(context.Background(), types.PinCommandMessage{Pin: 5, State: true})

	assert.NotNil(t, changed)
	assert.Equal(t, 5, changed.Pin)
	assert.True(t, changed.State)
	assert.Equal(t, gpio.MaxDuty, driver.Duty(5))

	// state must be persisted for restore after restart
	persisted, err := stateDB.GetPinState(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, persisted.State)
}

func TestProcessPinCommandError(t *testing.T) {
	r, _ := testGpioRouter(t, newFakePinStateDB())

	var failed *types.PinCommandMessage
	r.SubscribeOnCommandError(func(cmd types.PinCommandMessage, err error) {
		failed = &cmd
	})

	changed := false
	r.SubscribeOnPinChange(func(state types.PinStateMessage) {
		changed = true
	})

	// pin 4 is the sensor pin, not a control pin
	r.ProcessPinCommand(context.Background(), types.PinCommandMessage{Pin: 4, State: true})

	assert.NotNil(t, failed)
	assert.Equal(t, 4, failed.Pin)
	assert.False(t, changed)
}

func TestStartAsyncRestoresPersistedStates(t *testing.T) {
	stateDB := newFakePinStateDB()
	assert.NoError(t, stateDB.SavePinState(context.Background(), db.PinState{Pin: 17, State: true, Value: 64}))

	r, driver := testGpioRouter(t, stateDB)

	r.StartAsync(context.Background())
	defer r.Stop()

	assert.Equal(t, 64, driver.Duty(17))
}

func TestStartAsyncAnnouncesRestoredStates(t *testing.T) {
	stateDB := newFakePinStateDB()
	assert.NoError(t, stateDB.SavePinState(context.Background(), db.PinState{Pin: 17, State: true, Value: 64}))

	r, _ := testGpioRouter(t, stateDB)

	var announced []types.PinStateMessage
	r.SubscribeOnPinChange(func(state types.PinStateMessage) {
		announced = append(announced, state)
	})

	r.StartAsync(context.Background())
	defer r.Stop()

	// every control pin is announced, restored or not
	assert.Equal(t, 4, len(announced))
	byPin := make(map[int]types.PinStateMessage, len(announced))
	for _, state := range announced {
		byPin[state.Pin] = state
	}
	assert.Equal(t, 64, byPin[17].Value)
	assert.True(t, byPin[17].State)
	assert.False(t, byPin[5].State)
}

func TestStartAsyncDropsStaleStates(t *testing.T) {
	stateDB := newFakePinStateDB()
	// pin 23 is not in the control set anymore
	assert.NoError(t, stateDB.SavePinState(context.Background(), db.PinState{Pin: 23, State: true, Value: 255}))
	assert.NoError(t, stateDB.SavePinState(context.Background(), db.PinState{Pin: 5, State: true, Value: 255}))

	r, driver := testGpioRouter(t, stateDB)

	r.StartAsync(context.Background())
	defer r.Stop()

	assert.Equal(t, 0, driver.Duty(23))
	assert.Equal(t, 255, driver.Duty(5))

	states, err := stateDB.GetPinStates(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(states))
	assert.Equal(t, 5, states[0].Pin)
}
