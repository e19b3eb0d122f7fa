package gpio

import (
	"fmt"
	"sync"
)

// NewMemoryDriver returns a driver that only tracks pin levels in memory.
// It backs tests and dry runs on hosts without a GPIO bank.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		pins: make(map[int]int),
	}
}

type MemoryDriver struct {
	pins map[int]int
	mtx  sync.Mutex
}

func (d *MemoryDriver) Setup(pin int) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if _, ok := d.pins[pin]; !ok {
		d.pins[pin] = 0
	}
	return nil
}

func (d *MemoryDriver) Write(pin int, state bool) error {
	duty := 0
	if state {
		duty = MaxDuty
	}
	return d.WritePWM(pin, duty)
}

func (d *MemoryDriver) WritePWM(pin int, duty int) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if _, ok := d.pins[pin]; !ok {
		return fmt.Errorf("gpio %v is not set up", pin)
	}

	d.pins[pin] = duty
	return nil
}

func (d *MemoryDriver) Read(pin int) (bool, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	duty, ok := d.pins[pin]
	if !ok {
		return false, fmt.Errorf("gpio %v is not set up", pin)
	}

	return duty > 0, nil
}

// Duty returns the raw PWM level, used by tests.
func (d *MemoryDriver) Duty(pin int) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.pins[pin]
}

func (d *MemoryDriver) Close() error {
	return nil
}
