package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultSysfsBase = "/sys/class/gpio"

// NewSysfsDriver drives pins through the kernel's sysfs GPIO interface.
// basePath is normally /sys/class/gpio, tests point it at a temp dir.
func NewSysfsDriver(basePath string) Driver {
	if basePath == "" {
		basePath = defaultSysfsBase
	}
	return &sysfsDriver{basePath: basePath}
}

// Available reports whether the sysfs GPIO interface exists on this host.
func Available() bool {
	_, err := os.Stat(defaultSysfsBase)
	return err == nil
}

type sysfsDriver struct {
	basePath string
}

func (d *sysfsDriver) pinPath(pin int) string {
	return filepath.Join(d.basePath, fmt.Sprintf("gpio%d", pin))
}

func (d *sysfsDriver) Setup(pin int) error {
	if _, err := os.Stat(d.pinPath(pin)); os.IsNotExist(err) {
		exportPath := filepath.Join(d.basePath, "export")
		if err := os.WriteFile(exportPath, []byte(strconv.Itoa(pin)), 0644); err != nil {
			return fmt.Errorf("exporting gpio %v: %w", pin, err)
		}
		// the kernel needs a moment to create the pin directory
		time.Sleep(50 * time.Millisecond)
	}

	directionPath := filepath.Join(d.pinPath(pin), "direction")
	if err := os.WriteFile(directionPath, []byte("out"), 0644); err != nil {
		return fmt.Errorf("setting gpio %v direction: %w", pin, err)
	}

	return nil
}

func (d *sysfsDriver) Write(pin int, state bool) error {
	value := "0"
	if state {
		value = "1"
	}

	valuePath := filepath.Join(d.pinPath(pin), "value")
	if err := os.WriteFile(valuePath, []byte(value), 0644); err != nil {
		return fmt.Errorf("writing gpio %v: %w", pin, err)
	}

	return nil
}

// WritePWM on sysfs has no hardware PWM behind it, any non-zero duty
// drives the line high.
func (d *sysfsDriver) WritePWM(pin int, duty int) error {
	return d.Write(pin, duty > 0)
}

func (d *sysfsDriver) Read(pin int) (bool, error) {
	valuePath := filepath.Join(d.pinPath(pin), "value")
	data, err := os.ReadFile(valuePath)
	if err != nil {
		return false, fmt.Errorf("reading gpio %v: %w", pin, err)
	}

	return strings.TrimSpace(string(data)) == "1", nil
}

func (d *sysfsDriver) Close() error {
	return nil
}
