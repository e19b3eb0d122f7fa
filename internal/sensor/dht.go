package sensor

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
)

const defaultIIOBase = "/sys/bus/iio/devices/iio:device0"

// NewDHTReader reads a DHT11/DHT22 attached through the kernel's dht11 IIO
// driver, which exposes millidegree/millipercent values under sysfs.
// basePath overrides the IIO device directory, tests point it at a temp dir.
func NewDHTReader(config configuration.SensorConfiguration, basePath string) (Reader, error) {
	if config.SensorType != configuration.SensorTypeDHT11 && config.SensorType != configuration.SensorTypeDHT22 {
		return nil, fmt.Errorf("unsupported sensor type %q", config.SensorType)
	}
	if basePath == "" {
		basePath = defaultIIOBase
	}

	return &dhtReader{
		sensorType:   config.SensorType,
		tempPath:     filepath.Join(basePath, "in_temp_input"),
		humidityPath: filepath.Join(basePath, "in_humidityrelative_input"),
	}, nil
}

type dhtReader struct {
	sensorType   string
	tempPath     string
	humidityPath string
}

func (r *dhtReader) Read() (Reading, error) {
	temp, err := readMilliValue(r.tempPath)
	if err != nil {
		return Reading{}, fmt.Errorf("reading temperature: %w", err)
	}

	humidity, err := readMilliValue(r.humidityPath)
	if err != nil {
		return Reading{}, fmt.Errorf("reading humidity: %w", err)
	}

	// the DHT11 only resolves whole degrees/percent
	if r.sensorType == configuration.SensorTypeDHT11 {
		temp = math.Round(temp)
		humidity = math.Round(humidity)
	}

	return Reading{
		Temperature: temp,
		Humidity:    humidity,
		ReadAt:      time.Now(),
	}, nil
}

func readMilliValue(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	raw, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %v: %w", path, err)
	}

	return raw / 1000, nil
}
