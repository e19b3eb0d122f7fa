package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/stretchr/testify/assert"
)

func writeIIOFiles(t *testing.T, temp, humidity string) string {
	base := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(base, "in_temp_input"), []byte(temp), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(base, "in_humidityrelative_input"), []byte(humidity), 0644))
	return base
}

func TestDHT22Read(t *testing.T) {
	base := writeIIOFiles(t, "23400\n", "51200\n")

	reader, err := NewDHTReader(configuration.SensorConfiguration{
		Pin:            4,
		SensorType:     configuration.SensorTypeDHT22,
		PollIntervalMs: 1000,
	}, base)
	assert.NoError(t, err)

	reading, err := reader.Read()
	assert.NoError(t, err)
	assert.InDelta(t, 23.4, reading.Temperature, 0.001)
	assert.InDelta(t, 51.2, reading.Humidity, 0.001)
	assert.False(t, reading.ReadAt.IsZero())
}

func TestDHT11RoundsToWholeUnits(t *testing.T) {
	base := writeIIOFiles(t, "23400\n", "51600\n")

	reader, err := NewDHTReader(configuration.SensorConfiguration{
		Pin:            4,
		SensorType:     configuration.SensorTypeDHT11,
		PollIntervalMs: 1000,
	}, base)
	assert.NoError(t, err)

	reading, err := reader.Read()
	assert.NoError(t, err)
	assert.Equal(t, 23.0, reading.Temperature)
	assert.Equal(t, 52.0, reading.Humidity)
}

func TestNewDHTReaderRejectsUnknownType(t *testing.T) {
	_, err := NewDHTReader(configuration.SensorConfiguration{SensorType: "BME280"}, "")
	assert.Error(t, err)
}

type fakeReader struct {
	readings chan Reading
	err      error
}

func (r *fakeReader) Read() (Reading, error) {
	if r.err != nil {
		return Reading{}, r.err
	}
	return <-r.readings, nil
}

func TestPollerDeliversReadings(t *testing.T) {
	readings := make(chan Reading, 1)
	readings <- Reading{Temperature: 20.5, Humidity: 40, ReadAt: time.Now()}

	poller := NewPoller(configuration.SensorConfiguration{PollIntervalMs: 10},
		&fakeReader{readings: readings},
		logger.GetLogger("[test]", logger.LogLevelError))

	received := make(chan Reading, 1)
	poller.SubscribeOnReading(func(r Reading) {
		select {
		case received <- r:
		default:
		}
	})

	poller.StartAsync(context.Background())
	defer poller.Stop()

	select {
	case r := <-received:
		assert.Equal(t, 20.5, r.Temperature)
	case <-time.After(2 * time.Second):
		t.Fatal("no reading delivered")
	}
}

func TestPollerSurvivesReadErrors(t *testing.T) {
	poller := NewPoller(configuration.SensorConfiguration{PollIntervalMs: 5},
		&fakeReader{err: errors.New("checksum mismatch")},
		logger.GetLogger("[test]", logger.LogLevelError))

	poller.StartAsync(context.Background())
	time.Sleep(30 * time.Millisecond)
	poller.Stop()
}
