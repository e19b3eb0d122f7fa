package sensor

import (
	"context"
	"time"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
)

// Poller reads the sensor on the configured interval and hands readings
// to a callback. Failed reads are logged and skipped, DHT sensors
// routinely miss a read.
type Poller struct {
	reader    Reader
	interval  time.Duration
	onReading func(r Reading)
	logger    logger.Logger
	cancel    context.CancelFunc
}

func NewPoller(config configuration.SensorConfiguration, reader Reader, log1 logger.Logger) *Poller {
	return &Poller{
		reader:   reader,
		interval: time.Duration(config.PollIntervalMs) * time.Millisecond,
		logger:   log1,
	}
}

func (p *Poller) SubscribeOnReading(callback func(r Reading)) {
	p.onReading = callback
}

func (p *Poller) StartAsync(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reading, err := p.reader.Read()
			if err != nil {
				p.logger.Warn("sensor read failed: %v", err)
				continue
			}
			if p.onReading != nil {
				p.onReading(reading)
			}
		}
	}
}
