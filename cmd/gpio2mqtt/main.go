package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"github.com/iotbridge/gpio2mqtt/internal/db"
	"github.com/iotbridge/gpio2mqtt/internal/diag"
	"github.com/iotbridge/gpio2mqtt/internal/gpio"
	"github.com/iotbridge/gpio2mqtt/internal/logger"
	"github.com/iotbridge/gpio2mqtt/internal/mqtt"
	"github.com/iotbridge/gpio2mqtt/internal/router"
	"github.com/iotbridge/gpio2mqtt/internal/sensor"
	"github.com/iotbridge/gpio2mqtt/internal/types"
	"github.com/iotbridge/gpio2mqtt/internal/utils"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootLogger := logger.GetLogger("[main]", logger.LogLevelError)

	var configFile = flag.String("c", "./configuration.yaml", "path to config file name")
	var dataDir = flag.String("d", "./data", "path to the pin state database directory")
	flag.Parse()

	configService, err := configuration.Init(*configFile)
	if err != nil {
		bootLogger.Error("Configuration initialization error: %v", err)
		os.Exit(1)
	}

	cfg := configService.GetConfiguration()

	logWriter, logDispose, err := diag.NewLogWriter(cfg.DebugConfiguration)
	if err != nil {
		bootLogger.Warn("Serial console unavailable, logging to stdout only: %v", err)
		logWriter = os.Stdout
		logDispose = func() {}
	}
	defer logDispose()

	mainLogger := logger.GetLoggerTo(logWriter, "[main]", cfg.LogLevel)

	pinStateDB, err := db.NewPinStateDB(*dataDir)
	if err != nil {
		mainLogger.Error("db initialization error: %v", err)
		os.Exit(1)
	}
	defer pinStateDB.Close(ctx)

	driver := newDriver(mainLogger)
	defer driver.Close()

	controller, err := gpio.NewController(cfg.GpioConfiguration,
		driver,
		logger.GetLoggerTo(logWriter, "[GPIO Controller]", cfg.LogLevel))
	if err != nil {
		mainLogger.Error("GPIO initialization error: %v", err)
		os.Exit(1)
	}

	reader, err := sensor.NewDHTReader(cfg.SensorConfiguration, "")
	if err != nil {
		mainLogger.Error("Sensor initialization error: %v", err)
		os.Exit(1)
	}
	poller := sensor.NewPoller(cfg.SensorConfiguration, reader,
		logger.GetLoggerTo(logWriter, "[Sensor Poller]", cfg.LogLevel))

	mqttClient, mqttDisconnect, err := mqtt.NewClient(&cfg,
		logger.GetLoggerTo(logWriter, "[MQTT Client]", cfg.LogLevel))
	if err != nil {
		mainLogger.Error("MQTT initialization error: %v", err)
		os.Exit(1)
	}
	defer mqttDisconnect()

	mqttRouter := router.NewMQTTRouter(configService, mqttClient,
		logger.GetLoggerTo(logWriter, "[MQTT Router]", cfg.LogLevel))
	gpioRouter := router.NewGpioRouter(controller, poller, pinStateDB,
		logger.GetLoggerTo(logWriter, "[GPIO Router]", cfg.LogLevel))

	setupSubscriptions(ctx, configService, mqttRouter, gpioRouter, mainLogger)

	gpioRouter.StartAsync(ctx)
	defer gpioRouter.Stop()

	waitForInterruptSignal()

	mainLogger.Info("exiting app...")
}

// newDriver picks the sysfs GPIO bank when the host has one and falls
// back to the in-memory driver for dry runs on development machines.
func newDriver(log1 logger.Logger) gpio.Driver {
	if gpio.Available() {
		return gpio.NewSysfsDriver("")
	}

	log1.Warn("no GPIO bank found on this host, running with the in-memory driver")
	return gpio.NewMemoryDriver()
}

func setupSubscriptions(
	ctx context.Context,
	configService configuration.ConfigurationService,
	mqttRouter router.MQTTRouter,
	gpioRouter router.GpioRouter,
	log1 logger.Logger) {
	mqttRouter.SubscribeOnPinCommand(func(cmd types.PinCommandMessage) {
		gpioRouter.ProcessPinCommand(ctx, cmd)
	})
	mqttRouter.SubscribeOnConfigSet(func(update types.ConfigSetMessage) {
		cfg := configService.GetConfiguration()
		utils.SetStructProperties(update, &cfg)
		if err := configService.Update(cfg); err != nil {
			log1.Error("applying config/set update: %v", err)
			return
		}
		log1.Info("configuration updated via config/set")
	})
	gpioRouter.SubscribeOnPinChange(func(state types.PinStateMessage) {
		mqttRouter.PublishPinState(state)
	})
	gpioRouter.SubscribeOnCommandError(func(cmd types.PinCommandMessage, err error) {
		mqttRouter.PublishBridgeStatus(types.BridgeStatusMessage{
			Status:   "command_rejected",
			ClientID: configService.GetConfiguration().MqttConfiguration.ClientID,
			Error:    err.Error(),
		})
	})
	gpioRouter.SubscribeOnSensorReport(func(r sensor.Reading) {
		mqttRouter.PublishTelemetry(types.TelemetryMessage{
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			SensorType:  configService.GetConfiguration().SensorConfiguration.SensorType,
			Timestamp:   r.ReadAt,
		})
	})
}

func waitForInterruptSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigchan)
	}()
	<-sigchan
}
