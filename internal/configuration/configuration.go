package configuration

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Default returns the configuration the bridge ships with. Credentials are
// placeholders and have to be replaced before the bridge will start.
func Default() Configuration {
	return Configuration{
		NetworkConfiguration: NetworkConfiguration{
			SSID:             "<your_wifi_ssid>",
			Password:         "<your_wifi_password>",
			ConnectTimeoutMs: 20000,
		},
		MqttConfiguration: MqttConfiguration{
			Address:          "<your_mqtt_broker>",
			Port:             8883,
			ClientID:         "gpio2mqtt_bridge",
			Username:         "",
			Password:         "",
			ReconnectDelayMs: 5000,
			TopicPrefix:      "esp32/gpio",
			UseTLS:           true,
			TLSInsecure:      false,
		},
		GpioConfiguration: GpioConfiguration{
			ControlPins: []int{5, 15, 17, 18},
		},
		SensorConfiguration: SensorConfiguration{
			Pin:            4,
			SensorType:     SensorTypeDHT22,
			PollIntervalMs: 30000,
		},
		DebugConfiguration: DebugConfiguration{
			Enabled:        true,
			SerialPort:     "",
			SerialBaudRate: 115200,
		},
		LogLevel: 2,
	}
}

func Init(filename string) (ConfigurationService, error) {
	// a .env file is optional, same as running without one
	godotenv.Load()

	svc := configurationService{
		filename: filename,
	}

	fileCfg := Default()

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		// the file on disk gets the plain defaults, env-sourced
		// secrets stay in memory only
		svc.fileConfiguration = fileCfg
		if err := svc.save(); err != nil {
			return nil, fmt.Errorf("writing default configuration to %v: %w", filename, err)
		}

		cfg := fileCfg
		applyEnvOverrides(&cfg)
		svc.configuration = cfg
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("default configuration written to %v, edit it first: %w", filename, err)
		}
		return &svc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %v: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing configuration file %v: %w", filename, err)
	}

	cfg := fileCfg
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %v: %w", filename, err)
	}

	svc.fileConfiguration = fileCfg
	svc.configuration = cfg
	return &svc, nil
}

// applyEnvOverrides lets deployments keep secrets out of the YAML file.
// The variable names match the ones the firmware's companion tooling uses.
func applyEnvOverrides(cfg *Configuration) {
	if v := os.Getenv("WIFI_SSID"); v != "" {
		cfg.NetworkConfiguration.SSID = v
	}
	if v := os.Getenv("WIFI_PASSWORD"); v != "" {
		cfg.NetworkConfiguration.Password = v
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		cfg.MqttConfiguration.Address = v
	}
	if v := os.Getenv("MQTT_PORT"); v != "" {
		if port, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.MqttConfiguration.Port = uint16(port)
		}
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		cfg.MqttConfiguration.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.MqttConfiguration.Password = v
	}
}

// stripEnvOverrides keeps env-sourced values out of the persisted file.
// Fields currently driven by an env var keep their on-disk value, the
// override continues to win in memory.
func stripEnvOverrides(cfg Configuration, fileCfg Configuration) Configuration {
	if os.Getenv("WIFI_SSID") != "" {
		cfg.NetworkConfiguration.SSID = fileCfg.NetworkConfiguration.SSID
	}
	if os.Getenv("WIFI_PASSWORD") != "" {
		cfg.NetworkConfiguration.Password = fileCfg.NetworkConfiguration.Password
	}
	if os.Getenv("MQTT_BROKER") != "" {
		cfg.MqttConfiguration.Address = fileCfg.MqttConfiguration.Address
	}
	if os.Getenv("MQTT_PORT") != "" {
		cfg.MqttConfiguration.Port = fileCfg.MqttConfiguration.Port
	}
	if os.Getenv("MQTT_USERNAME") != "" {
		cfg.MqttConfiguration.Username = fileCfg.MqttConfiguration.Username
	}
	if os.Getenv("MQTT_PASSWORD") != "" {
		cfg.MqttConfiguration.Password = fileCfg.MqttConfiguration.Password
	}
	return cfg
}

type configurationService struct {
	configuration     Configuration // effective, with env overrides applied
	fileConfiguration Configuration // what save() persists
	filename          string
	mtx               sync.RWMutex
}

func (s *configurationService) GetConfiguration() Configuration {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.configuration
}

func (s *configurationService) Update(updatedConfig Configuration) error {
	if err := updatedConfig.Validate(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.configuration = updatedConfig
	s.fileConfiguration = stripEnvOverrides(updatedConfig, s.fileConfiguration)
	return s.save()
}

func (s *configurationService) save() error {
	data, err := yaml.Marshal(s.fileConfiguration)
	if err != nil {
		return err
	}

	return os.WriteFile(s.filename, data, 0644)
}
