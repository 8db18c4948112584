// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

// Config holds settings loaded from a YAML config file. Command-line flags
// take precedence over config file values.
type Config struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`

	FailsafeTimeoutMS  int  `yaml:"failsafe_timeout_ms"`
	SkipChecksumVerify bool `yaml:"skip_checksum_verify"`

	MQTT MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig holds broker settings for the bridge command.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Baud:              crsf.DefaultBaudRate,
		FailsafeTimeoutMS: int(crsf.DefaultFailsafeTimeout / time.Millisecond),
		MQTT: MQTTConfig{
			Topic: "crsflink",
		},
	}
}

// configSearchPaths lists the locations checked when --config is not given.
func configSearchPaths() []string {
	paths := []string{"crsflink.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "crsflink", "config.yaml"))
	}
	return paths
}

// LoadConfig reads a config file. With an explicit path a missing or
// malformed file is an error; otherwise the search paths are tried in order
// and defaults are returned when none exist.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		return readConfigFile(path)
	}

	for _, candidate := range configSearchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return readConfigFile(candidate)
		}
	}

	return DefaultConfig(), nil
}

func readConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig unmarshals YAML config data on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Baud < 0 {
		return Config{}, fmt.Errorf("invalid baud rate %d", config.Baud)
	}
	if config.FailsafeTimeoutMS < 0 {
		return Config{}, fmt.Errorf("invalid failsafe timeout %dms", config.FailsafeTimeoutMS)
	}

	return config, nil
}

// FailsafeTimeout returns the configured failsafe window as a duration.
func (c Config) FailsafeTimeout() time.Duration {
	if c.FailsafeTimeoutMS == 0 {
		return crsf.DefaultFailsafeTimeout
	}
	return time.Duration(c.FailsafeTimeoutMS) * time.Millisecond
}
