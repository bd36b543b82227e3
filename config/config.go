// Package config holds the runtime settings of the simulator and viewer.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the settings file looked up in the config directory.
const FileName = "guardsim"

// Settings is the resolved view of the viper keys.
type Settings struct {
	Level      string
	Seed       uint64
	TickRate   int
	MaxTicks   int
	LogLevel   string
	LogFormat  string
	PrefabsDir string
	Journal    JournalSettings
}

type JournalSettings struct {
	Enabled bool
	Path    string
}

// Load sets defaults and reads guardsim.yaml from configDir. A missing file
// leaves the defaults in place.
func Load(configDir string) error {
	viper.SetDefault("level", "vault")
	viper.SetDefault("seed", 1)
	viper.SetDefault("tickRate", 30)
	viper.SetDefault("maxTicks", 30*60*5)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "console")
	viper.SetDefault("prefabsDir", "prefabs")

	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.path", "guardsim.db")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current returns the settings as they stand after Load and any overrides.
func Current() Settings {
	return Settings{
		Level:      viper.GetString("level"),
		Seed:       viper.GetUint64("seed"),
		TickRate:   viper.GetInt("tickRate"),
		MaxTicks:   viper.GetInt("maxTicks"),
		LogLevel:   viper.GetString("logLevel"),
		LogFormat:  viper.GetString("logFormat"),
		PrefabsDir: viper.GetString("prefabsDir"),
		Journal: JournalSettings{
			Enabled: viper.GetBool("journal.enabled"),
			Path:    viper.GetString("journal.path"),
		},
	}
}

// Set overrides a key, e.g. from a command line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}

// TickInterval is the fixed step matching TickRate.
func (s Settings) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(s.TickRate)
}

// DeltaTime is TickInterval in seconds.
func (s Settings) DeltaTime() float64 {
	return s.TickInterval().Seconds()
}
