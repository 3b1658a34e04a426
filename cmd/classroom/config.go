package main

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Logger    loggerConf
	Port      int
	Broadcast broadcastConf
	Heartbeat heartbeatConf
}

type loggerConf struct {
	Level string
}

type broadcastConf struct {
	TickMs int
}

type heartbeatConf struct {
	ReapIntervalSec int
	StaleAfterSec   int
}

// LoadConfig reads settings from an optional JSON config file, with
// CLASSROOM_* environment variables taking precedence over file values.
func LoadConfig(path string) (Config, error) {
	config := Config{}

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("port", 3001)
	viper.SetDefault("broadcast.tickms", 33)
	viper.SetDefault("heartbeat.reapintervalsec", 5)
	viper.SetDefault("heartbeat.staleaftersec", 10)

	viper.SetEnvPrefix("classroom")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)

		if err := viper.ReadInConfig(); err != nil {
			return config, err
		}
	}

	err := viper.Unmarshal(&config)
	return config, err
}
