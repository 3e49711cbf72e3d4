package util

import (
	"github.com/spf13/viper"
)

const ENV_PREFIX = "ADBCAST"

var Config = viper.New()

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	// set defaults
	Config.SetDefault("adb_path", "adb")
	Config.SetDefault("scrcpy_path", "scrcpy")
	Config.SetDefault("port", 5656)
	Config.SetDefault("max_retries", 3)
	Config.SetDefault("retry_delay", "1s")
	Config.SetDefault("tcpip_settle", "2s")
	Config.SetDefault("server_settle", "1s")
	Config.SetDefault("log_level", "info")

	// config file
	Config.SetConfigName("adbcast")
	Config.AddConfigPath("./")
	Config.AddConfigPath("$HOME/.config/adbcast")
	Config.AddConfigPath("/etc/adbcast")

	err := Config.ReadInConfig()
	if err != nil {
		// running without a config file is the normal case
		Logger.Debug().Msgf("no config file loaded: %v", err)
	}

	// environment variables
	Config.AutomaticEnv()
}
