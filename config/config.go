package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	Database struct {
		File string `mapstructure:"file"`
	} `mapstructure:"database"`
	Log struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`
	Printer struct {
		Command string `mapstructure:"command"`
	} `mapstructure:"printer"`
	Currency struct {
		Default string `mapstructure:"default"`
	} `mapstructure:"currency"`
}

var AppConfig Config

// LoadConfig fills AppConfig from defaults, an optional config.yml in the data
// directory, and KIDBANK_-prefixed environment variables. The app must run on a
// fresh machine, so a missing config file is not an error.
func LoadConfig() {
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("database.file", "kidbank.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "kidbank.log")
	viper.SetDefault("printer.command", "lp")
	viper.SetDefault("currency.default", "USD")

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(viper.GetString("data_dir"))

	viper.SetEnvPrefix("kidbank")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// DatabasePath returns the absolute path of the sqlite file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.Database.File)
}

// LogPath returns the absolute path of the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.Log.File)
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "kidbank")
}
