package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDataDir  = ".orbitsim"
	DefaultLogLevel = "info"
	EnvPrefix       = "ORBITSIM"
	settingsFile    = "orbitsim.yaml"
)

// Settings are the options shared by every command. Each one is taken from
// the command line, then ORBITSIM_* variables, then an orbitsim.yaml file
// in one of the search paths.
type Settings struct {
	DataDir  string `mapstructure:"data"`
	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`
}

func LoadSettings(flags *pflag.FlagSet, paths ...string) (Settings, error) {
	v := viper.New()
	v.SetDefault("data", DefaultDataDir)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("log-file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := findSettingsFile(paths); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	if flags != nil {
		for _, key := range []string{"data", "log-level", "log-file"} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, err
				}
			}
		}
	}

	return Settings{
		DataDir:  v.GetString("data"),
		LogLevel: v.GetString("log-level"),
		LogFile:  v.GetString("log-file"),
	}, nil
}

// findSettingsFile returns the first orbitsim.yaml found in paths. Only the
// exact file name counts, so a built orbitsim binary next to it is ignored.
func findSettingsFile(paths []string) string {
	for _, dir := range paths {
		file := filepath.Join(dir, settingsFile)
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			return file
		}
	}
	return ""
}
