package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/opsweep/opsweep/pkg/docker"
)

// Settings every tool resolves through viper: flag first, then an
// OPSWEEP_* environment variable, then ~/.opsweep.yaml, then the default.
const (
	KeyRegions    = "regions"
	KeyMinAgeDays = "min_age_days"
	KeyKeepTags   = "keep_tags"
	KeyNamespace  = "namespace"
)

const envPrefix = "OPSWEEP"

// Load wires viper to the OPSWEEP environment and the optional
// ~/.opsweep.yaml config file.
func Load() {
	viper.SetDefault(KeyMinAgeDays, 30)
	viper.SetDefault(KeyKeepTags, docker.DefaultKeepTags)

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".opsweep")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logrus.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

// Regions returns the default scan regions, empty when unset.
func Regions() []string {
	return viper.GetStringSlice(KeyRegions)
}

// MinAgeDays returns the image age threshold in days.
func MinAgeDays() int {
	return viper.GetInt(KeyMinAgeDays)
}

// KeepTags returns the tag terms that protect images from removal.
func KeepTags() []string {
	return viper.GetStringSlice(KeyKeepTags)
}

// Namespace returns the default namespace, empty for all namespaces.
func Namespace() string {
	return viper.GetString(KeyNamespace)
}
