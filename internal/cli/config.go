package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "gomodel"
	configFileType = "yaml"
	envPrefix      = "GOMODEL"

	cfgKeyFormat   = "format"
	cfgKeyLanguage = "language"
	cfgKeyVerbose  = "verbose"
)

// loadConfig reads gomodel.yaml from the working directory, or path when
// given, with GOMODEL_* environment overrides. A missing default config file
// is not an error; a missing explicit one is.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFormat, "text")
	v.SetDefault(cfgKeyLanguage, "en")
	v.SetDefault(cfgKeyVerbose, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
