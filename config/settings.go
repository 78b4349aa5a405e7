package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	validator "gopkg.in/go-playground/validator.v9"
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "flexconf"

// Settings are the connection and logging settings of an invocation.
type Settings struct {
	Gateway GatewaySettings `mapstructure:"gateway"`
	Log     LogSettings     `mapstructure:"log"`
}

// GatewaySettings configure the connection to the gateway.
type GatewaySettings struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Username string        `mapstructure:"username" validate:"required"`
	Password string        `mapstructure:"password" validate:"required"`
	Insecure bool          `mapstructure:"insecure"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LogSettings configure logging.
type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// SetDefaults sets the default settings on v and enables environment
// overrides, for example FLEXCONF_GATEWAY_ENDPOINT.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gateway.endpoint", "")
	v.SetDefault("gateway.username", "")
	v.SetDefault("gateway.password", "")
	v.SetDefault("gateway.insecure", false)
	v.SetDefault("gateway.timeout", "2m")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadSettings reads settings from v. If file is set, it is read first; a
// missing default config file is not an error.
func ReadSettings(v *viper.Viper, file string) (*Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("flexconf")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &s, nil
}

// Validate checks that the settings can be used to connect.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Settings."))
			}
			return errors.Errorf("invalid settings: %s", strings.Join(fields, ", "))
		}
		return errors.Wrap(err, "validate settings")
	}
	return nil
}
