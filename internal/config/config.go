package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/internal/postgres"
	tokenfactoryconfig "github.com/ictalent/talent-network/modules/tokenfactory/config"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/ictalent/talent-network/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit bool
	mu     sync.Mutex
	config = defaultConfig()
)

func defaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		Store: kvstore.Config{
			Backend: kvstore.BackendPostgres,
		},
	}
}

type Config struct {
	Logger     logger.Config    `mapstructure:"logger"`
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`
	Store      kvstore.Config   `mapstructure:"store"`
	Postgres   postgres.Config  `mapstructure:"postgres"`
	Modules    Modules          `mapstructure:"modules"`
}

type Modules struct {
	TokenFactory tokenfactoryconfig.Config `mapstructure:"tokenfactory"`
}

type HTTPServerConfig struct {
	Port   int                  `mapstructure:"port"`
	Logger requestlogger.Config `mapstructure:"logger"`

	// ProxyHeader is the header carrying the client IP when the server runs behind a proxy, e.g. X-Real-IP.
	ProxyHeader string `mapstructure:"proxy_header"`
}

// Parse parse the configuration from environment variables and the config file.
// configFile may be empty, then `./config.yaml` is used if it exists.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

// Load returns the loaded configuration, parsing it from the default sources on first use.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	config.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

// SetDefault sets the default value for this key.
// Default only used when no value is provided by the user via flag, config or ENV.
func SetDefault(key string, value any) {
	viper.SetDefault(key, value)
}
