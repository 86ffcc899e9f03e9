package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Classify ClassifyConfig `mapstructure:"classify"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type GitHubConfig struct {
	ClientID        string        `mapstructure:"client_id"`
	ClientSecret    string        `mapstructure:"client_secret"`
	RedirectURL     string        `mapstructure:"redirect_url"`
	GraphQLEndpoint string        `mapstructure:"graphql_endpoint"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

type SnapshotConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ClassifyConfig holds the auto-classification literals; they are
// configuration rather than code so the cascade can be retargeted without
// a rebuild.
type ClassifyConfig struct {
	UberRepo      string `mapstructure:"uber_repo"`
	UberKeyword   string `mapstructure:"uber_keyword"`
	PriorityOwner string `mapstructure:"priority_owner"`
	HomeOwner     string `mapstructure:"home_owner"`
}

func (c ClassifyConfig) Rules() worklist.Rules {
	return worklist.Rules{
		UberRepo:      c.UberRepo,
		UberKeyword:   c.UberKeyword,
		PriorityOwner: c.PriorityOwner,
		HomeOwner:     c.HomeOwner,
	}
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(logCtx, v)

	v.SetEnvPrefix("WIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("addr", cfg.Server.Addr),
		slog.String("database_driver", cfg.Database.Driver),
	)

	return cfg, nil
}

func setDefaults(ctx context.Context, v *viper.Viper) {
	if ctx == nil {
		return
	}

	v.SetDefault("app.name", "wip-tracker")
	v.SetDefault("app.env", "local")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/wip.sqlite")
	v.SetDefault("github.graphql_endpoint", "https://api.github.com/graphql")
	v.SetDefault("github.cache_ttl", 5*time.Minute)
	v.SetDefault("snapshot.ttl", time.Hour)
	v.SetDefault("classify.uber_repo", "home-assistant/core")
	v.SetDefault("classify.uber_keyword", "teslemetry")
	v.SetDefault("classify.priority_owner", "teslemetry")
	v.SetDefault("classify.home_owner", "home-assistant")
}
