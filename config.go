package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Config of the panel client, read from the environment and overridden by flags
type Config struct {
	Host        string `env:"HOST"`
	Path        string `env:"PATH"         envDefault:"/ws"`
	SSL         bool   `env:"SSL"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	MetricsAddr string `env:"METRICS_ADDR"`
	Plain       bool   `env:"PLAIN"`
}

const envPrefix = "ALARMPANEL_"

func loadConfig(environment map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: envPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("could not parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Host, "host", c.Host, "panel server host[:port] ("+envPrefix+"HOST)")
	flags.StringVar(&c.Path, "path", c.Path, "websocket path on the panel server")
	flags.BoolVar(&c.SSL, "ssl", c.SSL, "connect with wss")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "trace, debug, info, warn or error")
	flags.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file, default is stderr in plain mode and discard in the terminal UI")
	flags.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve /metrics and /healthz on this address")
	flags.BoolVar(&c.Plain, "plain", c.Plain, "log every status instead of running the terminal UI")
}

func (c Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required, use --host or %sHOST", envPrefix)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
