package main

import (
	"github.com/func/flexconf/config"
	"github.com/func/flexconf/gateway"
	"github.com/func/flexconf/provider/powerflex"
	"github.com/func/flexconf/resource"
	"github.com/func/flexconf/resource/validation"
	"github.com/func/flexconf/runner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func registry() *resource.Registry {
	reg := &resource.Registry{}
	powerflex.Register(reg)
	return reg
}

// setup reads the settings and creates a runner connected to the gateway.
// The returned logger must be synced when done.
func setup(cmd *cobra.Command) (*runner.Runner, *zap.Logger, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	s, err := config.ReadSettings(settings, file)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(s.Log)
	if err != nil {
		return nil, nil, err
	}

	cli := &gateway.Client{
		Endpoint:   s.Gateway.Endpoint,
		Username:   s.Gateway.Username,
		Password:   s.Gateway.Password,
		HTTPClient: gateway.NewHTTPClient(s.Gateway.Insecure, s.Gateway.Timeout),
		Logger:     logger.Named("gateway"),
	}

	r := &runner.Runner{
		Client:   cli,
		Registry: registry(),
		Decoder:  &resource.Decoder{Validator: validation.New()},
		Logger:   logger,
	}
	return r, logger, nil
}

// newLogger creates a logger writing to stderr, keeping stdout for results.
func newLogger(s config.LogSettings) (*zap.Logger, error) {
	var cfg zap.Config
	if s.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	lvl, err := zap.ParseAtomicLevel(s.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
