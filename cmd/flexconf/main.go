package main

import (
	"fmt"
	"os"

	"github.com/func/flexconf/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cmd = &cobra.Command{
	Use:           "flexconf",
	Short:         "Reconcile storage platform resources to a desired state",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// settings holds gateway and log settings from flags, environment and the
// config file.
var settings = viper.New()

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	if e, ok := err.(*exitError); ok {
		if e.Err != nil {
			fmt.Fprintln(os.Stderr, e.Err)
		}
		os.Exit(e.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	config.SetDefaults(settings)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Settings file (default ./flexconf.yaml)")
	flags.String("endpoint", "", "Gateway endpoint. Env var: FLEXCONF_GATEWAY_ENDPOINT")
	flags.String("username", "", "Gateway username. Env var: FLEXCONF_GATEWAY_USERNAME")
	flags.String("password", "", "Gateway password. Env var: FLEXCONF_GATEWAY_PASSWORD")
	flags.Bool("insecure", false, "Skip verification of the gateway certificate")
	flags.Duration("timeout", 0, "Request timeout")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"gateway.endpoint": "endpoint",
		"gateway.username": "username",
		"gateway.password": "password",
		"gateway.insecure": "insecure",
		"gateway.timeout":  "timeout",
		"log.level":        "log-level",
	} {
		if err := settings.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// An exitError makes the program exit with Code. If Err is nil, the error
// has already been reported.
type exitError struct {
	Code int
	Err  error
}

func (e *exitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// failed is returned when reconciliation fails, as opposed to invalid usage.
func failed(err error) error {
	return &exitError{Code: 2, Err: err}
}
