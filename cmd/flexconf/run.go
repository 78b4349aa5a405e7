package main

import (
	"context"
	"io"
	"os"

	"github.com/func/flexconf/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run <type> [params.json]",
	Short: "Reconcile a single resource",
	Long: `Reconcile a single resource.

Parameters are read as a JSON object from params.json, or from stdin if no
file is given or the file is "-". Parameters set with --param override the
ones read from JSON.`,
	Example: `  flexconf run fault_set params.json
  echo '{"fault_set_name": "rack1", "protection_domain_name": "pd1"}' | flexconf run fault_set
  flexconf run sdc --param sdc_id=abc --param sdc_new_name=host1 --no-input`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typename := args[0]
		if _, err := registry().Get(typename); err != nil {
			return err
		}

		params, err := readParams(cmd, args[1:])
		if err != nil {
			return err
		}

		r, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() // nolint: errcheck

		ctx := signalContext(context.Background())

		res, err := r.Run(ctx, typename, typename, params)
		if err != nil {
			return failed(err)
		}
		return writeJSON(cmd.OutOrStdout(), res.Details())
	},
}

func init() {
	flags := runCommand.Flags()
	flags.StringToStringP("param", "p", nil, "Set a parameter, as key=value")
	flags.Bool("no-input", false, "Do not read parameters from stdin")
	cmd.AddCommand(runCommand)
}

func readParams(cmd *cobra.Command, args []string) (map[string]interface{}, error) {
	flags := cmd.Flags()
	overrides, err := flags.GetStringToString("param")
	if err != nil {
		return nil, err
	}
	noInput, err := flags.GetBool("no-input")
	if err != nil {
		return nil, err
	}

	params := make(map[string]interface{})
	if len(args) > 0 || !noInput {
		var r io.Reader = cmd.InOrStdin()
		if len(args) > 0 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return nil, errors.Wrap(err, "open parameters")
			}
			defer f.Close() // nolint: errcheck
			r = f
		}
		params, err = config.LoadJSON(r)
		if err != nil {
			return nil, err
		}
	}
	for k, v := range overrides {
		params[k] = v
	}
	return params, nil
}
