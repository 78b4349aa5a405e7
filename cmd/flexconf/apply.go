package main

import (
	"context"
	"os"

	"github.com/func/flexconf/config"
	"github.com/func/flexconf/runner"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/spf13/cobra"
)

var applyCommand = &cobra.Command{
	Use:   "apply [path]",
	Short: "Reconcile all resources declared in a file or directory",
	Long: `Reconcile all resources declared in a file or directory.

If path is a directory, all .hcl files in it are loaded, including sub
directories. Resources are reconciled one at a time, ordered by file name and
position in the file. The first failure stops the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		loader := &config.Loader{}
		doc, diags := load(loader, path)
		if diags.HasErrors() {
			loader.WriteDiagnostics(os.Stderr, diags)
			return &exitError{Code: 1}
		}

		r, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() // nolint: errcheck

		ctx := signalContext(context.Background())

		results, err := r.Apply(ctx, doc)
		if werr := writeResults(cmd.OutOrStdout(), results); werr != nil {
			return failed(werr)
		}
		if err != nil {
			if te, ok := err.(*runner.TaskError); ok {
				loader.WriteDiagnostics(os.Stderr, te.Diagnostics())
				return &exitError{Code: 2}
			}
			return failed(err)
		}
		return nil
	},
}

func init() {
	cmd.AddCommand(applyCommand)
}

func load(loader *config.Loader, path string) (*config.Document, hcl.Diagnostics) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: err.Error()}}
	}
	if fi.IsDir() {
		return loader.Load(path)
	}
	return loader.LoadFile(path)
}
