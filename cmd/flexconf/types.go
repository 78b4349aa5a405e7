package main

import (
	"fmt"

	"github.com/func/flexconf/resource/compat"
	"github.com/spf13/cobra"
)

var typesCommand = &cobra.Command{
	Use:   "types",
	Short: "List supported resource types",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg := registry()
		for _, name := range reg.Types() {
			desc, _ := reg.Get(name)
			gate := compat.ForDescriptor(desc)
			if gate.Open() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (gateway %s)\n", name, gate)
		}
	},
}

func init() {
	cmd.AddCommand(typesCommand)
}
