package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-llvmopt/llvmopt"
)

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema>",
		Short: "Validate a schema document and report every fault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(*configPath, args[0])
			if err != nil {
				printSchemaFaults(cmd, err)
				return fmt.Errorf("schema %s is invalid", args[0])
			}

			groups := 0
			for _, o := range table.Options() {
				if o.Kind == llvmopt.KindGroup {
					groups++
				}
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"%s: %d options, %d groups, %d prefixes\n",
				args[0], table.Len()-groups, groups, len(table.Prefixes()))
			return nil
		},
	}
}

// printSchemaFaults unpacks a construction multierror so each fault
// lands on its own line.
func printSchemaFaults(cmd *cobra.Command, err error) {
	red := color.New(color.FgRed)
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			red.Fprintln(cmd.ErrOrStderr(), e)
		}
		return
	}
	red.Fprintln(cmd.ErrOrStderr(), err)
}
