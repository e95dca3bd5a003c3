package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-llvmopt/llvmopt"
)

func newInspectCmd(configPath *string) *cobra.Command {
	var (
		groupFilter string
		flagFilter  string
		showHidden  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <schema>",
		Short: "List the options a schema defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(*configPath, args[0])
			if err != nil {
				return err
			}

			var flagMask llvmopt.Flags
			if flagFilter != "" {
				flagMask, err = flagMaskFromName(flagFilter)
				if err != nil {
					return err
				}
			}

			bold := color.New(color.Bold)
			dim := color.New(color.Faint)
			for _, o := range table.Options() {
				if o.Kind == llvmopt.KindGroup {
					continue
				}
				if groupFilter != "" && !inGroup(table, o, groupFilter) {
					continue
				}
				eff := table.EffectiveFlags(o.ID)
				if flagMask != 0 && !eff.Has(flagMask) {
					continue
				}
				if eff.Has(llvmopt.FlagHelpHidden) && !showHidden {
					continue
				}

				bold.Fprintf(cmd.OutOrStdout(), "%-28s", o.PrimarySpelling())
				fmt.Fprintf(cmd.OutOrStdout(), " %-20s", describeKind(o))
				if o.IsAlias() {
					target := table.Option(o.Alias)
					dim.Fprintf(cmd.OutOrStdout(), " alias of %s", target.PrimarySpelling())
				}
				if eff != 0 {
					dim.Fprintf(cmd.OutOrStdout(), " [%s]", eff)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&groupFilter, "group", "", "only options in the named group (or a subgroup)")
	cmd.Flags().StringVar(&flagFilter, "flag", "", "only options carrying the named flag")
	cmd.Flags().BoolVar(&showHidden, "hidden", false, "include help-hidden options")
	return cmd
}

// inGroup walks the group chain so filtering by a parent group also
// catches options declared under its subgroups.
func inGroup(t *llvmopt.Table, o llvmopt.Option, name string) bool {
	for id := o.Group; id != llvmopt.NoOption; {
		g := t.Option(id)
		if g == nil {
			return false
		}
		if g.Name == name {
			return true
		}
		id = g.Group
	}
	return false
}

func describeKind(o llvmopt.Option) string {
	if o.Kind == llvmopt.KindMultiArg {
		return fmt.Sprintf("multi_arg(%d)", o.NumArgs)
	}
	return o.Kind.String()
}

func flagMaskFromName(name string) (llvmopt.Flags, error) {
	switch strings.ToLower(name) {
	case "help_hidden", "hidden":
		return llvmopt.FlagHelpHidden, nil
	case "case_insensitive":
		return llvmopt.FlagCaseInsensitive, nil
	case "render_joined":
		return llvmopt.FlagRenderJoined, nil
	case "unsupported":
		return llvmopt.FlagUnsupported, nil
	}
	return 0, fmt.Errorf("unknown flag name %q", name)
}
